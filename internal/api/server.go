package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/habitlens/internal/service"
)

type Server struct {
	mx               *chi.Mux
	mu               sync.Mutex
	httpServer       *http.Server
	userService      service.UserServiceI
	habitsService    service.HabitsServiceI
	checkInsService  service.CheckInsServiceI
	analyticsService service.AnalyticsServiceI
	askService       service.AskServiceI
	jwtService       JWTServiceI
	// Upper bound for a single ask request, model call included
	askTimeout time.Duration
}

type ServicesList struct {
	UserService      service.UserServiceI
	HabitsService    service.HabitsServiceI
	CheckInsService  service.CheckInsServiceI
	AnalyticsService service.AnalyticsServiceI
	AskService       service.AskServiceI
	JwtService       JWTServiceI
	AskTimeout       time.Duration
}

const defaultAskTimeout = time.Second * 45

func New(servicesOptions *ServicesList) *Server {
	if servicesOptions == nil {
		log.Fatal("api server: nil services list")
	}
	s := &Server{
		mx:               chi.NewMux(),
		userService:      servicesOptions.UserService,
		habitsService:    servicesOptions.HabitsService,
		checkInsService:  servicesOptions.CheckInsService,
		analyticsService: servicesOptions.AnalyticsService,
		askService:       servicesOptions.AskService,
		jwtService:       servicesOptions.JwtService,
		askTimeout:       servicesOptions.AskTimeout,
	}
	if s.askTimeout <= 0 {
		s.askTimeout = defaultAskTimeout
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Get("/health", s.Health)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.Health)
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/auth/me", s.Me)

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", s.GetHabits)
				r.Post("/", s.CreateHabit)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetHabit)
					r.Put("/", s.UpdateHabit)
					r.Delete("/", s.DeleteHabit)
					r.Post("/logs", s.LogCheckIn)
					r.Get("/logs", s.GetCheckIns)
					r.Delete("/logs/{date}", s.DeleteCheckIn)
					r.Get("/stats", s.GetHabitStats)
				})
			})

			r.Get("/analytics", s.GetAnalytics)
			r.Post("/ai/insights", s.GetInsights)
			r.Post("/ai/ask", s.Ask)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run blocks until the server stops. A graceful Shutdown is not reported as an error.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: time.Second * 10,
		WriteTimeout:      s.askTimeout + time.Second*15,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
