package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/limbo/habitlens/internal/analytics"
	"github.com/limbo/habitlens/internal/api"
	"github.com/limbo/habitlens/internal/llm"
	"github.com/limbo/habitlens/internal/repository"
	"github.com/limbo/habitlens/internal/service"
	"github.com/limbo/habitlens/pkg/cleanup"
	"github.com/limbo/habitlens/pkg/config"
	jwtservice "github.com/limbo/habitlens/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.GetStringOr("TIMEZONE", "UTC"))
	if err != nil {
		log.Fatal("loading timezone error: " + err.Error())
	}
	clock := service.SystemClock(loc)
	settings := loadSettings(cfg)

	connectCtx, cancel := context.WithTimeout(ctx, time.Second*15)
	pool, err := repository.Connect(connectCtx, &repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	})
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	usersRepo := repository.NewUsersRepoWithConn(pool)
	habitsRepo := repository.NewHabitsRepoWithConn(pool)
	checkInsRepo := repository.NewCheckInsRepoWithConn(pool)

	model, err := llm.New(ctx, llmOptions(cfg))
	if err != nil {
		log.Printf("language model client disabled: %v", err)
		model = nil
	}
	completion := service.CompletionOptions{
		MaxTokens:   cfg.GetInt("LLM_MAX_TOKENS", service.DefaultMaxTokens),
		Temperature: cfg.GetFloat("LLM_TEMPERATURE", service.DefaultTemperature),
	}
	llmTimeout := cfg.GetDuration("LLM_TIMEOUT", time.Second*30)

	serv := api.New(&api.ServicesList{
		UserService:      service.NewUserService(usersRepo),
		HabitsService:    service.NewHabitsService(habitsRepo),
		CheckInsService:  service.NewCheckInsService(habitsRepo, checkInsRepo, clock),
		AnalyticsService: service.NewAnalyticsService(habitsRepo, checkInsRepo, settings, clock),
		AskService:       service.NewAskService(habitsRepo, checkInsRepo, model, settings, completion, clock),
		JwtService:       jwtservice.New(cfg.GetString("JWT_SECRET"), cfg.GetDuration("JWT_TTL", jwtservice.DefaultTokenTTL)),
		AskTimeout:       llmTimeout + time.Second*5,
	})
	cleanup.Register(&cleanup.Job{
		Name: "shutting down http server",
		F: func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
			defer cancel()
			return serv.Shutdown(shutdownCtx)
		},
	})

	addr := cfg.GetStringOr("API_ADDRESS", ":8080")
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- serv.Run(addr)
	}()

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err = <-errCh:
		if err != nil {
			log.Println("server error: " + err.Error())
		}
	}
	cleanup.CleanUp()
}

func loadSettings(cfg *config.Config) analytics.Settings {
	s := analytics.DefaultSettings()
	s.AnalyticsWindowDays = cfg.GetInt("ANALYTICS_DEFAULT_WINDOW_DAYS", s.AnalyticsWindowDays)
	s.InsightsWindowDays = cfg.GetInt("INSIGHTS_WINDOW_DAYS", s.InsightsWindowDays)
	s.InsightsMinSample = cfg.GetInt("INSIGHTS_MIN_SAMPLE", s.InsightsMinSample)
	s.ContextMinSample = cfg.GetInt("CONTEXT_MIN_SAMPLE", s.ContextMinSample)
	s.ContextMaxHabits = cfg.GetInt("CONTEXT_MAX_HABITS", s.ContextMaxHabits)
	s.ContextMaxMoods = cfg.GetInt("CONTEXT_MAX_MOODS", s.ContextMaxMoods)
	s.QuestionMaxLength = cfg.GetInt("QUESTION_MAX_LENGTH", s.QuestionMaxLength)
	s.Locale = analytics.ParseLocale(cfg.GetStringOr("INSIGHTS_LOCALE", string(s.Locale)))
	return s
}

func llmOptions(cfg *config.Config) llm.Options {
	provider := strings.ToLower(cfg.GetStringOr("LLM_PROVIDER", llm.ProviderOpenAI))
	opts := llm.Options{
		Provider: provider,
		Timeout:  cfg.GetDuration("LLM_TIMEOUT", time.Second*30),
	}
	if provider == llm.ProviderGemini {
		opts.APIKey = cfg.GetString("GEMINI_API_KEY")
		opts.Model = cfg.GetStringOr("GEMINI_MODEL", "gemini-2.0-flash")
		return opts
	}
	opts.APIKey = cfg.GetString("OPENAI_API_KEY")
	opts.Model = cfg.GetStringOr("OPENAI_MODEL", "gpt-4o-mini")
	opts.BaseURL = cfg.GetString("OPENAI_BASE_URL")
	return opts
}
