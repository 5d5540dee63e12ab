package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitlens/internal/error_values"
	"github.com/limbo/habitlens/internal/service"
	"github.com/limbo/habitlens/pkg/entity"
	"github.com/limbo/habitlens/pkg/httputil"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type HabitRequest struct {
	Name         string  `json:"name"`
	Category     *string `json:"category"`
	Color        string  `json:"color"`
	Goal         string  `json:"goal"`
	ReminderTime *string `json:"reminder_time"`
}

type GetHabitsResponse struct {
	UserID string          `json:"uid"`
	Habits []*entity.Habit `json:"habits"`
}

type CheckInRequest struct {
	// YYYY-MM-DD, today when omitted
	Date      *string `json:"date"`
	Completed *bool   `json:"completed"`
	Mood      *string `json:"mood"`
	Notes     *string `json:"notes"`
}

type GetCheckInsResponse struct {
	HabitID string           `json:"habit_id"`
	Logs    []entity.CheckIn `json:"logs"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

const requestTimeout = time.Second * 10

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("registering error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, logger, "registering", err)
		return
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("registering error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, AuthResponse{Token: token, User: user})
	logger.Info("successful registration", slog.String("uid", user.ID.String()))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("login error: invalid body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, logger, "login", err)
		return
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, AuthResponse{Token: token, User: user})
	logger.Info("successful login", slog.String("uid", user.ID.String()))
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.GetByID(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get profile", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	var req HabitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("create habit error: invalid request body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habit, err := s.habitsService.CreateHabit(ctx, uid, req.toService())
	if err != nil {
		writeServiceError(w, logger, "create habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created", slog.String("habit_id", habit.ID.String()))
}

func (s *Server) GetHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habits, err := s.habitsService.GetUserHabits(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "getting habits list", err)
		return
	}
	if habits == nil {
		habits = []*entity.Habit{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetHabitsResponse{
		UserID: uid.String(),
		Habits: habits,
	})
	logger.Info("habits provided", slog.Int("count", len(habits)))
}

func (s *Server) GetHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := requireHabitPath(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habit, err := s.habitsService.GetHabit(ctx, habitID, uid)
	if err != nil {
		writeServiceError(w, logger, "get habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
}

func (s *Server) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := requireHabitPath(w, r)
	if !ok {
		return
	}
	var req HabitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("update habit error: invalid request body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habit, err := s.habitsService.UpdateHabit(ctx, habitID, uid, req.toService())
	if err != nil {
		writeServiceError(w, logger, "update habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit updated", slog.String("habit_id", habitID.String()))
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := requireHabitPath(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err := s.habitsService.DeleteHabit(ctx, habitID, uid)
	if err != nil {
		writeServiceError(w, logger, "habit deletion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("habit deleted", slog.String("habit_id", habitID.String()))
}

func (s *Server) LogCheckIn(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := requireHabitPath(w, r)
	if !ok {
		return
	}
	var req CheckInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil && !errors.Is(err, httputil.ErrEmptyBody) {
		logger.Error("check-in error: invalid request body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	srvReq := &service.CheckInRequest{
		Completed: req.Completed,
		Mood:      req.Mood,
		Notes:     req.Notes,
	}
	if req.Date != nil && *req.Date != "" {
		date, err := entity.ParseDate(*req.Date)
		if err != nil {
			logger.Error("check-in error: invalid date", slog.String("date", *req.Date))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
			return
		}
		srvReq.Date = &date
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	checkIn, err := s.checkInsService.LogCheckIn(ctx, habitID, uid, srvReq)
	if err != nil {
		writeServiceError(w, logger, "check-in", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, checkIn)
	logger.Info("check-in stored", slog.String("habit_id", habitID.String()), slog.String("date", checkIn.DateKey()))
}

func (s *Server) GetCheckIns(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := requireHabitPath(w, r)
	if !ok {
		return
	}
	from, err := optionalDate(r, "from")
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "from must be YYYY-MM-DD", nil)
		return
	}
	to, err := optionalDate(r, "to")
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "to must be YYYY-MM-DD", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	logs, err := s.checkInsService.GetCheckIns(ctx, habitID, uid, from, to)
	if err != nil {
		writeServiceError(w, logger, "getting check-ins", err)
		return
	}
	if logs == nil {
		logs = []entity.CheckIn{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetCheckInsResponse{
		HabitID: habitID.String(),
		Logs:    logs,
	})
}

func (s *Server) DeleteCheckIn(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := requireHabitPath(w, r)
	if !ok {
		return
	}
	date, err := entity.ParseDate(r.PathValue("date"))
	if err != nil {
		logger.Error("check-in deletion error: invalid date in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err = s.checkInsService.DeleteCheckIn(ctx, habitID, uid, date)
	if err != nil {
		writeServiceError(w, logger, "check-in deletion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("check-in deleted", slog.String("habit_id", habitID.String()), slog.String("date", entity.FormatDate(date)))
}

func (s *Server) GetHabitStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := requireHabitPath(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	stats, err := s.checkInsService.GetHabitStats(ctx, habitID, uid)
	if err != nil {
		writeServiceError(w, logger, "habit stats", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}

func (s *Server) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	res, err := s.analyticsService.GetAnalytics(ctx, uid, q.Get("from"), q.Get("to"))
	if err != nil {
		writeServiceError(w, logger, "analytics", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, res)
	logger.Info("analytics provided", slog.String("from", res.Stats.From), slog.String("to", res.Stats.To))
}

func (s *Server) GetInsights(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	insights, err := s.analyticsService.GetInsights(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "insights", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, insights)
	logger.Info("insights provided", slog.Int("success_probability", insights.SuccessProbability))
}

func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r)
	if !ok {
		return
	}
	var req AskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("ask error: invalid request body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.askTimeout)
	defer cancel()
	answer, err := s.askService.Answer(ctx, uid, req.Question)
	if err != nil {
		writeServiceError(w, logger, "ask", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, AskResponse{Answer: answer})
}

func (req *HabitRequest) toService() *service.HabitRequest {
	return &service.HabitRequest{
		Name:         req.Name,
		Category:     req.Category,
		Color:        req.Color,
		Goal:         req.Goal,
		ReminderTime: req.ReminderTime,
	}
}

func requireUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	uid, err := GetUIDFromContext(r)
	if err != nil {
		GetLoggerFromCtx(r.Context()).Error("unauthorized request")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return uuid.UUID{}, false
	}
	return uid, true
}

func requireHabitPath(w http.ResponseWriter, r *http.Request) (uid, habitID uuid.UUID, ok bool) {
	uid, ok = requireUID(w, r)
	if !ok {
		return
	}
	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		GetLoggerFromCtx(r.Context()).Error("invalid habit id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return uid, uuid.UUID{}, false
	}
	return uid, habitID, true
}

func optionalDate(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	d, err := entity.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// statusFor maps service errors onto HTTP statuses and user-facing messages.
// Client input errors also expose their details.
func statusFor(err error) (status int, message string, details error) {
	switch {
	case errors.Is(err, errorvalues.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input", err
	case errors.Is(err, errorvalues.ErrCheckDateNotAllowed):
		return http.StatusBadRequest, "check-in date can't be in the future", nil
	case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
		return http.StatusNotFound, "habit doesn't exist", nil
	case errors.Is(err, errorvalues.ErrCheckInNotFound):
		return http.StatusNotFound, "check-in doesn't exist", nil
	case errors.Is(err, errorvalues.ErrUserNotFound):
		return http.StatusNotFound, "user doesn't exist", nil
	case errors.Is(err, errorvalues.ErrUserExists):
		return http.StatusConflict, "user with such email already exists", nil
	case errors.Is(err, errorvalues.ErrUserHasHabit):
		return http.StatusConflict, "habit with such name already exists", nil
	case errors.Is(err, errorvalues.ErrWrongCredentials):
		return http.StatusUnauthorized, "invalid email or password", nil
	case errors.Is(err, errorvalues.ErrAIUnavailable):
		return http.StatusServiceUnavailable, "ai assistant is not configured", nil
	case errors.Is(err, errorvalues.ErrAIQuota):
		return http.StatusBadGateway, "ai assistant reached its usage limit, try again later", nil
	case errors.Is(err, errorvalues.ErrAIEmptyResponse):
		return http.StatusBadGateway, "ai assistant returned an empty answer", nil
	case errors.Is(err, errorvalues.ErrAIUpstream):
		return http.StatusBadGateway, "ai assistant is unavailable right now", nil
	default:
		return http.StatusInternalServerError, "internal error", nil
	}
}

func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	status, message, details := statusFor(err)
	logger.Error(op+" error", slog.Int("status", status), slog.String("error", err.Error()))
	httputil.WriteErrorResponse(w, status, message, details)
}
