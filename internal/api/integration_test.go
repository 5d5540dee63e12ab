package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	_ "github.com/lib/pq"
	"github.com/limbo/habitlens/internal/analytics"
	"github.com/limbo/habitlens/internal/api"
	"github.com/limbo/habitlens/internal/llm"
	"github.com/limbo/habitlens/internal/repository"
	"github.com/limbo/habitlens/internal/service"
	jwtservice "github.com/limbo/habitlens/pkg/jwt_service"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupTestDB(t *testing.T) *testPGConfig {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("habitlens"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	connStr, err := container.ConnectionString(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	connStr += "sslmode=disable"
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err = goose.Up(conn, "../../migrations"); err != nil {
		t.Fatal(err)
	}
	return &testPGConfig{connStr: connStr}
}

type cannedLLM struct {
	answer string
	system string
}

func (c *cannedLLM) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	c.system = req.System
	return c.answer, nil
}

func TestAPIIntegrational(t *testing.T) {
	cfg := setupTestDB(t)
	ctx := context.Background()
	pool, err := repository.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	usersRepo := repository.NewUsersRepoWithConn(pool)
	habitsRepo := repository.NewHabitsRepoWithConn(pool)
	checkInsRepo := repository.NewCheckInsRepoWithConn(pool)
	settings := analytics.DefaultSettings()
	settings.Locale = analytics.LocaleEn
	clock := service.SystemClock(time.UTC)
	model := &cannedLLM{answer: "  You checked in today, keep going.  "}

	serv := api.New(&api.ServicesList{
		UserService:      service.NewUserService(usersRepo),
		HabitsService:    service.NewHabitsService(habitsRepo),
		CheckInsService:  service.NewCheckInsService(habitsRepo, checkInsRepo, clock),
		AnalyticsService: service.NewAnalyticsService(habitsRepo, checkInsRepo, settings, clock),
		AskService:       service.NewAskService(habitsRepo, checkInsRepo, model, settings, service.CompletionOptions{}, clock),
		JwtService:       jwtservice.New("integration_secret", time.Hour),
	})

	var token string
	do := func(method, target string, body any) *httptest.ResponseRecorder {
		var r *http.Request
		if body == nil {
			r = httptest.NewRequest(method, target, nil)
		} else {
			r = httptest.NewRequest(method, target, bytes.NewReader(marshal(t, body)))
		}
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		serv.ServeHTTP(rr, r)
		return rr
	}

	rr := do(http.MethodPost, "/api/v1/auth/register", api.RegisterRequest{Email: "Ana@Example.com", Name: "Ana", Password: password})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(http.MethodPost, "/api/v1/auth/register", api.RegisterRequest{Email: "ana@example.com", Name: "Ana", Password: password})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(http.MethodPost, "/api/v1/auth/login", api.LoginRequest{Email: "ana@example.com", Password: "wrong_password"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(http.MethodPost, "/api/v1/auth/login", api.LoginRequest{Email: "ana@example.com", Password: password})
	require.Equal(t, http.StatusOK, rr.Code)
	var auth api.AuthResponse
	require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &auth))
	token = auth.Token

	rr = do(http.MethodGet, "/api/v1/habits", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(http.MethodPost, "/api/v1/ai/insights", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var insights analytics.Insights
	require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &insights))
	assert.Equal(t, 50, insights.SuccessProbability)
	assert.Nil(t, insights.BestDay)

	rr = do(http.MethodPost, "/api/v1/habits", api.HabitRequest{Name: "Meditate"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var habit struct {
		ID    string `json:"id"`
		Color string `json:"color"`
		Goal  string `json:"goal"`
	}
	require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &habit))
	assert.Equal(t, "#3B82F6", habit.Color)
	assert.Equal(t, "daily", habit.Goal)

	logs := "/api/v1/habits/" + habit.ID + "/logs"
	rr = do(http.MethodPost, logs, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	// Same day again replaces the first check-in
	rr = do(http.MethodPost, logs, map[string]any{"mood": "calm"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rr = do(http.MethodPost, logs, map[string]any{"date": "2999-01-01"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(http.MethodGet, logs, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list api.GetCheckInsResponse
	require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Logs, 1)
	require.NotNil(t, list.Logs[0].Mood)
	assert.Equal(t, "calm", *list.Logs[0].Mood)

	rr = do(http.MethodGet, "/api/v1/analytics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var res struct {
		Stats analytics.Stats `json:"stats"`
	}
	require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Stats.TotalHabits)
	assert.Equal(t, 1, res.Stats.TotalCompleted)
	assert.Equal(t, 1, res.Stats.CurrentStreak)

	rr = do(http.MethodGet, "/api/v1/analytics?from=2024-02-01&to=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(http.MethodPost, "/api/v1/ai/ask", api.AskRequest{Question: "How am I doing?"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"answer":"You checked in today, keep going."}`, rr.Body.String())
	assert.Contains(t, model.system, "Meditate")

	rr = do(http.MethodPost, "/api/v1/ai/ask", api.AskRequest{Question: "   "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(http.MethodDelete, "/api/v1/habits/"+habit.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(http.MethodGet, logs, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
