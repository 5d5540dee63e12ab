package api_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/limbo/habitlens/internal/analytics"
	"github.com/limbo/habitlens/internal/api"
	errorvalues "github.com/limbo/habitlens/internal/error_values"
	"github.com/limbo/habitlens/internal/service"
	"github.com/limbo/habitlens/internal/service/mocks"
	"github.com/limbo/habitlens/pkg/entity"
	"github.com/limbo/habitlens/pkg/httputil"
	jwtservice "github.com/limbo/habitlens/pkg/jwt_service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

var (
	userID   = uuid.New()
	habitID  = uuid.New()
	email    = "ana@example.com"
	password = "test_password"
	testUser = &entity.User{ID: userID, Email: email, Name: "Ana"}
)

type serverMocks struct {
	users     *mocks.MockUserServiceI
	habits    *mocks.MockHabitsServiceI
	checkIns  *mocks.MockCheckInsServiceI
	analytics *mocks.MockAnalyticsServiceI
	ask       *mocks.MockAskServiceI
	jwt       *jwtservice.JWTService
}

func newTestServer(t *testing.T) (*api.Server, *serverMocks) {
	ctrl := gomock.NewController(t)
	m := &serverMocks{
		users:     mocks.NewMockUserServiceI(ctrl),
		habits:    mocks.NewMockHabitsServiceI(ctrl),
		checkIns:  mocks.NewMockCheckInsServiceI(ctrl),
		analytics: mocks.NewMockAnalyticsServiceI(ctrl),
		ask:       mocks.NewMockAskServiceI(ctrl),
		jwt:       jwtservice.New("test_secret", time.Hour),
	}
	serv := api.New(&api.ServicesList{
		UserService:      m.users,
		HabitsService:    m.habits,
		CheckInsService:  m.checkIns,
		AnalyticsService: m.analytics,
		AskService:       m.ask,
		JwtService:       m.jwt,
	})
	return serv, m
}

func marshal(t *testing.T, v any) []byte {
	body, err := sonic.ConfigDefault.Marshal(v)
	require.NoError(t, err)
	return body
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(api.WithUserID(r.Context(), userID))
}

func habitRequest(method, target string, body []byte) *http.Request {
	var r *http.Request
	if body == nil {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	}
	r = authed(r)
	r.SetPathValue("id", habitID.String())
	return r
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) httputil.ErrorResponse {
	var resp httputil.ErrorResponse
	require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestRegister(t *testing.T) {
	serv, m := newTestServer(t)
	body := marshal(t, api.RegisterRequest{Email: email, Name: "Ana", Password: password})
	testCases := []struct {
		Desc         string
		Body         []byte
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "registered",
			Body:         body,
			ExpectedCode: http.StatusCreated,
			MockPrepFunc: func() {
				m.users.EXPECT().Register(gomock.Any(), &service.RegisterRequest{
					Email: email, Name: "Ana", Password: password,
				}).Return(testUser, nil)
			},
		},
		{
			Desc:         "existing user",
			Body:         body,
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				m.users.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, errorvalues.ErrUserExists)
			},
		},
		{
			Desc:         "validation failed",
			Body:         body,
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				m.users.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: Email", errorvalues.ErrValidation))
			},
		},
		{
			Desc:         "service error",
			Body:         body,
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				m.users.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, errors.New("service error"))
			},
		},
		{
			Desc:         "invalid body",
			Body:         []byte("{"),
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(tc.Body))
			serv.Register(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}

	t.Run("token is usable", func(t *testing.T) {
		m.users.EXPECT().Register(gomock.Any(), gomock.Any()).Return(testUser, nil)
		rr := httptest.NewRecorder()
		serv.Register(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body)))
		require.Equal(t, http.StatusCreated, rr.Result().StatusCode)
		var resp api.AuthResponse
		require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &resp))
		claims, err := m.jwt.ParseToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, email, resp.User.Email)
	})
}

func TestLogin(t *testing.T) {
	serv, m := newTestServer(t)
	body := marshal(t, api.LoginRequest{Email: email, Password: password})
	testCases := []struct {
		Desc         string
		Body         []byte
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "logged in",
			Body:         body,
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				m.users.EXPECT().Login(gomock.Any(), email, password).Return(testUser, nil)
			},
		},
		{
			Desc:         "wrong credentials",
			Body:         body,
			ExpectedCode: http.StatusUnauthorized,
			MockPrepFunc: func() {
				m.users.EXPECT().Login(gomock.Any(), email, password).Return(nil, errorvalues.ErrWrongCredentials)
			},
		},
		{
			Desc:         "empty body",
			Body:         nil,
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(tc.Body))
			serv.Login(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	serv, m := newTestServer(t)
	token, err := m.jwt.GenerateToken(testUser)
	require.NoError(t, err)
	foreign, err := jwtservice.New("other_secret", time.Hour).GenerateToken(testUser)
	require.NoError(t, err)

	testCases := []struct {
		Desc         string
		Header       string
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "no header",
			ExpectedCode: http.StatusUnauthorized,
			MockPrepFunc: func() {},
		},
		{
			Desc:         "not bearer",
			Header:       "Basic " + token,
			ExpectedCode: http.StatusUnauthorized,
			MockPrepFunc: func() {},
		},
		{
			Desc:         "foreign signature",
			Header:       "Bearer " + foreign,
			ExpectedCode: http.StatusUnauthorized,
			MockPrepFunc: func() {},
		},
		{
			Desc:         "deleted user",
			Header:       "Bearer " + token,
			ExpectedCode: http.StatusUnauthorized,
			MockPrepFunc: func() {
				m.users.EXPECT().GetByID(gomock.Any(), userID).Return(nil, errorvalues.ErrUserNotFound)
			},
		},
		{
			Desc:         "user lookup failed",
			Header:       "Bearer " + token,
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				m.users.EXPECT().GetByID(gomock.Any(), userID).Return(nil, errors.New("db is down"))
			},
		},
		{
			Desc:         "authorized",
			Header:       "Bearer " + token,
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				m.users.EXPECT().GetByID(gomock.Any(), userID).Return(testUser, nil).Times(2)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tc.Header != "" {
				r.Header.Set("Authorization", tc.Header)
			}
			serv.ServeHTTP(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
			assert.NotEmpty(t, rr.Header().Get(api.RequestIDHeader))
		})
	}
}

func TestHealth(t *testing.T) {
	serv, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	serv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
}

func TestCreateHabit(t *testing.T) {
	serv, m := newTestServer(t)
	category := "health"
	body := marshal(t, api.HabitRequest{Name: "Meditate", Category: &category, Goal: "daily"})
	testCases := []struct {
		Desc         string
		Body         []byte
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "created",
			Body:         body,
			ExpectedCode: http.StatusCreated,
			MockPrepFunc: func() {
				m.habits.EXPECT().CreateHabit(gomock.Any(), userID, &service.HabitRequest{
					Name: "Meditate", Category: &category, Goal: "daily",
				}).Return(&entity.Habit{ID: habitID, UserID: userID, Name: "Meditate"}, nil)
			},
		},
		{
			Desc:         "duplicate name",
			Body:         body,
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				m.habits.EXPECT().CreateHabit(gomock.Any(), userID, gomock.Any()).Return(nil, errorvalues.ErrUserHasHabit)
			},
		},
		{
			Desc:         "invalid color",
			Body:         body,
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				m.habits.EXPECT().CreateHabit(gomock.Any(), userID, gomock.Any()).
					Return(nil, fmt.Errorf("%w: Color", errorvalues.ErrValidation))
			},
		},
		{
			Desc:         "invalid body",
			Body:         []byte(`{"name": 3}`),
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := authed(httptest.NewRequest(http.MethodPost, "/api/v1/habits", bytes.NewReader(tc.Body)))
			serv.CreateHabit(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}

	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.CreateHabit(rr, httptest.NewRequest(http.MethodPost, "/api/v1/habits", bytes.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestGetHabits(t *testing.T) {
	serv, m := newTestServer(t)
	m.habits.EXPECT().GetUserHabits(gomock.Any(), userID).Return(nil, nil)
	rr := httptest.NewRecorder()
	serv.GetHabits(rr, authed(httptest.NewRequest(http.MethodGet, "/api/v1/habits", nil)))
	require.Equal(t, http.StatusOK, rr.Result().StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`{"uid":%q,"habits":[]}`, userID.String()), rr.Body.String())
}

func TestUpdateHabit(t *testing.T) {
	serv, m := newTestServer(t)
	body := marshal(t, api.HabitRequest{Name: "Read"})
	testCases := []struct {
		Desc         string
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "updated",
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				m.habits.EXPECT().UpdateHabit(gomock.Any(), habitID, userID, &service.HabitRequest{Name: "Read"}).
					Return(&entity.Habit{ID: habitID, Name: "Read"}, nil)
			},
		},
		{
			Desc:         "another owner",
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				m.habits.EXPECT().UpdateHabit(gomock.Any(), habitID, userID, gomock.Any()).Return(nil, errorvalues.ErrWrongOwner)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			serv.UpdateHabit(rr, habitRequest(http.MethodPut, "/api/v1/habits/"+habitID.String(), body))
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
}

func TestDeleteHabit(t *testing.T) {
	serv, m := newTestServer(t)
	testCases := []struct {
		Desc         string
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "deleted",
			ExpectedCode: http.StatusNoContent,
			MockPrepFunc: func() {
				m.habits.EXPECT().DeleteHabit(gomock.Any(), habitID, userID).Return(nil)
			},
		},
		{
			Desc:         "not found",
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				m.habits.EXPECT().DeleteHabit(gomock.Any(), habitID, userID).Return(errorvalues.ErrHabitNotFound)
			},
		},
		{
			Desc:         "another owner",
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				m.habits.EXPECT().DeleteHabit(gomock.Any(), habitID, userID).Return(errorvalues.ErrWrongOwner)
			},
		},
		{
			Desc:         "service error",
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				m.habits.EXPECT().DeleteHabit(gomock.Any(), habitID, userID).Return(errors.New("service error"))
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			serv.DeleteHabit(rr, habitRequest(http.MethodDelete, "/api/v1/habits/"+habitID.String(), nil))
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/habits/abc", nil))
		r.SetPathValue("id", "abc")
		serv.DeleteHabit(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogCheckIn(t *testing.T) {
	serv, m := newTestServer(t)
	jan5 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	stored := &entity.CheckIn{ID: uuid.New(), HabitID: habitID, Date: jan5, Completed: true}
	testCases := []struct {
		Desc         string
		Body         []byte
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "dated check-in",
			Body:         []byte(`{"date":"2024-01-05","completed":false,"mood":"tired"}`),
			ExpectedCode: http.StatusCreated,
			MockPrepFunc: func() {
				m.checkIns.EXPECT().LogCheckIn(gomock.Any(), habitID, userID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _ uuid.UUID, req *service.CheckInRequest) (*entity.CheckIn, error) {
						assert.Equal(t, jan5, *req.Date)
						assert.False(t, *req.Completed)
						assert.Equal(t, "tired", *req.Mood)
						assert.Nil(t, req.Notes)
						return stored, nil
					})
			},
		},
		{
			Desc:         "empty body means today",
			Body:         nil,
			ExpectedCode: http.StatusCreated,
			MockPrepFunc: func() {
				m.checkIns.EXPECT().LogCheckIn(gomock.Any(), habitID, userID, &service.CheckInRequest{}).Return(stored, nil)
			},
		},
		{
			Desc:         "malformed date",
			Body:         []byte(`{"date":"05/01/2024"}`),
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
		},
		{
			Desc:         "future date",
			Body:         []byte(`{"date":"2999-01-01"}`),
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				m.checkIns.EXPECT().LogCheckIn(gomock.Any(), habitID, userID, gomock.Any()).Return(nil, errorvalues.ErrCheckDateNotAllowed)
			},
		},
		{
			Desc:         "unknown habit",
			Body:         []byte(`{}`),
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				m.checkIns.EXPECT().LogCheckIn(gomock.Any(), habitID, userID, gomock.Any()).Return(nil, errorvalues.ErrHabitNotFound)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			serv.LogCheckIn(rr, habitRequest(http.MethodPost, "/api/v1/habits/"+habitID.String()+"/logs", tc.Body))
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
}

func TestGetCheckIns(t *testing.T) {
	serv, m := newTestServer(t)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("with from bound", func(t *testing.T) {
		m.checkIns.EXPECT().GetCheckIns(gomock.Any(), habitID, userID, &from, nil).
			Return([]entity.CheckIn{{HabitID: habitID, Date: from, Completed: true}}, nil)
		rr := httptest.NewRecorder()
		serv.GetCheckIns(rr, habitRequest(http.MethodGet, "/api/v1/habits/"+habitID.String()+"/logs?from=2024-01-01", nil))
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		assert.Contains(t, rr.Body.String(), `"date":"2024-01-01"`)
	})

	t.Run("inverted range", func(t *testing.T) {
		m.checkIns.EXPECT().GetCheckIns(gomock.Any(), habitID, userID, gomock.Any(), gomock.Any()).
			Return(nil, errorvalues.ErrInvalidDateRange)
		rr := httptest.NewRecorder()
		serv.GetCheckIns(rr, habitRequest(http.MethodGet, "/api/v1/habits/"+habitID.String()+"/logs?from=2024-02-01&to=2024-01-01", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})

	t.Run("malformed to", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetCheckIns(rr, habitRequest(http.MethodGet, "/api/v1/habits/"+habitID.String()+"/logs?to=yesterday", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestDeleteCheckIn(t *testing.T) {
	serv, m := newTestServer(t)
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		Desc         string
		Date         string
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			Desc:         "deleted",
			Date:         "2024-01-05",
			ExpectedCode: http.StatusNoContent,
			MockPrepFunc: func() {
				m.checkIns.EXPECT().DeleteCheckIn(gomock.Any(), habitID, userID, date).Return(nil)
			},
		},
		{
			Desc:         "nothing logged that day",
			Date:         "2024-01-05",
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				m.checkIns.EXPECT().DeleteCheckIn(gomock.Any(), habitID, userID, date).Return(errorvalues.ErrCheckInNotFound)
			},
		},
		{
			Desc:         "malformed date",
			Date:         "2024-13-01",
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := habitRequest(http.MethodDelete, "/api/v1/habits/"+habitID.String()+"/logs/"+tc.Date, nil)
			r.SetPathValue("date", tc.Date)
			serv.DeleteCheckIn(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
}

func TestGetHabitStats(t *testing.T) {
	serv, m := newTestServer(t)
	m.checkIns.EXPECT().GetHabitStats(gomock.Any(), habitID, userID).
		Return(&entity.HabitStats{ID: habitID, TotalCheckIns: 6, Completed: 5, SuccessRate: 83}, nil)
	rr := httptest.NewRecorder()
	serv.GetHabitStats(rr, habitRequest(http.MethodGet, "/api/v1/habits/"+habitID.String()+"/stats", nil))
	require.Equal(t, http.StatusOK, rr.Result().StatusCode)
	var stats entity.HabitStats
	require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 83, stats.SuccessRate)
}

func TestGetAnalytics(t *testing.T) {
	serv, m := newTestServer(t)

	t.Run("range forwarded", func(t *testing.T) {
		m.analytics.EXPECT().GetAnalytics(gomock.Any(), userID, "2024-01-01", "2024-01-06").
			Return(&analytics.AggregateResult{Stats: analytics.Stats{TotalCompleted: 5, From: "2024-01-01", To: "2024-01-06"}}, nil)
		rr := httptest.NewRecorder()
		serv.GetAnalytics(rr, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analytics?from=2024-01-01&to=2024-01-06", nil)))
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var res analytics.AggregateResult
		require.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, 5, res.Stats.TotalCompleted)
	})

	t.Run("invalid range", func(t *testing.T) {
		m.analytics.EXPECT().GetAnalytics(gomock.Any(), userID, "2024-02-01", "2024-01-01").
			Return(nil, errorvalues.ErrInvalidDateRange)
		rr := httptest.NewRecorder()
		serv.GetAnalytics(rr, authed(httptest.NewRequest(http.MethodGet, "/api/v1/analytics?from=2024-02-01&to=2024-01-01", nil)))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
		assert.NotEmpty(t, decodeError(t, rr).Details)
	})
}

func TestGetInsights(t *testing.T) {
	serv, m := newTestServer(t)
	m.analytics.EXPECT().GetInsights(gomock.Any(), userID).
		Return(&analytics.Insights{SuccessProbability: 50, Insights: []string{"a", "b"}}, nil)
	rr := httptest.NewRecorder()
	serv.GetInsights(rr, authed(httptest.NewRequest(http.MethodPost, "/api/v1/ai/insights", nil)))
	require.Equal(t, http.StatusOK, rr.Result().StatusCode)
	assert.JSONEq(t, `{"success_probability":50,"insights":["a","b"],"best_day":null}`, rr.Body.String())
}

func TestAsk(t *testing.T) {
	serv, m := newTestServer(t)
	body := marshal(t, api.AskRequest{Question: "How am I doing?"})
	testCases := []struct {
		Desc            string
		Err             error
		ExpectedCode    int
		ExpectedMessage string
	}{
		{Desc: "invalid question", Err: errorvalues.ErrInvalidQuestion, ExpectedCode: http.StatusBadRequest, ExpectedMessage: "invalid input"},
		{Desc: "not configured", Err: errorvalues.ErrAIUnavailable, ExpectedCode: http.StatusServiceUnavailable, ExpectedMessage: "ai assistant is not configured"},
		{Desc: "quota", Err: errorvalues.ErrAIQuota, ExpectedCode: http.StatusBadGateway, ExpectedMessage: "ai assistant reached its usage limit, try again later"},
		{Desc: "empty answer", Err: errorvalues.ErrAIEmptyResponse, ExpectedCode: http.StatusBadGateway, ExpectedMessage: "ai assistant returned an empty answer"},
		{Desc: "upstream", Err: errorvalues.ErrAIUpstream, ExpectedCode: http.StatusBadGateway, ExpectedMessage: "ai assistant is unavailable right now"},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			m.ask.EXPECT().Answer(gomock.Any(), userID, "How am I doing?").Return("", tc.Err)
			rr := httptest.NewRecorder()
			serv.Ask(rr, authed(httptest.NewRequest(http.MethodPost, "/api/v1/ai/ask", bytes.NewReader(body))))
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
			assert.Equal(t, tc.ExpectedMessage, decodeError(t, rr).Message)
		})
	}

	t.Run("answered", func(t *testing.T) {
		m.ask.EXPECT().Answer(gomock.Any(), userID, "How am I doing?").Return("Great streak so far.", nil)
		rr := httptest.NewRecorder()
		serv.Ask(rr, authed(httptest.NewRequest(http.MethodPost, "/api/v1/ai/ask", bytes.NewReader(body))))
		require.Equal(t, http.StatusOK, rr.Result().StatusCode)
		assert.JSONEq(t, `{"answer":"Great streak so far."}`, rr.Body.String())
	})

	t.Run("ask deadline reaches the service", func(t *testing.T) {
		m.ask.EXPECT().Answer(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ uuid.UUID, _ string) (string, error) {
				_, ok := ctx.Deadline()
				assert.True(t, ok)
				return "ok", nil
			})
		rr := httptest.NewRecorder()
		serv.Ask(rr, authed(httptest.NewRequest(http.MethodPost, "/api/v1/ai/ask", bytes.NewReader(body))))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
}
