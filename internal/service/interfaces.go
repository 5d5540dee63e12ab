package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitlens/internal/analytics"
	"github.com/limbo/habitlens/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_service.go -package=mocks

type RegisterRequest struct {
	Email    string `validate:"required,email,max=254"`
	Name     string `validate:"required,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

// HabitRequest is used both for creation and for full updates.
// Empty Color and Goal fall back to entity defaults.
type HabitRequest struct {
	Name         string  `validate:"required,max=100"`
	Category     *string `validate:"omitempty,max=50"`
	Color        string  `validate:"omitempty,hexcolor"`
	Goal         string  `validate:"omitempty,oneof=daily weekly"`
	ReminderTime *string `validate:"omitempty,clock_time"`
}

type CheckInRequest struct {
	// Defaults to today
	Date *time.Time
	// Defaults to true
	Completed *bool
	Mood      *string `validate:"omitempty,max=32"`
	Notes     *string `validate:"omitempty,max=1000"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID
	Login(ctx context.Context, email, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type HabitsServiceI interface {
	CreateHabit(ctx context.Context, uid uuid.UUID, req *HabitRequest) (*entity.Habit, error)
	GetUserHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req *HabitRequest) (*entity.Habit, error)
	DeleteHabit(ctx context.Context, habitID, uid uuid.UUID) error
	GetHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.Habit, error)
}

type CheckInsServiceI interface {
	// Stores the check-in, replacing the previous one for the same day
	LogCheckIn(ctx context.Context, habitID, uid uuid.UUID, req *CheckInRequest) (*entity.CheckIn, error)
	DeleteCheckIn(ctx context.Context, habitID, uid uuid.UUID, date time.Time) error
	// Nil bounds are open
	GetCheckIns(ctx context.Context, habitID, uid uuid.UUID, from, to *time.Time) ([]entity.CheckIn, error)
	GetHabitStats(ctx context.Context, habitID, uid uuid.UUID) (*entity.HabitStats, error)
}

type AnalyticsServiceI interface {
	// from and to are YYYY-MM-DD, empty values fall back to the default window
	GetAnalytics(ctx context.Context, uid uuid.UUID, from, to string) (*analytics.AggregateResult, error)
	GetInsights(ctx context.Context, uid uuid.UUID) (*analytics.Insights, error)
}

type AskServiceI interface {
	// Answers question about the user's own recent data
	Answer(ctx context.Context, uid uuid.UUID, question string) (string, error)
}
