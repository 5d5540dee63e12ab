package entity

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

type Goal string

const (
	GoalDaily  Goal = "daily"
	GoalWeekly Goal = "weekly"
)

const (
	DefaultHabitColor = "#3B82F6"
	DefaultGoal       = GoalDaily
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Habit struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"uid"`
	Name         string    `json:"name"`
	Category     *string   `json:"category"`
	Color        string    `json:"color"`
	Goal         Goal      `json:"goal"`
	ReminderTime *string   `json:"reminder_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CheckIn is a single day's record for a habit. At most one exists per (HabitID, Date).
type CheckIn struct {
	ID        uuid.UUID `json:"id"`
	HabitID   uuid.UUID `json:"habit_id"`
	Date      time.Time `json:"-"`
	Completed bool      `json:"completed"`
	Mood      *string   `json:"mood"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// DateKey is the YYYY-MM-DD form of the check-in date.
func (c CheckIn) DateKey() string {
	return FormatDate(c.Date)
}

func (c CheckIn) MarshalJSON() ([]byte, error) {
	type plain CheckIn
	return sonic.Marshal(struct {
		plain
		Date string `json:"date"`
	}{
		plain: plain(c),
		Date:  c.DateKey(),
	})
}

type HabitStats struct {
	ID            uuid.UUID  `json:"habit_id"`
	TotalCheckIns int        `json:"total_checkins"`
	Completed     int        `json:"completed"`
	SuccessRate   int        `json:"success_rate"`
	CurrentStreak int        `json:"current_streak"`
	MaxStreak     int        `json:"max_streak"`
	LastCheckIn   *time.Time `json:"last_checkin,omitempty"`
}
