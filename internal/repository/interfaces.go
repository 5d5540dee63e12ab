package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/habitlens/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_repository.go -package=mocks

type UsersRepositoryI interface {
	// Creates new user in database and returns it with ID
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	// Looks up user by email. Can be used for login
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type HabitsRepositoryI interface {
	// Creates new habit in database. Name, UserID, Color and Goal are necessary
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	// Searches habit with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists all habits owned by user with uid, newest first
	ListByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	// Updates habit by ID (ID in habit is necessary)
	Update(ctx context.Context, habit *entity.Habit) error
	// Deletes habit with id
	Delete(ctx context.Context, id uuid.UUID) error
}

type CheckInsRepositoryI interface {
	// Inserts check-in or replaces completed, mood and notes of the existing one for (habit, date)
	Upsert(ctx context.Context, checkIn *entity.CheckIn) (*entity.CheckIn, error)
	// Deletes check-in on habit with habitID for date
	Delete(ctx context.Context, habitID uuid.UUID, date time.Time) error
	// Provides check-ins of habitID, newest first. Nil bounds are open
	ListByHabitAndRange(ctx context.Context, habitID uuid.UUID, from, to *time.Time) ([]entity.CheckIn, error)
	// Provides check-ins of all habits owned by uid within [from, to], oldest first
	ListByUserAndRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.CheckIn, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
