package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habitlens/internal/error_values"
	"github.com/limbo/habitlens/pkg/entity"
)

const habitColumns = `id, user_id, name, category, color, goal, reminder_time, created_at, updated_at`

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

func scanHabit(row pgx.Row, h *entity.Habit) error {
	var goal string
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Category, &h.Color, &goal, &h.ReminderTime, &h.CreatedAt, &h.UpdatedAt)
	h.Goal = entity.Goal(goal)
	return err
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	var id uuid.UUID
	row := hr.conn.QueryRow(ctx, `INSERT INTO habits (user_id, name, category, color, goal, reminder_time) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		habit.UserID,
		habit.Name,
		habit.Category,
		habit.Color,
		string(habit.Goal),
		habit.ReminderTime,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrUserHasHabit
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	var habit entity.Habit
	row := hr.conn.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1;`, id)
	if err := scanHabit(row, &habit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return &habit, nil
}

func (hr *HabitsRepository) ListByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	habits := make([]*entity.Habit, 0)
	rows, err := hr.conn.Query(ctx, `SELECT `+habitColumns+` FROM habits WHERE user_id = $1 ORDER BY created_at DESC;`, uid)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		if err = scanHabit(rows, &h); err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning: " + err.Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET name = $1, category = $2, color = $3, goal = $4, reminder_time = $5, updated_at = NOW() WHERE id = $6;`,
		habit.Name, habit.Category, habit.Color, string(habit.Goal), habit.ReminderTime, habit.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errorvalues.ErrUserHasHabit
		}
		return errors.New("error updating habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}
