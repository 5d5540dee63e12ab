package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habitlens/internal/error_values"
	"github.com/limbo/habitlens/pkg/entity"
)

const checkInColumns = `id, habit_id, date, completed, mood, notes, created_at`

type CheckInsRepository struct {
	conn PgConnection
}

func NewCheckInsRepoWithConn(conn PgConnection) *CheckInsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for checkInsRepo: " + err.Error())
	}
	return &CheckInsRepository{
		conn: conn,
	}
}

func scanCheckIn(row pgx.Row, c *entity.CheckIn) error {
	return row.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed, &c.Mood, &c.Notes, &c.CreatedAt)
}

func (repo *CheckInsRepository) Upsert(ctx context.Context, checkIn *entity.CheckIn) (*entity.CheckIn, error) {
	var stored entity.CheckIn
	row := repo.conn.QueryRow(
		ctx,
		`INSERT INTO habit_logs (habit_id, date, completed, mood, notes) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (habit_id, date) DO UPDATE SET completed = EXCLUDED.completed, mood = EXCLUDED.mood, notes = EXCLUDED.notes
		RETURNING `+checkInColumns+`;`,
		checkIn.HabitID,
		entity.Day(checkIn.Date),
		checkIn.Completed,
		checkIn.Mood,
		checkIn.Notes,
	)
	if err := scanCheckIn(row, &stored); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrHabitNotFound
			}
		}
		return nil, errors.New("upserting check-in error: " + err.Error())
	}
	return &stored, nil
}

func (repo *CheckInsRepository) Delete(ctx context.Context, habitID uuid.UUID, date time.Time) error {
	ct, err := repo.conn.Exec(
		ctx,
		`DELETE FROM habit_logs WHERE habit_id = $1 AND date = $2;`,
		habitID,
		entity.Day(date),
	)
	if err != nil {
		return errors.New("deleting check-in error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCheckInNotFound
	}
	return nil
}

func (repo *CheckInsRepository) ListByHabitAndRange(ctx context.Context, habitID uuid.UUID, from, to *time.Time) ([]entity.CheckIn, error) {
	args := []any{habitID}
	conditions := []string{"habit_id = $1"}
	if from != nil {
		args = append(args, entity.Day(*from))
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, entity.Day(*to))
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}
	query := `SELECT ` + checkInColumns + ` FROM habit_logs WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY date DESC;`
	return repo.list(ctx, query, args...)
}

func (repo *CheckInsRepository) ListByUserAndRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.CheckIn, error) {
	return repo.list(
		ctx,
		`SELECT hl.id, hl.habit_id, hl.date, hl.completed, hl.mood, hl.notes, hl.created_at
		FROM habit_logs hl JOIN habits h ON h.id = hl.habit_id
		WHERE h.user_id = $1 AND hl.date >= $2 AND hl.date <= $3 ORDER BY hl.date;`,
		uid,
		entity.Day(from),
		entity.Day(to),
	)
}

func (repo *CheckInsRepository) list(ctx context.Context, query string, args ...any) ([]entity.CheckIn, error) {
	rows, err := repo.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("getting check-ins for period error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.CheckIn, 0, 8)
	for rows.Next() {
		c := entity.CheckIn{}
		if err = scanCheckIn(rows, &c); err != nil {
			return nil, errors.New("check-in row parsing error: " + err.Error())
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected check-in rows error: " + err.Error())
	}
	return result, nil
}
