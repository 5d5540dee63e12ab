package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitlens/internal/error_values"
	"github.com/limbo/habitlens/internal/repository"
	"github.com/limbo/habitlens/pkg/entity"
)

type HabitsService struct {
	repo repository.HabitsRepositoryI
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI) *HabitsService {
	if habitsRepo == nil {
		log.Fatal("provided nil habitsRepo")
	}
	return &HabitsService{
		repo: habitsRepo,
	}
}

// applyRequest validates req and writes it onto h, filling defaults for omitted fields.
func applyRequest(h *entity.Habit, req *HabitRequest) error {
	if req == nil {
		return errorvalues.ErrValidation
	}
	normalized := *req
	normalized.Name = strings.TrimSpace(normalized.Name)
	normalized.Category = trimmedOrNil(normalized.Category)
	normalized.ReminderTime = trimmedOrNil(normalized.ReminderTime)
	if err := validateStruct(normalized); err != nil {
		return err
	}
	h.Name = normalized.Name
	h.Category = normalized.Category
	h.ReminderTime = normalized.ReminderTime
	h.Color = normalized.Color
	if h.Color == "" {
		h.Color = entity.DefaultHabitColor
	}
	h.Goal = entity.Goal(normalized.Goal)
	if h.Goal == "" {
		h.Goal = entity.DefaultGoal
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req *HabitRequest) (*entity.Habit, error) {
	h := entity.Habit{
		UserID: uid,
	}
	if err := applyRequest(&h, req); err != nil {
		return nil, err
	}
	id, err := hs.repo.Create(ctx, &h)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrUserHasHabit):
			return nil, errorvalues.ErrUserHasHabit
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	habits, err := hs.repo.ListByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req *HabitRequest) (*entity.Habit, error) {
	habit, err := hs.GetHabit(ctx, habitID, uid)
	if err != nil {
		return nil, err
	}
	if err = applyRequest(habit, req); err != nil {
		return nil, err
	}
	if err = hs.repo.Update(ctx, habit); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) || errors.Is(err, errorvalues.ErrUserHasHabit) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	updated, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return updated, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	if _, err := hs.GetHabit(ctx, habitID, userID); err != nil {
		return err
	}
	err := hs.repo.Delete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}
