package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitlens/internal/analytics"
	errorvalues "github.com/limbo/habitlens/internal/error_values"
	"github.com/limbo/habitlens/internal/repository"
	"github.com/limbo/habitlens/pkg/entity"
)

type CheckInsService struct {
	habitsRepo   repository.HabitsRepositoryI
	checkInsRepo repository.CheckInsRepositoryI
	clock        Clock
}

func NewCheckInsService(habitsRepo repository.HabitsRepositoryI, checkInsRepo repository.CheckInsRepositoryI, clock Clock) *CheckInsService {
	if habitsRepo == nil || checkInsRepo == nil {
		log.Fatal("on check-ins service provided nil repos")
	}
	return &CheckInsService{
		habitsRepo:   habitsRepo,
		checkInsRepo: checkInsRepo,
		clock:        clock,
	}
}

func (serv *CheckInsService) ownedHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := serv.habitsRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}

func (serv *CheckInsService) LogCheckIn(ctx context.Context, habitID, userID uuid.UUID, req *CheckInRequest) (*entity.CheckIn, error) {
	if req == nil {
		req = &CheckInRequest{}
	}
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if _, err := serv.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	today := serv.clock.Today()
	date := today
	if req.Date != nil {
		date = entity.Day(*req.Date)
	}
	if date.After(today) {
		return nil, errorvalues.ErrCheckDateNotAllowed
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}
	stored, err := serv.checkInsRepo.Upsert(ctx, &entity.CheckIn{
		HabitID:   habitID,
		Date:      date,
		Completed: completed,
		Mood:      trimmedOrNil(req.Mood),
		Notes:     trimmedOrNil(req.Notes),
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return stored, nil
}

func (serv *CheckInsService) DeleteCheckIn(ctx context.Context, habitID, userID uuid.UUID, date time.Time) error {
	if _, err := serv.ownedHabit(ctx, habitID, userID); err != nil {
		return err
	}
	err := serv.checkInsRepo.Delete(ctx, habitID, entity.Day(date))
	if err != nil {
		if errors.Is(err, errorvalues.ErrCheckInNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (serv *CheckInsService) GetCheckIns(ctx context.Context, habitID, userID uuid.UUID, from, to *time.Time) ([]entity.CheckIn, error) {
	if from != nil && to != nil && entity.Day(*from).After(entity.Day(*to)) {
		return nil, errorvalues.ErrInvalidDateRange
	}
	if _, err := serv.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	checkIns, err := serv.checkInsRepo.ListByHabitAndRange(ctx, habitID, from, to)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return checkIns, nil
}

func (serv *CheckInsService) GetHabitStats(ctx context.Context, habitID, userID uuid.UUID) (*entity.HabitStats, error) {
	if _, err := serv.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	checkIns, err := serv.checkInsRepo.ListByHabitAndRange(ctx, habitID, nil, nil)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	stats := analytics.HabitStatsFor(habitID, checkIns, serv.clock.Today())
	return &stats, nil
}
