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

// windowLoader fetches what the engine needs for one user and date range.
type windowLoader struct {
	habitsRepo   repository.HabitsRepositoryI
	checkInsRepo repository.CheckInsRepositoryI
}

func (wl windowLoader) aggregate(ctx context.Context, uid uuid.UUID, rng entity.DateRange, today time.Time) (*analytics.AggregateResult, error) {
	habits, err := wl.habitsRepo.ListByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	var checkIns []entity.CheckIn
	if len(habits) > 0 {
		checkIns, err = wl.checkInsRepo.ListByUserAndRange(ctx, uid, rng.From, rng.To)
		if err != nil {
			return nil, errors.New("check-ins repository error: " + err.Error())
		}
	}
	return analytics.Aggregate(habits, checkIns, rng, today), nil
}

type AnalyticsService struct {
	loader   windowLoader
	settings analytics.Settings
	clock    Clock
}

func NewAnalyticsService(habitsRepo repository.HabitsRepositoryI, checkInsRepo repository.CheckInsRepositoryI, settings analytics.Settings, clock Clock) *AnalyticsService {
	if habitsRepo == nil || checkInsRepo == nil {
		log.Fatal("on analytics service provided nil repos")
	}
	return &AnalyticsService{
		loader:   windowLoader{habitsRepo: habitsRepo, checkInsRepo: checkInsRepo},
		settings: settings,
		clock:    clock,
	}
}

// ResolveRange parses the optional YYYY-MM-DD bounds. A missing upper bound is today,
// a missing lower bound is windowDays before the upper one.
func ResolveRange(from, to string, today time.Time, windowDays int) (entity.DateRange, error) {
	rng := entity.TrailingRange(today, windowDays)
	if to != "" {
		t, err := entity.ParseDate(to)
		if err != nil {
			return entity.DateRange{}, errorvalues.ErrInvalidDateRange
		}
		rng = entity.TrailingRange(t, windowDays)
	}
	if from != "" {
		f, err := entity.ParseDate(from)
		if err != nil {
			return entity.DateRange{}, errorvalues.ErrInvalidDateRange
		}
		rng.From = f
	}
	if rng.From.After(rng.To) {
		return entity.DateRange{}, errorvalues.ErrInvalidDateRange
	}
	return rng, nil
}

func (as *AnalyticsService) GetAnalytics(ctx context.Context, uid uuid.UUID, from, to string) (*analytics.AggregateResult, error) {
	today := as.clock.Today()
	rng, err := ResolveRange(from, to, today, as.settings.AnalyticsWindowDays)
	if err != nil {
		return nil, err
	}
	return as.loader.aggregate(ctx, uid, rng, today)
}

func (as *AnalyticsService) GetInsights(ctx context.Context, uid uuid.UUID) (*analytics.Insights, error) {
	today := as.clock.Today()
	res, err := as.loader.aggregate(ctx, uid, entity.TrailingRange(today, as.settings.InsightsWindowDays), today)
	if err != nil {
		return nil, err
	}
	insights := analytics.GenerateInsights(res.ByWeekday, as.settings)
	return &insights, nil
}
