package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitlens/pkg/entity"
)

// UncategorizedLabel replaces a missing habit category in category counts.
const UncategorizedLabel = "Uncategorized"

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalHabits    int    `json:"total_habits"`
	TotalCompleted int    `json:"total_completed"`
	TotalCheckIns  int    `json:"total_checkins"`
	SuccessRate    int    `json:"success_rate"`
	CurrentStreak  int    `json:"current_streak"`
	From           string `json:"from"`
	To             string `json:"to"`
}

type AggregateResult struct {
	Habits []*entity.Habit `json:"habits"`
	// Check-ins per habit id, ordered by date ascending.
	LogsByHabit map[uuid.UUID][]entity.CheckIn `json:"logs_by_habit"`
	HabitStats  []entity.HabitStats            `json:"habit_stats"`
	Categories  []CategoryCount                `json:"categories"`
	Stats       Stats                          `json:"stats"`
	ByWeekday   WeekdayBuckets                 `json:"by_weekday"`
}

// Logs returns the check-ins of one habit, oldest first.
func (r *AggregateResult) Logs(habitID uuid.UUID) []entity.CheckIn {
	return r.LogsByHabit[habitID]
}

// CheckIns returns every check-in of the result, grouped by habit in habit order.
func (r *AggregateResult) CheckIns() []entity.CheckIn {
	out := make([]entity.CheckIn, 0, r.Stats.TotalCheckIns)
	for _, h := range r.Habits {
		out = append(out, r.LogsByHabit[h.ID]...)
	}
	return out
}

// Aggregate turns the habits of one user and their check-ins into analytics for rng.
// Check-ins outside rng or for unknown habits are ignored, duplicates per (habit, date)
// are collapsed with the later one winning. today anchors the current streak.
func Aggregate(habits []*entity.Habit, checkIns []entity.CheckIn, rng entity.DateRange, today time.Time) *AggregateResult {
	known := make(map[uuid.UUID]struct{}, len(habits))
	for _, h := range habits {
		known[h.ID] = struct{}{}
	}
	set := NewCheckInSet()
	for _, c := range checkIns {
		if _, ok := known[c.HabitID]; !ok {
			continue
		}
		if !rng.Contains(c.Date) {
			continue
		}
		set.Put(c)
	}
	all := set.All()

	res := &AggregateResult{
		Habits:      habits,
		LogsByHabit: partitionByHabit(all),
		Categories:  countCategories(habits),
		ByWeekday:   BuildWeekdayBuckets(all),
	}
	if res.Habits == nil {
		res.Habits = []*entity.Habit{}
	}

	distinctDates := make(map[string]struct{})
	completed := 0
	for _, c := range all {
		distinctDates[c.DateKey()] = struct{}{}
		if c.Completed {
			completed++
		}
	}
	res.Stats = Stats{
		TotalHabits:    len(habits),
		TotalCompleted: completed,
		TotalCheckIns:  len(all),
		SuccessRate:    SuccessRate(completed, len(distinctDates), len(habits)),
		CurrentStreak:  CurrentStreak(all, today),
		From:           entity.FormatDate(rng.From),
		To:             entity.FormatDate(rng.To),
	}

	res.HabitStats = make([]entity.HabitStats, 0, len(habits))
	for _, h := range habits {
		res.HabitStats = append(res.HabitStats, HabitStatsFor(h.ID, res.LogsByHabit[h.ID], today))
	}
	return res
}

// SuccessRate is the share of possible habit-days that were completed:
// round(100 * completed / (distinctDates * habits)), 0 with no habits or no check-ins.
func SuccessRate(completed, distinctDates, habits int) int {
	if habits == 0 || distinctDates == 0 {
		return 0
	}
	return percent(completed, max(1, distinctDates*habits))
}

// HabitStatsFor computes the stats of a single habit from its check-ins.
func HabitStatsFor(habitID uuid.UUID, checkIns []entity.CheckIn, today time.Time) entity.HabitStats {
	stats := entity.HabitStats{
		ID:            habitID,
		TotalCheckIns: len(checkIns),
		CurrentStreak: CurrentStreak(checkIns, today),
		MaxStreak:     LongestStreak(checkIns),
	}
	var last time.Time
	for _, c := range checkIns {
		if !c.Completed {
			continue
		}
		stats.Completed++
		if c.Date.After(last) {
			last = c.Date
		}
	}
	if !last.IsZero() {
		stats.LastCheckIn = &last
	}
	stats.SuccessRate = percent(stats.Completed, stats.TotalCheckIns)
	return stats
}

func partitionByHabit(checkIns []entity.CheckIn) map[uuid.UUID][]entity.CheckIn {
	byHabit := make(map[uuid.UUID][]entity.CheckIn)
	for _, c := range checkIns {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	for id := range byHabit {
		logs := byHabit[id]
		sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	}
	return byHabit
}

func countCategories(habits []*entity.Habit) []CategoryCount {
	counts := make([]CategoryCount, 0)
	index := make(map[string]int)
	for _, h := range habits {
		name := UncategorizedLabel
		if h.Category != nil && *h.Category != "" {
			name = *h.Category
		}
		i, ok := index[name]
		if !ok {
			i = len(counts)
			index[name] = i
			counts = append(counts, CategoryCount{Name: name})
		}
		counts[i].Count++
	}
	return counts
}
