package analytics

import (
	"sort"
	"time"

	"github.com/limbo/habitlens/pkg/entity"
)

func completedDates(checkIns []entity.CheckIn) map[string]struct{} {
	dates := make(map[string]struct{}, len(checkIns))
	for _, c := range checkIns {
		if c.Completed {
			dates[c.DateKey()] = struct{}{}
		}
	}
	return dates
}

// CurrentStreak counts consecutive days, today included, that have at least one completed
// check-in. A day without any completed check-in ends the walk.
func CurrentStreak(checkIns []entity.CheckIn, today time.Time) int {
	dates := completedDates(checkIns)
	streak := 0
	for d := entity.Day(today); ; d = d.AddDate(0, 0, -1) {
		if _, ok := dates[entity.FormatDate(d)]; !ok {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive days with a completed check-in.
func LongestStreak(checkIns []entity.CheckIn) int {
	dates := completedDates(checkIns)
	if len(dates) == 0 {
		return 0
	}
	days := make([]time.Time, 0, len(dates))
	for k := range dates {
		d, err := entity.ParseDate(k)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
