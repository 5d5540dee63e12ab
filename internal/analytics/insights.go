package analytics

import (
	"fmt"
	"math"
)

type Insights struct {
	SuccessProbability int      `json:"success_probability"`
	Insights           []string `json:"insights"`
	BestDay            *string  `json:"best_day"`
	BestDayRate        *int     `json:"best_day_rate,omitempty"`
}

// GenerateInsights derives the success probability and the insight sentences from the
// weekday buckets of the trailing insights window. It never fails.
func GenerateInsights(buckets WeekdayBuckets, s Settings) Insights {
	cat := s.Locale.catalog()
	total, completed := buckets.Totals()
	prob := s.NeutralProbability
	if total > 0 {
		prob = percent(completed, total)
	}

	out := Insights{
		SuccessProbability: prob,
		Insights:           make([]string, 0, 3),
	}
	if best, ok := BestDay(buckets, s.InsightsMinSample); ok {
		name := cat.weekdays[best.Weekday]
		rate := int(math.Round(best.Rate() * 100))
		out.BestDay = &name
		out.BestDayRate = &rate
		out.Insights = append(out.Insights, fmt.Sprintf(cat.bestDayInsight, cat.weekdaysPlural[best.Weekday], rate))
	}
	out.Insights = append(out.Insights, fmt.Sprintf(cat.probabilityInsight, s.InsightsWindowDays, prob))
	if prob >= s.HighProbability {
		out.Insights = append(out.Insights, cat.keepRoutine)
	} else {
		out.Insights = append(out.Insights, cat.fixedTime)
	}
	return out
}
