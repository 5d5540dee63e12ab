package analytics

import (
	"fmt"
	"math"
	"strings"
)

// AskContext is the bounded summary of a user's habits injected into the model prompt.
type AskContext struct {
	HabitsSummary string `json:"habits_summary"`
	StatsSummary  string `json:"stats_summary"`
	RecentSummary string `json:"recent_summary"`
}

// BuildAskContext summarizes an aggregate computed over the trailing insights window.
// The per-habit breakdown is bounded by s.ContextMaxHabits lines and s.ContextMaxMoods
// moods per line; nothing else is truncated.
func BuildAskContext(res *AggregateResult, s Settings) AskContext {
	cat := s.Locale.catalog()
	return AskContext{
		HabitsSummary: habitsSummary(res, cat),
		StatsSummary:  statsSummary(res, s, cat),
		RecentSummary: recentSummary(res, s, cat),
	}
}

func habitsSummary(res *AggregateResult, cat *catalog) string {
	if len(res.Habits) == 0 {
		return cat.noHabits
	}
	items := make([]string, 0, len(res.Habits))
	for _, h := range res.Habits {
		if h.Category != nil && *h.Category != "" {
			items = append(items, fmt.Sprintf("%s (%s)", h.Name, *h.Category))
		} else {
			items = append(items, h.Name)
		}
	}
	return fmt.Sprintf(cat.habitsList, strings.Join(items, ", "))
}

func statsSummary(res *AggregateResult, s Settings, cat *catalog) string {
	total, completed := res.ByWeekday.Totals()
	summary := fmt.Sprintf(cat.stats,
		s.InsightsWindowDays,
		len(res.Habits),
		completed,
		total,
		percent(completed, total),
		res.Stats.CurrentStreak,
	)
	if best, ok := BestDay(res.ByWeekday, s.ContextMinSample); ok {
		summary += fmt.Sprintf(cat.statsBestDay, cat.weekdays[best.Weekday], int(math.Round(best.Rate()*100)))
	}
	return summary
}

func recentSummary(res *AggregateResult, s Settings, cat *catalog) string {
	lines := make([]string, 0, s.ContextMaxHabits)
	for _, h := range res.Habits {
		if len(lines) >= s.ContextMaxHabits {
			break
		}
		logs := res.Logs(h.ID)
		if len(logs) == 0 {
			continue
		}
		completed := 0
		moods := make([]string, 0, s.ContextMaxMoods)
		// newest first, so the kept moods are the most recent ones
		for i := len(logs) - 1; i >= 0; i-- {
			if logs[i].Completed {
				completed++
			}
			if logs[i].Mood != nil && *logs[i].Mood != "" && len(moods) < s.ContextMaxMoods {
				moods = append(moods, *logs[i].Mood)
			}
		}
		line := fmt.Sprintf(cat.recentLine, h.Name, completed, len(logs))
		if len(moods) > 0 {
			line += fmt.Sprintf(cat.recentMoods, strings.Join(moods, ", "))
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return cat.noRecent
	}
	return fmt.Sprintf(cat.recentHeader, s.InsightsWindowDays, strings.Join(lines, ". "))
}

// SystemPrompt embeds the context into the instruction sent ahead of the user's question.
func SystemPrompt(c AskContext, l Locale) string {
	return fmt.Sprintf(l.catalog().systemPrompt, c.HabitsSummary, c.StatsSummary, c.RecentSummary)
}
