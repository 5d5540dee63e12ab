package analytics

// Settings holds the engine tunables. The 90/30 day windows and the 3/2 best-day sample
// thresholds are independent on purpose; changing one must not move the other.
type Settings struct {
	// Window for GetAnalytics when the caller omits the range.
	AnalyticsWindowDays int
	// Trailing window shared by insights and the ask context.
	InsightsWindowDays int
	// Minimum check-ins on a weekday before it can be the best day in insights.
	InsightsMinSample int
	// Same threshold for the ask context.
	ContextMinSample int
	// Upper bounds for the per-habit recent summary.
	ContextMaxHabits int
	ContextMaxMoods  int
	// Question length cap, in characters.
	QuestionMaxLength int
	// successProbability at or above which the routine is praised.
	HighProbability int
	// successProbability reported for an empty window.
	NeutralProbability int
	Locale             Locale
}

func DefaultSettings() Settings {
	return Settings{
		AnalyticsWindowDays: 90,
		InsightsWindowDays:  30,
		InsightsMinSample:   3,
		ContextMinSample:    2,
		ContextMaxHabits:    15,
		ContextMaxMoods:     5,
		QuestionMaxLength:   500,
		HighProbability:     70,
		NeutralProbability:  50,
		Locale:              LocalePtBR,
	}
}
