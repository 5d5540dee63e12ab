package analytics

import "strings"

type Locale string

const (
	LocalePtBR Locale = "pt-BR"
	LocaleEn   Locale = "en"
)

// ParseLocale accepts "pt-BR", "pt", "en", "en-US" and friends. Unknown values fall back to pt-BR.
func ParseLocale(s string) Locale {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "en"):
		return LocaleEn
	default:
		return LocalePtBR
	}
}

type catalog struct {
	weekdays       [7]string
	weekdaysPlural [7]string

	bestDayInsight     string
	probabilityInsight string
	keepRoutine        string
	fixedTime          string

	noHabits     string
	habitsList   string
	stats        string
	statsBestDay string
	recentHeader string
	recentLine   string
	recentMoods  string
	noRecent     string

	systemPrompt string
}

var catalogs = map[Locale]*catalog{
	LocalePtBR: {
		weekdays:       [7]string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"},
		weekdaysPlural: [7]string{"Domingos", "Segundas", "Terças", "Quartas", "Quintas", "Sextas", "Sábados"},

		bestDayInsight:     "Você tem mais sucesso às %s (%d%% de conclusão).",
		probabilityInsight: "Com base nos últimos %d dias, a probabilidade estimada de sucesso é %d%%.",
		keepRoutine:        "Recomendação: mantenha o horário e o contexto que estão funcionando.",
		fixedTime:          "Recomendação: tente fixar um horário fixo (ex: 9h) para os hábitos mais importantes.",

		noHabits:     "O usuário ainda não cadastrou hábitos.",
		habitsList:   "Hábitos: %s.",
		stats:        "Estatísticas (últimos %d dias): %d hábitos, %d check-ins completos de %d totais, taxa de sucesso %d%%, streak atual %d dias.",
		statsBestDay: " Melhor dia para conclusão: %s (%d%%).",
		recentHeader: "Resumo por hábito (últimos %d dias): %s",
		recentLine:   "%s: %d/%d concluídos",
		recentMoods:  "; humores: %s",
		noRecent:     "Nenhum registro recente.",

		systemPrompt: `Você é um assistente de hábitos e produtividade. Responda em português do Brasil, de forma breve e motivadora (2 a 4 frases). Baseie-se APENAS nos dados do usuário fornecidos abaixo. Se os dados não forem suficientes para responder, diga isso de forma gentil e sugira registrar mais check-ins.

Dados do usuário:
- %s
- %s
- %s`,
	},
	LocaleEn: {
		weekdays:       [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		weekdaysPlural: [7]string{"Sundays", "Mondays", "Tuesdays", "Wednesdays", "Thursdays", "Fridays", "Saturdays"},

		bestDayInsight:     "You succeed most on %s (%d%% completion).",
		probabilityInsight: "Based on the last %d days, the estimated probability of success is %d%%.",
		keepRoutine:        "Recommendation: keep the schedule and context that are working.",
		fixedTime:          "Recommendation: try anchoring your most important habits to a fixed time (e.g. 9am).",

		noHabits:     "The user has not created any habits yet.",
		habitsList:   "Habits: %s.",
		stats:        "Stats (last %d days): %d habits, %d completed check-ins out of %d, success rate %d%%, current streak %d days.",
		statsBestDay: " Best day for completion: %s (%d%%).",
		recentHeader: "Per-habit summary (last %d days): %s",
		recentLine:   "%s: %d/%d completed",
		recentMoods:  "; moods: %s",
		noRecent:     "No recent records.",

		systemPrompt: `You are a habits and productivity assistant. Answer in English, briefly and encouragingly (2 to 4 sentences). Rely ONLY on the user data provided below. If the data is not enough to answer, say so kindly and suggest logging more check-ins.

User data:
- %s
- %s
- %s`,
	},
}

func (l Locale) catalog() *catalog {
	if c, ok := catalogs[l]; ok {
		return c
	}
	return catalogs[LocalePtBR]
}

// WeekdayName returns the localized name for weekday index 0 (Sunday) through 6.
func (l Locale) WeekdayName(weekday int) string {
	return l.catalog().weekdays[weekday%7]
}
