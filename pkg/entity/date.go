package entity

import (
	"time"
)

const DateLayout = time.DateOnly

// Day truncates t to midnight UTC of its calendar date in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// TrailingRange returns [today-days, today].
func TrailingRange(today time.Time, days int) DateRange {
	today = Day(today)
	return DateRange{
		From: today.AddDate(0, 0, -days),
		To:   today,
	}
}

func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.From)) && !d.After(Day(r.To))
}
