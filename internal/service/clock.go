package service

import (
	"time"

	"github.com/limbo/habitlens/pkg/entity"
)

// Clock decides what "today" is for date based computations.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

// FixedClock always reports t. Handy in tests.
func FixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }, Location: t.Location()}
}

// Today is the current calendar date in the clock's location, as midnight UTC.
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return entity.Day(now().In(loc))
}
