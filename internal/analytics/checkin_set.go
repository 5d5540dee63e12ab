package analytics

import (
	"github.com/google/uuid"
	"github.com/limbo/habitlens/pkg/entity"
)

type checkInKey struct {
	habitID uuid.UUID
	date    string
}

// CheckInSet keeps at most one check-in per (habit, date). A later Put for the same pair
// replaces completed, mood and notes of the stored record in place.
type CheckInSet struct {
	order []checkInKey
	items map[checkInKey]entity.CheckIn
}

func NewCheckInSet() *CheckInSet {
	return &CheckInSet{
		items: make(map[checkInKey]entity.CheckIn),
	}
}

// Put stores c and reports whether an existing record was replaced.
func (s *CheckInSet) Put(c entity.CheckIn) bool {
	c.Date = entity.Day(c.Date)
	key := checkInKey{habitID: c.HabitID, date: c.DateKey()}
	prev, ok := s.items[key]
	if !ok {
		s.order = append(s.order, key)
		s.items[key] = c
		return false
	}
	prev.Completed = c.Completed
	prev.Mood = c.Mood
	prev.Notes = c.Notes
	s.items[key] = prev
	return true
}

func (s *CheckInSet) Get(habitID uuid.UUID, date string) (entity.CheckIn, bool) {
	c, ok := s.items[checkInKey{habitID: habitID, date: date}]
	return c, ok
}

func (s *CheckInSet) Len() int {
	return len(s.order)
}

// All returns the stored check-ins in order of first insertion.
func (s *CheckInSet) All() []entity.CheckIn {
	out := make([]entity.CheckIn, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out
}
