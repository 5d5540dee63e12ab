package analytics

import (
	"math"

	"github.com/limbo/habitlens/pkg/entity"
)

// DayOfWeekBucket counts check-ins that fall on one weekday (0 = Sunday).
type DayOfWeekBucket struct {
	Weekday   int `json:"weekday"`
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

func (b DayOfWeekBucket) Rate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Completed) / float64(b.Total)
}

type WeekdayBuckets [7]DayOfWeekBucket

func NewWeekdayBuckets() WeekdayBuckets {
	var b WeekdayBuckets
	for i := range b {
		b[i].Weekday = i
	}
	return b
}

func BuildWeekdayBuckets(checkIns []entity.CheckIn) WeekdayBuckets {
	b := NewWeekdayBuckets()
	for _, c := range checkIns {
		b.Add(c)
	}
	return b
}

func (b *WeekdayBuckets) Add(c entity.CheckIn) {
	d := int(c.Date.Weekday())
	b[d].Total++
	if c.Completed {
		b[d].Completed++
	}
}

// Totals sums all buckets.
func (b WeekdayBuckets) Totals() (total, completed int) {
	for _, d := range b {
		total += d.Total
		completed += d.Completed
	}
	return total, completed
}

// BestDay picks the bucket with the highest completion ratio among those with at least
// minSample check-ins. Ties keep the earliest weekday.
func BestDay(b WeekdayBuckets, minSample int) (DayOfWeekBucket, bool) {
	var (
		best  DayOfWeekBucket
		found bool
	)
	for _, d := range b {
		if d.Total < minSample || d.Total == 0 {
			continue
		}
		if !found || d.Rate() > best.Rate() {
			best = d
			found = true
		}
	}
	return best, found
}

// percent is round(100*part/whole), 0 for an empty whole, clamped to [0, 100].
func percent(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(part) / float64(whole)))
	if p > 100 {
		return 100
	}
	return p
}
