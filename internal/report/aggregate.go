package report

import (
	"sort"
	"time"

	"github.com/andy/focusflow/internal/domain"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Point is one bucket of an aggregated series. Points are derived on demand
// and never stored.
type Point struct {
	BucketStart time.Time
	Total       time.Duration
	Label       string
	FullLabel   string
	Granularity Granularity
}

// End returns the exclusive end of the bucket
func (p Point) End() time.Time {
	switch p.Granularity {
	case GranularityWeek:
		return p.BucketStart.AddDate(0, 0, 7)
	case GranularityMonth:
		return p.BucketStart.AddDate(0, 1, 0)
	default:
		return p.BucketStart.AddDate(0, 0, 1)
	}
}

// Contains reports whether t falls inside the bucket
func (p Point) Contains(t time.Time) bool {
	return !t.Before(p.BucketStart) && t.Before(p.End())
}

// Series is an ordered set of points plus the largest total, floored at one
// millisecond so consumers can always divide by it
type Series struct {
	Points []Point
	Max    time.Duration
}

// Buckets returns the empty buckets a state displays, oldest first. Bucket
// boundaries are computed in now's location.
func Buckets(s State, now time.Time) []Point {
	loc := now.Location()
	var points []Point

	switch st := s.(type) {
	case Preset:
		if st.Days == 30 {
			current := StartOfWeek(now)
			for i := 4; i >= 0; i-- {
				points = append(points, weekPoint(current.AddDate(0, 0, -7*i)))
			}
			break
		}
		today := StartOfDay(now)
		for i := st.Days - 1; i >= 0; i-- {
			points = append(points, dayPoint(today.AddDate(0, 0, -i)))
		}

	case Year:
		current := StartOfMonth(now)
		for i := 11; i >= 0; i-- {
			points = append(points, monthPoint(current.AddDate(0, -i, 0)))
		}

	case Month:
		for _, monday := range WeeksInMonth(st.Focus.In(loc)) {
			points = append(points, weekPoint(monday))
		}

	case Week:
		monday := StartOfWeek(st.Focus.In(loc))
		for i := 0; i < 7; i++ {
			points = append(points, dayPoint(monday.AddDate(0, 0, i)))
		}
	}

	return points
}

// Aggregate sums history durations into the buckets of state s
func Aggregate(items []domain.HistoryItem, s State, now time.Time) Series {
	points := Buckets(s, now)

	for _, item := range items {
		for i := range points {
			if points[i].Contains(item.CompletedAt) {
				points[i].Total += item.Duration
				break
			}
		}
	}

	peak := time.Millisecond
	for _, p := range points {
		if p.Total > peak {
			peak = p.Total
		}
	}

	return Series{Points: points, Max: peak}
}

// Scope returns the [start, end) range of history a state lists before any
// bucket selection is applied
func Scope(s State, now time.Time) (time.Time, time.Time) {
	loc := now.Location()

	switch st := s.(type) {
	case Month:
		start := StartOfMonth(st.Focus.In(loc))
		return start, start.AddDate(0, 1, 0)
	case Week:
		start := StartOfWeek(st.Focus.In(loc))
		return start, start.AddDate(0, 0, 7)
	}

	points := Buckets(s, now)
	if len(points) == 0 {
		return now, now
	}
	return points[0].BucketStart, points[len(points)-1].End()
}

// Items returns the history items in scope for state s, narrowed to the
// selected day when one is set, most recent first
func Items(items []domain.HistoryItem, s State, now time.Time) []domain.HistoryItem {
	start, end := Scope(s, now)
	selected := SelectedBucket(s)

	out := make([]domain.HistoryItem, 0, len(items))
	for _, item := range items {
		if item.CompletedAt.Before(start) || !item.CompletedAt.Before(end) {
			continue
		}
		if selected != nil && !sameDay(selected.In(now.Location()), item.CompletedAt) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}

func dayPoint(t time.Time) Point {
	label, full := dayLabels(t)
	return Point{BucketStart: t, Label: label, FullLabel: full, Granularity: GranularityDay}
}

func weekPoint(t time.Time) Point {
	label, full := weekLabels(t)
	return Point{BucketStart: t, Label: label, FullLabel: full, Granularity: GranularityWeek}
}

func monthPoint(t time.Time) Point {
	label, full := monthLabels(t)
	return Point{BucketStart: t, Label: label, FullLabel: full, Granularity: GranularityMonth}
}
