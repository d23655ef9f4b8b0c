package report

import "time"

// StartOfDay returns local midnight of the day containing t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Monday of the week containing t
func StartOfWeek(t time.Time) time.Time {
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	d := StartOfDay(t)
	return d.AddDate(0, 0, -offset+1)
}

// StartOfMonth returns midnight of the first day of the month containing t
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// WeeksInMonth returns the Monday of every week overlapping the month
// containing t, in chronological order. A week belongs to the month when its
// Monday or its Sunday falls inside it, so boundary weeks also appear in the
// neighbouring month.
func WeeksInMonth(t time.Time) []time.Time {
	first := StartOfMonth(t)
	next := first.AddDate(0, 1, 0)

	var weeks []time.Time
	for monday := StartOfWeek(first); monday.Before(next); monday = monday.AddDate(0, 0, 7) {
		weeks = append(weeks, monday)
	}
	return weeks
}

// sameDay reports whether a and b fall on the same calendar day in a's location
func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
