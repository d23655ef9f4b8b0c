package report

import (
	"fmt"
	"time"
)

func dayLabels(t time.Time) (string, string) {
	return t.Format("Mon"), t.Format("Monday, January 2, 2006")
}

func weekLabels(t time.Time) (string, string) {
	return fmt.Sprintf("Wk %d", t.Day()), "Week: " + WeekRange(t)
}

func monthLabels(t time.Time) (string, string) {
	return t.Format("Jan"), t.Format("January 2006")
}

// WeekRange formats the Monday-Sunday span starting at start, e.g.
// "Mar 2 - 8" or "Mar 30 - Apr 5"
func WeekRange(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	if start.Month() == end.Month() {
		return fmt.Sprintf("%s %d - %d", start.Format("Jan"), start.Day(), end.Day())
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2"))
}

// Title returns the header label for a navigator state
func Title(s State) string {
	switch st := s.(type) {
	case Preset:
		if st.Days == 30 {
			return "Last 30 Days (Weekly)"
		}
		return fmt.Sprintf("Last %d Days", st.Days)
	case Year:
		return "Yearly Activity"
	case Month:
		return st.Focus.Format("January 2006")
	case Week:
		return "Week: " + WeekRange(StartOfWeek(st.Focus))
	}
	return "History"
}
