package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/report"
)

var (
	errNoMatch   = errors.New("no match")
	errAmbiguous = errors.New("ambiguous reference")
)

// matchTimer resolves a full id, a 1-based list position or a unique id
// prefix
func matchTimer(timers []domain.Timer, ref string) (domain.Timer, error) {
	ref = strings.TrimSpace(ref)
	if i := domain.IndexOf(timers, ref); i >= 0 {
		return timers[i], nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(timers) {
		return timers[n-1], nil
	}

	ids := make([]string, len(timers))
	for i, t := range timers {
		ids[i] = t.ID
	}
	id, err := matchPrefix(ids, ref)
	if err != nil {
		return domain.Timer{}, fmt.Errorf("timer %q: %w", ref, err)
	}
	return timers[domain.IndexOf(timers, id)], nil
}

// matchHistoryID resolves a full or unique prefix of a history id
func matchHistoryID(items []domain.HistoryItem, ref string) (string, error) {
	ids := make([]string, 0, len(items))
	for _, h := range items {
		ids = append(ids, h.ID)
	}
	id, err := matchPrefix(ids, strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("history item %q: %w", ref, err)
	}
	return id, nil
}

func matchPrefix(ids []string, ref string) (string, error) {
	if ref == "" {
		return "", errNoMatch
	}
	found := ""
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) && id != found {
			if found != "" {
				return "", errAmbiguous
			}
			found = id
		}
	}
	if found == "" {
		return "", errNoMatch
	}
	return found, nil
}

var whenLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// parseWhen parses an instant in loc
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use RFC3339 or \"2006-01-02 15:04\")", s)
}

// parseView maps a --view value to a navigator state
func parseView(view string, loc *time.Location) (report.State, error) {
	view = strings.ToLower(strings.TrimSpace(view))
	switch {
	case view == "year":
		return report.Year{}, nil
	case strings.HasPrefix(view, "month:"):
		t, err := time.ParseInLocation("2006-01", strings.TrimPrefix(view, "month:"), loc)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q (use month:YYYY-MM)", view)
		}
		return report.Month{Focus: t}, nil
	case strings.HasPrefix(view, "week:"):
		t, err := time.ParseInLocation("2006-01-02", strings.TrimPrefix(view, "week:"), loc)
		if err != nil {
			return nil, fmt.Errorf("invalid week %q (use week:YYYY-MM-DD)", view)
		}
		monday := report.StartOfWeek(t)
		return report.Week{Focus: monday, Parent: report.StartOfMonth(monday)}, nil
	}

	days, err := strconv.Atoi(view)
	if err != nil {
		return nil, fmt.Errorf("invalid view %q (use 7, 14, 30, year, month:YYYY-MM or week:YYYY-MM-DD)", view)
	}
	n := report.NewNavigator()
	if err := n.SelectPreset(days); err != nil {
		return nil, err
	}
	return n.State(), nil
}

// selectDay narrows a daily view to one day
func selectDay(state report.State, day string, loc *time.Location) (report.State, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid day %q (use YYYY-MM-DD)", day)
	}
	switch st := state.(type) {
	case report.Preset:
		if st.Days != 30 {
			st.Selected = &t
			return st, nil
		}
	case report.Week:
		st.Selected = &t
		return st, nil
	}
	return nil, fmt.Errorf("--day needs a daily view (7, 14 or week:YYYY-MM-DD)")
}
