package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// formTimeLayout is the layout of date-time fields in edit forms
const formTimeLayout = "2006-01-02 15:04"

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func errorText(s string) string {
	return lipgloss.NewStyle().Foreground(errorColor).Render(s)
}

func successText(s string) string {
	return lipgloss.NewStyle().Foreground(successColor).Render(s)
}

// splitDuration returns whole hours and leftover minutes
func splitDuration(d time.Duration) (int, int) {
	if d < 0 {
		d = 0
	}
	return int(d.Hours()), int(d.Minutes()) % 60
}

// parseHoursMinutes reads the hour and minute fields of an edit form.
// Empty fields count as zero; negative totals are left for the caller to clamp.
func parseHoursMinutes(hours, minutes string) (time.Duration, error) {
	h, err := parseCount(hours)
	if err != nil {
		return 0, fmt.Errorf("invalid hours: %q", hours)
	}
	m, err := parseCount(minutes)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes: %q", minutes)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parseFormTime parses a form date-time in loc
func parseFormTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(formTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected YYYY-MM-DD HH:MM", s)
	}
	return t, nil
}
