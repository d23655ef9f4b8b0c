package report

import (
	"fmt"
	"time"
)

// FormatClock renders a duration as HH:MM:SS, or MM:SS under an hour
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatShort renders a duration as "1h 5m", "5m" or "< 1m"
func FormatShort(d time.Duration) string {
	total := int64(d / time.Minute)
	h, m := total/60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	}
	return "< 1m"
}
