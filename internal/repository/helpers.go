package repository

import (
	"database/sql"
	"time"
)

// timeLayout keeps millisecond precision, matching the sync format
const timeLayout = time.RFC3339Nano

// parseTime parses a stored timestamp
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// formatTime returns t in the storage layout
func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func toMillis(d time.Duration) int64 {
	return d.Milliseconds()
}

func fromMillis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
