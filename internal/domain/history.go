package domain

import (
	"errors"
	"time"
)

// MinArchiveDuration is the shortest session the archival path keeps
const MinArchiveDuration = 5 * time.Second

// HistoryItem is a finished session. The ID is carried over from the
// originating timer and is not guaranteed unique.
type HistoryItem struct {
	ID          string
	Title       string
	CompletedAt time.Time
	Duration    time.Duration
}

// Archive converts a timer being removed into a history item. The session is
// discarded (nil) when its final elapsed time is at or below
// MinArchiveDuration. The completion instant is derived from the creation
// time plus the duration so backdated timers stay consistent.
func Archive(t Timer, now time.Time) *HistoryItem {
	elapsed := t.Elapsed(now)
	if elapsed <= MinArchiveDuration {
		return nil
	}

	return &HistoryItem{
		ID:          t.ID,
		Title:       t.Title,
		CompletedAt: t.CreatedAt.Add(elapsed),
		Duration:    elapsed,
	}
}

// Validate returns an error if the item is invalid
func (h HistoryItem) Validate() error {
	if h.CompletedAt.IsZero() {
		return errors.New("completion time is required")
	}
	if h.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	return nil
}

// HistoryEdit carries user edits to a history item. Nil fields are left as is.
type HistoryEdit struct {
	Title       *string
	CompletedAt *time.Time
	Duration    *time.Duration
}

// EditHistory applies edit to every item with id. Ids are not unique, so a
// repeated id updates all of its records.
func EditHistory(items []HistoryItem, id string, edit HistoryEdit) ([]HistoryItem, bool) {
	found := false
	out := make([]HistoryItem, len(items))
	copy(out, items)

	for i := range out {
		if out[i].ID != id {
			continue
		}
		found = true
		if edit.Title != nil {
			out[i].Title = *edit.Title
		}
		if edit.CompletedAt != nil {
			out[i].CompletedAt = *edit.CompletedAt
		}
		if edit.Duration != nil {
			out[i].Duration = *edit.Duration
		}
	}

	if !found {
		return items, false
	}
	return out, true
}
