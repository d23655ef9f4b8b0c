package domain

import "time"

// The functions below implement the timer collection transitions. Each takes
// the current collection and returns a new slice; the input is never
// modified. Unknown ids leave the collection unchanged.

// IndexOf returns the position of the timer with id, or -1
func IndexOf(timers []Timer, id string) int {
	for i := range timers {
		if timers[i].ID == id {
			return i
		}
	}
	return -1
}

// Running returns the running timer, if any
func Running(timers []Timer) (Timer, bool) {
	for _, t := range timers {
		if t.IsRunning {
			return t, true
		}
	}
	return Timer{}, false
}

// AddTimer prepends a new running timer and pauses every other running timer
// in the same pass
func AddTimer(timers []Timer, t Timer, now time.Time) []Timer {
	out := make([]Timer, 0, len(timers)+1)
	out = append(out, t.start(now))
	for _, other := range timers {
		if other.IsRunning {
			other = other.bank(now)
		}
		out = append(out, other)
	}
	return out
}

// StartTimer starts the timer with id and banks every other running timer.
// Starting a timer that is already running is a no-op.
func StartTimer(timers []Timer, id string, now time.Time) []Timer {
	idx := IndexOf(timers, id)
	if idx < 0 || timers[idx].IsRunning {
		return timers
	}

	out := make([]Timer, len(timers))
	for i, t := range timers {
		switch {
		case i == idx:
			out[i] = t.start(now)
		case t.IsRunning:
			out[i] = t.bank(now)
		default:
			out[i] = t
		}
	}
	return out
}

// StopTimer banks the elapsed time of the running timer with id
func StopTimer(timers []Timer, id string, now time.Time) []Timer {
	idx := IndexOf(timers, id)
	if idx < 0 || !timers[idx].IsRunning {
		return timers
	}

	out := cloneTimers(timers)
	out[idx] = out[idx].bank(now)
	return out
}

// ToggleTimer starts a paused timer or stops a running one
func ToggleTimer(timers []Timer, id string, now time.Time) []Timer {
	idx := IndexOf(timers, id)
	if idx < 0 {
		return timers
	}
	if timers[idx].IsRunning {
		return StopTimer(timers, id, now)
	}
	return StartTimer(timers, id, now)
}

// EditTimer overwrites the fields set in edit. A running timer restarts its
// current interval at now so the stored duration becomes the new base; when
// the edit leaves the duration alone the running interval is banked first.
func EditTimer(timers []Timer, id string, edit TimerEdit, now time.Time) []Timer {
	idx := IndexOf(timers, id)
	if idx < 0 {
		return timers
	}

	out := cloneTimers(timers)
	t := out[idx]

	if t.IsRunning && edit.Accumulated == nil {
		t.Accumulated = t.Elapsed(now)
	}
	if edit.Title != nil {
		t.Title = *edit.Title
	}
	if edit.CreatedAt != nil {
		t.CreatedAt = *edit.CreatedAt
	}
	if edit.Accumulated != nil {
		t.Accumulated = *edit.Accumulated
	}
	if t.IsRunning {
		t = t.start(now)
	}

	out[idx] = t
	return out
}

// MinimizeTimer sets the presentation flag; time accounting is unaffected
func MinimizeTimer(timers []Timer, id string) []Timer {
	return setMinimized(timers, id, true)
}

// RestoreTimer clears the presentation flag
func RestoreTimer(timers []Timer, id string) []Timer {
	return setMinimized(timers, id, false)
}

func setMinimized(timers []Timer, id string, minimized bool) []Timer {
	idx := IndexOf(timers, id)
	if idx < 0 || timers[idx].IsMinimized == minimized {
		return timers
	}
	out := cloneTimers(timers)
	out[idx].IsMinimized = minimized
	return out
}

// RemoveTimer archives the timer with id and removes it from the collection.
// The returned item is nil when the timer is unknown or below the archive
// threshold.
func RemoveTimer(timers []Timer, id string, now time.Time) ([]Timer, *HistoryItem) {
	idx := IndexOf(timers, id)
	if idx < 0 {
		return timers, nil
	}

	item := Archive(timers[idx], now)

	out := make([]Timer, 0, len(timers)-1)
	out = append(out, timers[:idx]...)
	out = append(out, timers[idx+1:]...)
	return out, item
}

// RunningCount returns how many timers are running
func RunningCount(timers []Timer) int {
	n := 0
	for _, t := range timers {
		if t.IsRunning {
			n++
		}
	}
	return n
}

func cloneTimers(timers []Timer) []Timer {
	out := make([]Timer, len(timers))
	copy(out, timers)
	return out
}

// Normalize repairs a collection read from storage or an import: the running
// flag and start time are made consistent and every running timer after the
// first is banked at now.
func Normalize(timers []Timer, now time.Time) []Timer {
	out := cloneTimers(timers)
	seen := false
	for i, t := range out {
		switch {
		case t.IsRunning && t.LastStartTime == nil:
			t.IsRunning = false
		case !t.IsRunning && t.LastStartTime != nil:
			t.LastStartTime = nil
		case t.IsRunning && seen:
			t = t.bank(now)
		}
		if t.IsRunning {
			seen = true
		}
		if t.Accumulated < 0 {
			t.Accumulated = 0
		}
		out[i] = t
	}
	return out
}
