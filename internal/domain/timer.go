package domain

import (
	"errors"
	"strings"
	"time"
)

type TimerState string

const (
	TimerStateRunning TimerState = "running"
	TimerStatePaused  TimerState = "paused"
)

// Timer is a task currently being tracked. LastStartTime is non-nil exactly
// when IsRunning is true.
type Timer struct {
	ID            string
	Title         string
	CreatedAt     time.Time
	IsRunning     bool
	Accumulated   time.Duration // banked from previous running intervals
	LastStartTime *time.Time
	IsMinimized   bool
}

// NewTimer creates a running timer started at now
func NewTimer(id, title string, now time.Time) Timer {
	start := now
	return Timer{
		ID:            id,
		Title:         strings.TrimSpace(title),
		CreatedAt:     now,
		IsRunning:     true,
		LastStartTime: &start,
	}
}

// State returns the current timer state
func (t Timer) State() TimerState {
	if t.IsRunning {
		return TimerStateRunning
	}
	return TimerStatePaused
}

// Elapsed returns the banked duration plus the current running interval.
// It never mutates the timer.
func (t Timer) Elapsed(now time.Time) time.Duration {
	if !t.IsRunning || t.LastStartTime == nil {
		return t.Accumulated
	}
	return t.Accumulated + now.Sub(*t.LastStartTime)
}

// Validate returns an error if the timer is invalid
func (t Timer) Validate() error {
	if t.ID == "" {
		return errors.New("timer id is required")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("timer creation time is required")
	}
	if t.IsRunning != (t.LastStartTime != nil) {
		return errors.New("timer start time must be set exactly when running")
	}
	return nil
}

// start marks the timer running from now
func (t Timer) start(now time.Time) Timer {
	start := now
	t.IsRunning = true
	t.LastStartTime = &start
	return t
}

// bank folds the current running interval into Accumulated and pauses
func (t Timer) bank(now time.Time) Timer {
	t.Accumulated = t.Elapsed(now)
	t.IsRunning = false
	t.LastStartTime = nil
	return t
}

// TimerEdit carries the fields a user may overwrite. Nil fields are left as is.
// Callers clamp durations to zero before building an edit.
type TimerEdit struct {
	Title       *string
	CreatedAt   *time.Time
	Accumulated *time.Duration
}

// IsEmpty reports whether the edit changes nothing
func (e TimerEdit) IsEmpty() bool {
	return e.Title == nil && e.CreatedAt == nil && e.Accumulated == nil
}
