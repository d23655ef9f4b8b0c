package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/ident"
)

var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrTimerNotFound = errors.New("timer not found")
)

// TimerService manages the active timers of one dataset. Operations on an
// unknown id are no-ops.
type TimerService interface {
	// List returns every timer in display order
	List(ctx context.Context) []domain.Timer

	// Get returns a single timer
	Get(ctx context.Context, id string) (domain.Timer, error)

	// Running returns the running timer, or nil
	Running(ctx context.Context) *domain.Timer

	// Add creates a running timer at the top of the list, pausing the others
	Add(ctx context.Context, title string) (domain.Timer, error)

	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) error

	// Edit overwrites title, start time or elapsed time. Negative elapsed
	// values are clamped to zero.
	Edit(ctx context.Context, id string, edit domain.TimerEdit) error

	// Delete removes the timer, archiving it when it ran long enough
	Delete(ctx context.Context, id string) (*domain.HistoryItem, error)

	// Complete is Delete under the name the user chose
	Complete(ctx context.Context, id string) (*domain.HistoryItem, error)

	Minimize(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error

	// Elapsed returns the live elapsed time of a timer
	Elapsed(ctx context.Context, id string) (time.Duration, error)

	Now() time.Time
}

type timerService struct {
	store *Store
	ids   ident.Generator
}

// NewTimerService creates a new timer service
func NewTimerService(store *Store, ids ident.Generator) TimerService {
	if ids == nil {
		ids = ident.UUID()
	}
	return &timerService{store: store, ids: ids}
}

func (s *timerService) Now() time.Time { return s.store.Now() }

func (s *timerService) List(ctx context.Context) []domain.Timer {
	return s.store.Timers()
}

func (s *timerService) Get(ctx context.Context, id string) (domain.Timer, error) {
	timers := s.store.Timers()
	if i := domain.IndexOf(timers, id); i >= 0 {
		return timers[i], nil
	}
	return domain.Timer{}, ErrTimerNotFound
}

func (s *timerService) Running(ctx context.Context) *domain.Timer {
	if t, ok := domain.Running(s.store.Timers()); ok {
		return &t
	}
	return nil
}

func (s *timerService) Add(ctx context.Context, title string) (domain.Timer, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Timer{}, ErrEmptyTitle
	}

	var created domain.Timer
	err := s.store.apply(ctx, func(timers []domain.Timer, history []domain.HistoryItem, now time.Time) ([]domain.Timer, []domain.HistoryItem) {
		created = domain.NewTimer(s.ids.NewID(), title, now)
		return domain.AddTimer(timers, created, now), history
	})
	s.store.logger.Debug("timer added", "timer_id", created.ID)
	return created, err
}

func (s *timerService) Start(ctx context.Context, id string) error {
	return s.updateTimers(ctx, func(timers []domain.Timer, now time.Time) []domain.Timer {
		return domain.StartTimer(timers, id, now)
	})
}

func (s *timerService) Stop(ctx context.Context, id string) error {
	return s.updateTimers(ctx, func(timers []domain.Timer, now time.Time) []domain.Timer {
		return domain.StopTimer(timers, id, now)
	})
}

func (s *timerService) Toggle(ctx context.Context, id string) error {
	return s.updateTimers(ctx, func(timers []domain.Timer, now time.Time) []domain.Timer {
		return domain.ToggleTimer(timers, id, now)
	})
}

func (s *timerService) Edit(ctx context.Context, id string, edit domain.TimerEdit) error {
	if edit.Title != nil {
		title := strings.TrimSpace(*edit.Title)
		if title == "" {
			return ErrEmptyTitle
		}
		edit.Title = &title
	}
	if edit.Accumulated != nil && *edit.Accumulated < 0 {
		zero := time.Duration(0)
		edit.Accumulated = &zero
	}
	if edit.IsEmpty() {
		return nil
	}

	return s.updateTimers(ctx, func(timers []domain.Timer, now time.Time) []domain.Timer {
		return domain.EditTimer(timers, id, edit, now)
	})
}

func (s *timerService) Delete(ctx context.Context, id string) (*domain.HistoryItem, error) {
	var archived *domain.HistoryItem
	err := s.store.apply(ctx, func(timers []domain.Timer, history []domain.HistoryItem, now time.Time) ([]domain.Timer, []domain.HistoryItem) {
		timers, archived = domain.RemoveTimer(timers, id, now)
		if archived == nil {
			return timers, history
		}
		// newest first
		next := make([]domain.HistoryItem, 0, len(history)+1)
		next = append(next, *archived)
		return timers, append(next, history...)
	})
	if archived != nil {
		s.store.logger.Debug("timer archived", "timer_id", id, "duration", archived.Duration)
	}
	return archived, err
}

func (s *timerService) Complete(ctx context.Context, id string) (*domain.HistoryItem, error) {
	return s.Delete(ctx, id)
}

func (s *timerService) Minimize(ctx context.Context, id string) error {
	return s.updateTimers(ctx, func(timers []domain.Timer, now time.Time) []domain.Timer {
		return domain.MinimizeTimer(timers, id)
	})
}

func (s *timerService) Restore(ctx context.Context, id string) error {
	return s.updateTimers(ctx, func(timers []domain.Timer, now time.Time) []domain.Timer {
		return domain.RestoreTimer(timers, id)
	})
}

func (s *timerService) Elapsed(ctx context.Context, id string) (time.Duration, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return t.Elapsed(s.store.Now()), nil
}

func (s *timerService) updateTimers(ctx context.Context, fn func([]domain.Timer, time.Time) []domain.Timer) error {
	return s.store.apply(ctx, func(timers []domain.Timer, history []domain.HistoryItem, now time.Time) ([]domain.Timer, []domain.HistoryItem) {
		return fn(timers, now), history
	})
}
