package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/andy/focusflow/internal/clock"
	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/repository"
)

// ErrPersist wraps failures to save a collection. The in-memory change has
// already been applied when it is returned.
var ErrPersist = errors.New("failed to persist changes")

// Store holds the timers and history of one dataset in memory and writes
// them back through the repositories after every mutation. Mutations are
// serialized by the store mutex.
type Store struct {
	mu      sync.Mutex
	timers  []domain.Timer
	history []domain.HistoryItem

	// set while a collection holds changes its repository has not accepted
	timersDirty  bool
	historyDirty bool

	dataset     domain.Dataset
	timerRepo   repository.TimerRepository
	historyRepo repository.HistoryRepository
	clock       clock.Clock
	logger      *slog.Logger
}

// NewStore creates a store and loads both collections. Load failures are
// logged and leave the collection empty.
func NewStore(ctx context.Context, dataset domain.Dataset, timerRepo repository.TimerRepository, historyRepo repository.HistoryRepository, clk clock.Clock, logger *slog.Logger) *Store {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		dataset:     dataset,
		timerRepo:   timerRepo,
		historyRepo: historyRepo,
		clock:       clk,
		logger:      logger.With("dataset", string(dataset)),
	}
	s.Reload(ctx)
	return s
}

// Reload replaces the in-memory collections with what the repositories
// hold. A collection with unsaved changes is written back instead of being
// overwritten, and keeps its memory while the repository keeps failing.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flush(ctx) != nil {
		s.logger.Warn("unsaved changes kept in memory during reload",
			"timers_dirty", s.timersDirty, "history_dirty", s.historyDirty)
	}

	if !s.timersDirty {
		timers, err := s.timerRepo.Load(ctx)
		if err != nil {
			s.logger.Error("failed to load timers, starting empty", "error", err)
			timers = nil
		}
		s.timers = domain.Normalize(timers, s.clock.Now())
	}
	if !s.historyDirty {
		history, err := s.historyRepo.Load(ctx)
		if err != nil {
			s.logger.Error("failed to load history, starting empty", "error", err)
			history = nil
		}
		s.history = history
	}
}

func (s *Store) Dataset() domain.Dataset { return s.dataset }

func (s *Store) Now() time.Time { return s.clock.Now() }

// Timers returns a copy of the timer collection
func (s *Store) Timers() []domain.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Timer(nil), s.timers...)
}

// History returns a copy of the history collection
func (s *Store) History() []domain.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryItem(nil), s.history...)
}

// Snapshot returns both collections read under one lock together with the
// time they were read
func (s *Store) Snapshot() ([]domain.Timer, []domain.HistoryItem, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Timer(nil), s.timers...), append([]domain.HistoryItem(nil), s.history...), s.clock.Now()
}

// mutation computes the next collections from the current ones
type mutation func(timers []domain.Timer, history []domain.HistoryItem, now time.Time) ([]domain.Timer, []domain.HistoryItem)

// apply runs fn under the lock, keeps its result in memory and saves every
// dirty collection, including ones an earlier save rejected
func (s *Store) apply(ctx context.Context, fn mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	timers, history := fn(s.timers, s.history, now)

	if !sameSlice(timers, s.timers) {
		s.timersDirty = true
	}
	if !sameSlice(history, s.history) {
		s.historyDirty = true
	}
	s.timers, s.history = timers, history

	return s.flush(ctx)
}

// flush saves every dirty collection and clears the flag of those that were
// accepted. Callers hold the lock.
func (s *Store) flush(ctx context.Context) error {
	var errs []error
	if s.timersDirty {
		if err := s.timerRepo.Save(ctx, s.timers); err != nil {
			s.logger.Error("failed to save timers", "error", err)
			errs = append(errs, err)
		} else {
			s.timersDirty = false
		}
	}
	if s.historyDirty {
		if err := s.historyRepo.Save(ctx, s.history); err != nil {
			s.logger.Error("failed to save history", "error", err)
			errs = append(errs, err)
		} else {
			s.historyDirty = false
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(errs...))
	}
	return nil
}

// sameSlice reports whether a and b share the same backing array and length.
// Collection functions return their input unchanged for no-ops.
func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
