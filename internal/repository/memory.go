package repository

import (
	"context"
	"sync"

	"github.com/andy/focusflow/internal/domain"
)

// MemoryTimerRepo keeps timers in process memory. It backs the demo dataset
// and tests; nothing survives a restart.
type MemoryTimerRepo struct {
	mu     sync.Mutex
	timers []domain.Timer
	saves  int
}

func NewMemoryTimerRepo(seed []domain.Timer) *MemoryTimerRepo {
	return &MemoryTimerRepo{timers: append([]domain.Timer(nil), seed...)}
}

func (r *MemoryTimerRepo) Load(ctx context.Context) ([]domain.Timer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Timer{}, r.timers...), nil
}

func (r *MemoryTimerRepo) Save(ctx context.Context, timers []domain.Timer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timers = append([]domain.Timer(nil), timers...)
	r.saves++
	return nil
}

// Saves returns how many times Save was called
func (r *MemoryTimerRepo) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// MemoryHistoryRepo keeps history in process memory
type MemoryHistoryRepo struct {
	mu    sync.Mutex
	items []domain.HistoryItem
	saves int
}

func NewMemoryHistoryRepo(seed []domain.HistoryItem) *MemoryHistoryRepo {
	return &MemoryHistoryRepo{items: append([]domain.HistoryItem(nil), seed...)}
}

func (r *MemoryHistoryRepo) Load(ctx context.Context) ([]domain.HistoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.HistoryItem{}, r.items...), nil
}

func (r *MemoryHistoryRepo) Save(ctx context.Context, items []domain.HistoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]domain.HistoryItem(nil), items...)
	r.saves++
	return nil
}

func (r *MemoryHistoryRepo) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
