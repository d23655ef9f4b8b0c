package repository

import (
	"context"

	"github.com/andy/focusflow/internal/domain"
)

// TimerRepository persists the active timer collection. Save replaces the
// stored collection with the given one, preserving order.
type TimerRepository interface {
	Load(ctx context.Context) ([]domain.Timer, error)
	Save(ctx context.Context, timers []domain.Timer) error
}

// HistoryRepository persists the completed session log
type HistoryRepository interface {
	Load(ctx context.Context) ([]domain.HistoryItem, error)
	Save(ctx context.Context, items []domain.HistoryItem) error
}
