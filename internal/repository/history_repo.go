package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andy/focusflow/internal/db"
	"github.com/andy/focusflow/internal/domain"
)

// HistoryRepo is a SQLite implementation of HistoryRepository
type HistoryRepo struct {
	db     *db.DB
	logger *slog.Logger
}

// NewHistoryRepo creates a new HistoryRepo
func NewHistoryRepo(database *db.DB, logger *slog.Logger) *HistoryRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryRepo{db: database, logger: logger}
}

// Load returns the stored history in log order (most recent first)
func (r *HistoryRepo) Load(ctx context.Context) ([]domain.HistoryItem, error) {
	query := `
		SELECT id, title, completed_at, duration_ms
		FROM history
		ORDER BY position, seq
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	items := []domain.HistoryItem{}
	for rows.Next() {
		var h domain.HistoryItem
		var completedAt string
		var durationMs int64

		if err := rows.Scan(&h.ID, &h.Title, &completedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("failed to scan history item: %w", err)
		}
		if h.CompletedAt, err = parseTime(completedAt); err != nil {
			r.logger.Warn("skipping history item with unreadable completed_at", "timer_id", h.ID, "error", err)
			continue
		}
		h.Duration = fromMillis(durationMs)

		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return items, nil
}

// Save replaces the stored history in a single transaction
func (r *HistoryRepo) Save(ctx context.Context, items []domain.HistoryItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO history (position, id, title, completed_at, duration_ms)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range items {
		if _, err := stmt.ExecContext(ctx, i, h.ID, h.Title, formatTime(h.CompletedAt), toMillis(h.Duration)); err != nil {
			return fmt.Errorf("failed to save history item %s: %w", h.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}
