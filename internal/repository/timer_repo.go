package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/andy/focusflow/internal/db"
	"github.com/andy/focusflow/internal/domain"
)

// TimerRepo is a SQLite implementation of TimerRepository
type TimerRepo struct {
	db     *db.DB
	logger *slog.Logger
}

// NewTimerRepo creates a new TimerRepo
func NewTimerRepo(database *db.DB, logger *slog.Logger) *TimerRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerRepo{db: database, logger: logger}
}

// Load returns the stored timers in display order. Rows that cannot be
// decoded are logged and skipped.
func (r *TimerRepo) Load(ctx context.Context) ([]domain.Timer, error) {
	query := `
		SELECT id, title, created_at, is_running, accumulated_ms, last_start_time, is_minimized
		FROM timers
		ORDER BY position, seq
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query timers: %w", err)
	}
	defer rows.Close()

	timers := []domain.Timer{}
	for rows.Next() {
		var t domain.Timer
		var createdAt string
		var accumulatedMs int64
		var lastStart sql.NullString

		if err := rows.Scan(&t.ID, &t.Title, &createdAt, &t.IsRunning, &accumulatedMs, &lastStart, &t.IsMinimized); err != nil {
			return nil, fmt.Errorf("failed to scan timer: %w", err)
		}

		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			r.logger.Warn("skipping timer with unreadable created_at", "timer_id", t.ID, "error", err)
			continue
		}
		if lastStart.Valid {
			start, err := parseTime(lastStart.String)
			if err != nil {
				r.logger.Warn("skipping timer with unreadable last_start_time", "timer_id", t.ID, "error", err)
				continue
			}
			t.LastStartTime = &start
		}
		t.Accumulated = fromMillis(accumulatedMs)

		timers = append(timers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timers: %w", err)
	}

	return timers, nil
}

// Save replaces every stored timer in a single transaction
func (r *TimerRepo) Save(ctx context.Context, timers []domain.Timer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM timers"); err != nil {
		return fmt.Errorf("failed to clear timers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timers (position, id, title, created_at, is_running, accumulated_ms, last_start_time, is_minimized)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare timer insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range timers {
		_, err := stmt.ExecContext(ctx,
			i,
			t.ID,
			t.Title,
			formatTime(t.CreatedAt),
			t.IsRunning,
			toMillis(t.Accumulated),
			nullTime(t.LastStartTime),
			t.IsMinimized,
		)
		if err != nil {
			return fmt.Errorf("failed to save timer %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit timers: %w", err)
	}
	return nil
}
