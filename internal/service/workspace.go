package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/andy/focusflow/internal/clock"
	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/ident"
	"github.com/andy/focusflow/internal/repository"
)

// Options configure the services of a workspace
type Options struct {
	Clock        clock.Clock
	IDs          ident.Generator
	Logger       *slog.Logger
	Location     *time.Location
	SyncBaseURL  string
	MaxURLLength int
}

// Workspace bundles the services operating on one dataset
type Workspace struct {
	Store   *Store
	Timers  TimerService
	History HistoryService
	Reports ReportService
	Sync    SyncService
}

// NewWorkspace loads the dataset and wires its services
func NewWorkspace(ctx context.Context, dataset domain.Dataset, timerRepo repository.TimerRepository, historyRepo repository.HistoryRepository, opts Options) *Workspace {
	store := NewStore(ctx, dataset, timerRepo, historyRepo, opts.Clock, opts.Logger)
	return &Workspace{
		Store:   store,
		Timers:  NewTimerService(store, opts.IDs),
		History: NewHistoryService(store),
		Reports: NewReportService(store, opts.Location),
		Sync:    NewSyncService(store, opts.SyncBaseURL, opts.MaxURLLength),
	}
}

func (w *Workspace) Dataset() domain.Dataset { return w.Store.Dataset() }
