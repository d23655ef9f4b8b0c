package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/snapshot"
)

// Export is a dataset ready for transfer to another device
type Export struct {
	URL      string
	Payload  string
	Snapshot snapshot.Snapshot
	TooLarge bool
}

// SyncService moves a whole dataset in and out through the sync format
type SyncService interface {
	// Export encodes both collections
	Export(ctx context.Context) (Export, error)

	// Decode parses a payload or link without applying it
	Decode(input string) (snapshot.Snapshot, error)

	// Import replaces both collections with the snapshot
	Import(ctx context.Context, snap snapshot.Snapshot) error
}

type syncService struct {
	store     *Store
	baseURL   string
	maxURLLen int
}

// NewSyncService creates a sync service producing links under baseURL
func NewSyncService(store *Store, baseURL string, maxURLLen int) SyncService {
	return &syncService{store: store, baseURL: baseURL, maxURLLen: maxURLLen}
}

func (s *syncService) Export(ctx context.Context) (Export, error) {
	timers, history, now := s.store.Snapshot()
	snap := snapshot.Snapshot{Timers: timers, History: history, ExportedAt: now}

	payload, err := snapshot.Encode(snap)
	if err != nil {
		return Export{}, err
	}

	link, err := snapshot.BuildURL(s.baseURL, snap, s.maxURLLen)
	out := Export{URL: link, Payload: payload, Snapshot: snap}
	switch {
	case err == nil:
	case link != "":
		out.TooLarge = true
	default:
		return Export{}, err
	}
	return out, nil
}

func (s *syncService) Decode(input string) (snapshot.Snapshot, error) {
	return snapshot.Decode(input)
}

func (s *syncService) Import(ctx context.Context, snap snapshot.Snapshot) error {
	if snap.Timers == nil || snap.History == nil {
		return snapshot.ErrMalformed
	}

	err := s.store.apply(ctx, func(_ []domain.Timer, _ []domain.HistoryItem, now time.Time) ([]domain.Timer, []domain.HistoryItem) {
		return domain.Normalize(snap.Timers, now), append([]domain.HistoryItem{}, snap.History...)
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.store.logger.Info("snapshot imported", "timers", len(snap.Timers), "history", len(snap.History))
	return nil
}
