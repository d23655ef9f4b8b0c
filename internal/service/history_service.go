package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/andy/focusflow/internal/domain"
)

var ErrHistoryNotFound = errors.New("history item not found")

// HistoryService reads and edits the completed session log
type HistoryService interface {
	// List returns every item, most recently archived first
	List(ctx context.Context) []domain.HistoryItem

	// Find returns every item carrying id
	Find(ctx context.Context, id string) []domain.HistoryItem

	// Update applies edit to every item with id. Negative durations are
	// clamped to zero.
	Update(ctx context.Context, id string, edit domain.HistoryEdit) error
}

type historyService struct {
	store *Store
}

// NewHistoryService creates a new history service
func NewHistoryService(store *Store) HistoryService {
	return &historyService{store: store}
}

func (s *historyService) List(ctx context.Context) []domain.HistoryItem {
	return s.store.History()
}

func (s *historyService) Find(ctx context.Context, id string) []domain.HistoryItem {
	var out []domain.HistoryItem
	for _, h := range s.store.History() {
		if h.ID == id {
			out = append(out, h)
		}
	}
	return out
}

func (s *historyService) Update(ctx context.Context, id string, edit domain.HistoryEdit) error {
	if edit.Title != nil {
		title := strings.TrimSpace(*edit.Title)
		if title == "" {
			return ErrEmptyTitle
		}
		edit.Title = &title
	}
	if edit.Duration != nil && *edit.Duration < 0 {
		zero := time.Duration(0)
		edit.Duration = &zero
	}

	found := false
	err := s.store.apply(ctx, func(timers []domain.Timer, history []domain.HistoryItem, now time.Time) ([]domain.Timer, []domain.HistoryItem) {
		history, found = domain.EditHistory(history, id, edit)
		return timers, history
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrHistoryNotFound
	}
	return nil
}
