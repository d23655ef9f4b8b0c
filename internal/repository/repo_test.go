package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/andy/focusflow/internal/db"
	"github.com/andy/focusflow/internal/domain"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.RunMigrations(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

var base = time.Date(2026, 3, 2, 9, 0, 0, 123_000_000, time.UTC)

func TestTimerRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTimerRepo(openTestDB(t), nil)

	empty, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no timers, got %d", len(empty))
	}

	start := base.Add(time.Minute)
	timers := []domain.Timer{
		{ID: "b", Title: "Second", CreatedAt: base, IsRunning: true, Accumulated: 1500 * time.Millisecond, LastStartTime: &start},
		{ID: "a", Title: "First", CreatedAt: base.Add(-time.Hour), Accumulated: time.Hour, IsMinimized: true},
	}
	if err := repo.Save(ctx, timers); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("order not preserved: %+v", got)
	}
	if got[0].LastStartTime == nil || !got[0].LastStartTime.Equal(start) {
		t.Errorf("start time not preserved: %v", got[0].LastStartTime)
	}
	if got[0].Accumulated != 1500*time.Millisecond || !got[0].IsRunning {
		t.Errorf("running state not preserved: %+v", got[0])
	}
	if got[1].LastStartTime != nil || !got[1].IsMinimized || !got[1].CreatedAt.Equal(base.Add(-time.Hour)) {
		t.Errorf("paused timer not preserved: %+v", got[1])
	}

	// save replaces
	if err := repo.Save(ctx, timers[1:]); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.Load(ctx)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected replacement, got %+v", got)
	}
}

func TestHistoryRepoKeepsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepo(openTestDB(t), nil)

	items := []domain.HistoryItem{
		{ID: "x", Title: "Later", CompletedAt: base.Add(time.Hour), Duration: time.Hour},
		{ID: "x", Title: "Earlier", CompletedAt: base, Duration: 90 * time.Second},
	}
	if err := repo.Save(ctx, items); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Title != "Later" || got[1].Title != "Earlier" {
		t.Fatalf("unexpected items %+v", got)
	}
	if got[1].Duration != 90*time.Second || !got[1].CompletedAt.Equal(base) {
		t.Errorf("values not preserved: %+v", got[1])
	}
}

func TestHistoryRepoSkipsCorruptRows(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewHistoryRepo(database, nil)

	if err := repo.Save(ctx, []domain.HistoryItem{{ID: "ok", Title: "ok", CompletedAt: base, Duration: time.Minute}}); err != nil {
		t.Fatal(err)
	}
	if _, err := database.Exec(`INSERT INTO history (position, id, title, completed_at, duration_ms) VALUES (1, 'bad', 'bad', 'not a time', 1000)`); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("expected the corrupt row to be skipped, got %+v", got)
	}
}

func TestMemoryReposCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTimerRepo([]domain.Timer{{ID: "a"}})

	got, _ := repo.Load(ctx)
	got[0].ID = "changed"

	again, _ := repo.Load(ctx)
	if again[0].ID != "a" {
		t.Fatal("load must return a copy")
	}

	if err := repo.Save(ctx, nil); err != nil || repo.Saves() != 1 {
		t.Fatalf("unexpected save result %v, %d", err, repo.Saves())
	}
}
