package backup

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/snapshot"
)

type fakeSource struct {
	now     time.Time
	reloads int
}

func (f *fakeSource) Reload(ctx context.Context) { f.reloads++ }

func (f *fakeSource) Snapshot() ([]domain.Timer, []domain.HistoryItem, time.Time) {
	now := f.now
	f.now = f.now.Add(time.Second)
	return []domain.Timer{{ID: "a", Title: "a", CreatedAt: now}},
		[]domain.HistoryItem{{ID: "h", Title: "h", CompletedAt: now, Duration: time.Hour}},
		now
}

func newBackuper(t *testing.T, keep int) (*Backuper, string) {
	dir := filepath.Join(t.TempDir(), "backups")
	b := New(Options{Dir: dir, Schedule: "@every 1h", Keep: keep, Location: time.UTC},
		&fakeSource{now: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return b, dir
}

func TestRunOnceReloadsSource(t *testing.T) {
	b, _ := newBackuper(t, 5)
	for i := 0; i < 2; i++ {
		if _, err := b.RunOnce(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if got := b.source.(*fakeSource).reloads; got != 2 {
		t.Errorf("expected a reload per run, got %d", got)
	}
}

func TestRunOnceWritesSnapshot(t *testing.T) {
	b, _ := newBackuper(t, 5)

	path, err := b.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "focusflow-20260304T090000.000.json" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := snapshot.Unmarshal(data)
	if err != nil {
		t.Fatalf("backup is not a valid snapshot: %v", err)
	}
	if len(snap.Timers) != 1 || len(snap.History) != 1 {
		t.Errorf("unexpected contents %+v", snap)
	}
}

func TestRunOncePrunes(t *testing.T) {
	b, dir := newBackuper(t, 2)
	for i := 0; i < 4; i++ {
		if _, err := b.RunOnce(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	// unrelated files are left alone
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600)

	files, err := b.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 backups kept, got %v", files)
	}
	if filepath.Base(files[1]) != "focusflow-20260304T090003.000.json" {
		t.Errorf("expected newest kept, got %v", files)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	b, _ := newBackuper(t, 1)
	b.opts.Schedule = "not a schedule"
	if err := b.Start(context.Background()); err == nil {
		b.Stop()
		t.Fatal("expected an error")
	}
}

func TestStartSchedules(t *testing.T) {
	b, _ := newBackuper(t, 1)
	if err := b.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer b.Stop()
	if b.Next().IsZero() {
		t.Error("expected a next run")
	}
}
