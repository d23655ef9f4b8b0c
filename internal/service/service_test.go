package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/andy/focusflow/internal/clock"
	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/ident"
	"github.com/andy/focusflow/internal/report"
	"github.com/andy/focusflow/internal/repository"
	"github.com/andy/focusflow/internal/snapshot"
)

var t0 = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

// failingTimerRepo loads fine but refuses to save
type failingTimerRepo struct {
	loadErr error
}

func (f *failingTimerRepo) Load(ctx context.Context) ([]domain.Timer, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return nil, nil
}
func (f *failingTimerRepo) Save(ctx context.Context, timers []domain.Timer) error {
	return errors.New("disk full")
}

// flakyTimerRepo stores timers in memory but rejects saves while fail is set
type flakyTimerRepo struct {
	repository.MemoryTimerRepo
	fail bool
}

func (f *flakyTimerRepo) Save(ctx context.Context, timers []domain.Timer) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryTimerRepo.Save(ctx, timers)
}

type fixture struct {
	clock   *clock.Fake
	timers  *repository.MemoryTimerRepo
	history *repository.MemoryHistoryRepo
	ws      *Workspace
}

func newFixture(t *testing.T, seedTimers []domain.Timer, seedHistory []domain.HistoryItem) *fixture {
	t.Helper()
	f := &fixture{
		clock:   clock.NewFake(t0),
		timers:  repository.NewMemoryTimerRepo(seedTimers),
		history: repository.NewMemoryHistoryRepo(seedHistory),
	}
	f.ws = NewWorkspace(context.Background(), domain.DatasetReal, f.timers, f.history, Options{
		Clock:        f.clock,
		IDs:          &ident.Sequence{Prefix: "t"},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Location:     time.UTC,
		SyncBaseURL:  "https://focusflow.local/",
		MaxURLLength: 8000,
	})
	return f
}

func TestAddStartsAndPausesOthers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)

	a, err := f.ws.Timers.Add(ctx, "  First  ")
	if err != nil {
		t.Fatal(err)
	}
	if a.Title != "First" || !a.IsRunning {
		t.Fatalf("unexpected timer %+v", a)
	}

	f.clock.Advance(10 * time.Second)
	b, err := f.ws.Timers.Add(ctx, "Second")
	if err != nil {
		t.Fatal(err)
	}

	list := f.ws.Timers.List(ctx)
	if len(list) != 2 || list[0].ID != b.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[1].IsRunning || list[1].Accumulated != 10*time.Second {
		t.Errorf("expected first timer banked at 10s, got %+v", list[1])
	}

	saved, _ := f.timers.Load(ctx)
	if len(saved) != 2 {
		t.Errorf("expected timers persisted, got %d", len(saved))
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	f := newFixture(t, nil, nil)
	if _, err := f.ws.Timers.Add(context.Background(), "   "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if f.timers.Saves() != 0 {
		t.Error("nothing should be saved")
	}
}

func TestSingleRunningAcrossOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		tm, _ := f.ws.Timers.Add(ctx, title)
		ids = append(ids, tm.ID)
		f.clock.Advance(time.Second)
	}

	steps := []func() error{
		func() error { return f.ws.Timers.Start(ctx, ids[0]) },
		func() error { return f.ws.Timers.Toggle(ctx, ids[1]) },
		func() error { return f.ws.Timers.Toggle(ctx, ids[1]) },
		func() error { return f.ws.Timers.Start(ctx, ids[2]) },
		func() error { return f.ws.Timers.Stop(ctx, ids[2]) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		f.clock.Advance(time.Second)
		if n := domain.RunningCount(f.ws.Timers.List(ctx)); n > 1 {
			t.Fatalf("step %d: %d timers running", i, n)
		}
	}
	if f.ws.Timers.Running(ctx) != nil {
		t.Error("expected nothing running after the final stop")
	}
}

func TestUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	f.ws.Timers.Add(ctx, "a")
	saves := f.timers.Saves()

	if err := f.ws.Timers.Toggle(ctx, "missing"); err != nil {
		t.Fatal(err)
	}
	item, err := f.ws.Timers.Delete(ctx, "missing")
	if err != nil || item != nil {
		t.Fatalf("expected no-op, got %v, %v", item, err)
	}
	if f.timers.Saves() != saves {
		t.Error("no-op must not save")
	}
	if _, err := f.ws.Timers.Get(ctx, "missing"); !errors.Is(err, ErrTimerNotFound) {
		t.Errorf("expected ErrTimerNotFound, got %v", err)
	}
}

func TestEditClampsAndRebases(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	tm, _ := f.ws.Timers.Add(ctx, "a")

	f.clock.Advance(time.Minute)
	neg := -time.Hour
	if err := f.ws.Timers.Edit(ctx, tm.ID, domain.TimerEdit{Accumulated: &neg}); err != nil {
		t.Fatal(err)
	}
	got, _ := f.ws.Timers.Get(ctx, tm.ID)
	if got.Accumulated != 0 || !got.LastStartTime.Equal(f.clock.Now()) {
		t.Fatalf("expected clamped base restarted at now, got %+v", got)
	}

	f.clock.Advance(5 * time.Second)
	if d, _ := f.ws.Timers.Elapsed(ctx, tm.ID); d != 5*time.Second {
		t.Errorf("expected 5s elapsed, got %v", d)
	}

	blank := " "
	if err := f.ws.Timers.Edit(ctx, tm.ID, domain.TimerEdit{Title: &blank}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestDeleteArchivesAboveThreshold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, []domain.HistoryItem{{ID: "old", Title: "old", CompletedAt: t0.Add(-time.Hour), Duration: time.Hour}})

	long, _ := f.ws.Timers.Add(ctx, "long")
	f.clock.Advance(65 * time.Second)
	item, err := f.ws.Timers.Complete(ctx, long.ID)
	if err != nil {
		t.Fatal(err)
	}
	if item == nil || item.Duration != 65*time.Second || !item.CompletedAt.Equal(t0.Add(65*time.Second)) {
		t.Fatalf("unexpected archive %+v", item)
	}

	short, _ := f.ws.Timers.Add(ctx, "short")
	f.clock.Advance(5 * time.Second)
	item, err = f.ws.Timers.Delete(ctx, short.ID)
	if err != nil || item != nil {
		t.Fatalf("expected a 5s session to be dropped, got %+v, %v", item, err)
	}

	history := f.ws.History.List(ctx)
	if len(history) != 2 || history[0].ID != long.ID {
		t.Fatalf("expected archived item first, got %+v", history)
	}
	if len(f.ws.Timers.List(ctx)) != 0 {
		t.Error("expected both timers removed")
	}
}

func TestMinimizeRestore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	tm, _ := f.ws.Timers.Add(ctx, "a")

	f.ws.Timers.Minimize(ctx, tm.ID)
	got, _ := f.ws.Timers.Get(ctx, tm.ID)
	if !got.IsMinimized || !got.IsRunning {
		t.Fatalf("minimize must only set the flag, got %+v", got)
	}
	f.ws.Timers.Restore(ctx, tm.ID)
	got, _ = f.ws.Timers.Get(ctx, tm.ID)
	if got.IsMinimized {
		t.Fatal("expected restore to clear the flag")
	}
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	ws := NewWorkspace(ctx, domain.DatasetReal, &failingTimerRepo{}, repository.NewMemoryHistoryRepo(nil), Options{
		Clock:  clock.NewFake(t0),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	tm, err := ws.Timers.Add(ctx, "a")
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
	if _, err := ws.Timers.Get(ctx, tm.ID); err != nil {
		t.Fatal("timer must stay in memory after a failed save")
	}
}

func TestReloadKeepsUnsavedTimers(t *testing.T) {
	ctx := context.Background()
	repo := &flakyTimerRepo{fail: true}
	history := repository.NewMemoryHistoryRepo(nil)
	ws := NewWorkspace(ctx, domain.DatasetReal, repo, history, Options{
		Clock:  clock.NewFake(t0),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	tm, err := ws.Timers.Add(ctx, "unsaved")
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}

	// another writer touches the history while timers are still unsaved
	history.Save(ctx, []domain.HistoryItem{{ID: "h", Title: "elsewhere", CompletedAt: t0, Duration: time.Hour}})
	ws.Store.Reload(ctx)

	if _, err := ws.Timers.Get(ctx, tm.ID); err != nil {
		t.Fatal("reload must not drop timers the repository rejected")
	}
	if items := ws.History.List(ctx); len(items) != 1 || items[0].Title != "elsewhere" {
		t.Errorf("expected clean history to reload, got %+v", items)
	}

	// once the repository accepts writes, reload flushes before loading
	repo.fail = false
	ws.Store.Reload(ctx)
	saved, _ := repo.Load(ctx)
	if len(saved) != 1 || saved[0].ID != tm.ID {
		t.Fatalf("expected the unsaved timer written back, got %+v", saved)
	}
	if _, err := ws.Timers.Get(ctx, tm.ID); err != nil {
		t.Fatal("timer lost after flush")
	}
}

func TestFailedSaveRetriedOnNextMutation(t *testing.T) {
	ctx := context.Background()
	repo := &flakyTimerRepo{fail: true}
	ws := NewWorkspace(ctx, domain.DatasetReal, repo, repository.NewMemoryHistoryRepo(nil), Options{
		Clock:  clock.NewFake(t0),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	tm, _ := ws.Timers.Add(ctx, "retry me")
	repo.fail = false

	// a history-only mutation also writes the pending timers
	if err := ws.History.Update(ctx, "missing", domain.HistoryEdit{}); !errors.Is(err, ErrHistoryNotFound) {
		t.Fatalf("expected ErrHistoryNotFound, got %v", err)
	}
	saved, _ := repo.Load(ctx)
	if len(saved) != 1 || saved[0].ID != tm.ID {
		t.Fatalf("expected the pending timer saved, got %+v", saved)
	}
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	ws := NewWorkspace(context.Background(), domain.DatasetReal, &failingTimerRepo{loadErr: errors.New("corrupt")}, repository.NewMemoryHistoryRepo(nil), Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if len(ws.Timers.List(context.Background())) != 0 {
		t.Fatal("expected an empty collection")
	}
}

func TestHistoryUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, []domain.HistoryItem{
		{ID: "x", Title: "one", CompletedAt: t0, Duration: time.Hour},
		{ID: "x", Title: "two", CompletedAt: t0, Duration: time.Hour},
		{ID: "y", Title: "three", CompletedAt: t0, Duration: time.Hour},
	})

	title := "renamed"
	if err := f.ws.History.Update(ctx, "x", domain.HistoryEdit{Title: &title}); err != nil {
		t.Fatal(err)
	}
	for _, h := range f.ws.History.Find(ctx, "x") {
		if h.Title != "renamed" {
			t.Errorf("expected every x renamed, got %q", h.Title)
		}
	}
	if err := f.ws.History.Update(ctx, "missing", domain.HistoryEdit{Title: &title}); !errors.Is(err, ErrHistoryNotFound) {
		t.Errorf("expected ErrHistoryNotFound, got %v", err)
	}
}

func TestReportBuild(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, []domain.HistoryItem{
		{ID: "a", Title: "a", CompletedAt: t0.Add(-time.Hour), Duration: time.Hour},
		{ID: "b", Title: "b", CompletedAt: t0.AddDate(0, 0, -1), Duration: 30 * time.Minute},
		{ID: "c", Title: "c", CompletedAt: t0.AddDate(0, 0, -20), Duration: time.Hour},
	})

	r := f.ws.Reports.Build(ctx, report.Preset{Days: 7})
	if r.Title != "Last 7 Days" || len(r.Series.Points) != 7 {
		t.Fatalf("unexpected report %q with %d points", r.Title, len(r.Series.Points))
	}
	if r.Total != 90*time.Minute || len(r.Items) != 2 {
		t.Errorf("expected 2 items totalling 90m, got %d / %v", len(r.Items), r.Total)
	}
}

func TestSyncExportImport(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t, nil, []domain.HistoryItem{{ID: "h", Title: "done", CompletedAt: t0, Duration: time.Hour}})
	src.ws.Timers.Add(ctx, "live")

	exp, err := src.ws.Sync.Export(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if exp.TooLarge || exp.URL == "" || exp.Payload == "" {
		t.Fatalf("unexpected export %+v", exp)
	}

	dst := newFixture(t, []domain.Timer{{ID: "gone", CreatedAt: t0}}, nil)
	snap, err := dst.ws.Sync.Decode(exp.URL)
	if err != nil {
		t.Fatal(err)
	}
	if err := dst.ws.Sync.Import(ctx, snap); err != nil {
		t.Fatal(err)
	}

	timers := dst.ws.Timers.List(ctx)
	if len(timers) != 1 || timers[0].Title != "live" || !timers[0].IsRunning {
		t.Fatalf("expected imported timers to replace local ones, got %+v", timers)
	}
	if h := dst.ws.History.List(ctx); len(h) != 1 || h[0].Duration != time.Hour {
		t.Fatalf("unexpected history %+v", h)
	}

	if err := dst.ws.Sync.Import(ctx, snapshot.Snapshot{}); !errors.Is(err, snapshot.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
