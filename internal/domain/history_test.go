package domain

import (
	"testing"
	"time"
)

func TestArchiveThreshold(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"zero", 0, false},
		{"just under", 4999 * time.Millisecond, false},
		{"exactly threshold", 5000 * time.Millisecond, false},
		{"just over", 5001 * time.Millisecond, true},
		{"an hour", time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := Timer{ID: "a", Title: "x", CreatedAt: at(0), Accumulated: tt.elapsed}
			item := Archive(timer, at(999_999))
			if (item != nil) != tt.want {
				t.Fatalf("Archive(%v) = %v, want item=%v", tt.elapsed, item, tt.want)
			}
			if item == nil {
				return
			}
			if item.Duration != tt.elapsed {
				t.Errorf("duration = %v, want %v", item.Duration, tt.elapsed)
			}
			if !item.CompletedAt.Equal(timer.CreatedAt.Add(tt.elapsed)) {
				t.Errorf("completedAt = %v, want createdAt+duration", item.CompletedAt)
			}
		})
	}
}

func TestArchiveRunningTimer(t *testing.T) {
	timer := Timer{ID: "a", Title: "A", CreatedAt: at(0), IsRunning: true, LastStartTime: ptr(at(0))}

	item := Archive(timer, at(65_000))
	if item == nil {
		t.Fatal("expected item")
	}
	if item.ID != "a" || item.Title != "A" {
		t.Errorf("identity not carried over: %+v", item)
	}
	if item.Duration != 65*time.Second || !item.CompletedAt.Equal(at(65_000)) {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestArchiveBackdatedUsesCreatedAt(t *testing.T) {
	created := at(-86_400_000)
	timer := Timer{ID: "a", CreatedAt: created, Accumulated: 2 * time.Hour}

	item := Archive(timer, at(0))
	if !item.CompletedAt.Equal(created.Add(2 * time.Hour)) {
		t.Fatalf("completedAt = %v, want %v", item.CompletedAt, created.Add(2*time.Hour))
	}
}

func TestEditHistory(t *testing.T) {
	items := []HistoryItem{
		{ID: "a", Title: "one", CompletedAt: at(0), Duration: time.Minute},
		{ID: "b", Title: "two", CompletedAt: at(0), Duration: time.Minute},
		{ID: "a", Title: "dup", CompletedAt: at(0), Duration: time.Minute},
	}

	out, found := EditHistory(items, "a", HistoryEdit{Title: ptr("renamed"), Duration: ptr(time.Hour)})
	if !found {
		t.Fatal("expected id to be found")
	}
	if out[0].Title != "renamed" || out[2].Title != "renamed" || out[0].Duration != time.Hour {
		t.Fatalf("edit not applied to every matching item: %+v", out)
	}
	if out[1].Title != "two" {
		t.Fatalf("edit touched another id: %+v", out[1])
	}
	if items[0].Title != "one" {
		t.Fatal("input slice was mutated")
	}

	if _, found := EditHistory(items, "zzz", HistoryEdit{Title: ptr("x")}); found {
		t.Fatal("unknown id reported as found")
	}
}
