// Package demo generates the sample dataset shown in demo mode. Nothing it
// produces is ever persisted.
package demo

import (
	"math/rand/v2"
	"time"

	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/ident"
)

// Days is how far back generated history reaches
const Days = 365

var taskTitles = []string{
	"Design System Update", "Client Meeting", "Code Review",
	"Bug Fix: Navigation", "Project Planning", "Email & Comms",
	"Deep Work: API", "Team Standup", "Documentation", "Research",
}

var timerTitles = []string{"Q4 Report", "Refactoring Auth", "Design Sprint", "Customer Support"}

// Generator builds demo data from a seeded source so tests can reproduce it
type Generator struct {
	rng *rand.Rand
	ids ident.Generator
}

// New returns a Generator. A nil rng is seeded from the current time.
func New(rng *rand.Rand, ids ident.Generator) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if ids == nil {
		ids = ident.UUID()
	}
	return &Generator{rng: rng, ids: ids}
}

// History returns one to five sessions of 15 minutes to 3 hours for each of
// the last Days days, skipping most weekends
func (g *Generator) History(now time.Time) []domain.HistoryItem {
	var items []domain.HistoryItem
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := 0; i < Days; i++ {
		day := today.AddDate(0, 0, -i)
		if wd := day.Weekday(); (wd == time.Saturday || wd == time.Sunday) && g.rng.Float64() > 0.3 {
			continue
		}

		tasks := g.rng.IntN(5) + 1
		for j := 0; j < tasks; j++ {
			minutes := g.rng.IntN(180-15+1) + 15
			completed := day.Add(time.Duration(9+g.rng.IntN(8))*time.Hour + time.Duration(g.rng.IntN(60))*time.Minute)
			if completed.After(now) {
				completed = now
			}
			items = append(items, domain.HistoryItem{
				ID:          g.ids.NewID(),
				Title:       taskTitles[g.rng.IntN(len(taskTitles))],
				CompletedAt: completed,
				Duration:    time.Duration(minutes) * time.Minute,
			})
		}
	}
	return items
}

// Timers returns one running timer with 45 minutes banked and three paused
// ones created within the last day
func (g *Generator) Timers(now time.Time) []domain.Timer {
	start := now
	timers := []domain.Timer{{
		ID:            g.ids.NewID(),
		Title:         timerTitles[0],
		CreatedAt:     now.Add(-time.Hour),
		IsRunning:     true,
		Accumulated:   45 * time.Minute,
		LastStartTime: &start,
	}}

	for _, title := range timerTitles[1:] {
		timers = append(timers, domain.Timer{
			ID:          g.ids.NewID(),
			Title:       title,
			CreatedAt:   now.Add(-time.Duration(g.rng.Int64N(int64(24 * time.Hour)))),
			Accumulated: time.Duration(g.rng.IntN(120)) * time.Minute,
		})
	}
	return timers
}
