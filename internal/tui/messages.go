package tui

// refreshTickMsg redraws live elapsed times. Ticks from an older generation
// are dropped.
type refreshTickMsg struct {
	gen int
}

// storeChangedMsg reports that the database changed on disk
type storeChangedMsg struct{}
