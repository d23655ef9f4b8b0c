package report

import (
	"errors"
	"time"
)

// ErrInvalidPreset is returned for preset lengths other than 7, 14 or 30 days
var ErrInvalidPreset = errors.New("preset must be 7, 14 or 30 days")

// Presets lists the supported preset lengths in days
var Presets = []int{7, 14, 30}

type Mode string

const (
	ModePreset    Mode = "preset"
	ModeDrilldown Mode = "drilldown"
)

type Level string

const (
	LevelYear  Level = "year"
	LevelMonth Level = "month"
	LevelWeek  Level = "week"
)

// State is the history view state. Only the variants below implement it,
// so a preset view can never carry a drill level and vice versa.
type State interface {
	Mode() Mode
	state()
}

// Preset shows the last Days days: daily buckets for 7 and 14, weekly
// buckets for 30
type Preset struct {
	Days     int
	Selected *time.Time
}

// Year shows the last 12 months
type Year struct{}

// Month shows every week overlapping the month containing Focus
type Month struct {
	Focus time.Time
}

// Week shows the seven days of the week containing Focus. FromPreset marks a
// week entered from the 30-day preset; Back returns there. Parent is the
// month Back returns to otherwise.
type Week struct {
	Focus      time.Time
	Parent     time.Time
	Selected   *time.Time
	FromPreset bool
}

func (Preset) Mode() Mode { return ModePreset }
func (Year) Mode() Mode   { return ModeDrilldown }
func (Month) Mode() Mode  { return ModeDrilldown }
func (Week) Mode() Mode   { return ModeDrilldown }

func (Preset) state() {}
func (Year) state()   {}
func (Month) state()  {}
func (Week) state()   {}

// LevelOf returns the drill level of a drilldown state
func LevelOf(s State) (Level, bool) {
	switch s.(type) {
	case Year:
		return LevelYear, true
	case Month:
		return LevelMonth, true
	case Week:
		return LevelWeek, true
	}
	return "", false
}

// SelectedBucket returns the highlighted day of a state, if any
func SelectedBucket(s State) *time.Time {
	switch st := s.(type) {
	case Preset:
		return st.Selected
	case Week:
		return st.Selected
	}
	return nil
}

// Navigator holds the current history view state and applies transitions
type Navigator struct {
	state State
}

// NewNavigator starts on the 7-day preset
func NewNavigator() *Navigator {
	return &Navigator{state: Preset{Days: 7}}
}

// NewNavigatorAt starts on the given preset length
func NewNavigatorAt(days int) (*Navigator, error) {
	n := NewNavigator()
	if err := n.SelectPreset(days); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Navigator) State() State { return n.state }

// SelectPreset switches to a preset view and clears any selection
func (n *Navigator) SelectPreset(days int) error {
	if !validPreset(days) {
		return ErrInvalidPreset
	}
	n.state = Preset{Days: days}
	return nil
}

// SelectYearly switches to the drilldown year view
func (n *Navigator) SelectYearly() {
	n.state = Year{}
}

// Click applies a click on a bucket of the currently displayed series
func (n *Navigator) Click(p Point) {
	switch st := n.state.(type) {
	case Preset:
		if st.Days == 30 && p.Granularity == GranularityWeek {
			n.state = Week{Focus: p.BucketStart, FromPreset: true}
			return
		}
		st.Selected = toggle(st.Selected, p.BucketStart)
		n.state = st
	case Year:
		n.state = Month{Focus: p.BucketStart}
	case Month:
		n.state = Week{Focus: p.BucketStart, Parent: st.Focus}
	case Week:
		st.Selected = toggle(st.Selected, p.BucketStart)
		n.state = st
	}
}

// CanBack reports whether Back would change the view level
func (n *Navigator) CanBack() bool {
	switch n.state.(type) {
	case Month, Week:
		return true
	}
	return false
}

// Back steps one level up and clears the selection. It returns false when
// there is no level to return to.
func (n *Navigator) Back() bool {
	switch st := n.state.(type) {
	case Preset:
		st.Selected = nil
		n.state = st
		return false
	case Week:
		if st.FromPreset {
			n.state = Preset{Days: 30}
			return true
		}
		focus := st.Parent
		if focus.IsZero() {
			focus = st.Focus
		}
		n.state = Month{Focus: focus}
		return true
	case Month:
		n.state = Year{}
		return true
	}
	return false
}

func validPreset(days int) bool {
	for _, d := range Presets {
		if d == days {
			return true
		}
	}
	return false
}

func toggle(current *time.Time, start time.Time) *time.Time {
	if current != nil && current.Equal(start) {
		return nil
	}
	t := start
	return &t
}
