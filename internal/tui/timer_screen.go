package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/andy/focusflow/internal/app"
	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/report"
	"github.com/andy/focusflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// timersPerPage is how many non-minimized timers are listed at once
const timersPerPage = 5

type timerMode int

const (
	timerModeList timerMode = iota
	timerModeNew
	timerModeEdit
)

// TimersModel lists the active timers with a separate minimized section
type TimersModel struct {
	app *app.App
	ctx context.Context

	mode   timerMode
	cursor int // index into rows()
	page   int
	form   *form

	editing        domain.Timer
	editingElapsed time.Duration

	statusMsg string
	err       error
}

// NewTimersModel creates the timers screen
func NewTimersModel(ctx context.Context, a *app.App) *TimersModel {
	return &TimersModel{app: a, ctx: ctx}
}

// IsCapturingInput returns true while a form is open
func (m *TimersModel) IsCapturingInput() bool {
	return m.mode != timerModeList
}

func (m *TimersModel) timers() service.TimerService {
	return m.app.Workspace().Timers
}

// lists splits the timers into the paged list and the minimized section
func (m *TimersModel) lists() (visible, minimized []domain.Timer) {
	for _, t := range m.timers().List(m.ctx) {
		if t.IsMinimized {
			minimized = append(minimized, t)
		} else {
			visible = append(visible, t)
		}
	}
	return visible, minimized
}

func pageCount(n int) int {
	if n == 0 {
		return 1
	}
	return (n + timersPerPage - 1) / timersPerPage
}

// pageOf returns the slice of visible shown on page
func pageOf(visible []domain.Timer, page int) []domain.Timer {
	start := page * timersPerPage
	if start >= len(visible) {
		return nil
	}
	return visible[start:min(start+timersPerPage, len(visible))]
}

// rows returns the selectable timers: the current page then the minimized ones
func (m *TimersModel) rows() []domain.Timer {
	visible, minimized := m.lists()
	rows := append([]domain.Timer{}, pageOf(visible, m.page)...)
	return append(rows, minimized...)
}

func (m *TimersModel) selected() (domain.Timer, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return domain.Timer{}, false
	}
	return rows[m.cursor], true
}

// clamp keeps page and cursor inside the current lists
func (m *TimersModel) clamp() {
	visible, _ := m.lists()
	if pages := pageCount(len(visible)); m.page >= pages {
		m.page = pages - 1
	}
	if m.page < 0 {
		m.page = 0
	}
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// Update handles key events
func (m *TimersModel) Update(msg tea.Msg) (*TimersModel, tea.Cmd) {
	if m.mode != timerModeList {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = nil
	m.statusMsg = ""

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, DefaultKeyMap.PrevPage):
		if m.page > 0 {
			m.page--
			m.cursor = 0
		}
	case key.Matches(keyMsg, DefaultKeyMap.NextPage):
		visible, _ := m.lists()
		if m.page < pageCount(len(visible))-1 {
			m.page++
			m.cursor = 0
		}
	case key.Matches(keyMsg, DefaultKeyMap.New):
		m.mode = timerModeNew
		m.form = newForm("New Timer", formField{Label: "Title:", Placeholder: "What are you working on?"})
		return m, textinput.Blink
	case key.Matches(keyMsg, DefaultKeyMap.Edit):
		if t, ok := m.selected(); ok {
			m.openEdit(t)
			return m, textinput.Blink
		}
	case key.Matches(keyMsg, DefaultKeyMap.Toggle):
		if t, ok := m.selected(); ok {
			m.err = m.timers().Toggle(m.ctx, t.ID)
		}
	case key.Matches(keyMsg, DefaultKeyMap.Minimize):
		if t, ok := m.selected(); ok {
			if t.IsMinimized {
				m.err = m.timers().Restore(m.ctx, t.ID)
			} else {
				m.err = m.timers().Minimize(m.ctx, t.ID)
			}
		}
	case key.Matches(keyMsg, DefaultKeyMap.Complete):
		if t, ok := m.selected(); ok {
			item, err := m.timers().Complete(m.ctx, t.ID)
			m.err = err
			m.statusMsg = archiveStatus("Completed", t, item)
		}
	case key.Matches(keyMsg, DefaultKeyMap.Delete):
		if t, ok := m.selected(); ok {
			item, err := m.timers().Delete(m.ctx, t.ID)
			m.err = err
			m.statusMsg = archiveStatus("Deleted", t, item)
		}
	}

	m.clamp()
	return m, nil
}

func archiveStatus(verb string, t domain.Timer, item *domain.HistoryItem) string {
	if item == nil {
		return fmt.Sprintf("%s: %s (not saved to history, under %s)", verb, t.Title, domain.MinArchiveDuration)
	}
	return fmt.Sprintf("%s: %s (%s)", verb, t.Title, report.FormatShort(item.Duration))
}

func (m *TimersModel) openEdit(t domain.Timer) {
	elapsed := t.Elapsed(m.timers().Now())
	h, mins := splitDuration(elapsed)

	m.mode = timerModeEdit
	m.editing = t
	m.editingElapsed = elapsed
	m.form = newForm("Edit Timer",
		formField{Label: "Title:", Value: t.Title},
		formField{Label: "Started (YYYY-MM-DD HH:MM):", Value: t.CreatedAt.In(m.app.Location).Format(formTimeLayout), Width: 20},
		formField{Label: "Elapsed hours:", Value: strconv.Itoa(h), Width: 6},
		formField{Label: "Elapsed minutes:", Value: strconv.Itoa(mins), Width: 6},
	)
}

func (m *TimersModel) updateForm(msg tea.Msg) (*TimersModel, tea.Cmd) {
	result, cmd := m.form.Update(msg)
	switch result {
	case formCancelled:
		m.closeForm()
		return m, nil
	case formSubmitted:
		var err error
		if m.mode == timerModeNew {
			err = m.submitNew()
		} else {
			err = m.submitEdit()
		}
		if err != nil && !errors.Is(err, service.ErrPersist) {
			m.form.err = err
			return m, nil
		}
		m.err = err
		m.closeForm()
		m.clamp()
		return m, nil
	}
	return m, cmd
}

func (m *TimersModel) closeForm() {
	m.mode = timerModeList
	m.form = nil
}

func (m *TimersModel) submitNew() error {
	t, err := m.timers().Add(m.ctx, m.form.value(0))
	if err != nil && !errors.Is(err, service.ErrPersist) {
		return err
	}
	m.page = 0
	m.cursor = 0
	m.statusMsg = "Started: " + t.Title
	return err
}

// submitEdit sends only the fields the user changed, so an untouched elapsed
// time keeps its seconds and keeps running
func (m *TimersModel) submitEdit() error {
	var edit domain.TimerEdit

	if title := m.form.value(0); title != m.editing.Title {
		edit.Title = &title
	}

	original := m.editing.CreatedAt.In(m.app.Location).Format(formTimeLayout)
	if started := m.form.value(1); started != original {
		t, err := parseFormTime(started, m.app.Location)
		if err != nil {
			return err
		}
		edit.CreatedAt = &t
	}

	h, mins := splitDuration(m.editingElapsed)
	hours, minutes := m.form.value(2), m.form.value(3)
	if hours != strconv.Itoa(h) || minutes != strconv.Itoa(mins) {
		d, err := parseHoursMinutes(hours, minutes)
		if err != nil {
			return err
		}
		edit.Accumulated = &d
	}

	if err := m.timers().Edit(m.ctx, m.editing.ID, edit); err != nil {
		return err
	}
	if !edit.IsEmpty() {
		m.statusMsg = "Saved: " + m.editing.Title
	}
	return nil
}

// View renders the timers screen
func (m *TimersModel) View() string {
	if m.mode != timerModeList {
		return m.form.View()
	}

	visible, minimized := m.lists()
	now := m.timers().Now()
	pages := pageCount(len(visible))

	var s string
	s += titleStyle.Render("Active Timers")
	if pages > 1 {
		s += subtitleStyle.Render(fmt.Sprintf("  page %d/%d", m.page+1, pages))
	}
	s += "\n\n"

	row := 0
	if len(visible) == 0 {
		s += subtitleStyle.Render("  No active timers. Press n to start one.") + "\n"
	}
	for _, t := range pageOf(visible, m.page) {
		s += m.renderRow(t, row, now) + "\n"
		row++
	}

	if len(minimized) > 0 {
		s += "\n" + subtitleStyle.Render(fmt.Sprintf("  Minimized (%d)", len(minimized))) + "\n"
		for _, t := range minimized {
			s += m.renderRow(t, row, now) + "\n"
			row++
		}
	}

	if m.statusMsg != "" {
		s += "\n" + successText("  "+m.statusMsg) + "\n"
	}
	if m.err != nil {
		s += "\n" + errorText(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}

	s += "\n" + helpStyle.Render("  n: new  space: start/stop  e: edit  x: complete  d: delete  m: minimize/restore  [/]: page")
	return s
}

func (m *TimersModel) renderRow(t domain.Timer, row int, now time.Time) string {
	state := timerPausedStyle.Render("||")
	if t.IsRunning {
		state = timerRunningStyle.Render(">>")
	}

	line := fmt.Sprintf("%-40s", truncateStr(t.Title, 40))
	if row == m.cursor {
		line = selectedStyle.Render(line)
	}
	return fmt.Sprintf("  %s %s  %s", state, line, timerValueStyle.Render(report.FormatClock(t.Elapsed(now))))
}
