package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andy/focusflow/internal/app"
	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/report"
	"github.com/andy/focusflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	chartBarWidth = 25
	historyRows   = 10
)

type historyFocus int

const (
	focusChart historyFocus = iota
	focusList
)

// HistoryModel shows the analytics chart and the matching sessions
type HistoryModel struct {
	app *app.App
	ctx context.Context
	nav *report.Navigator

	focus      historyFocus
	cursor     int // bar under the cursor
	listCursor int

	form    *form
	editing domain.HistoryItem

	statusMsg string
	err       error
}

// NewHistoryModel creates the history screen on the configured preset
func NewHistoryModel(ctx context.Context, a *app.App) *HistoryModel {
	nav, err := report.NewNavigatorAt(a.Config.Display.DefaultPreset)
	if err != nil {
		nav = report.NewNavigator()
	}
	m := &HistoryModel{app: a, ctx: ctx, nav: nav}
	m.resetCursor()
	return m
}

// IsCapturingInput returns true while the edit form is open
func (m *HistoryModel) IsCapturingInput() bool {
	return m.form != nil
}

func (m *HistoryModel) build() service.Report {
	return m.app.Workspace().Reports.Build(m.ctx, m.nav.State())
}

// resetCursor puts the bar cursor on the newest bucket for presets and on the
// first bucket when drilling down
func (m *HistoryModel) resetCursor() {
	m.listCursor = 0
	m.cursor = 0
	if _, ok := m.nav.State().(report.Preset); ok {
		m.cursor = len(m.build().Series.Points) - 1
	}
}

// Update handles key events
func (m *HistoryModel) Update(msg tea.Msg) (*HistoryModel, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = nil
	m.statusMsg = ""

	r := m.build()

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Last7):
		m.selectPreset(7)
	case key.Matches(keyMsg, DefaultKeyMap.Last14):
		m.selectPreset(14)
	case key.Matches(keyMsg, DefaultKeyMap.Last30):
		m.selectPreset(30)
	case key.Matches(keyMsg, DefaultKeyMap.Yearly):
		m.nav.SelectYearly()
		m.focus = focusChart
		m.resetCursor()
	case key.Matches(keyMsg, DefaultKeyMap.Focus):
		if m.focus == focusChart {
			m.focus = focusList
		} else {
			m.focus = focusChart
		}
	case key.Matches(keyMsg, DefaultKeyMap.Back):
		if m.nav.Back() {
			m.resetCursor()
		}
		m.listCursor = 0
	case key.Matches(keyMsg, DefaultKeyMap.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, DefaultKeyMap.Right):
		if m.cursor < len(r.Series.Points)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.focus == focusList && m.listCursor > 0 {
			m.listCursor--
		} else if m.focus == focusChart && m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.focus == focusList && m.listCursor < len(r.Items)-1 {
			m.listCursor++
		} else if m.focus == focusChart && m.cursor < len(r.Series.Points)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, DefaultKeyMap.Select):
		if m.focus == focusList {
			return m, m.openEdit(r.Items)
		}
		m.click(r.Series.Points)
	case key.Matches(keyMsg, DefaultKeyMap.Edit):
		return m, m.openEdit(r.Items)
	}

	return m, nil
}

func (m *HistoryModel) selectPreset(days int) {
	if err := m.nav.SelectPreset(days); err != nil {
		m.err = err
		return
	}
	m.focus = focusChart
	m.resetCursor()
}

// click forwards the bar under the cursor to the navigator. A level change
// moves the cursor to the new series; a selection toggle keeps it.
func (m *HistoryModel) click(points []report.Point) {
	if m.cursor < 0 || m.cursor >= len(points) {
		return
	}
	before, _ := report.LevelOf(m.nav.State())
	beforeMode := m.nav.State().Mode()

	m.nav.Click(points[m.cursor])
	m.listCursor = 0

	after, _ := report.LevelOf(m.nav.State())
	if after != before || m.nav.State().Mode() != beforeMode {
		m.resetCursor()
	}
}

func (m *HistoryModel) openEdit(items []domain.HistoryItem) tea.Cmd {
	if m.listCursor < 0 || m.listCursor >= len(items) {
		return nil
	}
	item := items[m.listCursor]
	h, mins := splitDuration(item.Duration)

	m.editing = item
	m.form = newForm("Edit Session",
		formField{Label: "Title:", Value: item.Title},
		formField{Label: "Completed (YYYY-MM-DD HH:MM):", Value: item.CompletedAt.In(m.app.Location).Format(formTimeLayout), Width: 20},
		formField{Label: "Duration hours:", Value: strconv.Itoa(h), Width: 6},
		formField{Label: "Duration minutes:", Value: strconv.Itoa(mins), Width: 6},
	)
	return textinput.Blink
}

func (m *HistoryModel) updateForm(msg tea.Msg) (*HistoryModel, tea.Cmd) {
	result, cmd := m.form.Update(msg)
	switch result {
	case formCancelled:
		m.form = nil
		return m, nil
	case formSubmitted:
		err := m.submitEdit()
		if err != nil && !errors.Is(err, service.ErrPersist) {
			m.form.err = err
			return m, nil
		}
		m.err = err
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// submitEdit sends only the fields the user changed
func (m *HistoryModel) submitEdit() error {
	var edit domain.HistoryEdit

	if title := m.form.value(0); title != m.editing.Title {
		edit.Title = &title
	}

	original := m.editing.CompletedAt.In(m.app.Location).Format(formTimeLayout)
	if completed := m.form.value(1); completed != original {
		t, err := parseFormTime(completed, m.app.Location)
		if err != nil {
			return err
		}
		edit.CompletedAt = &t
	}

	h, mins := splitDuration(m.editing.Duration)
	hours, minutes := m.form.value(2), m.form.value(3)
	if hours != strconv.Itoa(h) || minutes != strconv.Itoa(mins) {
		d, err := parseHoursMinutes(hours, minutes)
		if err != nil {
			return err
		}
		edit.Duration = &d
	}

	if edit.Title == nil && edit.CompletedAt == nil && edit.Duration == nil {
		return nil
	}
	if err := m.app.Workspace().History.Update(m.ctx, m.editing.ID, edit); err != nil {
		return err
	}
	m.statusMsg = "Saved: " + m.editing.Title
	return nil
}

// View renders the history screen
func (m *HistoryModel) View() string {
	if m.form != nil {
		return m.form.View()
	}

	r := m.build()

	var s string
	s += titleStyle.Render(r.Title)
	s += subtitleStyle.Render("  total " + report.FormatShort(r.Total))
	s += "\n\n"

	s += m.renderChart(r.Series)
	s += "\n"
	s += m.renderItems(r.Items)

	if m.statusMsg != "" {
		s += "\n" + successText("  "+m.statusMsg) + "\n"
	}
	if m.err != nil {
		s += "\n" + errorText(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}

	help := "  1/2/3: 7/14/30 days  y: yearly  ←/→: move  enter: drill/select  f: chart/list  e: edit"
	if m.nav.CanBack() {
		help += "  esc: back"
	}
	s += "\n" + helpStyle.Render(help)
	return s
}

func (m *HistoryModel) renderChart(series report.Series) string {
	selected := report.SelectedBucket(m.nav.State())
	labelCol := lipgloss.NewStyle().Width(8)

	var chart string
	for i, p := range series.Points {
		barLen := int(int64(chartBarWidth) * int64(p.Total) / int64(series.Max))
		bar := fmt.Sprintf("%-*s", chartBarWidth, strings.Repeat("█", barLen))

		style := barStyle
		if selected != nil && selected.Equal(p.BucketStart) {
			style = barSelectedStyle
		}

		marker := "    "
		if m.focus == focusChart && i == m.cursor {
			marker = "  > "
		}
		line := fmt.Sprintf("%s%s %s %s", marker, labelCol.Render(p.Label), style.Render(bar), report.FormatShort(p.Total))
		if m.focus == focusChart && i == m.cursor {
			line += subtitleStyle.Render("  " + p.FullLabel)
		}
		chart += line + "\n"
	}
	return chart
}

func (m *HistoryModel) renderItems(items []domain.HistoryItem) string {
	s := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("  Sessions (%d)", len(items))) + "\n"
	if len(items) == 0 {
		return s + subtitleStyle.Render("    No sessions in this range") + "\n"
	}

	offset := max(0, m.listCursor-historyRows+1)
	end := min(offset+historyRows, len(items))
	for i := offset; i < end; i++ {
		item := items[i]
		line := fmt.Sprintf("%-36s %s  %8s",
			truncateStr(item.Title, 36),
			item.CompletedAt.In(m.app.Location).Format("Mon Jan 2 15:04"),
			report.FormatShort(item.Duration),
		)
		if m.focus == focusList && i == m.listCursor {
			s += "  > " + selectedStyle.Render(line) + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}
	if end < len(items) {
		s += subtitleStyle.Render(fmt.Sprintf("    ... %d more", len(items)-end)) + "\n"
	}
	return s
}

// sessionsSince sums the history completed at or after start
func sessionsSince(items []domain.HistoryItem, start time.Time) time.Duration {
	var total time.Duration
	for _, h := range items {
		if !h.CompletedAt.Before(start) {
			total += h.Duration
		}
	}
	return total
}
