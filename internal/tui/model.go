package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/focusflow/internal/app"
	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/report"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenTimers Screen = iota
	ScreenHistory
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenTimers:
		return "Timers"
	case ScreenHistory:
		return "History"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app *app.App
	ctx context.Context

	currentScreen Screen
	width         int
	height        int

	timers  *TimersModel
	history *HistoryModel

	watcher *dbWatcher

	// Live refresh. A tick carrying an older generation is dropped, which
	// cancels the loop when a timer stops or the timers screen is left.
	ticking bool
	tickGen int
}

// New creates a new root model
func New(ctx context.Context, a *app.App) Model {
	applyTheme(a.Config.Display.Theme)
	m := Model{
		app:           a,
		ctx:           ctx,
		currentScreen: ScreenTimers,
		timers:        NewTimersModel(ctx, a),
		history:       NewHistoryModel(ctx, a),
	}
	m.ticking = m.wantsTick()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.wait())
	}
	if m.ticking {
		cmds = append(cmds, m.tick(m.tickGen))
	}
	return tea.Batch(cmds...)
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global keys (tab, D, q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	var screen InputCapturer
	switch m.currentScreen {
	case ScreenTimers:
		screen = m.timers
	case ScreenHistory:
		screen = m.history
	}
	return screen != nil && screen.IsCapturingInput()
}

// wantsTick reports whether live elapsed times are on screen
func (m *Model) wantsTick() bool {
	if m.currentScreen != ScreenTimers {
		return false
	}
	return m.app.Workspace().Timers.Running(m.ctx) != nil
}

func (m *Model) tick(gen int) tea.Cmd {
	return tea.Tick(m.app.Config.Display.RefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

// syncTicker starts or cancels the refresh loop to match wantsTick
func (m *Model) syncTicker() tea.Cmd {
	want := m.wantsTick()
	if want == m.ticking {
		return nil
	}
	m.ticking = want
	m.tickGen++
	if !want {
		return nil
	}
	return m.tick(m.tickGen)
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshTickMsg:
		if msg.gen != m.tickGen || !m.ticking {
			return m, nil
		}
		if !m.wantsTick() {
			m.ticking = false
			m.tickGen++
			return m, nil
		}
		return m, m.tick(m.tickGen)

	case storeChangedMsg:
		if m.app.Dataset() == domain.DatasetReal {
			m.app.Real.Store.Reload(m.ctx)
			m.timers.clamp()
		}
		var wait tea.Cmd
		if m.watcher != nil {
			wait = m.watcher.wait()
		}
		tickCmd := m.syncTicker()
		return m, tea.Batch(wait, tickCmd)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Switch):
				if m.currentScreen == ScreenTimers {
					m.currentScreen = ScreenHistory
				} else {
					m.currentScreen = ScreenTimers
				}
				tickCmd := m.syncTicker()
				return m, tickCmd

			case key.Matches(msg, DefaultKeyMap.Demo):
				m.app.ToggleDemo(m.ctx)
				m.timers.page, m.timers.cursor = 0, 0
				m.timers.clamp()
				m.history.resetCursor()
				tickCmd := m.syncTicker()
				return m, tickCmd
			}
		}
	}

	// Route message to current screen
	switch m.currentScreen {
	case ScreenTimers:
		m.timers, cmd = m.timers.Update(msg)
	case ScreenHistory:
		m.history, cmd = m.history.Update(msg)
	}

	tickCmd := m.syncTicker()
	return m, tea.Batch(cmd, tickCmd)
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render("focusflow") + " " + m.renderTabs()
	if m.app.Dataset() == domain.DatasetDemo {
		header += " " + lipgloss.NewStyle().Foreground(warningColor).Bold(true).Render("DEMO DATA")
	}
	header += subtitleStyle.Render("  today " + report.FormatShort(m.todayTotal()))

	footer := footerStyle.Render("[tab] Timers/History  [D] Demo data  [q] Quit")

	var content string
	switch m.currentScreen {
	case ScreenTimers:
		content = m.timers.View()
	case ScreenHistory:
		content = m.history.View()
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s", header, divider, content, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(max(m.height-4, 0))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

func (m Model) renderTabs() string {
	var tabs []string
	for _, s := range []Screen{ScreenTimers, ScreenHistory} {
		if s == m.currentScreen {
			tabs = append(tabs, activeTabStyle.Render(s.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(s.String()))
		}
	}
	return strings.Join(tabs, " ")
}

// todayTotal sums today's finished sessions and the live timers
func (m Model) todayTotal() time.Duration {
	ws := m.app.Workspace()
	now := ws.Timers.Now().In(m.app.Location)
	total := sessionsSince(ws.History.List(m.ctx), report.StartOfDay(now))
	for _, t := range ws.Timers.List(m.ctx) {
		if t.IsRunning {
			total += t.Elapsed(now)
		}
	}
	return total
}

// Run starts the TUI and blocks until it exits or ctx is cancelled
func Run(ctx context.Context, a *app.App) error {
	m := New(ctx, a)

	w, err := newDBWatcher(a.Config.Database.Path, a.Logger)
	if err != nil {
		a.Logger.Warn("database watcher disabled", "error", err)
	} else {
		m.watcher = w
		defer w.Close()
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
