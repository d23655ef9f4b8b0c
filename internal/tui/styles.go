package tui

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// flavour is the subset of a catppuccin flavour the styles draw from
type flavour interface {
	Text() catppuccin.Color
	Subtext0() catppuccin.Color
	Overlay0() catppuccin.Color
	Surface1() catppuccin.Color
	Crust() catppuccin.Color
	Mauve() catppuccin.Color
	Lavender() catppuccin.Color
	Sky() catppuccin.Color
	Green() catppuccin.Color
	Yellow() catppuccin.Color
	Peach() catppuccin.Color
	Red() catppuccin.Color
}

// flavourFor maps a config theme name to a catppuccin flavour, falling back to mocha
func flavourFor(name string) flavour {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

var (
	// Colors
	primaryColor lipgloss.Color
	accentColor  lipgloss.Color
	mutedColor   lipgloss.Color
	successColor lipgloss.Color
	warningColor lipgloss.Color
	errorColor   lipgloss.Color
	borderColor  lipgloss.Color

	// Base styles
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	helpStyle     lipgloss.Style
	selectedStyle lipgloss.Style
	labelStyle    lipgloss.Style

	// Layout
	appBorderStyle lipgloss.Style
	headerStyle    lipgloss.Style
	footerStyle    lipgloss.Style
	tabStyle       lipgloss.Style
	activeTabStyle lipgloss.Style

	// Timer specific
	timerRunningStyle lipgloss.Style
	timerPausedStyle  lipgloss.Style
	timerValueStyle   lipgloss.Style

	// Chart
	barStyle         lipgloss.Style
	barSelectedStyle lipgloss.Style
)

func init() {
	applyTheme("mocha")
}

// applyTheme rebuilds the package styles from a catppuccin flavour
func applyTheme(name string) {
	f := flavourFor(name)

	primaryColor = lipgloss.Color(f.Mauve().Hex)
	accentColor = lipgloss.Color(f.Peach().Hex)
	mutedColor = lipgloss.Color(f.Overlay0().Hex)
	successColor = lipgloss.Color(f.Green().Hex)
	warningColor = lipgloss.Color(f.Yellow().Hex)
	errorColor = lipgloss.Color(f.Red().Hex)
	borderColor = lipgloss.Color(f.Lavender().Hex)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(f.Subtext0().Hex))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(f.Sky().Hex))
	selectedStyle = lipgloss.NewStyle().Bold(true).
		Background(lipgloss.Color(f.Surface1().Hex)).
		Foreground(lipgloss.Color(f.Text().Hex))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)

	appBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	tabStyle = lipgloss.NewStyle().Foreground(mutedColor).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).
		Background(primaryColor).
		Foreground(lipgloss.Color(f.Crust().Hex)).
		Padding(0, 1)

	timerRunningStyle = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	timerPausedStyle = lipgloss.NewStyle().Bold(true).Foreground(warningColor)
	timerValueStyle = lipgloss.NewStyle().Foreground(accentColor)

	barStyle = lipgloss.NewStyle().Foreground(primaryColor)
	barSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
}
