package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formField struct {
	Label       string
	Value       string
	Placeholder string
	Width       int
}

type formResult int

const (
	formEditing formResult = iota
	formSubmitted
	formCancelled
)

// form is a vertical list of labelled text inputs
type form struct {
	title  string
	labels []string
	fields []textinput.Model
	focus  int
	err    error
}

func newForm(title string, fields ...formField) *form {
	f := &form{title: title}
	for _, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.Placeholder
		ti.CharLimit = 100
		ti.Width = field.Width
		if ti.Width == 0 {
			ti.Width = 40
		}
		ti.SetValue(field.Value)
		f.labels = append(f.labels, field.Label)
		f.fields = append(f.fields, ti)
	}
	f.fields[0].Focus()
	return f
}

// value returns the trimmed contents of field i
func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].Value())
}

func (f *form) move(delta int) tea.Cmd {
	f.fields[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].Focus()
}

// Update routes a key to the focused field. Enter on the last field or
// ctrl+s submits; esc cancels.
func (f *form) Update(msg tea.Msg) (formResult, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return formCancelled, nil
		case "tab", "down":
			return formEditing, f.move(1)
		case "shift+tab", "up":
			return formEditing, f.move(-1)
		case "ctrl+s":
			return formSubmitted, nil
		case "enter":
			if f.focus == len(f.fields)-1 {
				return formSubmitted, nil
			}
			return formEditing, f.move(1)
		}
	}

	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return formEditing, cmd
}

func (f *form) View() string {
	var s string
	s += titleStyle.Render(f.title) + "\n\n"

	for i, label := range f.labels {
		indicator := "  "
		style := subtitleStyle
		if i == f.focus {
			indicator = "> "
			style = labelStyle
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, style.Render(label), f.fields[i].View())
	}

	if f.err != nil {
		s += errorText(fmt.Sprintf("  Error: %v", f.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")
	return s
}
