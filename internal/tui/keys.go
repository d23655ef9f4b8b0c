package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Switch key.Binding
	Demo   key.Binding

	// Timer actions
	New      key.Binding
	Edit     key.Binding
	Toggle   key.Binding
	Complete key.Binding
	Delete   key.Binding
	Minimize key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	// History views
	Last7  key.Binding
	Last14 key.Binding
	Last30 key.Binding
	Yearly key.Binding
	Select key.Binding
	Focus  key.Binding

	// Movement
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "timers/history")),
	Demo:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "demo data")),
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
	Complete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Minimize: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimize/restore")),
	PrevPage: key.NewBinding(key.WithKeys("pgup", "["), key.WithHelp("[", "prev page")),
	NextPage: key.NewBinding(key.WithKeys("pgdown", "]"), key.WithHelp("]", "next page")),
	Last7:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "7 days")),
	Last14:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "14 days")),
	Last30:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "30 days")),
	Yearly:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yearly")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Focus:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "chart/list")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
}
