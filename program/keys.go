package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Static   key.Binding
	Hologram key.Binding
	AR       key.Binding
	Spinning key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Clear    key.Binding
	Refresh  key.Binding
	Pause    key.Binding
	Stats    key.Binding
	HotNext  key.Binding
	HotPrev  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Static, k.Select, k.Clear, k.Refresh, k.Pause, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Static, k.Hologram, k.AR, k.Spinning},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Clear, k.HotNext, k.HotPrev},
		{k.Refresh, k.Pause, k.Stats, k.Quit},
	}
}

var keys = keyMap{
	Static: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1-4", "layer"),
	),
	Hologram: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "hologram"),
	),
	AR: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "ar"),
	),
	Spinning: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "spinning"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refetch"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	Stats: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stats"),
	),
	HotNext: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n/N", "hot slot"),
	),
	HotPrev: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "prev hot slot"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
