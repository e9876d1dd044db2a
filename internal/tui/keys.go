package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Toggle      key.Binding
	Derivation  key.Binding
	Search      key.Binding
	ClearSearch key.Binding
	Colors      key.Binding
	Slower      key.Binding
	Faster      key.Binding
	Timer       key.Binding
	TimerReset  key.Binding
	Reset       key.Binding
	Export      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "x", "enter"), key.WithHelp("space/x", "check")),
		Derivation:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "derivation")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Colors:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause colors")),
		Slower:      key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower colors")),
		Faster:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster colors")),
		Timer:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/pause timer")),
		TimerReset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset timer")),
		Reset:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset progress")),
		Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Derivation, k.Search, k.Timer, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.Derivation, k.Search, k.ClearSearch},
		{k.Timer, k.TimerReset, k.Colors, k.Slower, k.Faster},
		{k.Reset, k.Export, k.Help, k.Quit},
	}
}
