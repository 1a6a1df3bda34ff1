package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap stands in for the knob and the touch panel. Letter keys are taps
// on the on-screen buttons; m and p simulate the edge swipes.
type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Press    key.Binding
	Up       key.Binding
	Down     key.Binding
	Back     key.Binding
	Continue key.Binding
	Reset    key.Binding
	Menu     key.Binding
	Picker   key.Binding
	Item     key.Binding
	Start    key.Binding
	LogTime  key.Binding
	Open     key.Binding
	Browser  key.Binding
	Meeting  key.Binding
	Note     key.Binding
	Log      key.Binding
	Export   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "turn left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "turn right"),
	),
	Press: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "press"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Continue: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "continue"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Menu: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "swipe down: menu"),
	),
	Picker: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "swipe up: task picker"),
	),
	Item: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "tap item"),
	),
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start task"),
	),
	LogTime: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "log time"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "task detail"),
	),
	Browser: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "open in browser"),
	),
	Meeting: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "log meeting"),
	),
	Note: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "note"),
	),
	Log: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "log session"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Press, k.Back, k.Menu, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Press, k.Back},
		{k.Continue, k.Reset, k.Menu, k.Picker, k.Item},
		{k.Start, k.LogTime, k.Open, k.Browser, k.Meeting},
		{k.Note, k.Log, k.Export, k.Help, k.Quit},
	}
}
