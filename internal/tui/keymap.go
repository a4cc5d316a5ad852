package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Editing
	Digit    key.Binding
	Decimal  key.Binding
	Add      key.Binding
	Subtract key.Binding
	Multiply key.Binding
	Divide   key.Binding
	Delete   key.Binding
	Clear    key.Binding
	Apply    key.Binding

	// History
	ToggleHistory key.Binding
	Up            key.Binding
	Down          key.Binding
	Load          key.Binding
	ClearHistory  key.Binding

	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "digit"),
		),
		Decimal: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "decimal"),
		),
		Add: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "add"),
		),
		Subtract: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "subtract"),
		),
		Multiply: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "multiply"),
		),
		Divide: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "divide"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc", "c"),
			key.WithHelp("esc/c", "clear"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter", "="),
			key.WithHelp("enter/=", "apply"),
		),
		ToggleHistory: key.NewBinding(
			key.WithKeys("tab", "h"),
			key.WithHelp("tab/h", "history"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// calculatorHelp is the help.KeyMap shown on the keypad screen.
type calculatorHelp KeyMap

func (k calculatorHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Delete, k.Clear, k.ToggleHistory, k.Quit}
}

func (k calculatorHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Digit, k.Decimal},
		{k.Add, k.Subtract, k.Multiply, k.Divide},
		{k.Apply, k.Delete, k.Clear},
		{k.ToggleHistory, k.Quit},
	}
}

// historyHelp is the help.KeyMap shown on the history screen.
type historyHelp KeyMap

func (k historyHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Load, k.ClearHistory, k.ToggleHistory, k.Quit}
}

func (k historyHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
