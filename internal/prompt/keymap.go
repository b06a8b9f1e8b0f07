package prompt

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the keys the controller handles itself. Everything else goes
// to the line editor.
type KeyMap struct {
	RawSubmit  key.Binding
	Next       key.Binding
	Prev       key.Binding
	ToggleMode key.Binding
}

// DefaultKeyMap returns the default controller bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		RawSubmit: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("ctrl+j", "accept as typed"),
		),
		Next: key.NewBinding(
			key.WithKeys("ctrl+n", "down"),
			key.WithHelp("ctrl+n/↓", "next candidate"),
		),
		Prev: key.NewBinding(
			key.WithKeys("ctrl+p", "up"),
			key.WithHelp("ctrl+p/↑", "previous candidate"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("ctrl+space", "switch completion mode"),
		),
	}
}

// Bindings lists the bindings in help order.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.RawSubmit, k.ToggleMode}
}
