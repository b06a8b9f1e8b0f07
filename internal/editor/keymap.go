package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds keys to editor actions.
type KeyMap struct {
	Exit     key.Binding
	Submit   key.Binding
	Complete key.Binding

	// EOF exits on an empty line and deletes forward otherwise.
	EOF key.Binding

	Backspace     key.Binding
	Delete        key.Binding
	BackspaceWord key.Binding
	KillBefore    key.Binding
	KillAfter     key.Binding
	Yank          key.Binding
	YankNext      key.Binding
	Undo          key.Binding

	LineStart   key.Binding
	LineEnd     key.Binding
	CharBack    key.Binding
	CharForward key.Binding
	WordBack    key.Binding
	WordForward key.Binding
}

// DefaultKeyMap returns the readline-style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Exit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept selection"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
		EOF: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete char / cancel on empty line"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "delete previous char"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete"),
			key.WithHelp("delete", "delete char"),
		),
		BackspaceWord: key.NewBinding(
			key.WithKeys("alt+backspace", "ctrl+w"),
			key.WithHelp("alt+backspace", "kill previous word"),
		),
		KillBefore: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "kill to start"),
		),
		KillAfter: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "kill to end"),
		),
		Yank: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "yank"),
		),
		YankNext: key.NewBinding(
			key.WithKeys("alt+y"),
			key.WithHelp("alt+y", "yank next"),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+_"),
			key.WithHelp("ctrl+/", "undo"),
		),
		LineStart: key.NewBinding(
			key.WithKeys("ctrl+a", "home"),
			key.WithHelp("ctrl+a", "start of line"),
		),
		LineEnd: key.NewBinding(
			key.WithKeys("ctrl+e", "end"),
			key.WithHelp("ctrl+e", "end of line"),
		),
		CharBack: key.NewBinding(
			key.WithKeys("ctrl+b", "left"),
			key.WithHelp("ctrl+b", "back one char"),
		),
		CharForward: key.NewBinding(
			key.WithKeys("ctrl+f", "right"),
			key.WithHelp("ctrl+f", "forward one char"),
		),
		WordBack: key.NewBinding(
			key.WithKeys("alt+b", "alt+left", "ctrl+left"),
			key.WithHelp("alt+b", "back one word"),
		),
		WordForward: key.NewBinding(
			key.WithKeys("alt+f", "alt+right", "ctrl+right"),
			key.WithHelp("alt+f", "forward one word"),
		),
	}
}

// Bindings lists every binding, for help output.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{
		k.Exit, k.Submit, k.Complete, k.EOF,
		k.Backspace, k.Delete, k.BackspaceWord, k.KillBefore, k.KillAfter,
		k.Yank, k.YankNext, k.Undo,
		k.LineStart, k.LineEnd, k.CharBack, k.CharForward, k.WordBack, k.WordForward,
	}
}
