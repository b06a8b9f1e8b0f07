// Package editor implements a single-line, readline-style editing buffer
// with an undo stack and a kill ring.
package editor

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

// Event is the outcome of handling one key.
type Event int

const (
	// EventEdit means the key was handled as an edit or a cursor motion.
	EventEdit Event = iota
	EventExit
	EventSubmit
	EventTab
	EventYank
	// EventKey means the key is not an editing key. The buffer is unchanged
	// and the caller may act on the key itself.
	EventKey
)

func (e Event) String() string {
	switch e {
	case EventEdit:
		return "edit"
	case EventExit:
		return "exit"
	case EventSubmit:
		return "submit"
	case EventTab:
		return "tab"
	case EventYank:
		return "yank"
	case EventKey:
		return "key"
	default:
		return "unknown"
	}
}

// Snapshot is a saved buffer state. Cursor counts runes.
type Snapshot struct {
	Text   string
	Cursor int
}

// Editor is a line buffer with a cursor. Every content change records a
// Snapshot first so it can be undone. An Editor is not safe for concurrent
// use.
type Editor struct {
	text     []rune
	cursor   int
	undo     []Snapshot
	kills    *ring.Buffer[string]
	keys     KeyMap
	lastYank bool
}

// New creates an Editor holding initial with the cursor at the end.
func New(initial string) *Editor {
	return NewWithKeyMap(initial, DefaultKeyMap())
}

// NewWithKeyMap is New with custom bindings.
func NewWithKeyMap(initial string, keys KeyMap) *Editor {
	text := []rune(initial)
	return &Editor{
		text:   text,
		cursor: len(text),
		kills:  ring.New[string](),
		keys:   keys,
	}
}

// Value returns the buffer contents.
func (e *Editor) Value() string { return string(e.text) }

// Cursor returns the cursor position in runes.
func (e *Editor) Cursor() int { return e.cursor }

// BeforeCursor returns the text left of the cursor.
func (e *Editor) BeforeCursor() string { return string(e.text[:e.cursor]) }

// Kills returns the kill ring, most recent first from the yank position.
func (e *Editor) Kills() []string { return e.kills.Items() }

// SetValue replaces the buffer and moves the cursor to the end.
func (e *Editor) SetValue(s string) {
	e.text = []rune(s)
	e.cursor = len(e.text)
}

// Handle applies one key.
func (e *Editor) Handle(msg tea.KeyMsg) Event {
	ev := e.handle(msg)
	e.lastYank = ev == EventYank
	return ev
}

func (e *Editor) handle(msg tea.KeyMsg) Event {
	k := e.keys
	switch {
	case key.Matches(msg, k.Exit):
		return EventExit
	case key.Matches(msg, k.Submit):
		return EventSubmit
	case key.Matches(msg, k.Complete):
		return EventTab
	case key.Matches(msg, k.EOF):
		if len(e.text) == 0 {
			return EventExit
		}
		e.deleteForward()
	case key.Matches(msg, k.Backspace):
		e.backspace()
	case key.Matches(msg, k.Delete):
		e.deleteForward()
	case key.Matches(msg, k.BackspaceWord):
		e.backspaceWord()
	case key.Matches(msg, k.KillBefore):
		e.killBefore()
	case key.Matches(msg, k.KillAfter):
		e.killAfter()
	case key.Matches(msg, k.Yank):
		if e.yank() {
			return EventYank
		}
	case key.Matches(msg, k.YankNext):
		if e.yankNext() {
			return EventYank
		}
	case key.Matches(msg, k.Undo):
		e.Undo()
	case key.Matches(msg, k.LineStart):
		e.cursor = 0
	case key.Matches(msg, k.LineEnd):
		e.cursor = len(e.text)
	case key.Matches(msg, k.CharBack):
		e.cursor = max(e.cursor-1, 0)
	case key.Matches(msg, k.CharForward):
		e.cursor = min(e.cursor+1, len(e.text))
	case key.Matches(msg, k.WordBack):
		e.cursor = e.previousWordStart()
	case key.Matches(msg, k.WordForward):
		e.cursor = e.nextWordEnd()
	case isInsert(msg):
		e.Insert(string(msg.Runes))
	default:
		return EventKey
	}
	return EventEdit
}

func isInsert(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		return !msg.Alt && len(msg.Runes) > 0
	case tea.KeySpace:
		return !msg.Alt
	}
	return false
}

// Insert writes s at the cursor.
func (e *Editor) Insert(s string) {
	if s == "" {
		return
	}
	e.push()
	e.insert(s)
}

func (e *Editor) insert(s string) {
	r := []rune(s)
	text := make([]rune, 0, len(e.text)+len(r))
	text = append(text, e.text[:e.cursor]...)
	text = append(text, r...)
	text = append(text, e.text[e.cursor:]...)
	e.text = text
	e.cursor += len(r)
}

// Undo restores the most recent snapshot. With nothing to undo the buffer
// is cleared.
func (e *Editor) Undo() {
	if len(e.undo) == 0 {
		e.text, e.cursor = nil, 0
		return
	}
	s := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.text = []rune(s.Text)
	e.cursor = s.Cursor
}

func (e *Editor) push() {
	e.undo = append(e.undo, Snapshot{Text: string(e.text), Cursor: e.cursor})
}

func (e *Editor) backspace() {
	if e.cursor == 0 {
		return
	}
	e.push()
	e.text = append(e.text[:e.cursor-1], e.text[e.cursor:]...)
	e.cursor--
}

func (e *Editor) deleteForward() {
	if e.cursor >= len(e.text) {
		return
	}
	e.push()
	e.text = append(e.text[:e.cursor], e.text[e.cursor+1:]...)
}

// kill removes text[from:to] and pushes it onto the kill ring.
func (e *Editor) kill(from, to int) {
	if from >= to {
		return
	}
	e.push()
	e.kills.Insert(string(e.text[from:to]))
	e.text = append(e.text[:from:from], e.text[to:]...)
	e.cursor = from
}

func (e *Editor) backspaceWord() {
	e.kill(e.previousWordStart(), e.cursor)
}

func (e *Editor) killBefore() {
	e.kill(0, e.cursor)
}

func (e *Editor) killAfter() {
	cursor := e.cursor
	e.kill(e.cursor, len(e.text))
	e.cursor = cursor
}

func (e *Editor) yank() bool {
	s, ok := e.kills.Current()
	if !ok {
		return false
	}
	e.push()
	e.insert(s)
	return true
}

// yankNext replaces the text inserted by the previous yank with the next
// entry of the kill ring.
func (e *Editor) yankNext() bool {
	if !e.lastYank {
		return false
	}
	e.Undo()
	e.kills.Forward()
	return e.yank()
}

// previousWordStart returns the rune index of the start of the last token
// left of the cursor, or the cursor when there is none.
func (e *Editor) previousWordStart() int {
	before := string(e.text[:e.cursor])
	tokens := match.Tokenize(before)
	if len(tokens) == 0 {
		return e.cursor
	}
	return utf8.RuneCountInString(before[:tokens[len(tokens)-1].Start])
}

// nextWordEnd returns the rune index of the end of the first token right
// of the cursor, or the cursor when there is none.
func (e *Editor) nextWordEnd() int {
	after := string(e.text[e.cursor:])
	tokens := match.Tokenize(after)
	if len(tokens) == 0 {
		return e.cursor
	}
	return e.cursor + utf8.RuneCountInString(after[:tokens[0].End])
}
