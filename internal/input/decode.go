// Package input turns raw terminal bytes into key events.
//
// Keys are reported as bubbletea KeyMsg values so that keymaps can be
// written with bubbles/key bindings, even though no bubbletea program
// owns the terminal.
package input

import (
	"bytes"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	esc        = 0x1b
	del        = 0x7f
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// csiKeys maps the parameter and final byte of a CSI sequence to a key.
var csiKeys = map[string]tea.KeyType{
	"A":  tea.KeyUp,
	"B":  tea.KeyDown,
	"C":  tea.KeyRight,
	"D":  tea.KeyLeft,
	"H":  tea.KeyHome,
	"F":  tea.KeyEnd,
	"Z":  tea.KeyShiftTab,
	"1~": tea.KeyHome,
	"2~": tea.KeyInsert,
	"3~": tea.KeyDelete,
	"4~": tea.KeyEnd,
	"5~": tea.KeyPgUp,
	"6~": tea.KeyPgDown,
	"7~": tea.KeyHome,
	"8~": tea.KeyEnd,

	"1;5A": tea.KeyCtrlUp,
	"1;5B": tea.KeyCtrlDown,
	"1;5C": tea.KeyCtrlRight,
	"1;5D": tea.KeyCtrlLeft,
	"1;5H": tea.KeyCtrlHome,
	"1;5F": tea.KeyCtrlEnd,
	"1;2A": tea.KeyShiftUp,
	"1;2B": tea.KeyShiftDown,
	"1;2C": tea.KeyShiftRight,
	"1;2D": tea.KeyShiftLeft,
}

// altCSIKeys are the xterm alt-modified forms ("1;3C").
var altCSIKeys = map[string]tea.KeyType{
	"1;3A": tea.KeyUp,
	"1;3B": tea.KeyDown,
	"1;3C": tea.KeyRight,
	"1;3D": tea.KeyLeft,
	"1;3H": tea.KeyHome,
	"1;3F": tea.KeyEnd,
	"3;3~": tea.KeyDelete,
}

var ss3Keys = map[byte]tea.KeyType{
	'A': tea.KeyUp,
	'B': tea.KeyDown,
	'C': tea.KeyRight,
	'D': tea.KeyLeft,
	'H': tea.KeyHome,
	'F': tea.KeyEnd,
	'P': tea.KeyF1,
	'Q': tea.KeyF2,
	'R': tea.KeyF3,
	'S': tea.KeyF4,
}

// Decode parses the key at the start of b and reports how many bytes it
// used. n is 0 when b ends inside a sequence and more input is needed.
// ok is false when n bytes were consumed without producing a key, as for
// unrecognised escape sequences.
func Decode(b []byte) (key tea.KeyMsg, n int, ok bool) {
	if len(b) == 0 {
		return key, 0, false
	}

	switch c := b[0]; {
	case c == esc:
		return decodeEscape(b)
	case c == ' ':
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, 1, true
	case c == del:
		return tea.KeyMsg{Type: tea.KeyBackspace}, 1, true
	case c < 0x20:
		return tea.KeyMsg{Type: tea.KeyType(c)}, 1, true
	}

	if !utf8.FullRune(b) {
		return key, 0, false
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return key, 1, false
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, size, true
}

func decodeEscape(b []byte) (tea.KeyMsg, int, bool) {
	if len(b) == 1 {
		return tea.KeyMsg{Type: tea.KeyEscape}, 1, true
	}

	switch b[1] {
	case '[':
		return decodeCSI(b)
	case 'O':
		if len(b) < 3 {
			return tea.KeyMsg{}, 0, false
		}
		if t, ok := ss3Keys[b[2]]; ok {
			return tea.KeyMsg{Type: t}, 3, true
		}
		return tea.KeyMsg{}, 3, false
	case esc:
		return tea.KeyMsg{Type: tea.KeyEscape, Alt: true}, 2, true
	}

	// ESC followed by a key is that key with alt held.
	key, n, ok := Decode(b[1:])
	if n == 0 {
		return key, 0, false
	}
	key.Alt = true
	return key, n + 1, ok
}

func decodeCSI(b []byte) (tea.KeyMsg, int, bool) {
	if bytes.HasPrefix(b, []byte(pasteStart)) {
		return decodePaste(b)
	}

	// Parameter and intermediate bytes run until a final byte in 0x40-0x7e.
	end := -1
	for i := 2; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			end = i
			break
		}
	}
	if end < 0 {
		return tea.KeyMsg{}, 0, false
	}

	seq := string(b[2 : end+1])
	if t, ok := csiKeys[seq]; ok {
		return tea.KeyMsg{Type: t}, end + 1, true
	}
	if t, ok := altCSIKeys[seq]; ok {
		return tea.KeyMsg{Type: t, Alt: true}, end + 1, true
	}
	return tea.KeyMsg{}, end + 1, false
}

func decodePaste(b []byte) (tea.KeyMsg, int, bool) {
	body := b[len(pasteStart):]
	i := bytes.Index(body, []byte(pasteEnd))
	if i < 0 {
		return tea.KeyMsg{}, 0, false
	}
	runes := []rune(string(body[:i]))
	n := len(pasteStart) + i + len(pasteEnd)
	if len(runes) == 0 {
		return tea.KeyMsg{}, n, false
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: runes, Paste: true}, n, true
}
