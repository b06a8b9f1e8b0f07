package prompt

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/complesh/internal/dropdown"
	"github.com/runger/complesh/internal/input"
)

// ttyTerminal draws with a Dropdown and reads keys from the same device.
type ttyTerminal struct {
	dropdown *dropdown.Dropdown
	reader   *input.Reader
}

// OpenTTY returns an OpenFunc for tty, usually /dev/tty.
func OpenTTY(tty *os.File, opts dropdown.Options) OpenFunc {
	return func() (Terminal, error) {
		d, err := dropdown.Open(tty, tty, dropdown.NewTTY(tty), opts)
		if err != nil {
			return nil, err
		}
		r, err := input.NewReader(tty)
		if err != nil {
			return nil, errors.Join(err, d.Close())
		}
		return &ttyTerminal{dropdown: d, reader: r}, nil
	}
}

func (t *ttyTerminal) Render(v dropdown.View) error { return t.dropdown.Render(v) }

func (t *ttyTerminal) Keys() <-chan tea.KeyMsg { return t.reader.Keys() }

func (t *ttyTerminal) Err() error { return t.reader.Err() }

// Close stops the key reader before tearing down the dropdown so no key is
// read after cooked mode is back.
func (t *ttyTerminal) Close() error {
	return errors.Join(t.reader.Close(), t.dropdown.Close())
}
