package dropdown

import (
	"os"

	"golang.org/x/term"
)

// Terminal controls the line discipline and reports the size of the
// terminal the dropdown draws on.
type Terminal interface {
	// MakeRaw puts the terminal into raw mode and returns a function that
	// restores the previous mode.
	MakeRaw() (restore func() error, err error)

	// Size returns the terminal width and height in cells.
	Size() (width, height int, err error)
}

// TTY is the Terminal backed by a terminal device.
type TTY struct {
	fd int
}

// NewTTY returns the Terminal for f, usually /dev/tty.
func NewTTY(f *os.File) TTY {
	return TTY{fd: int(f.Fd())} //nolint:gosec // file descriptors fit in int
}

func (t TTY) MakeRaw() (func() error, error) {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(t.fd, state) }, nil
}

func (t TTY) Size() (int, int, error) {
	return term.GetSize(t.fd)
}
