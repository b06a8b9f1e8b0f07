package cmd

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// minTermWidth is the narrowest terminal the dropdown is drawn in.
const minTermWidth = 20

// checkTTY verifies that the terminal is openable.
func checkTTY() error {
	f, err := os.Open(ttyPath)
	if err != nil {
		return fmt.Errorf("no TTY available: %w", err)
	}
	f.Close()
	return nil
}

// checkTERM verifies that the TERM environment variable is not "dumb".
func checkTERM() error {
	if os.Getenv("TERM") == "dumb" {
		return fmt.Errorf("TERM=dumb is not supported")
	}
	return nil
}

// checkTermWidth verifies that the terminal is at least minTermWidth
// columns wide.
func checkTermWidth(tty *os.File) error {
	width, _, err := term.GetSize(int(tty.Fd())) //nolint:gosec // file descriptors fit in int
	if err != nil {
		return fmt.Errorf("cannot get terminal size: %w", err)
	}
	if width < minTermWidth {
		return fmt.Errorf("terminal too narrow (%d columns, need at least %d)", width, minTermWidth)
	}
	return nil
}
