//go:build linux || darwin

package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// startPrompt runs the root command against a pseudo-terminal and returns
// the console driving it and a channel carrying the exit code.
func startPrompt(t *testing.T, args ...string) (*expect.Console, <-chan int) {
	t.Helper()
	resetCommand(t)
	isolateConfig(t)
	t.Setenv("TERM", "vt100")
	t.Setenv("COLORTERM", "")

	console, err := expect.NewConsole(expect.WithDefaultTimeout(5 * time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { console.Close() })

	tty := console.Tty()
	require.NoError(t, unix.IoctlSetWinsize(int(tty.Fd()), unix.TIOCSWINSZ, &unix.Winsize{Row: 24, Col: 80}))

	ttyPath = tty.Name()
	notifyParent = func() error { return nil }

	done := make(chan int, 1)
	go func() {
		_, code := execute(t, args...)
		done <- code
	}()

	_, err = console.ExpectString("\x1b[6n")
	require.NoError(t, err)
	_, err = console.Send("\x1b[1;1R")
	require.NoError(t, err)
	return console, done
}

func waitExit(t *testing.T, done <-chan int) int {
	t.Helper()
	select {
	case code := <-done:
		return code
	case <-time.After(5 * time.Second):
		t.Fatal("prompt did not exit")
		return -1
	}
}

func TestPrompt_SubmitsSelection(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	console, done := startPrompt(t, "--choices", "alpha beta gamma", "--output", out)

	_, err := console.ExpectString("-> alpha")
	require.NoError(t, err)

	_, err = console.Send("ga")
	require.NoError(t, err)
	_, err = console.ExpectString("list: ga")
	require.NoError(t, err)

	_, err = console.Send("\r")
	require.NoError(t, err)
	require.Equal(t, exitSuccess, waitExit(t, done))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "gamma ", string(data))
}

func TestPrompt_Cancel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	console, done := startPrompt(t, "--choices", "alpha beta", "--input", "a", "--output", out)

	_, err := console.ExpectString("list: a")
	require.NoError(t, err)

	_, err = console.Send("\x03")
	require.NoError(t, err)
	assert.Equal(t, exitCancelled, waitExit(t, done))

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "cancelled prompt must not write output")
}
