//go:build linux || darwin

package dropdown

import (
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestDropdown_OnPseudoTerminal(t *testing.T) {
	console, err := expect.NewConsole(expect.WithDefaultTimeout(5 * time.Second))
	require.NoError(t, err)
	defer console.Close()

	tty := console.Tty()
	require.NoError(t, unix.IoctlSetWinsize(int(tty.Fd()), unix.TIOCSWINSZ, &unix.Winsize{Row: 24, Col: 80}))

	type opened struct {
		d   *Dropdown
		err error
	}
	ch := make(chan opened, 1)
	go func() {
		d, err := Open(tty, tty, NewTTY(tty), Options{
			Height:       3,
			NotifyParent: func() error { return nil },
		})
		ch <- opened{d, err}
	}()

	_, err = console.ExpectString(queryCursorSeq)
	require.NoError(t, err)
	_, err = console.Send("\x1b[4;1R")
	require.NoError(t, err)

	res := <-ch
	require.NoError(t, res.err)
	d := res.d
	assert.Equal(t, 4, d.Origin())

	require.NoError(t, d.Render(View{Label: "> ", Buffer: "ma", Cursor: 2, Candidates: []string{"main.go"}}))
	_, err = console.ExpectString("-> main.go")
	require.NoError(t, err)

	require.NoError(t, d.Close())
	_, err = console.ExpectString(moveTo(4, 1))
	require.NoError(t, err)
}
