// Package dropdown draws a prompt line with a list of candidates below it,
// inline in the terminal, without taking over the screen.
//
// The dropdown works in absolute screen rows. Open queries the cursor
// position to find where the prompt line starts; if the list does not fit
// below it the screen is scrolled up first. Close clears everything that was
// drawn and returns the cursor to where it started.
package dropdown

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// DefaultHeight is the number of rows, prompt line included.
const DefaultHeight = 5

const (
	selectedMarker = "-> "
	plainMarker    = "   "
	ellipsis       = "   ..."
)

var (
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	ellipsisStyle = lipgloss.NewStyle().Faint(true)
)

// Options configures a Dropdown.
type Options struct {
	// Height is the total number of rows drawn, prompt line included.
	Height int

	// MinRows is the number of rows the dropdown scrolls the screen to make
	// room for when it starts near the bottom. Defaults to Height.
	MinRows int

	CursorTimeout time.Duration

	// NotifyParent runs after teardown. Defaults to sending SIGWINCH to the
	// parent process so the shell redraws its line.
	NotifyParent func() error

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.MinRows <= 0 || o.MinRows > o.Height {
		o.MinRows = o.Height
	}
	if o.CursorTimeout <= 0 {
		o.CursorTimeout = DefaultCursorTimeout
	}
	if o.NotifyParent == nil {
		o.NotifyParent = notifyParent
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// View is what a single render pass draws.
type View struct {
	Label  string // drawn styled before the buffer
	Buffer string
	Cursor int // in runes, within Buffer

	// Candidates are drawn in order below the prompt line, the first one
	// marked as selected.
	Candidates []string
}

// Dropdown is an open drawing session on a terminal in raw mode.
type Dropdown struct {
	w       io.Writer
	term    Terminal
	restore func() error
	opts    Options

	startRow, startCol int
	origin             int // screen row of the prompt line
	drawn              int // rows drawn by the last pass
	closed             bool
}

// Open puts term into raw mode and locates the cursor. On error the
// terminal mode is restored before returning.
func Open(in io.Reader, out io.Writer, term Terminal, opts Options) (*Dropdown, error) {
	opts = opts.withDefaults()

	restore, err := term.MakeRaw()
	if err != nil {
		return nil, fmt.Errorf("dropdown: enter raw mode: %w", err)
	}

	row, col, err := queryCursor(in, out, opts.CursorTimeout)
	if err != nil {
		if rerr := restore(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("dropdown: restore terminal: %w", rerr))
		}
		return nil, err
	}

	d := &Dropdown{
		w:        out,
		term:     term,
		restore:  restore,
		opts:     opts,
		startRow: row,
		startCol: col,
		origin:   row,
	}
	if col != 1 {
		d.origin = row + 1
	}
	opts.Logger.Debug("dropdown opened", "row", row, "col", col, "origin", d.origin)
	return d, nil
}

// Origin returns the screen row of the prompt line.
func (d *Dropdown) Origin() int { return d.origin }

// Render draws one pass of v.
func (d *Dropdown) Render(v View) error {
	if d.closed {
		return errors.New("dropdown: render after close")
	}

	width, height, err := d.term.Size()
	if err != nil {
		return fmt.Errorf("dropdown: terminal size: %w", err)
	}

	var frame bytes.Buffer
	out := newFrame(&frame)

	rows := d.layout(out, height)

	for i := 0; i < rows; i++ {
		out.MoveCursor(d.origin+i, 1)
		out.ClearLine()
		if i == 0 {
			out.WriteString(labelStyle.Render(v.Label) + v.Buffer)
			continue
		}
		out.WriteString(ansi.Truncate(candidateLine(v.Candidates, i, rows), width, ""))
	}
	for i := rows; i < d.drawn; i++ {
		out.MoveCursor(d.origin+i, 1)
		out.ClearLine()
	}
	d.drawn = rows

	out.MoveCursor(d.origin, 1+promptWidth(v))

	if _, err := d.w.Write(frame.Bytes()); err != nil {
		return fmt.Errorf("dropdown: render: %w", err)
	}
	return nil
}

// layout returns the rows for this pass, scrolling the screen when the
// dropdown needs more room below the origin than is left.
func (d *Dropdown) layout(out *termenv.Output, height int) int {
	if height < 1 {
		height = 1
	}
	space := height - d.origin + 1
	rows := max(min(d.opts.Height, space), min(d.opts.MinRows, height))
	rows = max(rows, 1)

	if scroll := rows - space; scroll > 0 {
		out.MoveCursor(height, 1)
		for range scroll {
			out.WriteString("\n")
		}
		d.origin -= scroll
		d.startRow = max(d.startRow-scroll, 1)
		d.opts.Logger.Debug("dropdown scrolled", "lines", scroll, "origin", d.origin)
	}
	return rows
}

// candidateLine returns the text of dropdown row i (1-based below the
// prompt line) out of rows. The ellipsis needs a row of its own, so a
// single candidate row always shows the selection.
func candidateLine(candidates []string, i, rows int) string {
	idx := i - 1
	if i == rows-1 && rows-1 >= 2 && len(candidates) > rows-1 {
		return ellipsisStyle.Render(ellipsis)
	}
	if idx >= len(candidates) {
		return ""
	}
	if idx == 0 {
		return selectedMarker + candidates[idx]
	}
	return plainMarker + candidates[idx]
}

// promptWidth is the display width of the label plus the buffer up to the
// cursor.
func promptWidth(v View) int {
	before := []rune(v.Buffer)
	if v.Cursor >= 0 && v.Cursor < len(before) {
		before = before[:v.Cursor]
	}
	return runewidth.StringWidth(ansi.Strip(v.Label)) + runewidth.StringWidth(string(before))
}

// newFrame returns an Output for cursor and line control sequences. Colors
// are applied by lipgloss, not here.
func newFrame(w io.Writer) *termenv.Output {
	return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
}

// Close clears the drawn rows, puts the cursor back where it was when the
// dropdown opened, restores the terminal mode and notifies the parent
// process. It is safe to call more than once.
func (d *Dropdown) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var frame bytes.Buffer
	out := newFrame(&frame)
	for i := 0; i < d.drawn; i++ {
		out.MoveCursor(d.origin+i, 1)
		out.ClearLine()
	}
	out.MoveCursor(d.startRow, d.startCol)

	var errs []error
	if _, err := d.w.Write(frame.Bytes()); err != nil {
		errs = append(errs, fmt.Errorf("dropdown: clear: %w", err))
	}
	if err := d.restore(); err != nil {
		errs = append(errs, fmt.Errorf("dropdown: restore terminal: %w", err))
	}
	if err := d.opts.NotifyParent(); err != nil {
		d.opts.Logger.Debug("notify parent failed", "error", err)
	}
	return errors.Join(errs...)
}
