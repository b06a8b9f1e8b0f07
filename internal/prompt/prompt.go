// Package prompt runs the interactive completion loop: it feeds keys to the
// line editor, recomputes candidates as the buffer changes, and draws them
// in a dropdown until the user accepts or cancels.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/runger/complesh/internal/completer"
	"github.com/runger/complesh/internal/dropdown"
	"github.com/runger/complesh/internal/editor"
	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

// State is the controller's position in its lifecycle.
type State int

const (
	StateInitializing State = iota
	StateLooping
	StateSubmitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateLooping:
		return "looping"
	case StateSubmitted:
		return "submitted"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the outcome of a session. Text is only set when State is
// StateSubmitted, and always ends in a space.
type Result struct {
	State State
	Text  string
}

// Submitted reports whether the user accepted a completion.
func (r Result) Submitted() bool { return r.State == StateSubmitted }

// Terminal is an open interactive terminal: a key source plus somewhere to
// draw.
type Terminal interface {
	Render(v dropdown.View) error

	// Keys is closed when input ends; Err then reports why.
	Keys() <-chan tea.KeyMsg
	Err() error

	Close() error
}

// OpenFunc opens the terminal. It is only called once the session needs
// to interact.
type OpenFunc func() (Terminal, error)

// Options configures a Controller.
type Options struct {
	// Input is the starting buffer.
	Input string

	KeyMap       KeyMap
	EditorKeyMap editor.KeyMap

	// IsDir reports whether a candidate names a directory. Defaults to
	// completer.IsDir.
	IsDir func(candidate string) bool

	Logger *slog.Logger
}

// Controller ties a Completer, an Editor and a Terminal together.
type Controller struct {
	completer completer.Completer
	editor    *editor.Editor
	keys      KeyMap
	isDir     func(string) bool
	logger    *slog.Logger

	values *ring.Buffer[match.Result]
	state  State
}

// New creates a Controller completing with c.
func New(c completer.Completer, opts Options) *Controller {
	if len(opts.KeyMap.Next.Keys()) == 0 {
		opts.KeyMap = DefaultKeyMap()
	}
	editorKeys := opts.EditorKeyMap
	if len(editorKeys.Exit.Keys()) == 0 {
		editorKeys = editor.DefaultKeyMap()
	}
	if opts.IsDir == nil {
		opts.IsDir = completer.IsDir
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		completer: c,
		editor:    editor.NewWithKeyMap(opts.Input, editorKeys),
		keys:      opts.KeyMap,
		isDir:     opts.IsDir,
		logger:    opts.Logger,
		values:    ring.New[match.Result](),
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Run computes the first candidates and, unless a single candidate settles
// it right away, opens the terminal and loops until the user submits or
// cancels. The terminal is closed on every return path.
func (c *Controller) Run(ctx context.Context, open OpenFunc) (res Result, err error) {
	log := c.logger.With("session", uuid.NewString())
	log.Debug("prompt started", "input", c.editor.Value(), "completer", c.completer.Label())

	c.complete(ctx)
	if c.exitOnTab() {
		log.Debug("single candidate on startup", "candidate", c.current())
		return c.finish(StateSubmitted, c.current()), nil
	}

	term, err := open()
	if err != nil {
		return Result{}, fmt.Errorf("prompt: open terminal: %w", err)
	}
	defer func() {
		if cerr := term.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("prompt: close terminal: %w", cerr))
		}
		log.Debug("prompt finished", "state", c.state.String(), "error", err)
	}()

	c.state = StateLooping
	for {
		if err := term.Render(c.view()); err != nil {
			return Result{}, err
		}

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case msg, ok := <-term.Keys():
			if !ok {
				rerr := term.Err()
				if rerr == nil {
					rerr = io.EOF
				}
				return Result{}, fmt.Errorf("prompt: read key: %w", rerr)
			}
			if r, done := c.handle(ctx, msg); done {
				return r, nil
			}
		}
	}
}

// handle applies one key and reports whether the session is over.
func (c *Controller) handle(ctx context.Context, msg tea.KeyMsg) (Result, bool) {
	switch {
	case key.Matches(msg, c.keys.RawSubmit):
		return c.finish(StateSubmitted, c.editor.Value()), true
	case key.Matches(msg, c.keys.Next):
		c.values.Forward()
		return Result{}, false
	case key.Matches(msg, c.keys.Prev):
		c.values.Back()
		return Result{}, false
	case key.Matches(msg, c.keys.ToggleMode):
		c.completer.ToggleMode()
		c.complete(ctx)
		return Result{}, false
	}

	switch c.editor.Handle(msg) {
	case editor.EventExit:
		return c.finish(StateCancelled, ""), true
	case editor.EventSubmit:
		return c.finish(StateSubmitted, c.current()), true
	case editor.EventTab:
		if c.exitOnTab() {
			return c.finish(StateSubmitted, c.current()), true
		}
		if _, ok := c.values.Current(); ok {
			c.editor.SetValue(c.current())
		}
	}
	c.complete(ctx)
	return Result{}, false
}

func (c *Controller) finish(state State, text string) Result {
	c.state = state
	if state != StateSubmitted {
		return Result{State: state}
	}
	return Result{State: state, Text: text + " "}
}

func (c *Controller) complete(ctx context.Context) {
	c.values = c.completer.Complete(ctx, c.editor.Value())
}

// current returns the selected candidate, or the buffer when there is none.
func (c *Controller) current() string {
	if r, ok := c.values.Current(); ok {
		return r.Text()
	}
	return c.editor.Value()
}

// exitOnTab reports whether there is exactly one candidate and it is not a
// directory to descend into.
func (c *Controller) exitOnTab() bool {
	return c.values.Len() == 1 && !c.isDir(c.current())
}

func (c *Controller) view() dropdown.View {
	candidates := make([]string, 0, c.values.Len())
	for r := range c.values.All() {
		candidates = append(candidates, r.Annotated)
	}
	return dropdown.View{
		Label:      c.completer.Label() + ": ",
		Buffer:     c.editor.Value(),
		Cursor:     c.editor.Cursor(),
		Candidates: candidates,
	}
}
