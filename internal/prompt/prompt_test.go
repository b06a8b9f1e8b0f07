package prompt

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/complesh/internal/completer"
	"github.com/runger/complesh/internal/dropdown"
	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

type fakeTerminal struct {
	keys   chan tea.KeyMsg
	err    error
	views  []dropdown.View
	closed int
}

func newFakeTerminal(msgs ...tea.KeyMsg) *fakeTerminal {
	keys := make(chan tea.KeyMsg, len(msgs))
	for _, m := range msgs {
		keys <- m
	}
	close(keys)
	return &fakeTerminal{keys: keys}
}

func (f *fakeTerminal) Render(v dropdown.View) error {
	f.views = append(f.views, v)
	return nil
}

func (f *fakeTerminal) Keys() <-chan tea.KeyMsg { return f.keys }
func (f *fakeTerminal) Err() error              { return f.err }

func (f *fakeTerminal) Close() error {
	f.closed++
	return nil
}

func (f *fakeTerminal) lastView() dropdown.View {
	return f.views[len(f.views)-1]
}

func (f *fakeTerminal) open() (Terminal, error) { return f, nil }

func mustNotOpen(t *testing.T) OpenFunc {
	return func() (Terminal, error) {
		t.Fatal("terminal opened")
		return nil, nil
	}
}

func typed(s string) []tea.KeyMsg {
	msgs := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func keys(groups ...[]tea.KeyMsg) []tea.KeyMsg {
	var out []tea.KeyMsg
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func press(t tea.KeyType) []tea.KeyMsg {
	return []tea.KeyMsg{{Type: t}}
}

func noDirs(candidate string) bool { return strings.HasSuffix(candidate, "/") }

func newList(t *testing.T, input string, choices ...string) *Controller {
	t.Helper()
	list := completer.NewList(choices, completer.Options{
		Matcher: &match.Matcher{},
		Dir:     t.TempDir(),
	})
	return New(list, Options{Input: input, IsDir: noDirs})
}

func run(t *testing.T, c *Controller, msgs ...tea.KeyMsg) (Result, *fakeTerminal) {
	t.Helper()
	term := newFakeTerminal(msgs...)
	res, err := c.Run(context.Background(), term.open)
	require.NoError(t, err)
	assert.Equal(t, 1, term.closed)
	return res, term
}

func TestRun_SingleCandidateOnStartup(t *testing.T) {
	c := newList(t, "alp", "alpha.go", "beta.go")

	res, err := c.Run(context.Background(), mustNotOpen(t))
	require.NoError(t, err)
	assert.Equal(t, Result{State: StateSubmitted, Text: "alpha.go "}, res)
	assert.Equal(t, StateSubmitted, c.State())
}

func TestRun_SingleDirectoryOnStartupOpens(t *testing.T) {
	c := newList(t, "sr", "src/", "main.go")

	res, term := run(t, c, press(tea.KeyEnter)...)
	assert.Equal(t, "src/ ", res.Text)
	assert.Len(t, term.views, 1)
}

func TestRun_Exit(t *testing.T) {
	c := newList(t, "", "a", "b")

	res, _ := run(t, c, keys(typed("a"), press(tea.KeyCtrlC))...)
	assert.Equal(t, StateCancelled, res.State)
	assert.False(t, res.Submitted())
	assert.Empty(t, res.Text)
}

func TestRun_SubmitSelection(t *testing.T) {
	c := newList(t, "", "foo.rs", "bar.rs", "food.rs")

	res, term := run(t, c, keys(typed("fo"), press(tea.KeyCtrlN), press(tea.KeyEnter))...)
	assert.Equal(t, Result{State: StateSubmitted, Text: "food.rs "}, res)

	v := term.lastView()
	assert.Equal(t, "fo", v.Buffer)
	assert.Equal(t, []string{"food.rs", "foo.rs"}, v.Candidates, "the selection is drawn first")
}

func TestRun_RawSubmit(t *testing.T) {
	c := newList(t, "", "foo.rs", "food.rs")

	res, _ := run(t, c, keys(typed("fo"), press(tea.KeyCtrlJ))...)
	assert.Equal(t, "fo ", res.Text)
}

func TestRun_SubmitWithoutCandidates(t *testing.T) {
	c := newList(t, "", "foo.rs", "food.rs")

	res, term := run(t, c, keys(typed("zz"), press(tea.KeyEnter))...)
	assert.Equal(t, "zz ", res.Text)
	assert.Empty(t, term.lastView().Candidates)
}

func TestRun_SelectionWraps(t *testing.T) {
	c := newList(t, "", "a1", "a2", "a3")

	res, _ := run(t, c, keys(press(tea.KeyUp), press(tea.KeyEnter))...)
	assert.Equal(t, "a3 ", res.Text)

	c = newList(t, "", "a1", "a2", "a3")
	res, _ = run(t, c, keys(press(tea.KeyDown), press(tea.KeyDown), press(tea.KeyDown), press(tea.KeyEnter))...)
	assert.Equal(t, "a1 ", res.Text)
}

func TestRun_SelectionKeysDoNotRecompute(t *testing.T) {
	fc := &fakeCompleter{label: "list", results: []string{"x", "y"}}
	c := New(fc, Options{IsDir: noDirs})

	run(t, c, keys(press(tea.KeyCtrlN), press(tea.KeyCtrlP), press(tea.KeyEnter))...)
	assert.Equal(t, 1, fc.completes)
}

func TestRun_TabDescendsIntoDirectory(t *testing.T) {
	c := newList(t, "", "src/", "src/main.go", "docs/")

	res, term := run(t, c, keys(press(tea.KeyTab), press(tea.KeyEnter))...)
	assert.Equal(t, "src/", term.lastView().Buffer)
	assert.Equal(t, "src/ ", res.Text)
}

func TestRun_TabSubmitsSingleFile(t *testing.T) {
	c := newList(t, "", "main.go", "README.md")

	res, _ := run(t, c, keys(typed("mai"), press(tea.KeyTab))...)
	assert.Equal(t, Result{State: StateSubmitted, Text: "main.go "}, res)
}

func TestRun_TabWithoutCandidatesKeepsBuffer(t *testing.T) {
	c := newList(t, "", "main.go")

	res, term := run(t, c, keys(typed("zz"), press(tea.KeyTab), press(tea.KeyCtrlJ))...)
	assert.Equal(t, "zz", term.lastView().Buffer)
	assert.Equal(t, "zz ", res.Text)
}

func TestRun_ToggleMode(t *testing.T) {
	fc := &fakeCompleter{label: "git", results: []string{"x", "y"}}
	c := New(fc, Options{IsDir: noDirs})

	_, term := run(t, c, keys(press(tea.KeyCtrlAt), press(tea.KeyCtrlC))...)
	assert.Equal(t, 1, fc.toggles)
	assert.Equal(t, 2, fc.completes)
	assert.Equal(t, "git: ", term.views[0].Label)
	assert.Equal(t, "recursive: ", term.lastView().Label)
}

func TestRun_ViewTracksEditor(t *testing.T) {
	c := New(completer.NewList([]string{"foo", "bar"}, completer.Options{Dir: t.TempDir()}), Options{IsDir: noDirs})

	_, term := run(t, c, keys(typed("fo"), press(tea.KeyLeft), press(tea.KeyCtrlC))...)
	v := term.lastView()
	assert.Equal(t, "list: ", v.Label)
	assert.Equal(t, "fo", v.Buffer)
	assert.Equal(t, 1, v.Cursor)
	require.Len(t, v.Candidates, 1)
	assert.Equal(t, "foo", ansi.Strip(v.Candidates[0]))
	assert.NotEqual(t, "foo", v.Candidates[0], "matches are emphasised")
}

func TestRun_InputEnds(t *testing.T) {
	c := newList(t, "", "a", "b")

	term := newFakeTerminal()
	_, err := c.Run(context.Background(), term.open)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, term.closed)

	c = newList(t, "", "a", "b")
	term = newFakeTerminal()
	term.err = errors.New("device gone")
	_, err = c.Run(context.Background(), term.open)
	assert.ErrorContains(t, err, "device gone")
}

func TestRun_ContextCancelled(t *testing.T) {
	c := newList(t, "", "a", "b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	term := &fakeTerminal{keys: make(chan tea.KeyMsg)}
	_, err := c.Run(ctx, term.open)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, term.closed)
}

func TestRun_OpenError(t *testing.T) {
	c := newList(t, "", "a", "b")

	_, err := c.Run(context.Background(), func() (Terminal, error) {
		return nil, dropdown.ErrCursorTimeout
	})
	assert.ErrorIs(t, err, dropdown.ErrCursorTimeout)
	assert.Equal(t, StateInitializing, c.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "looping", StateLooping.String())
	assert.Equal(t, "cancelled", StateCancelled.String())
}

type fakeCompleter struct {
	label     string
	results   []string
	completes int
	toggles   int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string) *ring.Buffer[match.Result] {
	f.completes++
	results := make([]match.Result, len(f.results))
	for i, r := range f.results {
		results[i] = match.Result{Annotated: r, Original: r}
	}
	return ring.From(results)
}

func (f *fakeCompleter) Label() string { return f.label }

func (f *fakeCompleter) ToggleMode() {
	f.toggles++
	f.label = "recursive"
}
