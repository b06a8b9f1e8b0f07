package completer

import (
	"context"
	"errors"
	"fmt"

	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

// Mode selects the strategy of a Mixed completer.
type Mode int

const (
	// ModeAuto uses Git inside a repository and Recursive elsewhere.
	ModeAuto Mode = iota
	ModeGit
	ModeRecursive
)

func (m Mode) String() string {
	switch m {
	case ModeGit:
		return "git"
	case ModeRecursive:
		return "recursive"
	default:
		return "auto"
	}
}

// ParseMode parses "git", "recursive" or "auto".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto", "":
		return ModeAuto, nil
	case "git":
		return ModeGit, nil
	case "recursive":
		return ModeRecursive, nil
	}
	return ModeAuto, fmt.Errorf("unknown completion mode %q (want git, recursive or auto)", s)
}

// next cycles recursive -> git -> auto -> recursive.
func (m Mode) next() Mode {
	switch m {
	case ModeRecursive:
		return ModeGit
	case ModeGit:
		return ModeAuto
	default:
		return ModeRecursive
	}
}

// Mixed dispatches to a Git or Recursive completer per query.
type Mixed struct {
	mode      Mode
	effective string
	loc       locator
	roots     *rootResolver
	git       *Git
	recursive *Recursive
}

// NewMixed creates a Mixed completer starting in mode.
func NewMixed(mode Mode, opts Options) *Mixed {
	opts = opts.withDefaults()
	roots := newRootResolver()
	return &Mixed{
		mode:      mode,
		effective: mode.String(),
		loc:       locator{dir: opts.Dir, home: opts.Home},
		roots:     roots,
		git:       newGit(opts, roots),
		recursive: newRecursive(opts, roots),
	}
}

// Mode returns the configured mode.
func (m *Mixed) Mode() Mode { return m.mode }

func (m *Mixed) Complete(ctx context.Context, query string) *ring.Buffer[match.Result] {
	if m.mode == ModeRecursive {
		m.effective = m.recursive.Label()
		return m.recursive.Complete(ctx, query)
	}

	loc := m.loc.locate(query)
	root, err := m.roots.resolve(ctx, loc.root)
	if err == nil {
		m.effective = m.git.Label()
		return m.git.completeAt(ctx, query, loc, root)
	}

	if m.mode == ModeGit || !errors.Is(err, ErrNoRepository) {
		m.effective = m.git.Label()
		return ring.New[match.Result]()
	}
	m.effective = m.recursive.Label()
	return m.recursive.Complete(ctx, query)
}

// Label reports the strategy used by the last Complete call.
func (m *Mixed) Label() string { return m.effective }

func (m *Mixed) ToggleMode() {
	m.mode = m.mode.next()
	m.effective = m.mode.String()
}
