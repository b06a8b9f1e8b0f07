package completer

import (
	"context"

	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

// List completes from a fixed set of choices. It never touches the
// filesystem.
type List struct {
	base
	choices []string
}

// NewList creates a List over choices.
func NewList(choices []string, opts Options) *List {
	return &List{base: newBase(opts.withDefaults()), choices: choices}
}

func (l *List) Complete(_ context.Context, query string) *ring.Buffer[match.Result] {
	return l.rank(query, "", l.choices)
}

func (l *List) Label() string { return "list" }

func (l *List) ToggleMode() {}
