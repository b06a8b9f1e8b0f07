package completer

import (
	"context"
	"errors"

	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

// Git completes from every entry of the repository containing the query's
// search root, honouring .gitignore files and .git/info/exclude. Outside a
// repository the search root itself is walked the same way.
type Git struct {
	base
	opts  Options
	loc   locator
	cache *Cache
	roots *rootResolver
}

// NewGit creates a Git completer.
func NewGit(opts Options) *Git {
	return newGit(opts.withDefaults(), newRootResolver())
}

func newGit(opts Options, roots *rootResolver) *Git {
	return &Git{
		base:  newBase(opts),
		opts:  opts,
		loc:   locator{dir: opts.Dir, home: opts.Home},
		cache: NewCache(),
		roots: roots,
	}
}

func (g *Git) Complete(ctx context.Context, query string) *ring.Buffer[match.Result] {
	loc := g.loc.locate(query)
	root, err := g.roots.resolve(ctx, loc.root)
	switch {
	case errors.Is(err, ErrNoRepository):
		root = loc.root
	case err != nil:
		return ring.New[match.Result]()
	}
	return g.completeAt(ctx, query, loc, root)
}

func (g *Git) completeAt(ctx context.Context, query string, loc location, root string) *ring.Buffer[match.Result] {
	walker := repoWalker{root: root, depth: g.opts.GitDepth, workers: g.opts.Workers, logger: g.logger}
	paths, err := g.cache.GetOrScan(root, func() ([]string, error) {
		return walker.walk(ctx)
	})
	if err != nil {
		g.logger.Debug("repository scan failed", "root", root, "error", err)
		return ring.New[match.Result]()
	}
	return g.rank(query, g.loc.prefixFor(loc, root), paths)
}

func (g *Git) Label() string { return "git" }

func (g *Git) ToggleMode() {}
