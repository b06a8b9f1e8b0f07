package completer

import (
	"context"

	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

// Recursive completes from a shallow walk of the query's search root.
// Ignore files are not consulted.
type Recursive struct {
	base
	opts  Options
	loc   locator
	cache *Cache
	roots *rootResolver
}

// NewRecursive creates a Recursive completer.
func NewRecursive(opts Options) *Recursive {
	return newRecursive(opts.withDefaults(), newRootResolver())
}

func newRecursive(opts Options, roots *rootResolver) *Recursive {
	return &Recursive{
		base:  newBase(opts),
		opts:  opts,
		loc:   locator{dir: opts.Dir, home: opts.Home},
		cache: NewCache(),
		roots: roots,
	}
}

func (r *Recursive) Complete(ctx context.Context, query string) *ring.Buffer[match.Result] {
	loc := r.loc.locate(query)
	paths, err := r.cache.GetOrScan(loc.root, func() ([]string, error) {
		return walkTree(ctx, loc.root, r.depth(ctx, loc.root), r.logger)
	})
	if err != nil {
		r.logger.Debug("recursive scan failed", "root", loc.root, "error", err)
		return ring.New[match.Result]()
	}
	return r.rank(query, loc.prefix(), paths)
}

// depth walks deeper inside repositories, where a shallow listing rarely
// reaches the interesting files.
func (r *Recursive) depth(ctx context.Context, root string) int {
	if r.opts.RepoDepth <= r.opts.RecursiveDepth {
		return r.opts.RecursiveDepth
	}
	if _, err := r.roots.resolve(ctx, root); err != nil {
		return r.opts.RecursiveDepth
	}
	return r.opts.RepoDepth
}

func (r *Recursive) Label() string { return "recursive" }

func (r *Recursive) ToggleMode() {}
