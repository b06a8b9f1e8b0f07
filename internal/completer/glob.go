package completer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

// Glob completes from the paths matching the pattern "<query>*". Results
// depend on the live query, so nothing is cached.
type Glob struct {
	base
	loc locator
}

// NewGlob creates a Glob completer.
func NewGlob(opts Options) *Glob {
	opts = opts.withDefaults()
	return &Glob{base: newBase(opts), loc: locator{dir: opts.Dir, home: opts.Home}}
}

func (g *Glob) Complete(_ context.Context, query string) *ring.Buffer[match.Result] {
	paths, err := g.glob(query)
	if err != nil {
		g.logger.Debug("glob failed", "query", query, "error", err)
		return ring.New[match.Result]()
	}
	if g.limit > 0 && len(paths) > g.limit {
		paths = paths[:g.limit]
	}
	return g.rank(query, "", paths)
}

func (g *Glob) glob(query string) ([]string, error) {
	pattern := strings.TrimPrefix(expandUser(query, g.loc.home), "./") + "*"

	if filepath.IsAbs(pattern) {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		for i, m := range matches {
			if isDir(m) {
				matches[i] = withSlash(filepath.ToSlash(m))
			}
		}
		return matches, nil
	}

	fsys := os.DirFS(g.loc.dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		if info, err := fs.Stat(fsys, m); err == nil && info.IsDir() {
			matches[i] = m + "/"
		}
	}
	return matches, nil
}

func (g *Glob) Label() string { return "glob" }

func (g *Glob) ToggleMode() {}
