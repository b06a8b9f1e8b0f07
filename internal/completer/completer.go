// Package completer produces ranked completion candidates for a query.
//
// Filesystem-backed completers enumerate a root directory once, cache the
// relative paths for the lifetime of the completer, and score the cached
// paths against every new query. Directory candidates end in "/".
package completer

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultRecursiveDepth = 1
	DefaultRepoDepth      = 3
	DefaultGitDepth       = 32
	DefaultWorkers        = 8
)

// Completer proposes candidates for the text typed so far.
type Completer interface {
	// Complete returns the ranked candidates for query. The returned
	// buffer is owned by the caller.
	Complete(ctx context.Context, query string) *ring.Buffer[match.Result]

	// Label names the strategy currently in effect.
	Label() string

	// ToggleMode switches strategy. Completers with a single strategy
	// ignore it.
	ToggleMode()
}

// Options configures the filesystem completers.
type Options struct {
	Matcher *match.Matcher

	// Limit bounds the number of returned candidates. Zero is unbounded.
	Limit int

	// RecursiveDepth bounds the recursive walk. RepoDepth replaces it when
	// the walked root is inside a git repository.
	RecursiveDepth int
	RepoDepth      int

	// GitDepth bounds the repository walk; Workers sizes its pool.
	GitDepth int
	Workers  int

	// Dir is the directory relative queries resolve against. Defaults to
	// the process working directory.
	Dir string

	// Home replaces a leading "~/". Defaults to the user's home directory.
	Home string

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Matcher == nil {
		o.Matcher = match.New()
	}
	if o.RecursiveDepth <= 0 {
		o.RecursiveDepth = DefaultRecursiveDepth
	}
	if o.RepoDepth <= 0 {
		o.RepoDepth = DefaultRepoDepth
	}
	if o.GitDepth <= 0 {
		o.GitDepth = DefaultGitDepth
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Dir == "" {
		o.Dir, _ = os.Getwd()
	}
	o.Dir = canonicalizePath(o.Dir)
	if o.Home == "" {
		o.Home, _ = os.UserHomeDir()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// IsDir reports whether a candidate names a directory.
func IsDir(candidate string) bool {
	if strings.HasSuffix(candidate, "/") {
		return true
	}
	info, err := os.Stat(ExpandUser(candidate))
	return err == nil && info.IsDir()
}

// base holds what every completer needs to turn paths into results.
type base struct {
	matcher *match.Matcher
	limit   int
	logger  *slog.Logger
}

func newBase(opts Options) base {
	return base{matcher: opts.Matcher, limit: opts.Limit, logger: opts.Logger}
}

// rank scores prefix+path for every path and keeps the best limit results.
func (b base) rank(query, prefix string, paths []string) *ring.Buffer[match.Result] {
	candidates := paths
	if prefix != "" {
		candidates = make([]string, len(paths))
		for i, p := range paths {
			candidates[i] = prefix + p
		}
	}

	results := b.matcher.Rank(query, candidates)
	if b.limit > 0 && len(results) > b.limit {
		results = results[:b.limit]
	}
	return ring.From(results)
}
