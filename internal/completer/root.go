package completer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoRepository is returned when a directory is not inside a git work tree.
var ErrNoRepository = errors.New("not a git repository")

// ExpandUser replaces a leading "~/" with the user's home directory.
func ExpandUser(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return expandUser(path, home)
}

func expandUser(path, home string) string {
	if home == "" || !strings.HasPrefix(path, "~/") {
		return path
	}
	return filepath.Join(home, path[2:])
}

// SearchRoot returns the directory a query completes in: the query itself
// when it names a directory, else its parent when that is a directory,
// else the working directory.
func SearchRoot(query string) string {
	dir, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	return locator{dir: canonicalizePath(dir), home: home}.locate(query).root
}

// GitRoot returns the top level of the work tree containing dir.
func GitRoot(ctx context.Context, dir string) (string, error) {
	out, err := runGitCommand(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%s: %w", dir, ErrNoRepository)
	}
	if out == "" {
		return "", fmt.Errorf("%s: %w", dir, ErrNoRepository)
	}
	return canonicalizePath(out), nil
}

// runGitCommand runs a git command in the specified directory.
func runGitCommand(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //nolint:gosec // git args are controlled by caller
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// canonicalizePath returns the absolute physical path, or the cleaned
// path when it cannot be resolved.
func canonicalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return canonical
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// location is where a query's candidates come from.
type location struct {
	root    string // canonical directory that is enumerated and cached
	display string // the same directory as the user wrote it, "." for none
}

// prefix is prepended to root-relative paths so candidates read like the
// query that produced them.
func (l location) prefix() string {
	if l.display == "." {
		return ""
	}
	return withSlash(filepath.ToSlash(l.display))
}

func withSlash(dir string) string {
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// locator resolves queries against a working directory.
type locator struct {
	dir  string // canonical
	home string
}

func (l locator) locate(query string) location {
	p := filepath.Clean(expandUser(query, l.home))
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(l.dir, abs)
	}

	if isDir(abs) {
		return location{root: canonicalizePath(abs), display: p}
	}
	if parent := filepath.Dir(abs); isDir(parent) {
		return location{root: canonicalizePath(parent), display: filepath.Dir(p)}
	}
	return location{root: l.dir, display: "."}
}

// prefixFor returns the prefix for candidates enumerated under dir, which
// may differ from the location's own root.
func (l locator) prefixFor(loc location, dir string) string {
	if dir == loc.root {
		return loc.prefix()
	}
	if filepath.IsAbs(loc.display) {
		return withSlash(filepath.ToSlash(dir))
	}
	rel, err := filepath.Rel(l.dir, dir)
	if err != nil {
		return withSlash(filepath.ToSlash(dir))
	}
	if rel == "." {
		return ""
	}
	return withSlash(filepath.ToSlash(rel))
}

type rootResult struct {
	root string
	err  error
}

// rootResolver memoizes GitRoot per directory.
// It's safe for concurrent use.
type rootResolver struct {
	mu    sync.Mutex
	roots map[string]rootResult
}

func newRootResolver() *rootResolver {
	return &rootResolver{roots: make(map[string]rootResult)}
}

func (r *rootResolver) resolve(ctx context.Context, dir string) (string, error) {
	r.mu.Lock()
	res, ok := r.roots[dir]
	r.mu.Unlock()
	if ok {
		return res.root, res.err
	}

	root, err := GitRoot(ctx, dir)
	if err != nil && !errors.Is(err, ErrNoRepository) {
		return "", err
	}

	r.mu.Lock()
	r.roots[dir] = rootResult{root: root, err: err}
	r.mu.Unlock()
	return root, err
}
