package completer

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignorePattern is one gitignore line.
type ignorePattern struct {
	glob     string
	negation bool // starts with !
	dirOnly  bool // ends with /
	anchored bool // contains a / other than a trailing one
}

func parseIgnorePattern(line string) (ignorePattern, bool) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return ignorePattern{}, false
	}

	var p ignorePattern
	if strings.HasPrefix(line, "!") {
		p.negation = true
		line = line[1:]
	} else if strings.HasPrefix(line, `\`) {
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.Contains(line, "/") {
		p.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" || !doublestar.ValidatePattern(line) {
		return ignorePattern{}, false
	}
	p.glob = line
	return p, true
}

// match reports whether rel, relative to the directory holding the
// pattern, is matched.
func (p ignorePattern) match(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	if p.anchored {
		ok, _ := doublestar.Match(p.glob, rel)
		return ok
	}
	ok, _ := doublestar.Match(p.glob, path.Base(rel))
	return ok
}

// ignoreRules is the chain of ignore files in effect for a directory.
// Deeper files take precedence; within a file the last match wins.
type ignoreRules struct {
	parent   *ignoreRules
	base     string // slash-separated directory relative to the walk root
	patterns []ignorePattern
}

// child returns the rules for base after adding the patterns in lines.
// When lines hold no patterns the receiver is returned unchanged.
func (r *ignoreRules) child(base string, lines []string) *ignoreRules {
	var patterns []ignorePattern
	for _, line := range lines {
		if p, ok := parseIgnorePattern(line); ok {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return r
	}
	return &ignoreRules{parent: r, base: base, patterns: patterns}
}

// ignored reports whether rel, relative to the walk root, is excluded.
func (r *ignoreRules) ignored(rel string, isDir bool) bool {
	for level := r; level != nil; level = level.parent {
		sub := rel
		if level.base != "" {
			if !strings.HasPrefix(rel, level.base+"/") {
				continue
			}
			sub = rel[len(level.base)+1:]
		}

		decided, ignored := false, false
		for _, p := range level.patterns {
			if p.match(sub, isDir) {
				decided, ignored = true, !p.negation
			}
		}
		if decided {
			return ignored
		}
	}
	return false
}

// readIgnoreFile returns the lines of an ignore file, or nil when it
// cannot be read.
func readIgnoreFile(name string) []string {
	f, err := os.Open(name)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// repoIgnoreRules returns the rules that apply before any .gitignore is
// read: the repository's info/exclude file.
func repoIgnoreRules(root string) *ignoreRules {
	var empty *ignoreRules
	return empty.child("", readIgnoreFile(filepath.Join(root, ".git", "info", "exclude")))
}
