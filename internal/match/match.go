// Package match scores a query against completion candidates.
//
// A query matches a candidate when its runes appear, case-insensitively and
// in order, somewhere in the candidate. Matches that continue a contiguous
// run score far more than scattered ones, and the total is normalised by the
// candidate's length and by how late the first match occurs. Every token
// boundary of the candidate is also tried as an anchor, so a query lines up
// with path and word components ("foo" against "bar/foo/baz").
package match

import (
	"cmp"
	"math"
	"os"
	"runtime"
	"slices"
	"strings"
	"unicode"

	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
)

// Scoring weights.
const (
	runBonus   = 10.0 // match directly continuing a run
	matchBonus = 1.0  // first match after a gap
)

// parallelThreshold is the candidate count below which Rank scores inline.
const parallelThreshold = 512

// Result is a scored candidate. Weights are only comparable within the
// results of a single query.
type Result struct {
	Weight    float64
	Annotated string // candidate with matched runes emphasised
	Original  string // candidate as given
}

// Text returns the candidate for display or acceptance, without markup.
func (r Result) Text() string {
	return strings.TrimPrefix(r.Original, "./")
}

// Matcher scores queries against candidates. The zero value matches without
// home expansion and with plain emphasis; use New for the usual setup.
type Matcher struct {
	// Home replaces a leading "~/" in queries. Empty disables expansion.
	Home string

	// Emphasize wraps a matched rune for display. Nil leaves it unchanged.
	Emphasize func(string) string

	// Workers bounds the goroutines Rank uses. Zero means GOMAXPROCS.
	Workers int
}

// New returns a Matcher that expands "~/" to the user's home directory and
// emphasises matches with terminal styling.
func New() *Matcher {
	home, _ := os.UserHomeDir()
	return &Matcher{
		Home:      home,
		Emphasize: Emphasize,
	}
}

// Emphasize renders s green, bold and underlined.
func Emphasize(s string) string {
	return termenv.String(s).Foreground(termenv.ANSIGreen).Bold().Underline().String()
}

// Match scores candidate against query. ok is false when the query is not
// an ordered subsequence of the candidate.
func (m *Matcher) Match(query, candidate string) (Result, bool) {
	return m.match(m.prepare(query), candidate)
}

// Rank scores every candidate against query, drops the ones that do not
// match, and orders the rest by weight, highest first. Ties keep the
// candidates' original order.
func (m *Matcher) Rank(query string, candidates []string) []Result {
	q := m.prepare(query)
	scored := make([]Result, len(candidates))
	matched := make([]bool, len(candidates))

	score := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			scored[i], matched[i] = m.match(q, candidates[i])
		}
	}

	if len(candidates) < parallelThreshold {
		score(0, len(candidates))
	} else {
		workers := m.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		chunk := (len(candidates) + workers - 1) / workers

		var g errgroup.Group
		for lo := 0; lo < len(candidates); lo += chunk {
			hi := min(lo+chunk, len(candidates))
			g.Go(func() error {
				score(lo, hi)
				return nil
			})
		}
		_ = g.Wait() // scoring never fails
	}

	results := make([]Result, 0, len(candidates))
	for i, ok := range matched {
		if ok {
			results = append(results, scored[i])
		}
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return results
}

// prepare expands the query and folds it for comparison.
func (m *Matcher) prepare(query string) []rune {
	if m.Home != "" && strings.HasPrefix(query, "~/") {
		query = strings.TrimSuffix(m.Home, "/") + query[1:]
	}
	query = strings.TrimPrefix(query, "./")

	q := []rune(query)
	for i, r := range q {
		q[i] = unicode.ToLower(r)
	}
	return q
}

func (m *Matcher) match(q []rune, candidate string) (Result, bool) {
	best, ok := m.weigh(q, candidate)
	if !ok {
		return Result{}, false
	}

	for _, tok := range Tokenize(candidate) {
		if tok.Start == 0 {
			continue
		}
		anchored, ok := m.weigh(q, candidate[tok.Start:])
		if ok && anchored.Weight > best.Weight {
			best.Weight = anchored.Weight
			best.Annotated = candidate[:tok.Start] + anchored.Annotated
		}
	}

	best.Original = candidate
	best.Annotated = strings.TrimPrefix(best.Annotated, "./")
	return best, true
}

// weigh runs the subsequence scan over s.
func (m *Matcher) weigh(q []rune, s string) (Result, bool) {
	var b strings.Builder
	b.Grow(len(s))

	var (
		weight float64
		qi     int
		n      int
		first  = -1
		run    = true
	)
	for _, c := range s {
		if qi < len(q) && unicode.ToLower(c) == q[qi] {
			if m.Emphasize != nil {
				b.WriteString(m.Emphasize(string(c)))
			} else {
				b.WriteRune(c)
			}
			if run {
				weight += runBonus
			} else {
				weight += matchBonus
			}
			if first < 0 {
				first = n
			}
			qi++
			run = true
		} else {
			b.WriteRune(c)
			run = false
		}
		n++
	}
	if qi < len(q) {
		return Result{}, false
	}

	firstPos := 1.0
	if first >= 0 {
		firstPos = float64(first + 1)
	}
	weight /= math.Sqrt(float64(max(n, 1))) * firstPos

	return Result{Weight: weight, Annotated: b.String(), Original: s}, true
}
