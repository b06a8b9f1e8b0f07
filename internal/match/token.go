package match

import "unicode"

// Span is a half-open byte range [Start, End) of a token within a string.
type Span struct {
	Start int
	End   int
}

type runeClass int

const (
	classSpace runeClass = iota
	classWord
	classPunct
)

func classify(r rune) runeClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	default:
		return classPunct
	}
}

// Tokenize splits s into runs of word runes and runs of punctuation.
// Whitespace separates tokens and never belongs to one.
//
//	Tokenize("src/foo.go") // "src" "/" "foo" "." "go"
func Tokenize(s string) []Span {
	var spans []Span
	start, prev := -1, classSpace
	for i, r := range s {
		class := classify(r)
		if class != prev {
			if start >= 0 {
				spans = append(spans, Span{Start: start, End: i})
				start = -1
			}
			if class != classSpace {
				start = i
			}
			prev = class
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(s)})
	}
	return spans
}
