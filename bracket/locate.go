// Package bracket finds the innermost bracket pair enclosing a cursor in raw source text.
//
// Matching is purely textual: there is no tokenizer, so delimiters inside string literals and
// comments are counted like any other.
package bracket

import "github.com/dhamidi/reshape/source"

// Pair is an opening and closing delimiter.
type Pair struct {
	Open  byte
	Close byte
}

var (
	Parens  = Pair{Open: '(', Close: ')'}
	Squares = Pair{Open: '[', Close: ']'}
	Braces  = Pair{Open: '{', Close: '}'}
)

// DefaultPairs is the active matching set. Braces are recognised by the layout rules but are not
// matched unless a Locator is built WithBraces.
var DefaultPairs = []Pair{Parens, Squares}

// Scope is a located bracket pair: Open and Close are the byte offsets of the delimiters.
type Scope struct {
	Open  int
	Close int
}

// Content is the span between the delimiters, both excluded.
func (s Scope) Content() source.Span {
	return source.Span{Start: s.Open + 1, End: s.Close}
}

// Delimited is the span including both delimiters.
func (s Scope) Delimited() source.Span {
	return source.Span{Start: s.Open, End: s.Close + 1}
}

type Locator struct {
	Pairs []Pair
}

type Option func(*Locator)

// WithBraces adds {} to the active matching set.
func WithBraces() Option {
	return func(l *Locator) {
		for _, p := range l.Pairs {
			if p == Braces {
				return
			}
		}
		l.Pairs = append(l.Pairs, Braces)
	}
}

func NewLocator(opts ...Option) *Locator {
	l := &Locator{Pairs: append([]Pair(nil), DefaultPairs...)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate finds the innermost scope of the default pairs that encloses cursor.
func Locate(text string, cursor int) (Scope, bool) {
	return NewLocator().Locate(text, cursor)
}

// Locate scans backward from cursor for an opening delimiter that is not balanced by a closer
// seen on the way, then forward from that opener for its matching closer. A closer sitting
// exactly at cursor is not counted, so a cursor placed right before ")" stays inside the pair.
// A cursor at the end of the text is treated as sitting on the last character.
func (l *Locator) Locate(text string, cursor int) (Scope, bool) {
	if cursor < 0 || len(text) == 0 {
		return Scope{}, false
	}
	if cursor >= len(text) {
		cursor = len(text) - 1
	}

	open := -1
	depth := 0
	for i := cursor; i >= 0; i-- {
		c := text[i]
		if l.isOpen(c) {
			if depth == 0 {
				open = i
				break
			}
			depth--
		} else if l.isClose(c) && i != cursor {
			depth++
		}
	}
	if open < 0 {
		return Scope{}, false
	}

	pair, _ := l.pairFor(text[open])
	depth = 0
	for i := open + 1; i < len(text); i++ {
		switch text[i] {
		case pair.Close:
			if depth == 0 {
				return Scope{Open: open, Close: i}, true
			}
			depth--
		case pair.Open:
			depth++
		}
	}
	return Scope{}, false
}

func (l *Locator) pairFor(open byte) (Pair, bool) {
	for _, p := range l.Pairs {
		if p.Open == open {
			return p, true
		}
	}
	return Pair{}, false
}

func (l *Locator) isOpen(c byte) bool {
	_, ok := l.pairFor(c)
	return ok
}

func (l *Locator) isClose(c byte) bool {
	for _, p := range l.Pairs {
		if p.Close == c {
			return true
		}
	}
	return false
}
