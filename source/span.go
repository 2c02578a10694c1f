package source

import "fmt"

// Span is a half-open byte range [Start, End) over one text snapshot.
// A span is only meaningful for the snapshot it was computed from.
type Span struct {
	Start int
	End   int
}

// Valid reports whether s lies inside a text of length n.
func (s Span) Valid(n int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= n
}

func (s Span) Slice(text string) string {
	return text[s.Start:s.End]
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

// Whole returns the span covering all of text.
func Whole(text string) Span {
	return Span{Start: 0, End: len(text)}
}

// Replace returns text with s replaced by repl.
func Replace(text string, s Span, repl string) (string, error) {
	if !s.Valid(len(text)) {
		return "", fmt.Errorf("span %s out of range for text of length %d", s, len(text))
	}
	return text[:s.Start] + repl + text[s.End:], nil
}

// Diff returns the smallest span of old and its replacement that turn old into updated.
// When old and updated are equal the span is empty and repl is "".
func Diff(old, updated string) (s Span, repl string) {
	prefix := 0
	for prefix < len(old) && prefix < len(updated) && old[prefix] == updated[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(updated)-prefix &&
		old[len(old)-1-suffix] == updated[len(updated)-1-suffix] {
		suffix++
	}
	// keep multi-byte runes whole
	for prefix > 0 && !isRuneStart(old, prefix) {
		prefix--
	}
	for suffix > 0 && !isRuneStart(old, len(old)-suffix) {
		suffix--
	}
	return Span{Start: prefix, End: len(old) - suffix}, updated[prefix : len(updated)-suffix]
}

func isRuneStart(text string, i int) bool {
	return i >= len(text) || text[i]&0xC0 != 0x80
}
