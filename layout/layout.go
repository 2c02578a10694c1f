// Package layout switches bracketed argument lists between single-line and one-item-per-line form.
//
// The rewrites emit the minimum number of line breaks; indentation is left to whatever formatter
// runs after the edit.
package layout

import (
	"fmt"
	"strings"
)

// Mode selects how a single-line span is expanded.
type Mode int

const (
	// Split breaks after every comma at depth 0 of the span; the delimiters stay where they are.
	Split Mode = iota
	// Wrap breaks after the outer opener, after every comma at depth 1 and before the outer closer.
	Wrap
)

func (m Mode) String() string {
	switch m {
	case Split:
		return "split"
	case Wrap:
		return "wrap"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "split":
		return Split, nil
	case "wrap":
		return Wrap, nil
	default:
		return Split, fmt.Errorf("unknown layout mode %q (expected split or wrap)", s)
	}
}

// IsMultiline reports whether text already spans several lines, which selects collapsing.
func IsMultiline(text string) bool {
	return strings.ContainsAny(text, "\n\r")
}

// Toggle collapses a multi-line text and expands a single-line one using mode.
// Wrap expects text to include its own delimiters.
func Toggle(text string, mode Mode) string {
	if IsMultiline(text) {
		return Collapse(text)
	}
	if mode == Wrap {
		return WrapItems(text)
	}
	return SplitCommas(text)
}

// Collapse trims every line and joins the non-blank ones with single spaces.
// Comments are not recognised: a line comment collapses inline with what follows it.
func Collapse(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// SplitCommas puts a line break after every comma that is not nested inside (), [] or {}.
func SplitCommas(text string) string {
	var w writer
	depth := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case isOpen(c):
			depth++
		case isClose(c):
			depth--
		case c == ',' && depth == 0:
			w.put(c)
			w.lineBreak()
			continue
		}
		w.put(c)
	}
	return w.String()
}

// WrapItems puts the items of the outermost bracket pair on their own lines, with the delimiters
// on lines of their own. Nested brackets stay on the line of the item that contains them.
func WrapItems(text string) string {
	var w writer
	depth := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case isOpen(c):
			depth++
			w.put(c)
			if depth == 1 {
				w.lineBreak()
				w.opened = true
			}
			continue
		case isClose(c):
			depth--
			if depth == 0 {
				w.breakBeforeClose()
			}
		case c == ',' && depth == 1:
			w.put(c)
			w.lineBreak()
			continue
		}
		w.put(c)
	}
	return w.String()
}

func isOpen(c byte) bool {
	return c == '(' || c == '[' || c == '{'
}

func isClose(c byte) bool {
	return c == ')' || c == ']' || c == '}'
}

// writer drops horizontal whitespace around the line breaks it inserts.
type writer struct {
	buf      []byte
	skipping bool
	opened   bool
}

func (w *writer) put(c byte) {
	if w.skipping && (c == ' ' || c == '\t') {
		return
	}
	w.skipping = false
	w.opened = false
	w.buf = append(w.buf, c)
}

func (w *writer) lineBreak() {
	w.trimRight()
	w.buf = append(w.buf, '\n')
	w.skipping = true
}

// breakBeforeClose moves a closer onto its own line; right after an opener it undoes the
// opener's break instead, so "()" stays "()".
func (w *writer) breakBeforeClose() {
	if w.opened {
		w.buf = w.buf[:len(w.buf)-1]
		w.opened = false
		w.skipping = false
		return
	}
	w.trimRight()
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] == '\n' {
		return
	}
	w.buf = append(w.buf, '\n')
}

func (w *writer) trimRight() {
	for len(w.buf) > 0 && (w.buf[len(w.buf)-1] == ' ' || w.buf[len(w.buf)-1] == '\t') {
		w.buf = w.buf[:len(w.buf)-1]
	}
}

func (w *writer) String() string {
	return string(w.buf)
}
