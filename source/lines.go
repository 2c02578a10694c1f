package source

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Lines holds a text split into lines together with the line ending it used.
type Lines struct {
	Lines []string
	EOL   string
}

// SplitLines splits text on its line ending. A text that contains any "\r\n" is treated as a
// CRLF text; otherwise lines are split on "\n". A trailing line ending yields a final empty line
// so that Join restores the text exactly.
func SplitLines(text string) Lines {
	eol := "\n"
	if strings.Contains(text, "\r\n") {
		eol = "\r\n"
	}
	return Lines{Lines: strings.Split(text, eol), EOL: eol}
}

func (l Lines) Join() string {
	return strings.Join(l.Lines, l.EOL)
}

// IsBlank reports whether line holds only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// Offset converts a 1-based line and column to a byte offset. Columns count characters, and a
// column past the end of its line clamps to the line end.
func Offset(text string, line, column int) (int, error) {
	if line < 1 || column < 1 {
		return 0, fmt.Errorf("line and column start at 1, got %d:%d", line, column)
	}
	start := 0
	for l := 1; l < line; l++ {
		i := strings.IndexByte(text[start:], '\n')
		if i < 0 {
			return 0, fmt.Errorf("line %d is past the end of the text", line)
		}
		start += i + 1
	}
	end := len(text)
	if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
		end = start + i
	}
	off := start
	for c := 1; c < column && off < end; c++ {
		_, size := utf8.DecodeRuneInString(text[off:end])
		off += size
	}
	return off, nil
}
