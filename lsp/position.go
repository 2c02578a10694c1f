package lsp

import (
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/reshape/source"
)

const maxUInteger = ^protocol.UInteger(0)

func toUInteger(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUInteger
	}
	return protocol.UInteger(v)
}

// offsetForPosition maps an LSP position, counted in UTF-16 code units, to a byte offset.
// Positions past the end of a line clamp to the line end.
func offsetForPosition(text string, pos protocol.Position) int {
	line := 0
	i := 0
	for i < len(text) && protocol.UInteger(line) < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if protocol.UInteger(line) < pos.Line {
		return len(text)
	}
	var units protocol.UInteger
	for i < len(text) && units < pos.Character {
		if text[i] == '\n' {
			break
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		need := protocol.UInteger(1)
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}

func positionForOffset(text string, offset int) protocol.Position {
	if offset > len(text) {
		offset = len(text)
	}
	line, col := 0, 0
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\n':
			line++
			col = 0
		case r > 0xFFFF:
			col += 2
		default:
			col++
		}
		i += size
	}
	return protocol.Position{Line: toUInteger(line), Character: toUInteger(col)}
}

func rangeForSpan(text string, span source.Span) protocol.Range {
	return protocol.Range{
		Start: positionForOffset(text, span.Start),
		End:   positionForOffset(text, span.End),
	}
}
