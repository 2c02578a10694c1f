// Package fields reorders the field declarations of a class body into a canonical order.
//
// Lines are classified by their trimmed prefix and suffix only. There is no parser: a
// declaration that spans several lines without being an annotated private field, or two
// declarations on one line, are classified as whatever their text looks like.
package fields

import (
	"fmt"
	"strings"
	"unicode"
)

// Group is a field category. Groups are emitted in declaration order of the constants.
type Group int

const (
	PublicStaticFinal Group = iota
	PrivateStaticFinal
	PrivateFinal
	PrivateOther

	numGroups
)

func (g Group) String() string {
	switch g {
	case PublicStaticFinal:
		return "public static final"
	case PrivateStaticFinal:
		return "private static final"
	case PrivateFinal:
		return "private final"
	case PrivateOther:
		return "private"
	default:
		return fmt.Sprintf("Group(%d)", int(g))
	}
}

// Unit is one logical field: the annotation and comment lines attached to it followed by
// the declaration line. Only PrivateOther units carry more than one line.
type Unit struct {
	// Start is the index of the unit's first line in the classified input.
	Start int
	Lines []string
}

// Groups holds the units of every field category, in original order.
type Groups [numGroups][]Unit

// Len is the number of units across all groups.
func (g *Groups) Len() int {
	n := 0
	for _, units := range g {
		n += len(units)
	}
	return n
}

// LineCount is the number of lines held by all units.
func (g *Groups) LineCount() int {
	n := 0
	for _, units := range g {
		for _, u := range units {
			n += len(u.Lines)
		}
	}
	return n
}

// MalformedBlockError reports a field whose attached lines reach back to the start of the
// buffer. The unit is cut at the buffer start.
type MalformedBlockError struct {
	// Line is the index of the declaration line.
	Line int
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("line %d: leading annotation block of field reaches the start of the buffer", e.Line+1)
}

// Classification is the result of Classify.
type Classification struct {
	Groups Groups
	// Other holds every line not claimed by a unit, in original order.
	Other    []string
	Warnings []error
}

// Classify partitions lines into field groups and the remaining lines. Every input line ends
// up in exactly one unit or in Other.
func Classify(lines []string) *Classification {
	c := &Classification{}
	claimed := make([]bool, len(lines))

	for i, line := range lines {
		g, ok := groupOf(strings.TrimSpace(line))
		if !ok {
			continue
		}
		start := i
		if g == PrivateOther {
			var reachedStart bool
			start, reachedStart = attachedStart(lines, i)
			if reachedStart {
				c.Warnings = append(c.Warnings, &MalformedBlockError{Line: i})
			}
		}
		for j := start; j <= i; j++ {
			claimed[j] = true
		}
		c.Groups[g] = append(c.Groups[g], Unit{Start: start, Lines: lines[start : i+1 : i+1]})
	}

	for i, line := range lines {
		if !claimed[i] {
			c.Other = append(c.Other, line)
		}
	}
	return c
}

func groupOf(trimmed string) (Group, bool) {
	if !strings.HasSuffix(trimmed, ";") {
		return 0, false
	}
	switch {
	case strings.HasPrefix(trimmed, "public static final"):
		return PublicStaticFinal, true
	case strings.HasPrefix(trimmed, "private static final"):
		return PrivateStaticFinal, true
	case strings.HasPrefix(trimmed, "private final"):
		return PrivateFinal, true
	case strings.HasPrefix(trimmed, "private"):
		return PrivateOther, true
	}
	return 0, false
}

// attachedStart walks back from the declaration at index decl over the lines bound to it and
// returns the index of the first one. reachedStart is set when the walk consumed line 0.
func attachedStart(lines []string, decl int) (start int, reachedStart bool) {
	start = decl
	for j := decl - 1; j >= 0; j-- {
		if !isAttached(lines[j]) {
			return start, false
		}
		start = j
	}
	return start, start == 0 && decl > 0
}

func isAttached(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") || strings.HasSuffix(trimmed, "{") {
		return false
	}
	return !hasWord(trimmed, "class")
}

func hasWord(s, word string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$'
	})
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
