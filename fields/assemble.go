package fields

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dhamidi/reshape/source"
)

var (
	// ErrNoClassBody is returned when no line opens a class body with "{".
	ErrNoClassBody = errors.New("no class body found")
	// ErrTruncatedClassBody is returned when the class body ends right after its opening brace.
	ErrTruncatedClassBody = fmt.Errorf("%w: nothing follows the opening brace", ErrNoClassBody)
)

// Assemble places the field units right after the first line of other that ends with "{",
// group by group, each group sorted by Key. Blank lines separate the fields from the lines
// before and after them; existing blank separators are reused.
func Assemble(other []string, groups *Groups) ([]string, error) {
	brace := bodyStart(other)
	if brace < 0 {
		return nil, ErrNoClassBody
	}
	next := brace + 1
	if next >= len(other) {
		return nil, ErrTruncatedClassBody
	}

	out := make([]string, 0, len(other)+groups.LineCount()+2)
	out = append(out, other[:next]...)
	if source.IsBlank(other[next]) {
		out = append(out, other[next])
		next++
	} else {
		out = append(out, "")
	}

	for g := PublicStaticFinal; g < numGroups; g++ {
		for _, u := range sortedUnits(g, groups[g]) {
			out = append(out, u.Lines...)
		}
	}

	if next >= len(other) {
		return nil, ErrTruncatedClassBody
	}
	if !source.IsBlank(other[next]) {
		out = append(out, "")
	}
	return append(out, other[next:]...), nil
}

func bodyStart(lines []string) int {
	for i, line := range lines {
		if strings.HasSuffix(strings.TrimSpace(line), "{") {
			return i
		}
	}
	return -1
}

func sortedUnits(g Group, units []Unit) []Unit {
	sorted := slices.Clone(units)
	slices.SortStableFunc(sorted, func(a, b Unit) int {
		return Key(g, a) - Key(g, b)
	})
	return sorted
}

// Key is the sort key of a unit within its group: the length of its text, or for PrivateOther
// the length of the text after the first "private" in the unit, so that indentation and
// annotations above the declaration do not count.
func Key(g Group, u Unit) int {
	text := strings.Join(u.Lines, "\n")
	if g != PrivateOther {
		return len(text)
	}
	if i := strings.Index(text, "private"); i >= 0 {
		return len(text) - i - len("private")
	}
	return len(text)
}
