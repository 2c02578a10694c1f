package bracket

import (
	"strings"
	"testing"
)

// cursorAt returns text with the "|" marker removed and the marker's offset.
func cursorAt(t *testing.T, marked string) (string, int) {
	t.Helper()
	i := strings.Index(marked, "|")
	if i < 0 {
		t.Fatalf("no cursor marker in %q", marked)
	}
	return marked[:i] + marked[i+1:], i
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name        string
		marked      string
		wantContent string
		wantFound   bool
	}{
		{"simple call", "foo(a, |b)", "a, b", true},
		{"innermost nested", "f(a, g(|x, y), b)", "x, y", true},
		{"after nested closes", "f(a, g(x, y), |b)", "a, g(x, y), b", true},
		{"cursor right before closer", "f(a, b|)", "a, b", true},
		{"cursor on opener", "f|(a, b)", "a, b", true},
		{"square brackets", "int[] xs = new int[|3];", "3", true},
		{"mixed pairs", "m(a[|1], b)", "1", true},
		{"mixed outer", "m(a[1], |b)", "a[1], b", true},
		{"braces ignored by default", "f(new int[]{1, |2})", "new int[]{1, 2}", true},
		{"no enclosing bracket", "int x = |1;", "", false},
		{"cursor after closing", "f(a)|;", "", false},
		{"unmatched opener", "f(a, |b", "", false},
		{"opener at start", "(a|, b)", "a, b", true},
		{"multiline", "call(\n  a,\n  |b\n)", "\n  a,\n  b\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, cursor := cursorAt(t, tt.marked)
			scope, ok := Locate(text, cursor)
			if ok != tt.wantFound {
				t.Fatalf("Locate(%q, %d) found = %v, want %v", text, cursor, ok, tt.wantFound)
			}
			if !ok {
				return
			}
			if got := scope.Content().Slice(text); got != tt.wantContent {
				t.Errorf("Content() = %q, want %q", got, tt.wantContent)
			}
			delimited := scope.Delimited().Slice(text)
			if delimited != string(text[scope.Open])+tt.wantContent+string(text[scope.Close]) {
				t.Errorf("Delimited() = %q does not wrap content %q", delimited, tt.wantContent)
			}
		})
	}
}

func TestLocateBounds(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		if _, ok := Locate("", 0); ok {
			t.Error("expected no scope in empty text")
		}
	})

	t.Run("negative cursor", func(t *testing.T) {
		if _, ok := Locate("(a)", -1); ok {
			t.Error("expected no scope for negative cursor")
		}
	})

	t.Run("cursor at end of text", func(t *testing.T) {
		scope, ok := Locate("f(a, b)", 7)
		if !ok {
			t.Fatal("expected the closing paren at end of text to be excluded")
		}
		if scope.Open != 1 || scope.Close != 6 {
			t.Errorf("scope = %+v, want {Open:1 Close:6}", scope)
		}
	})
}

func TestLocateWithBraces(t *testing.T) {
	text, cursor := cursorAt(t, "f(new int[]{1, |2})")
	scope, ok := NewLocator(WithBraces()).Locate(text, cursor)
	if !ok {
		t.Fatal("expected a scope")
	}
	if got := scope.Content().Slice(text); got != "1, 2" {
		t.Errorf("Content() = %q, want %q", got, "1, 2")
	}

	l := NewLocator(WithBraces(), WithBraces())
	if len(l.Pairs) != 3 {
		t.Errorf("WithBraces twice gave %d pairs, want 3", len(l.Pairs))
	}
}

func TestLocateBalancedContent(t *testing.T) {
	inputs := []string{
		"a(b[c(d, e)], f[g]) + h(i)",
		"((()))[[]]",
		"x = list.get(map[key(1)](2), arr[0][1]);",
	}
	for _, text := range inputs {
		for cursor := 0; cursor <= len(text); cursor++ {
			scope, ok := Locate(text, cursor)
			if !ok {
				continue
			}
			pair, _ := NewLocator().pairFor(text[scope.Open])
			if text[scope.Close] != pair.Close {
				t.Fatalf("Locate(%q, %d) = %+v: delimiters %q %q do not pair", text, cursor, scope, text[scope.Open], text[scope.Close])
			}
			depth := 0
			for _, c := range []byte(scope.Content().Slice(text)) {
				switch c {
				case pair.Open:
					depth++
				case pair.Close:
					depth--
				}
				if depth < 0 {
					t.Fatalf("Locate(%q, %d): content closes before it opens", text, cursor)
				}
			}
			if depth != 0 {
				t.Fatalf("Locate(%q, %d): content is unbalanced", text, cursor)
			}
		}
	}
}
