package fields

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	lines := []string{
		"package demo;",
		"",
		"public class Demo {",
		"    private int count;",
		"    public static final String NAME = \"d\";",
		"    private static final int MAX = 10;",
		"    private final List<String> names;",
		"    @Inject",
		"    @Named(\"x\")",
		"    private Service service;",
		"    protected int hidden;",
		"",
		"    void run() {",
		"    }",
		"}",
	}
	c := Classify(lines)

	wantStarts := map[Group][]int{
		PublicStaticFinal:  {4},
		PrivateStaticFinal: {5},
		PrivateFinal:       {6},
		PrivateOther:       {3, 7},
	}
	for g, starts := range wantStarts {
		var got []int
		for _, u := range c.Groups[g] {
			got = append(got, u.Start)
		}
		if !reflect.DeepEqual(got, starts) {
			t.Errorf("group %q starts = %v, want %v", g, got, starts)
		}
	}

	annotated := c.Groups[PrivateOther][1]
	if len(annotated.Lines) != 3 || annotated.Lines[2] != "    private Service service;" {
		t.Errorf("annotated unit = %q", annotated.Lines)
	}

	wantOther := []string{
		"package demo;",
		"",
		"public class Demo {",
		"    protected int hidden;",
		"",
		"    void run() {",
		"    }",
		"}",
	}
	if !reflect.DeepEqual(c.Other, wantOther) {
		t.Errorf("Other = %q, want %q", c.Other, wantOther)
	}
	if len(c.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", c.Warnings)
	}
}

func TestClassifyKeepsEveryLine(t *testing.T) {
	inputs := [][]string{
		{"class A {", "private int a;", "}"},
		{"@A", "@B", "private int a;", "class X {", "}"},
		{"class A {", "", "/** doc */", "private int a;", "private int b;", "}"},
		{"private int a;"},
		{},
		{"record R(int x) {", "private static int n;", "}"},
	}
	for _, lines := range inputs {
		c := Classify(lines)
		if got := c.Groups.LineCount() + len(c.Other); got != len(lines) {
			t.Errorf("Classify(%q): %d lines accounted for, want %d", lines, got, len(lines))
		}
		seen := make(map[int]bool)
		for _, units := range c.Groups {
			for _, u := range units {
				for i := range u.Lines {
					if seen[u.Start+i] {
						t.Errorf("Classify(%q): line %d claimed twice", lines, u.Start+i)
					}
					seen[u.Start+i] = true
				}
			}
		}
	}
}

func TestClassifyAttachedLines(t *testing.T) {
	t.Run("stops at blank line", func(t *testing.T) {
		c := Classify([]string{"class A {", "@Old", "", "@New", "private int a;", "}"})
		u := c.Groups[PrivateOther][0]
		if u.Start != 3 || len(u.Lines) != 2 {
			t.Errorf("unit = %+v, want start 3 with 2 lines", u)
		}
	})

	t.Run("stops at class line", func(t *testing.T) {
		c := Classify([]string{"public class A", "private int a;"})
		if u := c.Groups[PrivateOther][0]; u.Start != 1 {
			t.Errorf("unit start = %d, want 1", u.Start)
		}
	})

	t.Run("stops at opening brace line", func(t *testing.T) {
		c := Classify([]string{"record R(int x) {", "private static int n;", "}"})
		if u := c.Groups[PrivateOther][0]; u.Start != 1 {
			t.Errorf("unit start = %d, want 1", u.Start)
		}
	})

	t.Run("word class inside annotation name is not a stop", func(t *testing.T) {
		c := Classify([]string{"class A {", "@Subclass", "private int a;", "}"})
		if u := c.Groups[PrivateOther][0]; u.Start != 1 {
			t.Errorf("unit start = %d, want 1", u.Start)
		}
	})

	t.Run("multi-line annotation", func(t *testing.T) {
		c := Classify([]string{
			"class A {",
			"    @Column(",
			"        name = \"x\"",
			"    )",
			"    private int x;",
			"}",
		})
		if u := c.Groups[PrivateOther][0]; u.Start != 1 || len(u.Lines) != 4 {
			t.Errorf("unit = %+v, want the whole annotation", u)
		}
	})

	t.Run("reaching buffer start warns", func(t *testing.T) {
		c := Classify([]string{"@Lonely", "private int a;"})
		u := c.Groups[PrivateOther][0]
		if u.Start != 0 || len(u.Lines) != 2 {
			t.Errorf("unit = %+v, want start 0", u)
		}
		if len(c.Warnings) != 1 {
			t.Fatalf("Warnings = %v, want one", c.Warnings)
		}
		var mbe *MalformedBlockError
		if !errors.As(c.Warnings[0], &mbe) || mbe.Line != 1 {
			t.Errorf("warning = %v, want MalformedBlockError at line 1", c.Warnings[0])
		}
	})

	t.Run("field on first line does not warn", func(t *testing.T) {
		c := Classify([]string{"private int a;"})
		if len(c.Warnings) != 0 {
			t.Errorf("Warnings = %v, want none", c.Warnings)
		}
	})
}

func TestAssembleScenario(t *testing.T) {
	lines := []string{
		"public class X {",
		"public static final int A = 1;",
		"private int z;",
		"@Deprecated",
		"private int y;",
		"}",
	}
	c := Classify(lines)
	got, err := Assemble(c.Other, &c.Groups)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []string{
		"public class X {",
		"",
		"public static final int A = 1;",
		"private int z;",
		"@Deprecated",
		"private int y;",
		"",
		"}",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble = %q, want %q", got, want)
	}
}

func TestAssembleOrder(t *testing.T) {
	lines := []string{
		"class Order {",
		"",
		"    private String longerName;",
		"    private final int b;",
		"    private static final long SERIAL = 1L;",
		"    public static final int LONGER_CONSTANT = 2;",
		"    public static final int C = 1;",
		"    // counts things",
		"    private int n;",
		"    private final String aa;",
		"",
		"    Order() {}",
		"}",
	}
	c := Classify(lines)
	got, err := Assemble(c.Other, &c.Groups)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []string{
		"class Order {",
		"",
		"    public static final int C = 1;",
		"    public static final int LONGER_CONSTANT = 2;",
		"    private static final long SERIAL = 1L;",
		"    private final int b;",
		"    private final String aa;",
		"    // counts things",
		"    private int n;",
		"    private String longerName;",
		"",
		"    Order() {}",
		"}",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestAssembleStable(t *testing.T) {
	lines := []string{"class S {", "private int c;", "private int a;", "private int b;", "}"}
	c := Classify(lines)
	got, err := Assemble(c.Other, &c.Groups)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []string{"class S {", "", "private int c;", "private int a;", "private int b;", "", "}"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble = %q, want %q", got, want)
	}
}

func TestAssembleErrors(t *testing.T) {
	t.Run("no class body", func(t *testing.T) {
		c := Classify([]string{"private int a;", "int b = 2;"})
		if _, err := Assemble(c.Other, &c.Groups); !errors.Is(err, ErrNoClassBody) {
			t.Errorf("err = %v, want ErrNoClassBody", err)
		}
	})

	t.Run("nothing after brace", func(t *testing.T) {
		c := Classify([]string{"class A {", "private int a;"})
		_, err := Assemble(c.Other, &c.Groups)
		if !errors.Is(err, ErrTruncatedClassBody) || !errors.Is(err, ErrNoClassBody) {
			t.Errorf("err = %v, want ErrTruncatedClassBody", err)
		}
	})

	t.Run("only a blank after brace", func(t *testing.T) {
		c := Classify([]string{"class A {", "", "private int a;"})
		if _, err := Assemble(c.Other, &c.Groups); !errors.Is(err, ErrTruncatedClassBody) {
			t.Errorf("err = %v, want ErrTruncatedClassBody", err)
		}
	})
}

func TestKey(t *testing.T) {
	u := Unit{Lines: []string{"  @VeryLongAnnotationName(value = 1)", "  private int y;"}}
	if got := Key(PrivateOther, u); got != len(" int y;") {
		t.Errorf("Key(PrivateOther) = %d, want %d", got, len(" int y;"))
	}
	if got := Key(PrivateFinal, Unit{Lines: []string{"private final int x;"}}); got != len("private final int x;") {
		t.Errorf("Key(PrivateFinal) = %d", got)
	}

	// the first "private" may sit in a comment attached above the declaration
	commented := Unit{Lines: []string{"  // private cache", "  private int y;"}}
	want := len(" cache\n  private int y;")
	if got := Key(PrivateOther, commented); got != want {
		t.Errorf("Key(PrivateOther) with comment = %d, want %d", got, want)
	}
}

func TestSortMeasuresWholeUnit(t *testing.T) {
	in := "class A {\n    // private, see below\n    private int a;\n    private int bb;\n}\n"
	got, _, err := Sort(in)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	want := "class A {\n\n    private int bb;\n    // private, see below\n    private int a;\n\n}\n"
	if got != want {
		t.Errorf("Sort = %q, want %q", got, want)
	}
}

func TestSort(t *testing.T) {
	t.Run("crlf preserved", func(t *testing.T) {
		in := "class A {\r\n    private int bb;\r\n    private int a;\r\n}\r\n"
		got, _, err := Sort(in)
		if err != nil {
			t.Fatalf("Sort: %v", err)
		}
		want := "class A {\r\n\r\n    private int a;\r\n    private int bb;\r\n\r\n}\r\n"
		if got != want {
			t.Errorf("Sort = %q, want %q", got, want)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		in := "class A {\n    private int bb;\n    public static final int X = 1;\n\n    void m() {}\n}\n"
		once, _, err := Sort(in)
		if err != nil {
			t.Fatalf("Sort: %v", err)
		}
		twice, _, err := Sort(once)
		if err != nil {
			t.Fatalf("Sort: %v", err)
		}
		if once != twice {
			t.Errorf("second Sort changed text:\n%s\nto\n%s", once, twice)
		}
	})

	t.Run("no fields unchanged", func(t *testing.T) {
		in := "class A {\n    void m() {}\n}\n"
		got, _, err := Sort(in)
		if err != nil || got != in {
			t.Errorf("Sort = %q, %v, want input unchanged", got, err)
		}
	})

	t.Run("no class body", func(t *testing.T) {
		_, _, err := Sort("int a = 1;\nprivate int b;\n")
		if !errors.Is(err, ErrNoClassBody) {
			t.Errorf("err = %v, want ErrNoClassBody", err)
		}
		_, _, err = Sort("just text\n")
		if !errors.Is(err, ErrNoClassBody) {
			t.Errorf("err = %v, want ErrNoClassBody for text without fields", err)
		}
	})
}
