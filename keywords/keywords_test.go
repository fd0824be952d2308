package keywords_test

import (
	"errors"
	"testing"

	"github.com/yoanbernabeu/keycount/keywords"
)

// ---- Vocabulary ----

func TestJava_Order(t *testing.T) {
	words := keywords.Java().Words()
	if len(words) != 51 {
		t.Fatalf("Java() has %d words, want 51", len(words))
	}
	if words[0] != "abstract" || words[len(words)-1] != "while" {
		t.Errorf("unexpected order: first=%q last=%q", words[0], words[len(words)-1])
	}
}

func TestNewVocabulary_Invalid(t *testing.T) {
	cases := map[string][]string{
		"empty":          nil,
		"duplicate":      {"if", "if"},
		"not identifier": {"if", "a-b"},
		"leading digit":  {"1st"},
		"blank word":     {""},
	}
	for name, words := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := keywords.NewVocabulary(words...)
			if !errors.Is(err, keywords.ErrInvalidVocabulary) {
				t.Errorf("NewVocabulary(%q) error = %v, want ErrInvalidVocabulary", words, err)
			}
		})
	}
}

func TestVocabulary_NewCountsSeeded(t *testing.T) {
	v := keywords.Java()
	c := v.NewCounts()
	if len(c) != v.Len() {
		t.Fatalf("NewCounts has %d keys, want %d", len(c), v.Len())
	}
	for _, w := range v.Words() {
		if n, ok := c[w]; !ok || n != 0 {
			t.Errorf("counts[%q] = %d, %v; want 0, true", w, n, ok)
		}
	}
}

func TestVocabulary_WordsIsCopy(t *testing.T) {
	v := keywords.Java()
	w := v.Words()
	w[0] = "mutated"
	if v.Words()[0] != "abstract" {
		t.Error("Words() exposed internal slice")
	}
	if !v.Contains("abstract") || v.Contains("mutated") {
		t.Error("Contains reflects external mutation")
	}
}

// ---- Elide ----

func TestElide(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no comments", "int x = 1;\n", "int x = 1;\n"},
		{"line comment", "int x; // int y\nint z;", "int x; \nint z;"},
		{"whole line comment", "// int x", ""},
		{"block single line", "a /* b */ c", "a  c"},
		{"block multi line", "a /* b\n c\n */ d", "a  d"},
		{"block non greedy", "a /* b */ c /* d */ e", "a  c  e"},
		{"unterminated block", "a /* b\nc d", "a "},
		{"block before line", "x // y /* z\n*/ int w", "x "},
		{"string literal not honoured", `s = "// not a comment";`, `s = "`},
		{"javadoc", "/**\n * @return int\n */\npublic", "\npublic"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := keywords.Elide(tc.in); got != tc.want {
				t.Errorf("Elide(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestElide_IdempotentWithoutMarkers(t *testing.T) {
	inputs := []string{
		"",
		"public class Foo { }",
		"a / b * c\n",
		"int x = a /b; int y = c* d;",
	}
	for _, in := range inputs {
		once := keywords.Elide(in)
		if twice := keywords.Elide(once); twice != once {
			t.Errorf("Elide not idempotent for %q: %q then %q", in, once, twice)
		}
		if once != in {
			t.Errorf("Elide(%q) = %q, want unchanged", in, once)
		}
	}
}

// ---- Counter ----

func TestCounter_ScenarioClass(t *testing.T) {
	c := keywords.NewCounter(keywords.Java())
	got := c.Count("public class Foo { public void bar() { int x = 0; } }").NonZero()

	want := keywords.Counts{"public": 2, "class": 1, "void": 1, "int": 1}
	if len(got) != len(want) {
		t.Fatalf("counts = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("counts[%q] = %d, want %d", k, got[k], v)
		}
	}
}

func TestCounter_Boundaries(t *testing.T) {
	c := keywords.NewCounter(keywords.Java())
	cases := []struct {
		text    string
		keyword string
		want    int
	}{
		{"interest", "int", 0},
		{"int", "int", 1},
		{"print(int)", "int", 1},
		{"_int int_ $int int$ int2", "int", 0},
		{"int\tint\nint", "int", 3},
		{"doubled do double", "do", 1},
		{"double", "double", 1},
		{"iffy if;", "if", 1},
		{"éint intë", "int", 0},
		{"x.new()", "new", 1},
		{"thisthis this", "this", 1},
	}
	for _, tc := range cases {
		got := c.Count(tc.text)[tc.keyword]
		if got != tc.want {
			t.Errorf("Count(%q)[%q] = %d, want %d", tc.text, tc.keyword, got, tc.want)
		}
	}
}

func TestCounter_SubstringOnlyIsZero(t *testing.T) {
	c := keywords.NewCounter(keywords.Java())
	for _, kw := range keywords.Java().Words() {
		text := "x" + kw + "y " + kw + "_tail " + "head$" + kw
		if got := c.Count(text)[kw]; got != 0 {
			t.Errorf("Count(%q)[%q] = %d, want 0", text, kw, got)
		}
	}
}

func TestCounter_Accumulates(t *testing.T) {
	c := keywords.NewCounter(keywords.Java())
	counts := keywords.Java().NewCounts()
	c.CountInto("int a;", counts)
	c.CountInto("int b; int c;", counts)
	if counts["int"] != 3 {
		t.Errorf("counts[int] = %d, want 3", counts["int"])
	}
	if counts.Total() != 3 {
		t.Errorf("Total() = %d, want 3", counts.Total())
	}
}

func TestCounter_CommentedLine(t *testing.T) {
	c := keywords.NewCounter(keywords.Java())
	if got := c.Count(keywords.Elide("// int x"))["int"]; got != 0 {
		t.Errorf("int count = %d, want 0", got)
	}
}

func TestCounter_AlternateVocabulary(t *testing.T) {
	v, err := keywords.NewVocabulary("func", "go")
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	got := keywords.NewCounter(v).Count("func main() { go run(); golang }")
	if got["func"] != 1 || got["go"] != 1 {
		t.Errorf("counts = %v", got)
	}
	if _, ok := got["int"]; ok {
		t.Error("counts contain a keyword outside the vocabulary")
	}
}

func TestCounts_Sorted(t *testing.T) {
	c := keywords.Counts{"int": 2, "if": 5, "do": 2}
	s := c.Sorted()
	want := []string{"if", "do", "int"}
	for i, e := range s {
		if e.Keyword != want[i] {
			t.Errorf("Sorted()[%d] = %q, want %q", i, e.Keyword, want[i])
		}
	}
}
