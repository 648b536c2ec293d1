package highlight

import (
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/gdamore/tcell/v2"
)

type run struct {
	text  string
	class Class
}

// runs marks the whole of src, feeding the marker at most window bytes at a time.
func runs(t *testing.T, m Marker, src string, window int) []run {
	t.Helper()
	var out []run
	var state State
	for pos := 0; pos < len(src); {
		look := []byte(src[pos:min(len(src), pos+window)])
		next, n, class := m.Mark(state, look)
		if n < 1 || n > len(look) {
			t.Fatalf("Mark returned run of %d for %d bytes at %d", n, len(look), pos)
		}
		if k := len(out); k > 0 && out[k-1].class == class {
			out[k-1].text += src[pos : pos+n]
		} else {
			out = append(out, run{src[pos : pos+n], class})
		}
		state = next
		pos += n
	}
	return out
}

// classOf returns the class covering the first occurrence of needle.
func classOf(t *testing.T, rs []run, needle string) Class {
	t.Helper()
	var all strings.Builder
	for _, r := range rs {
		all.WriteString(r.text)
	}
	at := strings.Index(all.String(), needle)
	if at < 0 {
		t.Fatalf("%q not in marked text", needle)
	}
	pos := 0
	for _, r := range rs {
		if at < pos+len(r.text) {
			return r.class
		}
		pos += len(r.text)
	}
	return Text
}

func TestCLike(t *testing.T) {
	src := "#include <stdio.h>\nint main(void) {\n  /* block\n comment */ return \"a\\\"b\" + 42; // done\n}\n"
	for _, window := range []int{Window, 8} {
		rs := runs(t, CLike, src, window)
		tests := []struct {
			needle string
			want   Class
		}{
			{"#include", Preproc},
			{"int", Type},
			{"main", Text},
			{"(", Punctuation},
			{"block", Comment},
			{" comment */", Comment},
			{"return", Keyword},
			{`"a\"b"`, String},
			{"+", Operator},
			{"42", Number},
			{"// done", Comment},
			{"}", Punctuation},
		}
		for _, tt := range tests {
			if got := classOf(t, rs, tt.needle); got != tt.want {
				t.Errorf("window %d: %q is %v, want %v", window, tt.needle, got, tt.want)
			}
		}
	}
}

func TestLongIdentifierNotKeyword(t *testing.T) {
	src := strings.Repeat("x", Window) + "return"
	rs := runs(t, CLike, src, Window)
	if got := classOf(t, rs, "return"); got != Text {
		t.Errorf("identifier tail marked %v", got)
	}
}

func TestSQLFoldsCase(t *testing.T) {
	rs := runs(t, SQL, "SELECT name FROM t -- note\nwhere x = 'it''s'", Window)
	if classOf(t, rs, "SELECT") != Keyword || classOf(t, rs, "where") != Keyword {
		t.Error("SQL keywords not case-insensitive")
	}
	if classOf(t, rs, "-- note") != Comment {
		t.Error("SQL line comment not marked")
	}
	if classOf(t, rs, "'it'") != String {
		t.Error("SQL string not marked")
	}
}

func TestLuaLongComment(t *testing.T) {
	rs := runs(t, Lua, "--[[ long\ncomment ]] local x = nil -- tail\n", 8)
	if classOf(t, rs, "comment ]]") != Comment {
		t.Error("long comment not marked")
	}
	if classOf(t, rs, "local") != Keyword || classOf(t, rs, "nil") != Keyword {
		t.Error("Lua keywords not marked")
	}
	if classOf(t, rs, "-- tail") != Comment {
		t.Error("Lua line comment not marked")
	}
}

func TestXML(t *testing.T) {
	rs := runs(t, XML, `<?xml version="1.0"?><a href='x'>t &amp; u<!-- c --></a>`, 6)
	tests := []struct {
		needle string
		want   Class
	}{
		{"<?xml", Tag},
		{"version", Attribute},
		{`"1.0"`, String},
		{"<a", Tag},
		{"href", Attribute},
		{"'x'", String},
		{"t ", Text},
		{"&amp;", Number},
		{"<!-- c -->", Comment},
		{"</a>", Tag},
	}
	for _, tt := range tests {
		if got := classOf(t, rs, tt.needle); got != tt.want {
			t.Errorf("%q is %v, want %v", tt.needle, got, tt.want)
		}
	}
}

func TestPatch(t *testing.T) {
	src := "--- a/f\n+++ b/f\n@@ -1 +1 @@\n-old line\n+new line\n context\n"
	rs := runs(t, Patch, src, 4)
	tests := []struct {
		needle string
		want   Class
	}{
		{"--- a/f", Keyword},
		{"@@ -1", Heading},
		{"-old line", Deleted},
		{"+new line", Inserted},
		{" context", Text},
	}
	for _, tt := range tests {
		if got := classOf(t, rs, tt.needle); got != tt.want {
			t.Errorf("%q is %v, want %v", tt.needle, got, tt.want)
		}
	}
}

func TestSearch(t *testing.T) {
	s := NewSearch("Needle", true)
	rs := runs(t, s, "hay needle hay NEEDLE", 8)
	var matches []string
	for _, r := range rs {
		if r.class == Match {
			matches = append(matches, r.text)
		}
	}
	if len(matches) != 2 || matches[0] != "needle" || matches[1] != "NEEDLE" {
		t.Errorf("matches = %q", matches)
	}

	exact := runs(t, NewSearch("ab", false), "AB ab", Window)
	if classOf(t, exact, "AB") != Text || classOf(t, exact, "ab") != Match {
		t.Error("case-sensitive search matched wrong text")
	}
}

func TestCompile(t *testing.T) {
	src := "main.go:12:5: undefined: x\n\tnote line\nok\n"
	rs := runs(t, Compile, src, Window)
	if classOf(t, rs, "main.go:12:5:") != Location {
		t.Error("location not marked")
	}
	if classOf(t, rs, " undefined") != Error {
		t.Error("message not marked as error")
	}
	if classOf(t, rs, "note") != Text || classOf(t, rs, "ok") != Text {
		t.Error("plain lines should be text")
	}
}

func TestPlainText(t *testing.T) {
	rs := runs(t, PlainText, "any (text) \"here\"", 4)
	if len(rs) != 1 || rs[0].class != Text {
		t.Errorf("runs = %v", rs)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want Marker
	}{
		{"main.go", CLike},
		{"/src/query.sql", SQL},
		{"init.lua", Lua},
		{"pom.xml", XML},
		{"fix.patch", Patch},
		{"notes.unknownext", PlainText},
	}
	for _, tt := range tests {
		if got := ForPath(tt.path); got != tt.want {
			t.Errorf("ForPath(%q) = %T, want %T", tt.path, got, tt.want)
		}
	}
	if ForName("SQL") != SQL || ForName("nope") != PlainText {
		t.Error("ForName lookup failed")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if !slices.IsSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
	if !slices.Contains(names, "go") || !slices.Contains(names, "sql") {
		t.Errorf("Names() = %v, missing go or sql", names)
	}
	for _, tt := range []struct {
		name string
		want bool
	}{
		{"go", true},
		{"Go", true},
		{"SQL", true},
		{"klingon", false},
		{"", false},
	} {
		if got := Known(tt.name); got != tt.want {
			t.Errorf("Known(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassTokenTypes(t *testing.T) {
	for c := Class(0); c < numClasses; c++ {
		if c.String() == "" || c.String() == "unknown" {
			t.Errorf("class %d has no name", c)
		}
	}
	if String.TokenType() != chroma.LiteralString {
		t.Errorf("String maps to %v", String.TokenType())
	}
	if !Comment.Quiet() || Punctuation.Quiet() {
		t.Error("Quiet classes wrong")
	}
}

func TestTheme(t *testing.T) {
	th := NewTheme(DefaultTheme)
	if th.Name() != DefaultTheme {
		t.Errorf("Name() = %q", th.Name())
	}
	if th.Style(Keyword) == th.Style(Text) {
		t.Error("keyword and text styles should differ")
	}
	_, _, attrs := th.Style(Match).Decompose()
	if attrs&tcell.AttrReverse == 0 {
		t.Error("match style should be reversed")
	}
	if th.Style(Class(200)) != th.Base() {
		t.Error("unknown class should use the base style")
	}

	fallback := NewTheme("no-such-theme")
	if fallback.Name() == "" {
		t.Error("fallback theme has no name")
	}
}
