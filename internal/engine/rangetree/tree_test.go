package rangetree

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// build returns a tree holding s, inserted in one call.
func build(t *testing.T, s string, opts ...Option) *Tree {
	t.Helper()
	tr := New(opts...)
	tr.InsertSplit(0, []byte(s), 0, nil)
	mustCheck(t, tr)
	return tr
}

func mustCheck(t *testing.T, tr *Tree) {
	t.Helper()
	if err := tr.Check(); err != nil {
		t.Fatalf("Check() = %v", err)
	}
}

// leaves concatenates leaf contents in order.
func leaves(tr *Tree) string {
	var sb strings.Builder
	for leaf := tr.First(tr.Root()); leaf != 0; leaf = tr.Next(leaf) {
		sb.Write(tr.LeafBytes(leaf))
	}
	return sb.String()
}

func TestNew(t *testing.T) {
	tr := New()
	if !tr.Empty() || tr.Len() != 0 || tr.Root() != 0 {
		t.Errorf("new tree not empty: len %d root %d", tr.Len(), tr.Root())
	}
	if tr.String() != "" {
		t.Errorf("String() = %q, want empty", tr.String())
	}
	if lo, hi := tr.BlockSizes(); lo != DefaultMinBlock || hi != DefaultMaxBlock {
		t.Errorf("BlockSizes() = %d/%d", lo, hi)
	}
	mustCheck(t, tr)
}

func TestInsertHelloWorld(t *testing.T) {
	tr := build(t, "hello\nworld")
	if tr.Len() != 11 {
		t.Errorf("Len() = %d, want 11", tr.Len())
	}
	if tr.Lines() != 1 {
		t.Errorf("Lines() = %d, want 1", tr.Lines())
	}
	if got := leaves(tr); got != "hello\nworld" {
		t.Errorf("leaves = %q", got)
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		offset   int64
		text     string
		expected string
	}{
		{"insert at start", "world", 0, "hello ", "hello world"},
		{"insert at end", "hello", 5, " world", "hello world"},
		{"insert in middle", "helloworld", 5, " ", "hello world"},
		{"insert into empty", "", 0, "hello", "hello"},
		{"insert empty", "hello", 3, "", "hello"},
		{"offset clamped high", "hello", 99, "!", "hello!"},
		{"offset clamped low", "hello", -4, ">", ">hello"},
		{"insert unicode", "hello", 5, " 世界", "hello 世界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := build(t, tt.initial)
			tr.InsertSplit(tt.offset, []byte(tt.text), 0, nil)
			mustCheck(t, tr)
			if got := tr.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if got := string(tr.Raw(0, tr.Len())); got != tt.expected {
				t.Errorf("Raw = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInsertSharesFragment(t *testing.T) {
	tr := New()
	frag := NewFragment([]byte("0123456789"))
	tr.Insert(0, frag, 2, 3, 0)
	tr.Insert(3, frag, 7, 2, ReadOnly)
	mustCheck(t, tr)
	if got := tr.String(); got != "23478" {
		t.Errorf("got %q, want %q", got, "23478")
	}
	if frag.Refs() != 2 {
		t.Errorf("fragment refs = %d, want 2", frag.Refs())
	}
}

func TestInsertSplitChunks(t *testing.T) {
	tr := New(WithBlockSizes(4, 16))
	var handles []NodeID
	text := strings.Repeat("abcdefghij\n", 5)
	tr.InsertSplit(0, []byte(text), 0, &handles)
	mustCheck(t, tr)

	if tr.String() != text {
		t.Fatalf("content mismatch: %q", tr.String())
	}
	if len(handles) != tr.LeafCount() {
		t.Errorf("got %d handles for %d leaves", len(handles), tr.LeafCount())
	}
	for i, h := range handles {
		b := tr.LeafBytes(h)
		if len(b) > 16 {
			t.Errorf("chunk %d has %d bytes", i, len(b))
		}
		if i < len(handles)-1 && b[len(b)-1] != '\n' {
			t.Errorf("chunk %d = %q does not end at a newline", i, b)
		}
	}
}

func TestChunkLenUTF8(t *testing.T) {
	text := []byte(strings.Repeat("世", 10)) // 3 bytes each
	n := chunkLen(text, 8)
	if n != 6 {
		t.Errorf("chunkLen = %d, want 6", n)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		offset   int64
		length   int64
		expected string
	}{
		{"delete space", "hello world", 5, 1, "helloworld"},
		{"delete start", "hello world", 0, 6, "world"},
		{"delete end", "hello world", 5, 6, "hello"},
		{"delete all", "hello", 0, 5, ""},
		{"delete past end", "hello", 3, 99, "hel"},
		{"delete nothing", "hello", 2, 0, "hello"},
		{"delete negative", "hello", 2, -3, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := build(t, tt.initial)
			tr.Delete(tt.offset, tt.length, 0)
			mustCheck(t, tr)
			if got := tr.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if tr.Len() != int64(len(tt.expected)) {
				t.Errorf("Len() = %d, want %d", tr.Len(), len(tt.expected))
			}
		})
	}
}

func TestDeleteAcrossLeaves(t *testing.T) {
	tr := New(WithBlockSizes(2, 4))
	var handles []NodeID
	tr.InsertSplit(0, []byte("aaaabbbbccccdddd"), 0, &handles)
	if tr.LeafCount() != 4 {
		t.Fatalf("LeafCount() = %d, want 4", tr.LeafCount())
	}
	_, spans := tr.DeleteSpans(2, 12, 0)
	mustCheck(t, tr)
	if got := tr.String(); got != "aadd" {
		t.Errorf("got %q, want %q", got, "aadd")
	}
	if len(spans) != 1 || spans[0] != (Span{Offset: 2, Length: 12}) {
		t.Errorf("spans = %v", spans)
	}
}

func TestDeleteSkipsReadOnly(t *testing.T) {
	tr := New()
	tr.InsertSplit(0, []byte("hello"), ReadOnly, nil)
	tr.InsertSplit(5, []byte(" world"), Auto, nil)
	mustCheck(t, tr)

	_, spans := tr.DeleteSpans(0, 10, 0)
	mustCheck(t, tr)
	if got := tr.String(); got != "hellod" {
		t.Errorf("got %q, want %q", got, "hellod")
	}
	if tr.Len() != 6 {
		t.Errorf("Len() = %d, want 6", tr.Len())
	}
	if len(spans) != 1 || spans[0] != (Span{Offset: 5, Length: 5}) {
		t.Errorf("spans = %v, want [{5 5}]", spans)
	}

	tr.Delete(0, 3, Auto)
	mustCheck(t, tr)
	if got := tr.String(); got != "lod" {
		t.Errorf("Auto delete got %q, want %q", got, "lod")
	}
}

func TestDeleteReadOnlyMiddle(t *testing.T) {
	tr := New()
	tr.InsertSplit(0, []byte("abcdef"), 0, nil)
	tr.InsertSplit(3, []byte("XY"), ReadOnly|Auto, nil)
	_, spans := tr.DeleteSpans(1, 6, 0) // bc XY de
	mustCheck(t, tr)
	if got := tr.String(); got != "aXYf" {
		t.Errorf("got %q, want %q", got, "aXYf")
	}
	want := []Span{{Offset: 1, Length: 2}, {Offset: 3, Length: 2}}
	if len(spans) != len(want) || spans[0] != want[0] || spans[1] != want[1] {
		t.Errorf("spans = %v, want %v", spans, want)
	}
}

func TestPlacement(t *testing.T) {
	tests := []struct {
		name   string
		flags  Flags // flags of the protected leaf
		offset int64
		req    Flags
		want   string
	}{
		{"inside read-only vetoed", ReadOnly, 3, 0, "ab[RO]cd"},
		{"inside read-only with auto", ReadOnly, 3, Auto, "ab[R!O]cd"},
		{"leading edge next to plain leaf", ReadOnly, 2, 0, "ab![RO]cd"},
		{"trailing edge next to plain leaf", ReadOnly, 6, 0, "ab[RO]!cd"},
		{"inside plain leaf", 0, 1, 0, "a!b[RO]cd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			tr.InsertSplit(0, []byte("abcd"), 0, nil)
			tr.InsertSplit(2, []byte("[RO]"), tt.flags, nil)
			tr.InsertSplit(tt.offset, []byte("!"), tt.req, nil)
			mustCheck(t, tr)
			if got := tr.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlacementEdges(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		at    int64
		want  string
	}{
		{"start without before", ReadOnly, 0, "RO"},
		{"start with before", ReadOnly | Before, 0, "!RO"},
		{"end without after", ReadOnly, 2, "RO"},
		{"end with after", ReadOnly | After, 2, "RO!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			tr.InsertSplit(0, []byte("RO"), tt.flags, nil)
			tr.InsertSplit(tt.at, []byte("!"), 0, nil)
			if got := tr.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlaggedLeafHandleStable(t *testing.T) {
	tr := New()
	tr.InsertSplit(0, []byte("name: "), 0, nil)
	_, field := tr.InsertLeaf(6, NewFragment([]byte("value")), 0, 5, Escape)
	for i := 0; i < 20; i++ {
		tr.InsertSplit(tr.Len(), []byte("x"), 0, nil)
		tr.InsertSplit(0, []byte("y"), 0, nil)
	}
	mustCheck(t, tr)
	if got := string(tr.LeafBytes(field)); got != "value" {
		t.Errorf("flagged leaf holds %q, want %q", got, "value")
	}
	if tr.Flags(field) != Escape {
		t.Errorf("Flags() = %v, want escape", tr.Flags(field))
	}
	if off := tr.OffsetOf(field); off != 26 {
		t.Errorf("OffsetOf() = %d, want 26", off)
	}
}

func TestCopyPaste(t *testing.T) {
	tr := build(t, "hello world")
	clip := tr.Copy(0, 5)
	mustCheck(t, clip)
	if clip.String() != "hello" {
		t.Fatalf("copy = %q", clip.String())
	}
	tr.Paste(clip, 11, 0)
	mustCheck(t, tr)
	if got := tr.String(); got != "hello worldhello" {
		t.Errorf("got %q, want %q", got, "hello worldhello")
	}
	if clip.String() != "hello" {
		t.Errorf("copy changed after paste: %q", clip.String())
	}
	clip.Release()
	if !clip.Empty() {
		t.Error("released copy is not empty")
	}
	if got := tr.String(); got != "hello worldhello" {
		t.Errorf("source changed after releasing copy: %q", got)
	}
}

func TestCopyOutlivesSource(t *testing.T) {
	tr := build(t, "abcdef")
	clip := tr.Copy(1, 3)
	tr.Delete(0, tr.Len(), 0)
	tr.Release()
	if got := clip.String(); got != "bcd" {
		t.Errorf("copy = %q, want %q", got, "bcd")
	}
}

func TestCopyDeletePasteRoundTrip(t *testing.T) {
	text := strings.Repeat("line of text\n", 40)
	tests := []struct{ off, length int64 }{
		{0, 10}, {13, 26}, {100, 300}, {0, int64(len(text))}, {int64(len(text)) - 1, 1},
	}
	for _, tt := range tests {
		tr := build(t, text, WithBlockSizes(8, 64))
		clip := tr.Copy(tt.off, tt.length)
		tr.Delete(tt.off, tt.length, 0)
		tr.Paste(clip, tt.off, 0)
		mustCheck(t, tr)
		if tr.String() != text {
			t.Errorf("round trip at %d+%d changed content", tt.off, tt.length)
		}
	}
}

func TestCompactionBoundsLeaves(t *testing.T) {
	tr := New()
	for i := 0; i < 2000; i++ {
		tr.InsertSplit(tr.Len(), []byte{'a' + byte(i%26)}, 0, nil)
	}
	mustCheck(t, tr)
	if n := tr.LeafCount(); n > 2000/DefaultMinBlock+1 {
		t.Errorf("typing produced %d leaves", n)
	}
	if d := tr.Depth(tr.Root()); d > 8 {
		t.Errorf("depth %d too large", d)
	}
}

func TestCompactWholeTree(t *testing.T) {
	tr := New()
	var handles []NodeID
	for i := 0; i < 50; i++ {
		tr.InsertSplit(tr.Len(), []byte("ab"), 0, &handles)
	}
	if tr.LeafCount() != 50 {
		t.Fatalf("LeafCount() = %d, want 50", tr.LeafCount())
	}
	v := tr.Version()
	tr.Compact()
	mustCheck(t, tr)
	if tr.LeafCount() != 1 {
		t.Errorf("after Compact LeafCount() = %d, want 1", tr.LeafCount())
	}
	if tr.Version() == v {
		t.Error("Compact did not bump the version")
	}
	if tr.String() != strings.Repeat("ab", 50) {
		t.Error("Compact changed content")
	}
}

func TestNavigation(t *testing.T) {
	tr := New(WithBlockSizes(1, 3))
	var handles []NodeID
	tr.InsertSplit(0, []byte("abcdefghi"), 0, &handles)
	if len(handles) != 3 {
		t.Fatalf("got %d handles", len(handles))
	}
	if tr.First(tr.Root()) != handles[0] || tr.Last(tr.Root()) != handles[2] {
		t.Error("First/Last do not match handles")
	}
	if tr.Next(handles[0]) != handles[1] || tr.Prev(handles[2]) != handles[1] {
		t.Error("Next/Prev do not match handles")
	}
	if tr.Prev(handles[0]) != 0 || tr.Next(handles[2]) != 0 {
		t.Error("Prev/Next past the ends should be nil")
	}

	tests := []struct {
		off  int64
		leaf int
		disp int64
	}{
		{0, 0, 0}, {2, 0, 2}, {3, 1, 0}, {8, 2, 2}, {9, 2, 3}, {50, 2, 3},
	}
	for _, tt := range tests {
		leaf, disp := tr.FindOffset(tt.off)
		if leaf != handles[tt.leaf] || disp != tt.disp {
			t.Errorf("FindOffset(%d) = (%d,%d), want (%d,%d)", tt.off, leaf, disp, handles[tt.leaf], tt.disp)
		}
	}
	for i, h := range handles {
		if got := tr.OffsetOf(h); got != int64(3*i) {
			t.Errorf("OffsetOf(handle %d) = %d", i, got)
		}
	}
}

func TestRaw(t *testing.T) {
	tr := build(t, "hello\nworld", WithBlockSizes(1, 2))
	tests := []struct {
		start, end int64
		want       string
	}{
		{0, 11, "hello\nworld"},
		{3, 8, "lo\nwo"},
		{5, 5, ""},
		{8, 3, ""},
		{-3, 2, "he"},
		{9, 100, "ld"},
	}
	for _, tt := range tests {
		if got := string(tr.Raw(tt.start, tt.end)); got != tt.want {
			t.Errorf("Raw(%d,%d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestWriteTo(t *testing.T) {
	text := strings.Repeat("streamed\n", 1000)
	tr := build(t, text)
	var buf bytes.Buffer
	n, err := tr.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(text)) || buf.String() != text {
		t.Errorf("WriteTo wrote %d bytes, content match %v", n, buf.String() == text)
	}
}

func TestRunesAndLines(t *testing.T) {
	tr := build(t, "héllo\n世界\n")
	if tr.Runes() != 9 {
		t.Errorf("Runes() = %d, want 9", tr.Runes())
	}
	if tr.Lines() != 2 {
		t.Errorf("Lines() = %d, want 2", tr.Lines())
	}
}

func TestVersion(t *testing.T) {
	tr := New()
	v := tr.Version()
	tr.InsertSplit(0, []byte("abc"), 0, nil)
	if tr.Version() == v {
		t.Error("insert did not bump version")
	}
	v = tr.Version()
	tr.Delete(0, 0, 0)
	if tr.Version() != v {
		t.Error("empty delete bumped version")
	}
	tr.Delete(0, 1, 0)
	if tr.Version() == v {
		t.Error("delete did not bump version")
	}
}

func TestCheckDetectsCorruption(t *testing.T) {
	tr := build(t, strings.Repeat("x", 100), WithBlockSizes(4, 8))
	root := tr.Root()
	tr.nodes[root].length++
	err := tr.Check()
	if !errors.Is(err, ErrInvariant) {
		t.Errorf("Check() = %v, want ErrInvariant", err)
	}
}

func TestFlagsString(t *testing.T) {
	if got := (ReadOnly | After).String(); got != "readonly|after" {
		t.Errorf("String() = %q", got)
	}
	if got := Flags(0).String(); got != "none" {
		t.Errorf("String() = %q", got)
	}
}
