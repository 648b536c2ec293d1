package document

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/engine/position"
	"github.com/dshills/quill/internal/engine/rangetree"
)

func newDoc(t *testing.T, text string, opts ...Option) *Document {
	t.Helper()
	opts = append([]Option{
		WithLogger(zerolog.Nop()),
		WithDebugChecks(true),
		WithTreeOptions(rangetree.WithBlockSizes(4, 8)),
	}, opts...)
	d := New(opts...)
	d.Insert(0, []byte(text))
	if d.String() != text {
		t.Fatalf("document holds %q, want %q", d.String(), text)
	}
	return d
}

func TestInsertCopiesInput(t *testing.T) {
	d := newDoc(t, "")
	buf := []byte("hello")
	d.Insert(0, buf)
	buf[0] = 'j'
	if d.String() != "hello" {
		t.Errorf("document aliased caller buffer: %q", d.String())
	}
}

func TestEditsShiftViews(t *testing.T) {
	d := newDoc(t, "hello world")
	v := d.NewView()
	v.Top = 6
	v.Cursor = 6
	v.Selection = Selection{Anchor: 6, Head: 11}
	v.SetMark("w", 6, 11)

	d.Insert(6, []byte("big "))
	if d.String() != "hello big world" {
		t.Fatalf("text = %q", d.String())
	}
	if v.Top != 6 {
		t.Errorf("Top = %d, want 6 (sticky)", v.Top)
	}
	if v.Cursor != 10 {
		t.Errorf("Cursor = %d, want 10", v.Cursor)
	}
	if v.Selection.Anchor != 6 || v.Selection.Head != 15 {
		t.Errorf("Selection = %+v", v.Selection)
	}
	if b, _ := v.Mark("w"); b.Start != 6 || b.End != 15 {
		t.Errorf("mark = %+v", b)
	}

	d.Delete(0, 6)
	if d.String() != "big world" {
		t.Fatalf("text = %q", d.String())
	}
	if v.Top != 0 || v.Cursor != 4 || v.Selection.Head != 9 {
		t.Errorf("after delete: top %d cursor %d sel %+v", v.Top, v.Cursor, v.Selection)
	}
	if b, _ := v.Mark("w"); b.Start != 0 || b.End != 9 {
		t.Errorf("mark = %+v", b)
	}
}

func TestDeleteSkipsReadOnly(t *testing.T) {
	d := newDoc(t, "abcdef")
	d.InsertFlags(3, []byte("XYZ"), rangetree.ReadOnly)
	v := d.NewView()
	v.Cursor = 9
	d.Delete(1, 7)
	if d.String() != "aXYZf" {
		t.Fatalf("text = %q, want aXYZf", d.String())
	}
	if v.Cursor != 5 {
		t.Errorf("Cursor = %d, want 5", v.Cursor)
	}

	root := d.Tree().Root()
	if got := d.Insert(2, []byte("!")); got != root || d.String() != "aXYZf" {
		t.Errorf("insert inside read-only text changed the document to %q", d.String())
	}
}

func TestCopyPaste(t *testing.T) {
	d := newDoc(t, "one two three")
	src := d.Copy(4, 3)
	defer src.Release()
	v := d.NewView()
	v.Cursor = 13
	d.Paste(src, 13)
	if d.String() != "one two threetwo" {
		t.Errorf("text = %q", d.String())
	}
	if v.Cursor != 16 {
		t.Errorf("Cursor = %d, want 16", v.Cursor)
	}
	if root := d.Paste(nil, 0); root != d.Tree().Root() {
		t.Error("nil paste changed the root")
	}
}

func TestReadWrite(t *testing.T) {
	d := newDoc(t, "")
	n, err := d.ReadFrom(strings.NewReader("line one\nline two\n"))
	if err != nil || n != 18 {
		t.Fatalf("ReadFrom = %d, %v", n, err)
	}
	if d.Lines() != 2 || d.Len() != 18 {
		t.Errorf("Lines %d Len %d", d.Lines(), d.Len())
	}
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil || buf.String() != "line one\nline two\n" {
		t.Errorf("WriteTo = %q, %v", buf.String(), err)
	}
	if got := string(d.Raw(5, 8)); got != "one" {
		t.Errorf("Raw(5, 8) = %q", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReadFromError(t *testing.T) {
	d := newDoc(t, "")
	if _, err := d.ReadFrom(failingReader{}); err == nil {
		t.Error("ReadFrom swallowed the read error")
	}
}

func TestViews(t *testing.T) {
	d := newDoc(t, "abc")
	a, b := d.NewView(), d.NewView()
	if a.ID == b.ID {
		t.Error("views share an ID")
	}
	d.CloseView(a)
	if len(d.Views()) != 1 || d.Views()[0] != b {
		t.Errorf("Views() = %v", d.Views())
	}
	b.SetMark("z", 3, 1)
	b.SetMark("a", 0, 0)
	if m, _ := b.Mark("z"); m.Start != 1 || m.End != 3 {
		t.Errorf("reversed mark = %+v", m)
	}
	if names := b.Marks(); len(names) != 2 || names[0] != "a" {
		t.Errorf("Marks() = %v", names)
	}
	b.DeleteMark("a")
	if _, ok := b.Mark("a"); ok {
		t.Error("mark survived DeleteMark")
	}
}

func TestSeekAndLayout(t *testing.T) {
	d := newDoc(t, "aaa bbbb", WithLayout(position.Layout{Width: 6}))
	if r := d.Seek(position.Offset(4)); r.Row != 1 || r.Col != 0 {
		t.Errorf("wrapped b at row %d col %d", r.Row, r.Col)
	}
	d.SetLayout(position.Layout{})
	if r := d.Seek(position.Offset(4)); r.Row != 0 || r.Col != 4 {
		t.Errorf("unwrapped b at row %d col %d", r.Row, r.Col)
	}
	for !d.Refresh(1) {
	}
	if !d.Mapper().Clean() {
		t.Error("cache dirty after refresh loop")
	}
}

func TestDebugCheckPanics(t *testing.T) {
	d := newDoc(t, "abc")
	d.check("noop")

	d.verify = func() error { return rangetree.ErrInvariant }
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, rangetree.ErrInvariant) {
			t.Errorf("recovered %v, want an invariant error", r)
		}
	}()
	d.Insert(0, []byte("x"))
}

func TestDebugChecksOff(t *testing.T) {
	d := New(WithLogger(zerolog.Nop()))
	d.verify = func() error { return rangetree.ErrInvariant }
	d.Insert(0, []byte("x"))
	if d.String() != "x" {
		t.Errorf("text = %q", d.String())
	}
}
