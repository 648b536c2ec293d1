package renderer

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/document"
	"github.com/dshills/quill/internal/engine/position"
	"github.com/dshills/quill/internal/engine/rangetree"
	"github.com/dshills/quill/internal/highlight"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func newDoc(t *testing.T, text string, opts ...document.Option) *document.Document {
	t.Helper()
	opts = append([]document.Option{
		document.WithLogger(zerolog.Nop()),
		document.WithDebugChecks(true),
	}, opts...)
	d := document.New(opts...)
	d.Insert(0, []byte(text))
	t.Cleanup(d.Close)
	return d
}

func newRenderer(s tcell.Screen, opts ...Option) *Renderer {
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return New(s, opts...)
}

// rowText returns the shown text of screen row y without trailing blanks.
func rowText(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteString(string(cells[y*w+x].Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func screenText(s tcell.SimulationScreen, rows int) []string {
	out := make([]string, rows)
	for y := range out {
		out[y] = rowText(s, y)
	}
	return out
}

func checkRows(t *testing.T, s tcell.SimulationScreen, want ...string) {
	t.Helper()
	got := screenText(s, len(want))
	for y := range want {
		if got[y] != want[y] {
			t.Errorf("row %d = %q, want %q", y, got[y], want[y])
		}
	}
}

func settle(r *Renderer, d *document.Document) {
	for !r.Idle(d) {
	}
}

func TestDrawText(t *testing.T) {
	s := newScreen(t, 20, 4)
	d := newDoc(t, "hello\nworld")
	v := d.NewView()
	v.Cursor = 7

	r := newRenderer(s, WithLineNumbers(LineNumbersOff), WithStatusLine(false))
	if n := r.Draw(d, v, Status{}); n != 4 {
		t.Errorf("Draw() rewrote %d rows, want 4", n)
	}
	checkRows(t, s, "hello", "world", "", "")

	x, y, visible := s.GetCursor()
	if !visible || x != 1 || y != 1 {
		t.Errorf("cursor = (%d,%d,%v), want (1,1,true)", x, y, visible)
	}
}

func TestDrawGutter(t *testing.T) {
	tests := []struct {
		name string
		mode LineNumberMode
		want []string
	}{
		{"absolute", LineNumbersAbsolute, []string{"  1 a", "  2 b", "  3 c", "~"}},
		{"relative", LineNumbersRelative, []string{"  1 a", "  0 b", "  1 c", "~"}},
		{"hybrid", LineNumbersHybrid, []string{"  1 a", "  2 b", "  1 c", "~"}},
		{"off", LineNumbersOff, []string{"a", "b", "c", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScreen(t, 20, 4)
			d := newDoc(t, "a\nb\nc")
			v := d.NewView()
			v.Cursor = 2

			r := newRenderer(s, WithLineNumbers(tt.mode), WithStatusLine(false))
			r.Draw(d, v, Status{})
			checkRows(t, s, tt.want...)
		})
	}
}

func TestDrawWrapped(t *testing.T) {
	s := newScreen(t, 10, 4)
	d := newDoc(t, "abcdefgh\nxy", document.WithLayout(position.Layout{Width: 4}))
	v := d.NewView()
	v.Cursor = 5

	r := newRenderer(s, WithStatusLine(false))
	r.Draw(d, v, Status{})
	checkRows(t, s, "  1 abcd", "    efgh", "  2 xy", "~")

	x, y, visible := s.GetCursor()
	if !visible || x != 5 || y != 1 {
		t.Errorf("cursor = (%d,%d,%v), want (5,1,true)", x, y, visible)
	}
}

func TestDrawTabsAndControls(t *testing.T) {
	s := newScreen(t, 20, 2)
	d := newDoc(t, "a\tb\x01c\x7f", document.WithLayout(position.Layout{TabWidth: 4}))
	v := d.NewView()

	r := newRenderer(s, WithLineNumbers(LineNumbersOff), WithStatusLine(false))
	r.Draw(d, v, Status{})
	checkRows(t, s, "a   b^Ac^?")

	cells, _, _ := s.GetContents()
	if got, want := cells[5].Style, r.Theme().Style(highlight.Control); got != want {
		t.Errorf("control style = %v, want %v", got, want)
	}
}

func TestDrawWideCluster(t *testing.T) {
	s := newScreen(t, 20, 2)
	d := newDoc(t, "世a")
	v := d.NewView()
	v.Cursor = int64(len("世"))

	r := newRenderer(s, WithLineNumbers(LineNumbersOff), WithStatusLine(false))
	r.Draw(d, v, Status{})

	cells, _, _ := s.GetContents()
	if got := string(cells[0].Runes); got != "世" {
		t.Errorf("cell 0 = %q, want %q", got, "世")
	}
	if got := string(cells[2].Runes); got != "a" {
		t.Errorf("cell 2 = %q, want %q", got, "a")
	}
	x, _, _ := s.GetCursor()
	if x != 2 {
		t.Errorf("cursor x = %d, want 2", x)
	}
}

func TestDrawOnlyChangedRows(t *testing.T) {
	s := newScreen(t, 20, 4)
	d := newDoc(t, "one\ntwo\nthree")
	v := d.NewView()
	r := newRenderer(s)

	settle(r, d)
	if n := r.Draw(d, v, Status{}); n != 4 {
		t.Fatalf("first frame rewrote %d rows, want 4", n)
	}
	if n := r.Draw(d, v, Status{}); n != 0 {
		t.Errorf("unchanged frame rewrote %d rows, want 0", n)
	}

	d.Insert(5, []byte("X"))
	settle(r, d)
	if n := r.Draw(d, v, Status{}); n != 1 {
		t.Errorf("frame after an edit on one line rewrote %d rows, want 1", n)
	}
	checkRows(t, s, "  1 one", "  2 tXwo", "  3 three")

	r.Invalidate()
	if n := r.Draw(d, v, Status{}); n != 4 {
		t.Errorf("invalidated frame rewrote %d rows, want 4", n)
	}
}

func TestDrawSelection(t *testing.T) {
	s := newScreen(t, 20, 2)
	d := newDoc(t, "abcdef")
	v := d.NewView()
	v.Selection = document.Selection{Anchor: 1, Head: 3}
	v.Cursor = 3

	r := newRenderer(s, WithLineNumbers(LineNumbersOff), WithStatusLine(false))
	r.Draw(d, v, Status{})

	cells, _, _ := s.GetContents()
	plain := r.Theme().Style(highlight.Text)
	selected := plain.Reverse(true)
	for x, want := range []tcell.Style{plain, selected, selected, plain} {
		if cells[x].Style != want {
			t.Errorf("cell %d style = %v, want %v", x, cells[x].Style, want)
		}
	}
}

func TestDrawScrolled(t *testing.T) {
	var text strings.Builder
	for i := range 10 {
		if i > 0 {
			text.WriteByte('\n')
		}
		text.WriteString("l")
		text.WriteByte(byte('0' + i))
	}
	s := newScreen(t, 20, 4)
	d := newDoc(t, text.String())
	v := d.NewView()
	d.Scroll(v, 5)

	r := newRenderer(s, WithLineNumbers(LineNumbersOff))
	r.Draw(d, v, Status{})
	checkRows(t, s, "l5", "l6", "l7", " [No Name]   1:1/10")

	if _, _, visible := s.GetCursor(); visible {
		t.Error("cursor above the view is visible")
	}
}

func TestDrawStatus(t *testing.T) {
	s := newScreen(t, 30, 2)
	d := newDoc(t, "x")
	v := d.NewView()

	r := newRenderer(s, WithLineNumbers(LineNumbersOff))
	settle(r, d)
	r.Draw(d, v, Status{Name: "main.go", Modified: true, Message: "saved"})

	got := rowText(s, 1)
	want := " main.go [+]     saved  1:1/1"
	if got != want {
		t.Errorf("status = %q, want %q", got, want)
	}
}

func TestDrawEmptyDocument(t *testing.T) {
	s := newScreen(t, 10, 3)
	d := newDoc(t, "")
	v := d.NewView()

	r := newRenderer(s)
	r.Draw(d, v, Status{})
	checkRows(t, s, "  1", "~")

	x, y, visible := s.GetCursor()
	if !visible || x != 4 || y != 0 {
		t.Errorf("cursor = (%d,%d,%v), want (4,0,true)", x, y, visible)
	}
}

func TestResize(t *testing.T) {
	s := newScreen(t, 20, 4)
	d := newDoc(t, "a")
	v := d.NewView()
	r := newRenderer(s)
	r.Draw(d, v, Status{})

	s.SetSize(30, 6)
	r.Resize()
	if got := r.TextRows(); got != 5 {
		t.Errorf("TextRows() = %d, want 5", got)
	}
	if got := r.TextWidth(d); got != 26 {
		t.Errorf("TextWidth() = %d, want 26", got)
	}
	if n := r.Draw(d, v, Status{}); n != 6 {
		t.Errorf("frame after resize rewrote %d rows, want 6", n)
	}
}

func TestIdle(t *testing.T) {
	s := newScreen(t, 20, 4)
	d := newDoc(t, strings.Repeat("word ", 40),
		document.WithTreeOptions(rangetree.WithBlockSizes(4, 8)))
	r := newRenderer(s, WithRefreshBudget(1))

	if r.Idle(d) {
		t.Fatal("Idle() finished a many-leaf document in one leaf")
	}
	for i := 0; !r.Idle(d); i++ {
		if i > 1000 {
			t.Fatal("Idle() never finished")
		}
	}
	if !d.Mapper().Clean() {
		t.Error("cache not clean after Idle() reported done")
	}
}

func TestSetTheme(t *testing.T) {
	s := newScreen(t, 20, 2)
	d := newDoc(t, "a")
	v := d.NewView()
	r := newRenderer(s)
	r.Draw(d, v, Status{})

	r.SetTheme(highlight.NewTheme("github"))
	if n := r.Draw(d, v, Status{}); n != 2 {
		t.Errorf("frame after SetTheme rewrote %d rows, want 2", n)
	}
}
