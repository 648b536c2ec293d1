package position

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/engine/rangetree"
	"github.com/dshills/quill/internal/highlight"
)

// maxRunBytes bounds the lookahead spent measuring one word run. Longer runs
// are treated as wider than a row.
const maxRunBytes = 4096

// scanner emits units forward from a cursor.
type scanner struct {
	m   *Mapper
	seq Sequencer
	cur cursor

	// Word-run bookkeeping for span cuts. runStart is -1 when no run began
	// during this scan.
	runStart   int64
	resolvedAt int64
	runSnap    cursor

	unit    []byte
	scratch []byte
}

func (m *Mapper) newScanner(c cursor) *scanner {
	s := &scanner{
		m:        m,
		seq:      Sequencer{tree: m.tree},
		cur:      c,
		runStart: -1,
	}
	s.seq.Seek(c.offset)
	return s
}

// inRun reports whether the scan stopped inside a word run that began
// during this scan.
func (s *scanner) inRun() bool {
	return s.runStart >= 0 && s.cur.ctx.Detail&rangetree.InWord != 0
}

// step emits the next unit and advances past it. At the end of the document
// it returns a zero-length EOF unit and false.
func (s *scanner) step() (Unit, bool) {
	c := &s.cur
	leaf, disp := s.seq.Leaf()
	u := Unit{
		Offset: c.offset,
		Row:    c.row,
		Col:    int64(c.ctx.X),
		Line:   c.line,
		Column: c.column,
		Detail: c.ctx.Detail,
		Depth:  c.depth,
		Leaf:   leaf,
		Disp:   disp,
	}
	if s.seq.EOF() {
		u.Kind = EOF
		return u, false
	}

	cl, _, width, _ := uniseg.FirstGraphemeCluster(s.seq.Peek(0, s.m.window, false), -1)
	s.unit = append(s.unit[:0], cl...)
	kind := unitKind(s.unit)
	layout := s.m.layout

	startsRun := isRun(kind) && c.ctx.Detail&rangetree.InWord == 0
	if startsRun && layout.Width > 0 {
		s.runSnap = *c
		s.runStart = c.offset
	}

	u.Class = s.mark(len(s.unit), s.seq.Escape())
	if kind == Control {
		u.Class = highlight.Control
	}

	w := unitWidth(kind, width)
	if kind == Tab {
		w = s.tabWidth()
	}
	if wrap := int32(layout.Width); wrap > 0 && kind != Newline {
		indent := s.contIndent()
		if startsRun {
			runW, overflow, end := s.measure(int(wrap - indent))
			s.resolvedAt = end
			c.ctx.Overflow = overflow
			if !overflow && c.ctx.X+int32(runW) > wrap && c.ctx.X > indent {
				s.breakRow(indent)
			}
		}
		if c.ctx.X+int32(w) > wrap && c.ctx.X > indent {
			s.breakRow(indent)
			if kind == Tab {
				w = s.tabWidth()
			}
		}
	}

	u.Kind = kind
	u.Len = len(s.unit)
	u.Bytes = s.unit
	u.Width = w
	u.Row = c.row
	u.Col = int64(c.ctx.X)
	if u.Len == 1 && !u.Class.Quiet() {
		u.Bracket, u.Open = bracketOf(s.unit[0])
	}

	s.advance(&u)
	s.seq.Advance(u.Len)
	return u, true
}

// advance moves the cursor past an emitted unit.
func (s *scanner) advance(u *Unit) {
	c := &s.cur
	d := c.ctx.Detail &^ (rangetree.AtNewline | rangetree.Control | rangetree.InString | rangetree.InComment)
	switch u.Class {
	case highlight.String:
		d |= rangetree.InString
	case highlight.Comment:
		d |= rangetree.InComment
	}

	c.chars++
	switch u.Kind {
	case Newline:
		c.row++
		c.line++
		c.column = 0
		c.ctx.X = 0
		c.ctx.Indent = 0
		c.ctx.Overflow = false
		d = d&^rangetree.InWord | rangetree.InIndent | rangetree.AtNewline
	case Space, Tab:
		c.column++
		c.ctx.X += int32(u.Width)
		c.ctx.Overflow = false
		d &^= rangetree.InWord
		if d&rangetree.InIndent != 0 {
			c.ctx.Indent = c.ctx.X
		}
	default:
		c.column++
		c.ctx.X += int32(u.Width)
		d = d&^rangetree.InIndent | rangetree.InWord
		if u.Kind == Control {
			d |= rangetree.Control
		}
	}
	c.ctx.Detail = d

	if u.Bracket != NoBracket {
		k := u.Bracket.index()
		if u.Open {
			c.depth[k]++
		} else {
			c.depth[k]--
		}
		c.lo[k] = min(c.lo[k], c.depth[k])
		c.hi[k] = max(c.hi[k], c.depth[k])
	}
	c.offset += int64(u.Len)
}

// mark consumes n bytes of highlighter runs and returns the class of the
// first byte. Escape leaves bypass the highlighter.
func (s *scanner) mark(n int, escape bool) highlight.Class {
	if escape {
		return highlight.Escape
	}
	ctx := &s.cur.ctx
	class := highlight.Text
	for done := 0; done < n; {
		if ctx.RunLeft <= 0 {
			look := s.seq.Peek(done, s.m.window, true)
			if len(look) == 0 {
				break
			}
			st, run, cl := s.m.marker.Mark(highlight.State(ctx.HL), look)
			run = max(1, min(run, len(look)))
			ctx.HL, ctx.RunLeft, ctx.RunClass = uint32(st), int32(run), uint8(cl)
		}
		if done == 0 {
			class = highlight.Class(ctx.RunClass)
		}
		take := min(int32(n-done), ctx.RunLeft)
		ctx.RunLeft -= take
		done += int(take)
	}
	return class
}

// measure returns the width of the word run starting at the cursor, whether
// it is wider than limit, and the offset at which that became known.
func (s *scanner) measure(limit int) (int, bool, int64) {
	probe := s.seq
	probe.buf = s.scratch
	defer func() { s.scratch = probe.buf }()

	off := s.cur.offset
	width := 0
	for off-s.cur.offset < maxRunBytes && !probe.EOF() {
		cl, _, w, _ := uniseg.FirstGraphemeCluster(probe.Peek(0, s.m.window, false), -1)
		kind := unitKind(cl)
		if !isRun(kind) {
			return width, false, off
		}
		width += unitWidth(kind, w)
		off += int64(len(cl))
		if width > limit {
			return width, true, off
		}
		probe.Advance(len(cl))
	}
	return width, !probe.EOF(), off
}

// contIndent is the column continuation rows start at.
func (s *scanner) contIndent() int32 {
	l := s.m.layout
	if !l.AutoIndent {
		return 0
	}
	if ind := s.cur.ctx.Indent; ind*2 <= int32(l.Width) {
		return ind
	}
	return 0
}

func (s *scanner) breakRow(indent int32) {
	s.cur.row++
	s.cur.ctx.X = indent
}

func (s *scanner) tabWidth() int {
	tab := int32(s.m.layout.TabWidth)
	x := s.cur.ctx.X
	return int((x/tab+1)*tab - x)
}

func unitKind(cl []byte) UnitKind {
	switch {
	case len(cl) == 0:
		return EOF
	case cl[0] == '\n', len(cl) == 2 && cl[0] == '\r' && cl[1] == '\n':
		return Newline
	case cl[0] == '\t':
		return Tab
	case cl[0] == ' ' && len(cl) == 1:
		return Space
	case cl[0] < 0x20 || cl[0] == 0x7f:
		return Control
	}
	return Cluster
}

func isRun(k UnitKind) bool {
	return k == Cluster || k == Control
}

// unitWidth is the cell width of a unit other than a tab.
func unitWidth(k UnitKind, clusterWidth int) int {
	switch k {
	case Control:
		return 2
	case Cluster:
		return max(clusterWidth, 1)
	}
	return 1
}
