package position

import (
	"math"

	"github.com/dshills/quill/internal/engine/rangetree"
	"github.com/dshills/quill/internal/highlight"
)

// DefaultTabWidth is used when a layout leaves TabWidth unset.
const DefaultTabWidth = 8

// DefaultBracketLimit bounds bracket searches to this many bytes.
const DefaultBracketLimit = 1 << 20

// A saved continuation is reused only for targets this close to it.
const (
	resumeBytes = 4096
	resumeRows  = 4
)

// Layout holds the parameters that shape screen coordinates.
type Layout struct {
	Width      int // wrap column; 0 disables wrapping
	TabWidth   int
	AutoIndent bool
}

func (l Layout) normalize() Layout {
	if l.Width < 0 {
		l.Width = 0
	}
	if l.TabWidth < 1 {
		l.TabWidth = DefaultTabWidth
	}
	return l
}

// Mapper translates between coordinate systems over one tree. It is not
// safe for concurrent use.
type Mapper struct {
	tree   *rangetree.Tree
	marker highlight.Marker
	layout Layout

	gen          uint64
	bracketLimit int64
	window       int // decode and highlight lookahead

	last        cursor
	lastValid   bool
	lastVersion uint64
	lastGen     uint64
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithBracketLimit bounds bracket searches to n bytes from their origin.
func WithBracketLimit(n int64) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.bracketLimit = n
		}
	}
}

// New creates a mapper over t. A nil marker means plain text. The tree's
// visual cache is invalidated.
func New(t *rangetree.Tree, marker highlight.Marker, layout Layout, opts ...Option) *Mapper {
	if marker == nil {
		marker = highlight.PlainText
	}
	m := &Mapper{
		tree:         t,
		marker:       marker,
		layout:       layout.normalize(),
		bracketLimit: DefaultBracketLimit,
		window:       min(highlight.Window, max(t.Lookahead(), 1)),
	}
	for _, opt := range opts {
		opt(m)
	}
	t.InvalidateVisual()
	return m
}

// Tree returns the mapped tree.
func (m *Mapper) Tree() *rangetree.Tree {
	return m.tree
}

// Layout returns the current layout.
func (m *Mapper) Layout() Layout {
	return m.layout
}

// Marker returns the current highlighter.
func (m *Mapper) Marker() highlight.Marker {
	return m.marker
}

// SetLayout changes the layout and invalidates every cached summary.
func (m *Mapper) SetLayout(l Layout) {
	m.layout = l.normalize()
	m.invalidate()
}

// SetMarker changes the highlighter and invalidates every cached summary.
func (m *Mapper) SetMarker(marker highlight.Marker) {
	if marker == nil {
		marker = highlight.PlainText
	}
	m.marker = marker
	m.invalidate()
}

func (m *Mapper) invalidate() {
	m.gen++
	m.lastValid = false
	m.tree.InvalidateVisual()
}

// Refresh rescans dirty spans from the start of the document, skipping clean
// subtrees whole. It stops once a span starts beyond limit (a negative limit
// means the whole document) and reports true, or after scanning budget
// leaves and reports false.
func (m *Mapper) Refresh(limit int64, budget int) bool {
	var stop func(*cursor) bool
	if limit >= 0 {
		stop = func(c *cursor) bool { return c.offset > limit }
	}
	return m.refresh(stop, budget)
}

// Clean reports whether every cached summary is current.
func (m *Mapper) Clean() bool {
	root := m.tree.Root()
	if root == 0 {
		return true
	}
	v := m.tree.Visual(root)
	return !v.Dirty && v.Entry == rangetree.StartContext
}

// Rows returns the number of screen rows of the whole document.
func (m *Mapper) Rows() int64 {
	m.refresh(nil, math.MaxInt)
	return m.tree.Visual(m.tree.Root()).Rows + 1
}

type walkStatus uint8

const (
	walkOn walkStatus = iota
	walkStopped
	walkExhausted
)

type refresher struct {
	m      *Mapper
	stop   func(*cursor) bool
	budget int
}

func (m *Mapper) refresh(stop func(*cursor) bool, budget int) bool {
	root := m.tree.Root()
	if root == 0 {
		return true
	}
	r := refresher{m: m, stop: stop, budget: budget}
	c := startCursor()
	return r.node(root, &c) != walkExhausted
}

func (r *refresher) node(id rangetree.NodeID, c *cursor) walkStatus {
	if r.stop != nil && r.stop(c) {
		return walkStopped
	}
	t := r.m.tree
	if v := t.Visual(id); !v.Dirty && v.Entry == c.ctx {
		*c = c.fold(v, t.Length(id))
		return walkOn
	}
	if t.IsLeaf(id) {
		if r.budget <= 0 {
			return walkExhausted
		}
		r.budget--
		*c = r.m.scanSpan(id, *c)
		return walkOn
	}
	if s := r.node(t.Left(id), c); s != walkOn {
		return s
	}
	return r.node(t.Right(id), c)
}

// scanSpan scans the span of leaf entered at start, stores its summary and
// returns the cursor at the span end.
func (m *Mapper) scanSpan(leaf rangetree.NodeID, start cursor) cursor {
	start.resetRange()
	leafEnd := start.offset + start.ctx.Pending + m.tree.Length(leaf)
	s := m.newScanner(start)
	for s.cur.offset < leafEnd {
		if _, ok := s.step(); !ok {
			break
		}
	}
	end := s.cur
	if s.inRun() && s.resolvedAt > leafEnd {
		end = s.runSnap
	}
	end.ctx.Pending = leafEnd - end.offset
	m.tree.SetVisual(leaf, summarize(start, end))
	return end
}

// reached reports whether the target of q lies before c.
func (q *Query) reached(c *cursor) bool {
	switch q.Kind {
	case ByXY:
		return c.row > q.Row
	case ByLineCol:
		return c.line > q.Line
	}
	return c.offset > q.Offset
}

// within reports whether a span starting at c can hold the target of q.
func (q *Query) within(c *cursor) bool {
	switch q.Kind {
	case ByXY:
		return before(c.row, int64(c.ctx.X), q.Row, q.Col)
	case ByLineCol:
		return before(c.line, c.column, q.Line, q.Column)
	}
	return c.offset <= q.Offset
}

// locate refreshes the summaries up to the target of q and returns the
// cursor at the start of the last span starting at or before it.
func (m *Mapper) locate(q Query) cursor {
	m.refresh(q.reached, math.MaxInt)
	t := m.tree
	c := startCursor()
	id := t.Root()
	for id != 0 && !t.IsLeaf(id) {
		l := t.Left(id)
		v := t.Visual(l)
		if v.Dirty || v.Entry != c.ctx {
			id = l
			continue
		}
		if next := c.fold(v, t.Length(l)); q.within(&next) {
			c = next
			id = t.Right(id)
		} else {
			id = l
		}
	}
	return c
}

// resume returns the saved continuation when q lies shortly after it.
func (m *Mapper) resume(q Query) (cursor, bool) {
	if !m.lastValid || m.lastVersion != m.tree.Version() || m.lastGen != m.gen {
		return cursor{}, false
	}
	c := m.last
	switch q.Kind {
	case ByOffset:
		return c, q.Offset >= c.offset && q.Offset-c.offset <= resumeBytes
	case ByXY:
		return c, before(c.row, int64(c.ctx.X), q.Row, q.Col) && q.Row-c.row <= resumeRows
	case ByLineCol:
		return c, before(c.line, c.column, q.Line, q.Column) && q.Line-c.line <= resumeRows
	}
	return c, false
}

// Seek returns the unit that satisfies q, or a Result with Found false.
func (m *Mapper) Seek(q Query) Result {
	if q.Kind == ByBracket {
		return m.seekBracket(q)
	}
	q.Offset = max(q.Offset, 0)
	q.Row, q.Col = max(q.Row, 0), max(q.Col, 0)
	q.Line, q.Column = max(q.Line, 0), max(q.Column, 0)

	c, ok := m.resume(q)
	if !ok {
		c = m.locate(q)
	}
	return m.scan(c, q, true)
}

// scan steps from c until q is satisfied. With fallback set, an XY target
// whose row ends before the scan's first unit is resolved by reseeking.
func (m *Mapper) scan(c cursor, q Query, fallback bool) Result {
	s := m.newScanner(c)
	var (
		prev    Unit
		prevCur cursor
		hasPrev bool
	)
	for {
		at := s.cur
		u, ok := s.step()
		if q.Limit > 0 && u.Offset >= q.Limit {
			return Result{}
		}
		switch q.Kind {
		case ByOffset:
			if !ok || u.Offset+int64(u.Len) > q.Offset {
				return m.result(&u, at)
			}
		case ByXY:
			if u.Row > q.Row {
				if hasPrev {
					return m.result(&prev, prevCur)
				}
				if fallback {
					return m.seekRowEnd(q)
				}
				return Result{}
			}
			if u.Row == q.Row && (!ok || u.Kind == Newline || u.Col+int64(max(u.Width, 1)) > q.Col) {
				return m.result(&u, at)
			}
		case ByLineCol:
			if u.Line == q.Line && (!ok || u.Kind == Newline || u.Column >= q.Column) {
				return m.result(&u, at)
			}
		}
		if !ok {
			return Result{}
		}
		prev, prevCur, hasPrev = u, at, true
	}
}

// seekRowEnd resolves an XY target past the end of a wrapped row to the last
// unit of that row.
func (m *Mapper) seekRowEnd(q Query) Result {
	next := XY(q.Row+1, 0)
	r := m.scan(m.locate(next), next, false)
	if !r.Found || r.Offset == 0 {
		return Result{}
	}
	r = m.Seek(Offset(r.Offset - 1))
	if !r.Found || r.Row != q.Row {
		return Result{}
	}
	return r
}

// result builds a Result for u, scanned from c, and saves c as the
// continuation.
func (m *Mapper) result(u *Unit, c cursor) Result {
	m.last, m.lastValid = c, true
	m.lastVersion, m.lastGen = m.tree.Version(), m.gen
	return Result{
		Found:   true,
		Offset:  u.Offset,
		Len:     u.Len,
		Row:     u.Row,
		Col:     u.Col,
		Line:    u.Line,
		Column:  u.Column,
		Depth:   u.Depth,
		Width:   u.Width,
		Class:   u.Class,
		Kind:    u.Kind,
		Bracket: u.Bracket,
		Open:    u.Open,
		Leaf:    u.Leaf,
		Disp:    u.Disp,
		cur:     c,
		version: m.lastVersion,
		gen:     m.gen,
	}
}

// Walk visits units starting with the one at from until fn returns false or
// the end of the document is reached. The final unit passed is always the
// EOF unit. A stale result is reseeked by offset first.
func (m *Mapper) Walk(from Result, fn func(Unit) bool) {
	if !from.Found {
		return
	}
	c := from.cur
	if from.version != m.tree.Version() || from.gen != m.gen {
		r := m.Seek(Offset(from.Offset))
		if !r.Found {
			return
		}
		c = r.cur
	}
	s := m.newScanner(c)
	for {
		u, ok := s.step()
		if !fn(u) || !ok {
			return
		}
	}
}
