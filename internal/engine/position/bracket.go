package position

import (
	"math"

	"github.com/dshills/quill/internal/engine/rangetree"
)

// seekBracket finds the nearest bracket of q.Bracket whose outer depth is
// q.Depth. Forward searches start at q.From inclusive, backward searches end
// before it.
func (m *Mapper) seekBracket(q Query) Result {
	if !q.Bracket.valid() || m.tree.Empty() {
		return Result{}
	}
	q.From = max(q.From, 0)
	if q.Forward {
		return m.bracketForward(q)
	}
	return m.bracketBackward(q)
}

func (m *Mapper) bracketForward(q Query) Result {
	t := m.tree
	k := q.Bracket.index()
	limit := q.From + m.bracketLimit
	if q.Limit > 0 {
		limit = min(limit, q.Limit)
	}
	m.Refresh(limit, math.MaxInt)

	r := m.Seek(Offset(q.From))
	if !r.Found {
		return Result{}
	}
	s := m.newScanner(r.cur)
	next := t.Next(r.Leaf)
	nextOff := t.OffsetOf(r.Leaf) + t.Length(r.Leaf)

	for {
		// Fold whole spans that cannot hold the target.
		for next != 0 {
			v := t.Visual(next)
			if s.cur.offset < nextOff-v.Entry.Pending {
				break
			}
			if s.cur.aligned(v, nextOff) && !v.Brackets[k].Contains(s.cur.depth[k], q.Depth) {
				s.cur = s.cur.fold(v, t.Length(next))
				s.seq.Seek(s.cur.offset)
			}
			nextOff += t.Length(next)
			next = t.Next(next)
		}

		at := s.cur
		u, ok := s.step()
		if !ok || u.Offset >= limit {
			return Result{}
		}
		if u.Offset >= q.From && u.Bracket == q.Bracket && u.outer() == q.Depth {
			return m.result(&u, at)
		}
	}
}

func (m *Mapper) bracketBackward(q Query) Result {
	t := m.tree
	k := q.Bracket.index()
	floor := q.From - m.bracketLimit
	m.Refresh(q.From, math.MaxInt)

	leaf, _ := t.FindOffset(q.From)
	for ; leaf != 0; leaf = t.Prev(leaf) {
		v := t.Visual(leaf)
		if v.Dirty {
			continue
		}
		leafOff := t.OffsetOf(leaf)
		start := leafOff - v.Entry.Pending
		end := leafOff + t.Length(leaf) - v.Exit.Pending
		if start >= q.From {
			continue
		}
		if end <= floor {
			break
		}
		c := m.spanCursor(leaf)
		if !v.Brackets[k].Contains(c.depth[k], q.Depth) {
			continue
		}
		if r := m.lastBracket(c, min(q.From, end), q); r.Found {
			return r
		}
	}
	return Result{}
}

// lastBracket scans from c up to stop and returns the last matching bracket.
func (m *Mapper) lastBracket(c cursor, stop int64, q Query) Result {
	s := m.newScanner(c)
	var (
		hit   Unit
		hitAt cursor
		found bool
	)
	for s.cur.offset < stop {
		at := s.cur
		u, ok := s.step()
		if !ok {
			break
		}
		if u.Bracket == q.Bracket && u.outer() == q.Depth {
			hit, hitAt, found = u, at, true
		}
	}
	if !found {
		return Result{}
	}
	return m.result(&hit, hitAt)
}

// spanCursor returns the cursor at the start of a clean leaf's span by
// folding the summaries of everything to its left.
func (m *Mapper) spanCursor(leaf rangetree.NodeID) cursor {
	t := m.tree
	var path []rangetree.NodeID
	for id := leaf; t.Parent(id) != 0; id = t.Parent(id) {
		path = append(path, id)
	}
	c := startCursor()
	parent := t.Root()
	for i := len(path) - 1; i >= 0; i-- {
		if id := path[i]; t.Right(parent) == id {
			l := t.Left(parent)
			c = c.fold(t.Visual(l), t.Length(l))
		}
		parent = path[i]
	}
	return c
}

// Match returns the bracket paired with the one at off, or a Result with
// Found false when off holds no bracket or its partner is out of reach.
func (m *Mapper) Match(off int64) Result {
	r := m.Seek(Offset(off))
	if !r.Found || r.Bracket == NoBracket {
		return Result{}
	}
	depth := r.DepthOf(r.Bracket)
	if r.Open {
		return m.Seek(Bracket(r.Bracket, depth, r.Offset+int64(r.Len), true))
	}
	return m.Seek(Bracket(r.Bracket, depth-1, r.Offset, false))
}
