package position

import "github.com/dshills/quill/internal/engine/rangetree"

// cursor is the complete scan state before a unit.
type cursor struct {
	ctx    rangetree.Context
	offset int64

	row    int64
	line   int64
	column int64
	chars  int64

	depth [rangetree.NumBrackets]int32
	lo    [rangetree.NumBrackets]int32 // extremes since the last reset
	hi    [rangetree.NumBrackets]int32
}

func startCursor() cursor {
	return cursor{ctx: rangetree.StartContext}
}

// resetRange starts a new bracket range at the current depth.
func (c *cursor) resetRange() {
	c.lo = c.depth
	c.hi = c.depth
}

// fold advances a cursor positioned at the start of a node's span past the
// whole node, using its cached summary.
func (c cursor) fold(v rangetree.VisualInfo, length int64) cursor {
	c.offset += v.Entry.Pending + length - v.Exit.Pending
	c.row += v.Rows
	c.line += v.Lines
	if v.Lines > 0 {
		c.column = v.Cols
	} else {
		c.column += v.Cols
	}
	c.chars += v.Chars
	for k, b := range v.Brackets {
		c.lo[k] = min(c.lo[k], c.depth[k]+b.Min)
		c.hi[k] = max(c.hi[k], c.depth[k]+b.Max)
		c.depth[k] += b.Delta
	}
	c.ctx = v.Exit
	return c
}

// summarize builds the cached record for the span scanned from a to b.
// a's bracket range must have been reset.
func summarize(a, b cursor) rangetree.VisualInfo {
	v := rangetree.VisualInfo{
		Entry: a.ctx,
		Exit:  b.ctx,
		Rows:  b.row - a.row,
		Lines: b.line - a.line,
		Chars: b.chars - a.chars,
	}
	if v.Lines > 0 {
		v.Cols = b.column
	} else {
		v.Cols = b.chars - a.chars
	}
	for k := range v.Brackets {
		v.Brackets[k] = rangetree.BracketRange{
			Delta: b.depth[k] - a.depth[k],
			Min:   b.lo[k] - a.depth[k],
			Max:   b.hi[k] - a.depth[k],
		}
	}
	return v
}

// aligned reports whether c sits exactly at the start of a span cached as v
// for a leaf beginning at leafOff, in the state the cache was built from.
func (c cursor) aligned(v rangetree.VisualInfo, leafOff int64) bool {
	if v.Dirty || c.offset != leafOff-v.Entry.Pending {
		return false
	}
	ctx := c.ctx
	ctx.Pending = v.Entry.Pending
	return ctx == v.Entry
}

// before reports whether (a1, a2) <= (b1, b2) lexicographically.
func before(a1, a2, b1, b2 int64) bool {
	return a1 < b1 || (a1 == b1 && a2 <= b2)
}
