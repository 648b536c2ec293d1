package rangetree

// Detail is the lexer-state bitmask folded across leaf boundaries by the scanner.
type Detail uint8

const (
	// InString is set inside a quoted string.
	InString Detail = 1 << iota

	// InComment is set inside a comment.
	InComment

	// InIndent is set while only whitespace has been seen on the line.
	InIndent

	// AtNewline is set when the previous unit was a newline.
	AtNewline

	// InWord is set inside a run of non-space units.
	InWord

	// Control is set when the previous unit was a control character.
	Control
)

// Context is the complete scanner state at a span boundary. Two contexts
// compare equal exactly when a scan resumed from either would emit the same
// units with the same coordinates.
type Context struct {
	X        int32 // screen column
	Indent   int32 // indentation width of the current line
	Detail   Detail
	Overflow bool // inside a non-space run wider than a row

	HL       uint32 // highlighter state
	RunLeft  int32  // bytes left in the current highlight run
	RunClass uint8  // class of the current highlight run

	// Pending is the signed distance from the leaf start back to where the
	// leaf's span begins. A positive value carries an unresolved word run
	// into the leaf; a negative value means the leaf's first bytes belong to
	// a unit that straddled the boundary.
	Pending int64
}

// StartContext is the state at offset zero.
var StartContext = Context{Detail: InIndent | AtNewline}

// NumBrackets is the number of tracked bracket kinds: (), [] and {}.
const NumBrackets = 3

// BracketRange summarizes the nesting depths reached across a span, relative
// to the depth at the span start. Min and Max always include zero.
type BracketRange struct {
	Delta int32
	Min   int32
	Max   int32
}

// Then composes a with the range of the span that follows it.
func (a BracketRange) Then(b BracketRange) BracketRange {
	return BracketRange{
		Delta: a.Delta + b.Delta,
		Min:   min(a.Min, a.Delta+b.Min),
		Max:   max(a.Max, a.Delta+b.Max),
	}
}

// Contains reports whether a span entered at depth base can hold a bracket
// whose outer depth is target.
func (a BracketRange) Contains(base, target int32) bool {
	return target >= base+a.Min && target <= base+a.Max
}

// VisualInfo is the cached scan summary of a span.
type VisualInfo struct {
	Dirty bool

	Entry Context
	Exit  Context

	Rows  int64 // row breaks, newlines included
	Lines int64 // newlines
	Cols  int64 // clusters after the last newline, or all clusters if none
	Chars int64 // clusters

	Brackets [NumBrackets]BracketRange
}

// Then composes v with the span that immediately follows it. The result is
// dirty if either side is, or if the contexts do not line up.
func (v VisualInfo) Then(r VisualInfo) VisualInfo {
	out := VisualInfo{
		Dirty: v.Dirty || r.Dirty || v.Exit != r.Entry,
		Entry: v.Entry,
		Exit:  r.Exit,
		Rows:  v.Rows + r.Rows,
		Lines: v.Lines + r.Lines,
		Chars: v.Chars + r.Chars,
	}
	if r.Lines > 0 {
		out.Cols = r.Cols
	} else {
		out.Cols = v.Cols + r.Cols
	}
	for k := range out.Brackets {
		out.Brackets[k] = v.Brackets[k].Then(r.Brackets[k])
	}
	return out
}

// Visual returns the cached info of a node.
func (t *Tree) Visual(id NodeID) VisualInfo {
	if id == 0 {
		return VisualInfo{}
	}
	return t.nodes[id].visual
}

// SetVisual stores a freshly scanned summary on a leaf and recomposes its
// ancestors. The stored record is clean.
func (t *Tree) SetVisual(leaf NodeID, v VisualInfo) {
	if !t.IsLeaf(leaf) {
		return
	}
	v.Dirty = false
	t.nodes[leaf].visual = v
	t.fixUp(leaf)
}

// InvalidateVisual marks every node dirty. Used when layout parameters change.
func (t *Tree) InvalidateVisual() {
	for i := 1; i < len(t.nodes); i++ {
		t.nodes[i].visual.Dirty = true
	}
}

// markDirty dirties a leaf and recomposes its ancestors.
func (t *Tree) markDirty(leaf NodeID) {
	t.nodes[leaf].visual.Dirty = true
	t.fixUp(leaf)
}

// invalidate dirties the leaves an edit of [start, end) can affect: those
// overlapping the edit or within the lookahead window before it, and every
// following leaf whose span begins inside a dirtied one.
func (t *Tree) invalidate(start, end int64) {
	if t.root == 0 {
		return
	}
	leaf, _ := t.FindOffset(start - t.lookahead)
	pos := t.OffsetOf(leaf)
	for leaf != 0 && pos <= end {
		t.markDirty(leaf)
		pos += t.nodes[leaf].length
		leaf = t.Next(leaf)
	}
	for leaf != 0 && t.nodes[leaf].visual.Entry.Pending != 0 {
		t.markDirty(leaf)
		leaf = t.Next(leaf)
	}
}
