package position

import (
	"github.com/dshills/quill/internal/engine/rangetree"
	"github.com/dshills/quill/internal/highlight"
)

// Kind selects the coordinate system of a Query.
type Kind uint8

// Query kinds.
const (
	ByOffset Kind = iota
	ByXY
	ByLineCol
	ByBracket
)

// BracketKind identifies a bracket pair.
type BracketKind uint8

// Bracket kinds.
const (
	NoBracket BracketKind = iota
	Paren                 // ()
	Square                // []
	Curly                 // {}
)

// index returns the slot of k in per-kind arrays.
func (k BracketKind) index() int {
	return int(k) - 1
}

func (k BracketKind) valid() bool {
	return k >= Paren && k <= Curly
}

// bracketOf classifies a single-byte unit.
func bracketOf(b byte) (BracketKind, bool) {
	switch b {
	case '(':
		return Paren, true
	case ')':
		return Paren, false
	case '[':
		return Square, true
	case ']':
		return Square, false
	case '{':
		return Curly, true
	case '}':
		return Curly, false
	}
	return NoBracket, false
}

// Query is a seek target.
type Query struct {
	Kind Kind

	Offset int64 // ByOffset

	Row int64 // ByXY
	Col int64

	Line   int64 // ByLineCol
	Column int64

	Bracket BracketKind // ByBracket
	Depth   int32
	From    int64
	Forward bool

	// Limit, when positive, bounds the scan: units at or beyond it are
	// never returned.
	Limit int64
}

// Offset seeks the unit containing byte offset o.
func Offset(o int64) Query {
	return Query{Kind: ByOffset, Offset: o}
}

// XY seeks the unit drawn at the wrapped screen position.
func XY(row, col int64) Query {
	return Query{Kind: ByXY, Row: row, Col: col}
}

// LineCol seeks the unit at a logical line and cluster column.
func LineCol(line, col int64) Query {
	return Query{Kind: ByLineCol, Line: line, Column: col}
}

// Bracket seeks the nearest bracket of kind whose outer depth is depth,
// forward from offset from (inclusive) or backward (exclusive).
func Bracket(kind BracketKind, depth int32, from int64, forward bool) Query {
	return Query{Kind: ByBracket, Bracket: kind, Depth: depth, From: from, Forward: forward}
}

// WithLimit returns q bounded to units before off.
func (q Query) WithLimit(off int64) Query {
	q.Limit = off
	return q
}

// UnitKind classifies an emitted unit.
type UnitKind uint8

// Unit kinds.
const (
	Cluster UnitKind = iota
	Space
	Tab
	Newline
	Control
	EOF
)

// Unit is one emitted grapheme cluster with every coordinate of its first
// byte.
type Unit struct {
	Kind   UnitKind
	Offset int64
	Len    int
	Bytes  []byte // valid only during a Walk callback

	Row int64 // wrapped screen row
	Col int64 // screen column

	Line   int64
	Column int64 // clusters since the line start

	Width   int // cells
	Class   highlight.Class
	Detail  rangetree.Detail
	Depth   [rangetree.NumBrackets]int32 // before the unit
	Bracket BracketKind
	Open    bool

	Leaf rangetree.NodeID
	Disp int64
}

// outer returns the outer depth of a bracket unit.
func (u *Unit) outer() int32 {
	d := u.Depth[u.Bracket.index()]
	if !u.Open {
		d--
	}
	return d
}

// Result is a seek result. Found is false for a target that does not exist;
// the other fields are then zero.
type Result struct {
	Found bool

	Offset int64
	Len    int
	Row    int64
	Col    int64
	Line   int64
	Column int64
	Depth  [rangetree.NumBrackets]int32
	Width  int
	Class  highlight.Class
	Kind   UnitKind

	Bracket BracketKind
	Open    bool

	Leaf rangetree.NodeID
	Disp int64

	cur     cursor
	version uint64
	gen     uint64
}

// DepthOf returns the depth of kind just before the result.
func (r Result) DepthOf(kind BracketKind) int32 {
	if !kind.valid() {
		return 0
	}
	return r.Depth[kind.index()]
}
