package highlight

import "bytes"

// Patch states: at the start of a line, or inside a line whose class is
// carried in the low bits.
const (
	patchLineStart State = 0
	patchInLine    State = 1 << 8
)

// Patch highlights unified diffs line by line.
var Patch Marker = patchMarker{}

type patchMarker struct{}

func (patchMarker) Mark(state State, look []byte) (State, int, Class) {
	return markPatch(state, look)
}

func markPatch(state State, look []byte) (State, int, Class) {
	class := Class(state)
	if state&patchInLine == 0 {
		class = patchLineClass(look)
	}
	n, eol := lineEnd(look)
	if eol {
		return patchLineStart, n, class
	}
	return patchInLine | State(class), n, class
}

func patchLineClass(look []byte) Class {
	switch {
	case bytes.HasPrefix(look, []byte("+++")), bytes.HasPrefix(look, []byte("---")),
		bytes.HasPrefix(look, []byte("diff ")), bytes.HasPrefix(look, []byte("index ")):
		return Keyword
	case look[0] == '@':
		return Heading
	case look[0] == '+':
		return Inserted
	case look[0] == '-':
		return Deleted
	case look[0] == '\\':
		return Comment
	}
	return Text
}
