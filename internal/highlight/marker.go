package highlight

// Window is the largest lookahead a marker is given. A shorter slice means
// the end of the document, unless the mapper was built over a tree whose
// lookahead is below Window; then every slice is capped at that lookahead.
const Window = 64

// State is a marker's opaque lexer state. Zero is the state at offset zero.
type State uint32

// Marker splits text into coloured runs.
//
// Mark returns the state after the run, the run length in bytes, and its
// class. look is never empty and the returned length is in [1, len(look)].
type Marker interface {
	Mark(state State, look []byte) (State, int, Class)
}

type plainText struct{}

func (plainText) Mark(state State, look []byte) (State, int, Class) {
	return 0, len(look), Text
}

// PlainText marks everything as Text in a single run.
var PlainText Marker = plainText{}

// lineEnd returns the length of the run up to and including the first
// newline in look, or the whole of look.
func lineEnd(look []byte) (int, bool) {
	for i, b := range look {
		if b == '\n' {
			return i + 1, true
		}
	}
	return len(look), false
}
