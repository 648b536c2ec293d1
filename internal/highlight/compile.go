package highlight

import "bytes"

// Compile states.
const (
	compileLineStart State = iota
	compileMessage
	compilePlain
)

// Compile highlights compiler and linter output of the form
// "path:line[:col]: message". The location is marked as Location and the
// rest of the line as Error; other lines are plain text.
var Compile Marker = compileMarker{}

type compileMarker struct{}

func (compileMarker) Mark(state State, look []byte) (State, int, Class) {
	return markCompile(state, look)
}

func markCompile(state State, look []byte) (State, int, Class) {
	switch state {
	case compileMessage, compilePlain:
		class := Text
		if state == compileMessage {
			class = Error
		}
		n, eol := lineEnd(look)
		if eol {
			return compileLineStart, n, class
		}
		return state, n, class
	}

	if n := locationLen(look); n > 0 {
		return compileMessage, n, Location
	}
	return markCompile(compilePlain, look)
}

// locationLen returns the length of a "path:line:" or "path:line:col:"
// prefix, or 0 when look does not start with one.
func locationLen(look []byte) int {
	if len(look) == 0 || look[0] == ' ' || look[0] == '\t' {
		return 0
	}
	line := look
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return 0
	}
	n := colon + 1
	for fields := 0; fields < 2; fields++ {
		d := 0
		for n+d < len(line) && line[n+d] >= '0' && line[n+d] <= '9' {
			d++
		}
		if d == 0 || n+d >= len(line) || line[n+d] != ':' {
			if fields == 0 {
				return 0
			}
			break
		}
		n += d + 1
	}
	return n
}
