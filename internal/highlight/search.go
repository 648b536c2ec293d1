package highlight

import "bytes"

// Search marks every occurrence of a term. Terms longer than Window are
// truncated to it. A term longer than the lookahead the marker is actually
// given never matches.
type Search struct {
	term []byte
	fold bool
}

// NewSearch creates a search marker. With fold set, ASCII letters match
// regardless of case.
func NewSearch(term string, fold bool) *Search {
	b := []byte(term)
	if len(b) > Window {
		b = b[:Window]
	}
	if fold {
		b = bytes.ToLower(b)
	}
	return &Search{term: b, fold: fold}
}

// Term returns the search term.
func (s *Search) Term() string {
	return string(s.term)
}

// Mark implements Marker.
func (s *Search) Mark(state State, look []byte) (State, int, Class) {
	if len(s.term) == 0 {
		return 0, len(look), Text
	}
	i := s.index(look)
	switch {
	case i == 0:
		return 0, len(s.term), Match
	case i > 0:
		return 0, i, Text
	}
	return 0, holdBack(look, len(s.term)), Text
}

func (s *Search) index(look []byte) int {
	if !s.fold {
		return bytes.Index(look, s.term)
	}
	for i := 0; i+len(s.term) <= len(look); i++ {
		if foldPrefix(look[i:], s.term) {
			return i
		}
	}
	return -1
}

func foldPrefix(b, lower []byte) bool {
	for i, c := range lower {
		x := b[i]
		if x >= 'A' && x <= 'Z' {
			x += 'a' - 'A'
		}
		if x != c {
			return false
		}
	}
	return true
}
