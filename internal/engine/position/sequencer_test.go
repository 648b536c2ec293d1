package position

import (
	"testing"

	"github.com/dshills/quill/internal/engine/rangetree"
)

// threeLeaves returns "abc" + escaped "XYZ" + "def" in three leaves.
func threeLeaves(t *testing.T) *rangetree.Tree {
	t.Helper()
	tr := rangetree.New()
	tr.InsertSplit(0, []byte("abc"), 0, nil)
	tr.InsertSplit(3, []byte("XYZ"), rangetree.Escape, nil)
	tr.InsertSplit(6, []byte("def"), 0, nil)
	if tr.LeafCount() != 3 || tr.String() != "abcXYZdef" {
		t.Fatalf("setup: %d leaves %q", tr.LeafCount(), tr.String())
	}
	return tr
}

func TestSequencerPeek(t *testing.T) {
	tr := threeLeaves(t)
	tests := []struct {
		name  string
		at    int64
		skip  int
		n     int
		plain bool
		want  string
	}{
		{"inside leaf", 0, 0, 2, false, "ab"},
		{"across leaves", 1, 0, 10, false, "bcXYZdef"},
		{"plain stops at escape", 1, 0, 10, true, "bc"},
		{"skip into escape", 1, 2, 3, true, "XYZ"},
		{"skip across escape plain", 4, 0, 10, true, "YZ"},
		{"skip past end", 7, 5, 4, false, ""},
		{"at end", 9, 0, 4, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSequencer(tr, tt.at)
			if got := string(s.Peek(tt.skip, tt.n, tt.plain)); got != tt.want {
				t.Errorf("Peek(%d, %d, %v) = %q, want %q", tt.skip, tt.n, tt.plain, got, tt.want)
			}
		})
	}
}

func TestSequencerAdvance(t *testing.T) {
	tr := threeLeaves(t)
	s := NewSequencer(tr, 0)
	s.Advance(4)
	if s.Pos() != 4 || !s.Escape() {
		t.Errorf("after Advance(4): pos %d escape %v", s.Pos(), s.Escape())
	}
	if _, disp := s.Leaf(); disp != 1 {
		t.Errorf("disp = %d, want 1", disp)
	}
	s.Advance(2)
	if s.Pos() != 6 || s.Escape() {
		t.Errorf("after Advance(2): pos %d escape %v", s.Pos(), s.Escape())
	}
	s.Advance(10)
	if !s.EOF() || s.Pos() != 9 {
		t.Errorf("after overrun: pos %d eof %v", s.Pos(), s.EOF())
	}
	s.Seek(-5)
	if s.Pos() != 0 || s.EOF() {
		t.Errorf("Seek(-5): pos %d eof %v", s.Pos(), s.EOF())
	}
}

func TestSequencerEmptyTree(t *testing.T) {
	s := NewSequencer(rangetree.New(), 3)
	if !s.EOF() || s.Pos() != 0 || s.Peek(0, 4, false) != nil {
		t.Errorf("empty tree sequencer not at EOF")
	}
	s.Advance(1)
	if s.Pos() != 0 {
		t.Errorf("Advance on empty tree moved to %d", s.Pos())
	}
}
