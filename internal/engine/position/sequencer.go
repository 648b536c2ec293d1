package position

import "github.com/dshills/quill/internal/engine/rangetree"

// Sequencer streams bytes from the tree starting at a (leaf, displacement)
// pair. Peeks that fit inside the current leaf return the leaf's own bytes;
// peeks that cross leaves are assembled in a reusable buffer.
type Sequencer struct {
	tree *rangetree.Tree
	leaf rangetree.NodeID
	disp int64
	pos  int64
	buf  []byte
}

// NewSequencer creates a sequencer positioned at off.
func NewSequencer(t *rangetree.Tree, off int64) *Sequencer {
	s := &Sequencer{tree: t}
	s.Seek(off)
	return s
}

// Seek repositions the sequencer. Offsets are clamped.
func (s *Sequencer) Seek(off int64) {
	s.leaf, s.disp = s.tree.FindOffset(off)
	s.pos = s.tree.OffsetOf(s.leaf) + s.disp
	if s.leaf == 0 {
		s.pos = 0
	}
}

// Pos returns the absolute offset of the next byte.
func (s *Sequencer) Pos() int64 {
	return s.pos
}

// Leaf returns the leaf holding the next byte and the displacement into it.
// At the end of the document it is the last leaf with disp equal to its length.
func (s *Sequencer) Leaf() (rangetree.NodeID, int64) {
	return s.leaf, s.disp
}

// EOF reports whether no bytes remain.
func (s *Sequencer) EOF() bool {
	return s.leaf == 0 || s.disp >= s.tree.Length(s.leaf)
}

// Escape reports whether the next byte lies in an escape leaf.
func (s *Sequencer) Escape() bool {
	return s.tree.Flags(s.leaf).Has(rangetree.Escape)
}

// Advance moves forward n bytes.
func (s *Sequencer) Advance(n int) {
	for n > 0 && s.leaf != 0 {
		rem := s.tree.Length(s.leaf) - s.disp
		if int64(n) < rem {
			s.disp += int64(n)
			s.pos += int64(n)
			return
		}
		n -= int(rem)
		s.pos += rem
		next := s.tree.Next(s.leaf)
		if next == 0 {
			s.disp += rem
			return
		}
		s.leaf, s.disp = next, 0
	}
}

// Peek returns up to n bytes starting skip bytes ahead. A shorter result
// means the end of the document or, with plain set, the start of a leaf
// whose escape flag differs from the first byte's. The slice is valid until
// the next Peek.
func (s *Sequencer) Peek(skip, n int, plain bool) []byte {
	leaf, disp := s.leaf, s.disp
	for leaf != 0 {
		if rem := s.tree.Length(leaf) - disp; int64(skip) < rem {
			break
		} else {
			skip -= int(rem)
		}
		leaf, disp = s.tree.Next(leaf), 0
	}
	if leaf == 0 {
		return nil
	}
	disp += int64(skip)

	b := s.tree.LeafBytes(leaf)[disp:]
	if len(b) >= n {
		return b[:n]
	}
	escape := s.tree.Flags(leaf).Has(rangetree.Escape)
	s.buf = append(s.buf[:0], b...)
	for leaf = s.tree.Next(leaf); leaf != 0 && len(s.buf) < n; leaf = s.tree.Next(leaf) {
		if plain && s.tree.Flags(leaf).Has(rangetree.Escape) != escape {
			break
		}
		b = s.tree.LeafBytes(leaf)
		s.buf = append(s.buf, b[:min(len(b), n-len(s.buf))]...)
	}
	return s.buf
}
