package rangetree

import (
	"bytes"
	"io"
)

// Block size and invalidation defaults.
const (
	// DefaultMinBlock is the leaf size below which neighbours are merged.
	DefaultMinBlock = 256

	// DefaultMaxBlock is the largest leaf compaction or chunking will produce.
	DefaultMaxBlock = 4096

	// DefaultLookahead is how many bytes before an edit are invalidated,
	// matching the highlighter lookahead window.
	DefaultLookahead = 64
)

// Tree is an arena-backed balanced range tree.
type Tree struct {
	nodes   []node // index 0 is the nil slot
	free    []NodeID
	root    NodeID
	version uint64

	minBlock  int
	maxBlock  int
	lookahead int64
}

// Option configures a Tree.
type Option func(*Tree)

// WithBlockSizes sets the compaction thresholds. Invalid pairs are ignored.
func WithBlockSizes(minBlock, maxBlock int) Option {
	return func(t *Tree) {
		if minBlock > 0 && maxBlock >= minBlock {
			t.minBlock = minBlock
			t.maxBlock = maxBlock
		}
	}
}

// WithLookahead sets the backward invalidation distance in bytes.
func WithLookahead(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.lookahead = int64(n)
		}
	}
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		nodes:     make([]node, 1, 64),
		minBlock:  DefaultMinBlock,
		maxBlock:  DefaultMaxBlock,
		lookahead: DefaultLookahead,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// options returns options reproducing this tree's configuration.
func (t *Tree) options() []Option {
	return []Option{
		WithBlockSizes(t.minBlock, t.maxBlock),
		WithLookahead(int(t.lookahead)),
	}
}

// Root returns the current root handle, or 0 for an empty tree.
func (t *Tree) Root() NodeID {
	return t.root
}

// Version increases on every mutation.
func (t *Tree) Version() uint64 {
	return t.version
}

// Lookahead returns the backward invalidation distance in bytes.
func (t *Tree) Lookahead() int {
	return int(t.lookahead)
}

// BlockSizes returns the minimum and maximum block sizes.
func (t *Tree) BlockSizes() (int, int) {
	return t.minBlock, t.maxBlock
}

// Len returns the total byte length.
func (t *Tree) Len() int64 {
	return t.Length(t.root)
}

// Lines returns the number of newline bytes.
func (t *Tree) Lines() int64 {
	return t.LineCount(t.root)
}

// Runes returns the number of UTF-8 sequences.
func (t *Tree) Runes() int64 {
	if t.root == 0 {
		return 0
	}
	return t.nodes[t.root].runes
}

// Empty reports whether the tree has no content.
func (t *Tree) Empty() bool {
	return t.root == 0
}

// Length returns the byte length of the subtree at id.
func (t *Tree) Length(id NodeID) int64 {
	if id == 0 {
		return 0
	}
	return t.nodes[id].length
}

// LineCount returns the newline count of the subtree at id.
func (t *Tree) LineCount(id NodeID) int64 {
	if id == 0 {
		return 0
	}
	return t.nodes[id].lines
}

// Depth returns the subtree depth at id; leaves have depth 1.
func (t *Tree) Depth(id NodeID) int {
	return int(t.depth(id))
}

// IsLeaf reports whether id is a leaf.
func (t *Tree) IsLeaf(id NodeID) bool {
	return id != 0 && t.nodes[id].isLeaf()
}

// Left returns the left child of an internal node.
func (t *Tree) Left(id NodeID) NodeID {
	return t.nodes[id].left
}

// Right returns the right child of an internal node.
func (t *Tree) Right(id NodeID) NodeID {
	return t.nodes[id].right
}

// Parent returns the parent handle, or 0 at the root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Flags returns a leaf's own flags or the union of flags below an internal node.
func (t *Tree) Flags(id NodeID) Flags {
	if id == 0 {
		return 0
	}
	return t.nodes[id].flags
}

// LeafBytes returns the bytes a leaf references. Callers must not modify them.
func (t *Tree) LeafBytes(id NodeID) []byte {
	if !t.IsLeaf(id) {
		return nil
	}
	n := &t.nodes[id]
	return n.bytes()
}

// Fragment returns the fragment a leaf references.
func (t *Tree) Fragment(id NodeID) *Fragment {
	if !t.IsLeaf(id) {
		return nil
	}
	return t.nodes[id].frag
}

// clamp limits off to [0, Len()].
func (t *Tree) clamp(off int64) int64 {
	if off < 0 {
		return 0
	}
	if l := t.Len(); off > l {
		return l
	}
	return off
}

// FindOffset returns the leaf containing offset and the displacement into it.
// At a boundary between two leaves the right-hand leaf is returned with
// displacement zero; at the end of the document the last leaf is returned
// with displacement equal to its length. Offsets are clamped.
func (t *Tree) FindOffset(offset int64) (NodeID, int64) {
	if t.root == 0 {
		return 0, 0
	}
	offset = t.clamp(offset)
	id := t.root
	for !t.nodes[id].isLeaf() {
		l := t.nodes[id].left
		if ll := t.nodes[l].length; offset < ll {
			id = l
		} else {
			offset -= ll
			id = t.nodes[id].right
		}
	}
	return id, offset
}

// First returns the leftmost leaf of the subtree at id.
func (t *Tree) First(id NodeID) NodeID {
	if id == 0 {
		return 0
	}
	for !t.nodes[id].isLeaf() {
		id = t.nodes[id].left
	}
	return id
}

// Last returns the rightmost leaf of the subtree at id.
func (t *Tree) Last(id NodeID) NodeID {
	if id == 0 {
		return 0
	}
	for !t.nodes[id].isLeaf() {
		id = t.nodes[id].right
	}
	return id
}

// Next returns the leaf after id in document order, or 0.
func (t *Tree) Next(id NodeID) NodeID {
	for p := t.nodes[id].parent; p != 0; id, p = p, t.nodes[p].parent {
		if t.nodes[p].left == id {
			return t.First(t.nodes[p].right)
		}
	}
	return 0
}

// Prev returns the leaf before id in document order, or 0.
func (t *Tree) Prev(id NodeID) NodeID {
	for p := t.nodes[id].parent; p != 0; id, p = p, t.nodes[p].parent {
		if t.nodes[p].right == id {
			return t.Last(t.nodes[p].left)
		}
	}
	return 0
}

// OffsetOf returns the absolute offset at which the node's subtree begins.
func (t *Tree) OffsetOf(id NodeID) int64 {
	var off int64
	for p := t.nodes[id].parent; p != 0; id, p = p, t.nodes[p].parent {
		if t.nodes[p].right == id {
			off += t.nodes[t.nodes[p].left].length
		}
	}
	return off
}

// Raw materializes the bytes in [start, end).
func (t *Tree) Raw(start, end int64) []byte {
	start, end = t.clamp(start), t.clamp(end)
	if start >= end {
		return nil
	}
	out := make([]byte, 0, end-start)
	leaf, disp := t.FindOffset(start)
	for leaf != 0 && int64(len(out)) < end-start {
		b := t.LeafBytes(leaf)[disp:]
		if need := end - start - int64(len(out)); int64(len(b)) > need {
			b = b[:need]
		}
		out = append(out, b...)
		disp = 0
		leaf = t.Next(leaf)
	}
	return out
}

// WriteTo streams every leaf in order to w.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for leaf := t.First(t.root); leaf != 0; leaf = t.Next(leaf) {
		n, err := w.Write(t.LeafBytes(leaf))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the whole document.
func (t *Tree) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(int(t.Len()))
	_, _ = t.WriteTo(&buf)
	return buf.Bytes()
}

// String returns the whole document as a string.
func (t *Tree) String() string {
	return string(t.Bytes())
}

// LeafCount returns the number of leaves. Useful for tests and diagnostics.
func (t *Tree) LeafCount() int {
	count := 0
	for leaf := t.First(t.root); leaf != 0; leaf = t.Next(leaf) {
		count++
	}
	return count
}

// Release dereferences every fragment and empties the tree.
func (t *Tree) Release() {
	for leaf := t.First(t.root); leaf != 0; leaf = t.Next(leaf) {
		t.nodes[leaf].frag.Dereference()
	}
	t.nodes = t.nodes[:1]
	t.nodes[0] = node{}
	t.free = t.free[:0]
	t.root = 0
	t.version++
}
