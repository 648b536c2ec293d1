package rangetree

// Copy returns a detached tree over [off, off+length) whose leaves share the
// source fragments. The copy lives independently of t and must be released
// by its owner.
func (t *Tree) Copy(off, length int64) *Tree {
	dst := New(t.options()...)
	start := t.clamp(off)
	end := t.clamp(start + max(length, 0))

	leaf, disp := t.FindOffset(start)
	for pos := start; pos < end && leaf != 0; leaf = t.Next(leaf) {
		n := &t.nodes[leaf]
		take := min(n.length-disp, end-pos)
		if take > 0 {
			dst.appendLeaf(n.frag, n.start+int(disp), take, n.flags)
		}
		pos += take
		disp = 0
	}
	return dst
}

// appendLeaf adds a leaf at the end without placement checks or compaction.
func (t *Tree) appendLeaf(frag *Fragment, start int, length int64, flags Flags) {
	nl := t.newLeaf(frag, start, length, flags)
	if t.root == 0 {
		t.root = nl
	} else {
		t.attach(t.Last(t.root), nl, true)
	}
	t.version++
}

// Paste re-inserts every leaf of src at increasing offsets starting at off,
// sharing its fragments, and returns the root. Each leaf keeps its own flags
// combined with flags. Only the first leaf is placement-checked; if it is
// vetoed nothing is pasted. src must not be t.
func (t *Tree) Paste(src *Tree, off int64, flags Flags) NodeID {
	if src == nil || src == t {
		return t.root
	}
	at := t.clamp(off)
	first := true
	for leaf := src.First(src.root); leaf != 0; leaf = src.Next(leaf) {
		n := &src.nodes[leaf]
		f := n.flags | flags
		if !first {
			f |= Auto
		}
		if t.insert(at, n.frag, n.start, int(n.length), f, true) == 0 && first {
			break
		}
		first = false
		at += n.length
	}
	return t.root
}
