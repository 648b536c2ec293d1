package rangetree

// maxMergeSteps bounds the merges performed around a single edit.
const maxMergeSteps = 4

// mergeable reports whether leaf b, the successor of a, can be folded into a.
func (t *Tree) mergeable(a, b NodeID) bool {
	na, nb := &t.nodes[a], &t.nodes[b]
	if na.flags|nb.flags != 0 {
		return false
	}
	if na.length >= int64(t.minBlock) && nb.length >= int64(t.minBlock) {
		return false
	}
	return na.length+nb.length <= int64(t.maxBlock)
}

// merge folds leaf b into its predecessor a. The fragment of a is extended
// in place when a owns it exclusively; otherwise both slices are copied into
// a fresh fragment.
func (t *Tree) merge(a, b NodeID) {
	na := &t.nodes[a]
	tail := t.nodes[b].bytes()

	if !na.frag.retext(na.start+int(na.length), tail) {
		buf := make([]byte, 0, na.length+int64(len(tail)))
		buf = append(buf, na.bytes()...)
		buf = append(buf, tail...)
		frag := NewFragment(buf)
		frag.Reference()
		na.frag.Dereference()
		na.frag = frag
		na.start = 0
	}
	na.length += int64(len(tail))

	t.refreshLeaf(a)
	t.fixUp(a)
	t.detach(b)
}

// compactAround merges small neighbours into and around leaf, preferring the
// predecessor. It returns the leaf that now holds leaf's first byte.
func (t *Tree) compactAround(leaf NodeID) NodeID {
	for i := 0; i < maxMergeSteps; i++ {
		if p := t.Prev(leaf); p != 0 && t.mergeable(p, leaf) {
			t.merge(p, leaf)
			leaf = p
			continue
		}
		if n := t.Next(leaf); n != 0 && t.mergeable(leaf, n) {
			t.merge(leaf, n)
			continue
		}
		break
	}
	return leaf
}

// Compact merges every run of small unflagged leaves and returns the root.
func (t *Tree) Compact() NodeID {
	leaf := t.First(t.root)
	merged := false
	for leaf != 0 {
		n := t.Next(leaf)
		if n != 0 && t.mergeable(leaf, n) {
			t.merge(leaf, n)
			merged = true
			continue
		}
		leaf = n
	}
	if merged {
		t.version++
	}
	return t.root
}
