package rangetree

// NodeID is a stable handle to a node in a Tree's arena. Zero is the nil handle.
type NodeID int32

// node is either a leaf (frag != nil) or an internal node with two children.
type node struct {
	parent NodeID
	left   NodeID
	right  NodeID

	// Leaf slice into the fragment.
	frag  *Fragment
	start int

	// Aggregates for the subtree.
	length int64
	lines  int64
	runes  int64
	depth  int32
	flags  Flags // own flags on a leaf, union of children otherwise

	visual VisualInfo
}

func (n *node) isLeaf() bool {
	return n.frag != nil
}

// bytes returns the leaf's slice of its fragment.
func (n *node) bytes() []byte {
	return n.frag.buf[n.start : n.start+int(n.length)]
}

// alloc returns a zeroed node slot, reusing freed slots first.
func (t *Tree) alloc() NodeID {
	if k := len(t.free); k > 0 {
		id := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[id] = node{}
		return id
	}
	t.nodes = append(t.nodes, node{})
	return NodeID(len(t.nodes) - 1)
}

// release returns a slot to the free list, dropping the fragment reference
// held by a leaf.
func (t *Tree) release(id NodeID) {
	n := &t.nodes[id]
	if n.frag != nil {
		n.frag.Dereference()
	}
	t.nodes[id] = node{}
	t.free = append(t.free, id)
}

// newLeaf creates a dirty leaf over frag[start:start+length].
func (t *Tree) newLeaf(frag *Fragment, start int, length int64, flags Flags) NodeID {
	id := t.alloc()
	frag.Reference()
	n := &t.nodes[id]
	n.frag = frag
	n.start = start
	n.length = length
	n.flags = flags & persistent
	t.refreshLeaf(id)
	return id
}

// refreshLeaf recomputes a leaf's content counts and marks it dirty.
func (t *Tree) refreshLeaf(id NodeID) {
	n := &t.nodes[id]
	var lines, runes int64
	for _, b := range n.bytes() {
		if b == '\n' {
			lines++
		}
		if b&0xC0 != 0x80 {
			runes++
		}
	}
	n.lines = lines
	n.runes = runes
	n.depth = 1
	n.visual.Dirty = true
}

// update recomputes an internal node from its children.
func (t *Tree) update(id NodeID) {
	n := &t.nodes[id]
	if n.isLeaf() {
		return
	}
	l, r := &t.nodes[n.left], &t.nodes[n.right]
	n.length = l.length + r.length
	n.lines = l.lines + r.lines
	n.runes = l.runes + r.runes
	n.depth = max(l.depth, r.depth) + 1
	n.flags = l.flags | r.flags
	n.visual = l.visual.Then(r.visual)
}

// fixUp recomputes every ancestor of id.
func (t *Tree) fixUp(id NodeID) {
	for p := t.nodes[id].parent; p != 0; p = t.nodes[p].parent {
		t.update(p)
	}
}

// replaceChild swaps old for repl under parent, or at the root when parent is nil.
func (t *Tree) replaceChild(parent, old, repl NodeID) {
	if parent == 0 {
		t.root = repl
	} else if t.nodes[parent].left == old {
		t.nodes[parent].left = repl
	} else {
		t.nodes[parent].right = repl
	}
	if repl != 0 {
		t.nodes[repl].parent = parent
	}
}

// attach places leaf nl immediately after (or before) leaf x.
func (t *Tree) attach(x, nl NodeID, after bool) {
	parent := t.nodes[x].parent
	in := t.alloc()
	t.replaceChild(parent, x, in)
	if after {
		t.nodes[in].left, t.nodes[in].right = x, nl
	} else {
		t.nodes[in].left, t.nodes[in].right = nl, x
	}
	t.nodes[x].parent = in
	t.nodes[nl].parent = in
	t.rebalanceFrom(in)
}

// detach removes leaf x from the tree and frees it.
func (t *Tree) detach(x NodeID) {
	parent := t.nodes[x].parent
	if parent == 0 {
		t.root = 0
		t.release(x)
		return
	}
	sibling := t.nodes[parent].left
	if sibling == x {
		sibling = t.nodes[parent].right
	}
	grand := t.nodes[parent].parent
	t.replaceChild(grand, parent, sibling)
	t.nodes[parent] = node{}
	t.free = append(t.free, parent)
	t.release(x)
	if grand != 0 {
		t.rebalanceFrom(grand)
	}
}
