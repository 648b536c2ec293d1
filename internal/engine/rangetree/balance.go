package rangetree

func (t *Tree) depth(id NodeID) int32 {
	if id == 0 {
		return 0
	}
	return t.nodes[id].depth
}

// rebalanceFrom walks from id to the root, recomputing aggregates and
// rotating any node whose children differ in depth by more than one.
func (t *Tree) rebalanceFrom(id NodeID) {
	for id != 0 {
		t.update(id)
		id = t.balance(id)
		id = t.nodes[id].parent
	}
}

// balance restores the AVL condition at id and returns the node now
// occupying its position.
func (t *Tree) balance(id NodeID) NodeID {
	n := t.nodes[id]
	if n.isLeaf() {
		return id
	}
	diff := t.depth(n.left) - t.depth(n.right)
	switch {
	case diff > 1:
		l := t.nodes[n.left]
		if t.depth(l.left) < t.depth(l.right) {
			t.rotateLeft(n.left)
		}
		return t.rotateRight(id)
	case diff < -1:
		r := t.nodes[n.right]
		if t.depth(r.right) < t.depth(r.left) {
			t.rotateRight(n.right)
		}
		return t.rotateLeft(id)
	}
	return id
}

// rotateRight lifts the left child of id into its place.
func (t *Tree) rotateRight(id NodeID) NodeID {
	l := t.nodes[id].left
	mid := t.nodes[l].right
	t.replaceChild(t.nodes[id].parent, id, l)

	t.nodes[id].left = mid
	t.nodes[mid].parent = id
	t.nodes[l].right = id
	t.nodes[id].parent = l

	t.update(id)
	t.update(l)
	return l
}

// rotateLeft lifts the right child of id into its place.
func (t *Tree) rotateLeft(id NodeID) NodeID {
	r := t.nodes[id].right
	mid := t.nodes[r].left
	t.replaceChild(t.nodes[id].parent, id, r)

	t.nodes[id].right = mid
	t.nodes[mid].parent = id
	t.nodes[r].left = id
	t.nodes[id].parent = r

	t.update(id)
	t.update(r)
	return r
}
