package rangetree

import "fmt"

// Check walks the whole tree and verifies its structural invariants: every
// node is exactly one of leaf or internal, parent links agree with child
// links, cached aggregates equal the composition of the children, and the
// AVL balance condition holds. Violations wrap ErrInvariant.
func (t *Tree) Check() error {
	if t.root == 0 {
		return nil
	}
	if p := t.nodes[t.root].parent; p != 0 {
		return fmt.Errorf("%w: root %d has parent %d", ErrInvariant, t.root, p)
	}
	return t.checkNode(t.root)
}

func (t *Tree) checkNode(id NodeID) error {
	if id <= 0 || int(id) >= len(t.nodes) {
		return fmt.Errorf("%w: handle %d out of arena", ErrInvariant, id)
	}
	n := &t.nodes[id]
	hasChildren := n.left != 0 || n.right != 0

	if n.isLeaf() {
		if hasChildren {
			return fmt.Errorf("%w: leaf %d has children", ErrInvariant, id)
		}
		return t.checkLeaf(id)
	}
	if n.left == 0 || n.right == 0 {
		return fmt.Errorf("%w: internal node %d has %d/%d children", ErrInvariant, id, n.left, n.right)
	}
	for _, c := range []NodeID{n.left, n.right} {
		if t.nodes[c].parent != id {
			return fmt.Errorf("%w: node %d parent is %d, want %d", ErrInvariant, c, t.nodes[c].parent, id)
		}
		if err := t.checkNode(c); err != nil {
			return err
		}
	}

	l, r := &t.nodes[n.left], &t.nodes[n.right]
	switch {
	case n.length != l.length+r.length:
		return fmt.Errorf("%w: node %d length %d, children sum %d", ErrInvariant, id, n.length, l.length+r.length)
	case n.lines != l.lines+r.lines:
		return fmt.Errorf("%w: node %d lines %d, children sum %d", ErrInvariant, id, n.lines, l.lines+r.lines)
	case n.runes != l.runes+r.runes:
		return fmt.Errorf("%w: node %d runes %d, children sum %d", ErrInvariant, id, n.runes, l.runes+r.runes)
	case n.depth != max(l.depth, r.depth)+1:
		return fmt.Errorf("%w: node %d depth %d, children %d/%d", ErrInvariant, id, n.depth, l.depth, r.depth)
	case n.flags != l.flags|r.flags:
		return fmt.Errorf("%w: node %d flags %v, children %v/%v", ErrInvariant, id, n.flags, l.flags, r.flags)
	case n.visual != l.visual.Then(r.visual):
		return fmt.Errorf("%w: node %d visual info is stale", ErrInvariant, id)
	}
	if d := l.depth - r.depth; d > 1 || d < -1 {
		return fmt.Errorf("%w: node %d unbalanced (%d vs %d)", ErrInvariant, id, l.depth, r.depth)
	}
	return nil
}

func (t *Tree) checkLeaf(id NodeID) error {
	n := &t.nodes[id]
	switch {
	case n.length <= 0:
		return fmt.Errorf("%w: leaf %d has length %d", ErrInvariant, id, n.length)
	case n.start < 0 || n.start+int(n.length) > len(n.frag.buf):
		return fmt.Errorf("%w: leaf %d slice [%d,%d) exceeds fragment of %d bytes",
			ErrInvariant, id, n.start, n.start+int(n.length), len(n.frag.buf))
	case n.frag.refs < 1:
		return fmt.Errorf("%w: leaf %d references a released fragment", ErrInvariant, id)
	case n.depth != 1:
		return fmt.Errorf("%w: leaf %d depth %d", ErrInvariant, id, n.depth)
	case n.flags&^persistent != 0:
		return fmt.Errorf("%w: leaf %d stores request-only flags %v", ErrInvariant, id, n.flags)
	}

	var lines, runes int64
	for _, b := range n.bytes() {
		if b == '\n' {
			lines++
		}
		if b&0xC0 != 0x80 {
			runes++
		}
	}
	if lines != n.lines || runes != n.runes {
		return fmt.Errorf("%w: leaf %d counts %d/%d, content has %d/%d",
			ErrInvariant, id, n.lines, n.runes, lines, runes)
	}
	return nil
}
