package rangetree

import "bytes"

// Insert places frag[bufOff:bufOff+bufLen] at off and returns the root.
// The insert is dropped when the placement flags veto it.
func (t *Tree) Insert(off int64, frag *Fragment, bufOff, bufLen int, flags Flags) NodeID {
	t.insert(off, frag, bufOff, bufLen, flags, true)
	return t.root
}

// InsertLeaf is Insert that also returns the leaf now holding the first
// inserted byte, or 0 if the insert was vetoed. A flagged leaf is never
// merged by compaction, so its handle stays valid until it is deleted.
func (t *Tree) InsertLeaf(off int64, frag *Fragment, bufOff, bufLen int, flags Flags) (NodeID, NodeID) {
	leaf := t.insert(off, frag, bufOff, bufLen, flags, true)
	return t.root, leaf
}

// InsertSplit inserts text at off, taking ownership of it. Text longer than
// the maximum block size is cut into chunks, preferring cuts just after a
// newline and never inside a UTF-8 sequence. When handles is non-nil one
// leaf handle per chunk is appended to it and compaction is skipped so that
// the handles remain valid.
func (t *Tree) InsertSplit(off int64, text []byte, flags Flags, handles *[]NodeID) NodeID {
	at := t.clamp(off)
	for len(text) > 0 {
		n := chunkLen(text, t.maxBlock)
		chunk := text[:n:n]
		text = text[n:]

		leaf := t.insert(at, NewFragment(chunk), 0, n, flags, handles == nil)
		if leaf == 0 {
			break
		}
		if handles != nil {
			*handles = append(*handles, leaf)
		}
		at += int64(n)
		flags |= Auto
	}
	return t.root
}

// chunkLen returns the length of the first chunk of text.
func chunkLen(text []byte, maxBlock int) int {
	if len(text) <= maxBlock {
		return len(text)
	}
	if i := bytes.LastIndexByte(text[:maxBlock], '\n'); i >= maxBlock/2 {
		return i + 1
	}
	n := maxBlock
	for n > 0 && text[n]&0xC0 == 0x80 {
		n--
	}
	if n == 0 {
		n = maxBlock
	}
	return n
}

// insert performs one placement-checked insert and returns the leaf holding
// the first inserted byte, or 0 if nothing was inserted.
func (t *Tree) insert(off int64, frag *Fragment, bufOff, bufLen int, flags Flags, compact bool) NodeID {
	if frag == nil || bufLen <= 0 || bufOff < 0 || bufOff+bufLen > frag.Len() {
		return 0
	}
	off = t.clamp(off)
	if !t.accepts(off, flags) {
		return 0
	}

	nl := t.newLeaf(frag, bufOff, int64(bufLen), flags)
	if t.root == 0 {
		t.root = nl
	} else {
		leaf, disp := t.FindOffset(off)
		switch {
		case disp == 0:
			t.attach(leaf, nl, false)
		case disp == t.nodes[leaf].length:
			t.attach(leaf, nl, true)
		default:
			t.splitLeaf(leaf, disp)
			t.attach(leaf, nl, true)
		}
	}
	t.version++

	if compact {
		nl = t.compactAround(nl)
	}
	t.invalidate(off, off+int64(bufLen))
	return nl
}

// accepts applies the placement policy for an insert at off.
func (t *Tree) accepts(off int64, flags Flags) bool {
	if flags.Has(Auto) || t.root == 0 {
		return true
	}
	leaf, disp := t.FindOffset(off)
	n := &t.nodes[leaf]
	if disp > 0 && disp < n.length {
		return !n.flags.Has(ReadOnly)
	}

	var left, right NodeID
	if disp == 0 {
		left, right = t.Prev(leaf), leaf
	} else {
		left, right = leaf, t.Next(leaf)
	}
	return t.acceptsEdge(left, After) || t.acceptsEdge(right, Before)
}

// acceptsEdge reports whether a leaf lets an insert attach at one of its edges.
func (t *Tree) acceptsEdge(leaf NodeID, edge Flags) bool {
	if leaf == 0 {
		return false
	}
	f := t.nodes[leaf].flags
	return !f.Has(ReadOnly) || f.Has(edge)
}

// splitLeaf cuts a leaf at disp, keeping the head in place and attaching a
// new leaf for the tail directly after it. It returns the tail.
func (t *Tree) splitLeaf(leaf NodeID, disp int64) NodeID {
	n := t.nodes[leaf]
	tail := t.newLeaf(n.frag, n.start+int(disp), n.length-disp, n.flags)
	t.nodes[leaf].length = disp
	t.refreshLeaf(leaf)
	t.attach(leaf, tail, true)
	return tail
}
