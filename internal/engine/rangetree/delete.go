package rangetree

// Delete removes up to length bytes starting at off and returns the root.
// Read-only leaves inside the range are skipped unless flags has Auto.
func (t *Tree) Delete(off int64, length int64, flags Flags) NodeID {
	t.DeleteSpans(off, length, flags)
	return t.root
}

// DeleteSpans is Delete that also reports the spans actually removed. The
// spans are in application order: each offset is relative to the document
// after the preceding spans were removed. Skipped read-only bytes consume
// the requested range without being removed.
func (t *Tree) DeleteSpans(off int64, length int64, flags Flags) (NodeID, []Span) {
	off = t.clamp(off)
	remaining := t.clamp(off+max(length, 0)) - off
	var removed []Span

	pos := off
	for remaining > 0 && pos < t.Len() {
		leaf, disp := t.FindOffset(pos)
		n := t.nodes[leaf]
		take := min(n.length-disp, remaining)
		remaining -= take

		if n.flags.Has(ReadOnly) && !flags.Has(Auto) {
			pos += take
			continue
		}

		t.cut(leaf, disp, take)
		if k := len(removed); k > 0 && removed[k-1].Offset == pos {
			removed[k-1].Length += take
		} else {
			removed = append(removed, Span{Offset: pos, Length: take})
		}
	}

	if len(removed) > 0 {
		t.version++
		t.invalidate(off, pos)
	}
	return t.root, removed
}

// cut removes n bytes at disp from a leaf and compacts around the hole.
func (t *Tree) cut(leaf NodeID, disp, n int64) {
	length := t.nodes[leaf].length
	switch {
	case disp == 0 && n == length:
		prev, next := t.Prev(leaf), t.Next(leaf)
		t.detach(leaf)
		if prev != 0 {
			t.compactAround(prev)
		} else if next != 0 {
			t.compactAround(next)
		}
		return
	case disp == 0:
		t.nodes[leaf].start += int(n)
		t.nodes[leaf].length -= n
	case disp+n == length:
		t.nodes[leaf].length = disp
	default:
		t.splitLeaf(leaf, disp+n)
		t.nodes[leaf].length = disp
	}
	t.refreshLeaf(leaf)
	t.fixUp(leaf)
	t.compactAround(leaf)
}
