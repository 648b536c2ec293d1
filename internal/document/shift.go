package document

// edit describes one contiguous change: Len bytes inserted at Off when Insert
// is set, otherwise Len bytes removed starting at Off.
type edit struct {
	Off    int64
	Len    int64
	Insert bool
}

// shift moves off across e.
//
// Rules:
//   - An edit entirely after off leaves it unchanged.
//   - An edit entirely before off moves it by the edit's length.
//   - An insert exactly at off moves it past the new text unless sticky.
//   - An offset inside a removed range collapses to the range start.
func shift(off int64, e edit, sticky bool) int64 {
	if e.Insert {
		if off > e.Off || (off == e.Off && !sticky) {
			return off + e.Len
		}
		return off
	}
	switch {
	case off <= e.Off:
		return off
	case off >= e.Off+e.Len:
		return off - e.Len
	}
	return e.Off
}

// shiftSelection moves both ends of s. The anchor sticks to inserts at its
// position and the head does not.
func shiftSelection(s Selection, e edit) Selection {
	return Selection{
		Anchor: shift(s.Anchor, e, true),
		Head:   shift(s.Head, e, false),
	}
}
