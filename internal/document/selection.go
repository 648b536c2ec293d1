package document

import "fmt"

// Selection is a range of selected bytes. Anchor is where the selection
// started and Head is the end that moves. Anchor == Head selects nothing.
type Selection struct {
	Anchor int64
	Head   int64
}

// Collapsed returns an empty selection at off.
func Collapsed(off int64) Selection {
	return Selection{Anchor: off, Head: off}
}

// IsEmpty reports whether the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Len returns the selected byte count.
func (s Selection) Len() int64 {
	return s.End() - s.Start()
}

// Start returns the lower bound.
func (s Selection) Start() int64 {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound.
func (s Selection) End() int64 {
	return max(s.Anchor, s.Head)
}

// IsForward reports whether the head is at or after the anchor.
func (s Selection) IsForward() bool {
	return s.Head >= s.Anchor
}

// Contains reports whether off lies inside the selection.
func (s Selection) Contains(off int64) bool {
	return off >= s.Start() && off < s.End()
}

func (s Selection) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start(), s.End())
}
