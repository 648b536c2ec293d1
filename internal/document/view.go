package document

import (
	"slices"

	"github.com/google/uuid"
)

// Bookmark is a named range. Text inserted at its start lands inside it, as
// does text inserted at its end.
type Bookmark struct {
	Start int64
	End   int64
}

// View is one window onto a document.
type View struct {
	ID uuid.UUID

	// Top is the offset of the first displayed byte. It sticks to inserts at
	// its position so that new text appears in place.
	Top int64

	// Cursor is where typing happens.
	Cursor int64

	Selection Selection

	// Goal is the screen column vertical moves aim for, or -1.
	Goal int64

	marks map[string]Bookmark
}

func newView() *View {
	return &View{
		ID:    uuid.New(),
		Goal:  -1,
		marks: make(map[string]Bookmark),
	}
}

// SetMark stores a bookmark, replacing any of the same name.
func (v *View) SetMark(name string, start, end int64) {
	if end < start {
		start, end = end, start
	}
	v.marks[name] = Bookmark{Start: start, End: end}
}

// Mark returns the named bookmark.
func (v *View) Mark(name string) (Bookmark, bool) {
	b, ok := v.marks[name]
	return b, ok
}

// DeleteMark removes a bookmark.
func (v *View) DeleteMark(name string) {
	delete(v.marks, name)
}

// Marks returns the bookmark names in sorted order.
func (v *View) Marks() []string {
	names := make([]string, 0, len(v.marks))
	for name := range v.marks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HasSelection reports whether the view selects any bytes.
func (v *View) HasSelection() bool {
	return !v.Selection.IsEmpty()
}

// shift moves every offset the view holds across e.
func (v *View) shift(e edit) {
	v.Top = shift(v.Top, e, true)
	v.Cursor = shift(v.Cursor, e, false)
	v.Selection = shiftSelection(v.Selection, e)
	for name, b := range v.marks {
		v.marks[name] = Bookmark{
			Start: shift(b.Start, e, true),
			End:   shift(b.End, e, false),
		}
	}
}

// moveTo places the cursor at off, extending the selection or collapsing it.
func (v *View) moveTo(off int64, extend bool) {
	v.Cursor = off
	if extend {
		if v.Selection.IsEmpty() {
			v.Selection.Anchor = v.Selection.Head
		}
		v.Selection.Head = off
		return
	}
	v.Selection = Collapsed(off)
}
