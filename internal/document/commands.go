package document

import (
	"math"

	"github.com/dshills/quill/internal/engine/position"
)

// TypeBytes replaces the selection, if any, with text and leaves the cursor
// after it.
func (d *Document) TypeBytes(v *View, text []byte) {
	d.deleteSelection(v)
	d.Insert(v.Cursor, text)
	v.Selection = Collapsed(v.Cursor)
	v.Goal = -1
}

// InsertNewline breaks the line at the cursor. With auto-indent on, the new
// line repeats the current line's leading whitespace.
func (d *Document) InsertNewline(v *View) {
	d.deleteSelection(v)
	text := []byte{'\n'}
	if d.mapper.Layout().AutoIndent {
		text = append(text, d.indentAt(v.Cursor)...)
	}
	d.TypeBytes(v, text)
}

// indentAt returns the leading whitespace of the line holding off, up to off.
func (d *Document) indentAt(off int64) []byte {
	r := d.Seek(position.Offset(off))
	start := d.Seek(position.LineCol(r.Line, 0))
	if !start.Found {
		return nil
	}
	line := d.tree.Raw(start.Offset, off)
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return line[:n]
}

// Backspace deletes the selection or the cluster before the cursor.
func (d *Document) Backspace(v *View) {
	if d.deleteSelection(v) || v.Cursor == 0 {
		return
	}
	r := d.Seek(position.Offset(v.Cursor - 1))
	d.Delete(r.Offset, v.Cursor-r.Offset)
	v.Selection = Collapsed(v.Cursor)
	v.Goal = -1
}

// DeleteForward deletes the selection or the cluster at the cursor.
func (d *Document) DeleteForward(v *View) {
	if d.deleteSelection(v) {
		return
	}
	r := d.Seek(position.Offset(v.Cursor))
	if r.Kind == position.EOF {
		return
	}
	d.Delete(r.Offset, int64(r.Len))
	v.Selection = Collapsed(v.Cursor)
	v.Goal = -1
}

func (d *Document) deleteSelection(v *View) bool {
	if v.Selection.IsEmpty() {
		return false
	}
	d.Delete(v.Selection.Start(), v.Selection.Len())
	v.Selection = Collapsed(v.Cursor)
	v.Goal = -1
	return true
}

// SelectAll selects the whole document.
func (d *Document) SelectAll(v *View) {
	v.Selection = Selection{Anchor: 0, Head: d.Len()}
	v.Cursor = d.Len()
}

// CopySelection copies the selected bytes to the clipboard. It reports
// false when nothing is selected.
func (d *Document) CopySelection(v *View) bool {
	if v.Selection.IsEmpty() {
		return false
	}
	d.clip.Set(d.Copy(v.Selection.Start(), v.Selection.Len()))
	return true
}

// CutSelection copies the selection to the clipboard and deletes it.
func (d *Document) CutSelection(v *View) bool {
	if !d.CopySelection(v) {
		return false
	}
	d.deleteSelection(v)
	return true
}

// PasteClipboard replaces the selection with the clipboard contents. It
// reports false when the clipboard is empty or the paste was refused.
func (d *Document) PasteClipboard(v *View) bool {
	if d.clip.Empty() {
		return false
	}
	d.deleteSelection(v)
	before := d.Len()
	d.Paste(d.clip.Get(), v.Cursor)
	v.Selection = Collapsed(v.Cursor)
	v.Goal = -1
	return d.Len() != before
}

// MatchBracket moves the cursor to the bracket paired with the one at the
// cursor, or with the one just before it.
func (d *Document) MatchBracket(v *View) bool {
	r := d.Match(v.Cursor)
	if !r.Found && v.Cursor > 0 {
		r = d.Match(v.Cursor - 1)
	}
	if !r.Found {
		return false
	}
	v.moveTo(r.Offset, false)
	v.Goal = -1
	return true
}

// MoveLeft moves the cursor back one cluster.
func (d *Document) MoveLeft(v *View, extend bool) {
	if v.Cursor > 0 {
		r := d.Seek(position.Offset(v.Cursor - 1))
		v.moveTo(r.Offset, extend)
	} else if !extend {
		v.moveTo(0, false)
	}
	v.Goal = -1
}

// MoveRight moves the cursor forward one cluster.
func (d *Document) MoveRight(v *View, extend bool) {
	r := d.Seek(position.Offset(v.Cursor))
	if r.Kind != position.EOF {
		v.moveTo(r.Offset+int64(r.Len), extend)
	} else if !extend {
		v.moveTo(r.Offset, false)
	}
	v.Goal = -1
}

// MoveUp moves the cursor n screen rows up, keeping its goal column.
func (d *Document) MoveUp(v *View, n int64, extend bool) {
	d.moveRows(v, -n, extend)
}

// MoveDown moves the cursor n screen rows down, keeping its goal column.
func (d *Document) MoveDown(v *View, n int64, extend bool) {
	d.moveRows(v, n, extend)
}

func (d *Document) moveRows(v *View, n int64, extend bool) {
	r := d.Seek(position.Offset(v.Cursor))
	goal := v.Goal
	if goal < 0 {
		goal = r.Col
	}
	row := r.Row + n
	var t position.Result
	switch {
	case row < 0:
		t = d.Seek(position.Offset(0))
	default:
		if t = d.Seek(position.XY(row, goal)); !t.Found {
			t = d.Seek(position.Offset(d.Len()))
		}
	}
	v.moveTo(t.Offset, extend)
	v.Goal = goal
}

// LineStart moves the cursor to the start of its screen row.
func (d *Document) LineStart(v *View, extend bool) {
	r := d.Seek(position.Offset(v.Cursor))
	v.moveTo(d.Seek(position.XY(r.Row, 0)).Offset, extend)
	v.Goal = -1
}

// LineEnd moves the cursor to the end of its screen row.
func (d *Document) LineEnd(v *View, extend bool) {
	r := d.Seek(position.Offset(v.Cursor))
	v.moveTo(d.Seek(position.XY(r.Row, math.MaxInt64)).Offset, extend)
	v.Goal = -1
}

// DocStart moves the cursor to offset zero.
func (d *Document) DocStart(v *View, extend bool) {
	v.moveTo(0, extend)
	v.Goal = -1
}

// DocEnd moves the cursor to the end of the document.
func (d *Document) DocEnd(v *View, extend bool) {
	v.moveTo(d.Len(), extend)
	v.Goal = -1
}

// PageDown scrolls and moves the cursor down by rows.
func (d *Document) PageDown(v *View, rows int64, extend bool) {
	d.Scroll(v, rows)
	d.moveRows(v, rows, extend)
}

// PageUp scrolls and moves the cursor up by rows.
func (d *Document) PageUp(v *View, rows int64, extend bool) {
	d.Scroll(v, -rows)
	d.moveRows(v, -rows, extend)
}

// TopRow returns the screen row of the view's first displayed byte.
func (d *Document) TopRow(v *View) int64 {
	return d.Seek(position.Offset(v.Top)).Row
}

// Scroll moves the view's top by n screen rows, keeping the last row of the
// document reachable.
func (d *Document) Scroll(v *View, n int64) {
	v.Top = d.rowStart(d.TopRow(v) + n)
}

// rowStart returns the offset of the first unit of screen row row, or of the
// last row when the document has fewer rows. The visual cache is refreshed
// only as far as the row; a row past the end refreshes to the end.
func (d *Document) rowStart(row int64) int64 {
	r := d.Seek(position.XY(max(row, 0), 0))
	if !r.Found {
		end := d.Seek(position.Offset(d.Len()))
		r = d.Seek(position.XY(end.Row, 0))
	}
	return r.Offset
}

// ScrollToCursor adjusts the view's top so that the cursor is within the
// first rows rows and, where the document allows, at least margin rows from
// either edge.
func (d *Document) ScrollToCursor(v *View, rows, margin int64) {
	rows = max(rows, 1)
	margin = min(max(margin, 0), (rows-1)/2)
	cur := d.Seek(position.Offset(v.Cursor)).Row
	top := d.TopRow(v)
	switch {
	case cur < top+margin:
		top = cur - margin
	case cur >= top+rows-margin:
		top = cur - rows + 1 + margin
	}
	v.Top = d.rowStart(top)
}
