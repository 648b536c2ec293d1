package renderer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Cell is one terminal cell.
type Cell struct {
	// Text is one grapheme cluster. It is empty for the cells covered by
	// the tail of a wide cluster.
	Text  string
	Style tcell.Style
}

// blankCell returns a space in style.
func blankCell(style tcell.Style) Cell {
	return Cell{Text: " ", Style: style}
}

// fill sets every cell of row to c.
func fill(row []Cell, c Cell) {
	for i := range row {
		row[i] = c
	}
}

// putString writes s into row starting at x, clipping at the row end, and
// returns the column after the last cell written.
func putString(row []Cell, x int, s string, style tcell.Style) int {
	state := -1
	for len(s) > 0 && x < len(row) {
		var cl string
		var w int
		cl, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		w = max(w, 1)
		if x+w > len(row) {
			break
		}
		row[x] = Cell{Text: cl, Style: style}
		for i := 1; i < w; i++ {
			row[x+i] = Cell{Style: style}
		}
		x += w
	}
	return x
}

// stringWidth returns the cell width of s.
func stringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// putRow writes row to line y of the screen.
func putRow(s tcell.Screen, y int, row []Cell) {
	for x, c := range row {
		if c.Text == "" {
			continue
		}
		runes := []rune(c.Text)
		s.SetContent(x, y, runes[0], runes[1:], c.Style)
	}
}
