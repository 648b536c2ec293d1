package renderer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Status is the content of the status line.
type Status struct {
	Name     string // empty for a scratch document
	Modified bool
	Message  string
}

// statusLine is the information shown at the bottom of the screen.
type statusLine struct {
	Status
	line, column int64 // 0-based cursor position
	lines        int64
	pending      bool // visual cache still refreshing
}

func (s statusLine) left() string {
	name := s.Name
	if name == "" {
		name = "[No Name]"
	}
	if s.Modified {
		name += " [+]"
	}
	return " " + name
}

func (s statusLine) right() string {
	pos := fmt.Sprintf("%d:%d/%d ", s.line+1, s.column+1, s.lines)
	if s.pending {
		pos = "~ " + pos
	}
	if s.Message != "" {
		return s.Message + "  " + pos
	}
	return pos
}

// render lays the status line out in row. The message and position are
// right-aligned; the name is clipped when they collide.
func (s statusLine) render(row []Cell, style tcell.Style) {
	fill(row, blankCell(style))
	right := s.right()
	rx := max(len(row)-stringWidth(right), 0)
	putString(row[:rx], 0, s.left(), style)
	putString(row, rx, right, style)
}
