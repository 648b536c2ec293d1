package renderer

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// LineNumberMode defines how line numbers are displayed.
type LineNumberMode uint8

const (
	// LineNumbersOff hides the gutter.
	LineNumbersOff LineNumberMode = iota

	// LineNumbersAbsolute shows absolute line numbers (1, 2, 3, ...).
	LineNumbersAbsolute

	// LineNumbersRelative shows the distance from the cursor line.
	LineNumbersRelative

	// LineNumbersHybrid shows the absolute number on the cursor line and
	// relative numbers elsewhere.
	LineNumbersHybrid
)

// ParseLineNumberMode maps a configuration name to a mode.
func ParseLineNumberMode(s string) (LineNumberMode, bool) {
	switch s {
	case "off", "none", "":
		return LineNumbersOff, true
	case "absolute", "on":
		return LineNumbersAbsolute, true
	case "relative":
		return LineNumbersRelative, true
	case "hybrid":
		return LineNumbersHybrid, true
	}
	return LineNumbersOff, false
}

const minGutterDigits = 3

// gutterWidth returns the gutter width for a document with lines lines,
// including one column of padding.
func gutterWidth(mode LineNumberMode, lines int64) int {
	if mode == LineNumbersOff {
		return 0
	}
	return max(len(strconv.FormatInt(lines, 10)), minGutterDigits) + 1
}

// lineNumber returns the number displayed for a 0-based line.
func lineNumber(mode LineNumberMode, line, current int64) int64 {
	switch mode {
	case LineNumbersRelative:
		return absDiff(line, current)
	case LineNumbersHybrid:
		if line == current {
			return line + 1
		}
		return absDiff(line, current)
	}
	return line + 1
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

// drawGutter fills cells with the right-aligned number of line, or leaves
// them blank for a continuation row.
func drawGutter(cells []Cell, mode LineNumberMode, line, current int64, first bool, style tcell.Style) {
	fill(cells, blankCell(style))
	if !first || len(cells) < 2 {
		return
	}
	s := strconv.FormatInt(lineNumber(mode, line, current), 10)
	putString(cells, max(len(cells)-1-len(s), 0), s, style)
}
