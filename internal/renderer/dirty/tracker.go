// Package dirty tracks which screen rows changed between frames.
package dirty

import (
	"slices"
	"sync"
)

// Tracker remembers the cells of every row drawn in the previous frame so
// that a frame only rewrites rows whose content changed.
type Tracker[C comparable] struct {
	mu sync.Mutex

	rows   [][]C
	drawn  []bool
	width  int
	height int

	// fullRedraw forces every row to be rewritten on the next frame.
	fullRedraw bool

	rewritten int
}

// NewTracker creates a tracker for a screen of the given size.
// Negative dimensions are treated as zero.
func NewTracker[C comparable](width, height int) *Tracker[C] {
	t := &Tracker[C]{}
	t.SetScreenSize(width, height)
	return t
}

// SetScreenSize updates the screen dimensions and forgets every row.
// Negative dimensions are treated as zero.
func (t *Tracker[C]) SetScreenSize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.width = max(width, 0)
	t.height = max(height, 0)
	t.rows = make([][]C, t.height)
	t.drawn = make([]bool, t.height)
	t.fullRedraw = true
}

// Size returns the tracked screen dimensions.
func (t *Tracker[C]) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// MarkFullRedraw makes the next frame rewrite every row.
func (t *Tracker[C]) MarkFullRedraw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fullRedraw = true
}

// MarkLine makes the next frame rewrite row y.
func (t *Tracker[C]) MarkLine(y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if y >= 0 && y < t.height {
		t.drawn[y] = false
	}
}

// NeedsFullRedraw reports whether the next frame rewrites every row.
func (t *Tracker[C]) NeedsFullRedraw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fullRedraw
}

// BeginFrame starts a frame.
func (t *Tracker[C]) BeginFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fullRedraw {
		clear(t.drawn)
		t.fullRedraw = false
	}
	t.rewritten = 0
}

// Update records the cells of row y and reports whether they differ from
// the previous frame. Rows outside the screen are never dirty.
func (t *Tracker[C]) Update(y int, cells []C) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if y < 0 || y >= t.height {
		return false
	}
	if t.drawn[y] && slices.Equal(t.rows[y], cells) {
		return false
	}
	t.rows[y] = append(t.rows[y][:0], cells...)
	t.drawn[y] = true
	t.rewritten++
	return true
}

// Rewritten returns the number of rows Update reported dirty since the
// frame began.
func (t *Tracker[C]) Rewritten() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rewritten
}
