package renderer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dshills/quill/internal/document"
	"github.com/dshills/quill/internal/engine/position"
	"github.com/dshills/quill/internal/highlight"
	"github.com/dshills/quill/internal/renderer/dirty"
)

// DefaultRefreshBudget is the number of leaves Idle rescans per call.
const DefaultRefreshBudget = 64

// Renderer draws one view at a time into a screen.
type Renderer struct {
	screen tcell.Screen
	theme  *highlight.Theme
	rows   *dirty.Tracker[Cell]
	log    zerolog.Logger

	lineNumbers LineNumberMode
	statusLine  bool
	budget      int

	width  int
	height int
	grid   [][]Cell
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the colour theme.
func WithTheme(t *highlight.Theme) Option {
	return func(r *Renderer) {
		if t != nil {
			r.theme = t
		}
	}
}

// WithLineNumbers sets the gutter mode.
func WithLineNumbers(mode LineNumberMode) Option {
	return func(r *Renderer) {
		r.lineNumbers = mode
	}
}

// WithStatusLine shows or hides the status line.
func WithStatusLine(enabled bool) Option {
	return func(r *Renderer) {
		r.statusLine = enabled
	}
}

// WithRefreshBudget sets the number of leaves Idle rescans per call.
func WithRefreshBudget(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.budget = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Renderer) {
		r.log = l
	}
}

// New creates a renderer drawing into screen, which must be initialized.
func New(screen tcell.Screen, opts ...Option) *Renderer {
	r := &Renderer{
		screen:      screen,
		theme:       highlight.NewTheme(highlight.DefaultTheme),
		log:         log.Logger.With().Str("component", "renderer").Logger(),
		lineNumbers: LineNumbersAbsolute,
		statusLine:  true,
		budget:      DefaultRefreshBudget,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.rows = dirty.NewTracker[Cell](0, 0)
	r.Resize()
	return r
}

// Theme returns the colour theme.
func (r *Renderer) Theme() *highlight.Theme {
	return r.theme
}

// SetTheme changes the colour theme and redraws everything on the next
// frame.
func (r *Renderer) SetTheme(t *highlight.Theme) {
	if t == nil {
		return
	}
	r.theme = t
	r.rows.MarkFullRedraw()
}

// SetLineNumbers changes the gutter mode.
func (r *Renderer) SetLineNumbers(mode LineNumberMode) {
	if mode != r.lineNumbers {
		r.lineNumbers = mode
		r.rows.MarkFullRedraw()
	}
}

// SetStatusLine shows or hides the status line.
func (r *Renderer) SetStatusLine(enabled bool) {
	if enabled != r.statusLine {
		r.statusLine = enabled
		r.rows.MarkFullRedraw()
	}
}

// SetRefreshBudget sets the number of leaves Idle rescans per call.
func (r *Renderer) SetRefreshBudget(n int) {
	if n > 0 {
		r.budget = n
	}
}

// Resize picks up the screen's current size.
func (r *Renderer) Resize() {
	r.width, r.height = r.screen.Size()
	r.rows.SetScreenSize(r.width, r.height)
	r.grid = make([][]Cell, r.height)
	for y := range r.grid {
		r.grid[y] = make([]Cell, r.width)
	}
	r.log.Debug().Int("width", r.width).Int("height", r.height).Msg("resize")
}

// Invalidate makes the next frame rewrite every row.
func (r *Renderer) Invalidate() {
	r.rows.MarkFullRedraw()
}

// TextRows returns the number of screen rows available for text.
func (r *Renderer) TextRows() int {
	if r.statusLine {
		return max(r.height-1, 0)
	}
	return r.height
}

// TextWidth returns the number of columns available for text in d.
func (r *Renderer) TextWidth(d *document.Document) int {
	return max(r.width-r.gutter(d), 0)
}

func (r *Renderer) gutter(d *document.Document) int {
	return min(gutterWidth(r.lineNumbers, d.Lines()+1), r.width)
}

// Idle spends one refresh budget on the visual cache of d and reports
// whether the cache is complete.
func (r *Renderer) Idle(d *document.Document) bool {
	done := d.Refresh(r.budget)
	if done {
		r.log.Trace().Msg("visual cache clean")
	}
	return done
}

// Draw renders v's visible rows and the status line, then shows the screen.
// It returns the number of rows written.
func (r *Renderer) Draw(d *document.Document, v *document.View, st Status) int {
	r.rows.BeginFrame()

	textRows := r.TextRows()
	gw := r.gutter(d)
	base := r.theme.Base()
	gutterStyle := r.theme.Style(highlight.Comment)
	for _, row := range r.grid {
		fill(row, blankCell(base))
	}

	cur := d.Seek(position.Offset(v.Cursor))
	top := d.TopRow(v)
	drawn := 0
	start := d.Seek(position.XY(top, 0))
	row := int64(-1)
	d.Mapper().Walk(start, func(u position.Unit) bool {
		y := u.Row - top
		if y >= int64(textRows) {
			return false
		}
		if y < 0 {
			return true
		}
		cells := r.grid[y]
		if u.Row != row {
			row = u.Row
			drawn = int(y) + 1
			drawGutter(cells[:gw], r.lineNumbers, u.Line, cur.Line, u.Column == 0, gutterStyle)
		}
		style := r.theme.Style(u.Class)
		if v.Selection.Contains(u.Offset) {
			style = style.Reverse(true)
		}
		drawUnit(cells[gw:], u, style)
		return true
	})
	for y := drawn; y < textRows; y++ {
		fill(r.grid[y][:gw], blankCell(gutterStyle))
		if gw > 0 {
			r.grid[y][0] = Cell{Text: "~", Style: gutterStyle}
		}
	}

	if r.statusLine && r.height > 0 {
		sl := statusLine{
			Status:  st,
			line:    cur.Line,
			column:  cur.Column,
			lines:   d.Lines() + 1,
			pending: !d.Mapper().Clean(),
		}
		sl.render(r.grid[textRows], base.Reverse(true))
	}

	for y, cells := range r.grid {
		if r.rows.Update(y, cells) {
			putRow(r.screen, y, cells)
		}
	}

	cy := cur.Row - top
	cx := int64(gw) + cur.Col
	if cur.Found && cy >= 0 && cy < int64(textRows) && cx < int64(r.width) {
		r.screen.ShowCursor(int(cx), int(cy))
	} else {
		r.screen.HideCursor()
	}
	r.screen.Show()
	return r.rows.Rewritten()
}

// drawUnit places u in the text area of a row.
func drawUnit(cells []Cell, u position.Unit, style tcell.Style) {
	x := int(u.Col)
	if x >= len(cells) {
		return
	}
	switch u.Kind {
	case position.EOF:
	case position.Newline, position.Space:
		cells[x] = blankCell(style)
	case position.Tab:
		fill(cells[x:min(x+u.Width, len(cells))], blankCell(style))
	case position.Control:
		putString(cells, x, caret(u.Bytes[0]), style)
	default:
		if x+u.Width > len(cells) {
			fill(cells[x:], blankCell(style))
			return
		}
		cells[x] = Cell{Text: string(u.Bytes), Style: style}
		for i := 1; i < u.Width; i++ {
			cells[x+i] = Cell{Style: style}
		}
	}
}

// caret returns the two-cell form of a control byte, such as ^A or ^?.
func caret(b byte) string {
	return string([]byte{'^', b ^ 0x40})
}
