package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/config/watcher"
	"github.com/dshills/quill/internal/document"
	"github.com/dshills/quill/internal/engine/position"
	"github.com/dshills/quill/internal/engine/rangetree"
	"github.com/dshills/quill/internal/highlight"
	"github.com/dshills/quill/internal/renderer"
)

// Application is the central coordinator: it owns the buffer, the renderer
// and the event loop.
type Application struct {
	cfg    *config.Config
	base   zerolog.Logger
	log    zerolog.Logger
	screen tcell.Screen
	render *renderer.Renderer
	clip   *document.Clipboard
	buf    *Buffer
	watch  ConfigSource

	message   string
	quitArmed bool

	running atomic.Bool
}

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the base logger. Components add their own name to it.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Application) {
		a.base = l
	}
}

// ConfigSource delivers reloaded configurations, such as a
// *watcher.Watcher.
type ConfigSource interface {
	Updates() <-chan *config.Config
	Errors() <-chan error
}

var _ ConfigSource = (*watcher.Watcher)(nil)

// WithWatcher applies configurations delivered by w while running.
func WithWatcher(w ConfigSource) Option {
	return func(a *Application) {
		a.watch = w
	}
}

// New opens path (empty for a scratch buffer) and prepares to draw it on
// screen, which must be initialized.
func New(cfg *config.Config, screen tcell.Screen, path string, opts ...Option) (*Application, error) {
	a := &Application{
		cfg:    cfg,
		base:   log.Logger,
		screen: screen,
		clip:   document.NewClipboard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.base.With().Str("component", "app").Logger()
	a.render = renderer.New(screen, a.rendererOptions()...)

	buf, err := OpenBuffer(path, a.documentOptions(path)...)
	if err != nil {
		return nil, err
	}
	a.buf = buf
	a.syncLayout()
	a.log.Info().Str("path", path).Int64("bytes", buf.Doc.Len()).Msg("opened")
	return a, nil
}

func (a *Application) rendererOptions() []renderer.Option {
	mode, _ := renderer.ParseLineNumberMode(a.cfg.Editor.LineNumbers)
	return []renderer.Option{
		renderer.WithTheme(highlight.NewTheme(a.cfg.Editor.Theme)),
		renderer.WithLineNumbers(mode),
		renderer.WithStatusLine(a.cfg.Editor.StatusLine),
		renderer.WithRefreshBudget(a.cfg.Engine.DirtyBudget),
		renderer.WithLogger(a.base.With().Str("component", "renderer").Logger()),
	}
}

func (a *Application) documentOptions(path string) []document.Option {
	e := a.cfg.Engine
	return []document.Option{
		document.WithClipboard(a.clip),
		document.WithLogger(a.base),
		document.WithDebugChecks(e.DebugChecks),
		document.WithTreeOptions(
			rangetree.WithBlockSizes(e.MinBlock, e.MaxBlock),
			rangetree.WithLookahead(e.Lookahead),
		),
		document.WithMapperOptions(position.WithBracketLimit(e.BracketLimit)),
		document.WithMarker(a.marker(path)),
		document.WithLayout(a.layout(nil)),
	}
}

// marker picks the highlighter: the configured language, else the file
// name.
func (a *Application) marker(path string) highlight.Marker {
	switch {
	case a.cfg.Editor.Language != "":
		return highlight.ForName(a.cfg.Editor.Language)
	case path != "":
		return highlight.ForPath(path)
	}
	return highlight.PlainText
}

// layout returns the configured layout. Wrapping at the window edge needs
// the document to size the gutter; without one it does not wrap.
func (a *Application) layout(d *document.Document) position.Layout {
	e := a.cfg.Editor
	l := position.Layout{TabWidth: e.TabWidth, AutoIndent: e.AutoIndent}
	switch {
	case e.WrapWidth > 0:
		l.Width = e.WrapWidth
	case e.WrapWidth == config.WrapWindow && d != nil:
		l.Width = a.render.TextWidth(d)
	}
	return l
}

// syncLayout updates the document layout when the configuration or the
// window size changed it.
func (a *Application) syncLayout() {
	d := a.buf.Doc
	if l := a.layout(d); l != d.Mapper().Layout() {
		a.log.Debug().Int("width", l.Width).Int("tab", l.TabWidth).Msg("layout")
		d.SetLayout(l)
	}
}

// Config returns the active configuration.
func (a *Application) Config() *config.Config {
	return a.cfg
}

// Buffer returns the open buffer.
func (a *Application) Buffer() *Buffer {
	return a.buf
}

// Renderer returns the renderer.
func (a *Application) Renderer() *renderer.Renderer {
	return a.render
}

// Message returns the status message shown in the next frame.
func (a *Application) Message() string {
	return a.message
}

// Close releases the buffer.
func (a *Application) Close() {
	a.buf.Close()
}

// Run draws the buffer and processes screen events until quit is requested
// or ctx ends. Between events an idle ticker spends the refresh budget on
// the visual cache.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	events := make(chan tcell.Event, 32)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer close(quit)

	idle := time.NewTicker(a.cfg.Engine.IdleInterval())
	defer idle.Stop()

	var updates <-chan *config.Config
	var watchErrs <-chan error
	if a.watch != nil {
		updates, watchErrs = a.watch.Updates(), a.watch.Errors()
	}

	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := a.HandleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					a.log.Info().Msg("quit")
					return nil
				}
				return err
			}
			a.Draw()

		case <-idle.C:
			if !a.buf.Doc.Mapper().Clean() && a.render.Idle(a.buf.Doc) {
				a.Draw()
			}

		case c := <-updates:
			a.ApplyConfig(c)
			idle.Reset(a.cfg.Engine.IdleInterval())
			a.Draw()

		case err := <-watchErrs:
			a.message = err.Error()
			a.Draw()
		}
	}
}

// Draw renders one frame, keeping the cursor on screen.
func (a *Application) Draw() {
	a.syncLayout()
	a.buf.Doc.ScrollToCursor(a.buf.View, int64(max(a.render.TextRows(), 1)), int64(a.cfg.Editor.ScrollOff))
	a.render.Draw(a.buf.Doc, a.buf.View, renderer.Status{
		Name:     a.buf.Name,
		Modified: a.buf.Modified(),
		Message:  a.message,
	})
}

// HandleEvent processes one screen event. It returns ErrQuit when the
// user asked to leave.
func (a *Application) HandleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.render.Resize()
		a.screen.Sync()
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return nil
}

// handleKey maps a key to a document command.
func (a *Application) handleKey(ev *tcell.EventKey) error {
	b := a.buf
	d, v := b.Doc, b.View
	shift := ev.Modifiers()&tcell.ModShift != 0
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	rows := int64(max(a.render.TextRows(), 1))

	a.message = ""
	if ev.Key() != tcell.KeyCtrlQ {
		a.quitArmed = false
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		if b.Modified() && !a.quitArmed {
			a.quitArmed = true
			a.message = "unsaved changes; Ctrl-Q again to quit"
			return nil
		}
		return ErrQuit
	case tcell.KeyCtrlS:
		a.save()
	case tcell.KeyCtrlA:
		d.SelectAll(v)
	case tcell.KeyCtrlC:
		if !d.CopySelection(v) {
			a.message = "nothing selected"
		}
	case tcell.KeyCtrlX:
		b.edit(func() {
			if !d.CutSelection(v) {
				a.message = "nothing selected"
			}
		})
	case tcell.KeyCtrlV:
		b.edit(func() {
			if !d.PasteClipboard(v) {
				a.message = "clipboard empty"
			}
		})
	case tcell.KeyCtrlRightSq:
		if !d.MatchBracket(v) {
			a.message = "no matching bracket"
		}
	case tcell.KeyLeft:
		d.MoveLeft(v, shift)
	case tcell.KeyRight:
		d.MoveRight(v, shift)
	case tcell.KeyUp:
		d.MoveUp(v, 1, shift)
	case tcell.KeyDown:
		d.MoveDown(v, 1, shift)
	case tcell.KeyHome:
		if ctrl {
			d.DocStart(v, shift)
		} else {
			d.LineStart(v, shift)
		}
	case tcell.KeyEnd:
		if ctrl {
			d.DocEnd(v, shift)
		} else {
			d.LineEnd(v, shift)
		}
	case tcell.KeyPgUp:
		d.PageUp(v, rows, shift)
	case tcell.KeyPgDn:
		d.PageDown(v, rows, shift)
	case tcell.KeyEnter:
		b.edit(func() { d.InsertNewline(v) })
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		b.edit(func() { d.Backspace(v) })
	case tcell.KeyDelete:
		b.edit(func() { d.DeleteForward(v) })
	case tcell.KeyTab:
		b.edit(func() { d.TypeBytes(v, []byte{'\t'}) })
	case tcell.KeyRune:
		b.edit(func() { d.TypeBytes(v, utf8.AppendRune(nil, ev.Rune())) })
	}
	return nil
}

func (a *Application) save() {
	n, err := a.buf.Save()
	if err != nil {
		a.log.Error().Err(err).Msg("save failed")
		a.message = err.Error()
		return
	}
	a.log.Info().Str("path", a.buf.Path).Int64("bytes", n).Msg("saved")
	a.message = fmt.Sprintf("wrote %d bytes", n)
}

// ApplyConfig switches to a reloaded configuration. Engine block sizes,
// lookahead, bracket limit and debug checks apply to documents opened
// afterwards.
func (a *Application) ApplyConfig(c *config.Config) {
	old := a.cfg
	a.cfg = c

	if c.Editor.Theme != old.Editor.Theme {
		a.render.SetTheme(highlight.NewTheme(c.Editor.Theme))
	}
	mode, _ := renderer.ParseLineNumberMode(c.Editor.LineNumbers)
	a.render.SetLineNumbers(mode)
	a.render.SetStatusLine(c.Editor.StatusLine)
	a.render.SetRefreshBudget(c.Engine.DirtyBudget)
	if c.Editor.Language != old.Editor.Language {
		a.buf.Doc.SetMarker(a.marker(a.buf.Path))
	}
	a.syncLayout()

	if err := SetLogLevel(c.Log.Level); err != nil {
		a.log.Warn().Err(err).Msg("log level unchanged")
	}
	a.log.Info().Msg("config applied")
	a.message = "config reloaded"
}
