package document

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dshills/quill/internal/engine/position"
	"github.com/dshills/quill/internal/engine/rangetree"
	"github.com/dshills/quill/internal/highlight"
)

// Document is an editable text with the views onto it. It is not safe for
// concurrent use.
type Document struct {
	tree   *rangetree.Tree
	mapper *position.Mapper
	views  []*View
	clip   *Clipboard
	log    zerolog.Logger
	debug  bool
	verify func() error

	treeOpts   []rangetree.Option
	mapperOpts []position.Option
	marker     highlight.Marker
	layout     position.Layout
}

// Option configures a Document.
type Option func(*Document)

// WithClipboard shares a clipboard between documents.
func WithClipboard(c *Clipboard) Option {
	return func(d *Document) {
		if c != nil {
			d.clip = c
		}
	}
}

// WithLogger sets the logger. The default is the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Document) {
		d.log = l
	}
}

// WithDebugChecks verifies the tree after every mutation and panics on a
// violation.
func WithDebugChecks(enabled bool) Option {
	return func(d *Document) {
		d.debug = enabled
	}
}

// WithTreeOptions configures the underlying tree.
func WithTreeOptions(opts ...rangetree.Option) Option {
	return func(d *Document) {
		d.treeOpts = append(d.treeOpts, opts...)
	}
}

// WithMapperOptions configures the position mapper.
func WithMapperOptions(opts ...position.Option) Option {
	return func(d *Document) {
		d.mapperOpts = append(d.mapperOpts, opts...)
	}
}

// WithMarker sets the highlighter.
func WithMarker(m highlight.Marker) Option {
	return func(d *Document) {
		d.marker = m
	}
}

// WithLayout sets the initial layout.
func WithLayout(l position.Layout) Option {
	return func(d *Document) {
		d.layout = l
	}
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		log:    log.Logger,
		marker: highlight.PlainText,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clip == nil {
		d.clip = NewClipboard()
	}
	d.log = d.log.With().Str("component", "document").Logger()
	d.tree = rangetree.New(d.treeOpts...)
	d.verify = d.tree.Check
	d.mapper = position.New(d.tree, d.marker, d.layout, d.mapperOpts...)
	return d
}

// Tree returns the underlying tree. Mutating it directly bypasses view
// shifting.
func (d *Document) Tree() *rangetree.Tree {
	return d.tree
}

// Mapper returns the position mapper.
func (d *Document) Mapper() *position.Mapper {
	return d.mapper
}

// Clipboard returns the clipboard.
func (d *Document) Clipboard() *Clipboard {
	return d.clip
}

// Len returns the byte length.
func (d *Document) Len() int64 {
	return d.tree.Len()
}

// Lines returns the newline count.
func (d *Document) Lines() int64 {
	return d.tree.Lines()
}

// Bytes returns a copy of the text.
func (d *Document) Bytes() []byte {
	return d.tree.Bytes()
}

// String returns the text.
func (d *Document) String() string {
	return d.tree.String()
}

// Raw returns a copy of the bytes in [start, end).
func (d *Document) Raw(start, end int64) []byte {
	return d.tree.Raw(start, end)
}

// WriteTo writes the text to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.tree.WriteTo(w)
}

// ReadFrom appends everything read from r.
func (d *Document) ReadFrom(r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, fmt.Errorf("document: read: %w", err)
	}
	d.Insert(d.Len(), buf.Bytes())
	return n, nil
}

// NewView adds a view at the start of the document.
func (d *Document) NewView() *View {
	v := newView()
	d.views = append(d.views, v)
	return v
}

// CloseView removes a view.
func (d *Document) CloseView(v *View) {
	d.views = slices.DeleteFunc(d.views, func(w *View) bool { return w == v })
}

// Views returns the open views.
func (d *Document) Views() []*View {
	return d.views
}

// Insert inserts a copy of text at off and returns the new root. Offsets
// are clamped. The insert is refused, leaving the document unchanged, when
// it would land inside read-only text.
func (d *Document) Insert(off int64, text []byte) rangetree.NodeID {
	return d.InsertFlags(off, text, 0)
}

// InsertFlags inserts a copy of text with the given leaf flags.
func (d *Document) InsertFlags(off int64, text []byte, flags rangetree.Flags) rangetree.NodeID {
	if len(text) == 0 {
		return d.tree.Root()
	}
	at := min(max(off, 0), d.tree.Len())
	before := d.tree.Len()
	root := d.tree.InsertSplit(at, bytes.Clone(text), flags, nil)
	d.inserted(at, d.tree.Len()-before)
	return root
}

// Delete removes up to n bytes starting at off, skipping read-only text,
// and returns the new root.
func (d *Document) Delete(off, n int64) rangetree.NodeID {
	root, spans := d.tree.DeleteSpans(off, n, 0)
	for _, s := range spans {
		d.shift(edit{Off: s.Offset, Len: s.Length})
	}
	if len(spans) > 0 {
		d.log.Trace().Int64("off", off).Int64("len", n).Int("spans", len(spans)).Msg("delete")
		d.check("delete")
	}
	return root
}

// Copy returns a tree sharing the bytes in [off, off+n).
func (d *Document) Copy(off, n int64) *rangetree.Tree {
	return d.tree.Copy(off, n)
}

// Paste inserts src at off, sharing its fragments, and returns the new root.
func (d *Document) Paste(src *rangetree.Tree, off int64) rangetree.NodeID {
	if src == nil || src.Empty() {
		return d.tree.Root()
	}
	at := min(max(off, 0), d.tree.Len())
	before := d.tree.Len()
	root := d.tree.Paste(src, at, 0)
	d.inserted(at, d.tree.Len()-before)
	return root
}

// Compact merges small adjacent leaves.
func (d *Document) Compact() rangetree.NodeID {
	root := d.tree.Compact()
	d.check("compact")
	return root
}

func (d *Document) inserted(at, n int64) {
	if n == 0 {
		d.log.Debug().Int64("off", at).Msg("insert refused")
		return
	}
	d.shift(edit{Off: at, Len: n, Insert: true})
	d.log.Trace().Int64("off", at).Int64("len", n).Msg("insert")
	d.check("insert")
}

func (d *Document) shift(e edit) {
	for _, v := range d.views {
		v.shift(e)
	}
}

// check verifies the tree in debug mode.
func (d *Document) check(op string) {
	if !d.debug {
		return
	}
	if err := d.verify(); err != nil {
		d.log.Error().Err(err).Str("op", op).Msg("tree invariant violated")
		panic(fmt.Errorf("document: after %s: %w", op, err))
	}
}

// Seek resolves a position query.
func (d *Document) Seek(q position.Query) position.Result {
	return d.mapper.Seek(q)
}

// Match returns the bracket paired with the one at off.
func (d *Document) Match(off int64) position.Result {
	return d.mapper.Match(off)
}

// Refresh spends up to budget leaf scans bringing the visual cache up to
// date and reports whether it is complete.
func (d *Document) Refresh(budget int) bool {
	return d.mapper.Refresh(-1, budget)
}

// SetLayout changes the wrap width, tab width or auto-indent.
func (d *Document) SetLayout(l position.Layout) {
	d.mapper.SetLayout(l)
}

// SetMarker changes the highlighter.
func (d *Document) SetMarker(m highlight.Marker) {
	d.mapper.SetMarker(m)
}

// Close releases the text. The document must not be used afterwards.
func (d *Document) Close() {
	d.views = nil
	d.tree.Release()
}
