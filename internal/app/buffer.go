package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/quill/internal/document"
)

// Buffer is an open file with its editing view.
type Buffer struct {
	// Path is the file path (empty for scratch buffers).
	Path string

	// Name is the display name.
	Name string

	Doc  *document.Document
	View *document.View

	modified bool
}

// OpenBuffer reads path into a new document built with opts. A path that
// does not exist yet gives an empty buffer that will create it on save.
func OpenBuffer(path string, opts ...document.Option) (*Buffer, error) {
	d := document.New(opts...)
	b := &Buffer{Path: path, Name: "[No Name]", Doc: d}
	if path != "" {
		b.Name = filepath.Base(path)
		f, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			d.Close()
			return nil, &OperationError{Op: "open", Target: path, Err: err}
		default:
			_, err = d.ReadFrom(f)
			f.Close()
			if err != nil {
				d.Close()
				return nil, &OperationError{Op: "open", Target: path, Err: err}
			}
		}
	}
	b.View = d.NewView()
	return b, nil
}

// Modified reports whether the buffer changed since it was opened or saved.
func (b *Buffer) Modified() bool {
	return b.modified
}

// edit runs fn and marks the buffer modified when the text changed.
func (b *Buffer) edit(fn func()) {
	before := b.Doc.Tree().Version()
	fn()
	if b.Doc.Tree().Version() != before {
		b.modified = true
	}
}

// Save writes the text to Path through a temporary file in the same
// directory, keeping the original file's permissions.
func (b *Buffer) Save() (int64, error) {
	if b.Path == "" {
		return 0, ErrNoPath
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(b.Path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.Path), "."+filepath.Base(b.Path)+".*")
	if err != nil {
		return 0, &OperationError{Op: "save", Target: b.Path, Err: err}
	}
	n, err := b.Doc.WriteTo(tmp)
	if err == nil {
		err = tmp.Chmod(mode)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), b.Path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, &OperationError{Op: "save", Target: b.Path, Err: err}
	}
	b.modified = false
	return n, nil
}

// Close releases the document.
func (b *Buffer) Close() {
	b.Doc.Close()
}
