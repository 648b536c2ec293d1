package document

import "github.com/dshills/quill/internal/engine/rangetree"

// Clipboard holds one copied tree. Trees given to it are owned by it and
// released when replaced.
type Clipboard struct {
	tree *rangetree.Tree
}

// NewClipboard returns an empty clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Set stores t, releasing the previous contents.
func (c *Clipboard) Set(t *rangetree.Tree) {
	if c.tree != nil && c.tree != t {
		c.tree.Release()
	}
	c.tree = t
}

// Get returns the stored tree, or nil. The tree stays owned by the clipboard.
func (c *Clipboard) Get() *rangetree.Tree {
	return c.tree
}

// Clear releases the contents.
func (c *Clipboard) Clear() {
	c.Set(nil)
}

// Empty reports whether the clipboard holds no bytes.
func (c *Clipboard) Empty() bool {
	return c.tree == nil || c.tree.Empty()
}

// Len returns the stored byte count.
func (c *Clipboard) Len() int64 {
	if c.tree == nil {
		return 0
	}
	return c.tree.Len()
}
