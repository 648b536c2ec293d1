// Package rangetree implements the document buffer: a balanced binary tree whose
// leaves reference slices of shared, reference-counted byte fragments.
//
// Nodes live in an arena owned by the Tree and are addressed by NodeID handles.
// A leaf holds a (fragment, start, length) slice; an internal node holds exactly
// two children and caches the aggregate of both. Parent links are kept for
// navigation only, so successor, predecessor and offset-of-node all run in
// O(log n) without side indices.
//
// Every mutation rebuilds aggregates along the edited path, rotates where the
// AVL balance condition is broken, and compacts small neighbouring leaves so
// that byte-at-a-time typing does not grow the tree without bound.
//
// Each node also carries a VisualInfo record. The tree never computes visual
// data itself; the position mapper writes it into leaves and the tree keeps
// the internal-node composition current and marks leaves dirty when an edit
// may have changed what a scan over them would produce.
//
// Basic usage:
//
//	t := rangetree.New()
//	t.InsertSplit(0, []byte("hello world"), 0, nil)
//	t.Delete(5, 1, 0)      // "helloworld"
//	clip := t.Copy(0, 5)   // shares fragments with t
//	t.Paste(clip, t.Len(), 0)
//
// A Tree is not safe for concurrent use.
package rangetree
