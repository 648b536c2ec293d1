// Package position maps between the four coordinate systems of a document:
// byte offset, wrapped screen (row, column), logical (line, column) and
// bracket nesting depth.
//
// A Mapper scans the range tree one grapheme cluster at a time, expanding
// tabs, drawing control characters as two-cell carets, running the
// highlighter and applying greedy word wrap. Each leaf's scan summary is
// stored in the tree's VisualInfo cache so that a seek only rescans dirty
// leaves before descending by cached aggregates to the span that holds its
// target.
//
// Every leaf owns a span of the document. A span normally starts where its
// leaf starts, but a word run that crosses a leaf end is moved whole into
// the following span, and a cluster straddling a boundary belongs to the
// span in which it starts. With that rule a leaf's summary depends only on
// its own bytes, its entry context and a bounded lookahead, which is exactly
// what the tree invalidates on every edit.
//
// Scans are cooperative: Refresh stops after a budget of leaves and returns
// false so the caller can resume it on the next idle tick.
package position
