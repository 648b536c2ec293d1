// Package document is the editing surface over a range tree.
//
// A Document owns one tree and one position mapper and keeps any number of
// views in step with every edit: scroll offsets, cursors, selections and
// bookmarks are shifted in the same call that changes the text, so no view
// ever observes an offset from before the edit.
//
// Commands such as TypeBytes, Backspace, CutSelection and MatchBracket
// operate on a view and are the operations a key binding invokes.
package document
