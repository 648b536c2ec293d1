package rangetree

import "strings"

// Flags control where programmatic inserts and deletes may attach.
type Flags uint8

const (
	// ReadOnly protects a leaf: inserts inside it are vetoed and deletes skip it.
	ReadOnly Flags = 1 << iota

	// Escape marks a leaf as opaque to highlighting and bracket matching.
	Escape

	// Before lets an insert attach at the leading edge of a read-only leaf.
	Before

	// After lets an insert attach at the trailing edge of a read-only leaf.
	After

	// Auto overrides placement checks for bulk or programmatic edits.
	// It is never stored on a leaf.
	Auto
)

// persistent are the flags stored on leaves.
const persistent = ReadOnly | Escape | Before | After

// Has reports whether all bits of o are set.
func (f Flags) Has(o Flags) bool {
	return f&o == o
}

// String returns a readable list of the set flags.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	names := []struct {
		flag Flags
		name string
	}{
		{ReadOnly, "readonly"},
		{Escape, "escape"},
		{Before, "before"},
		{After, "after"},
		{Auto, "auto"},
	}
	for _, n := range names {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Span is a byte range [Offset, Offset+Length).
type Span struct {
	Offset int64
	Length int64
}

// End returns the exclusive end offset.
func (s Span) End() int64 {
	return s.Offset + s.Length
}
