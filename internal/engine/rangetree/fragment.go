package rangetree

// Fragment is a reference-counted byte buffer shared by one or more leaves.
// The bytes are immutable while more than one reference exists; a fragment
// owned by a single leaf may be rewritten in place by compaction.
type Fragment struct {
	buf  []byte
	refs int
}

// NewFragment creates a fragment that takes ownership of b.
// The reference count starts at zero; leaves reference it when they attach.
func NewFragment(b []byte) *Fragment {
	return &Fragment{buf: b}
}

// Bytes returns the fragment's buffer. Callers must not modify it.
func (f *Fragment) Bytes() []byte {
	return f.buf
}

// Len returns the buffer length in bytes.
func (f *Fragment) Len() int {
	return len(f.buf)
}

// Refs returns the current reference count.
func (f *Fragment) Refs() int {
	return f.refs
}

// Shared reports whether two or more leaves reference the fragment.
func (f *Fragment) Shared() bool {
	return f.refs >= 2
}

// Reference increments the reference count.
func (f *Fragment) Reference() {
	f.refs++
}

// Dereference decrements the reference count and drops the buffer when the
// count reaches zero. It returns true if the fragment was freed.
func (f *Fragment) Dereference() bool {
	if f.refs > 0 {
		f.refs--
	}
	if f.refs == 0 {
		f.buf = nil
		return true
	}
	return false
}

// retext replaces everything after keep with tail. Only a privately owned
// fragment may be rewritten; it returns false otherwise.
func (f *Fragment) retext(keep int, tail []byte) bool {
	if f.refs != 1 || keep > len(f.buf) {
		return false
	}
	f.buf = append(f.buf[:keep], tail...)
	return true
}
