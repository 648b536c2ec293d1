// Package highlight provides the syntax-highlighter capability consumed by the
// position mapper.
//
// A Marker is a small state machine. Given the state at the current byte and a
// lookahead window starting there, it returns the length of the next run, the
// colour class of that run, and the state after it. The mapper calls Mark only
// when the previous run is used up, so a marker never sees the same bytes twice
// and the whole lexer state fits in the per-leaf cache as a single uint32.
//
// Variants cover plain text, a table-driven lexer for C-like languages, SQL and
// Lua, XML, unified diffs, search-result panes and compiler output. Classes map
// onto chroma token types so any chroma style can be used as a Theme.
package highlight
