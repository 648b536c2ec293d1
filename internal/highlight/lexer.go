package highlight

import (
	"bytes"
	"strings"
)

// Lexer states. The low byte carries the quote character or block index.
const (
	lexNormal State = iota << 8
	lexLineComment
	lexBlockComment
	lexString
	lexStringEscape
	lexIdent
)

const lexKind = 0xFF00

// Lexer is a table-driven Marker for C-like languages.
type Lexer struct {
	name          string
	lineComments  []string
	blockComments [][2]string
	quotes        string
	keywords      map[string]Class
	foldCase      bool
	preproc       bool
}

// LexerOption configures a Lexer.
type LexerOption func(*Lexer)

// WithLineComments sets the line comment introducers.
func WithLineComments(prefixes ...string) LexerOption {
	return func(l *Lexer) {
		l.lineComments = prefixes
	}
}

// WithBlockComment adds a block comment delimiter pair. Pairs are tried in
// the order added, before line comments.
func WithBlockComment(start, end string) LexerOption {
	return func(l *Lexer) {
		l.blockComments = append(l.blockComments, [2]string{start, end})
	}
}

// WithQuotes sets the string delimiters.
func WithQuotes(quotes string) LexerOption {
	return func(l *Lexer) {
		l.quotes = quotes
	}
}

// WithKeywords assigns class to each word.
func WithKeywords(class Class, words ...string) LexerOption {
	return func(l *Lexer) {
		for _, w := range words {
			if l.foldCase {
				w = strings.ToLower(w)
			}
			l.keywords[w] = class
		}
	}
}

// WithFoldCase makes keyword matching case-insensitive. It must precede
// WithKeywords.
func WithFoldCase() LexerOption {
	return func(l *Lexer) {
		l.foldCase = true
	}
}

// WithPreprocessor marks '#' directives.
func WithPreprocessor() LexerOption {
	return func(l *Lexer) {
		l.preproc = true
	}
}

// NewLexer creates a lexer.
func NewLexer(name string, opts ...LexerOption) *Lexer {
	l := &Lexer{
		name:     name,
		quotes:   `"'`,
		keywords: make(map[string]Class),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the language name.
func (l *Lexer) Name() string {
	return l.name
}

// Mark implements Marker.
func (l *Lexer) Mark(state State, look []byte) (State, int, Class) {
	arg := byte(state)
	switch state & lexKind {
	case lexLineComment:
		if look[0] == '\n' {
			return lexNormal, 1, Text
		}
		if i := bytes.IndexByte(look, '\n'); i > 0 {
			return state, i, Comment
		}
		return state, len(look), Comment

	case lexBlockComment:
		end := l.blockComments[arg][1]
		if i := bytes.Index(look, []byte(end)); i >= 0 {
			return lexNormal, i + len(end), Comment
		}
		return state, holdBack(look, len(end)), Comment

	case lexString, lexStringEscape:
		return l.markString(state, look)

	case lexIdent:
		n := identLen(look)
		if n == 0 {
			return l.Mark(lexNormal, look)
		}
		if n == len(look) {
			return state, n, Text
		}
		return lexNormal, n, Text
	}
	return l.markNormal(look)
}

func (l *Lexer) markNormal(look []byte) (State, int, Class) {
	for i, bc := range l.blockComments {
		if bytes.HasPrefix(look, []byte(bc[0])) {
			return lexBlockComment | State(i), len(bc[0]), Comment
		}
	}
	for _, lc := range l.lineComments {
		if bytes.HasPrefix(look, []byte(lc)) {
			return lexLineComment, len(lc), Comment
		}
	}

	b := look[0]
	switch {
	case strings.IndexByte(l.quotes, b) >= 0:
		return lexString | State(b), 1, String
	case b >= '0' && b <= '9':
		n := 1
		for n < len(look) && (isIdentByte(look[n]) || look[n] == '.') {
			n++
		}
		return lexNormal, n, Number
	case l.preproc && b == '#':
		return lexNormal, 1 + identLen(look[1:]), Preproc
	case isIdentByte(b):
		n := identLen(look)
		if n == len(look) {
			return lexIdent, n, Text
		}
		word := string(look[:n])
		if l.foldCase {
			word = strings.ToLower(word)
		}
		if c, ok := l.keywords[word]; ok {
			return lexNormal, n, c
		}
		return lexNormal, n, Text
	case b == ' ' || b == '\t':
		n := 1
		for n < len(look) && (look[n] == ' ' || look[n] == '\t') {
			n++
		}
		return lexNormal, n, Text
	case strings.IndexByte("()[]{};,.", b) >= 0:
		return lexNormal, 1, Punctuation
	case strings.IndexByte("+-*/%=<>!&|^~?:", b) >= 0:
		return lexNormal, 1, Operator
	}
	return lexNormal, 1, Text
}

func (l *Lexer) markString(state State, look []byte) (State, int, Class) {
	quote := byte(state)
	i := 0
	if state&lexKind == lexStringEscape {
		i = 1
	}
	for ; i < len(look); i++ {
		switch look[i] {
		case '\\':
			if i+1 == len(look) {
				return lexStringEscape | State(quote), i + 1, String
			}
			i++
		case quote:
			return lexNormal, i + 1, String
		case '\n':
			if i == 0 {
				return lexNormal, 1, Text
			}
			return lexNormal, i, String
		}
	}
	return lexString | State(quote), len(look), String
}

// holdBack returns how much of look can be consumed without splitting a
// delimiter of length n that may start near its end.
func holdBack(look []byte, n int) int {
	if k := len(look) - (n - 1); k > 0 {
		return k
	}
	return len(look)
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 0x80 ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func identLen(look []byte) int {
	n := 0
	for n < len(look) && isIdentByte(look[n]) {
		n++
	}
	return n
}
