package highlight

import "github.com/alecthomas/chroma/v2"

// Class is the colour class of a highlighted run.
type Class uint8

// Colour classes.
const (
	Text Class = iota
	Keyword
	Type
	String
	Comment
	Number
	Operator
	Punctuation
	Preproc
	Tag
	Attribute
	Inserted
	Deleted
	Heading
	Match
	Location
	Error
	Escape // bytes of an escape leaf; never produced by a marker
	Control

	numClasses
)

var classNames = [numClasses]string{
	Text:        "text",
	Keyword:     "keyword",
	Type:        "type",
	String:      "string",
	Comment:     "comment",
	Number:      "number",
	Operator:    "operator",
	Punctuation: "punctuation",
	Preproc:     "preproc",
	Tag:         "tag",
	Attribute:   "attribute",
	Inserted:    "inserted",
	Deleted:     "deleted",
	Heading:     "heading",
	Match:       "match",
	Location:    "location",
	Error:       "error",
	Escape:      "escape",
	Control:     "control",
}

var classTokens = [numClasses]chroma.TokenType{
	Text:        chroma.Text,
	Keyword:     chroma.Keyword,
	Type:        chroma.KeywordType,
	String:      chroma.LiteralString,
	Comment:     chroma.Comment,
	Number:      chroma.LiteralNumber,
	Operator:    chroma.Operator,
	Punctuation: chroma.Punctuation,
	Preproc:     chroma.CommentPreproc,
	Tag:         chroma.NameTag,
	Attribute:   chroma.NameAttribute,
	Inserted:    chroma.GenericInserted,
	Deleted:     chroma.GenericDeleted,
	Heading:     chroma.GenericSubheading,
	Match:       chroma.GenericStrong,
	Location:    chroma.NameLabel,
	Error:       chroma.GenericError,
	Escape:      chroma.GenericOutput,
	Control:     chroma.LiteralStringEscape,
}

// String returns the class name.
func (c Class) String() string {
	if c < numClasses {
		return classNames[c]
	}
	return "unknown"
}

// TokenType returns the chroma token type used to style the class.
func (c Class) TokenType() chroma.TokenType {
	if c < numClasses {
		return classTokens[c]
	}
	return chroma.Text
}

// Quiet reports whether brackets inside a run of this class are ignored by
// bracket matching.
func (c Class) Quiet() bool {
	return c == String || c == Comment || c == Escape
}
