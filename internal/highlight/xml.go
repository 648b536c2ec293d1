package highlight

import "bytes"

// XML states.
const (
	xmlText State = iota
	xmlTagName
	xmlTag
	xmlComment
	xmlValue // the quote is carried in bits 8-15
)

const xmlKind = 0x0F

// XML highlights XML and HTML markup.
var XML Marker = xmlMarker{}

type xmlMarker struct{}

func (xmlMarker) Mark(state State, look []byte) (State, int, Class) {
	return markXML(state, look)
}

func markXML(state State, look []byte) (State, int, Class) {
	switch state & xmlKind {
	case xmlComment:
		if i := bytes.Index(look, []byte("-->")); i >= 0 {
			return xmlText, i + 3, Comment
		}
		return state, holdBack(look, 3), Comment

	case xmlTagName:
		if n := nameLen(look); n > 0 {
			if n == len(look) {
				return state, n, Tag
			}
			return xmlTag, n, Tag
		}
		return markXML(xmlTag, look)

	case xmlTag:
		b := look[0]
		switch {
		case b == '>':
			return xmlText, 1, Tag
		case b == '/' && len(look) > 1 && look[1] == '>':
			return xmlText, 2, Tag
		case b == '"' || b == '\'':
			return xmlValue | State(b)<<8, 1, String
		case b == '=':
			return xmlTag, 1, Operator
		case nameLen(look) > 0:
			return xmlTag, nameLen(look), Attribute
		}
		return xmlTag, 1, Text

	case xmlValue:
		quote := byte(state >> 8)
		if i := bytes.IndexByte(look, quote); i >= 0 {
			return xmlTag, i + 1, String
		}
		return state, len(look), String
	}

	switch {
	case bytes.HasPrefix(look, []byte("<!--")):
		return xmlComment, 4, Comment
	case look[0] == '<':
		n := 1
		if len(look) > 1 && (look[1] == '/' || look[1] == '?' || look[1] == '!') {
			n = 2
		}
		return xmlTagName, n, Tag
	case look[0] == '&':
		if i := bytes.IndexByte(look, ';'); i > 0 && i <= 10 {
			return xmlText, i + 1, Number
		}
		return xmlText, 1, Text
	}
	n := 1
	for n < len(look) && look[n] != '<' && look[n] != '&' {
		n++
	}
	return xmlText, n, Text
}

func nameLen(look []byte) int {
	n := 0
	for n < len(look) && (isIdentByte(look[n]) || look[n] == '-' || look[n] == ':' || look[n] == '.') {
		n++
	}
	return n
}
