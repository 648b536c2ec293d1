package highlight

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// markers maps lower-case language names, including chroma lexer names and
// aliases, to markers.
var markers = map[string]Marker{
	"plain":      PlainText,
	"plaintext":  PlainText,
	"text":       PlainText,
	"c":          CLike,
	"c++":        CLike,
	"cpp":        CLike,
	"go":         CLike,
	"java":       CLike,
	"javascript": CLike,
	"js":         CLike,
	"typescript": CLike,
	"rust":       CLike,
	"sql":        SQL,
	"mysql":      SQL,
	"postgresql": SQL,
	"lua":        Lua,
	"xml":        XML,
	"html":       XML,
	"svg":        XML,
	"diff":       Patch,
	"patch":      Patch,
	"compile":    Compile,
}

// ForName returns the marker registered for a language name, or PlainText.
func ForName(name string) Marker {
	if m, ok := markers[strings.ToLower(name)]; ok {
		return m
	}
	return PlainText
}

// ForPath picks a marker for a file name. Chroma's filename patterns are
// consulted first; the extension is the fallback.
func ForPath(path string) Marker {
	base := filepath.Base(path)
	if lex := lexers.Match(base); lex != nil {
		cfg := lex.Config()
		if m, ok := markers[strings.ToLower(cfg.Name)]; ok {
			return m
		}
		for _, alias := range cfg.Aliases {
			if m, ok := markers[strings.ToLower(alias)]; ok {
				return m
			}
		}
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	return ForName(ext)
}

// Names returns the registered language names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(markers))
}

// Known reports whether name, in any case, is a registered language.
func Known(name string) bool {
	_, ok := slices.BinarySearch(Names(), strings.ToLower(name))
	return ok
}
