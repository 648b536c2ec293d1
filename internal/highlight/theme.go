package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "monokai"

// Theme resolves colour classes to terminal styles.
type Theme struct {
	name    string
	base    tcell.Style
	classes [numClasses]tcell.Style
}

// NewTheme builds a theme from a chroma style name. Unknown names fall back
// to chroma's fallback style.
func NewTheme(name string) *Theme {
	sty := styles.Get(name)
	t := &Theme{name: sty.Name}

	t.base = entryStyle(tcell.StyleDefault, sty.Get(chroma.Background))
	for c := Class(0); c < numClasses; c++ {
		t.classes[c] = entryStyle(t.base, sty.Get(c.TokenType()))
	}
	t.classes[Match] = t.classes[Match].Reverse(true)
	t.classes[Escape] = t.classes[Escape].Underline(true)
	return t
}

// Name returns the resolved chroma style name.
func (t *Theme) Name() string {
	return t.name
}

// Base returns the default text style.
func (t *Theme) Base() tcell.Style {
	return t.base
}

// Style returns the style for a class.
func (t *Theme) Style(c Class) tcell.Style {
	if c < numClasses {
		return t.classes[c]
	}
	return t.base
}

func entryStyle(base tcell.Style, e chroma.StyleEntry) tcell.Style {
	s := base
	if e.Colour.IsSet() {
		s = s.Foreground(colour(e.Colour))
	}
	if e.Background.IsSet() {
		s = s.Background(colour(e.Background))
	}
	if e.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if e.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	if e.Underline == chroma.Yes {
		s = s.Underline(true)
	}
	return s
}

func colour(c chroma.Colour) tcell.Color {
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}
