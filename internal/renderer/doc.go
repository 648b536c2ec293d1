// Package renderer draws document views into a tcell screen.
//
// A frame seeks the first visible screen row of a view and walks units from
// there, so drawing costs the visible text plus whatever the position
// mapper needs to refresh above it. Each row's cells are compared with the
// previous frame and only changed rows are written to the screen.
//
// Usage:
//
//	screen, _ := tcell.NewScreen()
//	_ = screen.Init()
//	r := renderer.New(screen, renderer.WithTheme(highlight.NewTheme("monokai")))
//	r.Draw(doc, view, renderer.Status{Name: "main.go"})
//
// Between events the owner calls Idle so the visual cache catches up a few
// leaves at a time.
package renderer
