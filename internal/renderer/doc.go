// Package renderer paints highlighted documents onto a cell backend.
//
// The renderer is responsible for:
//   - Converting document lines to cells with tab and wide rune handling
//   - Merging the style spans of each line over the theme's base style
//   - Line numbers, lexer state markers and the status line
//   - Scrolling and the pager event loop
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│        Renderer (pager facade)          │
//	├─────────────────────────────────────────┤
//	│  View     │ Gutter    │ StatusLine      │
//	│  Viewport │ LineCache │                 │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ Memory              │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, theme.Styles(log), renderer.DefaultOptions())
//	r.SetSource(doc, "main.go", "go")
//	err := r.Run(ctx)
//
// The ansi subpackage writes the same cells as escape sequences for
// non-interactive output.
package renderer
