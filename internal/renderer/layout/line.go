// Package layout turns line text into terminal cells.
package layout

import (
	"github.com/dshills/hilite/internal/renderer/core"
)

// LineLayout is the visual form of one document line.
type LineLayout struct {
	// Line is the document line index.
	Line int

	// Cells holds the visual cells after tab and control expansion.
	Cells []core.Cell

	// Columns maps each rune offset to its first visual column. It has one
	// extra entry holding the width of the line.
	Columns []int

	Width   int  // Total visual width in columns
	HasTabs bool // Contains tab characters
	HasWide bool // Contains wide (CJK) characters
}

// VisualColumn converts a rune offset to a visual column. Offsets past the
// end extrapolate one column per rune.
func (l *LineLayout) VisualColumn(off int) int {
	if off < 0 {
		return 0
	}
	if off < len(l.Columns) {
		return l.Columns[off]
	}
	return l.Width + off - (len(l.Columns) - 1)
}

// Slice returns the cells of visual columns [left, left+width). A wide rune
// cut by either edge is shown as a blank in its style. The result is padded
// to width with blanks in pad.
func (l *LineLayout) Slice(left, width int, pad core.Style) []core.Cell {
	if width <= 0 {
		return nil
	}
	out := make([]core.Cell, width)
	for x := range out {
		col := left + x
		if col < 0 || col >= len(l.Cells) {
			out[x] = core.Cell{Rune: ' ', Width: 1, Style: pad}
			continue
		}
		c := l.Cells[col]
		switch {
		case c.IsContinuation() && x == 0:
			c = core.Cell{Rune: ' ', Width: 1, Style: c.Style}
		case c.Width == 2 && x == width-1:
			c = core.Cell{Rune: ' ', Width: 1, Style: c.Style}
		}
		out[x] = c
	}
	return out
}

// WithStyles returns a copy of the layout with spans merged over its cells.
// Span offsets are runes. Later spans override earlier ones.
func (l *LineLayout) WithStyles(spans []core.StyleSpan) *LineLayout {
	out := *l
	out.Cells = make([]core.Cell, len(l.Cells))
	copy(out.Cells, l.Cells)

	for _, span := range spans {
		if span.Start >= span.End {
			continue
		}
		start := min(l.VisualColumn(span.Start), len(out.Cells))
		end := min(l.VisualColumn(span.End), len(out.Cells))
		for i := start; i < end; i++ {
			out.Cells[i].Style = out.Cells[i].Style.Merge(span.Style)
		}
	}
	return &out
}

// Engine lays out lines with a fixed tab width.
type Engine struct {
	tabWidth int
}

// NewEngine creates a layout engine. A tab width below 1 means 4.
func NewEngine(tabWidth int) *Engine {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &Engine{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (e *Engine) TabWidth() int {
	return e.tabWidth
}

// NextTabStop returns the next tab stop column after col.
func (e *Engine) NextTabStop(col int) int {
	return col + e.tabWidth - (col % e.tabWidth)
}

// Layout computes the visual layout for a line with every cell in base.
//
// Tabs expand to the next tab stop. C0 controls and DEL show in caret
// notation (^[ for ESC). Zero-width runes such as combining marks take no
// cell and map to the column of the next visible rune.
func (e *Engine) Layout(text string, line int, base core.Style) *LineLayout {
	l := &LineLayout{
		Line:    line,
		Cells:   make([]core.Cell, 0, len(text)),
		Columns: make([]int, 0, len(text)+1),
	}

	for _, r := range text {
		col := len(l.Cells)
		l.Columns = append(l.Columns, col)

		switch {
		case r == '\t':
			l.HasTabs = true
			for i := col; i < e.NextTabStop(col); i++ {
				l.Cells = append(l.Cells, core.Cell{Rune: ' ', Width: 1, Style: base})
			}

		case r < 0x20 || r == 0x7f:
			l.Cells = append(l.Cells,
				core.Cell{Rune: '^', Width: 1, Style: base},
				core.Cell{Rune: r ^ 0x40, Width: 1, Style: base},
			)

		default:
			switch core.RuneWidth(r) {
			case 0:
				// Combining mark, no cell of its own
			case 2:
				l.HasWide = true
				l.Cells = append(l.Cells,
					core.Cell{Rune: r, Width: 2, Style: base},
					core.ContinuationCell(base),
				)
			default:
				l.Cells = append(l.Cells, core.Cell{Rune: r, Width: 1, Style: base})
			}
		}
	}

	l.Width = len(l.Cells)
	l.Columns = append(l.Columns, l.Width)
	return l
}
