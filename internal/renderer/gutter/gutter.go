// Package gutter renders the column to the left of the text: line numbers
// and an optional marker column.
package gutter

import (
	"strconv"
	"sync"

	"github.com/dshills/hilite/internal/renderer/core"
)

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// MinLineNumberWidth is the minimum number of digits reserved.
	MinLineNumberWidth int

	// ShowMarkers enables the one cell marker column.
	ShowMarkers bool

	// FirstNumber is the number shown for line 0.
	FirstNumber int
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		MinLineNumberWidth: 3,
		FirstNumber:        1,
	}
}

// Styles holds the styles of the gutter parts.
type Styles struct {
	Number core.Style
	Marker core.Style
	// Filler is used for the "~" shown on rows past the last line.
	Filler core.Style
}

// MarkerProvider supplies the marker rune of a line, or 0 for none.
type MarkerProvider interface {
	MarkerForLine(line int) rune
}

// MarkerFunc adapts a function to MarkerProvider.
type MarkerFunc func(line int) rune

// MarkerForLine calls f.
func (f MarkerFunc) MarkerForLine(line int) rune { return f(line) }

// Gutter renders gutter cells for a document of known length.
type Gutter struct {
	mu        sync.RWMutex
	config    Config
	styles    Styles
	markers   MarkerProvider
	lineCount int
	width     int
}

// New creates a gutter.
func New(config Config, styles Styles) *Gutter {
	g := &Gutter{config: config, styles: styles}
	g.width = calculateWidth(config, 0)
	return g
}

// Width returns the total gutter width including the separator.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// SetLineCount updates the line count, which drives the number width.
func (g *Gutter) SetLineCount(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lineCount = count
	g.width = calculateWidth(g.config, g.lastNumber())
}

// SetStyles replaces the gutter styles.
func (g *Gutter) SetStyles(styles Styles) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.styles = styles
}

// SetMarkerProvider sets the source of marker runes.
func (g *Gutter) SetMarkerProvider(mp MarkerProvider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.markers = mp
}

// RenderLine renders the gutter of one row. exists is false for rows past
// the end of the document, which show a "~".
func (g *Gutter) RenderLine(line int, exists bool) []core.Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.width == 0 {
		return nil
	}

	cells := make([]core.Cell, g.width)
	for i := range cells {
		cells[i] = core.Cell{Rune: ' ', Width: 1, Style: g.styles.Number}
	}

	col := 0
	if g.config.ShowMarkers {
		if exists && g.markers != nil {
			if r := g.markers.MarkerForLine(line); r != 0 {
				cells[col] = core.Cell{Rune: r, Width: 1, Style: g.styles.Marker}
			}
		}
		col++
	}

	if g.config.ShowLineNumbers {
		numWidth := g.lineNumberWidth()
		if exists {
			num := strconv.Itoa(line + g.config.FirstNumber)
			// Right-align
			start := col + numWidth - len(num)
			for i, r := range num {
				if start+i >= col {
					cells[start+i] = core.Cell{Rune: r, Width: 1, Style: g.styles.Number}
				}
			}
		} else {
			cells[col+numWidth-1] = core.Cell{Rune: '~', Width: 1, Style: g.styles.Filler}
		}
	}

	return cells
}

func (g *Gutter) lastNumber() int {
	return max(g.lineCount-1, 0) + g.config.FirstNumber
}

// lineNumberWidth returns the width for line numbers.
func (g *Gutter) lineNumberWidth() int {
	return max(countDigits(g.lastNumber()), g.config.MinLineNumberWidth)
}

// calculateWidth calculates the total gutter width.
func calculateWidth(config Config, lastNumber int) int {
	width := 0
	if config.ShowMarkers {
		width++
	}
	if config.ShowLineNumbers {
		width += max(countDigits(lastNumber), config.MinLineNumberWidth)
	}
	// Separator
	if width > 0 {
		width++
	}
	return width
}

// countDigits returns the number of digits needed to display n.
func countDigits(n int) int {
	if n < 0 {
		return countDigits(-n) + 1
	}
	digits := 1
	for n >= 10 {
		digits++
		n /= 10
	}
	return digits
}
