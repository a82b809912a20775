package renderer

import (
	"sync"

	"github.com/dshills/hilite/internal/renderer/backend"
	"github.com/dshills/hilite/internal/renderer/core"
	"github.com/dshills/hilite/internal/renderer/gutter"
	"github.com/dshills/hilite/internal/renderer/highlight"
	"github.com/dshills/hilite/internal/renderer/layout"
	"github.com/dshills/hilite/internal/renderer/viewport"
)

// Source provides the lines of a document and their styles.
// *document.Document implements it.
type Source interface {
	LineCount() int
	Line(i int) (string, bool)
	StyleSpans(i int, reg *highlight.StyleRegistry) []core.StyleSpan
}

// StateSource is implemented by sources that expose the lexer state at the
// end of each line. The view marks lines that end inside a construct.
type StateSource interface {
	State(i int) highlight.LexerState
}

// stateMarker is shown in the gutter of lines ending inside a construct.
const stateMarker = '│'

// View paints a Source into a rectangle of a backend.
type View struct {
	mu sync.Mutex

	rect   core.Rect
	source Source
	styles *highlight.StyleRegistry
	opts   Options

	engine   *layout.Engine
	cache    *layout.LineCache
	viewport *viewport.Viewport
	gutter   *gutter.Gutter
	base     core.Style
}

// NewView creates a view covering rect.
func NewView(rect core.Rect, styles *highlight.StyleRegistry, opts Options) *View {
	opts = opts.normalized()
	v := &View{
		rect:     rect,
		styles:   styles,
		opts:     opts,
		engine:   layout.NewEngine(opts.TabWidth),
		viewport: viewport.NewViewport(rect.Width(), rect.Height()),
	}
	v.base = baseStyle(styles)
	v.cache = layout.NewLineCache(v.engine, v.base, opts.CacheSize)
	v.gutter = gutter.New(gutter.Config{
		ShowLineNumbers:    opts.ShowLineNumbers,
		MinLineNumberWidth: 3,
		ShowMarkers:        opts.ShowStateMarkers,
		FirstNumber:        opts.FirstLineNumber,
	}, gutterStyles(styles))
	v.gutter.SetMarkerProvider(gutter.MarkerFunc(v.markerForLine))
	v.resizeViewport()
	return v
}

// baseStyle is the theme's default text on its background.
func baseStyle(styles *highlight.StyleRegistry) core.Style {
	return core.Style{Foreground: styles.Foreground(), Background: styles.Background()}
}

func gutterStyles(styles *highlight.StyleRegistry) gutter.Styles {
	bg := styles.Background()
	return gutter.Styles{
		Number: core.Style{Foreground: styles.Muted(), Background: bg},
		Marker: core.Style{Foreground: styles.Get(highlight.TokenKeyword).Foreground, Background: bg},
		Filler: core.Style{Foreground: styles.Muted(), Background: bg},
	}
}

// Bounds returns the rectangle the view paints.
func (v *View) Bounds() core.Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rect
}

// SetBounds moves or resizes the view.
func (v *View) SetBounds(rect core.Rect) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rect = rect
	v.resizeViewport()
}

// Viewport returns the viewport for scrolling.
func (v *View) Viewport() *viewport.Viewport {
	return v.viewport
}

// GutterWidth returns the width of the gutter in cells.
func (v *View) GutterWidth() int {
	return v.gutter.Width()
}

// LineCount returns the number of lines in the document.
func (v *View) LineCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.source == nil {
		return 0
	}
	return v.source.LineCount()
}

// SetSource replaces the document and scrolls to the top.
func (v *View) SetSource(src Source) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.source = src
	v.cache.InvalidateFrom(0)
	v.refresh()
	v.viewport.ScrollToTop()
}

// ReplaceSource swaps in a reloaded document and keeps the scroll
// position where the new content allows.
func (v *View) ReplaceSource(src Source) {
	v.mu.Lock()
	defer v.mu.Unlock()
	saved := v.viewport.ScrollState()
	v.source = src
	v.cache.InvalidateFrom(0)
	v.refresh()
	v.viewport.RestoreScrollState(saved)
}

// SetStyles switches to a new theme.
func (v *View) SetStyles(styles *highlight.StyleRegistry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.styles = styles
	v.base = baseStyle(styles)
	v.cache.Reset(v.engine, v.base)
	v.gutter.SetStyles(gutterStyles(styles))
}

// Refresh re-reads the document size after an edit. Lines from the first
// changed one onward are laid out again when next painted.
func (v *View) Refresh(firstChanged int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cache.InvalidateFrom(firstChanged)
	v.refresh()
}

// refresh updates the gutter and viewport extents. Must hold the lock.
func (v *View) refresh() {
	lines := 0
	if v.source != nil {
		lines = v.source.LineCount()
	}
	v.gutter.SetLineCount(lines)
	v.resizeViewport()

	width := 0
	for i := 0; i < lines; i++ {
		text, _ := v.source.Line(i)
		width = max(width, v.cache.Get(i, text).Width)
	}
	v.viewport.SetContentSize(lines, width)
}

// resizeViewport fits the viewport to the area right of the gutter. Must
// hold the lock.
func (v *View) resizeViewport() {
	v.viewport.Resize(v.rect.Width()-v.gutter.Width(), v.rect.Height())
}

func (v *View) markerForLine(line int) rune {
	ss, ok := v.source.(StateSource)
	if !ok {
		return 0
	}
	if ss.State(line) != highlight.LexerStateNormal {
		return stateMarker
	}
	return 0
}

// Render paints every row of the view.
func (v *View) Render(b backend.Backend) {
	v.mu.Lock()
	defer v.mu.Unlock()

	lines := 0
	if v.source != nil {
		lines = v.source.LineCount()
	}
	gw := v.gutter.Width()
	contentWidth := v.rect.Width() - gw
	top := v.viewport.TopLine()
	left := v.viewport.LeftColumn()

	for row := 0; row < v.rect.Height(); row++ {
		line := top + row
		y := v.rect.Top + row
		exists := line < lines

		for x, c := range v.gutter.RenderLine(line, exists) {
			if x < v.rect.Width() {
				b.SetCell(v.rect.Left+x, y, c)
			}
		}
		if contentWidth <= 0 {
			continue
		}

		if !exists {
			b.Fill(core.RectFromSize(v.rect.Left+gw, y, contentWidth, 1), core.Cell{Rune: ' ', Width: 1, Style: v.base})
			continue
		}

		text, _ := v.source.Line(line)
		l := v.cache.Get(line, text)
		if spans := v.source.StyleSpans(line, v.styles); len(spans) > 0 {
			l = l.WithStyles(spans)
		}
		for x, c := range l.Slice(left, contentWidth, v.base) {
			b.SetCell(v.rect.Left+gw+x, y, c)
		}
	}
}
