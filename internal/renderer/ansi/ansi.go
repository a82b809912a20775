// Package ansi writes highlighted documents as text with escape sequences,
// for output that is piped or printed rather than paged.
package ansi

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dshills/hilite/internal/renderer"
	"github.com/dshills/hilite/internal/renderer/core"
	"github.com/dshills/hilite/internal/renderer/highlight"
	"github.com/dshills/hilite/internal/renderer/layout"
)

// ColorMode selects how many colors the output uses.
type ColorMode string

const (
	ColorAuto ColorMode = "auto" // Detect from the output and environment
	ColorTrue ColorMode = "truecolor"
	Color256  ColorMode = "256"
	Color16   ColorMode = "16"
	ColorNone ColorMode = "never"
)

// ParseColorMode parses a color mode name. "always" means truecolor.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorTrue, "always":
		return ColorTrue, nil
	case Color256, Color16, ColorNone:
		return m, nil
	case "none", "off":
		return ColorNone, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want auto, truecolor, 256, 16 or never)", s)
	}
}

func (m ColorMode) profile() (termenv.Profile, bool) {
	switch m {
	case ColorTrue:
		return termenv.TrueColor, true
	case Color256:
		return termenv.ANSI256, true
	case Color16:
		return termenv.ANSI, true
	case ColorNone:
		return termenv.Ascii, true
	default:
		return termenv.Ascii, false
	}
}

// Options configures a Writer.
type Options struct {
	TabWidth        int
	ShowLineNumbers bool
	FirstLineNumber int
	// Background paints the theme background behind every cell.
	Background bool
	Color      ColorMode
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{TabWidth: 4, FirstLineNumber: 1, Color: ColorAuto}
}

// Writer renders lines to an io.Writer.
type Writer struct {
	out      *bufio.Writer
	renderer *lipgloss.Renderer
	engine   *layout.Engine
	styles   *highlight.StyleRegistry
	opts     Options

	base   core.Style
	number core.Style
	cache  map[core.Style]lipgloss.Style
}

// New creates a Writer. Call Flush when done.
func New(out io.Writer, styles *highlight.StyleRegistry, opts Options) *Writer {
	r := lipgloss.NewRenderer(out)
	if p, ok := opts.Color.profile(); ok {
		r.SetColorProfile(p)
	}

	w := &Writer{
		out:      bufio.NewWriter(out),
		renderer: r,
		engine:   layout.NewEngine(opts.TabWidth),
		styles:   styles,
		opts:     opts,
		cache:    make(map[core.Style]lipgloss.Style),
	}
	w.base = core.Style{Foreground: styles.Foreground(), Background: core.ColorDefault}
	w.number = core.Style{Foreground: styles.Muted(), Background: core.ColorDefault}
	if opts.Background {
		w.base.Background = styles.Background()
		w.number.Background = styles.Background()
	}
	return w
}

// Profile returns the color profile in use.
func (w *Writer) Profile() termenv.Profile {
	return w.renderer.ColorProfile()
}

// WriteDocument writes every line of src followed by a newline.
func (w *Writer) WriteDocument(src renderer.Source) error {
	n := src.LineCount()
	width := len(strconv.Itoa(max(n-1, 0) + w.opts.FirstLineNumber))
	for i := 0; i < n; i++ {
		text, _ := src.Line(i)
		if err := w.WriteLine(i, text, src.StyleSpans(i, w.styles), width); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteLine writes one line and a newline. numberWidth pads the line
// number when line numbers are shown.
func (w *Writer) WriteLine(line int, text string, spans []core.StyleSpan, numberWidth int) error {
	if w.opts.ShowLineNumbers {
		num := fmt.Sprintf("%*d ", numberWidth, line+w.opts.FirstLineNumber)
		if _, err := w.out.WriteString(w.render(w.number, num)); err != nil {
			return err
		}
	}
	if _, err := w.out.WriteString(w.RenderLine(text, spans)); err != nil {
		return err
	}
	return w.out.WriteByte('\n')
}

// RenderLine returns text with spans applied, as one escaped string.
// Cells with equal styles are grouped into a single sequence.
func (w *Writer) RenderLine(text string, spans []core.StyleSpan) string {
	l := w.engine.Layout(text, 0, w.base).WithStyles(spans)

	var sb strings.Builder
	var run strings.Builder
	var runStyle core.Style
	flush := func() {
		if run.Len() > 0 {
			sb.WriteString(w.render(runStyle, run.String()))
			run.Reset()
		}
	}

	for _, c := range l.Cells {
		if c.IsContinuation() {
			continue
		}
		if run.Len() > 0 && !c.Style.Equals(runStyle) {
			flush()
		}
		runStyle = c.Style
		run.WriteRune(c.Rune)
	}
	flush()
	return sb.String()
}

// Flush writes any buffered output.
func (w *Writer) Flush() error {
	return w.out.Flush()
}

func (w *Writer) render(s core.Style, text string) string {
	ls, ok := w.cache[s]
	if !ok {
		ls = w.lipglossStyle(s)
		w.cache[s] = ls
	}
	return ls.Render(text)
}

// lipglossStyle converts a core style for this writer's renderer.
func (w *Writer) lipglossStyle(s core.Style) lipgloss.Style {
	ls := w.renderer.NewStyle()
	if !s.Foreground.IsDefault() {
		ls = ls.Foreground(lipgloss.Color(s.Foreground.Hex()))
	}
	if !s.Background.IsDefault() {
		ls = ls.Background(lipgloss.Color(s.Background.Hex()))
	}
	if s.Attributes.Has(core.AttrBold) {
		ls = ls.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		ls = ls.Faint(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		ls = ls.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		ls = ls.Underline(true)
	}
	return ls
}
