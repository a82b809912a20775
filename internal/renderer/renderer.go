package renderer

import (
	"context"
	"sync"

	"github.com/dshills/hilite/internal/logging"
	"github.com/dshills/hilite/internal/renderer/backend"
	"github.com/dshills/hilite/internal/renderer/core"
	"github.com/dshills/hilite/internal/renderer/highlight"
	"github.com/dshills/hilite/internal/renderer/statusline"
)

// Options configures the renderer.
type Options struct {
	// Display
	TabWidth         int  // Columns per tab stop
	ShowLineNumbers  bool // Show line numbers in gutter
	ShowStateMarkers bool // Mark lines that end inside a construct
	FirstLineNumber  int  // Number shown for the first line
	ShowStatusLine   bool // Reserve the bottom row for the status line

	// Scrolling
	HorizontalStep int // Columns moved by left and right

	// Performance
	CacheSize int // Line layouts kept (0 = unlimited)

	Logger *logging.Logger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		TabWidth:        4,
		ShowLineNumbers: true,
		FirstLineNumber: 1,
		ShowStatusLine:  true,
		HorizontalStep:  8,
		CacheSize:       2000,
	}
}

func (o Options) normalized() Options {
	if o.TabWidth < 1 {
		o.TabWidth = 4
	}
	if o.HorizontalStep < 1 {
		o.HorizontalStep = 8
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}

// Renderer is the pager facade. It owns a full screen view, the status
// line and the event loop.
type Renderer struct {
	mu sync.Mutex

	opts    Options
	log     *logging.Logger
	backend backend.Backend
	width   int
	height  int

	view   *View
	status *statusline.StatusLine

	reloadHandler func()
	frameCount    uint64

	// Digits typed before a command
	count int
}

// New creates a renderer painting onto b, which must be initialized.
func New(b backend.Backend, styles *highlight.StyleRegistry, opts Options) *Renderer {
	opts = opts.normalized()
	width, height := b.Size()

	r := &Renderer{
		opts:    opts,
		log:     opts.Logger.WithComponent("renderer"),
		backend: b,
		width:   width,
		height:  height,
		status:  statusline.New(statusStyles(styles)),
	}
	r.view = NewView(r.viewRect(), styles, opts)
	return r
}

func statusStyles(styles *highlight.StyleRegistry) statusline.Styles {
	surface := styles.Surface()
	return statusline.Styles{
		Badge:   core.Style{Foreground: styles.Background(), Background: styles.Get(highlight.TokenKeyword).Foreground}.Bold(),
		Bar:     core.Style{Foreground: styles.Foreground(), Background: surface},
		Info:    core.Style{Foreground: styles.Get(highlight.TokenString).Foreground, Background: surface},
		Warning: core.Style{Foreground: styles.Get(highlight.TokenNumber).Foreground, Background: surface},
		Error:   core.Style{Foreground: styles.Get(highlight.TokenBuiltin).Foreground, Background: surface}.Bold(),
	}
}

// viewRect returns the area left for the document. Must hold the lock or
// be called before the renderer is shared.
func (r *Renderer) viewRect() core.Rect {
	h := r.height
	if r.opts.ShowStatusLine {
		h--
	}
	return core.RectFromSize(0, 0, r.width, max(h, 0))
}

// View returns the document view.
func (r *Renderer) View() *View {
	return r.view
}

// StatusLine returns the status line.
func (r *Renderer) StatusLine() *statusline.StatusLine {
	return r.status
}

// SetSource shows a document. name and language label the status line.
func (r *Renderer) SetSource(src Source, name, language string) {
	r.view.SetSource(src)
	r.status.SetFilename(name)
	r.status.SetLanguage(language)
}

// ReplaceSource shows a reloaded document without losing the position.
func (r *Renderer) ReplaceSource(src Source) {
	r.view.ReplaceSource(src)
}

// SetStyles switches to a new theme.
func (r *Renderer) SetStyles(styles *highlight.StyleRegistry, themeName string) {
	r.view.SetStyles(styles)
	r.status.SetStyles(statusStyles(styles))
	r.status.SetTheme(themeName)
}

// OnReload registers the function run for EventReload before repainting.
func (r *Renderer) OnReload(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloadHandler = fn
}

// Resize adapts the layout to a new screen size.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	rect := r.viewRect()
	r.mu.Unlock()
	r.view.SetBounds(rect)
}

// FrameCount returns the number of frames painted.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// Render paints the view and status line and shows the frame.
func (r *Renderer) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.view.Render(r.backend)

	if r.opts.ShowStatusLine && r.height > 0 {
		start, end := r.view.Viewport().VisibleLineRange()
		r.status.SetRange(start, end, r.view.LineCount())
		r.status.Render(r.backend, r.height-1, r.width)
	}

	r.backend.Show()
	r.frameCount++
}

// HandleEvent applies one event. It returns false when the pager should
// exit.
func (r *Renderer) HandleEvent(ev backend.Event) bool {
	vp := r.view.Viewport()

	switch ev.Type {
	case backend.EventQuit:
		return false

	case backend.EventResize:
		r.Resize(ev.Width, ev.Height)
		r.backend.Clear()

	case backend.EventReload:
		r.mu.Lock()
		fn := r.reloadHandler
		r.mu.Unlock()
		if fn != nil {
			fn()
		}

	case backend.EventKey:
		r.status.ClearMessage()
		if ev.Key != backend.KeyRune {
			r.count = 0
		}
		switch ev.Key {
		case backend.KeyEscape, backend.KeyCtrlC:
			return false
		case backend.KeyUp:
			vp.ScrollBy(-1)
		case backend.KeyDown, backend.KeyEnter:
			vp.ScrollBy(1)
		case backend.KeyPageUp:
			vp.PageUp()
		case backend.KeyPageDown:
			vp.PageDown()
		case backend.KeyHome:
			vp.ScrollToTop()
		case backend.KeyEnd:
			vp.ScrollToBottom()
		case backend.KeyLeft:
			vp.ScrollHorizontalBy(-r.opts.HorizontalStep)
		case backend.KeyRight:
			vp.ScrollHorizontalBy(r.opts.HorizontalStep)
		case backend.KeyCtrlL:
			r.backend.Clear()
		case backend.KeyRune:
			return r.handleRune(ev.Rune)
		}
	}
	return true
}

// handleRune applies the less style single letter commands. A number
// typed first repeats j and k, selects the line for g and the percentage
// for p.
func (r *Renderer) handleRune(ch rune) bool {
	if ch >= '0' && ch <= '9' {
		r.count = min(r.count*10+int(ch-'0'), 1<<30)
		return true
	}
	count := r.count
	r.count = 0

	vp := r.view.Viewport()
	switch ch {
	case 'q', 'Q':
		return false
	case 'j':
		vp.ScrollBy(max(count, 1))
	case 'k':
		vp.ScrollBy(-max(count, 1))
	case ' ', 'f':
		vp.PageDown()
	case 'b':
		vp.PageUp()
	case 'd':
		vp.HalfPageDown()
	case 'u':
		vp.HalfPageUp()
	case 'g', '<':
		if count > 0 {
			vp.ScrollTo(count - 1)
		} else {
			vp.ScrollToTop()
		}
	case 'p', '%':
		vp.ScrollToPercent(float64(count) / 100)
	case 'G', '>':
		vp.ScrollToBottom()
	case 'h':
		vp.ScrollHorizontalBy(-r.opts.HorizontalStep)
	case 'l':
		vp.ScrollHorizontalBy(r.opts.HorizontalStep)
	}
	return true
}

// Run paints and handles events until the user quits or ctx is done.
func (r *Renderer) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.backend.PostEvent(backend.Event{Type: backend.EventQuit})
		case <-done:
		}
	}()

	r.Render()
	for {
		ev := r.backend.PollEvent()
		if !r.HandleEvent(ev) {
			r.log.Debug("pager exiting after %d frames", r.FrameCount())
			return ctx.Err()
		}
		r.Render()
	}
}
