// Package statusline renders the pager's bottom line.
package statusline

import (
	"fmt"
	"sync"

	"github.com/dshills/hilite/internal/renderer/backend"
	"github.com/dshills/hilite/internal/renderer/core"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// Styles holds the styles of the status line parts.
type Styles struct {
	// Badge styles the language name on the left.
	Badge   core.Style
	Bar     core.Style
	Info    core.Style
	Warning core.Style
	Error   core.Style
}

// StatusLine shows the language, file name, theme and scroll position, or
// a message in their place.
type StatusLine struct {
	mu sync.Mutex

	language   string
	filename   string
	theme      string
	topLine    int // 0-indexed
	bottomLine int // exclusive
	totalLines int

	message     string
	messageType MessageType

	styles Styles
}

// New creates a status line.
func New(styles Styles) *StatusLine {
	return &StatusLine{styles: styles}
}

// SetStyles replaces the styles.
func (s *StatusLine) SetStyles(styles Styles) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styles = styles
}

// SetLanguage updates the displayed language name.
func (s *StatusLine) SetLanguage(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = name
}

// SetFilename updates the displayed file name.
func (s *StatusLine) SetFilename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = name
}

// SetTheme updates the displayed theme name.
func (s *StatusLine) SetTheme(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = name
}

// SetRange updates the visible line range, [top, bottom) of total.
func (s *StatusLine) SetRange(top, bottom, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topLine, s.bottomLine, s.totalLines = top, bottom, total
}

// SetMessage displays a message instead of the file information.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = ""
	s.messageType = MessageNone
}

// Render draws the status line on row.
func (s *StatusLine) Render(b backend.Backend, row, width int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.message != "" {
		s.renderMessage(b, row, width)
		return
	}
	s.renderStatusBar(b, row, width)
}

func (s *StatusLine) renderStatusBar(b backend.Backend, row, width int) {
	b.Fill(core.RectFromSize(0, row, width, 1), core.Cell{Rune: ' ', Width: 1, Style: s.styles.Bar})

	pos := s.formatPosition()
	right := width - core.StringWidth(pos) - 1

	col := 0
	if s.language != "" {
		col = putString(b, col, row, right, " "+s.language+" ", s.styles.Badge)
		col++
	}

	name := s.filename
	if name == "" {
		name = "[stdin]"
	}
	if s.theme != "" {
		name += "  (" + s.theme + ")"
	}
	putString(b, col, row, right-1, name, s.styles.Bar)

	if right > col {
		putString(b, right, row, width, pos, s.styles.Bar)
	}
}

func (s *StatusLine) renderMessage(b backend.Backend, row, width int) {
	style := s.styles.Info
	switch s.messageType {
	case MessageError:
		style = s.styles.Error
	case MessageWarning:
		style = s.styles.Warning
	}
	b.Fill(core.RectFromSize(0, row, width, 1), core.Cell{Rune: ' ', Width: 1, Style: style})
	putString(b, 0, row, width, s.message, style)
}

// formatPosition formats the right side, "12-40/200 Top".
func (s *StatusLine) formatPosition() string {
	if s.totalLines == 0 {
		return "empty"
	}
	where := fmt.Sprintf("%d%%", s.bottomLine*100/s.totalLines)
	switch {
	case s.topLine == 0 && s.bottomLine >= s.totalLines:
		where = "All"
	case s.topLine == 0:
		where = "Top"
	case s.bottomLine >= s.totalLines:
		where = "Bot"
	}
	return fmt.Sprintf("%d-%d/%d %s", s.topLine+1, s.bottomLine, s.totalLines, where)
}

// putString writes str from column x, stopping before limit. It returns the
// column after the last rune written.
func putString(b backend.Backend, x, y, limit int, str string, style core.Style) int {
	for _, r := range str {
		w := core.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		b.SetCell(x, y, core.Cell{Rune: r, Width: w, Style: style})
		if w == 2 {
			b.SetCell(x+1, y, core.ContinuationCell(style))
		}
		x += w
	}
	return x
}
