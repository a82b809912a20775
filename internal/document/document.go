// Package document stores the text of a file together with the spans and
// lexer state of every line, and keeps them current as lines are edited.
//
// A Document re-highlights from the first edited line forward and stops at
// the first unedited line whose incoming state is the one it was last
// highlighted with. Lines from there on would come out exactly as stored.
package document

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/hilite/internal/logging"
	"github.com/dshills/hilite/internal/renderer/core"
	"github.com/dshills/hilite/internal/renderer/highlight"
)

// ErrLineOutOfRange is returned when an edit names a line that does not
// exist.
var ErrLineOutOfRange = errors.New("line out of range")

// line is the stored form of one line.
type line struct {
	text  string
	spans []highlight.Span
	in    highlight.LexerState
	state highlight.LexerState

	// valid is false until the line has been highlighted once
	valid bool
}

// Change describes the lines whose spans were recomputed by an edit.
// Hosts repaint [Start, Start+Count).
type Change struct {
	Start int
	Count int
}

// End returns the line one past the last recomputed line.
func (c Change) End() int {
	return c.Start + c.Count
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

// WithID sets the document identity instead of a random one.
func WithID(id uuid.UUID) Option {
	return func(d *Document) {
		d.id = id
	}
}

// Document is a highlighted text buffer. It is safe for concurrent use.
type Document struct {
	mu sync.RWMutex

	id      uuid.UUID
	hl      highlight.LineHighlighter
	lines   []line
	version uint64
	log     *logging.Logger
}

// New creates an empty document. A nil highlighter leaves every line
// unstyled.
func New(h highlight.LineHighlighter, opts ...Option) *Document {
	d := &Document{
		id:    uuid.New(),
		hl:    h,
		lines: []line{{}},
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.WithComponent("document").WithField("doc", d.id.String())
	d.rehighlight(0, 1)
	return d
}

// ID returns the document identity.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Version increases with every edit.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Language returns the language of the highlighter, or "" if none.
func (d *Document) Language() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.hl == nil {
		return ""
	}
	return d.hl.Language()
}

// LineCount returns the number of lines. A document always has at least one.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Line returns the text of line i.
func (d *Document) Line(i int) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.lines) {
		return "", false
	}
	return d.lines[i].text, true
}

// Text returns the whole document joined with newlines.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	texts := make([]string, len(d.lines))
	for i, l := range d.lines {
		texts[i] = l.text
	}
	return strings.Join(texts, "\n")
}

// Spans returns a copy of the spans of line i.
func (d *Document) Spans(i int) []highlight.Span {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.lines) {
		return nil
	}
	spans := d.lines[i].spans
	if len(spans) == 0 {
		return nil
	}
	out := make([]highlight.Span, len(spans))
	copy(out, spans)
	return out
}

// State returns the lexer state at the end of line i.
func (d *Document) State(i int) highlight.LexerState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.lines) {
		return highlight.LexerStateNormal
	}
	return d.lines[i].state
}

// StyleSpans resolves the spans of line i through a style registry.
func (d *Document) StyleSpans(i int, reg *highlight.StyleRegistry) []core.StyleSpan {
	spans := d.Spans(i)
	if reg == nil || len(spans) == 0 {
		return nil
	}
	return reg.StyleSpans(spans)
}

// SetHighlighter replaces the highlighter and re-highlights every line.
func (d *Document) SetHighlighter(h highlight.LineHighlighter) Change {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.hl = h
	for i := range d.lines {
		d.lines[i].valid = false
	}
	d.version++
	return d.rehighlight(0, len(d.lines))
}

// SetText replaces the whole content. Lines are split on "\n"; a trailing
// "\r" is dropped from each line.
func (d *Document) SetText(text string) Change {
	d.mu.Lock()
	defer d.mu.Unlock()

	texts := splitLines(text)
	d.lines = make([]line, len(texts))
	for i, t := range texts {
		d.lines[i].text = t
	}
	d.version++
	return d.rehighlight(0, len(d.lines))
}

// SetLine replaces the text of line i.
func (d *Document) SetLine(i int, text string) (Change, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i < 0 || i >= len(d.lines) {
		return Change{}, fmt.Errorf("set line %d of %d: %w", i, len(d.lines), ErrLineOutOfRange)
	}
	d.lines[i].text = strings.TrimSuffix(text, "\r")
	d.version++
	return d.rehighlight(i, i+1), nil
}

// InsertLines inserts texts before line at. at may equal LineCount to
// append.
func (d *Document) InsertLines(at int, texts ...string) (Change, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if at < 0 || at > len(d.lines) {
		return Change{}, fmt.Errorf("insert at %d of %d: %w", at, len(d.lines), ErrLineOutOfRange)
	}
	if len(texts) == 0 {
		return Change{Start: at}, nil
	}

	added := make([]line, len(texts))
	for i, t := range texts {
		added[i].text = strings.TrimSuffix(t, "\r")
	}
	d.lines = append(d.lines[:at], append(added, d.lines[at:]...)...)
	d.version++
	return d.rehighlight(at, at+len(added)), nil
}

// DeleteLines removes n lines starting at line from. Deleting every line
// leaves a single empty line.
func (d *Document) DeleteLines(from, n int) (Change, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if from < 0 || n < 0 || from+n > len(d.lines) {
		return Change{}, fmt.Errorf("delete %d lines at %d of %d: %w", n, from, len(d.lines), ErrLineOutOfRange)
	}
	if n == 0 {
		return Change{Start: from}, nil
	}

	d.lines = append(d.lines[:from], d.lines[from+n:]...)
	if len(d.lines) == 0 {
		d.lines = []line{{}}
	}
	d.version++
	if from >= len(d.lines) {
		return Change{Start: from}, nil
	}
	return d.rehighlight(from, from), nil
}

// rehighlight recomputes lines from start. Lines before edited are always
// recomputed; after that the run ends at the first line that is valid and
// whose incoming state did not change. The caller holds the write lock.
func (d *Document) rehighlight(start, edited int) Change {
	prev := highlight.LexerStateNormal
	if start > 0 {
		prev = d.lines[start-1].state
	}

	i := start
	for ; i < len(d.lines); i++ {
		l := &d.lines[i]
		if i >= edited && l.valid && l.in == prev {
			break
		}

		if d.hl == nil {
			l.spans, l.state = nil, highlight.LexerStateNormal
		} else {
			l.spans, l.state = d.hl.HighlightLine(l.text, prev)
		}
		l.in, l.valid = prev, true
		prev = l.state
	}

	c := Change{Start: start, Count: i - start}
	if c.Count > 0 {
		d.log.Debug("rehighlighted lines %d-%d", c.Start, c.End())
	}
	return c
}

// splitLines splits text into lines without their terminators.
func splitLines(text string) []string {
	texts := strings.Split(text, "\n")
	for i, t := range texts {
		texts[i] = strings.TrimSuffix(t, "\r")
	}
	return texts
}
