// Package viewport tracks which part of a document is on screen.
package viewport

import "sync"

// Viewport is the visible window onto a document. Positions are clamped so
// the last line can reach the bottom row but never scroll above it.
type Viewport struct {
	mu sync.RWMutex

	// First visible line and column
	topLine    int
	leftColumn int

	// Size in screen cells
	width  int
	height int

	// Content extent
	lineCount    int
	contentWidth int
}

// NewViewport creates a viewport with the given size. Sizes are clamped
// to at least 1.
func NewViewport(width, height int) *Viewport {
	return &Viewport{width: max(width, 1), height: max(height, 1)}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// LeftColumn returns the first visible column.
func (v *Viewport) LeftColumn() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn
}

// Resize changes the viewport size and re-clamps the position.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.clamp()
}

// SetContentSize sets the number of lines and the widest line in columns.
func (v *Viewport) SetContentSize(lines, width int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = max(lines, 0)
	v.contentWidth = max(width, 0)
	v.clamp()
}

// VisibleLineRange returns the first visible line and one past the last
// line that has content.
func (v *Viewport) VisibleLineRange() (start, end int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, min(v.topLine+v.height, v.lineCount)
}

// IsLineVisible reports whether line is on screen.
func (v *Viewport) IsLineVisible(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line < v.topLine+v.height
}

// LineToScreenRow converts a line to a screen row. The result is out of
// [0, Height) when the line is not visible.
func (v *Viewport) LineToScreenRow(line int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line - v.topLine
}

// ScrollTo makes line the first visible line.
func (v *Viewport) ScrollTo(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = line
	v.clamp()
}

// ScrollBy scrolls vertically by delta lines.
func (v *Viewport) ScrollBy(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine += delta
	v.clamp()
}

// ScrollHorizontalBy scrolls horizontally by delta columns.
func (v *Viewport) ScrollHorizontalBy(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.leftColumn += delta
	v.clamp()
}

// CenterOn scrolls so line sits in the middle row.
func (v *Viewport) CenterOn(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = line - v.height/2
	v.clamp()
}

// PageUp scrolls up one screen.
func (v *Viewport) PageUp() {
	v.ScrollBy(-v.Height())
}

// PageDown scrolls down one screen.
func (v *Viewport) PageDown() {
	v.ScrollBy(v.Height())
}

// HalfPageUp scrolls up half a screen.
func (v *Viewport) HalfPageUp() {
	v.ScrollBy(-max(v.Height()/2, 1))
}

// HalfPageDown scrolls down half a screen.
func (v *Viewport) HalfPageDown() {
	v.ScrollBy(max(v.Height()/2, 1))
}

// ScrollToTop shows the first line and column.
func (v *Viewport) ScrollToTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = 0
	v.leftColumn = 0
}

// ScrollToBottom shows the last line on the bottom row.
func (v *Viewport) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.lineCount
	v.clamp()
}

// clamp keeps the position inside the content. Must hold the write lock.
func (v *Viewport) clamp() {
	v.topLine = max(0, min(v.topLine, v.lineCount-v.height))
	v.leftColumn = max(0, min(v.leftColumn, v.contentWidth-v.width))
}
