package viewport

// ScrollState is a saved scroll position.
type ScrollState struct {
	TopLine    int
	LeftColumn int
}

// ScrollState returns the current position.
func (v *Viewport) ScrollState() ScrollState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return ScrollState{TopLine: v.topLine, LeftColumn: v.leftColumn}
}

// RestoreScrollState returns to a saved position, clamped to the current
// content.
func (v *Viewport) RestoreScrollState(state ScrollState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = state.TopLine
	v.leftColumn = state.LeftColumn
	v.clamp()
}

// EnsureLineVisible scrolls the minimum amount to show line. It reports
// whether the viewport moved.
func (v *Viewport) EnsureLineVisible(line int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	old := v.topLine
	switch {
	case line < v.topLine:
		v.topLine = line
	case line >= v.topLine+v.height:
		v.topLine = line - v.height + 1
	}
	v.clamp()
	return v.topLine != old
}

// ScrollPercent returns how far through the document the view is, from
// 0.0 to 1.0.
func (v *Viewport) ScrollPercent() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	maxScroll := v.lineCount - v.height
	if maxScroll <= 0 {
		return 0
	}
	return float64(v.topLine) / float64(maxScroll)
}

// ScrollToPercent scrolls to a fraction of the document. percent is
// clamped to [0, 1].
func (v *Viewport) ScrollToPercent(percent float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	percent = max(0, min(percent, 1))
	maxScroll := max(v.lineCount-v.height, 0)
	v.topLine = int(float64(maxScroll)*percent + 0.5)
	v.clamp()
}
