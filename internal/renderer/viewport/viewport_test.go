package viewport

import "testing"

func TestNewViewportClampsSize(t *testing.T) {
	v := NewViewport(0, -3)
	if v.Width() != 1 || v.Height() != 1 {
		t.Errorf("expected 1x1, got %dx%d", v.Width(), v.Height())
	}
}

func TestScrollClamping(t *testing.T) {
	v := NewViewport(10, 5)
	v.SetContentSize(20, 30)

	v.ScrollBy(100)
	if v.TopLine() != 15 {
		t.Errorf("TopLine = %d, want 15", v.TopLine())
	}
	v.ScrollBy(-100)
	if v.TopLine() != 0 {
		t.Errorf("TopLine = %d, want 0", v.TopLine())
	}

	v.ScrollHorizontalBy(100)
	if v.LeftColumn() != 20 {
		t.Errorf("LeftColumn = %d, want 20", v.LeftColumn())
	}
	v.ScrollHorizontalBy(-5)
	if v.LeftColumn() != 15 {
		t.Errorf("LeftColumn = %d, want 15", v.LeftColumn())
	}
}

func TestShortContentStaysAtTop(t *testing.T) {
	v := NewViewport(80, 24)
	v.SetContentSize(3, 10)

	v.PageDown()
	v.ScrollHorizontalBy(4)
	if v.TopLine() != 0 || v.LeftColumn() != 0 {
		t.Errorf("content smaller than the screen should not scroll, got %d,%d", v.TopLine(), v.LeftColumn())
	}

	start, end := v.VisibleLineRange()
	if start != 0 || end != 3 {
		t.Errorf("VisibleLineRange = %d,%d, want 0,3", start, end)
	}
}

func TestPaging(t *testing.T) {
	v := NewViewport(10, 10)
	v.SetContentSize(100, 10)

	v.PageDown()
	if v.TopLine() != 10 {
		t.Errorf("after PageDown TopLine = %d", v.TopLine())
	}
	v.HalfPageDown()
	if v.TopLine() != 15 {
		t.Errorf("after HalfPageDown TopLine = %d", v.TopLine())
	}
	v.HalfPageUp()
	v.PageUp()
	if v.TopLine() != 0 {
		t.Errorf("after paging back TopLine = %d", v.TopLine())
	}

	v.ScrollToBottom()
	if v.TopLine() != 90 {
		t.Errorf("ScrollToBottom TopLine = %d, want 90", v.TopLine())
	}
	start, end := v.VisibleLineRange()
	if start != 90 || end != 100 {
		t.Errorf("VisibleLineRange = %d,%d", start, end)
	}

	v.ScrollToTop()
	if v.TopLine() != 0 {
		t.Errorf("ScrollToTop TopLine = %d", v.TopLine())
	}
}

func TestCenterOnAndVisibility(t *testing.T) {
	v := NewViewport(10, 10)
	v.SetContentSize(100, 10)

	v.CenterOn(50)
	if v.TopLine() != 45 {
		t.Errorf("TopLine = %d, want 45", v.TopLine())
	}
	if !v.IsLineVisible(50) || v.IsLineVisible(44) || v.IsLineVisible(55) {
		t.Error("visibility does not match the window")
	}
	if v.LineToScreenRow(50) != 5 {
		t.Errorf("LineToScreenRow(50) = %d", v.LineToScreenRow(50))
	}

	v.ScrollTo(97)
	if v.TopLine() != 90 {
		t.Errorf("ScrollTo past the end = %d, want 90", v.TopLine())
	}
}

func TestResizeReclamps(t *testing.T) {
	v := NewViewport(10, 10)
	v.SetContentSize(20, 10)
	v.ScrollToBottom()

	v.Resize(10, 15)
	if v.TopLine() != 5 {
		t.Errorf("TopLine = %d, want 5", v.TopLine())
	}
	if v.Height() != 15 {
		t.Errorf("Height = %d", v.Height())
	}
}
