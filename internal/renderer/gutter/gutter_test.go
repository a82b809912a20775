package gutter

import (
	"testing"

	"github.com/dshills/hilite/internal/renderer/core"
)

func text(cells []core.Cell) string {
	out := make([]rune, len(cells))
	for i, c := range cells {
		out[i] = c.Rune
	}
	return string(out)
}

var testStyles = Styles{
	Number: core.NewStyle(core.MustParseColor("#808080")),
	Marker: core.NewStyle(core.MustParseColor("#ff0000")),
	Filler: core.NewStyle(core.MustParseColor("#404040")),
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ShowLineNumbers || cfg.ShowMarkers {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.MinLineNumberWidth != 3 || cfg.FirstNumber != 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestGutterWidth(t *testing.T) {
	g := New(DefaultConfig(), testStyles)
	// 3 digits + separator
	if g.Width() != 4 {
		t.Errorf("expected width 4, got %d", g.Width())
	}

	g.SetLineCount(1000)
	if g.Width() != 5 {
		t.Errorf("expected width 5 for 1000 lines, got %d", g.Width())
	}
	g.SetLineCount(999)
	if g.Width() != 4 {
		t.Errorf("expected width 4 for 999 lines, got %d", g.Width())
	}

	off := New(Config{}, testStyles)
	if off.Width() != 0 || off.RenderLine(0, true) != nil {
		t.Error("disabled gutter should be empty")
	}

	markers := New(Config{ShowMarkers: true}, testStyles)
	if markers.Width() != 2 {
		t.Errorf("marker only gutter width = %d, want 2", markers.Width())
	}
}

func TestRenderLineNumbers(t *testing.T) {
	g := New(DefaultConfig(), testStyles)
	g.SetLineCount(20)

	cells := g.RenderLine(6, true)
	if got := text(cells); got != "  7 " {
		t.Errorf("RenderLine(6) = %q", got)
	}
	if !cells[2].Style.Equals(testStyles.Number) {
		t.Error("number should use the number style")
	}

	cells = g.RenderLine(30, false)
	if got := text(cells); got != "  ~ " {
		t.Errorf("filler row = %q", got)
	}
	if !cells[2].Style.Equals(testStyles.Filler) {
		t.Error("filler should use the filler style")
	}
}

func TestFirstNumber(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FirstNumber = 998
	g := New(cfg, testStyles)
	g.SetLineCount(5)

	// Last number is 1002
	if g.Width() != 5 {
		t.Errorf("width = %d, want 5", g.Width())
	}
	if got := text(g.RenderLine(0, true)); got != " 998 " {
		t.Errorf("RenderLine(0) = %q", got)
	}
}

func TestMarkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowMarkers = true
	g := New(cfg, testStyles)
	g.SetLineCount(3)
	g.SetMarkerProvider(MarkerFunc(func(line int) rune {
		if line == 1 {
			return '│'
		}
		return 0
	}))

	if got := text(g.RenderLine(0, true)); got != "   1 " {
		t.Errorf("RenderLine(0) = %q", got)
	}
	cells := g.RenderLine(1, true)
	if got := text(cells); got != "│  2 " {
		t.Errorf("RenderLine(1) = %q", got)
	}
	if !cells[0].Style.Equals(testStyles.Marker) {
		t.Error("marker should use the marker style")
	}
	// No markers past the end
	if got := text(g.RenderLine(5, false)); got != "   ~ " {
		t.Errorf("filler row = %q", got)
	}
}

func TestCountDigits(t *testing.T) {
	tests := map[int]int{0: 1, 9: 1, 10: 2, 12345: 5, -7: 2}
	for n, want := range tests {
		if got := countDigits(n); got != want {
			t.Errorf("countDigits(%d) = %d, want %d", n, got, want)
		}
	}
}
