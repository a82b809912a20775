package layout

import (
	"testing"

	"github.com/dshills/hilite/internal/renderer/core"
)

func runes(cells []core.Cell) string {
	out := make([]rune, 0, len(cells))
	for _, c := range cells {
		if c.IsContinuation() {
			out = append(out, '~')
			continue
		}
		out = append(out, c.Rune)
	}
	return string(out)
}

func TestNewEngine(t *testing.T) {
	if NewEngine(8).TabWidth() != 8 {
		t.Error("expected tab width 8")
	}
	if NewEngine(0).TabWidth() != 4 {
		t.Error("expected default tab width 4")
	}
	if got := NewEngine(4).NextTabStop(5); got != 8 {
		t.Errorf("NextTabStop(5) = %d, want 8", got)
	}
}

func TestLayoutSimpleString(t *testing.T) {
	l := NewEngine(4).Layout("Hello", 3, core.DefaultStyle())

	if l.Line != 3 {
		t.Errorf("expected line 3, got %d", l.Line)
	}
	if l.Width != 5 || runes(l.Cells) != "Hello" {
		t.Errorf("got %q width %d", runes(l.Cells), l.Width)
	}
	if len(l.Columns) != 6 || l.Columns[5] != 5 {
		t.Errorf("Columns = %v", l.Columns)
	}
	if l.HasTabs || l.HasWide {
		t.Error("plain text should have no tabs or wide runes")
	}
}

func TestLayoutTabs(t *testing.T) {
	l := NewEngine(4).Layout("a\tb\t\tc", 0, core.DefaultStyle())

	if got := runes(l.Cells); got != "a   b       c" {
		t.Errorf("cells = %q", got)
	}
	if !l.HasTabs {
		t.Error("expected HasTabs")
	}
	// a=0 tab=1 b=4 tab=5 tab=8 c=12
	want := []int{0, 1, 4, 5, 8, 12, 13}
	for i, w := range want {
		if l.Columns[i] != w {
			t.Errorf("Columns[%d] = %d, want %d", i, l.Columns[i], w)
		}
	}
}

func TestLayoutWideAndCombining(t *testing.T) {
	l := NewEngine(4).Layout("a中éz", 0, core.DefaultStyle())

	if got := runes(l.Cells); got != "a中~ez" {
		t.Errorf("cells = %q", got)
	}
	if !l.HasWide {
		t.Error("expected HasWide")
	}
	// The combining mark maps to the column of the rune after it
	if l.VisualColumn(3) != 4 || l.VisualColumn(4) != 4 {
		t.Errorf("columns = %v", l.Columns)
	}
}

func TestLayoutControl(t *testing.T) {
	l := NewEngine(4).Layout("a\x1bb\x7f", 0, core.DefaultStyle())
	if got := runes(l.Cells); got != "a^[b^?" {
		t.Errorf("cells = %q", got)
	}
}

func TestVisualColumnBounds(t *testing.T) {
	l := NewEngine(4).Layout("ab", 0, core.DefaultStyle())
	if l.VisualColumn(-1) != 0 {
		t.Error("negative offsets clamp to 0")
	}
	if l.VisualColumn(5) != 5 {
		t.Errorf("VisualColumn(5) = %d, want 5", l.VisualColumn(5))
	}
}

func TestWithStyles(t *testing.T) {
	red := core.NewStyle(core.MustParseColor("#ff0000"))
	blue := core.NewStyle(core.MustParseColor("#0000ff"))

	base := NewEngine(4).Layout("\tab中", 0, core.DefaultStyle())
	styled := base.WithStyles([]core.StyleSpan{
		{Start: 1, End: 2, Style: red},
		{Start: 3, End: 9, Style: blue}, // runs past the end
		{Start: 2, End: 2, Style: red},  // empty
	})

	if !styled.Cells[4].Style.Equals(red) {
		t.Errorf("a should be red, got %v", styled.Cells[4].Style)
	}
	if !styled.Cells[5].Style.IsDefault() {
		t.Error("b should be unstyled")
	}
	if !styled.Cells[6].Style.Equals(blue) || !styled.Cells[7].Style.Equals(blue) {
		t.Error("both cells of the wide rune should be blue")
	}
	if !base.Cells[4].Style.IsDefault() {
		t.Error("WithStyles must not modify the original")
	}
}

func TestSlice(t *testing.T) {
	pad := core.NewStyle(core.MustParseColor("#010101"))
	l := NewEngine(4).Layout("ab中cd", 0, core.DefaultStyle())

	if got := runes(l.Slice(0, 4, pad)); got != "ab中~" {
		t.Errorf("Slice(0,4) = %q", got)
	}
	// Wide rune cut on the right edge
	if got := runes(l.Slice(0, 3, pad)); got != "ab " {
		t.Errorf("Slice(0,3) = %q", got)
	}
	// Wide rune cut on the left edge
	if got := runes(l.Slice(3, 3, pad)); got != " cd" {
		t.Errorf("Slice(3,3) = %q", got)
	}
	if got := runes(l.Slice(1, 2, pad)); got != "b " {
		t.Errorf("Slice(1,2) = %q", got)
	}
	// Padding past the end
	cells := l.Slice(4, 4, pad)
	if got := runes(cells); got != "cd  " {
		t.Errorf("Slice(4,4) = %q", got)
	}
	if !cells[3].Style.Equals(pad) {
		t.Error("padding should use the pad style")
	}
	if l.Slice(0, 0, pad) != nil {
		t.Error("zero width should return nil")
	}
}
