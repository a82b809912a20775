package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// pieces is the alphabet lines are built from. It covers every construct
// opener and closer of the mini language plus ordinary tokens.
var pieces = []string{
	"var", "if", "x", "y1", "42", " ", "\t", "=", "+", ";",
	`"`, `\`, `"s"`, `"a\nb"`, `"""`, "/*", "*/", "#", "<js>", "</js>",
	"<![", "]>", "<<EOF", "EOF", "é", "日本",
}

func lineGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		parts := rapid.SliceOfN(rapid.SampledFrom(pieces), 0, 12).Draw(t, "parts")
		return strings.Join(parts, "")
	})
}

func checkSpans(t require.TestingT, line string, spans []Span) {
	n := len([]rune(line))
	prevEnd := 0
	for i, s := range spans {
		require.Greater(t, s.Length, 0, "span %d has no length", i)
		require.GreaterOrEqual(t, s.Start, prevEnd, "span %d overlaps or is unsorted: %v", i, spans)
		require.LessOrEqual(t, s.End(), n, "span %d past end of line", i)
		require.NotEqual(t, TokenNone, s.Type)
		require.True(t, s.Type.Valid())
		prevEnd = s.End()
	}
}

func TestPropertySpansWellFormed(t *testing.T) {
	h := newMini()

	rapid.Check(t, func(t *rapid.T) {
		line := lineGen().Draw(t, "line")
		state := rapid.SampledFrom(append([]LexerState{0}, h.States()...)).Draw(t, "state")

		spans, out := h.HighlightLine(line, state)
		checkSpans(t, line, spans)
		require.True(t, h.KnownState(out), "unknown out state %d for %q", out, line)
	})
}

func TestPropertyIdempotent(t *testing.T) {
	h := newMini()

	rapid.Check(t, func(t *rapid.T) {
		line := lineGen().Draw(t, "line")
		state := rapid.SampledFrom([]LexerState{0, 1, 2, 3, 5, 6}).Draw(t, "state")

		s1, o1 := h.HighlightLine(line, state)
		s2, o2 := h.HighlightLine(line, state)
		require.Equal(t, s1, s2)
		require.Equal(t, o1, o2)
	})
}

func TestPropertyDocumentConverges(t *testing.T) {
	h := newMini()

	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(lineGen(), 1, 8).Draw(t, "lines")

		state := LexerStateNormal
		var states []LexerState
		for _, l := range lines {
			spans, out := h.HighlightLine(l, state)
			checkSpans(t, l, spans)
			states = append(states, out)
			state = out
		}

		// Re-highlighting from any line with its recorded predecessor state
		// reproduces the same chain.
		start := rapid.IntRange(0, len(lines)-1).Draw(t, "start")
		state = LexerStateNormal
		if start > 0 {
			state = states[start-1]
		}
		for i := start; i < len(lines); i++ {
			_, out := h.HighlightLine(lines[i], state)
			require.Equal(t, states[i], out, "line %d", i)
			state = out
		}
	})
}

func TestPropertyNoPanicOnUnknownStates(t *testing.T) {
	h := newMini()

	rapid.Check(t, func(t *rapid.T) {
		line := lineGen().Draw(t, "line")
		state := LexerState(rapid.Uint32().Draw(t, "state"))

		info := h.HighlightLineInfo(line, state)
		checkSpans(t, line, info.Spans)
		assert.True(t, h.KnownState(info.State))
		if !h.KnownState(state) {
			assert.True(t, info.Reset)
		}
	})
}
