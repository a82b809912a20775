package highlight

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dlclark/regexp2"
)

var escapePass = PatternPass(PassRule{Pattern: `\\.`, Type: TokenStringEscape})

// innerDef is a tiny language used as an embedding target.
func innerDef() LanguageDef {
	return LanguageDef{
		Name: "inner",
		Rules: []RuleDef{
			{Name: "keyword", Pattern: KeywordPattern("var", "let"), Type: TokenKeywordDeclaration},
			{Name: "number", Pattern: `\b\d+\b`, Type: TokenNumber},
			{Name: "ident", Pattern: `\b[A-Za-z_]\w*\b`, Type: TokenIdentifier},
			{Name: "operator", Pattern: `[=+;]`, Type: TokenOperator},
		},
		Constructs: []ConstructDef{
			{Key: "comment", Start: `/\*`, End: `\*/`, State: 1, Delimiter: TokenComment, Content: TokenComment, Priority: 15},
		},
	}
}

// miniDef exercises every engine feature.
func miniDef() LanguageDef {
	return LanguageDef{
		Name:       "mini",
		Extensions: []string{".mini"},
		Rules: []RuleDef{
			{Name: "comment", Pattern: `#.*$`, Type: TokenComment},
			{Name: "keyword", Pattern: KeywordPattern("var", "if"), Type: TokenKeywordDeclaration},
			{Name: "number", Pattern: `\b\d+\b`, Type: TokenNumber},
			{Name: "string", Pattern: `"(?:[^"\\]|\\.)*"`, Type: TokenString, Pass: escapePass},
			{Name: "ident", Pattern: `\b[A-Za-z_]\w*\b`, Type: TokenIdentifier},
			{Name: "operator", Pattern: `[=+;]`, Type: TokenOperator},
		},
		Constructs: []ConstructDef{
			{Key: "block", Start: `/\*`, End: `\*/`, State: 1, Delimiter: TokenComment, Content: TokenComment, Priority: 15},
			{Key: "triple", Start: `"""`, End: `"""`, State: 2, Delimiter: TokenStringSpecial, Content: TokenString, Priority: 5},
			{Key: "doc", Start: `^[ \t]*(""")`, End: `"""`, State: 3, Delimiter: TokenDocstring, DelimiterGroup: 1, Content: TokenDocstring, Priority: 20},
			{
				Key:   "heredoc",
				Start: `<<(\w+)`,
				EndFunc: func(groups []string) string {
					return `^` + regexp2.Escape(groups[1]) + `$`
				},
				State:     4,
				Delimiter: TokenStringSpecial,
				Content:   TokenString,
				Priority:  10,
			},
			{Key: "embed", Start: `<js>`, End: `</js>`, State: 5, Delimiter: TokenTag, Embed: "inner", Priority: 10},
			{Key: "cdata", Start: `<!\[`, End: `\]>`, State: 6, Delimiter: TokenStringSpecial, Priority: 20},
		},
	}
}

func testRegistry() *Registry {
	r := NewRegistry()
	r.Register(miniDef())
	r.Register(innerDef())
	return r
}

func newMini(opts ...Option) *Highlighter {
	opts = append([]Option{WithResolver(testRegistry())}, opts...)
	return New(miniDef(), opts...)
}

func TestHighlightLineEmpty(t *testing.T) {
	h := newMini()

	for _, line := range []string{"", "   ", "\t", "@@ !! ??"} {
		spans, state := h.HighlightLine(line, LexerStateNormal)
		if len(spans) != 0 {
			t.Errorf("HighlightLine(%q) spans = %v, want none", line, spans)
		}
		if state != LexerStateNormal {
			t.Errorf("HighlightLine(%q) state = %d, want normal", line, state)
		}
	}
}

func TestHighlightLineRules(t *testing.T) {
	h := newMini()

	tests := []struct {
		name string
		line string
		want []Span
	}{
		{
			name: "declaration",
			line: "var x = 1;",
			want: []Span{
				{0, 3, TokenKeywordDeclaration},
				{4, 1, TokenIdentifier},
				{6, 1, TokenOperator},
				{8, 1, TokenNumber},
				{9, 1, TokenOperator},
			},
		},
		{
			name: "comment swallows rest",
			line: "x # var 1",
			want: []Span{
				{0, 1, TokenIdentifier},
				{2, 7, TokenComment},
			},
		},
		{
			name: "string with escape",
			line: `"a\nb"`,
			want: []Span{
				{0, 2, TokenString},
				{2, 2, TokenStringEscape},
				{4, 2, TokenString},
			},
		},
		{
			name: "keyword inside identifier is not a keyword",
			line: "variable",
			want: []Span{
				{0, 8, TokenIdentifier},
			},
		},
		{
			name: "non-ascii offsets are runes",
			line: `"é" = 1`,
			want: []Span{
				{0, 3, TokenString},
				{4, 1, TokenOperator},
				{6, 1, TokenNumber},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans, state := h.HighlightLine(tt.line, LexerStateNormal)
			if !reflect.DeepEqual(spans, tt.want) {
				t.Errorf("HighlightLine(%q)\n got %v\nwant %v", tt.line, spans, tt.want)
			}
			if state != LexerStateNormal {
				t.Errorf("state = %d, want normal", state)
			}
		})
	}
}

func TestOrderingLongestThenDeclared(t *testing.T) {
	h := New(LanguageDef{
		Name: "order",
		Rules: []RuleDef{
			{Name: "short", Pattern: `ab`, Type: TokenKeyword},
			{Name: "long", Pattern: `abc`, Type: TokenNumber},
			{Name: "same", Pattern: `ab`, Type: TokenString},
		},
	})

	spans, _ := h.HighlightLine("abc", LexerStateNormal)
	want := []Span{{0, 3, TokenNumber}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("longer match should win: got %v, want %v", spans, want)
	}

	spans, _ = h.HighlightLine("ab", LexerStateNormal)
	want = []Span{{0, 2, TokenKeyword}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("earlier rule should win a tie: got %v, want %v", spans, want)
	}
}

func TestBlockCommentRoundTrip(t *testing.T) {
	h := newMini()

	spans, state := h.HighlightLine("x /* start", LexerStateNormal)
	want := []Span{{0, 1, TokenIdentifier}, {2, 8, TokenComment}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("line A spans = %v, want %v", spans, want)
	}
	if state != 1 {
		t.Fatalf("line A state = %d, want 1", state)
	}

	spans, state = h.HighlightLine("middle var 1", state)
	want = []Span{{0, 12, TokenComment}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("middle spans = %v, want %v", spans, want)
	}
	if state != 1 {
		t.Fatalf("middle state = %d, want 1", state)
	}

	spans, state = h.HighlightLine("end */ y", state)
	want = []Span{{0, 6, TokenComment}, {7, 1, TokenIdentifier}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("line B spans = %v, want %v", spans, want)
	}
	if state != LexerStateNormal {
		t.Errorf("line B state = %d, want normal", state)
	}
}

func TestConstructEndsAndReopensOnSameLine(t *testing.T) {
	h := newMini()

	spans, state := h.HighlightLine("a */ b /* c", 1)
	want := []Span{
		{0, 4, TokenComment},
		{5, 1, TokenIdentifier},
		{7, 4, TokenComment},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}
	if state != 1 {
		t.Errorf("state = %d, want 1", state)
	}
}

func TestDocstringPriority(t *testing.T) {
	h := newMini()

	priorities := make(map[string]int)
	for _, c := range h.Constructs() {
		priorities[c.Key()] = c.Priority()
	}
	if priorities["doc"] != 20 || priorities["triple"] != 5 {
		t.Fatalf("priorities = %v, want doc 20 and triple 5", priorities)
	}

	spans, state := h.HighlightLine(`"""doc"""`, LexerStateNormal)
	if len(spans) == 0 || spans[0].Start != 0 || spans[0].Type != TokenDocstring {
		t.Fatalf("delimiter at 0 should be docstring, got %v", spans)
	}
	if state != LexerStateNormal {
		t.Errorf("state = %d, want normal", state)
	}

	// Away from the line start only the plain triple quote can match
	spans, _ = h.HighlightLine(`x = """doc"""`, LexerStateNormal)
	want := []Span{
		{0, 1, TokenIdentifier},
		{2, 1, TokenOperator},
		{4, 3, TokenStringSpecial},
		{7, 3, TokenString},
		{10, 3, TokenStringSpecial},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}

	// An indented docstring leaves the indentation unstyled
	spans, state = h.HighlightLine(`    """open`, LexerStateNormal)
	want = []Span{{4, 7, TokenDocstring}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}
	if state != 3 {
		t.Errorf("state = %d, want 3", state)
	}
}

func TestEmbedding(t *testing.T) {
	h := newMini()

	spans, state := h.HighlightLine("<js>var x = 1;</js>", LexerStateNormal)
	want := []Span{
		{0, 4, TokenTag},
		{4, 3, TokenKeywordDeclaration},
		{8, 1, TokenIdentifier},
		{10, 1, TokenOperator},
		{12, 1, TokenNumber},
		{13, 1, TokenOperator},
		{14, 5, TokenTag},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v\nwant %v", spans, want)
	}
	if state != LexerStateNormal {
		t.Errorf("state = %d, want normal", state)
	}
}

func TestEmbeddingAcrossLines(t *testing.T) {
	h := newMini()

	spans, state := h.HighlightLine("<js>let", LexerStateNormal)
	want := []Span{{0, 4, TokenTag}, {4, 3, TokenKeywordDeclaration}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("open spans = %v, want %v", spans, want)
	}
	if state != 5 {
		t.Fatalf("state = %d, want 5", state)
	}

	spans, state = h.HighlightLine("y = 2", state)
	want = []Span{{0, 1, TokenIdentifier}, {2, 1, TokenOperator}, {4, 1, TokenNumber}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("middle spans = %v, want %v", spans, want)
	}
	if state != 5 {
		t.Fatalf("state = %d, want 5", state)
	}

	spans, state = h.HighlightLine("z</js> q", state)
	want = []Span{{0, 1, TokenIdentifier}, {1, 5, TokenTag}, {7, 1, TokenIdentifier}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("close spans = %v, want %v", spans, want)
	}
	if state != LexerStateNormal {
		t.Errorf("state = %d, want normal", state)
	}
}

func TestEmbeddedConstructIsSegmentLocal(t *testing.T) {
	h := newMini()

	spans, state := h.HighlightLine("<js>a /* b</js>", LexerStateNormal)
	want := []Span{
		{0, 4, TokenTag},
		{4, 1, TokenIdentifier},
		{6, 4, TokenComment},
		{10, 5, TokenTag},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v\nwant %v", spans, want)
	}
	if state != LexerStateNormal {
		t.Errorf("embedded construct must not leak state, got %d", state)
	}
}

func TestEmbedDepthAndMissingLanguage(t *testing.T) {
	t.Run("depth zero disables delegation", func(t *testing.T) {
		h := newMini(WithMaxEmbedDepth(0))
		spans, _ := h.HighlightLine("<js>var</js>", LexerStateNormal)
		want := []Span{{0, 4, TokenTag}, {7, 5, TokenTag}}
		if !reflect.DeepEqual(spans, want) {
			t.Errorf("spans = %v, want %v", spans, want)
		}
	})

	t.Run("unknown language leaves content unstyled", func(t *testing.T) {
		def := miniDef()
		for i := range def.Constructs {
			if def.Constructs[i].Key == "embed" {
				def.Constructs[i].Embed = "nope"
			}
		}
		h := New(def, WithResolver(testRegistry()))
		spans, _ := h.HighlightLine("<js>var</js>", LexerStateNormal)
		want := []Span{{0, 4, TokenTag}, {7, 5, TokenTag}}
		if !reflect.DeepEqual(spans, want) {
			t.Errorf("spans = %v, want %v", spans, want)
		}
	})

	t.Run("sub-highlighter is cached", func(t *testing.T) {
		h := newMini()
		h.HighlightLine("<js>a</js>", LexerStateNormal)
		first := h.sub("inner")
		h.HighlightLine("<js>b</js>", LexerStateNormal)
		if h.sub("inner") != first {
			t.Error("sub-highlighter should be reused")
		}
	})
}

func TestInertContent(t *testing.T) {
	h := newMini()

	spans, state := h.HighlightLine("<![ var ]>", LexerStateNormal)
	want := []Span{{0, 3, TokenStringSpecial}, {8, 2, TokenStringSpecial}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}
	if state != LexerStateNormal {
		t.Errorf("state = %d, want normal", state)
	}

	_, state = h.HighlightLine("<![ open", LexerStateNormal)
	spans, state = h.HighlightLine("var 1", state)
	if len(spans) != 0 {
		t.Errorf("inert continuation should be unstyled, got %v", spans)
	}
	if state != 6 {
		t.Errorf("state = %d, want 6", state)
	}
}

func TestHeredocDerivedStates(t *testing.T) {
	h := newMini()

	spans, eof := h.HighlightLine("cat <<EOF", LexerStateNormal)
	want := []Span{{0, 3, TokenIdentifier}, {4, 5, TokenStringSpecial}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}
	if eof == LexerStateNormal || eof == 4 {
		t.Fatalf("heredoc should enter a derived state, got %d", eof)
	}
	if !h.KnownState(eof) {
		t.Fatalf("derived state %d should be known", eof)
	}

	_, again := h.HighlightLine("cat <<EOF", LexerStateNormal)
	if again != eof {
		t.Errorf("same terminator should reuse state %d, got %d", eof, again)
	}

	_, end := h.HighlightLine("x <<END", LexerStateNormal)
	if end == eof {
		t.Errorf("different terminators must get different states")
	}

	spans, state := h.HighlightLine("hello var", eof)
	if !reflect.DeepEqual(spans, []Span{{0, 9, TokenString}}) {
		t.Errorf("body spans = %v", spans)
	}
	if state != eof {
		t.Errorf("body state = %d, want %d", state, eof)
	}

	_, state = h.HighlightLine("EOF", end)
	if state != end {
		t.Errorf("EOF must not close an END heredoc, state = %d", state)
	}

	spans, state = h.HighlightLine("EOF", eof)
	if !reflect.DeepEqual(spans, []Span{{0, 3, TokenStringSpecial}}) {
		t.Errorf("terminator spans = %v", spans)
	}
	if state != LexerStateNormal {
		t.Errorf("terminator state = %d, want normal", state)
	}

	found := false
	for _, s := range h.States() {
		if s == eof {
			found = true
		}
	}
	if !found {
		t.Errorf("States() = %v should include %d", h.States(), eof)
	}
}

func TestUnknownStateResets(t *testing.T) {
	h := newMini()

	for _, s := range []LexerState{4, 99, 999, 1 << 20} {
		info := h.HighlightLineInfo("x", s)
		if !info.Reset {
			t.Errorf("state %d should be reset", s)
		}
		if info.State != LexerStateNormal {
			t.Errorf("state %d: out state = %d, want normal", s, info.State)
		}
		if !reflect.DeepEqual(info.Spans, []Span{{0, 1, TokenIdentifier}}) {
			t.Errorf("state %d: spans = %v", s, info.Spans)
		}
	}
}

func TestUnterminatedConstructRecovers(t *testing.T) {
	h := newMini()
	lines := []string{"/* open", "still", "more"}

	state := LexerStateNormal
	for _, l := range lines {
		_, state = h.HighlightLine(l, state)
	}
	if state != 1 {
		t.Fatalf("unterminated comment should leave state 1, got %d", state)
	}

	lines[2] = "more */"
	state = LexerStateNormal
	for _, l := range lines {
		_, state = h.HighlightLine(l, state)
	}
	if state != LexerStateNormal {
		t.Errorf("fixed terminator should restore normal, got %d", state)
	}
}

func TestDefinitionErrors(t *testing.T) {
	h := New(LanguageDef{
		Name: "broken",
		Rules: []RuleDef{
			{Name: "bad", Pattern: `(`, Type: TokenKeyword},
			{Name: "group", Pattern: `(a)`, Groups: []GroupFormat{{Type: TokenString, Group: 3}}},
			{Name: "empty", Pattern: ``, Type: TokenKeyword},
			{Name: "ok", Pattern: `a`, Type: TokenKeyword},
		},
		Constructs: []ConstructDef{
			{Key: "zero", Start: `x`, End: `y`, State: 0},
			{Key: "first", Start: `<`, End: `>`, State: 1},
			{Key: "dup", Start: `\{`, End: `\}`, State: 1},
			{Key: "noend", Start: `q`, State: 2},
			{Key: "badstart", Start: `(`, End: `\)`, State: 3},
			{Key: "toolarge", Start: `z`, End: `z`, State: 300},
		},
	})

	if h.Rules() != 1 {
		t.Errorf("Rules() = %d, want 1", h.Rules())
	}
	if len(h.Constructs()) != 1 || h.Constructs()[0].Key() != "first" {
		t.Errorf("Constructs() = %v, want only first", h.Constructs())
	}

	diags := h.Diagnostics()
	if len(diags) < 8 {
		t.Errorf("Diagnostics() = %d entries, want at least 8: %v", len(diags), diags)
	}
	for _, d := range diags {
		var de *DefinitionError
		if !errors.As(d, &de) {
			t.Errorf("diagnostic %v is not a DefinitionError", d)
			continue
		}
		if de.Language != "broken" {
			t.Errorf("diagnostic language = %q", de.Language)
		}
	}

	// The surviving rule and construct still work
	spans, state := h.HighlightLine("a<b>", LexerStateNormal)
	if !reflect.DeepEqual(spans, []Span{{0, 1, TokenKeyword}}) {
		t.Errorf("spans = %v", spans)
	}
	if state != LexerStateNormal {
		t.Errorf("state = %d", state)
	}
}

func TestPassIsClippedToSubrange(t *testing.T) {
	wide := func(ctx PassContext, emit func(start, length int, t TokenType)) {
		emit(ctx.Start-5, 100, TokenRegex)
	}
	h := New(LanguageDef{
		Name: "clip",
		Rules: []RuleDef{
			{Name: "string", Pattern: `"[^"]*"`, Type: TokenString, Pass: wide},
			{Name: "ident", Pattern: `\w+`, Type: TokenIdentifier},
		},
	})

	spans, _ := h.HighlightLine(`ab "cd" ef`, LexerStateNormal)
	want := []Span{{0, 2, TokenIdentifier}, {3, 4, TokenRegex}, {8, 2, TokenIdentifier}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}
}

func TestPassUsesGroupAndPrefix(t *testing.T) {
	var gotFlags string
	var gotRange [2]int
	spy := func(ctx PassContext, emit func(start, length int, t TokenType)) {
		gotFlags = ctx.Flags
		gotRange = [2]int{ctx.Start, ctx.End}
	}
	h := New(LanguageDef{
		Name: "prefix",
		Rules: []RuleDef{
			{
				Name:        "string",
				Pattern:     `([rRfF]*)"([^"]*)"`,
				Groups:      []GroupFormat{{Type: TokenStringSpecial, Group: 1}, {Type: TokenString, Group: 0}},
				Pass:        spy,
				PassGroup:   2,
				PrefixGroup: 1,
			},
		},
	})

	spans, _ := h.HighlightLine(`Fr"abc"`, LexerStateNormal)
	want := []Span{{0, 2, TokenStringSpecial}, {2, 5, TokenString}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}
	if gotFlags != "fr" {
		t.Errorf("flags = %q, want fr", gotFlags)
	}
	if gotRange != [2]int{3, 6} {
		t.Errorf("pass range = %v, want [3 6]", gotRange)
	}
}

func TestPanicInPassIsRecovered(t *testing.T) {
	boom := func(ctx PassContext, emit func(start, length int, t TokenType)) {
		panic("boom")
	}
	h := New(LanguageDef{
		Name: "panic",
		Rules: []RuleDef{
			{Name: "string", Pattern: `"[^"]*"`, Type: TokenString, Pass: boom},
		},
	})

	info := h.HighlightLineInfo(`x "y" z`, LexerStateNormal)
	if info.Recovered != 1 {
		t.Errorf("Recovered = %d, want 1", info.Recovered)
	}
	if !reflect.DeepEqual(info.Spans, []Span{{2, 3, TokenString}}) {
		t.Errorf("spans = %v", info.Spans)
	}
}

func TestHighlightSegment(t *testing.T) {
	h := New(innerDef())
	buf := make(typeBuffer, 12)

	h.HighlightSegment(buf, []rune("var a"), 5)

	spans := buf.spans()
	want := []Span{{5, 3, TokenKeywordDeclaration}, {9, 1, TokenIdentifier}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %v, want %v", spans, want)
	}

	// Writes past the sink are clipped
	h.HighlightSegment(buf, []rune("var"), 10)
	if got := buf.spans(); got[len(got)-1].End() > 12 {
		t.Errorf("span past end of sink: %v", got)
	}
}

func TestHighlightLineIdempotent(t *testing.T) {
	h := newMini()
	lines := []string{
		`var s = "a\tb" # c`,
		`<js>let q = 1 /* x */</js>`,
		`/* a */ b /* c`,
		`cat <<EOF`,
		strings.Repeat("x", 200),
	}
	for _, l := range lines {
		for _, st := range []LexerState{0, 1, 2, 5} {
			s1, o1 := h.HighlightLine(l, st)
			s2, o2 := h.HighlightLine(l, st)
			if !reflect.DeepEqual(s1, s2) || o1 != o2 {
				t.Errorf("HighlightLine(%q, %d) not idempotent", l, st)
			}
		}
	}
}

func TestMergeSegments(t *testing.T) {
	got := mergeSegments([]segment{{5, 7}, {0, 2}, {2, 4}, {6, 9}})
	want := []segment{{0, 4}, {5, 9}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mergeSegments = %v, want %v", got, want)
	}
}

func TestPrefixFlags(t *testing.T) {
	tests := map[string]string{
		"":   "",
		"f":  "f",
		"Rb": "br",
		"FR": "fr",
		"rf": "fr",
	}
	for in, want := range tests {
		if got := prefixFlags(in); got != want {
			t.Errorf("prefixFlags(%q) = %q, want %q", in, got, want)
		}
	}
}
