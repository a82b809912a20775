package highlight

import (
	"github.com/dlclark/regexp2"
)

// PassContext describes the subrange an internal pass may restyle.
type PassContext struct {
	// Line is the full line being highlighted.
	Line []rune
	// Start and End bound the subrange, End exclusive.
	Start, End int
	// Key is the construct key or rule name that produced the subrange.
	Key string
	// Flags holds lower-cased prefix letters, e.g. "f" or "br".
	Flags string
	// State is the construct state, or LexerStateNormal for single-line rules.
	State LexerState
}

// Text returns the runes of the subrange.
func (c PassContext) Text() []rune {
	return c.Line[c.Start:c.End]
}

// HasFlag reports whether the prefix flags contain f.
func (c PassContext) HasFlag(f rune) bool {
	for _, r := range c.Flags {
		if r == f {
			return true
		}
	}
	return false
}

// InternalPass restyles escapes and interpolation markers inside a subrange
// that already has a base type. Offsets passed to emit are line offsets;
// anything outside the subrange is clipped.
type InternalPass func(ctx PassContext, emit func(start, length int, t TokenType))

// PassRule is one pattern scanned by a PatternPass.
// Groups behaves like RuleDef.Groups; when empty the whole match gets Type.
type PassRule struct {
	Pattern string
	Type    TokenType
	Groups  []GroupFormat
}

// PatternPass builds an internal pass from a list of patterns.
// Patterns are matched against the subrange text only. Later rules win on
// overlap. Invalid patterns panic at construction since pass tables are
// compiled into the binary.
func PatternPass(rules ...PassRule) InternalPass {
	type compiled struct {
		re      *regexp2.Regexp
		formats []GroupFormat
	}
	list := make([]compiled, 0, len(rules))
	for _, r := range rules {
		re := regexp2.MustCompile(r.Pattern, regexp2.None)
		re.MatchTimeout = defaultMatchTimeout
		formats := r.Groups
		if len(formats) == 0 {
			formats = []GroupFormat{{Type: r.Type}}
		}
		list = append(list, compiled{re: re, formats: formats})
	}

	return func(ctx PassContext, emit func(start, length int, t TokenType)) {
		text := ctx.Text()
		for _, c := range list {
			m, err := c.re.FindRunesMatch(text)
			for m != nil && err == nil {
				for _, f := range c.formats {
					s, e, ok := groupSpan(m, f.Group)
					if ok && e > s {
						emit(ctx.Start+s, e-s, f.Type)
					}
				}
				m, err = c.re.FindNextMatch(m)
			}
		}
	}
}

// ChainPasses runs passes in order.
func ChainPasses(passes ...InternalPass) InternalPass {
	return func(ctx PassContext, emit func(start, length int, t TokenType)) {
		for _, p := range passes {
			if p != nil {
				p(ctx, emit)
			}
		}
	}
}
