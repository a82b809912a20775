package highlight

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// PatternFlags modify how a pattern is compiled.
type PatternFlags uint8

// Pattern flags.
const (
	IgnoreCase PatternFlags = 1 << iota
	DotAll                  // '.' also matches '\n'
	MultiLine               // '^' and '$' match at line breaks
)

func (f PatternFlags) options() regexp2.RegexOptions {
	opts := regexp2.None
	if f&IgnoreCase != 0 {
		opts |= regexp2.IgnoreCase
	}
	if f&DotAll != 0 {
		opts |= regexp2.Singleline
	}
	if f&MultiLine != 0 {
		opts |= regexp2.Multiline
	}
	return opts
}

// GroupFormat assigns a token type to one capture group of a match.
type GroupFormat struct {
	Type  TokenType
	Group int
}

// RuleDef is the declarative form of a single-line rule.
//
// A rule styles either the whole match with Type or, when Groups is set, each
// listed group in order. Pass, when set, rescans the part of PassGroup that
// this rule actually styled; PrefixGroup names a group whose lower-cased text
// is handed to the pass as flags.
type RuleDef struct {
	Name        string
	Pattern     string
	Flags       PatternFlags
	Type        TokenType
	Groups      []GroupFormat
	Pass        InternalPass
	PassGroup   int
	PrefixGroup int
}

// Rule is a compiled RuleDef.
type Rule struct {
	name        string
	re          *regexp2.Regexp
	formats     []GroupFormat
	pass        InternalPass
	passGroup   int
	prefixGroup int
}

// Name returns the rule name.
func (r *Rule) Name() string {
	return r.name
}

// DefinitionError reports a rule or construct dropped at construction time.
type DefinitionError struct {
	Language string
	Item     string
	Err      error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Language, e.Item, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// compilePattern compiles a pattern with the per-match time bound.
func compilePattern(pattern string, flags PatternFlags, timeout time.Duration) (*regexp2.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp2.Compile(pattern, flags.options())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return re, nil
}

// hasGroup reports whether re defines capture group n.
func hasGroup(re *regexp2.Regexp, n int) bool {
	if n == 0 {
		return true
	}
	for _, g := range re.GetGroupNumbers() {
		if g == n {
			return true
		}
	}
	return false
}

// compileRule validates and compiles a rule definition.
// Format entries naming a missing group are dropped and reported.
func compileRule(def RuleDef, timeout time.Duration) (*Rule, []error) {
	re, err := compilePattern(def.Pattern, def.Flags, timeout)
	if err != nil {
		return nil, []error{err}
	}

	var errs []error
	formats := def.Groups
	if len(formats) == 0 {
		formats = []GroupFormat{{Type: def.Type, Group: 0}}
	}

	kept := make([]GroupFormat, 0, len(formats))
	for _, f := range formats {
		if !f.Type.Valid() || f.Type == TokenNone {
			errs = append(errs, fmt.Errorf("group %d: invalid token type %d", f.Group, f.Type))
			continue
		}
		if !hasGroup(re, f.Group) {
			errs = append(errs, fmt.Errorf("group %d does not exist in %q", f.Group, def.Pattern))
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		errs = append(errs, fmt.Errorf("no usable formats"))
		return nil, errs
	}

	r := &Rule{
		name:        def.Name,
		re:          re,
		formats:     kept,
		pass:        def.Pass,
		passGroup:   def.PassGroup,
		prefixGroup: def.PrefixGroup,
	}
	if r.pass != nil && !hasGroup(re, r.passGroup) {
		errs = append(errs, fmt.Errorf("pass group %d does not exist, using whole match", r.passGroup))
		r.passGroup = 0
	}
	if r.prefixGroup != 0 && !hasGroup(re, r.prefixGroup) {
		errs = append(errs, fmt.Errorf("prefix group %d does not exist", r.prefixGroup))
		r.prefixGroup = 0
	}
	return r, errs
}

// groupSpan returns the rune span of group n, or ok=false if it did not
// participate in the match.
func groupSpan(m *regexp2.Match, n int) (start, end int, ok bool) {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return 0, 0, false
	}
	return g.Index, g.Index + g.Length, true
}

// groupText returns the text of group n, or "" if it did not participate.
func groupText(m *regexp2.Match, n int) string {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// prefixFlags normalizes prefix text into sorted lower-case flags.
func prefixFlags(s string) string {
	if s == "" {
		return ""
	}
	b := []byte(strings.ToLower(s))
	for i := 1; i < len(b); i++ {
		for j := i; j > 0 && b[j] < b[j-1]; j-- {
			b[j], b[j-1] = b[j-1], b[j]
		}
	}
	return string(b)
}

// KeywordPattern builds a word-bounded alternation of literal words.
func KeywordPattern(words ...string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp2.Escape(w)
	}
	return `\b(?:` + strings.Join(quoted, "|") + `)\b`
}
