package highlight

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

// MaxBaseState is the largest state a construct may declare.
// Larger values are reserved for derived states.
const MaxBaseState LexerState = 255

// maxDerived bounds the derived states interned per construct.
const maxDerived = 255

// errInternFull is returned when a construct has no derived states left.
var errInternFull = errors.New("derived state table full")

// ConstructDef is the declarative form of a multi-line construct.
//
// Start opens the construct and End closes it. EndFunc, when set, builds the
// end pattern from the texts of the start match groups (index 0 is the whole
// match), which is how heredoc terminators are carried. Content is the type
// of the body; TokenNone leaves the body unstyled. Embed names a language
// that styles the body instead.
type ConstructDef struct {
	Key   string
	Start string
	End   string
	Flags PatternFlags

	EndFunc func(groups []string) string

	State LexerState

	Delimiter      TokenType
	DelimiterGroup int
	Content        TokenType
	Embed          string

	Priority    int
	PrefixGroup int
	Pass        InternalPass
}

// Construct is a compiled ConstructDef.
type Construct struct {
	key         string
	start       *regexp2.Regexp
	end         *regexp2.Regexp
	endFunc     func(groups []string) string
	state       LexerState
	delimiter   TokenType
	delimGroup  int
	content     TokenType
	embed       string
	priority    int
	prefixGroup int
	pass        InternalPass
	flags       PatternFlags
	order       int

	base *activeConstruct
}

// Key returns the construct key.
func (c *Construct) Key() string {
	return c.key
}

// State returns the base state of the construct.
func (c *Construct) State() LexerState {
	return c.state
}

// Priority returns the tie-break priority of the construct.
func (c *Construct) Priority() int {
	return c.priority
}

// activeConstruct is a construct together with the end pattern and flags in
// force for one particular opening.
type activeConstruct struct {
	c     *Construct
	end   *regexp2.Regexp
	flags string
	state LexerState
}

// constructTable maps states to constructs.
// Derived states are appended as dynamic ends are seen; existing entries never
// change, so a state value means the same thing for the life of the table.
type constructTable struct {
	list    []*Construct
	byState map[LexerState]*Construct
	timeout time.Duration

	mu       sync.Mutex
	derived  map[LexerState]*activeConstruct
	interned map[string]LexerState
	counts   map[*Construct]int
}

// compileConstructs validates and compiles construct definitions.
// Invalid constructs are dropped and reported.
func compileConstructs(defs []ConstructDef, timeout time.Duration) (*constructTable, []error) {
	t := &constructTable{
		byState:  make(map[LexerState]*Construct),
		timeout:  timeout,
		derived:  make(map[LexerState]*activeConstruct),
		interned: make(map[string]LexerState),
		counts:   make(map[*Construct]int),
	}

	var errs []error
	for _, def := range defs {
		c, err := t.compile(def)
		if err != nil {
			errs = append(errs, fmt.Errorf("construct %q: %w", def.Key, err))
			continue
		}
		c.order = len(t.list)
		t.list = append(t.list, c)
		t.byState[c.state] = c
	}
	return t, errs
}

func (t *constructTable) compile(def ConstructDef) (*Construct, error) {
	switch {
	case def.State == LexerStateNormal:
		return nil, fmt.Errorf("state must be non-zero")
	case def.State > MaxBaseState:
		return nil, fmt.Errorf("state %d exceeds %d", def.State, MaxBaseState)
	case t.byState[def.State] != nil:
		return nil, fmt.Errorf("state %d already used by %q", def.State, t.byState[def.State].key)
	case def.End == "" && def.EndFunc == nil:
		return nil, fmt.Errorf("no end pattern")
	}

	start, err := compilePattern(def.Start, def.Flags, t.timeout)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	c := &Construct{
		key:         def.Key,
		start:       start,
		endFunc:     def.EndFunc,
		state:       def.State,
		delimiter:   def.Delimiter,
		delimGroup:  def.DelimiterGroup,
		content:     def.Content,
		embed:       def.Embed,
		priority:    def.Priority,
		prefixGroup: def.PrefixGroup,
		pass:        def.Pass,
		flags:       def.Flags,
	}
	if !hasGroup(start, c.delimGroup) {
		c.delimGroup = 0
	}
	if c.prefixGroup != 0 && !hasGroup(start, c.prefixGroup) {
		c.prefixGroup = 0
	}

	if def.End != "" {
		end, err := compilePattern(def.End, def.Flags, t.timeout)
		if err != nil {
			if def.EndFunc == nil {
				return nil, fmt.Errorf("end: %w", err)
			}
		} else {
			c.end = end
		}
	}

	c.base = &activeConstruct{c: c, end: c.end, state: c.state}
	return c, nil
}

// constructs returns constructs in declaration order.
func (t *constructTable) constructs() []*Construct {
	return t.list
}

// lookup resolves a state to its construct and end pattern.
func (t *constructTable) lookup(s LexerState) (*activeConstruct, bool) {
	if c, ok := t.byState[s]; ok {
		if c.base.end == nil {
			return nil, false
		}
		return c.base, true
	}
	if s <= MaxBaseState {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.derived[s]
	return a, ok
}

// activate returns the active form of c for a start match, interning a
// derived state when the end pattern or the flags depend on the match.
func (t *constructTable) activate(c *Construct, m *regexp2.Match) (*activeConstruct, error) {
	if c.endFunc == nil && c.prefixGroup == 0 {
		return c.base, nil
	}

	pattern := ""
	if c.endFunc != nil {
		groups := make([]string, 0, len(m.Groups()))
		for _, g := range m.Groups() {
			groups = append(groups, g.String())
		}
		pattern = c.endFunc(groups)
	} else {
		pattern = c.end.String()
	}
	flags := ""
	if c.prefixGroup != 0 {
		flags = prefixFlags(groupText(m, c.prefixGroup))
	}
	if pattern == "" {
		return nil, fmt.Errorf("empty end pattern")
	}

	key := c.key + "\x00" + pattern + "\x00" + flags

	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.interned[key]; ok {
		return t.derived[s], nil
	}

	n := t.counts[c] + 1
	if n > maxDerived {
		if c.end != nil {
			return c.base, errInternFull
		}
		return nil, errInternFull
	}

	end, err := compilePattern(pattern, c.flags, t.timeout)
	if err != nil {
		return nil, err
	}

	t.counts[c] = n
	s := c.state<<8 | LexerState(n)
	a := &activeConstruct{c: c, end: end, flags: flags, state: s}
	t.derived[s] = a
	t.interned[key] = s
	return a, nil
}

// known reports whether s is a state present in the table.
func (t *constructTable) known(s LexerState) bool {
	if s == LexerStateNormal {
		return true
	}
	_, ok := t.lookup(s)
	return ok
}

// states returns all base and derived states, sorted.
func (t *constructTable) states() []LexerState {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]LexerState, 0, len(t.byState)+len(t.derived))
	for s, c := range t.byState {
		if c.base.end != nil {
			out = append(out, s)
		}
	}
	for s := range t.derived {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
