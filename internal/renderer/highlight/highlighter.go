package highlight

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/dshills/hilite/internal/logging"
)

const (
	// defaultMatchTimeout bounds a single pattern match.
	defaultMatchTimeout = 50 * time.Millisecond

	// DefaultMaxEmbedDepth bounds nested delegation to sub-languages.
	DefaultMaxEmbedDepth = 4
)

// LineHighlighter is what hosts need from a highlighter.
type LineHighlighter interface {
	// HighlightLine styles one line given the state left by the previous
	// line and returns the spans and the state for the next line.
	HighlightLine(line string, prevState LexerState) ([]Span, LexerState)

	// Language returns the language this highlighter supports.
	Language() string
}

// Resolver looks up language definitions by name for embedding.
type Resolver interface {
	Definition(name string) (LanguageDef, bool)
}

// LanguageDef is the data that makes up one language.
type LanguageDef struct {
	Name       string
	Aliases    []string
	Extensions []string
	Rules      []RuleDef
	Constructs []ConstructDef
}

// Option configures a Highlighter.
type Option func(*options)

type options struct {
	logger   *logging.Logger
	timeout  time.Duration
	maxDepth int
	resolver Resolver
}

// WithLogger sets the logger used to report recoveries.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMatchTimeout bounds the time spent in a single pattern match.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMaxEmbedDepth bounds nested delegation to sub-languages.
func WithMaxEmbedDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDepth = n
		}
	}
}

// WithResolver sets where embedded languages are looked up.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// Highlighter is a compiled language. It is safe to share between
// goroutines; the sub-highlighter cache and derived states are guarded.
type Highlighter struct {
	name       string
	extensions []string
	rules      []*Rule
	table      *constructTable
	opts       []Option
	cfg        options
	log        *logging.Logger
	diags      []error

	mu   sync.Mutex
	subs map[string]*Highlighter
}

// New compiles a language definition. It never fails: rules and constructs
// that cannot be compiled are dropped, logged and reported by Diagnostics.
func New(def LanguageDef, opts ...Option) *Highlighter {
	cfg := options{
		logger:   logging.Nop(),
		timeout:  defaultMatchTimeout,
		maxDepth: DefaultMaxEmbedDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Highlighter{
		name:       def.Name,
		extensions: def.Extensions,
		opts:       opts,
		cfg:        cfg,
		log:        cfg.logger.WithComponent("highlight").WithField("lang", def.Name),
		subs:       make(map[string]*Highlighter),
	}

	for i, rd := range def.Rules {
		name := rd.Name
		if name == "" {
			name = "rule"
		}
		r, errs := compileRule(rd, cfg.timeout)
		for _, err := range errs {
			h.addDiag(name, i, err)
		}
		if r != nil {
			if r.name == "" {
				r.name = name
			}
			h.rules = append(h.rules, r)
		}
	}

	table, errs := compileConstructs(def.Constructs, cfg.timeout)
	for _, err := range errs {
		h.diags = append(h.diags, &DefinitionError{Language: def.Name, Item: "constructs", Err: err})
		h.log.Warn("dropped construct: %v", err)
	}
	h.table = table

	return h
}

func (h *Highlighter) addDiag(name string, index int, err error) {
	item := name
	if index >= 0 {
		item = name + "#" + strconv.Itoa(index)
	}
	h.diags = append(h.diags, &DefinitionError{Language: h.name, Item: item, Err: err})
	h.log.Warn("rule %s: %v", item, err)
}

// Language returns the language name.
func (h *Highlighter) Language() string {
	return h.name
}

// FileExtensions returns the supported file extensions.
func (h *Highlighter) FileExtensions() []string {
	return h.extensions
}

// Diagnostics returns the problems found while compiling the definition.
// Each entry is a *DefinitionError.
func (h *Highlighter) Diagnostics() []error {
	return h.diags
}

// Rules returns the number of compiled rules.
func (h *Highlighter) Rules() int {
	return len(h.rules)
}

// Constructs returns the compiled constructs in declaration order.
func (h *Highlighter) Constructs() []*Construct {
	return h.table.constructs()
}

// States returns every state the highlighter can currently emit besides
// LexerStateNormal.
func (h *Highlighter) States() []LexerState {
	return h.table.states()
}

// KnownState reports whether s is LexerStateNormal or a construct state.
func (h *Highlighter) KnownState(s LexerState) bool {
	return h.table.known(s)
}

// LineInfo is the full result of highlighting one line.
type LineInfo struct {
	Spans []Span
	State LexerState
	// Recovered counts matches and passes whose failure was recovered.
	Recovered int
	// Reset is true when the incoming state was unknown and dropped.
	Reset bool
}

// HighlightLine styles one line. prevState is the state returned for the
// previous line, LexerStateNormal for the first one.
func (h *Highlighter) HighlightLine(line string, prevState LexerState) ([]Span, LexerState) {
	info := h.HighlightLineInfo(line, prevState)
	return info.Spans, info.State
}

// HighlightLineInfo is HighlightLine with recovery details.
func (h *Highlighter) HighlightLineInfo(line string, prevState LexerState) LineInfo {
	var info LineInfo

	runes := []rune(line)
	buf := make(typeBuffer, len(runes))
	run := &lineRun{
		h:       h,
		runes:   runes,
		applied: make([]bool, len(runes)),
		sink:    buf,
		info:    &info,
	}

	state := prevState
	from := 0
	if state != LexerStateNormal {
		active, ok := h.table.lookup(state)
		if !ok {
			h.log.Warn("unknown state %d, resetting", state)
			info.Reset = true
			state = LexerStateNormal
		} else {
			next, continues := run.continueConstruct(active)
			if continues {
				info.Spans = buf.spans()
				info.State = active.state
				return info
			}
			from = next
			state = LexerStateNormal
		}
	}

	if from < len(runes) {
		state = run.matchFrom(from)
	}

	info.Spans = buf.spans()
	info.State = state
	return info
}

// HighlightSegment styles a segment in the Default state only and writes the
// result to sink shifted by offset. Constructs opened inside the segment are
// closed at its end; no state is carried.
func (h *Highlighter) HighlightSegment(sink Sink, segment []rune, offset int) {
	var info LineInfo
	h.highlightSegment(sink, segment, offset, 0, &info)
}

func (h *Highlighter) highlightSegment(sink Sink, segment []rune, offset, depth int, info *LineInfo) {
	if len(segment) == 0 {
		return
	}
	run := &lineRun{
		h:       h,
		runes:   segment,
		applied: make([]bool, len(segment)),
		sink:    sink,
		offset:  offset,
		depth:   depth,
		local:   true,
		info:    info,
	}
	run.matchFrom(0)
}

// sub returns the cached sub-highlighter for an embedded language.
func (h *Highlighter) sub(name string) *Highlighter {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.subs[name]; ok {
		return s
	}

	var s *Highlighter
	if name == h.name {
		s = h
	} else if h.cfg.resolver != nil {
		if def, ok := h.cfg.resolver.Definition(name); ok {
			s = New(def, h.opts...)
		}
	}
	if s == nil {
		h.log.Warn("embedded language %q not available", name)
	}
	h.subs[name] = s
	return s
}

// Sink receives styled ranges in the caller's coordinate space.
type Sink interface {
	SetType(start, length int, t TokenType)
}

// typeBuffer holds one token type per rune of a line.
type typeBuffer []TokenType

// SetType implements Sink. Out-of-range parts are clipped.
func (b typeBuffer) SetType(start, length int, t TokenType) {
	end := start + length
	if start < 0 {
		start = 0
	}
	if end > len(b) {
		end = len(b)
	}
	for i := start; i < end; i++ {
		b[i] = t
	}
}

// spans run-length encodes the buffer. Adjacent runes of the same type
// form one span, so spans never overlap.
func (b typeBuffer) spans() []Span {
	var out []Span
	for i := 0; i < len(b); {
		t := b[i]
		j := i + 1
		for j < len(b) && b[j] == t {
			j++
		}
		if t != TokenNone {
			out = append(out, Span{Start: i, Length: j - i, Type: t})
		}
		i = j
	}
	return out
}

// segment is a half-open rune range.
type segment struct {
	start, end int
}

// candidate is one match competing for a position of the line.
type candidate struct {
	start, length int
	priority      int
	order         int
	rule          *Rule
	construct     *Construct
	m             *regexp2.Match
}

// lineRun holds the per-call state of highlighting one line or segment.
type lineRun struct {
	h       *Highlighter
	runes   []rune
	applied []bool
	sink    Sink
	offset  int
	depth   int
	local   bool
	info    *LineInfo
}

// continueConstruct resumes a construct at the start of the line. It returns
// the offset where Default matching resumes, or continues=true when the whole
// line belongs to the construct.
func (run *lineRun) continueConstruct(a *activeConstruct) (next int, continues bool) {
	n := len(run.runes)
	m := run.findEnd(a, 0)
	if m == nil {
		run.content(a, 0, n)
		return n, true
	}

	endStart, endEnd := m.Index, m.Index+m.Length
	run.content(a, 0, endStart)
	run.delimiter(a.c, endStart, endEnd)
	return endEnd, false
}

// matchFrom collects and applies candidates from offset from in the Default
// state. It returns the state for the next line.
func (run *lineRun) matchFrom(from int) LexerState {
	cands := run.candidates(from)

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.length != b.length {
			return a.length > b.length
		}
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		return a.order < b.order
	})

	for _, c := range cands {
		if c.length <= 0 {
			continue
		}
		if c.rule != nil {
			run.guard(c.rule.name, func() { run.applyRule(c) })
			continue
		}

		if run.anyApplied(c.start, c.start+c.length) {
			continue
		}
		var (
			state     LexerState
			continues bool
		)
		run.guard(c.construct.key, func() {
			state, continues = run.openConstruct(c)
		})
		if continues {
			return state
		}
	}
	return LexerStateNormal
}

// candidates finds every rule match and construct start from offset from.
func (run *lineRun) candidates(from int) []candidate {
	var cands []candidate

	for i, r := range run.h.rules {
		for _, m := range run.findAll(r.re, from, r.name) {
			cands = append(cands, candidate{
				start:  m.Index,
				length: m.Length,
				order:  i,
				rule:   r,
				m:      m,
			})
		}
	}

	base := len(run.h.rules)
	for j, c := range run.h.table.constructs() {
		for _, m := range run.findAll(c.start, from, c.key) {
			cands = append(cands, candidate{
				start:     m.Index,
				length:    m.Length,
				priority:  c.priority,
				order:     base + j,
				construct: c,
				m:         m,
			})
		}
	}
	return cands
}

// findAll returns all matches of re from offset from. Engine errors such as
// timeouts end the scan for that pattern and are logged.
func (run *lineRun) findAll(re *regexp2.Regexp, from int, name string) (out []*regexp2.Match) {
	defer func() {
		if r := recover(); r != nil {
			run.h.log.Warn("pattern %s panicked: %v", name, r)
			run.info.Recovered++
		}
	}()

	limit := len(run.runes) + 1
	m, err := re.FindRunesMatchStartingAt(run.runes, from)
	for m != nil && err == nil && len(out) < limit {
		out = append(out, m)
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		run.h.log.Warn("pattern %s: %v", name, err)
		run.info.Recovered++
	}
	return out
}

// findEnd searches the end pattern of a from offset from.
func (run *lineRun) findEnd(a *activeConstruct, from int) *regexp2.Match {
	if a.end == nil || from > len(run.runes) {
		return nil
	}
	m, err := a.end.FindRunesMatchStartingAt(run.runes, from)
	if err != nil {
		run.h.log.Warn("end pattern of %s: %v", a.c.key, err)
		run.info.Recovered++
		return nil
	}
	return m
}

// applyRule styles the groups of a single-line rule match and runs its pass
// over the part that was styled by this call.
func (run *lineRun) applyRule(c candidate) {
	r, m := c.rule, c.m
	n := len(run.runes)

	for _, f := range r.formats {
		s, e, ok := groupSpan(m, f.Group)
		if ok && e > s && run.anyApplied(s, e) {
			return
		}
	}

	var styled []segment
	for _, f := range r.formats {
		s, e, ok := groupSpan(m, f.Group)
		if !ok || e <= s {
			continue
		}
		if s < 0 || e > n {
			run.h.log.Warn("rule %s: span %d-%d out of range", r.name, s, e)
			run.info.Recovered++
			continue
		}
		styled = append(styled, run.styleUnstyled(s, e, f.Type)...)
	}

	if r.pass == nil || len(styled) == 0 {
		return
	}
	ps, pe, ok := groupSpan(m, r.passGroup)
	if !ok {
		return
	}
	flags := ""
	if r.prefixGroup != 0 {
		flags = prefixFlags(groupText(m, r.prefixGroup))
	}
	for _, seg := range mergeSegments(styled) {
		s, e := max(seg.start, ps), min(seg.end, pe)
		if e <= s {
			continue
		}
		run.runPass(r.pass, PassContext{
			Line:  run.runes,
			Start: s,
			End:   e,
			Key:   r.name,
			Flags: flags,
		})
	}
}

// openConstruct applies a construct start. It returns continues=true with the
// construct state when the construct runs past the end of the line.
func (run *lineRun) openConstruct(c candidate) (LexerState, bool) {
	con, m := c.construct, c.m
	n := len(run.runes)

	a, err := run.h.table.activate(con, m)
	if a == nil {
		run.h.log.Warn("construct %s: %v", con.key, err)
		run.info.Recovered++
		return LexerStateNormal, false
	}
	if err != nil {
		run.h.log.Debug("construct %s: %v, using static end", con.key, err)
	}

	ms, me := m.Index, m.Index+m.Length
	if ds, de, ok := groupSpan(m, con.delimGroup); ok && de > ds && con.delimiter != TokenNone {
		run.style(ds, de, con.delimiter)
	}
	run.markApplied(ms, me)

	if em := run.findEnd(a, me); em != nil {
		run.content(a, me, em.Index)
		run.delimiter(con, em.Index, em.Index+em.Length)
		return LexerStateNormal, false
	}

	run.content(a, me, n)
	if run.local {
		return LexerStateNormal, false
	}
	return a.state, true
}

// content styles a construct body by delegation, by content type or not at
// all, then runs the construct pass over it.
func (run *lineRun) content(a *activeConstruct, from, to int) {
	if to <= from {
		return
	}
	defer run.markApplied(from, to)

	c := a.c
	if c.embed != "" {
		if run.delegate(c.embed, from, to) {
			return
		}
	}
	if c.content != TokenNone {
		run.styleUnstyled(from, to, c.content)
	}
	if c.pass != nil {
		run.runPass(c.pass, PassContext{
			Line:  run.runes,
			Start: from,
			End:   to,
			Key:   c.key,
			Flags: a.flags,
			State: a.state,
		})
	}
}

// delegate hands [from, to) to an embedded language.
func (run *lineRun) delegate(lang string, from, to int) bool {
	if run.depth >= run.h.cfg.maxDepth {
		run.h.log.Debug("embed depth %d reached, not delegating to %s", run.depth, lang)
		return false
	}
	sub := run.h.sub(lang)
	if sub == nil {
		return false
	}
	run.guard("embed "+lang, func() {
		sub.highlightSegment(run.sink, run.runes[from:to], run.offset+from, run.depth+1, run.info)
	})
	run.markApplied(from, to)
	return true
}

// delimiter styles a closing delimiter.
func (run *lineRun) delimiter(c *Construct, start, end int) {
	if end <= start {
		return
	}
	if c.delimiter != TokenNone {
		run.styleUnstyled(start, end, c.delimiter)
	}
	run.markApplied(start, end)
}

// runPass runs an internal pass, clipping its output to the subrange.
func (run *lineRun) runPass(pass InternalPass, ctx PassContext) {
	emit := func(start, length int, t TokenType) {
		end := start + length
		if start < ctx.Start {
			start = ctx.Start
		}
		if end > ctx.End {
			end = ctx.End
		}
		if end <= start || t == TokenNone || !t.Valid() {
			return
		}
		run.sink.SetType(run.offset+start, end-start, t)
	}
	run.guard("pass "+ctx.Key, func() { pass(ctx, emit) })
}

// guard runs fn and turns a panic into a logged, counted recovery.
func (run *lineRun) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			run.h.log.Warn("recovered in %s: %v", what, r)
			run.info.Recovered++
		}
	}()
	fn()
}

// style writes t over [start, end) and marks it applied.
func (run *lineRun) style(start, end int, t TokenType) {
	run.sink.SetType(run.offset+start, end-start, t)
	run.markApplied(start, end)
}

// styleUnstyled writes t over the parts of [start, end) that are not applied
// yet and returns those parts.
func (run *lineRun) styleUnstyled(start, end int, t TokenType) []segment {
	var out []segment
	i := start
	for i < end {
		for i < end && run.applied[i] {
			i++
		}
		if i >= end {
			break
		}
		j := i
		for j < end && !run.applied[j] {
			j++
		}
		run.style(i, j, t)
		out = append(out, segment{start: i, end: j})
		i = j
	}
	return out
}

// anyApplied reports whether any offset of [start, end) is applied.
func (run *lineRun) anyApplied(start, end int) bool {
	if start < 0 {
		start = 0
	}
	if end > len(run.applied) {
		end = len(run.applied)
	}
	for i := start; i < end; i++ {
		if run.applied[i] {
			return true
		}
	}
	return false
}

// markApplied marks [start, end) as applied.
func (run *lineRun) markApplied(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(run.applied) {
		end = len(run.applied)
	}
	for i := start; i < end; i++ {
		run.applied[i] = true
	}
}

// mergeSegments sorts segments and joins touching ones.
func mergeSegments(segs []segment) []segment {
	sort.Slice(segs, func(i, j int) bool { return segs[i].start < segs[j].start })
	out := segs[:0:0]
	for _, s := range segs {
		if len(out) > 0 && out[len(out)-1].end >= s.start {
			if s.end > out[len(out)-1].end {
				out[len(out)-1].end = s.end
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
