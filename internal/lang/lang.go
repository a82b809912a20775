// Package lang holds the built-in language definitions and selects one for
// a file name, extension or language name.
//
// Definitions are plain data handed to highlight.New. Names chroma knows
// about but that have no definition here are mapped through chroma's lexer
// aliases, so "py3" or "Dockerfile.sh" still land on a built-in language.
package lang

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/hilite/internal/logging"
	"github.com/dshills/hilite/internal/renderer/highlight"
)

// Builtins returns every built-in definition. Each call returns fresh
// slices so callers may modify them.
func Builtins() []highlight.LanguageDef {
	return []highlight.LanguageDef{
		Python(),
		JavaScript(),
		TypeScript(),
		HTML(),
		CSS(),
		JSON(),
		XML(),
		Bash(),
		PowerShell(),
		Batch(),
		Go(),
		Rust(),
		Markdown(),
	}
}

// NewRegistry returns a registry holding all built-in definitions.
func NewRegistry() *highlight.Registry {
	r := highlight.NewRegistry()
	for _, def := range Builtins() {
		r.Register(def)
	}
	return r
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithHighlightOptions sets the options used to compile highlighters.
func WithHighlightOptions(opts ...highlight.Option) SelectorOption {
	return func(s *Selector) {
		s.opts = append(s.opts, opts...)
	}
}

// WithSelectorLogger sets the logger.
func WithSelectorLogger(l *logging.Logger) SelectorOption {
	return func(s *Selector) {
		if l != nil {
			s.log = l.WithComponent("lang")
		}
	}
}

// WithChromaFallback enables or disables resolving hints through chroma's
// lexer registry. It is enabled by default.
func WithChromaFallback(enabled bool) SelectorOption {
	return func(s *Selector) {
		s.chroma = enabled
	}
}

// Selector resolves hints to definitions and caches compiled highlighters.
// It is safe for concurrent use.
type Selector struct {
	reg    *highlight.Registry
	opts   []highlight.Option
	log    *logging.Logger
	chroma bool

	mu    sync.Mutex
	cache map[string]*highlight.Highlighter
}

// NewSelector creates a selector over reg. A nil reg uses the built-ins.
func NewSelector(reg *highlight.Registry, opts ...SelectorOption) *Selector {
	if reg == nil {
		reg = NewRegistry()
	}
	s := &Selector{
		reg:    reg,
		log:    logging.Nop(),
		chroma: true,
		cache:  make(map[string]*highlight.Highlighter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the underlying registry.
func (s *Selector) Registry() *highlight.Registry {
	return s.reg
}

// Resolve finds the definition for a hint. The hint may be a path, a file
// name, an extension or a language name. Extensions are tried first.
func (s *Selector) Resolve(hint string) (highlight.LanguageDef, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return highlight.LanguageDef{}, false
	}
	if def, ok := s.reg.ByExtension(hint); ok {
		return def, true
	}
	if def, ok := s.reg.Definition(hint); ok {
		return def, true
	}
	if !s.chroma {
		return highlight.LanguageDef{}, false
	}

	l := lexers.Get(hint)
	if l == nil {
		l = lexers.Match(hint)
	}
	if def, ok := s.fromLexer(l); ok {
		s.log.Debug("resolved %q through chroma as %s", hint, def.Name)
		return def, true
	}
	return highlight.LanguageDef{}, false
}

// Detect guesses the language of a document from its content.
func (s *Selector) Detect(content string) (highlight.LanguageDef, bool) {
	if !s.chroma || content == "" {
		return highlight.LanguageDef{}, false
	}
	return s.fromLexer(lexers.Analyse(content))
}

// fromLexer maps a chroma lexer onto a registered definition by its name
// and aliases.
func (s *Selector) fromLexer(l chroma.Lexer) (highlight.LanguageDef, bool) {
	if l == nil {
		return highlight.LanguageDef{}, false
	}
	cfg := l.Config()
	if cfg == nil {
		return highlight.LanguageDef{}, false
	}
	names := append([]string{cfg.Name}, cfg.Aliases...)
	for _, name := range names {
		if def, ok := s.reg.Definition(strings.ToLower(name)); ok {
			return def, true
		}
	}
	return highlight.LanguageDef{}, false
}

// Select returns the compiled highlighter for a hint. Highlighters are
// compiled once per language and share the registry for embedding.
func (s *Selector) Select(hint string) (*highlight.Highlighter, bool) {
	def, ok := s.Resolve(hint)
	if !ok {
		return nil, false
	}
	return s.Highlighter(def), true
}

// Highlighter compiles def, or returns the cached highlighter for its name.
func (s *Selector) Highlighter(def highlight.LanguageDef) *highlight.Highlighter {
	key := strings.ToLower(def.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.cache[key]; ok {
		return h
	}
	opts := append([]highlight.Option{highlight.WithResolver(s.reg)}, s.opts...)
	h := highlight.New(def, opts...)
	for _, err := range h.Diagnostics() {
		s.log.Warn("%v", err)
	}
	s.cache[key] = h
	return h
}

// Invalidate drops cached highlighters, for example after definitions or
// extension mappings changed.
func (s *Selector) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*highlight.Highlighter)
}
