// Package highlight implements the incremental, stateful line highlighter.
//
// A Highlighter turns one line of text plus the lexer state left by the
// previous line into a list of non-overlapping spans and the state to hand to
// the next line. Languages are pure data (rules and constructs); the engine
// resolves overlapping matches, carries multi-line constructs across lines,
// delegates embedded regions to other languages and runs internal passes over
// string bodies.
package highlight

// TokenType is the semantic category assigned to a span of text.
type TokenType uint8

// Token types for syntax highlighting.
// Names follow dotted scope conventions so themes can address parents.
const (
	TokenNone TokenType = iota

	// Keywords
	TokenKeyword
	TokenKeywordDeclaration // def, class, function, var, let, const
	TokenKeywordControl     // return, break, if, for
	TokenKeywordImport      // import, from, export

	// Names
	TokenBuiltin
	TokenIdentifier
	TokenIdentifierSpecial // self, this, True, null
	TokenFunction
	TokenTypeName
	TokenDecorator

	// Operators and punctuation
	TokenOperator
	TokenBrace
	TokenPunctuation

	// Literals
	TokenNumber
	TokenString
	TokenStringEscape
	TokenStringSpecial
	TokenDocstring
	TokenRegex

	TokenComment

	// Markup languages
	TokenTag
	TokenAttributeName
	TokenAttributeValue
	TokenEntity
	TokenSelector
	TokenProperty
	TokenValue
	TokenKey

	// Prose markup
	TokenMarkupHeading
	TokenMarkupBold
	TokenMarkupItalic
	TokenMarkupCode
	TokenMarkupQuote
	TokenMarkupList
	TokenMarkupLink

	// Sentinel for iteration
	tokenTypeCount
)

// String returns the dotted name of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// Valid reports whether t is a known token type.
func (t TokenType) Valid() bool {
	return t < tokenTypeCount
}

// IsKeyword returns true if this is a keyword token.
func (t TokenType) IsKeyword() bool {
	return t >= TokenKeyword && t <= TokenKeywordImport
}

// IsString returns true if this is a string-like token.
func (t TokenType) IsString() bool {
	return t >= TokenString && t <= TokenDocstring
}

// IsComment returns true if this is a comment token.
func (t TokenType) IsComment() bool {
	return t == TokenComment
}

// IsMarkup returns true for tag and attribute tokens of markup languages.
func (t TokenType) IsMarkup() bool {
	return t >= TokenTag && t <= TokenKey
}

// AllTokenTypes returns every token type except TokenNone.
func AllTokenTypes() []TokenType {
	types := make([]TokenType, 0, tokenTypeCount-1)
	for t := TokenNone + 1; t < tokenTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Span is a styled range of one line, measured in runes.
type Span struct {
	Start  int
	Length int
	Type   TokenType
}

// End returns the offset one past the last rune of the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Contains returns true if the rune offset is within the span.
func (s Span) Contains(off int) bool {
	return off >= s.Start && off < s.End()
}

// SpanAt returns the span covering the given rune offset, if any.
// spans must be sorted by Start.
func SpanAt(spans []Span, off int) (Span, bool) {
	for _, s := range spans {
		if s.Contains(off) {
			return s, true
		}
		if s.Start > off {
			break // Spans are sorted, no need to continue
		}
	}
	return Span{}, false
}

// LexerState is the automaton state carried from one line to the next.
// Zero means no construct is active.
type LexerState uint32

// LexerStateNormal is the default state.
const LexerStateNormal LexerState = 0

// TokenTypeFromString converts a name to a TokenType.
// Dotted names fall back to their parents ("keyword.control.flow" resolves
// to keyword.control) and the underscore names used by older theme files
// ("keyword_decl", "html_tag", "json_key") are accepted.
func TokenTypeFromString(name string) TokenType {
	if t, ok := legacyNames[name]; ok {
		return t
	}
	for len(name) > 0 {
		if t, ok := nameToToken[name]; ok {
			return t
		}
		// Remove last segment
		i := len(name) - 1
		for i >= 0 && name[i] != '.' {
			i--
		}
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return TokenNone
}

// tokenTypeNames maps token types to their dotted names.
var tokenTypeNames = []string{
	TokenNone: "none",

	TokenKeyword:            "keyword",
	TokenKeywordDeclaration: "keyword.declaration",
	TokenKeywordControl:     "keyword.control",
	TokenKeywordImport:      "keyword.import",

	TokenBuiltin:           "builtin",
	TokenIdentifier:        "identifier",
	TokenIdentifierSpecial: "identifier.special",
	TokenFunction:          "function",
	TokenTypeName:          "type",
	TokenDecorator:         "decorator",

	TokenOperator:    "operator",
	TokenBrace:       "brace",
	TokenPunctuation: "punctuation",

	TokenNumber:        "number",
	TokenString:        "string",
	TokenStringEscape:  "string.escape",
	TokenStringSpecial: "string.special",
	TokenDocstring:     "docstring",
	TokenRegex:         "regex",

	TokenComment: "comment",

	TokenTag:            "tag",
	TokenAttributeName:  "attribute.name",
	TokenAttributeValue: "attribute.value",
	TokenEntity:         "entity",
	TokenSelector:       "selector",
	TokenProperty:       "property",
	TokenValue:          "value",
	TokenKey:            "key",

	TokenMarkupHeading: "markup.heading",
	TokenMarkupBold:    "markup.bold",
	TokenMarkupItalic:  "markup.italic",
	TokenMarkupCode:    "markup.code",
	TokenMarkupQuote:   "markup.quote",
	TokenMarkupList:    "markup.list",
	TokenMarkupLink:    "markup.link",
}

// legacyNames are the flat format keys used by older theme files.
var legacyNames = map[string]TokenType{
	"keyword_decl":    TokenKeywordDeclaration,
	"keyword_ctrl":    TokenKeywordControl,
	"keyword_imp":     TokenKeywordImport,
	"special_var":     TokenIdentifierSpecial,
	"func_name":       TokenFunction,
	"class_name":      TokenTypeName,
	"string_escape":   TokenStringEscape,
	"string_special":  TokenStringSpecial,
	"html_tag":        TokenTag,
	"html_attr_name":  TokenAttributeName,
	"html_attr_value": TokenAttributeValue,
	"html_entity":     TokenEntity,
	"css_selector":    TokenSelector,
	"css_property":    TokenProperty,
	"css_value":       TokenValue,
	"json_key":        TokenKey,
}

// nameToToken maps dotted names to token types.
var nameToToken = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenTypeNames))
	for i, name := range tokenTypeNames {
		if name != "" && TokenType(i) != TokenNone {
			m[name] = TokenType(i)
		}
	}
	return m
}()
