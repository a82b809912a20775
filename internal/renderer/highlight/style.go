package highlight

import (
	"sort"

	"github.com/dshills/hilite/internal/logging"
	"github.com/dshills/hilite/internal/renderer/core"
)

// DefaultPalette is the built-in palette used when a theme is empty or
// missing a key.
var DefaultPalette = map[string]string{
	"black":  "#1e222a",
	"white":  "#abb2bf",
	"gray2":  "#2e323a",
	"gray3":  "#545862",
	"gray4":  "#6d8dad",
	"blue":   "#61afef",
	"green":  "#7EC7A2",
	"red":    "#e06c75",
	"orange": "#caaa6a",
	"yellow": "#EBCB8B",
	"pink":   "#c678dd",
}

// styleSpec describes how a token type is derived from a palette.
type styleSpec struct {
	palette  string // palette key looked up in the theme
	fallback string // used when the key is missing or invalid
	bold     bool
	italic   bool
}

var styleSpecs = map[TokenType]styleSpec{
	TokenKeyword:            {palette: "blue", fallback: "#61afef"},
	TokenKeywordDeclaration: {palette: "blue", fallback: "#61afef", bold: true},
	TokenKeywordControl:     {palette: "pink", fallback: "#c678dd"},
	TokenKeywordImport:      {palette: "pink", fallback: "#c678dd"},

	TokenBuiltin:           {palette: "red", fallback: "#e06c75"},
	TokenIdentifier:        {palette: "white", fallback: "#abb2bf"},
	TokenIdentifierSpecial: {palette: "yellow", fallback: "#EBCB8B"},
	TokenFunction:          {palette: "green", fallback: "#7EC7A2"},
	TokenTypeName:          {palette: "orange", fallback: "#caaa6a", bold: true},
	TokenDecorator:         {palette: "pink", bold: true},

	TokenOperator:    {palette: "white", fallback: "#abb2bf"},
	TokenBrace:       {palette: "white", fallback: "#abb2bf"},
	TokenPunctuation: {palette: "white", fallback: "#abb2bf"},

	TokenNumber:        {palette: "red", fallback: "#e06c75"},
	TokenString:        {palette: "green", fallback: "#98C379"},
	TokenStringEscape:  {palette: "pink", bold: true},
	TokenStringSpecial: {palette: "yellow", italic: true},
	TokenDocstring:     {palette: "gray4", fallback: "#6d8dad", italic: true},
	TokenRegex:         {palette: "pink"},

	TokenComment: {palette: "gray4", italic: true},

	TokenTag:            {palette: "blue"},
	TokenAttributeName:  {palette: "yellow"},
	TokenAttributeValue: {palette: "green"},
	TokenEntity:         {palette: "red"},
	TokenSelector:       {palette: "pink"},
	TokenProperty:       {palette: "white"},
	TokenValue:          {palette: "green"},
	TokenKey:            {palette: "blue"},

	TokenMarkupHeading: {palette: "blue", bold: true},
	TokenMarkupBold:    {palette: "white", bold: true},
	TokenMarkupItalic:  {palette: "white", italic: true},
	TokenMarkupCode:    {palette: "green"},
	TokenMarkupQuote:   {palette: "gray4", italic: true},
	TokenMarkupList:    {palette: "pink"},
	TokenMarkupLink:    {palette: "orange"},
}

// StyleRegistry maps token types to visual styles.
// It is built once from a theme map and is read-only afterwards.
type StyleRegistry struct {
	styles     map[TokenType]core.Style
	foreground core.Color
	background core.Color
	surface    core.Color
	muted      core.Color
}

// NewStyleRegistry builds a registry from a theme map.
//
// Theme keys are palette names ("blue", "gray4") or token names
// ("string.escape", "json_key") that override a single token type. Values are
// hex colors. Missing keys fall back silently; invalid values fall back and
// are logged. An empty theme uses DefaultPalette.
func NewStyleRegistry(theme map[string]string, logger *logging.Logger) *StyleRegistry {
	if logger == nil {
		logger = logging.Nop()
	}
	log := logger.WithComponent("styles")

	if len(theme) == 0 {
		log.Warn("empty theme, using built-in palette")
		theme = DefaultPalette
	}

	r := &StyleRegistry{
		styles: make(map[TokenType]core.Style, len(styleSpecs)),
	}

	r.foreground = resolveColor(theme, "white", DefaultPalette["white"], log)
	r.background = resolveColor(theme, "black", DefaultPalette["black"], log)
	r.surface = resolveColor(theme, "gray2", DefaultPalette["gray2"], log)
	r.muted = resolveColor(theme, "gray3", DefaultPalette["gray3"], log)

	// Deterministic order keeps warnings stable
	types := make([]TokenType, 0, len(styleSpecs))
	for t := range styleSpecs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, t := range types {
		spec := styleSpecs[t]
		fallback := spec.fallback
		if fallback == "" {
			fallback = DefaultPalette[spec.palette]
		}

		color := resolveColor(theme, spec.palette, fallback, log)
		if override, ok := lookupOverride(theme, t); ok {
			if c, err := core.ParseColor(override); err == nil {
				color = c
			} else {
				log.Warn("invalid color for %s: %v", t, err)
			}
		}

		style := core.NewStyle(color)
		if spec.bold {
			style = style.Bold()
		}
		if spec.italic {
			style = style.Italic()
		}
		r.styles[t] = style
	}

	return r
}

// resolveColor looks up a palette key, falling back on a missing or invalid value.
func resolveColor(theme map[string]string, key, fallback string, log *logging.Logger) core.Color {
	if v, ok := theme[key]; ok {
		c, err := core.ParseColor(v)
		if err == nil {
			return c
		}
		log.Warn("invalid color for %q, using fallback %s: %v", key, fallback, err)
	}
	c, err := core.ParseColor(fallback)
	if err != nil {
		return core.ColorDefault
	}
	return c
}

// lookupOverride finds a per-token entry by dotted or legacy name.
func lookupOverride(theme map[string]string, t TokenType) (string, bool) {
	if v, ok := theme[t.String()]; ok {
		return v, true
	}
	for name, lt := range legacyNames {
		if lt == t {
			if v, ok := theme[name]; ok {
				return v, true
			}
		}
	}
	return "", false
}

// Get returns the style for a token type.
// Unknown types get a neutral style.
func (r *StyleRegistry) Get(t TokenType) core.Style {
	if style, ok := r.styles[t]; ok {
		return style
	}
	return core.NewStyle(r.foreground)
}

// Foreground returns the default text color of the theme.
func (r *StyleRegistry) Foreground() core.Color {
	return r.foreground
}

// Background returns the background color of the theme.
func (r *StyleRegistry) Background() core.Color {
	return r.background
}

// Surface returns the color of raised areas such as a status bar.
func (r *StyleRegistry) Surface() core.Color {
	return r.surface
}

// Muted returns the color of secondary text such as line numbers.
func (r *StyleRegistry) Muted() core.Color {
	return r.muted
}

// StyleSpans converts token spans into style spans.
func (r *StyleRegistry) StyleSpans(spans []Span) []core.StyleSpan {
	if len(spans) == 0 {
		return nil
	}
	out := make([]core.StyleSpan, 0, len(spans))
	for _, s := range spans {
		out = append(out, core.StyleSpan{
			Start: s.Start,
			End:   s.End(),
			Style: r.Get(s.Type),
		})
	}
	return out
}
