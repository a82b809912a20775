// Package theme provides the color maps a StyleRegistry is built from.
//
// A theme is a flat map from palette names ("blue", "gray4") or token names
// ("string.escape", "json_key") to hex colors. Built-in themes are looked up
// by name; anything else is read as a TOML, YAML or JSON file.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/hilite/internal/logging"
	"github.com/dshills/hilite/internal/renderer/highlight"
)

// Errors returned when resolving a theme.
var (
	ErrUnknownTheme       = errors.New("unknown theme")
	ErrUnsupportedFormat  = errors.New("unsupported theme format")
	ErrInheritanceTooDeep = errors.New("theme inheritance too deep")
)

// Theme is a named color map.
type Theme struct {
	Name   string
	Colors map[string]string
}

// Styles builds the style registry for the theme.
func (t Theme) Styles(log *logging.Logger) *highlight.StyleRegistry {
	return highlight.NewStyleRegistry(t.Colors, log)
}

// Clone returns a copy whose color map may be modified freely.
func (t Theme) Clone() Theme {
	colors := make(map[string]string, len(t.Colors))
	for k, v := range t.Colors {
		colors[k] = v
	}
	return Theme{Name: t.Name, Colors: colors}
}

// builtins holds the palettes shipped with hilite. Palette keys drive many
// token types at once; token keys fine tune single ones.
var builtins = map[string]map[string]string{
	"dark": {
		"black":         "#1e1e1e",
		"white":         "#d4d4d4",
		"gray2":         "#282828",
		"gray3":         "#404080",
		"gray4":         "#6a9955",
		"blue":          "#569cd6",
		"green":         "#dcdcaa",
		"red":           "#b5cea8",
		"orange":        "#4ec9b0",
		"yellow":        "#9cdcfe",
		"pink":          "#c586c0",
		"string":        "#ce9178",
		"builtin":       "#4fc1ff",
		"docstring":     "#ce9178",
		"string.escape": "#d7ba7d",
	},
	"monokai": {
		"black":               "#272822",
		"white":               "#f8f8f2",
		"gray2":               "#3e3d32",
		"gray3":               "#49483e",
		"gray4":               "#75715e",
		"blue":                "#66d9ef",
		"green":               "#a6e22e",
		"red":                 "#ae81ff",
		"orange":              "#fd971f",
		"yellow":              "#e6db74",
		"pink":                "#f92672",
		"string":              "#e6db74",
		"keyword":             "#f92672",
		"keyword.declaration": "#66d9ef",
		"tag":                 "#f92672",
	},
	"dracula": {
		"black":   "#282a36",
		"white":   "#f8f8f2",
		"gray2":   "#44475a",
		"gray3":   "#44475a",
		"gray4":   "#6272a4",
		"blue":    "#8be9fd",
		"green":   "#50fa7b",
		"red":     "#bd93f9",
		"orange":  "#ffb86c",
		"yellow":  "#f1fa8c",
		"pink":    "#ff79c6",
		"string":  "#f1fa8c",
		"keyword": "#ff79c6",
		"entity":  "#ff5555",
	},
	"solarized-dark": {
		"black":  "#002b36",
		"white":  "#839496",
		"gray2":  "#073642",
		"gray3":  "#586e75",
		"gray4":  "#586e75",
		"blue":   "#268bd2",
		"green":  "#859900",
		"red":    "#d33682",
		"orange": "#cb4b16",
		"yellow": "#b58900",
		"pink":   "#6c71c4",
		"string": "#2aa198",
		"entity": "#dc322f",
	},
	"light": {
		"black":          "#ffffff",
		"white":          "#000000",
		"gray2":          "#f5f5f5",
		"gray3":          "#add6ff",
		"gray4":          "#008000",
		"blue":           "#0000ff",
		"green":          "#795e26",
		"red":            "#098658",
		"orange":         "#267f99",
		"yellow":         "#001080",
		"pink":           "#af00db",
		"string":         "#a31515",
		"docstring":      "#a31515",
		"string.escape":  "#ee0000",
		"tag":            "#800000",
		"attribute.name": "#e50000",
	},
}

// aliases maps alternative names onto built-in themes.
var aliases = map[string]string{
	"default":   "dark",
	"solarized": "solarized-dark",
}

// Builtin returns the built-in theme with the given name.
func Builtin(name string) (Theme, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	colors, ok := builtins[key]
	if !ok {
		return Theme{}, false
	}
	return Theme{Name: key, Colors: colors}.Clone(), true
}

// Names returns the built-in theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the theme used when none is configured.
func Default() Theme {
	t, _ := Builtin("dark")
	return t
}

// Resolve returns the built-in theme named ref, or loads ref as a file.
func Resolve(ref string) (Theme, error) {
	if t, ok := Builtin(ref); ok {
		return t, nil
	}
	if looksLikePath(ref) {
		return LoadFile(ref)
	}
	return Theme{}, fmt.Errorf("%q: %w (built-in themes: %s)", ref, ErrUnknownTheme, strings.Join(Names(), ", "))
}

// looksLikePath reports whether ref names a file rather than a theme.
func looksLikePath(ref string) bool {
	return strings.ContainsAny(ref, `/\`) || strings.Contains(ref, ".")
}
