package lang

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/dshills/hilite/internal/renderer/highlight"
)

// HTML construct states.
const (
	htmlComment highlight.LexerState = iota + 1
	htmlScript
	htmlStyle
)

var entityPattern = `&(?:[A-Za-z0-9]+|#\d+|#x[0-9a-fA-F]+);`

// HTML returns the HTML definition. Script and style elements are handed to
// the javascript and css definitions.
func HTML() highlight.LanguageDef {
	return highlight.LanguageDef{
		Name:       "html",
		Aliases:    []string{"htm", "xhtml"},
		Extensions: []string{".html", ".htm", ".xhtml"},
		Rules: []highlight.RuleDef{
			{Name: "entity", Pattern: entityPattern, Type: highlight.TokenEntity},
			{Name: "doctype", Pattern: `<!DOCTYPE[^>]*>`, Flags: highlight.IgnoreCase, Type: highlight.TokenComment},
			{Name: "tag-open", Pattern: `</?`, Type: highlight.TokenTag},
			{Name: "tag-close", Pattern: `/?>`, Type: highlight.TokenTag},
			{Name: "tag-name", Pattern: `(</?)\s*([A-Za-z][\w:\-]*)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenTag, Group: 1},
				{Type: highlight.TokenTag, Group: 2},
			}},
			{Name: "value-double", Pattern: `"[^"]*"`, Type: highlight.TokenAttributeValue},
			{Name: "value-single", Pattern: `'[^']*'`, Type: highlight.TokenAttributeValue},
			{Name: "attribute", Pattern: `\b([A-Za-z_:][\w.\-:]*)\s*(?==)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenAttributeName, Group: 1},
			}},
			{Name: "equals", Pattern: `=`, Type: highlight.TokenOperator},
		},
		Constructs: []highlight.ConstructDef{
			{
				Key:       "comment",
				Start:     `<!--`,
				End:       `-->`,
				State:     htmlComment,
				Delimiter: highlight.TokenComment,
				Content:   highlight.TokenComment,
				Priority:  5,
			},
			{
				Key:       "script",
				Start:     `<script(?:\s[^>]*)?>`,
				End:       `</script\s*>`,
				Flags:     highlight.IgnoreCase,
				State:     htmlScript,
				Delimiter: highlight.TokenTag,
				Embed:     "javascript",
				Priority:  10,
			},
			{
				Key:       "style",
				Start:     `<style(?:\s[^>]*)?>`,
				End:       `</style\s*>`,
				Flags:     highlight.IgnoreCase,
				State:     htmlStyle,
				Delimiter: highlight.TokenTag,
				Embed:     "css",
				Priority:  10,
			},
		},
	}
}

// CSS construct states.
const (
	cssComment highlight.LexerState = iota + 1
)

var cssWords = struct {
	elements, values, functions, atRules []string
}{
	elements: []string{
		"html", "body", "div", "span", "p", "a", "img", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "table", "tr", "td", "th", "thead", "tbody", "tfoot", "form", "input",
		"button", "label", "select", "option", "textarea", "header", "footer", "nav", "main",
		"article", "section", "aside", "video", "audio", "canvas", "svg",
	},
	values: []string{
		"absolute", "relative", "fixed", "static", "sticky", "auto", "inherit", "initial", "unset", "revert",
		"block", "inline", "inline-block", "flex", "inline-flex", "grid", "inline-grid", "none", "contents",
		"list-item", "table", "table-cell", "table-row", "flow-root",
		"left", "right", "center", "top", "bottom", "baseline", "middle", "sub", "super", "text-top", "text-bottom",
		"start", "end", "stretch", "space-between", "space-around", "space-evenly",
		"normal", "bold", "bolder", "lighter", "italic", "oblique",
		"solid", "dashed", "dotted", "double", "groove", "ridge", "inset", "outset",
		"visible", "hidden", "scroll", "clip", "collapse", "pointer", "default", "grab", "move", "crosshair",
		"uppercase", "lowercase", "capitalize",
		"transparent", "currentColor", "black", "silver", "gray", "white", "maroon", "red", "purple", "fuchsia",
		"green", "lime", "olive", "yellow", "navy", "blue", "teal", "aqua",
	},
	functions: []string{
		"attr", "calc", "clamp", "env", "hsl", "hsla", "hwb", "lab", "lch", "max", "min", "rgb", "rgba", "url", "var",
		"linear-gradient", "radial-gradient", "repeating-linear-gradient", "repeating-radial-gradient",
		"conic-gradient", "repeating-conic-gradient",
		"blur", "brightness", "contrast", "drop-shadow", "grayscale", "hue-rotate", "invert", "opacity",
		"saturate", "sepia",
		"matrix", "perspective", "rotate", "rotate3d", "rotateX", "rotateY", "rotateZ",
		"scale", "scale3d", "scaleX", "scaleY", "scaleZ",
		"skew", "skewX", "skewY", "translate", "translate3d", "translateX", "translateY", "translateZ",
		"path", "polygon", "circle", "ellipse", "inset",
		"cubic-bezier", "steps",
	},
	atRules: []string{
		"charset", "import", "namespace", "media", "supports", "document", "page", "font-face",
		"keyframes", "viewport", "counter-style", "font-feature-values", "property", "layer", "container",
	},
}

// alternation joins literal words into a non-capturing group.
func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp2.Escape(w)
	}
	return `(?:` + strings.Join(quoted, "|") + `)`
}

// cssWordPattern matches whole words that may contain hyphens.
func cssWordPattern(words []string) string {
	return `(?<![\w-])` + alternation(words) + `(?![\w-])`
}

// CSS returns the CSS definition.
func CSS() highlight.LanguageDef {
	w := cssWords
	units := `%|(?:px|em|rem|vw|vh|vmin|vmax|cm|mm|in|pt|pc|ch|ex|deg|grad|rad|turn|ms|s|Hz|kHz|dpi|dpcm|dppx|fr)\b`

	return highlight.LanguageDef{
		Name:       "css",
		Extensions: []string{".css"},
		Rules: []highlight.RuleDef{
			{Name: "hex-color", Pattern: `(?<=:[^;{}]*)#[0-9a-fA-F]{3,8}\b`, Type: highlight.TokenNumber},
			{Name: "id", Pattern: `(?<![\w\-])(#[\w\-]+)`, Groups: []highlight.GroupFormat{{Type: highlight.TokenSelector, Group: 1}}},
			{Name: "attribute-selector", Pattern: `\[[^\]]+\]`, Type: highlight.TokenSelector},
			{Name: "class", Pattern: `(?<![\w\-])(\.[A-Za-z_\-][\w\-]*)`, Groups: []highlight.GroupFormat{{Type: highlight.TokenSelector, Group: 1}}},
			{Name: "pseudo", Pattern: `::?[A-Za-z\-][\w\-]*`, Type: highlight.TokenSelector},
			{Name: "element", Pattern: cssWordPattern(w.elements), Flags: highlight.IgnoreCase, Type: highlight.TokenSelector},
			{Name: "universal", Pattern: `(?<![\w\-])\*(?!\w)`, Type: highlight.TokenSelector},
			{Name: "at-rule", Pattern: `@` + alternation(w.atRules) + `(?![\w-])`, Flags: highlight.IgnoreCase, Type: highlight.TokenKeywordImport},
			{Name: "property", Pattern: `(?:^|(?<=[{;\s]))\s*(-?[A-Za-z][-\w]*)\s*(?=:(?!:))`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenProperty, Group: 1},
			}},
			{Name: "function", Pattern: cssWordPattern(w.functions) + `(?=\s*\()`, Flags: highlight.IgnoreCase, Type: highlight.TokenBuiltin},
			{Name: "value", Pattern: cssWordPattern(w.values), Flags: highlight.IgnoreCase, Type: highlight.TokenValue},
			{Name: "number", Pattern: `(?<![\w#])([-+]?(?:[0-9]*\.)?[0-9]+(?:[eE][-+]?[0-9]+)?)(` + units + `)?`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenNumber, Group: 1},
				{Type: highlight.TokenValue, Group: 2},
			}},
			{Name: "string-double", Pattern: `"((?:[^"\\]|\\.)*)"`, Type: highlight.TokenString, Pass: cEscapes, PassGroup: 1},
			{Name: "string-single", Pattern: `'((?:[^'\\]|\\.)*)'`, Type: highlight.TokenString, Pass: cEscapes, PassGroup: 1},
			{Name: "important", Pattern: `!\s*important\b`, Flags: highlight.IgnoreCase, Type: highlight.TokenKeywordControl},
			{Name: "punctuation", Pattern: `[{}:;,]`, Type: highlight.TokenPunctuation},
			{Name: "operator", Pattern: `[>+~()\[\]/*]`, Type: highlight.TokenOperator},
		},
		Constructs: []highlight.ConstructDef{
			{
				Key:       "comment",
				Start:     `/\*`,
				End:       `\*/`,
				State:     cssComment,
				Delimiter: highlight.TokenComment,
				Content:   highlight.TokenComment,
				Priority:  20,
			},
		},
	}
}
