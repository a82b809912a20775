package lang

import (
	"github.com/dshills/hilite/internal/renderer/highlight"
)

// whenFlag runs p only when the prefix flags contain f.
func whenFlag(f rune, p highlight.InternalPass) highlight.InternalPass {
	return func(ctx highlight.PassContext, emit func(start, length int, t highlight.TokenType)) {
		if ctx.HasFlag(f) {
			p(ctx, emit)
		}
	}
}

// unlessFlag runs p only when the prefix flags do not contain f.
func unlessFlag(f rune, p highlight.InternalPass) highlight.InternalPass {
	return func(ctx highlight.PassContext, emit func(start, length int, t highlight.TokenType)) {
		if !ctx.HasFlag(f) {
			p(ctx, emit)
		}
	}
}

// unlessQuoted runs p only when no prefix flags were captured. Shell
// heredocs with a quoted terminator are taken literally.
func unlessQuoted(p highlight.InternalPass) highlight.InternalPass {
	return func(ctx highlight.PassContext, emit func(start, length int, t highlight.TokenType)) {
		if ctx.Flags == "" {
			p(ctx, emit)
		}
	}
}

// cEscapes styles backslash escapes.
var cEscapes = highlight.PatternPass(highlight.PassRule{
	Pattern: `\\(?:[0-7]{1,3}|x[0-9a-fA-F]{2}|u[0-9a-fA-F]{4}|U[0-9a-fA-F]{8}|.)`,
	Type:    highlight.TokenStringEscape,
})

// Python: escapes unless raw, then f-string braces.
var pythonStringPass = highlight.ChainPasses(
	unlessFlag('r', highlight.PatternPass(highlight.PassRule{
		Pattern: `\\(?:N\{[^}]*\}|x[0-9a-fA-F]{2}|u[0-9a-fA-F]{4}|U[0-9a-fA-F]{8}|[0-7]{1,3}|.)`,
		Type:    highlight.TokenStringEscape,
	})),
	whenFlag('f', highlight.PatternPass(
		highlight.PassRule{Pattern: `\{\{|\}\}`, Type: highlight.TokenStringSpecial},
		highlight.PassRule{Pattern: `(\{)[^{}]*(\})`, Groups: []highlight.GroupFormat{
			{Type: highlight.TokenStringSpecial, Group: 1},
			{Type: highlight.TokenStringSpecial, Group: 2},
		}},
	)),
)

var jsEscape = highlight.PassRule{
	Pattern: `\\(?:[nrtvfb\\'"` + "`" + `$0]|u\{[0-9a-fA-F]+\}|u[0-9a-fA-F]{4}|x[0-9a-fA-F]{2}|\d{1,3}|.)`,
	Type:    highlight.TokenStringEscape,
}

var jsStringPass = highlight.PatternPass(jsEscape)

// Template literals: escapes plus ${ and } markers.
var jsTemplatePass = highlight.PatternPass(
	highlight.PassRule{Pattern: `\$\{|\}`, Type: highlight.TokenStringSpecial},
	jsEscape,
)

var jsDocPass = highlight.PatternPass(highlight.PassRule{
	Pattern: `(?<![\w@])@[A-Za-z]+`,
	Type:    highlight.TokenDecorator,
})

var shellVariable = highlight.PassRule{
	Pattern: `(?<!\\)\$(?:\w+|\{[^}]*\}|[?!$#@*0-9-])`,
	Type:    highlight.TokenIdentifierSpecial,
}

// Bash double-quoted strings and unquoted heredocs.
var bashExpansionPass = highlight.PatternPass(
	shellVariable,
	highlight.PassRule{Pattern: "(?<!\\\\)`[^`]*`", Type: highlight.TokenStringSpecial},
	highlight.PassRule{Pattern: `(?<!\\)\$\([^)]*\)`, Type: highlight.TokenStringSpecial},
	highlight.PassRule{Pattern: `\\[$` + "`" + `"\\]`, Type: highlight.TokenStringEscape},
)

// PowerShell double-quoted strings and here-strings.
var powershellExpansionPass = highlight.PatternPass(
	highlight.PassRule{Pattern: "(?<!`)\\$(?:[\\w:]+|\\{[^}]*\\})", Type: highlight.TokenIdentifierSpecial},
	highlight.PassRule{Pattern: "(?<!`)\\$\\([^)]*\\)", Type: highlight.TokenStringSpecial},
	highlight.PassRule{Pattern: "`.", Type: highlight.TokenStringEscape},
)
