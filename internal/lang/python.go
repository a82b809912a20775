package lang

import (
	"github.com/dlclark/regexp2"

	"github.com/dshills/hilite/internal/renderer/highlight"
)

// Python construct states.
const (
	pythonDocstring highlight.LexerState = iota + 1
	pythonTripleString
)

var pythonKeywords = struct {
	decl, ctrl, imp, other, consts, special, builtins []string
}{
	decl:    []string{"class", "def"},
	ctrl:    []string{"return", "yield", "continue", "break", "pass", "raise", "assert", "del", "global", "nonlocal"},
	imp:     []string{"import", "from", "as"},
	other:   []string{"and", "await", "async", "elif", "else", "except", "finally", "for", "if", "in", "is", "lambda", "not", "or", "try", "while", "with", "match", "case"},
	consts:  []string{"True", "False", "None"},
	special: []string{"self", "cls"},
	builtins: []string{
		"abs", "all", "any", "ascii", "bin", "bool", "breakpoint", "bytearray", "bytes", "callable", "chr",
		"classmethod", "compile", "complex", "delattr", "dict", "dir", "divmod", "enumerate",
		"eval", "exec", "filter", "float", "format", "frozenset", "getattr", "globals",
		"hasattr", "hash", "help", "hex", "id", "input", "int", "isinstance", "issubclass",
		"iter", "len", "list", "locals", "map", "max", "memoryview", "min", "next", "object",
		"oct", "open", "ord", "pow", "print", "property", "range", "repr", "reversed",
		"round", "set", "setattr", "slice", "sorted", "staticmethod", "str", "sum", "super",
		"tuple", "type", "vars", "zip", "__import__",
	},
}

// closingQuote ends a triple-quoted string with the same quote kind that
// opened it. groups[n] is the opening delimiter.
func closingQuote(n int) func(groups []string) string {
	return func(groups []string) string {
		if n >= len(groups) || groups[n] == "" {
			return ""
		}
		return regexp2.Escape(groups[n])
	}
}

// Python returns the Python definition.
func Python() highlight.LanguageDef {
	kw := pythonKeywords
	all := append(append(append(append([]string{}, kw.decl...), kw.ctrl...), kw.imp...), kw.other...)

	return highlight.LanguageDef{
		Name:       "python",
		Aliases:    []string{"py", "python3"},
		Extensions: []string{".py", ".pyw", ".pyi"},
		Rules: []highlight.RuleDef{
			{Name: "comment", Pattern: `#.*$`, Type: highlight.TokenComment},
			{Name: "decorator", Pattern: `@([\w.]+)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenDecorator, Group: 1},
			}},
			{
				Name:    "type-hint",
				Pattern: `(?:->|(?<=[\w\])]):)\s*(?!` + highlight.KeywordPattern(all...) + `)([A-Za-z_][\w.]*(?:\[[^\]\n]*\])?)`,
				Groups:  []highlight.GroupFormat{{Type: highlight.TokenBuiltin, Group: 1}},
			},
			{Name: "def", Pattern: `\b(def)\s+([A-Za-z_]\w*)\b`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeywordDeclaration, Group: 1},
				{Type: highlight.TokenFunction, Group: 2},
			}},
			{Name: "class", Pattern: `\b(class)\s+([A-Za-z_]\w*)\b`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeywordDeclaration, Group: 1},
				{Type: highlight.TokenTypeName, Group: 2},
			}},
			{Name: "keyword-decl", Pattern: highlight.KeywordPattern(kw.decl...), Type: highlight.TokenKeywordDeclaration},
			{Name: "keyword-ctrl", Pattern: highlight.KeywordPattern(kw.ctrl...), Type: highlight.TokenKeywordControl},
			{Name: "keyword-import", Pattern: highlight.KeywordPattern(kw.imp...), Type: highlight.TokenKeywordImport},
			{Name: "keyword", Pattern: highlight.KeywordPattern(kw.other...), Type: highlight.TokenKeyword},
			{Name: "constant", Pattern: highlight.KeywordPattern(kw.consts...), Type: highlight.TokenIdentifierSpecial},
			{Name: "builtin", Pattern: `(?<!\.)` + highlight.KeywordPattern(kw.builtins...), Type: highlight.TokenBuiltin},
			{Name: "special", Pattern: highlight.KeywordPattern(kw.special...), Type: highlight.TokenIdentifierSpecial},
			{Name: "number-radix", Pattern: `\b(?:0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+)\b`, Type: highlight.TokenNumber},
			{Name: "number-float", Pattern: `(?:\b[0-9][0-9_]*\.[0-9_]*|(?<!\w)\.[0-9][0-9_]*)(?:[eE][-+]?[0-9]+)?[jJ]?`, Type: highlight.TokenNumber},
			{Name: "number-int", Pattern: `\b[0-9][0-9_]*(?:[eE][-+]?[0-9]+)?[jJ]?\b(?!\.)`, Type: highlight.TokenNumber},
			{Name: "operator", Pattern: `:=|->|\*\*|//|[+\-*/%<>=!&|^~@.]`, Type: highlight.TokenOperator},
			{Name: "brace", Pattern: `[(){}\[\]]`, Type: highlight.TokenBrace},
			{Name: "punctuation", Pattern: `[:,;]`, Type: highlight.TokenPunctuation},
			{
				Name:        "string-single",
				Pattern:     `((?<!\w)[rRuUfFbB]{1,2})?'((?:[^'\\]|\\.)*)'`,
				Groups:      pythonStringGroups,
				Pass:        pythonStringPass,
				PassGroup:   2,
				PrefixGroup: 1,
			},
			{
				Name:        "string-double",
				Pattern:     `((?<!\w)[rRuUfFbB]{1,2})?"((?:[^"\\]|\\.)*)"`,
				Groups:      pythonStringGroups,
				Pass:        pythonStringPass,
				PassGroup:   2,
				PrefixGroup: 1,
			},
		},
		Constructs: []highlight.ConstructDef{
			{
				Key:            "docstring",
				Start:          `^[ \t]*("""|''')`,
				EndFunc:        closingQuote(1),
				State:          pythonDocstring,
				Delimiter:      highlight.TokenDocstring,
				DelimiterGroup: 1,
				Content:        highlight.TokenDocstring,
				Priority:       20,
			},
			{
				Key:         "string3",
				Start:       `((?<!\w)[rRuUfFbB]{1,2})?("""|''')`,
				EndFunc:     closingQuote(2),
				State:       pythonTripleString,
				Delimiter:   highlight.TokenStringSpecial,
				Content:     highlight.TokenString,
				Priority:    5,
				PrefixGroup: 1,
				Pass:        pythonStringPass,
			},
		},
	}
}

var pythonStringGroups = []highlight.GroupFormat{
	{Type: highlight.TokenStringSpecial, Group: 1},
	{Type: highlight.TokenString, Group: 0},
}
