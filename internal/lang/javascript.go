package lang

import (
	"github.com/dshills/hilite/internal/renderer/highlight"
)

// JavaScript construct states.
const (
	jsBlockComment highlight.LexerState = iota + 1
	jsDocComment
	jsTemplate
)

var jsKeywords = struct {
	decl, ctrl, imp, other, consts, special, builtins []string
}{
	decl:    []string{"class", "function", "const", "let", "var"},
	ctrl:    []string{"return", "yield", "continue", "break", "throw", "try", "catch", "finally", "debugger", "if", "else", "switch", "case", "default", "for", "do", "while"},
	imp:     []string{"import", "export", "from"},
	other:   []string{"await", "async", "delete", "in", "instanceof", "new", "super", "this", "typeof", "void", "with", "extends", "of"},
	consts:  []string{"true", "false", "null", "undefined", "NaN", "Infinity"},
	special: []string{"this", "arguments", "super"},
	builtins: []string{
		"Array", "Boolean", "Date", "Error", "Function", "JSON", "Math", "Number", "Object",
		"Promise", "Proxy", "Reflect", "RegExp", "String", "Symbol", "Set", "Map", "WeakSet", "WeakMap",
		"console", "document", "window", "globalThis", "navigator", "localStorage", "sessionStorage",
		"isNaN", "parseFloat", "parseInt", "isFinite",
		"decodeURI", "decodeURIComponent", "encodeURI", "encodeURIComponent", "escape", "unescape",
		"fetch", "setTimeout", "setInterval", "clearTimeout", "clearInterval", "queueMicrotask",
		"alert", "confirm", "prompt", "require", "module", "exports", "process", "Buffer",
	},
}

const jsIdent = `[A-Za-z_$][\w$]*`

// JavaScript returns the JavaScript definition.
func JavaScript() highlight.LanguageDef {
	kw := jsKeywords

	return highlight.LanguageDef{
		Name:       "javascript",
		Aliases:    []string{"js", "jsx", "node"},
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Rules: []highlight.RuleDef{
			{Name: "comment", Pattern: `//.*$`, Type: highlight.TokenComment},
			{
				// A slash after an operand is division, not a regex
				Name:    "regex",
				Pattern: `(?<![\w$)\]]\s*)(/(?![*/\s])(?:[^/\[\\\n\r]|\\.|\[(?:[^\]\\\n\r]|\\.)*\])+/[dgimsuy]{0,7})`,
				Groups:  []highlight.GroupFormat{{Type: highlight.TokenRegex, Group: 1}},
			},
			{Name: "class", Pattern: `\b(class)\s+(` + jsIdent + `)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeywordDeclaration, Group: 1},
				{Type: highlight.TokenTypeName, Group: 2},
			}},
			{Name: "function", Pattern: `\b(function)\s*\*?\s*(` + jsIdent + `)?\s*\(`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeywordDeclaration, Group: 1},
				{Type: highlight.TokenFunction, Group: 2},
			}},
			{Name: "accessor", Pattern: `\b(get|set)\s+(` + jsIdent + `)\s*(?=\()`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeyword, Group: 1},
				{Type: highlight.TokenFunction, Group: 2},
			}},
			{Name: "property-function", Pattern: `(` + jsIdent + `)\s*:\s*(?:async\s*)?function\b`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenAttributeName, Group: 1},
			}},
			{Name: "async-method", Pattern: `(?:^|\s)async\s*\*?\s*(` + jsIdent + `)\s*\((?=.*\)\s*\{)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenFunction, Group: 1},
			}},
			{Name: "keyword-decl", Pattern: highlight.KeywordPattern(kw.decl...), Type: highlight.TokenKeywordDeclaration},
			{Name: "keyword-ctrl", Pattern: highlight.KeywordPattern(kw.ctrl...), Type: highlight.TokenKeywordControl},
			{Name: "keyword-import", Pattern: highlight.KeywordPattern(kw.imp...), Type: highlight.TokenKeywordImport},
			{Name: "keyword", Pattern: highlight.KeywordPattern(kw.other...), Type: highlight.TokenKeyword},
			{Name: "constant", Pattern: highlight.KeywordPattern(kw.consts...), Type: highlight.TokenIdentifierSpecial},
			{Name: "builtin", Pattern: `(?<![\w$.])` + highlight.KeywordPattern(kw.builtins...), Type: highlight.TokenBuiltin},
			{Name: "special", Pattern: highlight.KeywordPattern(kw.special...), Type: highlight.TokenIdentifierSpecial},
			{Name: "number-radix", Pattern: `\b(?:0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+)n?\b`, Type: highlight.TokenNumber},
			{Name: "number", Pattern: `(?:\b[0-9](?:_?[0-9])*(?:\.(?:[0-9](?:_?[0-9])*)?)?|(?<![\w$])\.[0-9](?:_?[0-9])*)(?:[eE][-+]?[0-9]+)?n?\b`, Type: highlight.TokenNumber},
			{Name: "string-single", Pattern: `'((?:[^'\\\n]|\\.)*)'`, Type: highlight.TokenString, Pass: jsStringPass, PassGroup: 1},
			{Name: "string-double", Pattern: `"((?:[^"\\\n]|\\.)*)"`, Type: highlight.TokenString, Pass: jsStringPass, PassGroup: 1},
			{Name: "operator", Pattern: `--|\+\+|>>>=?|>>=?|<<=?|\?\?=?|\?\.|&&=?|\|\|=?|\*\*=?|=>|===?|!==?|[<>]=?|[-+*/%&|^~?.=!:]=?`, Type: highlight.TokenOperator},
			{Name: "brace", Pattern: `[\[\]{}]`, Type: highlight.TokenBrace},
			{Name: "punctuation", Pattern: `[(),;]`, Type: highlight.TokenPunctuation},
			{Name: "identifier", Pattern: `(?<![\w$])` + jsIdent, Type: highlight.TokenIdentifier},
		},
		Constructs: []highlight.ConstructDef{
			{
				// "/**/" is an empty plain comment, not a doc comment
				Key:       "comment",
				Start:     `/\*(?!\*(?!/))`,
				End:       `\*/`,
				State:     jsBlockComment,
				Delimiter: highlight.TokenComment,
				Content:   highlight.TokenComment,
				Priority:  15,
			},
			{
				Key:       "jsdoc",
				Start:     `/\*\*(?!/)`,
				End:       `\*/`,
				State:     jsDocComment,
				Delimiter: highlight.TokenComment,
				Content:   highlight.TokenComment,
				Priority:  20,
				Pass:      jsDocPass,
			},
			{
				Key:       "template",
				Start:     "`",
				End:       "(?<=(?:^|[^\\\\])(?:\\\\\\\\)*)`",
				State:     jsTemplate,
				Delimiter: highlight.TokenStringSpecial,
				Content:   highlight.TokenString,
				Priority:  10,
				Pass:      jsTemplatePass,
			},
		},
	}
}
