package lang

import (
	"github.com/dshills/hilite/internal/renderer/highlight"
)

// Go construct states.
const (
	goBlockComment highlight.LexerState = iota + 1
	goRawString
)

// Go returns the Go definition.
func Go() highlight.LanguageDef {
	return highlight.LanguageDef{
		Name:       "go",
		Aliases:    []string{"golang"},
		Extensions: []string{".go"},
		Rules: []highlight.RuleDef{
			{Name: "comment", Pattern: `//.*$`, Type: highlight.TokenComment},
			{Name: "func", Pattern: `\b(func)\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeywordDeclaration, Group: 1},
				{Type: highlight.TokenFunction, Group: 2},
			}},
			{Name: "type", Pattern: `\b(type)\s+([A-Za-z_]\w*)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeywordDeclaration, Group: 1},
				{Type: highlight.TokenTypeName, Group: 2},
			}},
			{Name: "string", Pattern: `"(?:[^"\\]|\\.)*"`, Type: highlight.TokenString, Pass: cEscapes},
			{Name: "rune", Pattern: `'(?:[^'\\]|\\[^']+)'`, Type: highlight.TokenString, Pass: cEscapes},
			{Name: "number-radix", Pattern: `\b(?:0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+)\b`, Type: highlight.TokenNumber},
			{Name: "number", Pattern: `\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?\d+)?i?\b`, Type: highlight.TokenNumber},
			{Name: "keyword-ctrl", Pattern: highlight.KeywordPattern(
				"if", "else", "for", "range", "switch", "case", "default",
				"break", "continue", "return", "goto", "fallthrough", "select"), Type: highlight.TokenKeywordControl},
			{Name: "keyword-decl", Pattern: highlight.KeywordPattern(
				"func", "var", "const", "type", "struct", "interface", "map", "chan"), Type: highlight.TokenKeywordDeclaration},
			{Name: "keyword-import", Pattern: highlight.KeywordPattern("package", "import"), Type: highlight.TokenKeywordImport},
			{Name: "keyword", Pattern: highlight.KeywordPattern("defer", "go"), Type: highlight.TokenKeyword},
			{Name: "constant", Pattern: highlight.KeywordPattern("true", "false", "nil", "iota"), Type: highlight.TokenIdentifierSpecial},
			{Name: "builtin-type", Pattern: highlight.KeywordPattern(
				"int", "int8", "int16", "int32", "int64",
				"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
				"float32", "float64", "complex64", "complex128",
				"bool", "byte", "rune", "string", "error", "any", "comparable"), Type: highlight.TokenTypeName},
			{Name: "builtin", Pattern: `(?<!\.)` + highlight.KeywordPattern(
				"make", "new", "len", "cap", "append", "copy", "delete",
				"close", "panic", "recover", "print", "println",
				"real", "imag", "complex", "min", "max", "clear"), Type: highlight.TokenBuiltin},
			{Name: "operator", Pattern: `:=|\.\.\.|<-|&\^=?|<<=?|>>=?|&&|\|\||\+\+|--|[-+*/%&|^<>=!]=?|[.~]`, Type: highlight.TokenOperator},
			{Name: "brace", Pattern: `[(){}\[\]]`, Type: highlight.TokenBrace},
			{Name: "punctuation", Pattern: `[,;:]`, Type: highlight.TokenPunctuation},
		},
		Constructs: []highlight.ConstructDef{
			{
				Key:       "comment",
				Start:     `/\*`,
				End:       `\*/`,
				State:     goBlockComment,
				Delimiter: highlight.TokenComment,
				Content:   highlight.TokenComment,
				Priority:  15,
			},
			{
				Key:       "raw-string",
				Start:     "`",
				End:       "`",
				State:     goRawString,
				Delimiter: highlight.TokenString,
				Content:   highlight.TokenString,
				Priority:  10,
			},
		},
	}
}

// Rust construct states.
const (
	rustBlockComment highlight.LexerState = iota + 1
	rustRawString
)

// rustRawEnd closes a raw string with a quote followed by as many hashes as
// opened it.
func rustRawEnd(groups []string) string {
	if len(groups) < 2 {
		return ""
	}
	return `"` + groups[1]
}

// Rust returns the Rust definition.
func Rust() highlight.LanguageDef {
	return highlight.LanguageDef{
		Name:       "rust",
		Aliases:    []string{"rs"},
		Extensions: []string{".rs"},
		Rules: []highlight.RuleDef{
			{Name: "comment", Pattern: `//.*$`, Type: highlight.TokenComment},
			{Name: "attribute", Pattern: `#!?\[[^\]]*\]`, Type: highlight.TokenDecorator},
			{Name: "fn", Pattern: `\b(fn)\s+([A-Za-z_]\w*)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeywordDeclaration, Group: 1},
				{Type: highlight.TokenFunction, Group: 2},
			}},
			{Name: "type-decl", Pattern: `\b(struct|enum|trait|type|union)\s+([A-Za-z_]\w*)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeywordDeclaration, Group: 1},
				{Type: highlight.TokenTypeName, Group: 2},
			}},
			{Name: "macro", Pattern: `\b[A-Za-z_]\w*!(?!=)`, Type: highlight.TokenFunction},
			{Name: "string", Pattern: `(?:\bb)?"(?:[^"\\]|\\.)*"`, Type: highlight.TokenString, Pass: cEscapes},
			{Name: "char", Pattern: `(?:\bb)?'(?:[^'\\]|\\(?:u\{[0-9a-fA-F]+\}|x[0-9a-fA-F]{2}|.))'`, Type: highlight.TokenString, Pass: cEscapes},
			{Name: "lifetime", Pattern: `'[A-Za-z_]\w*\b(?!')`, Type: highlight.TokenIdentifierSpecial},
			{Name: "number-radix", Pattern: `\b(?:0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+)(?:[iu](?:8|16|32|64|128|size))?\b`, Type: highlight.TokenNumber},
			{Name: "number", Pattern: `\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?[\d_]+)?(?:f32|f64|[iu](?:8|16|32|64|128|size))?\b`, Type: highlight.TokenNumber},
			{Name: "keyword-ctrl", Pattern: highlight.KeywordPattern(
				"if", "else", "match", "for", "while", "loop", "break", "continue",
				"return", "yield", "in"), Type: highlight.TokenKeywordControl},
			{Name: "keyword-decl", Pattern: highlight.KeywordPattern(
				"fn", "let", "mut", "const", "static", "struct", "enum", "trait",
				"impl", "type", "mod", "macro_rules", "union"), Type: highlight.TokenKeywordDeclaration},
			{Name: "keyword-import", Pattern: highlight.KeywordPattern("use", "crate", "extern"), Type: highlight.TokenKeywordImport},
			{Name: "keyword", Pattern: highlight.KeywordPattern(
				"pub", "where", "as", "async", "await", "dyn", "move", "ref", "unsafe", "super"), Type: highlight.TokenKeyword},
			{Name: "special", Pattern: highlight.KeywordPattern("self", "Self"), Type: highlight.TokenIdentifierSpecial},
			{Name: "constant", Pattern: highlight.KeywordPattern("true", "false", "None", "Some", "Ok", "Err"), Type: highlight.TokenIdentifierSpecial},
			{Name: "builtin-type", Pattern: highlight.KeywordPattern(
				"i8", "i16", "i32", "i64", "i128", "isize",
				"u8", "u16", "u32", "u64", "u128", "usize",
				"f32", "f64", "bool", "char", "str", "String",
				"Vec", "Box", "Option", "Result", "Rc", "Arc", "HashMap", "HashSet"), Type: highlight.TokenTypeName},
			{Name: "operator", Pattern: `::|->|=>|\.\.=?|&&|\|\||<<=?|>>=?|[-+*/%&|^<>=!]=?|[?.~@]`, Type: highlight.TokenOperator},
			{Name: "brace", Pattern: `[(){}\[\]]`, Type: highlight.TokenBrace},
			{Name: "punctuation", Pattern: `[,;:]`, Type: highlight.TokenPunctuation},
		},
		Constructs: []highlight.ConstructDef{
			{
				Key:       "comment",
				Start:     `/\*`,
				End:       `\*/`,
				State:     rustBlockComment,
				Delimiter: highlight.TokenComment,
				Content:   highlight.TokenComment,
				Priority:  15,
			},
			{
				Key:       "raw-string",
				Start:     `\b[bc]?r(#*)"`,
				EndFunc:   rustRawEnd,
				State:     rustRawString,
				Delimiter: highlight.TokenStringSpecial,
				Content:   highlight.TokenString,
				Priority:  10,
			},
		},
	}
}

// TypeScript returns the TypeScript definition, layered on JavaScript.
func TypeScript() highlight.LanguageDef {
	def := JavaScript()
	def.Name = "typescript"
	def.Aliases = []string{"ts", "tsx"}
	def.Extensions = []string{".ts", ".tsx", ".mts", ".cts"}

	extra := []highlight.RuleDef{
		{Name: "type-decl", Pattern: `\b(interface|type|enum|namespace)\s+([A-Za-z_$][\w$]*)`, Groups: []highlight.GroupFormat{
			{Type: highlight.TokenKeywordDeclaration, Group: 1},
			{Type: highlight.TokenTypeName, Group: 2},
		}},
		{Name: "modifier", Pattern: highlight.KeywordPattern(
			"public", "private", "protected", "readonly", "abstract", "override",
			"static", "declare", "implements", "keyof", "satisfies", "is", "as", "infer"), Type: highlight.TokenKeyword},
		{Name: "builtin-type", Pattern: highlight.KeywordPattern(
			"string", "number", "boolean", "bigint", "symbol", "object",
			"any", "unknown", "never", "void"), Type: highlight.TokenTypeName},
		{Name: "decorator", Pattern: `@([A-Za-z_$][\w$.]*)`, Groups: []highlight.GroupFormat{
			{Type: highlight.TokenDecorator, Group: 1},
		}},
	}
	def.Rules = append(extra, def.Rules...)
	return def
}

// Markdown construct states. Each fenced language needs its own state so the
// embedded language survives across lines.
const (
	mdFence highlight.LexerState = iota + 1
	mdComment
	mdFenceLanguages
)

// fencedLanguages lists the info strings that hand fenced blocks to a
// registered language.
var fencedLanguages = []struct {
	lang  string
	names []string
}{
	{"go", []string{"go", "golang"}},
	{"python", []string{"python", "py", "python3"}},
	{"javascript", []string{"javascript", "js", "jsx", "node"}},
	{"typescript", []string{"typescript", "ts", "tsx"}},
	{"rust", []string{"rust", "rs"}},
	{"bash", []string{"bash", "sh", "shell", "zsh", "console"}},
	{"powershell", []string{"powershell", "ps1", "pwsh"}},
	{"batch", []string{"batch", "bat", "cmd"}},
	{"html", []string{"html", "htm"}},
	{"css", []string{"css"}},
	{"json", []string{"json", "jsonc"}},
	{"xml", []string{"xml", "svg"}},
}

// Markdown returns the Markdown definition.
func Markdown() highlight.LanguageDef {
	const fenceEnd = "^\\s*```\\s*$"

	constructs := []highlight.ConstructDef{
		{
			Key:       "fence",
			Start:     "^\\s*```.*$",
			End:       fenceEnd,
			State:     mdFence,
			Delimiter: highlight.TokenMarkupCode,
			Content:   highlight.TokenMarkupCode,
			Priority:  5,
		},
		{
			Key:       "comment",
			Start:     `<!--`,
			End:       `-->`,
			State:     mdComment,
			Delimiter: highlight.TokenComment,
			Content:   highlight.TokenComment,
			Priority:  5,
		},
	}
	for i, f := range fencedLanguages {
		constructs = append(constructs, highlight.ConstructDef{
			Key:       "fence-" + f.lang,
			Start:     "^\\s*```\\s*" + alternation(f.names) + `\b.*$`,
			End:       fenceEnd,
			Flags:     highlight.IgnoreCase,
			State:     mdFenceLanguages + highlight.LexerState(i),
			Delimiter: highlight.TokenMarkupCode,
			Embed:     f.lang,
			Priority:  10,
		})
	}

	return highlight.LanguageDef{
		Name:       "markdown",
		Aliases:    []string{"md"},
		Extensions: []string{".md", ".markdown", ".mdown", ".mkd"},
		Rules: []highlight.RuleDef{
			{Name: "heading", Pattern: `^#{1,6}\s+.*$`, Type: highlight.TokenMarkupHeading},
			{Name: "setext", Pattern: `^(?:=+|-{2,})\s*$`, Type: highlight.TokenMarkupHeading},
			{Name: "bold-star", Pattern: `\*\*[^*]+\*\*`, Type: highlight.TokenMarkupBold},
			{Name: "bold-under", Pattern: `(?<!\w)__[^_]+__(?!\w)`, Type: highlight.TokenMarkupBold},
			{Name: "italic-star", Pattern: `(?<![*\w])\*[^*\s][^*]*\*(?!\*)`, Type: highlight.TokenMarkupItalic},
			{Name: "italic-under", Pattern: `(?<!\w)_[^_\s][^_]*_(?!\w)`, Type: highlight.TokenMarkupItalic},
			{Name: "code", Pattern: "`[^`]+`", Type: highlight.TokenMarkupCode},
			{Name: "quote", Pattern: `^\s*>.*$`, Type: highlight.TokenMarkupQuote},
			{Name: "list", Pattern: `^\s*(?:[-*+]|\d+[.)])\s+`, Type: highlight.TokenMarkupList},
			{Name: "link", Pattern: `!?\[([^\]]+)\]\(([^)]+)\)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenMarkupLink, Group: 0},
			}},
			{Name: "autolink", Pattern: `<(?:https?|mailto|ftp):[^>\s]+>`, Type: highlight.TokenMarkupLink},
			{Name: "rule", Pattern: `^\s*(?:\*\s*){3,}$`, Type: highlight.TokenPunctuation},
		},
		Constructs: constructs,
	}
}
