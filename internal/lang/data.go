package lang

import (
	"github.com/dshills/hilite/internal/renderer/highlight"
)

const jsonString = `"(?:[^"\\]|\\.)*"`

// JSON returns the JSON definition. JSON has no multi-line constructs.
func JSON() highlight.LanguageDef {
	return highlight.LanguageDef{
		Name:       "json",
		Aliases:    []string{"jsonc", "json5"},
		Extensions: []string{".json", ".jsonc", ".geojson", ".webmanifest"},
		Rules: []highlight.RuleDef{
			{Name: "key", Pattern: `(` + jsonString + `)\s*(?=:)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKey, Group: 1},
			}, Pass: cEscapes, PassGroup: 1},
			{Name: "string", Pattern: jsonString, Type: highlight.TokenString, Pass: cEscapes},
			{Name: "literal", Pattern: highlight.KeywordPattern("true", "false", "null"), Type: highlight.TokenIdentifierSpecial},
			{Name: "number", Pattern: `(?<![\w.])-?(?:0|[1-9]\d*)(?:\.\d+)?(?:[eE][+-]?\d+)?\b`, Type: highlight.TokenNumber},
			{Name: "brace", Pattern: `[{}\[\]]`, Type: highlight.TokenBrace},
			{Name: "punctuation", Pattern: `[:,]`, Type: highlight.TokenPunctuation},
		},
	}
}

// XML construct states.
const (
	xmlComment highlight.LexerState = iota + 1
	xmlCDATA
)

// XML returns the XML definition. CDATA content is left unstyled.
func XML() highlight.LanguageDef {
	return highlight.LanguageDef{
		Name:       "xml",
		Aliases:    []string{"svg", "xsd", "xsl"},
		Extensions: []string{".xml", ".svg", ".xsd", ".xsl", ".xslt", ".plist", ".csproj", ".rss", ".atom"},
		Rules: []highlight.RuleDef{
			{Name: "entity", Pattern: entityPattern, Type: highlight.TokenEntity},
			{Name: "doctype", Pattern: `<!DOCTYPE[^>]*>`, Flags: highlight.IgnoreCase, Type: highlight.TokenComment},
			{Name: "pi-open", Pattern: `<\?`, Type: highlight.TokenTag},
			{Name: "pi-close", Pattern: `\?>`, Type: highlight.TokenTag},
			{Name: "pi-target", Pattern: `(?<=<\?)\s*([\w:.\-]+)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenKeywordImport, Group: 1},
			}},
			{Name: "end-tag-open", Pattern: `</`, Type: highlight.TokenTag},
			{Name: "tag-close", Pattern: `/?>`, Type: highlight.TokenTag},
			{Name: "tag-name", Pattern: `(</?)\s*([\w:.\-]+)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenTag, Group: 1},
				{Type: highlight.TokenTag, Group: 2},
			}},
			{Name: "value-double", Pattern: `"[^"]*"`, Type: highlight.TokenAttributeValue},
			{Name: "value-single", Pattern: `'[^']*'`, Type: highlight.TokenAttributeValue},
			{Name: "attribute", Pattern: `\b([\w:.\-]+)\s*(?==)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenAttributeName, Group: 1},
			}},
			{Name: "equals", Pattern: `=`, Type: highlight.TokenOperator},
			{Name: "tag-open", Pattern: `<`, Type: highlight.TokenTag},
		},
		Constructs: []highlight.ConstructDef{
			{
				Key:       "comment",
				Start:     `<!--`,
				End:       `-->`,
				State:     xmlComment,
				Delimiter: highlight.TokenComment,
				Content:   highlight.TokenComment,
				Priority:  15,
			},
			{
				Key:       "cdata",
				Start:     `<!\[CDATA\[`,
				End:       `\]\]>`,
				State:     xmlCDATA,
				Delimiter: highlight.TokenStringSpecial,
				Priority:  20,
			},
		},
	}
}
