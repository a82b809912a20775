package lang

import (
	"github.com/dlclark/regexp2"

	"github.com/dshills/hilite/internal/renderer/highlight"
)

// Bash construct states.
const (
	bashHeredoc highlight.LexerState = iota + 1
)

var bashWords = struct {
	keywords, builtins, specials []string
}{
	keywords: []string{
		"if", "then", "else", "elif", "fi", "case", "esac", "for", "select",
		"while", "until", "do", "done", "in", "function", "time", "coproc",
		"return", "continue", "break", "shift", "declare", "local", "export",
		"readonly", "set", "unset", "trap", "let", "eval",
	},
	builtins: []string{
		"echo", "printf", "read", "cd", "pwd", "pushd", "popd", "dirs",
		"ls", "mkdir", "rmdir", "touch", "cp", "mv", "rm", "ln", "chmod",
		"chown", "chgrp", "find", "grep", "sed", "awk", "cut", "sort",
		"uniq", "wc", "head", "tail", "test", "cat", "tee", "basename",
		"dirname", "source", "exit", "exec", "command", "type", "which",
		"getopts", "wait", "jobs", "bg", "fg", "kill", "sleep", "history",
		"ulimit", "umask", "alias", "unalias", "help", "sudo", "su",
	},
	specials: []string{
		"IFS", "PATH", "HOME", "PWD", "OLDPWD", "SHELL", "BASH_VERSION", "PIPESTATUS",
		"HOSTNAME", "RANDOM", "LINENO", "SECONDS", "BASH_COMMAND",
	},
}

// heredocEnd builds the terminator pattern from the delimiter word. Only
// the <<- form may indent the terminator.
func heredocEnd(groups []string) string {
	if len(groups) < 4 || groups[3] == "" {
		return ""
	}
	indent := ""
	if groups[1] == "-" {
		indent = `[ \t]*`
	}
	return `^` + indent + regexp2.Escape(groups[3]) + `[ \t]*$`
}

// Bash returns the Bash definition. It also serves sh, zsh and ksh.
func Bash() highlight.LanguageDef {
	w := bashWords

	return highlight.LanguageDef{
		Name:       "bash",
		Aliases:    []string{"sh", "shell", "zsh", "ksh"},
		Extensions: []string{".sh", ".bash", ".zsh", ".ksh", ".bashrc", ".bash_profile", ".zshrc", ".profile"},
		Rules: []highlight.RuleDef{
			{Name: "comment", Pattern: `(?<!\S)#.*$`, Type: highlight.TokenComment},
			{Name: "function", Pattern: `\b([A-Za-z_][A-Za-z0-9_]*)\s*\(\s*\)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenFunction, Group: 1},
			}},
			{Name: "keyword", Pattern: highlight.KeywordPattern(w.keywords...), Type: highlight.TokenKeywordControl},
			{Name: "builtin", Pattern: `(?<![\w$-])` + highlight.KeywordPattern(w.builtins...) + `(?!-)`, Type: highlight.TokenBuiltin},
			{Name: "variable", Pattern: `\$(?:\w+|\{[^}]*\})`, Type: highlight.TokenIdentifierSpecial},
			{Name: "backtick", Pattern: "`[^`]*`", Type: highlight.TokenStringSpecial},
			{Name: "arithmetic", Pattern: `\$\(\([^)]*\)\)`, Type: highlight.TokenStringSpecial},
			{Name: "substitution", Pattern: `\$\([^)]*\)`, Type: highlight.TokenStringSpecial},
			{Name: "special", Pattern: `\$[?!$#@*_0-9-]|` + highlight.KeywordPattern(w.specials...), Type: highlight.TokenIdentifierSpecial},
			{Name: "number-hex", Pattern: `\b0[xX][0-9a-fA-F]+\b`, Type: highlight.TokenNumber},
			{Name: "number", Pattern: `\b[0-9]+\b`, Type: highlight.TokenNumber},
			{Name: "string-double", Pattern: `"(?:[^"\\]|\\.)*"`, Type: highlight.TokenString, Pass: bashExpansionPass},
			{Name: "string-single", Pattern: `'[^']*'`, Type: highlight.TokenString},
			{Name: "brace", Pattern: `[(){}\[\]]`, Type: highlight.TokenBrace},
			{Name: "redirect", Pattern: `[0-9]*[<>]+&?[0-9-]*`, Type: highlight.TokenOperator},
			{Name: "logical", Pattern: `&&|\|\||;+|\|+`, Type: highlight.TokenOperator},
			{Name: "operator", Pattern: `[=+\-*/%!&^~]`, Type: highlight.TokenOperator},
		},
		Constructs: []highlight.ConstructDef{
			{
				Key:         "heredoc",
				Start:       `(?<!<)<<(-?)(?!<)\s*(["']?)(\w+)\2`,
				EndFunc:     heredocEnd,
				State:       bashHeredoc,
				Delimiter:   highlight.TokenStringSpecial,
				Content:     highlight.TokenString,
				Priority:    10,
				PrefixGroup: 2,
				Pass:        unlessQuoted(bashExpansionPass),
			},
		},
	}
}

// PowerShell construct states.
const (
	psBlockComment highlight.LexerState = iota + 1
	psHereDouble
	psHereSingle
)

var psWords = struct {
	keywords, operators, cmdlets, automatic []string
}{
	keywords: []string{
		"begin", "break", "catch", "class", "continue", "data", "define", "do", "dynamicparam",
		"else", "elseif", "end", "enum", "exit", "filter", "finally", "for", "foreach", "from",
		"function", "hidden", "if", "in", "param", "process", "return", "switch", "throw",
		"trap", "try", "until", "using", "var", "while", "workflow",
	},
	operators: []string{
		"and", "as", "band", "bnot", "bor", "bxor", "casesensitive", "ccontains",
		"ceq", "cge", "cgt", "cle", "clike", "clt", "cmatch", "cne", "cnotcontains",
		"cnotlike", "cnotmatch", "contains", "creplace", "csplit", "eq", "exactlylike",
		"ge", "gt", "icontains", "ieq", "ige", "igt", "ile", "ilike", "ilt", "imatch",
		"in", "ine", "inotcontains", "inotlike", "inotmatch", "ireplace", "is", "isnot",
		"isplit", "join", "le", "like", "lt", "match", "ne", "not", "notcontains",
		"notin", "notlike", "notmatch", "or", "replace", "shl", "shr", "split",
		"wildcard", "xor",
	},
	cmdlets: []string{
		"Add-Content", "Clear-Content", "Clear-Item", "Clear-ItemProperty", "Copy-Item",
		"Copy-ItemProperty", "Get-ChildItem", "Get-Content", "Get-Item", "Get-ItemProperty",
		"Get-Location", "Move-Item", "Move-ItemProperty", "New-Item", "New-ItemProperty",
		"Remove-Item", "Remove-ItemProperty", "Rename-Item", "Rename-ItemProperty",
		"Set-Content", "Set-Item", "Set-ItemProperty", "Set-Location", "Test-Path",
		"Write-Output", "Write-Host", "Import-Module", "Export-Module", "New-Module",
		"Get-Module", "Select-Object", "Where-Object", "ForEach-Object",
		"ConvertTo-Json", "ConvertFrom-Json", "ConvertTo-Csv", "ConvertFrom-Csv",
		"Invoke-WebRequest", "Invoke-RestMethod", "Invoke-Command", "Invoke-Expression",
		"Get-Process", "Start-Process", "Stop-Process",
	},
	automatic: []string{
		"args", "error", "false", "foreach", "home", "host", "input", "lastexitcode",
		"matches", "myinvocation", "nestedpromptlevel", "null", "pid", "profile", "psboundparameters",
		"pscmdlet", "pscommandpath", "psculture", "psdebugcontext", "pshome", "psitem",
		"psscriptroot", "pssenderinfo", "psuiculture", "psversiontable", "pwd", "sender",
		"shellid", "stacktrace", "this", "true",
	},
}

// PowerShell returns the PowerShell definition. Here-strings open with @" or
// @' at the end of a line and close with "@ or '@ at the start of one.
func PowerShell() highlight.LanguageDef {
	w := psWords

	return highlight.LanguageDef{
		Name:       "powershell",
		Aliases:    []string{"ps1", "pwsh", "posh"},
		Extensions: []string{".ps1", ".psm1", ".psd1"},
		Rules: []highlight.RuleDef{
			{Name: "comment", Pattern: `#.*$`, Type: highlight.TokenComment},
			{Name: "automatic", Pattern: `\$` + alternation(w.automatic) + `\b`, Flags: highlight.IgnoreCase, Type: highlight.TokenIdentifierSpecial},
			{Name: "variable", Pattern: `\$(?:[\w:]+|\{[^}]*\})`, Type: highlight.TokenIdentifierSpecial},
			{Name: "cmdlet-known", Pattern: `(?<![\w-])` + alternation(w.cmdlets) + `(?![\w-])`, Flags: highlight.IgnoreCase, Type: highlight.TokenFunction},
			{Name: "cmdlet", Pattern: `\b[A-Z][a-z]+-[A-Z][A-Za-z]+\b`, Type: highlight.TokenFunction},
			{Name: "operator-word", Pattern: `(?<![\w-])-` + alternation(w.operators) + `\b`, Flags: highlight.IgnoreCase, Type: highlight.TokenOperator},
			{Name: "parameter", Pattern: `(?<![\w-])-[A-Za-z_][\w-]*`, Type: highlight.TokenKeyword},
			{Name: "keyword", Pattern: highlight.KeywordPattern(w.keywords...), Flags: highlight.IgnoreCase, Type: highlight.TokenKeywordControl},
			{Name: "number", Pattern: `\b(?:0[xX][0-9a-fA-F]+|[0-9]+(?:\.[0-9]*)?(?:[eE][-+]?[0-9]+)?)(?:[kKmMgGtTpP][bB])?\b`, Type: highlight.TokenNumber},
			{Name: "string-double", Pattern: "\"(?:[^\"`]|`.|\"\")*\"", Type: highlight.TokenString, Pass: powershellExpansionPass},
			{Name: "string-single", Pattern: `'(?:[^']|'')*'`, Type: highlight.TokenString},
			{Name: "brace", Pattern: `[(){}\[\]]`, Type: highlight.TokenBrace},
			{Name: "punctuation", Pattern: `[;,.]`, Type: highlight.TokenPunctuation},
			{Name: "operator", Pattern: `\||[@%!&=+\-*/<>^?]`, Type: highlight.TokenOperator},
		},
		Constructs: []highlight.ConstructDef{
			{
				Key:       "comment",
				Start:     `<#`,
				End:       `#>`,
				State:     psBlockComment,
				Delimiter: highlight.TokenComment,
				Content:   highlight.TokenComment,
				Priority:  15,
			},
			{
				Key:       "here-double",
				Start:     `@"\s*$`,
				End:       `^"@`,
				State:     psHereDouble,
				Delimiter: highlight.TokenStringSpecial,
				Content:   highlight.TokenString,
				Priority:  10,
				Pass:      powershellExpansionPass,
			},
			{
				Key:       "here-single",
				Start:     `@'\s*$`,
				End:       `^'@`,
				State:     psHereSingle,
				Delimiter: highlight.TokenStringSpecial,
				Content:   highlight.TokenString,
				Priority:  10,
			},
		},
	}
}

var batchWords = struct {
	keywords, commands, operators []string
}{
	keywords: []string{
		"goto", "call", "if", "else", "for", "in", "do", "exit", "setlocal", "endlocal",
		"shift", "cd", "cls", "echo", "set", "pause", "title", "defined",
		"errorlevel", "exist", "choice", "enabledelayedexpansion", "enableextensions",
	},
	commands: []string{
		"attrib", "assoc", "break", "bcdedit", "cacls", "chcp", "chdir", "chkdsk", "chkntfs",
		"comp", "compact", "convert", "copy", "date", "del", "dir", "diskpart", "doskey",
		"driverquery", "erase", "fc", "find", "findstr", "format", "fsutil",
		"ftype", "gpresult", "icacls", "label", "md", "mkdir", "mklink", "mode", "more",
		"move", "net", "netsh", "path", "popd", "print", "prompt", "pushd", "rd", "recover",
		"rename", "ren", "replace", "rmdir", "robocopy", "sc", "schtasks", "setx", "shutdown",
		"sort", "start", "subst", "systeminfo", "tasklist", "taskkill", "time", "timeout",
		"tree", "type", "ver", "verify", "vol", "xcopy", "wmic",
	},
	operators: []string{"equ", "neq", "lss", "leq", "gtr", "geq", "not", "and", "or", "xor"},
}

// Batch returns the Windows batch file definition. Batch files are case
// insensitive and have no multi-line constructs.
func Batch() highlight.LanguageDef {
	w := batchWords

	return highlight.LanguageDef{
		Name:       "batch",
		Aliases:    []string{"bat", "cmd", "batchfile"},
		Extensions: []string{".bat", ".cmd"},
		Rules: []highlight.RuleDef{
			{Name: "comment", Pattern: `(?<![^\s&(@])(?:rem(?:\s.*)?$|::.*$)`, Flags: highlight.IgnoreCase, Type: highlight.TokenComment},
			{Name: "label", Pattern: `^\s*:(\w+)`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenFunction, Group: 1},
			}},
			{Name: "environment", Pattern: `%(?:windir|temp|tmp|errorlevel|cd|date|time|random|path|systemroot|userprofile|appdata)%`, Flags: highlight.IgnoreCase, Type: highlight.TokenIdentifierSpecial},
			{Name: "variable", Pattern: `%([^%\s]+)%`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenIdentifierSpecial, Group: 1},
			}},
			{Name: "delayed", Pattern: `!([^!\s]+)!`, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenIdentifierSpecial, Group: 1},
			}},
			{Name: "set", Pattern: `\bset\s+(?:/[aApP]\s+)?([^=\s]+)=`, Flags: highlight.IgnoreCase, Groups: []highlight.GroupFormat{
				{Type: highlight.TokenAttributeName, Group: 1},
			}},
			{Name: "for-variable", Pattern: `%%~?[A-Za-z]`, Type: highlight.TokenIdentifierSpecial},
			{Name: "argument", Pattern: `%~?[0-9*]`, Type: highlight.TokenIdentifierSpecial},
			{Name: "keyword", Pattern: highlight.KeywordPattern(w.keywords...), Flags: highlight.IgnoreCase, Type: highlight.TokenKeywordControl},
			{Name: "command", Pattern: highlight.KeywordPattern(w.commands...), Flags: highlight.IgnoreCase, Type: highlight.TokenBuiltin},
			{Name: "operator-word", Pattern: highlight.KeywordPattern(w.operators...), Flags: highlight.IgnoreCase, Type: highlight.TokenOperator},
			{Name: "redirect", Pattern: `[0-9]?[><]{1,2}&?[0-9]*`, Type: highlight.TokenOperator},
			{Name: "operator", Pattern: `\|\||&&|[|&@]|==`, Type: highlight.TokenOperator},
			{Name: "string", Pattern: `"[^"]*"`, Type: highlight.TokenString},
		},
	}
}
