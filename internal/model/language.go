// Package model defines the language-agnostic data types shared by every
// component of the indexing and call-graph engine: the Language and
// SymbolType enums, and the Symbol/Dependency/FileInfo value records that
// flow from the per-language parsers through the Code Index and into every
// query surface.
package model

import "strings"

// Language identifies the programming language (or markup format) a source
// file is written in, as derived from its file extension.
type Language int

const (
	LanguageUnknown Language = iota
	LanguagePython
	LanguageJavaScript
	LanguageTypeScript
	LanguageRust
	LanguageJava
	LanguageGo
	LanguageC
	LanguageMarkdown
)

var languageNames = map[Language]string{
	LanguageUnknown:    "unknown",
	LanguagePython:     "python",
	LanguageJavaScript: "javascript",
	LanguageTypeScript: "typescript",
	LanguageRust:       "rust",
	LanguageJava:       "java",
	LanguageGo:         "go",
	LanguageC:          "c",
	LanguageMarkdown:   "markdown",
}

// String returns the lowercase name of the language, e.g. "python".
func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "unknown"
}

// extensionLanguage maps a bare, lowercase file extension (no leading dot)
// to the language that owns it.
var extensionLanguage = map[string]Language{
	"py":   LanguagePython,
	"js":   LanguageJavaScript,
	"jsx":  LanguageJavaScript,
	"ts":   LanguageTypeScript,
	"tsx":  LanguageTypeScript,
	"rs":   LanguageRust,
	"java": LanguageJava,
	"go":   LanguageGo,
	"c":    LanguageC,
	"h":    LanguageC,
	"md":   LanguageMarkdown,
}

// LanguageFromExtension maps a file extension (with or without a leading
// dot) to its Language. Unrecognized extensions return LanguageUnknown,
// which is never parsed by the indexer.
func LanguageFromExtension(ext string) Language {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if lang, ok := extensionLanguage[ext]; ok {
		return lang
	}
	return LanguageUnknown
}

// SupportedExtensions returns every extension (without a dot) recognized by
// LanguageFromExtension, in no particular order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionLanguage))
	for ext := range extensionLanguage {
		exts = append(exts, ext)
	}
	return exts
}
