package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageFromExtension(t *testing.T) {
	cases := map[string]Language{
		"py":   LanguagePython,
		".py":  LanguagePython,
		"PY":   LanguagePython,
		"jsx":  LanguageJavaScript,
		"tsx":  LanguageTypeScript,
		"rs":   LanguageRust,
		"java": LanguageJava,
		"go":   LanguageGo,
		"h":    LanguageC,
		"md":   LanguageMarkdown,
		"rb":   LanguageUnknown,
		"":     LanguageUnknown,
	}
	for ext, want := range cases {
		assert.Equal(t, want, LanguageFromExtension(ext), "extension %q", ext)
	}
}

func TestLanguageString(t *testing.T) {
	assert.Equal(t, "python", LanguagePython.String())
	assert.Equal(t, "unknown", Language(999).String())
}

func TestSymbolTypeShortCode(t *testing.T) {
	assert.Equal(t, "f", SymbolFunction.ShortCode())
	assert.Equal(t, "cb", SymbolCodeBlock.ShortCode())
	assert.Equal(t, "t", SymbolTypeAlias.ShortCode())
}

func TestParseSymbolType(t *testing.T) {
	got, ok := ParseSymbolType("interface")
	assert.True(t, ok)
	assert.Equal(t, SymbolInterface, got)

	_, ok = ParseSymbolType("bogus")
	assert.False(t, ok)
}

func TestSymbolLocation(t *testing.T) {
	s := Symbol{FilePath: "pkg/foo.go", LineStart: 42}
	assert.Equal(t, "pkg/foo.go:42", s.Location())
}
