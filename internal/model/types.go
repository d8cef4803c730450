package model

import "fmt"

// Symbol is a single named declaration discovered by a per-language parser:
// a function, class, method, enum, constant, interface, type alias, or (for
// Markdown) a heading or fenced code block.
//
// Line numbers are 1-indexed and inclusive on both ends. ParentID, when
// non-nil, indexes into the symbols slice the parser is currently building
// (or, once aggregated, into CodeIndex's flat symbol vector) and points at
// the nearest enclosing class/impl-equivalent symbol.
type Symbol struct {
	Name       string
	Type       SymbolType
	Signature  string
	Docstring  string
	LineStart  int
	LineEnd    int
	ParentID   *int
	FilePath   string
	IsExported bool
}

// Location renders the symbol's file:line position for logs and CLI output.
func (s Symbol) Location() string {
	return fmt.Sprintf("%s:%d", s.FilePath, s.LineStart)
}

// Dependency is a single import/use/require discovered in a file. FromFile
// is populated only for Python's `from X import Y` form, where it carries
// the bound module name X; it is empty for every other import shape.
type Dependency struct {
	ImportName string
	FromFile   string
}

// FileInfo is the parsed representation of a single source file: its
// language, content hash, and the symbols/dependencies the parser extracted
// from it.
type FileInfo struct {
	Path         string
	Language     Language
	Size         int64
	Hash         string
	Symbols      []Symbol
	Dependencies []Dependency
}

// NewFileInfo constructs an empty FileInfo ready to receive symbols and
// dependencies from a parser.
func NewFileInfo(path string, language Language, size int64, hash string) FileInfo {
	return FileInfo{
		Path:     path,
		Language: language,
		Size:     size,
		Hash:     hash,
	}
}
