package model

// SymbolType is the kind of declaration a Symbol represents. The set is
// intentionally small and language-agnostic: language-specific constructs
// (Rust impl blocks, Go structs, Python classes, ...) are all folded into
// the closest of these nine kinds.
type SymbolType int

const (
	SymbolFunction SymbolType = iota
	SymbolClass
	SymbolMethod
	SymbolEnum
	SymbolStaticField
	SymbolInterface
	SymbolTypeAlias
	SymbolHeading
	SymbolCodeBlock
)

var symbolTypeNames = map[SymbolType]string{
	SymbolFunction:    "function",
	SymbolClass:       "class",
	SymbolMethod:      "method",
	SymbolEnum:        "enum",
	SymbolStaticField: "static",
	SymbolInterface:   "interface",
	SymbolTypeAlias:   "type_alias",
	SymbolHeading:     "heading",
	SymbolCodeBlock:   "code_block",
}

// shortCodes is the compact letter vocabulary used by CLI output that needs
// a one- or two-character symbol kind tag.
var shortCodes = map[SymbolType]string{
	SymbolFunction:    "f",
	SymbolClass:       "c",
	SymbolMethod:      "m",
	SymbolEnum:        "e",
	SymbolStaticField: "s",
	SymbolInterface:   "i",
	SymbolTypeAlias:   "t",
	SymbolHeading:     "h",
	SymbolCodeBlock:   "cb",
}

// String returns the lowercase, snake_case name of the symbol type.
func (t SymbolType) String() string {
	if name, ok := symbolTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ShortCode returns the compact single-or-two-letter code used in terse CLI
// output (f/c/m/e/s/i/t/h/cb).
func (t SymbolType) ShortCode() string {
	if code, ok := shortCodes[t]; ok {
		return code
	}
	return "?"
}

// ParseSymbolType converts a lowercase name back to a SymbolType. Returns
// SymbolFunction and false when the name is not recognized.
func ParseSymbolType(name string) (SymbolType, bool) {
	for t, n := range symbolTypeNames {
		if n == name {
			return t, true
		}
	}
	return SymbolFunction, false
}
