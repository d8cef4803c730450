// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package typeanalysis

import (
	"fmt"
	"strings"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// primitiveTypes covers every language's built-in/well-known generic
// container names, skipped during base-type resolution.
var primitiveTypes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true, "bool": true, "char": true, "str": true, "String": true,
	"Vec": true, "Option": true, "Result": true, "Box": true, "Rc": true, "Arc": true,
	"HashMap": true, "HashSet": true, "BTreeMap": true, "BTreeSet": true,
	"int": true, "float": true, "list": true, "dict": true, "set": true, "tuple": true,
	"List": true, "Dict": true, "Set": true, "Tuple": true, "Optional": true,
	"Union": true, "Any": true,
	"string": true, "number": true, "boolean": true, "void": true, "undefined": true,
	"null": true, "Array": true, "object": true, "Object": true, "Promise": true, "Map": true,
	"error": true, "byte": true, "rune": true,
	"short": true, "long": true, "double": true,
	"Byte": true, "Short": true, "Integer": true, "Long": true, "Float": true,
	"Double": true, "Boolean": true, "Character": true,
	"unsigned": true, "signed": true,
}

func isPrimitiveType(typeName string) bool {
	return primitiveTypes[typeName]
}

// extractBaseTypes returns the main type name plus any non-primitive
// generic type arguments (e.g. "HashMap<String,User>" -> ["User"]).
func extractBaseTypes(typeName string) []string {
	var out []string

	main := typeName
	if idx := strings.Index(main, "<"); idx >= 0 {
		main = main[:idx]
	}
	main = strings.TrimSpace(main)
	main = strings.TrimPrefix(main, "&")
	main = strings.TrimPrefix(main, "mut ")
	main = strings.Trim(main, "*")
	main = strings.TrimSpace(main)

	if main != "" && !isPrimitiveType(main) {
		out = append(out, main)
	}

	start := strings.Index(typeName, "<")
	end := strings.LastIndex(typeName, ">")
	if start >= 0 && end > start {
		for _, part := range splitByCommaRespectingBrackets(typeName[start+1 : end]) {
			part = strings.TrimSpace(part)
			part = strings.TrimPrefix(part, "&")
			part = strings.TrimPrefix(part, "mut ")
			if part != "" && !isPrimitiveType(part) {
				out = append(out, part)
			}
		}
	}

	return out
}

// resolveType searches idx for a Class/Enum symbol matching one of ref's
// base types, exact match first, falling back to a case-insensitive fuzzy
// match. ref is updated in place.
func resolveType(idx *index.CodeIndex, ref *TypeRef) {
	for _, base := range extractBaseTypes(ref.TypeName) {
		if found, ok := firstContainerMatch(idx.QuerySymbol(base)); ok {
			ref.DefinedIn = found
			ref.Resolved = true
			return
		}

		for _, sym := range idx.FuzzySearch(base) {
			if !isContainerType(sym.Type) {
				continue
			}
			if strings.EqualFold(sym.Name, base) {
				ref.DefinedIn = fmt.Sprintf("%s:%d", sym.FilePath, sym.LineStart)
				ref.Resolved = true
				return
			}
		}
	}
}

func firstContainerMatch(symbols []model.Symbol) (string, bool) {
	for _, sym := range symbols {
		if isContainerType(sym.Type) {
			return fmt.Sprintf("%s:%d", sym.FilePath, sym.LineStart), true
		}
	}
	return "", false
}

func isContainerType(t model.SymbolType) bool {
	return t == model.SymbolClass || t == model.SymbolEnum
}
