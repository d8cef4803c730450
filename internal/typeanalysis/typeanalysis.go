// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package typeanalysis parses a symbol's recorded signature string into
// typed parameter and return-type info, then resolves each type's base name
// against the index to find where it's defined.
package typeanalysis

import (
	"path/filepath"
	"strings"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// Kind distinguishes what role a TypeRef plays in a symbol's signature.
type Kind int

const (
	KindParameter Kind = iota
	KindReturn
)

func (k Kind) String() string {
	if k == KindReturn {
		return "return"
	}
	return "param"
}

// TypeRef is a single parameter or return type extracted from a signature.
type TypeRef struct {
	Name      string
	Kind      Kind
	TypeName  string
	DefinedIn string
	Resolved  bool
}

// Info is the full type analysis of one symbol.
type Info struct {
	SymbolName string
	SymbolType model.SymbolType
	FilePath   string
	Line       int
	Signature  string
	Params     []TypeRef
	Return     *TypeRef
}

// Analyze resolves symbolName against idx (fuzzy or exact) and parses each
// matching symbol's signature into typed parameter/return info.
func Analyze(idx *index.CodeIndex, symbolName string, fuzzy bool) ([]Info, error) {
	var symbols []model.Symbol
	if fuzzy {
		symbols = idx.FuzzySearch(symbolName)
	} else {
		symbols = idx.QuerySymbol(symbolName)
	}

	var results []Info
	for _, sym := range symbols {
		lang := model.LanguageFromExtension(filepath.Ext(sym.FilePath))
		params, ret := parseSignature(sym.Signature, lang)

		for i := range params {
			resolveType(idx, &params[i])
		}
		if ret != nil {
			resolveType(idx, ret)
		}

		results = append(results, Info{
			SymbolName: sym.Name,
			SymbolType: sym.Type,
			FilePath:   sym.FilePath,
			Line:       sym.LineStart,
			Signature:  sym.Signature,
			Params:     params,
			Return:     ret,
		})
	}

	return results, nil
}

func parseSignature(signature string, lang model.Language) ([]TypeRef, *TypeRef) {
	switch lang {
	case model.LanguageRust:
		return parseRustSignature(signature)
	case model.LanguagePython:
		return parsePythonSignature(signature)
	case model.LanguageTypeScript, model.LanguageJavaScript:
		return parseTypeScriptSignature(signature)
	case model.LanguageGo:
		return parseGoSignature(signature)
	case model.LanguageJava:
		return parseJavaSignature(signature)
	case model.LanguageC:
		return parseCSignature(signature)
	default:
		return nil, nil
	}
}

// splitByCommaRespectingBrackets splits s on top-level commas, treating
// <>, (), [], {} as nesting that must balance before a comma counts.
func splitByCommaRespectingBrackets(s string) []string {
	var parts []string
	var current strings.Builder
	depth := 0

	for _, c := range s {
		switch c {
		case '<', '(', '[', '{':
			depth++
			current.WriteRune(c)
		case '>', ')', ']', '}':
			if depth > 0 {
				depth--
			}
			current.WriteRune(c)
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(current.String()))
				current.Reset()
				continue
			}
			current.WriteRune(c)
		default:
			current.WriteRune(c)
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}

func cleanTypeName(typeName string) string {
	t := strings.TrimSpace(typeName)
	t = strings.TrimPrefix(t, "&")
	t = strings.TrimPrefix(t, "mut ")
	return strings.TrimSpace(t)
}

// paramBetweenParens extracts the substring between the first matching
// `(` and `)` pair in signature.
func paramBetweenParens(signature string) string {
	start := strings.Index(signature, "(")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(signature); i++ {
		switch signature[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return signature[start+1 : i]
			}
		}
	}
	return ""
}
