// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package schema extracts per-language field tuples from class/struct/
// interface/enum symbols: (name, type, default, optional). Each language
// except Python (which uses a line-by-line heuristic) runs its own
// tree-sitter pass rooted at the matched symbol rather than
// reusing the indexer's parse tree, mirroring the original schema
// analyzer's separate Parser instance per extraction call.
package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// FieldInfo is one extracted field of a class/struct/interface/enum.
type FieldInfo struct {
	Name         string
	TypeName     string
	DefaultValue string
	HasDefault   bool
	IsOptional   bool
	Docstring    string
}

// Info is the field-level schema of a single symbol.
type Info struct {
	SymbolName string
	SymbolType model.SymbolType
	FilePath   string
	Line       int
	Fields     []FieldInfo
	Language   model.Language
}

// Analyze resolves symbolName against idx (fuzzy or exact), keeps the
// class/interface/enum-shaped matches, and extracts fields for each by
// re-reading and re-parsing its source file.
func Analyze(ctx context.Context, idx *index.CodeIndex, symbolName string, fuzzy bool) ([]Info, error) {
	var symbols []model.Symbol
	if fuzzy {
		symbols = idx.FuzzySearch(symbolName)
	} else {
		symbols = idx.QuerySymbol(symbolName)
	}

	var schemas []Info
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isContainerType(sym.Type) {
			continue
		}

		content, err := os.ReadFile(sym.FilePath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", sym.FilePath, err)
		}

		lang := model.LanguageFromExtension(filepath.Ext(sym.FilePath))
		fields, err := extractFields(ctx, string(content), sym, lang)
		if err != nil {
			return nil, fmt.Errorf("extract fields for %s: %w", sym.Name, err)
		}

		schemas = append(schemas, Info{
			SymbolName: sym.Name,
			SymbolType: sym.Type,
			FilePath:   sym.FilePath,
			Line:       sym.LineStart,
			Fields:     fields,
			Language:   lang,
		})
	}

	return schemas, nil
}

func isContainerType(t model.SymbolType) bool {
	switch t {
	case model.SymbolClass, model.SymbolEnum, model.SymbolInterface:
		return true
	default:
		return false
	}
}

func extractFields(ctx context.Context, content string, symbol model.Symbol, lang model.Language) ([]FieldInfo, error) {
	switch lang {
	case model.LanguageRust:
		return extractRustFields(ctx, content, symbol)
	case model.LanguagePython:
		return extractPythonFields(content, symbol), nil
	case model.LanguageTypeScript, model.LanguageJavaScript:
		return extractTypeScriptFields(ctx, content, symbol)
	case model.LanguageJava:
		return extractJavaFields(ctx, content, symbol)
	case model.LanguageGo:
		return extractGoFields(ctx, content, symbol)
	default:
		return nil, nil
	}
}
