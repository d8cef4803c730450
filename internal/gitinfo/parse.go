// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gitinfo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	astpkg "github.com/p1rallels/codemapper-sub000/internal/ast"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// ErrUnsupportedLanguage is returned when a file's extension does not map
// to any registered parser.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// parseSymbols parses content (a file's text at some point in its history,
// or on disk) into its declared symbols using the parser registered for
// lang.
func parseSymbols(ctx context.Context, registry *astpkg.ParserRegistry, lang model.Language, relPath string, content []byte) ([]model.Symbol, error) {
	if lang == model.LanguageUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, relPath)
	}
	parser, ok := registry.GetByLanguage(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, relPath)
	}
	result, err := parser.Parse(ctx, content, relPath)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", relPath, err)
	}
	return result.Symbols, nil
}

// findSymbol parses content and returns the symbol named symbolName, or nil
// if none matches.
func findSymbol(ctx context.Context, registry *astpkg.ParserRegistry, lang model.Language, relPath string, content []byte, symbolName string) (*model.Symbol, error) {
	symbols, err := parseSymbols(ctx, registry, lang, relPath, content)
	if err != nil {
		return nil, err
	}
	for i := range symbols {
		if symbols[i].Name == symbolName {
			return &symbols[i], nil
		}
	}
	return nil, nil
}

// symbolInWorkingTree reads relPath from disk (under root) and returns the
// symbol named symbolName as it currently stands.
func symbolInWorkingTree(ctx context.Context, root string, registry *astpkg.ParserRegistry, lang model.Language, relPath, symbolName string) (*model.Symbol, error) {
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	return findSymbol(ctx, registry, lang, relPath, content, symbolName)
}
