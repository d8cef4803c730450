// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// TypeScriptParser extracts everything JavaScriptParser does, plus
// interfaces, type aliases, and enums. Files ending in .tsx are parsed with
// the TSX grammar so JSX syntax doesn't trip the walk.
type TypeScriptParser struct {
	opts ParseOptions
}

// NewTypeScriptParser returns a TypeScriptParser with the default options.
func NewTypeScriptParser() *TypeScriptParser {
	return &TypeScriptParser{opts: DefaultParseOptions()}
}

func (p *TypeScriptParser) Language() model.Language { return model.LanguageTypeScript }
func (p *TypeScriptParser) Extensions() []string      { return []string{"ts", "tsx"} }

func (p *TypeScriptParser) Parse(ctx context.Context, source []byte, filePath string) (*ParseResult, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".tsx") {
		return parseJS(ctx, source, filePath, jsGrammarTSX{}, p.opts)
	}
	return parseJS(ctx, source, filePath, jsGrammarTS{}, p.opts)
}

type jsGrammarTS struct{}

func (jsGrammarTS) lang() *sitter.Language { return typescript.GetLanguage() }
func (jsGrammarTS) isTypeScript() bool     { return true }

type jsGrammarTSX struct{}

func (jsGrammarTSX) lang() *sitter.Language { return tsx.GetLanguage() }
func (jsGrammarTSX) isTypeScript() bool     { return true }

var _ Parser = (*TypeScriptParser)(nil)
