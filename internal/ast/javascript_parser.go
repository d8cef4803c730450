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

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// JavaScriptParser extracts classes, methods, function declarations, and
// named function/arrow expressions bound to a variable declarator, plus
// import sources. CommonJS and ESM export forms are both recognized.
type JavaScriptParser struct {
	opts ParseOptions
}

// NewJavaScriptParser returns a JavaScriptParser with the default options.
func NewJavaScriptParser() *JavaScriptParser {
	return &JavaScriptParser{opts: DefaultParseOptions()}
}

func (p *JavaScriptParser) Language() model.Language { return model.LanguageJavaScript }
func (p *JavaScriptParser) Extensions() []string      { return []string{"js", "jsx"} }

func (p *JavaScriptParser) Parse(ctx context.Context, source []byte, filePath string) (*ParseResult, error) {
	return parseJS(ctx, source, filePath, jsGrammarJS{}, p.opts)
}

type jsGrammarJS struct{}

func (jsGrammarJS) lang() *sitter.Language { return javascript.GetLanguage() }
func (jsGrammarJS) isTypeScript() bool     { return false }

var _ Parser = (*JavaScriptParser)(nil)
