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
	"sync"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// Parser is implemented once per supported language. Parse must never panic
// or fail on arbitrary input text: on a partial grammar parse it returns
// whatever symbols were recognized, with ParseResult.Errors populated. It
// returns a non-nil error only for unrecoverable failures (invalid UTF-8,
// canceled context, grammar init failure).
type Parser interface {
	Parse(ctx context.Context, source []byte, filePath string) (*ParseResult, error)
	Language() model.Language
	Extensions() []string
}

// ParserRegistry is the single point of dispatch from a model.Language or
// file extension to the Parser implementation that handles it. No other
// component should import a specific language parser directly.
type ParserRegistry struct {
	mu          sync.RWMutex
	byLanguage  map[model.Language]Parser
	byExtension map[string]Parser
}

// NewParserRegistry returns an empty registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		byLanguage:  make(map[model.Language]Parser),
		byExtension: make(map[string]Parser),
	}
}

// Register adds parser under its Language() and every one of its
// Extensions(). A nil parser is a no-op.
func (r *ParserRegistry) Register(parser Parser) {
	if parser == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[parser.Language()] = parser
	for _, ext := range parser.Extensions() {
		r.byExtension[ext] = parser
	}
}

// GetByLanguage returns the parser registered for language, if any.
func (r *ParserRegistry) GetByLanguage(language model.Language) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byLanguage[language]
	return p, ok
}

// GetByExtension returns the parser registered for ext (without a leading
// dot, e.g. "go"), if any.
func (r *ParserRegistry) GetByExtension(ext string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byExtension[ext]
	return p, ok
}

// Languages returns every registered language, in no particular order.
func (r *ParserRegistry) Languages() []model.Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]model.Language, 0, len(r.byLanguage))
	for l := range r.byLanguage {
		langs = append(langs, l)
	}
	return langs
}

// Extensions returns every registered extension, in no particular order.
func (r *ParserRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExtension))
	for e := range r.byExtension {
		exts = append(exts, e)
	}
	return exts
}

// NewDefaultRegistry registers every built-in language parser.
func NewDefaultRegistry() *ParserRegistry {
	r := NewParserRegistry()
	r.Register(NewPythonParser())
	r.Register(NewJavaScriptParser())
	r.Register(NewTypeScriptParser())
	r.Register(NewRustParser())
	r.Register(NewGoParser())
	r.Register(NewJavaParser())
	r.Register(NewCParser())
	r.Register(NewMarkdownParser())
	return r
}
