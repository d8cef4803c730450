// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package query implements the two-stage accelerated symbol lookup used
// for large repositories: a cheap regex prefilter narrows the candidate
// file set before the (much more expensive) per-file AST parse runs only
// against files that actually contain the query text.
package query

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	astpkg "github.com/p1rallels/codemapper-sub000/internal/ast"
	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
	"github.com/p1rallels/codemapper-sub000/internal/walker"
)

// AutoEnableThreshold is the candidate-file count at or above which the
// fast pipeline should be preferred over a direct index lookup.
const AutoEnableThreshold = 1000

// AutoEnable reports whether the fast pipeline should be used for a
// repository with candidateCount matching files.
func AutoEnable(candidateCount int) bool {
	return candidateCount >= AutoEnableThreshold
}

// Filter runs the two-stage query: Prefilter narrows candidates with a
// regex text search; Validate parses only those candidates and filters
// their symbols against query.
type Filter struct {
	Pattern       string
	CaseSensitive bool
	Extensions    map[string]bool
}

// NewFilter returns a Filter for pattern over the given extensions
// (without leading dots). An empty extensions set matches every file.
func NewFilter(pattern string, caseSensitive bool, extensions []string) *Filter {
	set := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		set[e] = true
	}
	return &Filter{Pattern: pattern, CaseSensitive: caseSensitive, Extensions: set}
}

func (f *Filter) compile() (*regexp.Regexp, error) {
	pattern := regexp.QuoteMeta(f.Pattern)
	if !f.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile query regex: %w", err)
	}
	return re, nil
}

// Prefilter walks root and returns the relative paths of every matching
// file that contains f.Pattern, stopping at the first match per file.
// Binary files (detected by a NUL byte) are scanned only up to that byte.
func (f *Filter) Prefilter(root string) ([]string, error) {
	re, err := f.compile()
	if err != nil {
		return nil, err
	}

	entries, err := walker.Collect(root, f.Extensions)
	if err != nil {
		return nil, fmt.Errorf("walk project root: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		full := filepath.Join(root, filepath.FromSlash(e.Path))
		content, err := os.ReadFile(full)
		if err != nil {
			continue // unreadable files are skipped, not fatal
		}
		if matchesBeforeBinary(content, re) {
			candidates = append(candidates, e.Path)
		}
	}
	return candidates, nil
}

func matchesBeforeBinary(content []byte, re *regexp.Regexp) bool {
	if i := bytes.IndexByte(content, 0); i >= 0 {
		content = content[:i]
	}
	return re.Match(content)
}

// Validate parses each candidate path (relative to root) and returns every
// symbol whose name matches query. fuzzy selects case-insensitive
// substring matching; otherwise the match is exact.
func Validate(ctx context.Context, registry *astpkg.ParserRegistry, root string, candidates []string, query string, fuzzy bool) ([]model.Symbol, error) {
	var matched []model.Symbol
	for _, rel := range candidates {
		parser, ok := registry.GetByExtension(extOf(rel))
		if !ok {
			continue
		}

		full := filepath.Join(root, filepath.FromSlash(rel))
		content, err := os.ReadFile(full)
		if err != nil {
			continue
		}

		result, err := parser.Parse(ctx, content, rel)
		if err != nil {
			continue
		}

		for _, sym := range result.Symbols {
			if symbolMatches(sym.Name, query, fuzzy) {
				matched = append(matched, sym)
			}
		}
	}
	return matched, nil
}

func symbolMatches(name, query string, fuzzy bool) bool {
	if fuzzy {
		return strings.Contains(strings.ToLower(name), strings.ToLower(query))
	}
	return name == query
}

func extOf(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimPrefix(ext, ".")
}

// FastQuery runs the full two-stage pipeline: prefilter then validate. An
// empty prefilter result returns (nil, nil) without invoking stage two.
func (f *Filter) FastQuery(ctx context.Context, registry *astpkg.ParserRegistry, root, query string, fuzzy bool) ([]model.Symbol, error) {
	candidates, err := f.Prefilter(root)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return Validate(ctx, registry, root, candidates, query, fuzzy)
}

// FastQueryWithFallback runs f's two-stage pipeline for query and, if the
// prefilter found no candidates at all, falls back to a direct lookup
// against idx (the cache-resident index) instead of reporting no results.
func (f *Filter) FastQueryWithFallback(ctx context.Context, registry *astpkg.ParserRegistry, root string, idx *index.CodeIndex, query string, fuzzy bool) ([]model.Symbol, error) {
	candidates, err := f.Prefilter(root)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		if idx == nil {
			return nil, nil
		}
		if fuzzy {
			return idx.FuzzySearch(query), nil
		}
		return idx.QuerySymbol(query), nil
	}
	return Validate(ctx, registry, root, candidates, query, fuzzy)
}
