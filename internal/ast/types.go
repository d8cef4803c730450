// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ast provides the per-language parser contract and registry that
// turn source text into the shared model.Symbol / model.Dependency vocabulary.
package ast

import "github.com/p1rallels/codemapper-sub000/internal/model"

// ParseResult is the uniform output of every per-language parser.
type ParseResult struct {
	Symbols      []model.Symbol
	Dependencies []model.Dependency
	// Errors collects non-fatal issues encountered while parsing (e.g. a
	// grammar that reported a syntax error but still produced a tree).
	// Parse only returns a non-nil error for unrecoverable failures.
	Errors []string
}

// ParseOptions configures parser behavior. Parsers may ignore options they
// don't support.
type ParseOptions struct {
	// IncludePrivate controls whether non-exported symbols are emitted.
	IncludePrivate bool
}

// DefaultParseOptions returns the default parse options (include everything).
func DefaultParseOptions() ParseOptions {
	return ParseOptions{IncludePrivate: true}
}
