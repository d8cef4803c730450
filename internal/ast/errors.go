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

import "errors"

// Sentinel errors for parse failure conditions, checkable with errors.Is.
var (
	// ErrUnsupportedLanguage indicates no parser is registered for the
	// requested language or file extension.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidContent indicates the provided bytes are not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")

	// ErrGrammarInit indicates the underlying tree-sitter grammar failed to
	// initialize; this is an internal error, not a malformed-input error.
	ErrGrammarInit = errors.New("grammar initialization failed")
)
