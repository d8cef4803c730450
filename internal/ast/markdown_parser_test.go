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
	"testing"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

const testMarkdownSimple = "# Title\n\nSome intro text.\n\n## Usage\n\n```go\nfunc main() {}\n```\n"

func TestMarkdownParser_Parse_Symbols(t *testing.T) {
	p := NewMarkdownParser()
	result, err := p.Parse(context.Background(), []byte(testMarkdownSimple), "README.md")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	var haveTitle, haveUsage, haveCodeBlock bool
	for _, s := range result.Symbols {
		switch {
		case s.Name == "Title" && s.Type == model.SymbolHeading:
			haveTitle = true
			if s.Signature != "# Title" {
				t.Errorf("expected signature '# Title', got %q", s.Signature)
			}
		case s.Name == "Usage" && s.Type == model.SymbolHeading:
			haveUsage = true
			if s.Signature != "## Usage" {
				t.Errorf("expected signature '## Usage', got %q", s.Signature)
			}
		case s.Name == "go_block" && s.Type == model.SymbolCodeBlock:
			haveCodeBlock = true
			if !s.IsExported {
				t.Error("expected code block to be marked exported")
			}
		}
	}

	if !haveTitle || !haveUsage || !haveCodeBlock {
		t.Fatalf("missing expected symbols: title=%v usage=%v codeBlock=%v", haveTitle, haveUsage, haveCodeBlock)
	}
}

func TestMarkdownParser_LanguageAndExtensions(t *testing.T) {
	p := NewMarkdownParser()
	if p.Language() != model.LanguageMarkdown {
		t.Errorf("expected LanguageMarkdown, got %v", p.Language())
	}
	if exts := p.Extensions(); len(exts) != 1 || exts[0] != "md" {
		t.Errorf("expected [md], got %v", exts)
	}
}
