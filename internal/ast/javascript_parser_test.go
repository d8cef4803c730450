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

const testJSSimple = `import { readFile } from "fs";

export class Widget {
  render() {
    return "widget";
  }
}

export function build(name) {
  return new Widget(name);
}

const helper = () => {
  return 1;
};

function internalOnly() {
  return 0;
}
`

func TestJavaScriptParser_Parse_Symbols(t *testing.T) {
	p := NewJavaScriptParser()
	result, err := p.Parse(context.Background(), []byte(testJSSimple), "widget.js")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	var haveClass, haveMethod, haveExportedFunc, haveArrow, haveInternal bool
	for _, s := range result.Symbols {
		switch {
		case s.Name == "Widget" && s.Type == model.SymbolClass:
			haveClass = true
			if !s.IsExported {
				t.Error("expected Widget to be exported")
			}
		case s.Name == "render" && s.Type == model.SymbolMethod:
			haveMethod = true
		case s.Name == "build" && s.Type == model.SymbolFunction:
			haveExportedFunc = true
			if !s.IsExported {
				t.Error("expected build to be exported")
			}
		case s.Name == "helper" && s.Type == model.SymbolFunction:
			haveArrow = true
		case s.Name == "internalOnly":
			haveInternal = true
		}
	}

	if !haveClass || !haveMethod || !haveExportedFunc || !haveArrow || !haveInternal {
		t.Fatalf("missing expected symbols: class=%v method=%v func=%v arrow=%v internal=%v",
			haveClass, haveMethod, haveExportedFunc, haveArrow, haveInternal)
	}
}

func TestJavaScriptParser_Parse_Imports(t *testing.T) {
	p := NewJavaScriptParser()
	result, err := p.Parse(context.Background(), []byte(testJSSimple), "widget.js")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(result.Dependencies) == 0 {
		t.Fatal("expected at least one dependency")
	}
	if result.Dependencies[0].ImportName != "fs" {
		t.Errorf("expected import from fs, got %q", result.Dependencies[0].ImportName)
	}
}

func TestJavaScriptParser_LanguageAndExtensions(t *testing.T) {
	p := NewJavaScriptParser()
	if p.Language() != model.LanguageJavaScript {
		t.Errorf("expected LanguageJavaScript, got %v", p.Language())
	}
	exts := p.Extensions()
	if len(exts) != 2 || exts[0] != "js" || exts[1] != "jsx" {
		t.Errorf("expected [js jsx], got %v", exts)
	}
}
