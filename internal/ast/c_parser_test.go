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

const testCSimple = `struct Point {
    int x;
    int y;
};

union Value {
    int i;
    float f;
};

// add returns the sum of a and b.
int add(int a, int b) {
    return a + b;
}
`

func TestCParser_Parse_Symbols(t *testing.T) {
	p := NewCParser()
	result, err := p.Parse(context.Background(), []byte(testCSimple), "point.c")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	var haveStruct, haveUnion, haveFunc bool
	for _, s := range result.Symbols {
		switch {
		case s.Name == "Point" && s.Type == model.SymbolClass && s.Signature == "struct":
			haveStruct = true
		case s.Name == "Value" && s.Type == model.SymbolClass && s.Signature == "union":
			haveUnion = true
		case s.Name == "add" && s.Type == model.SymbolFunction:
			haveFunc = true
			if s.IsExported {
				t.Error("expected C symbols to never be marked exported")
			}
		}
	}

	if !haveStruct || !haveUnion || !haveFunc {
		t.Fatalf("missing expected symbols: struct=%v union=%v func=%v", haveStruct, haveUnion, haveFunc)
	}
}

func TestCParser_LanguageAndExtensions(t *testing.T) {
	p := NewCParser()
	if p.Language() != model.LanguageC {
		t.Errorf("expected LanguageC, got %v", p.Language())
	}
	exts := p.Extensions()
	if len(exts) != 2 || exts[0] != "c" || exts[1] != "h" {
		t.Errorf("expected [c h], got %v", exts)
	}
}
