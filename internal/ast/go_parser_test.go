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

const testGoSimple = `package example

import (
	"context"
	"fmt"
)

// Greeter greets people.
type Greeter struct {
	prefix string
}

// Mood describes how a greeting should sound.
type Mood interface {
	Tone() string
}

// DefaultPrefix is used when none is configured.
const DefaultPrefix = "hello"

// Greet returns a greeting for name.
func Greet(name string) string {
	return fmt.Sprintf("%s, %s", DefaultPrefix, name)
}

// Tone returns g's configured tone.
func (g *Greeter) Tone(ctx context.Context) string {
	return g.prefix
}

func unexportedHelper() {}
`

func TestGoParser_Parse_Symbols(t *testing.T) {
	p := NewGoParser()
	result, err := p.Parse(context.Background(), []byte(testGoSimple), "example.go")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	var haveStruct, haveInterface, haveConst, haveFunc, haveMethod, haveUnexported bool
	for _, s := range result.Symbols {
		switch {
		case s.Name == "Greeter" && s.Type == model.SymbolClass:
			haveStruct = true
			if s.Docstring == "" {
				t.Error("expected Greeter to have a docstring")
			}
		case s.Name == "Mood" && s.Type == model.SymbolClass:
			haveInterface = true
		case s.Name == "DefaultPrefix" && s.Type == model.SymbolStaticField:
			haveConst = true
		case s.Name == "Greet" && s.Type == model.SymbolFunction:
			haveFunc = true
			if !s.IsExported {
				t.Error("expected Greet to be exported")
			}
		case s.Name == "Tone" && s.Type == model.SymbolMethod:
			haveMethod = true
		case s.Name == "unexportedHelper":
			haveUnexported = true
			if s.IsExported {
				t.Error("expected unexportedHelper to not be exported")
			}
		}
	}

	if !haveStruct || !haveInterface || !haveConst || !haveFunc || !haveMethod || !haveUnexported {
		t.Fatalf("missing expected symbols: struct=%v iface=%v const=%v func=%v method=%v unexported=%v",
			haveStruct, haveInterface, haveConst, haveFunc, haveMethod, haveUnexported)
	}
}

func TestGoParser_Parse_Imports(t *testing.T) {
	p := NewGoParser()
	result, err := p.Parse(context.Background(), []byte(testGoSimple), "example.go")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := map[string]bool{"context": false, "fmt": false}
	for _, d := range result.Dependencies {
		if _, ok := want[d.ImportName]; ok {
			want[d.ImportName] = true
		}
	}
	for imp, seen := range want {
		if !seen {
			t.Errorf("expected import %q to be recorded", imp)
		}
	}
}

func TestGoParser_Parse_EmptyFile(t *testing.T) {
	p := NewGoParser()
	result, err := p.Parse(context.Background(), []byte(""), "empty.go")
	if err != nil {
		t.Fatalf("Parse returned error on empty file: %v", err)
	}
	if len(result.Symbols) != 0 {
		t.Errorf("expected no symbols for empty file, got %d", len(result.Symbols))
	}
}

func TestGoParser_Parse_InvalidUTF8(t *testing.T) {
	p := NewGoParser()
	_, err := p.Parse(context.Background(), []byte{0xff, 0xfe, 0x00}, "bad.go")
	if err == nil {
		t.Fatal("expected an error for invalid UTF-8 input")
	}
}

func TestGoParser_Parse_ContextCanceled(t *testing.T) {
	p := NewGoParser()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Parse(ctx, []byte(testGoSimple), "example.go")
	if err == nil {
		t.Fatal("expected an error for a canceled context")
	}
}

func TestGoParser_LanguageAndExtensions(t *testing.T) {
	p := NewGoParser()
	if p.Language() != model.LanguageGo {
		t.Errorf("expected LanguageGo, got %v", p.Language())
	}
	exts := p.Extensions()
	if len(exts) != 1 || exts[0] != "go" {
		t.Errorf("expected [\"go\"], got %v", exts)
	}
}
