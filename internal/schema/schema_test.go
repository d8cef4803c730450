// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package schema

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestAnalyze_GoStruct(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "user.go", "package main\n\ntype User struct {\n\tName  string\n\tAge   int\n\tEmail *string\n}\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     path,
		Language: model.LanguageGo,
		Symbols: []model.Symbol{
			{Name: "User", Type: model.SymbolClass, FilePath: path, LineStart: 3, LineEnd: 7, Signature: "struct"},
		},
	})

	schemas, err := Analyze(context.Background(), idx, "User", false)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(schemas) != 1 {
		t.Fatalf("expected one schema, got %d", len(schemas))
	}
	fields := schemas[0].Fields
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d: %+v", len(fields), fields)
	}
	if fields[0].Name != "Name" || fields[0].TypeName != "string" || fields[0].IsOptional {
		t.Errorf("unexpected field 0: %+v", fields[0])
	}
	if !fields[2].IsOptional {
		t.Errorf("expected Email (*string) to be optional: %+v", fields[2])
	}
}

func TestAnalyze_RustInherentImpl(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "s.rs", "struct S {\n    v: i32,\n}\n\nimpl S {\n    pub fn new() -> Self {\n        Self { v: 0 }\n    }\n}\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     path,
		Language: model.LanguageRust,
		Symbols: []model.Symbol{
			{Name: "S", Type: model.SymbolClass, FilePath: path, LineStart: 1, LineEnd: 3, Signature: "struct"},
			{Name: "impl S", Type: model.SymbolClass, FilePath: path, LineStart: 5, LineEnd: 9},
		},
	})

	schemas, err := Analyze(context.Background(), idx, "S", false)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(schemas) != 1 {
		t.Fatalf("expected one schema for exact match on S, got %d", len(schemas))
	}
	if len(schemas[0].Fields) != 1 || schemas[0].Fields[0].Name != "v" || schemas[0].Fields[0].TypeName != "i32" {
		t.Fatalf("unexpected fields: %+v", schemas[0].Fields)
	}
}

func TestAnalyze_PythonDataclassFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "user.py", "class User:\n    name: str\n    age: int\n    email: Optional[str] = None\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     path,
		Language: model.LanguagePython,
		Symbols: []model.Symbol{
			{Name: "User", Type: model.SymbolClass, FilePath: path, LineStart: 1, LineEnd: 4},
		},
	})

	schemas, err := Analyze(context.Background(), idx, "User", false)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(schemas) != 1 || len(schemas[0].Fields) < 2 {
		t.Fatalf("expected at least two fields, got %+v", schemas)
	}

	var sawOptionalEmail bool
	for _, f := range schemas[0].Fields {
		if f.Name == "email" {
			sawOptionalEmail = f.IsOptional
		}
	}
	if !sawOptionalEmail {
		t.Error("expected email to be detected as optional")
	}
}

func TestAnalyze_SkipsNonContainerSymbols(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.go", "package main\n\nfunc A() {}\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     path,
		Language: model.LanguageGo,
		Symbols: []model.Symbol{
			{Name: "A", Type: model.SymbolFunction, FilePath: path, LineStart: 3, LineEnd: 3},
		},
	})

	schemas, err := Analyze(context.Background(), idx, "A", false)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(schemas) != 0 {
		t.Fatalf("expected no schemas for a function symbol, got %+v", schemas)
	}
}
