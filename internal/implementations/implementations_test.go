// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package implementations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func TestFindRust_ImplFor(t *testing.T) {
	content := "\nimpl Display for MyType {\n    fn fmt(&self, f: &mut Formatter) -> Result {\n    }\n}\n"
	results := findRust(content, "Display", false, "display")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(results), results)
	}
	if results[0].ImplementorName != "MyType" || results[0].InterfaceName != "Display" {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestFindRust_FuzzySearch(t *testing.T) {
	content := "\nimpl Iterator for MyIterator {}\nimpl IntoIterator for MyCollection {}\n"
	results := findRust(content, "iter", true, "iter")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}
}

func TestFindPython_Inheritance(t *testing.T) {
	content := "\nclass MyService(BaseService):\n    pass\n"
	results := findPython(content, "BaseService", false, "baseservice")
	if len(results) != 1 || results[0].ImplementorName != "MyService" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestFindTypeScript_Implements(t *testing.T) {
	content := "\nclass UserRepository implements Repository {\n    async find(id: string) {}\n}\n"
	results := findTypeScript(content, "Repository", false, "repository")
	if len(results) != 1 || results[0].ImplementorName != "UserRepository" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestFindJava_Implements(t *testing.T) {
	content := "\npublic class ArrayList implements List, Serializable {\n}\n"
	results := findJava(content, "List", false, "list")
	if len(results) != 1 || results[0].ImplementorName != "ArrayList" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestFindJava_InterfaceExtends(t *testing.T) {
	content := "\npublic interface Ordered extends Comparable, Iterable {\n}\n"
	results := findJava(content, "Comparable", false, "comparable")
	if len(results) != 1 || results[0].ImplementorName != "Ordered" || results[0].InterfaceName != "Comparable" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestFindGo_MethodSetSuperset(t *testing.T) {
	dir := t.TempDir()
	ifacePath := filepath.Join(dir, "greeter.go")
	structPath := filepath.Join(dir, "user.go")

	ifaceSrc := "package main\n\ntype Greeter interface {\n\tGreet() string\n}\n"
	structSrc := "package main\n\ntype User struct {\n\tName string\n}\n\nfunc (u *User) Greet() string {\n\treturn u.Name\n}\n"

	if err := os.WriteFile(ifacePath, []byte(ifaceSrc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(structPath, []byte(structSrc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     ifacePath,
		Language: model.LanguageGo,
		Symbols: []model.Symbol{
			{Name: "Greeter", Type: model.SymbolClass, Signature: "interface", FilePath: ifacePath, LineStart: 3, LineEnd: 5},
		},
	})
	idx.AddFile(model.FileInfo{
		Path:     structPath,
		Language: model.LanguageGo,
		Symbols: []model.Symbol{
			{Name: "User", Type: model.SymbolClass, Signature: "struct", FilePath: structPath, LineStart: 3, LineEnd: 5},
			{Name: "Greet", Type: model.SymbolMethod, Signature: "func (u *User) Greet() string", FilePath: structPath, LineStart: 7, LineEnd: 9},
		},
	})

	results, err := Find(context.Background(), idx, "Greeter", false)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one implementation, got %d: %+v", len(results), results)
	}
	if results[0].ImplementorName != "User" || results[0].InterfaceName != "Greeter" || results[0].Kind != KindImplements {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestFindGo_MissingMethodNotSuperset(t *testing.T) {
	dir := t.TempDir()
	ifacePath := filepath.Join(dir, "greeter.go")
	structPath := filepath.Join(dir, "user.go")

	if err := os.WriteFile(ifacePath, []byte("package main\n\ntype Greeter interface {\n\tGreet() string\n\tFarewell() string\n}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(structPath, []byte("package main\n\ntype User struct {\n\tName string\n}\n\nfunc (u *User) Greet() string {\n\treturn u.Name\n}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     ifacePath,
		Language: model.LanguageGo,
		Symbols: []model.Symbol{
			{Name: "Greeter", Type: model.SymbolClass, Signature: "interface", FilePath: ifacePath, LineStart: 3, LineEnd: 6},
		},
	})
	idx.AddFile(model.FileInfo{
		Path:     structPath,
		Language: model.LanguageGo,
		Symbols: []model.Symbol{
			{Name: "User", Type: model.SymbolClass, Signature: "struct", FilePath: structPath, LineStart: 3, LineEnd: 5},
			{Name: "Greet", Type: model.SymbolMethod, Signature: "func (u *User) Greet() string", FilePath: structPath, LineStart: 7, LineEnd: 9},
		},
	})

	results, err := Find(context.Background(), idx, "Greeter", false)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no implementations since Farewell is missing, got %+v", results)
	}
}

func TestMatchesInterface_ExactAndFuzzy(t *testing.T) {
	if !matchesInterface("Repository", "Repository", false, "repository") {
		t.Error("expected exact match")
	}
	if matchesInterface("RepositoryImpl", "Repository", false, "repository") {
		t.Error("expected exact mode to reject substrings")
	}
	if !matchesInterface("RepositoryImpl", "Repo", true, "repo") {
		t.Error("expected fuzzy mode to accept substrings")
	}
}
