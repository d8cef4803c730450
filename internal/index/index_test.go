// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package index

import (
	"testing"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func fileWithSymbols(path string, names ...string) model.FileInfo {
	f := model.NewFileInfo(path, model.LanguageGo, 100, "blake3:deadbeef")
	for _, n := range names {
		f.Symbols = append(f.Symbols, model.Symbol{Name: n, Type: model.SymbolFunction, FilePath: path})
	}
	f.Dependencies = []model.Dependency{{ImportName: "fmt"}}
	return f
}

func TestCodeIndex_AddFileAndQuery(t *testing.T) {
	idx := New()
	idx.AddFile(fileWithSymbols("a.go", "Run", "Stop"))

	if got := idx.QuerySymbol("Run"); len(got) != 1 || got[0].Name != "Run" {
		t.Fatalf("expected to find Run, got %v", got)
	}
	if idx.TotalFiles() != 1 {
		t.Errorf("expected 1 file, got %d", idx.TotalFiles())
	}
	if idx.TotalSymbols() != 2 {
		t.Errorf("expected 2 symbols, got %d", idx.TotalSymbols())
	}
	if deps := idx.GetDependencies("a.go"); len(deps) != 1 || deps[0] != "fmt" {
		t.Errorf("expected [fmt], got %v", deps)
	}
}

func TestCodeIndex_QuerySymbol_MultiValued(t *testing.T) {
	idx := New()
	idx.AddFile(fileWithSymbols("a.go", "Handle"))
	idx.AddFile(fileWithSymbols("b.go", "Handle"))

	got := idx.QuerySymbol("Handle")
	if len(got) != 2 {
		t.Fatalf("expected 2 overloaded entries, got %d", len(got))
	}
}

func TestCodeIndex_RemoveFileThenCompact_IsNoOpOnCounts(t *testing.T) {
	idx := New()
	idx.AddFile(fileWithSymbols("a.go", "Run", "Stop"))
	before := idx.TotalSymbols()

	idx.AddFile(fileWithSymbols("b.go", "Other"))
	idx.RemoveFile("b.go")
	idx.Compact()

	if idx.TotalSymbols() != before {
		t.Fatalf("expected symbol count to return to %d, got %d", before, idx.TotalSymbols())
	}
	if idx.TotalFiles() != 1 {
		t.Errorf("expected 1 file remaining, got %d", idx.TotalFiles())
	}
	if got := idx.QuerySymbol("Other"); len(got) != 0 {
		t.Errorf("expected removed symbol to be gone, got %v", got)
	}
	if got := idx.QuerySymbol("Run"); len(got) != 1 {
		t.Errorf("expected surviving symbol Run to remain reachable, got %v", got)
	}
}

func TestCodeIndex_RemoveFile_TombstonesWithoutShiftingOtherIndices(t *testing.T) {
	idx := New()
	idx.AddFile(fileWithSymbols("a.go", "First"))
	idx.AddFile(fileWithSymbols("b.go", "Second"))

	idx.RemoveFile("a.go")

	if got := idx.QuerySymbol("First"); len(got) != 0 {
		t.Errorf("expected First to be tombstoned, got %v", got)
	}
	if got := idx.QuerySymbol("Second"); len(got) != 1 || got[0].Name != "Second" {
		t.Errorf("expected Second to remain reachable, got %v", got)
	}
	if idx.TotalSymbols() != 1 {
		t.Errorf("expected 1 live symbol, got %d", idx.TotalSymbols())
	}
}

func TestCodeIndex_FuzzySearch_RanksExactPrefixThenSubstring(t *testing.T) {
	idx := New()
	idx.AddFile(fileWithSymbols("a.go", "Handler", "handle", "CatchAll"))

	results := idx.FuzzySearch("handle")
	if len(results) < 2 {
		t.Fatalf("expected at least 2 matches, got %v", results)
	}
	if results[0].Name != "handle" {
		t.Errorf("expected exact match 'handle' ranked first, got %v", results)
	}
}

func TestCodeIndex_GetFileSymbols(t *testing.T) {
	idx := New()
	idx.AddFile(fileWithSymbols("a.go", "Run", "Stop"))

	syms := idx.GetFileSymbols("a.go")
	if len(syms) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(syms))
	}
	if syms[0].Name != "Run" || syms[1].Name != "Stop" {
		t.Errorf("expected insertion order preserved, got %v", syms)
	}
}

func TestCodeIndex_SymbolsByType(t *testing.T) {
	idx := New()
	f := model.NewFileInfo("a.go", model.LanguageGo, 10, "blake3:aa")
	f.Symbols = []model.Symbol{
		{Name: "Foo", Type: model.SymbolFunction},
		{Name: "Bar", Type: model.SymbolClass},
		{Name: "Baz", Type: model.SymbolFunction},
	}
	idx.AddFile(f)

	if n := idx.SymbolsByType(model.SymbolFunction); n != 2 {
		t.Errorf("expected 2 functions, got %d", n)
	}
	if n := idx.SymbolsByType(model.SymbolClass); n != 1 {
		t.Errorf("expected 1 class, got %d", n)
	}
}

func TestCodeIndex_UsedByFile(t *testing.T) {
	idx := New()

	user := model.NewFileInfo("models/user.go", model.LanguageGo, 10, "blake3:aa")
	idx.AddFile(user)

	handler := model.NewFileInfo("handlers/handler.go", model.LanguageGo, 10, "blake3:bb")
	handler.Dependencies = []model.Dependency{{ImportName: "project/models/user"}}
	idx.AddFile(handler)

	unrelated := model.NewFileInfo("handlers/other.go", model.LanguageGo, 10, "blake3:cc")
	unrelated.Dependencies = []model.Dependency{{ImportName: "fmt"}}
	idx.AddFile(unrelated)

	users := idx.UsedByFile("models/user.go")
	if len(users) != 1 || users[0] != "handlers/handler.go" {
		t.Fatalf("expected handlers/handler.go to be reported, got %v", users)
	}
}
