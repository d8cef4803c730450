// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package query

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	astpkg "github.com/p1rallels/codemapper-sub000/internal/ast"
	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestAutoEnable(t *testing.T) {
	if AutoEnable(999) {
		t.Error("expected 999 candidates not to auto-enable")
	}
	if !AutoEnable(1000) {
		t.Error("expected 1000 candidates to auto-enable")
	}
}

func TestPrefilter_FindsOnlyMatchingFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\nfunc Handle() {}\n")
	writeFile(t, root, "b.go", "package a\nfunc Other() {}\n")

	f := NewFilter("Handle", true, []string{"go"})
	candidates, err := f.Prefilter(root)
	if err != nil {
		t.Fatalf("Prefilter: %v", err)
	}
	if len(candidates) != 1 || candidates[0] != "a.go" {
		t.Fatalf("expected only a.go, got %v", candidates)
	}
}

func TestPrefilter_CaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\nfunc HANDLE() {}\n")

	f := NewFilter("handle", false, []string{"go"})
	candidates, err := f.Prefilter(root)
	if err != nil {
		t.Fatalf("Prefilter: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected a case-insensitive match, got %v", candidates)
	}
}

func TestPrefilter_StopsAtNULByte(t *testing.T) {
	root := t.TempDir()
	content := append([]byte("package a\n"), 0x00)
	content = append(content, []byte("func Handle() {}\n")...)
	writeFile(t, root, "bin.go", string(content))

	f := NewFilter("Handle", true, []string{"go"})
	candidates, err := f.Prefilter(root)
	if err != nil {
		t.Fatalf("Prefilter: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected the match after the NUL byte to be invisible, got %v", candidates)
	}
}

func TestFastQuery_ExactAndFuzzy(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\n// Handler does the thing.\nfunc Handler() {}\n")

	registry := astpkg.NewDefaultRegistry()
	ctx := context.Background()

	exact := NewFilter("Handler", true, []string{"go"})
	got, err := exact.FastQuery(ctx, registry, root, "Handler", false)
	if err != nil {
		t.Fatalf("FastQuery: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Handler" {
		t.Fatalf("expected exact match on Handler, got %v", got)
	}

	fuzzy := NewFilter("andl", false, []string{"go"})
	got, err = fuzzy.FastQuery(ctx, registry, root, "andl", true)
	if err != nil {
		t.Fatalf("FastQuery: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Handler" {
		t.Fatalf("expected fuzzy substring match on Handler, got %v", got)
	}
}

func TestFastQuery_EmptyPrefilterReturnsNilWithoutParsing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\nfunc Other() {}\n")

	f := NewFilter("NeverThere", true, []string{"go"})
	got, err := f.FastQuery(context.Background(), astpkg.NewDefaultRegistry(), root, "NeverThere", false)
	if err != nil {
		t.Fatalf("FastQuery: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil result on empty prefilter, got %v", got)
	}
}

func TestFastQueryWithFallback_FallsBackToIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\nfunc Other() {}\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     "a.go",
		Language: model.LanguageGo,
		Symbols:  []model.Symbol{{Name: "Ghost", Type: model.SymbolFunction, FilePath: "a.go"}},
	})

	// "Ghost" isn't actually present on disk, so the prefilter finds
	// nothing and the fallback must answer from idx instead.
	f := NewFilter("Ghost", true, []string{"go"})
	got, err := f.FastQueryWithFallback(context.Background(), astpkg.NewDefaultRegistry(), root, idx, "Ghost", false)
	if err != nil {
		t.Fatalf("FastQueryWithFallback: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Ghost" {
		t.Fatalf("expected fallback to find Ghost via the index, got %v", got)
	}
}
