// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func TestTracePath_DirectCall(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package pkg\n\nfunc A() {\n\tB()\n}\n")
	writeFile(t, root, "b.go", "package pkg\n\nfunc B() {}\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     "a.go",
		Language: model.LanguageGo,
		Symbols:  []model.Symbol{{Name: "A", Type: model.SymbolFunction, FilePath: "a.go", LineStart: 3, LineEnd: 5}},
	})
	idx.AddFile(model.FileInfo{
		Path:     "b.go",
		Language: model.LanguageGo,
		Symbols:  []model.Symbol{{Name: "B", Type: model.SymbolFunction, FilePath: "b.go", LineStart: 3, LineEnd: 3}},
	})

	result, err := TracePath(context.Background(), idx, root, "A", "B", false)
	if err != nil {
		t.Fatalf("TracePath: %v", err)
	}
	if !result.Found {
		t.Fatal("expected a path from A to B")
	}
	if len(result.Steps) != 2 || result.Steps[len(result.Steps)-1].SymbolName != "B" {
		t.Fatalf("expected a two-step path ending at B, got %v", result.Steps)
	}
}

func TestTracePath_Transitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package pkg\n\nfunc A() {\n\tB()\n}\n")
	writeFile(t, root, "b.go", "package pkg\n\nfunc B() {\n\tC()\n}\n")
	writeFile(t, root, "c.go", "package pkg\n\nfunc C() {}\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     "a.go",
		Language: model.LanguageGo,
		Symbols:  []model.Symbol{{Name: "A", Type: model.SymbolFunction, FilePath: "a.go", LineStart: 3, LineEnd: 5}},
	})
	idx.AddFile(model.FileInfo{
		Path:     "b.go",
		Language: model.LanguageGo,
		Symbols:  []model.Symbol{{Name: "B", Type: model.SymbolFunction, FilePath: "b.go", LineStart: 3, LineEnd: 5}},
	})
	idx.AddFile(model.FileInfo{
		Path:     "c.go",
		Language: model.LanguageGo,
		Symbols:  []model.Symbol{{Name: "C", Type: model.SymbolFunction, FilePath: "c.go", LineStart: 3, LineEnd: 3}},
	})

	result, err := TracePath(context.Background(), idx, root, "A", "C", false)
	if err != nil {
		t.Fatalf("TracePath: %v", err)
	}
	if !result.Found {
		t.Fatal("expected a path from A to C through B")
	}
	if len(result.Steps) != 3 {
		t.Fatalf("expected a three-step path (A, B, C), got %v", result.Steps)
	}
}

func TestTracePath_NotFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package pkg\n\nfunc A() {}\n")
	writeFile(t, root, "b.go", "package pkg\n\nfunc B() {}\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     "a.go",
		Language: model.LanguageGo,
		Symbols:  []model.Symbol{{Name: "A", Type: model.SymbolFunction, FilePath: "a.go", LineStart: 3, LineEnd: 3}},
	})
	idx.AddFile(model.FileInfo{
		Path:     "b.go",
		Language: model.LanguageGo,
		Symbols:  []model.Symbol{{Name: "B", Type: model.SymbolFunction, FilePath: "b.go", LineStart: 3, LineEnd: 3}},
	})

	result, err := TracePath(context.Background(), idx, root, "A", "B", false)
	if err != nil {
		t.Fatalf("TracePath: %v", err)
	}
	if result.Found {
		t.Fatalf("expected no path between unrelated functions, got %v", result.Steps)
	}
}

func TestTracePath_UnknownSourceOrTarget(t *testing.T) {
	idx := index.New()
	result, err := TracePath(context.Background(), idx, t.TempDir(), "Ghost", "AlsoGhost", false)
	if err != nil {
		t.Fatalf("TracePath: %v", err)
	}
	if result.Found {
		t.Fatal("expected not-found for symbols absent from the index")
	}
}

// TestTracePath_WideFanOutUsesParallelExpansion exercises the
// level-synchronous parallel path: Root calls more than
// traceParallelThreshold distinct mid-layer functions, each of which calls
// one leaf; the second BFS level (the mid layer) is wide enough to expand
// on the worker pool instead of sequentially.
func TestTracePath_WideFanOutUsesParallelExpansion(t *testing.T) {
	root := t.TempDir()

	const fanOut = traceParallelThreshold + 8
	var rootBody string
	for i := 0; i < fanOut; i++ {
		rootBody += fmt.Sprintf("\tmid%d()\n", i)
	}
	writeFile(t, root, "root.go", "package pkg\n\nfunc Root() {\n"+rootBody+"}\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     "root.go",
		Language: model.LanguageGo,
		Symbols:  []model.Symbol{{Name: "Root", Type: model.SymbolFunction, FilePath: "root.go", LineStart: 3, LineEnd: fanOut + 3}},
	})

	for i := 0; i < fanOut; i++ {
		mid, leaf := fmt.Sprintf("mid%d", i), fmt.Sprintf("leaf%d", i)
		midRel, leafRel := fmt.Sprintf("mid%d.go", i), fmt.Sprintf("leaf%d.go", i)

		writeFile(t, root, midRel, fmt.Sprintf("package pkg\n\nfunc %s() {\n\t%s()\n}\n", mid, leaf))
		idx.AddFile(model.FileInfo{
			Path:     midRel,
			Language: model.LanguageGo,
			Symbols:  []model.Symbol{{Name: mid, Type: model.SymbolFunction, FilePath: midRel, LineStart: 3, LineEnd: 5}},
		})

		writeFile(t, root, leafRel, fmt.Sprintf("package pkg\n\nfunc %s() {}\n", leaf))
		idx.AddFile(model.FileInfo{
			Path:     leafRel,
			Language: model.LanguageGo,
			Symbols:  []model.Symbol{{Name: leaf, Type: model.SymbolFunction, FilePath: leafRel, LineStart: 3, LineEnd: 3}},
		})
	}

	target := fmt.Sprintf("leaf%d", fanOut-1)
	result, err := TracePath(context.Background(), idx, root, "Root", target, false)
	if err != nil {
		t.Fatalf("TracePath: %v", err)
	}
	if !result.Found {
		t.Fatalf("expected to find %s through Root's wide mid-layer fan-out", target)
	}
	if len(result.Steps) != 3 {
		t.Fatalf("expected a three-step path (Root, mid, leaf), got %v", result.Steps)
	}
}
