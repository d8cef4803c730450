// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"testing"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func buildImpactFixture(t *testing.T) (*index.CodeIndex, string) {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "chain.go", "package pkg\n\nfunc a() {\n\tb()\n}\n\nfunc b() {\n\tc()\n}\n\nfunc c() {}\n")

	idx := index.New()
	idx.AddFile(model.FileInfo{
		Path:     "chain.go",
		Language: model.LanguageGo,
		Symbols: []model.Symbol{
			{Name: "a", Type: model.SymbolFunction, FilePath: "chain.go", LineStart: 3, LineEnd: 5},
			{Name: "b", Type: model.SymbolFunction, FilePath: "chain.go", LineStart: 7, LineEnd: 9},
			{Name: "c", Type: model.SymbolFunction, FilePath: "chain.go", LineStart: 11, LineEnd: 11},
		},
	})
	return idx, root
}

func TestImpactRadius_TransitiveClosure(t *testing.T) {
	idx, root := buildImpactFixture(t)

	nodes, err := ImpactRadius(context.Background(), idx, root, "c", false, 5)
	if err != nil {
		t.Fatalf("ImpactRadius: %v", err)
	}

	depths := make(map[string]int)
	for _, n := range nodes {
		depths[n.Name] = n.Depth
	}

	if d, ok := depths["b"]; !ok || d != 1 {
		t.Errorf("expected b at depth 1, got %v (present=%v)", d, ok)
	}
	if d, ok := depths["a"]; !ok || d != 2 {
		t.Errorf("expected a at depth 2, got %v (present=%v)", d, ok)
	}
}

func TestImpactRadius_DepthCapStopsEarly(t *testing.T) {
	idx, root := buildImpactFixture(t)

	nodes, err := ImpactRadius(context.Background(), idx, root, "c", false, 1)
	if err != nil {
		t.Fatalf("ImpactRadius: %v", err)
	}
	for _, n := range nodes {
		if n.Name == "a" {
			t.Fatalf("expected depth cap of 1 to exclude transitive caller a, got %+v", nodes)
		}
	}
}
