// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gitinfo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	astpkg "github.com/p1rallels/codemapper-sub000/internal/ast"
)

func TestChangeType_String(t *testing.T) {
	cases := map[ChangeType]string{
		ChangeAdded:            "ADDED",
		ChangeDeleted:          "DELETED",
		ChangeModified:         "MODIFIED",
		ChangeSignatureChanged: "SIGNATURE_CHANGED",
	}
	for ct, want := range cases {
		if got := ct.String(); got != want {
			t.Errorf("ChangeType(%d).String() = %q, want %q", ct, got, want)
		}
	}
}

func TestComputeDiff_DetectsAddedDeletedAndSignatureChanged(t *testing.T) {
	dir := t.TempDir()
	gitRepo(t, dir, map[string]string{
		"keep.go":   "package pkg\n\nfunc Keep() int {\n\treturn 1\n}\n",
		"remove.go": "package pkg\n\nfunc Removed() {}\n",
	})

	e, _ := NewExecutor(dir)
	ctx := context.Background()
	base, err := e.ResolveCommit(ctx, "HEAD")
	if err != nil {
		t.Fatalf("ResolveCommit: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "keep.go"), []byte("package pkg\n\nfunc Keep() (int, error) {\n\treturn 1, nil\n}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "remove.go")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "added.go"), []byte("package pkg\n\nfunc Added() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	commitAll(t, dir, "evolve the package")

	registry := astpkg.NewDefaultRegistry()
	result, err := e.ComputeDiff(ctx, registry, base, "", nil)
	if err != nil {
		t.Fatalf("ComputeDiff: %v", err)
	}

	var sawAdded, sawDeleted, sawSigChanged bool
	for _, d := range result.Symbols {
		switch {
		case d.Name == "Added" && d.ChangeType == ChangeAdded:
			sawAdded = true
		case d.Name == "Removed" && d.ChangeType == ChangeDeleted:
			sawDeleted = true
		case d.Name == "Keep" && d.ChangeType == ChangeSignatureChanged:
			sawSigChanged = true
		}
	}
	if !sawAdded {
		t.Error("expected Added to be reported as ADDED")
	}
	if !sawDeleted {
		t.Error("expected Removed to be reported as DELETED")
	}
	if !sawSigChanged {
		t.Error("expected Keep's changed signature to be reported as SIGNATURE_CHANGED")
	}
}

func TestComputeDiff_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	gitRepo(t, dir, map[string]string{"a.go": "package pkg\n", "notes.md": "# notes\n"})

	e, _ := NewExecutor(dir)
	ctx := context.Background()
	base, err := e.ResolveCommit(ctx, "HEAD")
	if err != nil {
		t.Fatalf("ResolveCommit: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte("package pkg\n\nfunc A() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes\n\nmore\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	commitAll(t, dir, "touch both files")

	registry := astpkg.NewDefaultRegistry()
	result, err := e.ComputeDiff(ctx, registry, base, "", []string{"go"})
	if err != nil {
		t.Fatalf("ComputeDiff: %v", err)
	}
	if result.FilesAnalyzed != 1 {
		t.Fatalf("expected exactly one file analyzed after extension filtering, got %d", result.FilesAnalyzed)
	}
}
