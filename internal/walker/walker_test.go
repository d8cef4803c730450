// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestWalk_CollectsMatchingExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go")
	writeFile(t, root, "helper.py")
	writeFile(t, root, "README.md")
	writeFile(t, root, "nested/pkg/impl.go")

	entries, err := Collect(root, map[string]bool{"go": true})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
		if e.Ext != "go" {
			t.Errorf("expected ext go, got %q", e.Ext)
		}
	}
	sort.Strings(paths)

	want := []string{"main.go", "nested/pkg/impl.go"}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("expected %v, got %v", want, paths)
			break
		}
	}
}

func TestWalk_SkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/lib/index.js")
	writeFile(t, root, "src/index.js")
	writeFile(t, root, ".git/objects/info.js")

	entries, err := Collect(root, map[string]bool{"js": true})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "src/index.js" {
		t.Fatalf("expected only src/index.js, got %v", entries)
	}
}

func TestWalk_CaseInsensitiveExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Main.GO")

	entries, err := Collect(root, map[string]bool{"go": true})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].Ext != "go" {
		t.Errorf("expected lowercased ext go, got %q", entries[0].Ext)
	}
}

func TestWalk_PropagatesCallbackError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go")

	boom := os.ErrInvalid
	err := Walk(root, map[string]bool{"go": true}, func(Entry) error {
		return boom
	})
	if err != boom {
		t.Fatalf("expected callback error to propagate, got %v", err)
	}
}
