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
	"os/exec"
	"path/filepath"
	"testing"
)

// gitRepo initializes a git repository in dir with an initial commit of the
// given files, configuring a throwaway committer identity so commits
// succeed in CI sandboxes with no global git config.
func gitRepo(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	run("init")
	run("config", "user.email", "test@test.com")
	run("config", "user.name", "Test")

	for rel, content := range files {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	run("add", ".")
	run("commit", "-m", "initial commit")
}

func commitAll(t *testing.T, dir, message string) {
	t.Helper()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}
	run("add", ".")
	run("commit", "-m", message)
}

func TestExecutor_IsRepo(t *testing.T) {
	dir := t.TempDir()
	gitRepo(t, dir, map[string]string{"a.go": "package pkg\n"})

	e, err := NewExecutor(dir)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	if !e.IsRepo(context.Background()) {
		t.Error("expected IsRepo to report true for an initialized repository")
	}
}

func TestExecutor_IsRepo_NotARepo(t *testing.T) {
	e, err := NewExecutor(t.TempDir())
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	if e.IsRepo(context.Background()) {
		t.Error("expected IsRepo to report false for a non-repository directory")
	}
}

func TestExecutor_ResolveCommit(t *testing.T) {
	dir := t.TempDir()
	gitRepo(t, dir, map[string]string{"a.go": "package pkg\n"})

	e, _ := NewExecutor(dir)
	hash, err := e.ResolveCommit(context.Background(), "HEAD")
	if err != nil {
		t.Fatalf("ResolveCommit: %v", err)
	}
	if len(hash) < 7 {
		t.Fatalf("expected a full commit hash, got %q", hash)
	}
}

func TestExecutor_FileAtCommit(t *testing.T) {
	dir := t.TempDir()
	gitRepo(t, dir, map[string]string{"a.go": "package pkg\n\nfunc A() {}\n"})

	e, _ := NewExecutor(dir)
	ctx := context.Background()

	content, ok, err := e.FileAtCommit(ctx, "a.go", "HEAD")
	if err != nil {
		t.Fatalf("FileAtCommit: %v", err)
	}
	if !ok || content != "package pkg\n\nfunc A() {}\n" {
		t.Fatalf("unexpected content %q, ok=%v", content, ok)
	}

	_, ok, err = e.FileAtCommit(ctx, "missing.go", "HEAD")
	if err != nil {
		t.Fatalf("FileAtCommit(missing): %v", err)
	}
	if ok {
		t.Error("expected ok=false for a file absent at the given commit")
	}
}

func TestExecutor_CommitsForFile(t *testing.T) {
	dir := t.TempDir()
	gitRepo(t, dir, map[string]string{"a.go": "package pkg\n\nfunc A() {}\n"})

	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte("package pkg\n\nfunc A() { /* changed */ }\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	commitAll(t, dir, "change A")

	e, _ := NewExecutor(dir)
	commits, err := e.CommitsForFile(context.Background(), "a.go", 0)
	if err != nil {
		t.Fatalf("CommitsForFile: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("expected two commits touching a.go, got %d", len(commits))
	}
	if commits[0].Message != "change A" {
		t.Errorf("expected newest-first ordering, got %q first", commits[0].Message)
	}
}

func TestExecutor_ChangedSince(t *testing.T) {
	dir := t.TempDir()
	gitRepo(t, dir, map[string]string{"a.go": "package pkg\n"})

	e, _ := NewExecutor(dir)
	ctx := context.Background()
	base, err := e.ResolveCommit(ctx, "HEAD")
	if err != nil {
		t.Fatalf("ResolveCommit: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "b.go"), []byte("package pkg\n\nfunc B() {}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "a.go")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	commitAll(t, dir, "add b, remove a")

	changed, err := e.ChangedSince(ctx, base, "")
	if err != nil {
		t.Fatalf("ChangedSince: %v", err)
	}
	if len(changed.Added) != 1 || changed.Added[0] != "b.go" {
		t.Errorf("expected b.go added, got %v", changed.Added)
	}
	if len(changed.Deleted) != 1 || changed.Deleted[0] != "a.go" {
		t.Errorf("expected a.go deleted, got %v", changed.Deleted)
	}
}
