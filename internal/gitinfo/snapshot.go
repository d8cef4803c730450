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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/p1rallels/codemapper-sub000/internal/cache"
	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// snapshotsSubdir is the snapshot directory, nested under the shared
// per-repository cache.DirName root rather than its own top-level
// directory.
const snapshotsSubdir = "snapshots"

// SnapshotSymbol is the persisted shape of one symbol inside a Snapshot,
// independent of the live CodeIndex's in-memory representation.
type SnapshotSymbol struct {
	Name       string
	SymbolType model.SymbolType
	Signature  string
	FilePath   string
	LineStart  int
	LineEnd    int
}

// Snapshot is a named, timestamped capture of every symbol in a CodeIndex,
// persisted as JSON under .codemapper/snapshots/<name>.json.
type Snapshot struct {
	Name        string
	Timestamp   time.Time
	Commit      string
	Symbols     []SnapshotSymbol
	FileCount   int
	SymbolCount int
}

func snapshotsDir(root string) string {
	return filepath.Join(root, cache.DirName, snapshotsSubdir)
}

func snapshotPath(root, name string) string {
	return filepath.Join(snapshotsDir(root), name+".json")
}

// SaveSnapshot captures every symbol in idx under name, recording the
// current commit (if root is a git repository) alongside it.
func (e *Executor) SaveSnapshot(ctx context.Context, idx *index.CodeIndex, root, name string) (*Snapshot, error) {
	dir := snapshotsDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshots directory: %w", err)
	}

	var commit string
	if e.IsRepo(ctx) {
		if resolved, err := e.ResolveCommit(ctx, "HEAD"); err == nil {
			commit = resolved[:min(8, len(resolved))]
		}
	}

	symbols := idx.Symbols()
	snapSymbols := make([]SnapshotSymbol, 0, len(symbols))
	for _, s := range symbols {
		if s.Name == "" {
			continue
		}
		snapSymbols = append(snapSymbols, SnapshotSymbol{
			Name:       s.Name,
			SymbolType: s.Type,
			Signature:  s.Signature,
			FilePath:   s.FilePath,
			LineStart:  s.LineStart,
			LineEnd:    s.LineEnd,
		})
	}

	snapshot := &Snapshot{
		Name:        name,
		Timestamp:   time.Now(),
		Commit:      commit,
		Symbols:     snapSymbols,
		FileCount:   idx.TotalFiles(),
		SymbolCount: len(snapSymbols),
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize snapshot: %w", err)
	}
	if err := writeFileAtomic(snapshotPath(root, name), data); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	if err := ensureSnapshotsGitignore(root); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// LoadSnapshot reads a previously saved snapshot by name.
func LoadSnapshot(root, name string) (*Snapshot, error) {
	path := snapshotPath(root, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q not found at %s", name, path)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot %q: %w", name, err)
	}
	return &snapshot, nil
}

// ListSnapshots returns the names of every saved snapshot, sorted.
func ListSnapshots(root string) ([]string, error) {
	dir := snapshotsDir(root)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshots directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// DeleteSnapshot removes a saved snapshot by name.
func DeleteSnapshot(root, name string) error {
	path := snapshotPath(root, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("snapshot %q not found", name)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	return nil
}

// CompareToSnapshot pairs idx's current symbols against snapshot by (name,
// type, file path) and reports the same change taxonomy as ComputeDiff.
func CompareToSnapshot(idx *index.CodeIndex, snapshot *Snapshot) *DiffResult {
	type key struct {
		name       string
		symbolType model.SymbolType
		filePath   string
	}

	oldByKey := make(map[key]SnapshotSymbol, len(snapshot.Symbols))
	for _, s := range snapshot.Symbols {
		oldByKey[key{s.Name, s.SymbolType, s.FilePath}] = s
	}

	current := idx.Symbols()
	newByKey := make(map[key]model.Symbol)
	for _, s := range current {
		if s.Name == "" {
			continue
		}
		newByKey[key{s.Name, s.Type, s.FilePath}] = s
	}

	var diffs []SymbolDiff
	filesAnalyzed := make(map[string]bool)

	for _, n := range current {
		if n.Name == "" {
			continue
		}
		k := key{n.Name, n.Type, n.FilePath}
		o, existed := oldByKey[k]
		if !existed {
			diffs = append(diffs, SymbolDiff{
				Name: n.Name, SymbolType: n.Type, ChangeType: ChangeAdded, FilePath: n.FilePath,
				HasNew: true, NewLineStart: n.LineStart, NewLineEnd: n.LineEnd, NewSignature: n.Signature,
			})
			filesAnalyzed[n.FilePath] = true
			continue
		}

		sigChanged := o.Signature != n.Signature
		linesChanged := o.LineStart != n.LineStart || o.LineEnd != n.LineEnd
		sizeChanged := (o.LineEnd - o.LineStart) != (n.LineEnd - n.LineStart)

		switch {
		case sigChanged:
			diffs = append(diffs, SymbolDiff{
				Name: n.Name, SymbolType: n.Type, ChangeType: ChangeSignatureChanged, FilePath: n.FilePath,
				HasOld: true, OldLineStart: o.LineStart, OldLineEnd: o.LineEnd, OldSignature: o.Signature,
				HasNew: true, NewLineStart: n.LineStart, NewLineEnd: n.LineEnd, NewSignature: n.Signature,
			})
			filesAnalyzed[n.FilePath] = true
		case linesChanged || sizeChanged:
			diffs = append(diffs, SymbolDiff{
				Name: n.Name, SymbolType: n.Type, ChangeType: ChangeModified, FilePath: n.FilePath,
				HasOld: true, OldLineStart: o.LineStart, OldLineEnd: o.LineEnd, OldSignature: o.Signature,
				HasNew: true, NewLineStart: n.LineStart, NewLineEnd: n.LineEnd, NewSignature: n.Signature,
			})
			filesAnalyzed[n.FilePath] = true
		}
	}

	for _, o := range snapshot.Symbols {
		k := key{o.Name, o.SymbolType, o.FilePath}
		if _, stillExists := newByKey[k]; !stillExists {
			diffs = append(diffs, SymbolDiff{
				Name: o.Name, SymbolType: o.SymbolType, ChangeType: ChangeDeleted, FilePath: o.FilePath,
				HasOld: true, OldLineStart: o.LineStart, OldLineEnd: o.LineEnd, OldSignature: o.Signature,
			})
			filesAnalyzed[o.FilePath] = true
		}
	}

	commit := snapshot.Commit
	if commit == "" {
		commit = snapshot.Name
	}

	return &DiffResult{Commit: commit, Symbols: diffs, FilesAnalyzed: len(filesAnalyzed)}
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func ensureSnapshotsGitignore(root string) error {
	base := filepath.Join(root, cache.DirName)
	gitignorePath := filepath.Join(base, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("create cache base directory: %w", err)
	}
	if err := os.WriteFile(gitignorePath, []byte("*\n"), 0o644); err != nil {
		return fmt.Errorf("write .gitignore: %w", err)
	}
	return nil
}
