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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	astpkg "github.com/p1rallels/codemapper-sub000/internal/ast"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// ChangeType classifies how a symbol differs between two points in time.
type ChangeType int

const (
	ChangeAdded ChangeType = iota
	ChangeDeleted
	ChangeModified
	ChangeSignatureChanged
)

// String returns the uppercase label used in CLI/JSON output.
func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "ADDED"
	case ChangeDeleted:
		return "DELETED"
	case ChangeModified:
		return "MODIFIED"
	case ChangeSignatureChanged:
		return "SIGNATURE_CHANGED"
	default:
		return "UNKNOWN"
	}
}

// SymbolDiff is one symbol-level change between an old and a new point in
// time.
type SymbolDiff struct {
	Name         string
	SymbolType   model.SymbolType
	ChangeType   ChangeType
	FilePath     string
	OldLineStart int
	OldLineEnd   int
	NewLineStart int
	NewLineEnd   int
	HasOld       bool
	HasNew       bool
	OldSignature string
	NewSignature string
}

// DiffResult is the outcome of ComputeDiff or CompareToSnapshot.
type DiffResult struct {
	Commit        string
	Symbols       []SymbolDiff
	FilesAnalyzed int
}

// ComputeDiff compares the working tree against commit: every file that
// differs (filtered to extensions, when non-empty) is parsed at both
// points and its symbols paired by (name, type) to produce a SymbolDiff
// list.
func (e *Executor) ComputeDiff(ctx context.Context, registry *astpkg.ParserRegistry, commit, subpath string, extensions []string) (*DiffResult, error) {
	if !e.IsRepo(ctx) {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, e.workDir)
	}

	resolved, err := e.ResolveCommit(ctx, commit)
	if err != nil {
		return nil, err
	}

	changed, err := e.ChangedSince(ctx, resolved, subpath)
	if err != nil {
		return nil, err
	}

	allChanged := append(append(append([]string{}, changed.Added...), changed.Deleted...), changed.Modified...)
	filtered := filterByExtension(allChanged, extensions)

	var diffs []SymbolDiff
	for _, path := range filtered {
		lang := model.LanguageFromExtension(filepath.Ext(path))
		if lang == model.LanguageUnknown {
			continue
		}

		oldSymbols, err := e.symbolsAtCommit(ctx, registry, lang, path, resolved)
		if err != nil {
			return nil, err
		}
		newSymbols, err := symbolsOnDisk(ctx, registry, lang, e.workDir, path)
		if err != nil {
			return nil, err
		}

		diffs = append(diffs, compareSymbols(oldSymbols, newSymbols, path)...)
	}

	return &DiffResult{Commit: resolved, Symbols: diffs, FilesAnalyzed: len(filtered)}, nil
}

func filterByExtension(paths []string, extensions []string) []string {
	if len(extensions) == 0 {
		return paths
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.TrimPrefix(ext, ".")] = true
	}
	var out []string
	for _, p := range paths {
		ext := strings.TrimPrefix(filepath.Ext(p), ".")
		if allowed[ext] {
			out = append(out, p)
		}
	}
	return out
}

func (e *Executor) symbolsAtCommit(ctx context.Context, registry *astpkg.ParserRegistry, lang model.Language, relPath, commit string) ([]model.Symbol, error) {
	content, ok, err := e.FileAtCommit(ctx, relPath, commit)
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", relPath, commit, err)
	}
	if !ok {
		return nil, nil
	}
	return parseSymbols(ctx, registry, lang, relPath, []byte(content))
}

func symbolsOnDisk(ctx context.Context, registry *astpkg.ParserRegistry, lang model.Language, root, relPath string) ([]model.Symbol, error) {
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	return parseSymbols(ctx, registry, lang, relPath, content)
}

type symbolKey struct {
	name       string
	symbolType model.SymbolType
}

func compareSymbols(oldSymbols, newSymbols []model.Symbol, filePath string) []SymbolDiff {
	oldByKey := make(map[symbolKey]model.Symbol, len(oldSymbols))
	for _, s := range oldSymbols {
		oldByKey[symbolKey{s.Name, s.Type}] = s
	}
	newByKey := make(map[symbolKey]model.Symbol, len(newSymbols))
	for _, s := range newSymbols {
		newByKey[symbolKey{s.Name, s.Type}] = s
	}

	var diffs []SymbolDiff

	for _, n := range newSymbols {
		key := symbolKey{n.Name, n.Type}
		o, existed := oldByKey[key]
		if !existed {
			diffs = append(diffs, SymbolDiff{
				Name: n.Name, SymbolType: n.Type, ChangeType: ChangeAdded, FilePath: filePath,
				HasNew: true, NewLineStart: n.LineStart, NewLineEnd: n.LineEnd, NewSignature: n.Signature,
			})
			continue
		}

		sigChanged := o.Signature != n.Signature
		linesChanged := o.LineStart != n.LineStart || o.LineEnd != n.LineEnd
		sizeChanged := (o.LineEnd - o.LineStart) != (n.LineEnd - n.LineStart)

		switch {
		case sigChanged:
			diffs = append(diffs, SymbolDiff{
				Name: n.Name, SymbolType: n.Type, ChangeType: ChangeSignatureChanged, FilePath: filePath,
				HasOld: true, OldLineStart: o.LineStart, OldLineEnd: o.LineEnd, OldSignature: o.Signature,
				HasNew: true, NewLineStart: n.LineStart, NewLineEnd: n.LineEnd, NewSignature: n.Signature,
			})
		case linesChanged || sizeChanged:
			diffs = append(diffs, SymbolDiff{
				Name: n.Name, SymbolType: n.Type, ChangeType: ChangeModified, FilePath: filePath,
				HasOld: true, OldLineStart: o.LineStart, OldLineEnd: o.LineEnd, OldSignature: o.Signature,
				HasNew: true, NewLineStart: n.LineStart, NewLineEnd: n.LineEnd, NewSignature: n.Signature,
			})
		}
	}

	for _, o := range oldSymbols {
		key := symbolKey{o.Name, o.Type}
		if _, stillExists := newByKey[key]; !stillExists {
			diffs = append(diffs, SymbolDiff{
				Name: o.Name, SymbolType: o.Type, ChangeType: ChangeDeleted, FilePath: filePath,
				HasOld: true, OldLineStart: o.LineStart, OldLineEnd: o.LineEnd, OldSignature: o.Signature,
			})
		}
	}

	return diffs
}
