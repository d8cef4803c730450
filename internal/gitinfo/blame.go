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
	"path/filepath"

	astpkg "github.com/p1rallels/codemapper-sub000/internal/ast"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// blameHistoryLimit bounds how many commits BlameSymbol walks before giving
// up finding the last modifying commit.
const blameHistoryLimit = 100

// BlameResult is the outcome of BlameSymbol: the symbol's current shape and
// the commit that last changed its signature or size.
type BlameResult struct {
	SymbolName       string
	SymbolType       model.SymbolType
	LastCommit       CommitInfo
	OldSignature     string
	NewSignature     string
	CurrentLineStart int
	CurrentLineEnd   int
}

// HistoryEntry is one entry in a symbol's change history: a commit at which
// its signature or size changed, or one marking its disappearance or
// reappearance.
type HistoryEntry struct {
	Commit    CommitInfo
	Signature string
	LineStart int
	LineEnd   int
	Existed   bool
}

// BlameSymbol finds the most recent commit that changed symbolName's
// signature or line count within relPath (relative to e's work directory),
// walking up to blameHistoryLimit commits.
func (e *Executor) BlameSymbol(ctx context.Context, registry *astpkg.ParserRegistry, relPath, symbolName string) (*BlameResult, error) {
	if !e.IsRepo(ctx) {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, e.workDir)
	}

	lang := model.LanguageFromExtension(filepath.Ext(relPath))
	current, err := symbolInWorkingTree(ctx, e.workDir, registry, lang, relPath, symbolName)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("symbol %q not found in %s", symbolName, relPath)
	}

	commits, err := e.CommitsForFile(ctx, relPath, blameHistoryLimit)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("no git history found for %s", relPath)
	}

	lastModifying := commits[0]
	var oldSignature string

	for i := 1; i < len(commits); i++ {
		atCommit, err := e.symbolAtCommit(ctx, registry, lang, relPath, commits[i].Hash, symbolName)
		if err != nil {
			return nil, err
		}
		atPrev, err := e.symbolAtCommit(ctx, registry, lang, relPath, commits[i-1].Hash, symbolName)
		if err != nil {
			return nil, err
		}

		if atPrev != nil && atCommit == nil {
			lastModifying = commits[i-1]
			oldSignature = ""
			break
		}
		if atPrev != nil && atCommit != nil {
			sizeChanged := (atPrev.LineEnd - atPrev.LineStart) != (atCommit.LineEnd - atCommit.LineStart)
			if atPrev.Signature != atCommit.Signature || sizeChanged {
				lastModifying = commits[i-1]
				oldSignature = atCommit.Signature
				break
			}
		}
	}

	return &BlameResult{
		SymbolName:       current.Name,
		SymbolType:       current.Type,
		LastCommit:       lastModifying,
		OldSignature:     oldSignature,
		NewSignature:     current.Signature,
		CurrentLineStart: current.LineStart,
		CurrentLineEnd:   current.LineEnd,
	}, nil
}

// HistorySymbol walks every commit touching relPath, oldest to newest, and
// records an entry each time symbolName's signature or size changes, plus
// entries marking disappearance and reappearance. The returned slice is
// ordered newest-first.
func (e *Executor) HistorySymbol(ctx context.Context, registry *astpkg.ParserRegistry, relPath, symbolName string) ([]HistoryEntry, error) {
	if !e.IsRepo(ctx) {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, e.workDir)
	}

	lang := model.LanguageFromExtension(filepath.Ext(relPath))
	commits, err := e.CommitsForFile(ctx, relPath, 0)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("no git history found for %s", relPath)
	}

	var history []HistoryEntry
	var prevSignature string
	var prevLineStart, prevLineEnd int
	var havePrev bool

	for i := len(commits) - 1; i >= 0; i-- {
		commit := commits[i]
		sym, err := e.symbolAtCommit(ctx, registry, lang, relPath, commit.Hash, symbolName)
		if err != nil {
			return nil, err
		}

		if sym != nil {
			sigChanged := !havePrev || prevSignature != sym.Signature
			sizeChanged := havePrev && (prevLineEnd-prevLineStart) != (sym.LineEnd-sym.LineStart)

			if len(history) == 0 || sigChanged || sizeChanged {
				history = append(history, HistoryEntry{
					Commit:    commit,
					Signature: sym.Signature,
					LineStart: sym.LineStart,
					LineEnd:   sym.LineEnd,
					Existed:   true,
				})
			}
			prevSignature = sym.Signature
			prevLineStart, prevLineEnd = sym.LineStart, sym.LineEnd
			havePrev = true
		} else if havePrev {
			history = append(history, HistoryEntry{Commit: commit, Existed: false})
			havePrev = false
		}
	}

	reverseHistory(history)
	return history, nil
}

func reverseHistory(entries []HistoryEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}

func (e *Executor) symbolAtCommit(ctx context.Context, registry *astpkg.ParserRegistry, lang model.Language, relPath, commit, symbolName string) (*model.Symbol, error) {
	content, ok, err := e.FileAtCommit(ctx, relPath, commit)
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", relPath, commit, err)
	}
	if !ok {
		return nil, nil
	}
	return findSymbol(ctx, registry, lang, relPath, []byte(content), symbolName)
}
