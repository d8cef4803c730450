// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	astpkg "github.com/p1rallels/codemapper-sub000/internal/ast"
	"github.com/p1rallels/codemapper-sub000/internal/cache"
	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/indexer"
	"github.com/p1rallels/codemapper-sub000/internal/model"

	"lukechampine.com/blake3"
)

var registry = astpkg.NewDefaultRegistry()

// loadOrBuildIndex is the single entrypoint every query subcommand uses to
// get a CodeIndex for root: it tries the on-disk cache first (honoring
// --no-cache/--rebuild-cache), falls back to a full parallel index, and
// persists the result back to the cache. An incremental update is always
// saved; a fresh build is saved only when it took at least
// cache.SaveThreshold. A cache that fails to load is rebuilt.
func loadOrBuildIndex(ctx context.Context, root string, extensions []string, noCache, rebuildCache bool) (*index.CodeIndex, error) {
	mgr := cache.NewManager()

	if rebuildCache {
		_ = mgr.Invalidate(root, extensions)
	}

	if !noCache && !rebuildCache {
		loaded, err := mgr.Load(root, extensions)
		// A load error is handled like a cache miss: fall through to a rebuild.
		if err == nil && loaded != nil {
			if len(loaded.Changes) == 0 {
				return loaded.Index, nil
			}
			if err := applyChanges(loaded.Index, root, loaded.Changes); err != nil {
				return nil, fmt.Errorf("applying incremental changes: %w", err)
			}
			loaded.Index.Compact()
			if _, err := mgr.SaveWithChanges(loaded.Index, root, extensions, loaded.Metadata, loaded.Changes); err != nil {
				return nil, fmt.Errorf("saving incremental cache: %w", err)
			}
			return loaded.Index, nil
		}
	}

	ix := indexer.New(registry)
	buildStart := time.Now()
	idx, err := ix.Index(ctx, root, indexer.Options{})
	elapsed := time.Since(buildStart)
	if err != nil {
		// Partial per-file failures are aggregated into a BatchError but
		// don't prevent using whatever was successfully indexed.
		if idx == nil {
			return nil, fmt.Errorf("indexing %s: %w", root, err)
		}
	}

	// Below cache.SaveThreshold a fresh index built fast enough that
	// reindexing on the next run costs less than the cache read/write
	// itself would; the repository stays un-cached.
	if !noCache && elapsed >= cache.SaveThreshold {
		if _, saveErr := mgr.Save(idx, root, extensions); saveErr != nil {
			return nil, fmt.Errorf("saving cache: %w", saveErr)
		}
	}

	return idx, nil
}

// applyChanges mutates idx in place per the cache manager's documented
// incremental-update contract: remove every changed path, then re-parse
// and re-add every Added/Modified path.
func applyChanges(idx *index.CodeIndex, root string, changes []cache.FileChange) error {
	for _, change := range changes {
		idx.RemoveFile(change.Path)
	}

	for _, change := range changes {
		if change.Kind == cache.FileDeleted {
			continue
		}
		fileInfo, err := reparseFile(root, change.Path)
		if err != nil {
			return err
		}
		idx.AddFile(fileInfo)
	}
	return nil
}

// reparseFile re-reads and re-parses a single file for incremental cache
// updates, mirroring indexer.processFile's per-file logic at a much
// smaller scale (one file, not a worker pool).
func reparseFile(root, relPath string) (model.FileInfo, error) {
	full := filepath.Join(root, filepath.FromSlash(relPath))
	content, err := os.ReadFile(full)
	if err != nil {
		return model.FileInfo{}, fmt.Errorf("reading %s: %w", relPath, err)
	}

	ext := extensionOf(relPath)
	parser, ok := registry.GetByExtension(ext)
	if !ok {
		return model.FileInfo{}, fmt.Errorf("no parser registered for extension %q", ext)
	}

	hash := blake3.Sum256(content)
	fileInfo := model.NewFileInfo(relPath, parser.Language(), int64(len(content)), "blake3:"+hex.EncodeToString(hash[:]))

	result, err := parser.Parse(context.Background(), content, relPath)
	if err != nil {
		return model.FileInfo{}, fmt.Errorf("parsing %s: %w", relPath, err)
	}
	fileInfo.Symbols = result.Symbols
	fileInfo.Dependencies = result.Dependencies
	return fileInfo, nil
}

func extensionOf(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return ext[1:]
}
