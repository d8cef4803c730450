// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package indexer walks a project root and builds a Code Index from it: a
// bounded pool of worker goroutines reads, hashes, language-detects, and
// parses each file in parallel; a single aggregator goroutine merges the
// results into the index so it never needs its own locking.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/blake3"

	astpkg "github.com/p1rallels/codemapper-sub000/internal/ast"
	"github.com/p1rallels/codemapper-sub000/internal/errs"
	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
	"github.com/p1rallels/codemapper-sub000/internal/walker"
)

var tracer = otel.Tracer("indexer")

// Progress is an optional callback invoked once per processed file,
// whether indexing it succeeded or failed. It must be safe to call from many concurrent workers.
type Progress func(path string, done, total int)

// Options configures a single Index run.
type Options struct {
	// MaxWorkers caps the number of concurrent file workers. Zero means
	// runtime.NumCPU().
	MaxWorkers int
	// OnProgress, if non-nil, is invoked after each file finishes (success
	// or failure alike) under a shared mutex.
	OnProgress Progress
}

// Indexer builds a CodeIndex from a project root using a ParserRegistry to
// dispatch per-file parsing.
type Indexer struct {
	registry *astpkg.ParserRegistry
}

// New returns an Indexer backed by registry.
func New(registry *astpkg.ParserRegistry) *Indexer {
	return &Indexer{registry: registry}
}

// fileResult is what one worker produces for one discovered file.
type fileResult struct {
	path string
	info model.FileInfo
	err  error
}

// Index walks root, parses every file whose extension the registry
// recognizes, and returns the resulting CodeIndex. Per-file read/parse
// failures are skipped and collected into the returned BatchError rather
// than aborting the run; a nil error from Index means every file
// succeeded.
func (ix *Indexer) Index(ctx context.Context, root string, opts Options) (*index.CodeIndex, error) {
	ctx, span := tracer.Start(ctx, "indexer.Index", trace.WithAttributes(attribute.String("root", root)))
	defer span.End()

	extensions := make(map[string]bool)
	for _, ext := range ix.registry.Extensions() {
		extensions[ext] = true
	}

	entries, err := walker.Collect(root, extensions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("walk project root: %w", err)
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	span.SetAttributes(attribute.Int("file_count", len(entries)), attribute.Int("workers", workers))

	// results is indexed by each entry's position in the walker's output
	// rather than filled in goroutine-completion order, so the index built
	// from it below preserves the walker's deterministic file ordering
	// regardless of which worker finishes first.
	results := make([]fileResult, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var progressMu sync.Mutex
	done := 0

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			results[i] = ix.processFile(gctx, root, entry)

			if opts.OnProgress != nil {
				progressMu.Lock()
				done++
				opts.OnProgress(entry.Path, done, len(entries))
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	idx := index.New()
	batch := &errs.BatchError{}
	for _, res := range results {
		if res.err != nil {
			batch.Errors = append(batch.Errors, fmt.Errorf("%s: %w", res.path, res.err))
			continue
		}
		idx.AddFile(res.info)
	}

	if err := batch.ErrOrNil(); err != nil {
		span.RecordError(err)
	}
	return idx, batch.ErrOrNil()
}

// processFile reads, hashes, and parses a single discovered file. It never
// returns a partially-constructed FileInfo: on error the caller skips the
// file entirely.
func (ix *Indexer) processFile(ctx context.Context, root string, entry walker.Entry) fileResult {
	parser, ok := ix.registry.GetByExtension(entry.Ext)
	if !ok {
		return fileResult{path: entry.Path, err: fmt.Errorf("no parser registered for extension %q", entry.Ext)}
	}

	fullPath := filepath.Join(root, filepath.FromSlash(entry.Path))
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return fileResult{path: entry.Path, err: fmt.Errorf("read file: %w", err)}
	}

	hash := blake3.Sum256(content)
	fileInfo := model.NewFileInfo(entry.Path, parser.Language(), int64(len(content)), "blake3:"+fmt.Sprintf("%x", hash))

	parseResult, err := parser.Parse(ctx, content, entry.Path)
	if err != nil {
		return fileResult{path: entry.Path, err: fmt.Errorf("parse: %w", err)}
	}
	if len(parseResult.Errors) > 0 {
		slog.Debug("parser reported partial errors", slog.String("path", entry.Path), slog.Any("errors", parseResult.Errors))
	}

	fileInfo.Symbols = parseResult.Symbols
	fileInfo.Dependencies = parseResult.Dependencies

	return fileResult{path: entry.Path, info: fileInfo}
}
