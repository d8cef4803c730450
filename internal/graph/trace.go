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
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

var traceTracer = otel.Tracer("graph.trace")

// maxTraceDepth bounds how many call hops TracePath will follow before
// giving up.
const maxTraceDepth = 10

// traceParallelThreshold and maxTraceWorkers tune the level-synchronous
// BFS: frontiers above the threshold process each item on a small worker pool instead of one at a
// time, since resolving a symbol's callees means reading and parsing its
// file.
const (
	traceParallelThreshold = 32
	maxTraceWorkers        = 8
)

// TraceStep is one hop in a TraceResult's path.
type TraceStep struct {
	SymbolName string
	SymbolType model.SymbolType
	FilePath   string
	Line       int
}

// TraceResult is the outcome of TracePath: the hop-by-hop path from the
// source symbol to the target, or Found=false if no path was found within
// maxTraceDepth hops.
type TraceResult struct {
	Steps []TraceStep
	Found bool
}

func notFound() *TraceResult {
	return &TraceResult{Found: false}
}

type frontierItem struct {
	step TraceStep
	path []TraceStep
}

// TracePath performs a breadth-first search over the call graph from every
// symbol matching from to every symbol matching to, returning the shortest
// path found (by hop count) within maxTraceDepth hops. Wide frontiers are
// expanded on a worker pool; the order BFS visits siblings in is otherwise
// unspecified once a frontier goes parallel.
func TracePath(ctx context.Context, idx *index.CodeIndex, root, from, to string, fuzzy bool) (*TraceResult, error) {
	ctx, span := traceTracer.Start(ctx, "graph.TracePath",
		trace.WithAttributes(
			attribute.String("from", from),
			attribute.String("to", to),
			attribute.Bool("fuzzy", fuzzy),
		),
	)
	defer span.End()

	sourceSymbols := lookupSymbols(idx, from, fuzzy)
	if len(sourceSymbols) == 0 {
		span.SetAttributes(attribute.Bool("found", false))
		span.SetStatus(codes.Ok, "source symbol not found")
		return notFound(), nil
	}
	targetSymbols := lookupSymbols(idx, to, fuzzy)
	if len(targetSymbols) == 0 {
		span.SetAttributes(attribute.Bool("found", false))
		span.SetStatus(codes.Ok, "target symbol not found")
		return notFound(), nil
	}

	targetNames := make(map[string]bool, len(targetSymbols))
	for _, t := range targetSymbols {
		targetNames[strings.ToLower(t.Name)] = true
	}

	visited := make(map[string]bool)
	var mu sync.RWMutex

	var frontier []frontierItem
	for _, source := range sourceSymbols {
		step := TraceStep{
			SymbolName: source.Name,
			SymbolType: source.Type,
			FilePath:   source.FilePath,
			Line:       source.LineStart,
		}
		key := visitKey(source.FilePath, source.Name)
		if visited[key] {
			continue
		}
		visited[key] = true
		frontier = append(frontier, frontierItem{step: step, path: []TraceStep{step}})
	}

	parallelLevels := 0
	sequentialLevels := 0
	depthReached := 0

	for depth := 0; len(frontier) > 0 && depth < maxTraceDepth; depth++ {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		var next []frontierItem
		var found *TraceResult
		if len(frontier) > traceParallelThreshold {
			slog.Debug("using parallel mode for trace BFS level",
				slog.Int("depth", depth),
				slog.Int("level_size", len(frontier)),
				slog.Int("threshold", traceParallelThreshold),
			)
			next, found = expandLevelParallel(ctx, idx, root, frontier, targetNames, visited, &mu)
			parallelLevels++
		} else {
			next, found = expandLevelSequential(ctx, idx, root, frontier, targetNames, visited)
			sequentialLevels++
		}
		depthReached = depth + 1
		if found != nil {
			span.SetAttributes(
				attribute.Bool("found", true),
				attribute.Int("depth", depthReached),
				attribute.Int("parallel_levels", parallelLevels),
				attribute.Int("sequential_levels", sequentialLevels),
			)
			span.SetStatus(codes.Ok, "")
			return found, nil
		}
		frontier = next
	}

	span.SetAttributes(
		attribute.Bool("found", false),
		attribute.Int("depth", depthReached),
		attribute.Int("parallel_levels", parallelLevels),
		attribute.Int("sequential_levels", sequentialLevels),
	)
	span.SetStatus(codes.Ok, "")
	return notFound(), nil
}

func lookupSymbols(idx *index.CodeIndex, name string, fuzzy bool) []model.Symbol {
	if fuzzy {
		return idx.FuzzySearch(name)
	}
	return idx.QuerySymbol(name)
}

func visitKey(filePath, name string) string {
	return filePath + ":" + strings.ToLower(name)
}

func calleesForStep(ctx context.Context, idx *index.CodeIndex, root string, step TraceStep) ([]CallInfo, error) {
	for _, symbol := range idx.QuerySymbol(step.SymbolName) {
		if symbol.FilePath == step.FilePath && symbol.LineStart == step.Line {
			return findCalleesForSymbol(ctx, idx, root, symbol)
		}
	}
	return nil, nil
}

func appendStep(path []TraceStep, step TraceStep) []TraceStep {
	out := make([]TraceStep, len(path), len(path)+1)
	copy(out, path)
	return append(out, step)
}

func expandLevelSequential(ctx context.Context, idx *index.CodeIndex, root string, level []frontierItem, targetNames map[string]bool, visited map[string]bool) ([]frontierItem, *TraceResult) {
	var next []frontierItem

	for _, item := range level {
		callees, err := calleesForStep(ctx, idx, root, item.step)
		if err != nil {
			continue
		}

		for _, callee := range callees {
			lower := strings.ToLower(callee.Name)
			nextStep := TraceStep{SymbolName: callee.Name, SymbolType: callee.Type, FilePath: callee.FilePath, Line: callee.Line}

			if targetNames[lower] {
				return nil, &TraceResult{Steps: appendStep(item.path, nextStep), Found: true}
			}

			key := visitKey(callee.FilePath, callee.Name)
			if visited[key] {
				continue
			}
			visited[key] = true
			next = append(next, frontierItem{step: nextStep, path: appendStep(item.path, nextStep)})
		}
	}

	return next, nil
}

func expandLevelParallel(ctx context.Context, idx *index.CodeIndex, root string, level []frontierItem, targetNames map[string]bool, visited map[string]bool, mu *sync.RWMutex) ([]frontierItem, *TraceResult) {
	workers := min(len(level), min(runtime.NumCPU(), maxTraceWorkers))

	type localResult struct {
		next  []frontierItem
		found *TraceResult
	}
	localResults := make([]localResult, workers)

	workChan := make(chan frontierItem, min(len(level), 256))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)
					slog.Error("panic in parallel trace worker",
						slog.Int("worker_id", workerID),
						slog.Any("panic", r),
						slog.String("stack", string(buf[:n])),
					)
				}
			}()

			local := &localResults[workerID]
			local.next = make([]frontierItem, 0, len(level)/workers+1)

			for item := range workChan {
				if ctx.Err() != nil {
					return
				}

				callees, err := calleesForStep(ctx, idx, root, item.step)
				if err != nil {
					continue
				}

				for _, callee := range callees {
					lower := strings.ToLower(callee.Name)
					nextStep := TraceStep{SymbolName: callee.Name, SymbolType: callee.Type, FilePath: callee.FilePath, Line: callee.Line}

					if targetNames[lower] {
						if local.found == nil {
							local.found = &TraceResult{Steps: appendStep(item.path, nextStep), Found: true}
						}
						continue
					}

					key := visitKey(callee.FilePath, callee.Name)

					mu.RLock()
					alreadyVisited := visited[key]
					mu.RUnlock()
					if alreadyVisited {
						continue
					}

					mu.Lock()
					if visited[key] {
						mu.Unlock()
						continue
					}
					visited[key] = true
					mu.Unlock()

					local.next = append(local.next, frontierItem{step: nextStep, path: appendStep(item.path, nextStep)})
				}
			}
		}(i)
	}

	for _, item := range level {
		workChan <- item
	}
	close(workChan)
	wg.Wait()

	var next []frontierItem
	var found *TraceResult
	for _, local := range localResults {
		next = append(next, local.next...)
		if found == nil {
			found = local.found
		}
	}
	return next, found
}
