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
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the index: file, symbol, and per-type counts",
	Long: `stats reports how many files and symbols are indexed, broken down
by symbol type (function, class, method, and so on).

Examples:
  codemapper stats
  codemapper stats --json`,
	Run: runStats,
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "List every indexed file with its symbol count",
	Long: `map prints one line per indexed file with the number of symbols
recorded for it, sorted by path. Useful for spotting files the parser
skipped or under-recognized.

Examples:
  codemapper map`,
	Run: runMap,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(mapCmd)
}

type statsResult struct {
	TotalFiles   int            `json:"total_files"`
	TotalSymbols int            `json:"total_symbols"`
	ByType       map[string]int `json:"by_type"`
}

var allSymbolTypes = []model.SymbolType{
	model.SymbolFunction, model.SymbolClass, model.SymbolMethod,
	model.SymbolEnum, model.SymbolStaticField, model.SymbolInterface,
	model.SymbolTypeAlias, model.SymbolHeading, model.SymbolCodeBlock,
}

func runStats(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var result statsResult
	if err == nil {
		result = statsResult{
			TotalFiles:   idx.TotalFiles(),
			TotalSymbols: idx.TotalSymbols(),
			ByType:       map[string]int{},
		}
		for _, t := range allSymbolTypes {
			if n := idx.SymbolsByType(t); n > 0 {
				result.ByType[t.String()] = n
			}
		}
	}

	os.Exit(OutputResult(outputConfig(), "stats", start, result, false, err))
}

func runMap(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var lines []string
	if err == nil {
		files := idx.Files()
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
		for _, f := range files {
			lines = append(lines, fmt.Sprintf("%-50s %d symbols", f.Path, len(f.Symbols)))
		}
	}

	os.Exit(OutputResult(outputConfig(), "map", start, lines, false, err))
}
