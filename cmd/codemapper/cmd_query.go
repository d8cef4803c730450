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
	"time"

	"github.com/spf13/cobra"

	"github.com/p1rallels/codemapper-sub000/internal/cache"
	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/query"
)

var (
	queryFuzzy         bool
	queryCaseSensitive bool
)

var queryCmd = &cobra.Command{
	Use:   "query <symbol>",
	Short: "Find a symbol by name",
	Long: `query looks up a symbol by exact name, or with --fuzzy by
case-insensitive substring/levenshtein match against every symbol in the
index.

On a large tree query first tries a fast regex prefilter over the raw
files before falling back to the full index, so a single well-known
symbol name can resolve without waiting on a full index build.

Examples:
  codemapper query ParseConfig
  codemapper query --fuzzy parse`,
	Args: cobra.ExactArgs(1),
	Run:  runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryFuzzy, "fuzzy", false, "match by substring/edit-distance instead of exact name")
	queryCmd.Flags().BoolVar(&queryCaseSensitive, "case-sensitive", false, "use case-sensitive matching for the fast-path prefilter")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) {
	start := time.Now()
	name := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// The cache is consulted (but never built from scratch) to serve as
	// FastQueryWithFallback's fallback path if the regex prefilter finds
	// no candidate files at all; a one-off symbol lookup shouldn't pay
	// for a full index build just to discover the prefilter came up dry.
	var cachedIdx *index.CodeIndex
	if !noCache {
		if loaded, loadErr := cache.NewManager().Load(rootPath, extensionsIn); loadErr == nil && loaded != nil {
			cachedIdx = loaded.Index
		}
	}

	filter := query.NewFilter(name, queryCaseSensitive, extensionsIn)
	symbols, err := filter.FastQueryWithFallback(ctx, registry, rootPath, cachedIdx, name, queryFuzzy)

	code := OutputResult(outputConfig(), "query", start, symbols, false, err)
	if code == CLIExitSuccess && len(symbols) == 0 {
		fmt.Fprintf(os.Stderr, "no symbol matching %q found\n", name)
		code = CLIExitFindings
	}
	os.Exit(code)
}
