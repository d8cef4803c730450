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
	"os"
	"time"

	"github.com/spf13/cobra"
)

var depsReverse bool

var depsCmd = &cobra.Command{
	Use:   "deps <path>",
	Short: "List a file's imports, or (with --reverse) its importers",
	Long: `deps prints the dependencies a file imports. With --reverse it
instead prints every indexed file whose dependency list appears to
reference path, by matching path's base name against each recorded
import's last path segment; this is a name-based approximation, not a
resolved module graph, so it can both miss aliased imports and match an
unrelated same-named module.

Examples:
  codemapper deps internal/graph/callgraph.go
  codemapper deps --reverse internal/index/index.go`,
	Args: cobra.ExactArgs(1),
	Run:  runDeps,
}

func init() {
	depsCmd.Flags().BoolVar(&depsReverse, "reverse", false, "list files that depend on path instead of path's own dependencies")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) {
	start := time.Now()
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var results []string
	if err == nil {
		if depsReverse {
			results = idx.UsedByFile(path)
		} else {
			results = idx.GetDependencies(path)
		}
	}

	os.Exit(OutputResult(outputConfig(), "deps", start, results, false, err))
}
