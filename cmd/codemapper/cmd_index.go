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

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the on-disk symbol index",
	Long: `index walks --root, parses every matching file, and writes the
result to the on-disk cache under <root>/.codemapper. Every other
subcommand does this implicitly on a cache miss; run it directly to
warm the cache ahead of time or to force a rebuild with --rebuild-cache.

Examples:
  codemapper index
  codemapper index --root ./service --rebuild-cache`,
	Run: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	data := map[string]interface{}{}
	if err == nil {
		data["files"] = idx.TotalFiles()
		data["symbols"] = idx.TotalSymbols()
	}

	code := OutputResult(outputConfig(), "index", start, data, false, err)
	os.Exit(code)
}
