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
)

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Show every symbol and dependency recorded for one file",
	Long: `file looks up path (relative to --root) in the index and prints its
recorded symbols and dependencies.

Examples:
  codemapper file internal/graph/callgraph.go`,
	Args: cobra.ExactArgs(1),
	Run:  runFile,
}

func init() {
	rootCmd.AddCommand(fileCmd)
}

func runFile(cmd *cobra.Command, args []string) {
	start := time.Now()
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	if err != nil {
		os.Exit(OutputResult(outputConfig(), "file", start, nil, false, err))
	}

	fileInfo, ok := idx.GetFile(path)
	if !ok {
		err = fmt.Errorf("file %q not found in index", path)
		os.Exit(OutputResult(outputConfig(), "file", start, nil, false, err))
	}

	os.Exit(OutputResult(outputConfig(), "file", start, &fileInfo, false, nil))
}
