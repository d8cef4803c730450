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

	"github.com/p1rallels/codemapper-sub000/internal/gitinfo"
)

var (
	blameFile string
	diffFrom  string
)

var blameCmd = &cobra.Command{
	Use:   "blame <symbol>",
	Short: "Show the commit that last changed a symbol's signature",
	Long: `blame walks a symbol's git history (via --file) to find the
most recent commit that changed its signature or line count, and
reports the old and new signature.

Examples:
  codemapper blame ParseConfig --file internal/config/config.go`,
	Args: cobra.ExactArgs(1),
	Run:  runBlame,
}

var historyCmd = &cobra.Command{
	Use:   "history <symbol>",
	Short: "Show every recorded change to a symbol over its git history",
	Long: `history walks --file's commit log and reports every commit at
which the named symbol's signature or line range changed, including
commits where it did not yet exist or had already been removed.

Examples:
  codemapper history ParseConfig --file internal/config/config.go`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the working tree's symbols against a commit",
	Long: `diff parses every changed file (filtered to --extensions) both
in the working tree and at --from, and reports which symbols were
added, deleted, modified, or had their signature changed.

Examples:
  codemapper diff --from HEAD~5
  codemapper diff --from main`,
	Run: runDiff,
}

func init() {
	blameCmd.Flags().StringVar(&blameFile, "file", "", "file the symbol is declared in, relative to --root")
	historyCmd.Flags().StringVar(&blameFile, "file", "", "file the symbol is declared in, relative to --root")
	diffCmd.Flags().StringVar(&diffFrom, "from", "HEAD", "commit or ref to diff the working tree against")

	rootCmd.AddCommand(blameCmd, historyCmd, diffCmd)
}

func runBlame(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	exec, err := gitinfo.NewExecutor(rootPath)
	var result *gitinfo.BlameResult
	if err == nil {
		result, err = exec.BlameSymbol(ctx, registry, blameFile, args[0])
	}
	os.Exit(OutputResult(outputConfig(), "blame", start, result, false, err))
}

func runHistory(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	exec, err := gitinfo.NewExecutor(rootPath)
	var entries []gitinfo.HistoryEntry
	if err == nil {
		entries, err = exec.HistorySymbol(ctx, registry, blameFile, args[0])
	}
	os.Exit(OutputResult(outputConfig(), "history", start, entries, false, err))
}

func runDiff(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	exec, err := gitinfo.NewExecutor(rootPath)
	var result *gitinfo.DiffResult
	if err == nil {
		result, err = exec.ComputeDiff(ctx, registry, diffFrom, "", extensionsIn)
	}
	os.Exit(OutputResult(outputConfig(), "diff", start, result, false, err))
}
