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

	"github.com/p1rallels/codemapper-sub000/internal/graph"
)

var callgraphFuzzy bool

var callersCmd = &cobra.Command{
	Use:   "callers <symbol>",
	Short: "Find every call site that invokes a symbol",
	Long: `callers scans the index for call sites that invoke symbol, by
name match within each file's body.

Examples:
  codemapper callers ParseConfig
  codemapper callers --fuzzy parse`,
	Args: cobra.ExactArgs(1),
	Run:  runCallers,
}

var calleesCmd = &cobra.Command{
	Use:   "callees <symbol>",
	Short: "Find every symbol a function calls",
	Long: `callees parses symbol's own body and reports the names it
invokes.

Examples:
  codemapper callees RunServer`,
	Args: cobra.ExactArgs(1),
	Run:  runCallees,
}

var traceCmd = &cobra.Command{
	Use:   "trace <from> <to>",
	Short: "Find a call-graph path between two symbols",
	Long: `trace does a bounded breadth-first search over the call graph
from "from" to "to" and prints the hop-by-hop path if one exists within
the search depth limit.

Examples:
  codemapper trace main handleRequest`,
	Args: cobra.ExactArgs(2),
	Run:  runTrace,
}

var testsCmd = &cobra.Command{
	Use:   "tests <symbol>",
	Short: "Find tests that exercise a symbol",
	Long: `tests scans the index for test functions whose body calls
symbol by name.

Examples:
  codemapper tests ParseConfig`,
	Args: cobra.ExactArgs(1),
	Run:  runTests,
}

var untestedCmd = &cobra.Command{
	Use:   "untested",
	Short: "List symbols with no test calling them",
	Long: `untested reports every non-test symbol in the index that no
test function anywhere calls by name. Exported symbols with no callers
at all are still reported: an uncalled symbol cannot be under test.

Examples:
  codemapper untested`,
	Run: runUntested,
}

var entrypointsCmd = &cobra.Command{
	Use:   "entrypoints",
	Short: "List exported symbols never called from within the index",
	Long: `entrypoints reports exported symbols with no internal caller,
categorized as a likely main entrypoint, a likely API surface function,
or possibly-unused code.

Examples:
  codemapper entrypoints`,
	Run: runEntrypoints,
}

var impactMaxDepth int

var impactCmd = &cobra.Command{
	Use:   "impact <symbol>",
	Short: "Estimate the blast radius of changing a symbol",
	Long: `impact walks the transitive closure of callers of symbol up to
--max-depth levels, reporting each reached symbol at the shallowest
depth it was found at. This approximates how far a change to symbol
could ripple through the codebase.

Examples:
  codemapper impact ParseConfig --max-depth 3`,
	Args: cobra.ExactArgs(1),
	Run:  runImpact,
}

func init() {
	for _, c := range []*cobra.Command{callersCmd, calleesCmd, traceCmd, testsCmd, impactCmd} {
		c.Flags().BoolVar(&callgraphFuzzy, "fuzzy", false, "match the symbol name by substring instead of exact")
	}
	impactCmd.Flags().IntVar(&impactMaxDepth, "max-depth", 3, "maximum transitive caller depth to walk")

	rootCmd.AddCommand(callersCmd, calleesCmd, traceCmd, testsCmd, untestedCmd, entrypointsCmd, impactCmd)
}

func runCallers(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var calls []graph.CallInfo
	if err == nil {
		calls, err = graph.FindCallers(ctx, idx, rootPath, args[0], callgraphFuzzy)
	}
	os.Exit(OutputResult(outputConfig(), "callers", start, calls, false, err))
}

func runCallees(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var calls []graph.CallInfo
	if err == nil {
		calls, err = graph.FindCallees(ctx, idx, rootPath, args[0], callgraphFuzzy)
	}
	os.Exit(OutputResult(outputConfig(), "callees", start, calls, false, err))
}

func runTrace(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var result *graph.TraceResult
	if err == nil {
		result, err = graph.TracePath(ctx, idx, rootPath, args[0], args[1], callgraphFuzzy)
	}
	hasFindings := result != nil && !result.Found
	os.Exit(OutputResult(outputConfig(), "trace", start, result, hasFindings, err))
}

func runTests(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var tests []graph.TestInfo
	if err == nil {
		tests, err = graph.FindTests(ctx, idx, rootPath, args[0], callgraphFuzzy)
	}
	hasFindings := err == nil && len(tests) == 0
	os.Exit(OutputResult(outputConfig(), "tests", start, tests, hasFindings, err))
}

func runUntested(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var untested []graph.UntestedInfo
	if err == nil {
		untested, err = graph.FindUntested(ctx, idx, rootPath)
	}
	hasFindings := err == nil && len(untested) > 0
	os.Exit(OutputResult(outputConfig(), "untested", start, untested, hasFindings, err))
}

func runEntrypoints(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var eps []graph.EntrypointInfo
	if err == nil {
		eps, err = graph.FindEntrypoints(ctx, idx, rootPath)
	}
	os.Exit(OutputResult(outputConfig(), "entrypoints", start, eps, false, err))
}

func runImpact(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var nodes []graph.ImpactNode
	if err == nil {
		nodes, err = graph.ImpactRadius(ctx, idx, rootPath, args[0], callgraphFuzzy, impactMaxDepth)
	}
	os.Exit(OutputResult(outputConfig(), "impact", start, nodes, false, err))
}
