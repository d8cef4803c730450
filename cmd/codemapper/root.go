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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/p1rallels/codemapper-sub000/internal/config"
)

// --- Global flags ---
var (
	rootPath     string
	extensionsIn []string
	jsonOutput   bool
	compactJSON  bool
	quietMode    bool
	noCache      bool
	rebuildCache bool

	loadedConfig config.Config

	rootCmd = &cobra.Command{
		Use:   "codemapper",
		Short: "Query a codebase's structure: symbols, call graph, history",
		Long: `codemapper builds an index of a source tree's functions, classes,
and methods, and answers structural questions over it: who calls this
symbol, what calls it transitively, which exported symbols have no test,
how has a symbol's signature changed over time.

The index is cached under <root>/.codemapper and revalidated on each run;
pass --rebuild-cache to force a full reindex, or --no-cache to skip
caching entirely.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			path := rootPath
			if path == "" {
				path = "."
			}
			cfgPath := config.DefaultPath(path)
			cfg, err := config.Load(cfgPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
				os.Exit(CLIExitError)
			}
			loadedConfig = cfg

			if rootPath == "" {
				rootPath = cfg.ResolveRoot(filepath.Dir(cfgPath), ".")
			}
			if len(extensionsIn) == 0 {
				extensionsIn = cfg.ResolveExtensions()
			}
			if !cmd.Flags().Changed("json") {
				jsonOutput = cfg.Output.JSON
			}
			if !cmd.Flags().Changed("compact") {
				compactJSON = cfg.Output.Compact
			}
			if !cmd.Flags().Changed("quiet") {
				quietMode = cfg.Output.Quiet
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootPath, "root", "", "project root to analyze (default \".\")")
	rootCmd.PersistentFlags().StringSliceVar(&extensionsIn, "extensions", nil, "file extensions to include, without leading dots")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON instead of text")
	rootCmd.PersistentFlags().BoolVar(&compactJSON, "compact", false, "emit compact (non-indented) JSON")
	rootCmd.PersistentFlags().BoolVar(&quietMode, "quiet", false, "suppress all output, rely on the exit code only")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "never read or write the on-disk index cache")
	rootCmd.PersistentFlags().BoolVar(&rebuildCache, "rebuild-cache", false, "discard the on-disk cache and reindex from scratch")
}

func outputConfig() OutputConfig {
	return OutputConfig{JSON: jsonOutput, Compact: compactJSON, Quiet: quietMode}
}
