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

	"github.com/p1rallels/codemapper-sub000/internal/typeanalysis"
)

var typesFuzzy bool

var typesCmd = &cobra.Command{
	Use:   "types <symbol>",
	Short: "Show a function's parameter and return types",
	Long: `types resolves symbol against the index and reports its
parameter and return types, along with where each type is defined
when it resolves to a symbol already in the index.

Examples:
  codemapper types HandleRequest`,
	Args: cobra.ExactArgs(1),
	Run:  runTypes,
}

func init() {
	typesCmd.Flags().BoolVar(&typesFuzzy, "fuzzy", false, "match the symbol name by substring instead of exact")
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var infos []typeanalysis.Info
	if err == nil {
		infos, err = typeanalysis.Analyze(idx, args[0], typesFuzzy)
	}
	os.Exit(OutputResult(outputConfig(), "types", start, infos, false, err))
}
