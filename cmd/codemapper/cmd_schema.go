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

	"github.com/p1rallels/codemapper-sub000/internal/schema"
)

var schemaFuzzy bool

var schemaCmd = &cobra.Command{
	Use:   "schema <symbol>",
	Short: "Extract a class/struct/enum's fields",
	Long: `schema resolves symbol against the index (class, struct, enum,
or interface shaped symbols) and parses its declaration for field
name, type, default value, and optionality.

Examples:
  codemapper schema Config
  codemapper schema --fuzzy config`,
	Args: cobra.ExactArgs(1),
	Run:  runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaFuzzy, "fuzzy", false, "match the symbol name by substring instead of exact")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var infos []schema.Info
	if err == nil {
		infos, err = schema.Analyze(ctx, idx, args[0], schemaFuzzy)
	}
	os.Exit(OutputResult(outputConfig(), "schema", start, infos, false, err))
}
