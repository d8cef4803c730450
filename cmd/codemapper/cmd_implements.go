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

	"github.com/p1rallels/codemapper-sub000/internal/implementations"
)

var implementsFuzzy bool

var implementsCmd = &cobra.Command{
	Use:   "implements <interface>",
	Short: "Find implementors, subclasses, or trait impls of a type",
	Long: `implements scans every indexed file for a language-appropriate
"implements" relationship targeting interface: Go structs satisfying an
interface by convention, Python/Java classes in an inheritance list,
Rust impl blocks, and TypeScript "implements"/"extends" clauses.

Examples:
  codemapper implements Handler
  codemapper implements --fuzzy Repository`,
	Args: cobra.ExactArgs(1),
	Run:  runImplements,
}

func init() {
	implementsCmd.Flags().BoolVar(&implementsFuzzy, "fuzzy", false, "match the interface name by substring instead of exact")
	rootCmd.AddCommand(implementsCmd)
}

func runImplements(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var impls []implementations.Implementation
	if err == nil {
		impls, err = implementations.Find(ctx, idx, args[0], implementsFuzzy)
	}
	os.Exit(OutputResult(outputConfig(), "implements", start, impls, false, err))
}
