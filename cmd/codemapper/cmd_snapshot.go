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

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save, list, diff, or delete named point-in-time index captures",
	Long: `snapshot manages named captures of the current index's symbol
set, persisted under <root>/.codemapper/snapshots. Snapshots let you
compare the current index against an earlier point without needing
that point to still be a reachable commit.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Capture the current index under a name",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshot names",
	Run:   runSnapshotList,
}

var snapshotDiffCmd = &cobra.Command{
	Use:   "diff <name>",
	Short: "Compare the current index against a saved snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotDiff,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotDelete,
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotDiffCmd, snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotSave(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	idx, err := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
	var snap *gitinfo.Snapshot
	if err == nil {
		exec, execErr := gitinfo.NewExecutor(rootPath)
		if execErr != nil {
			err = execErr
		} else {
			snap, err = exec.SaveSnapshot(ctx, idx, rootPath, args[0])
		}
	}
	os.Exit(OutputResult(outputConfig(), "snapshot save", start, snap, false, err))
}

func runSnapshotList(cmd *cobra.Command, args []string) {
	start := time.Now()
	names, err := gitinfo.ListSnapshots(rootPath)
	os.Exit(OutputResult(outputConfig(), "snapshot list", start, names, false, err))
}

func runSnapshotDiff(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snap, err := gitinfo.LoadSnapshot(rootPath, args[0])
	var result *gitinfo.DiffResult
	if err == nil {
		idx, idxErr := loadOrBuildIndex(ctx, rootPath, extensionsIn, noCache, rebuildCache)
		if idxErr != nil {
			err = idxErr
		} else {
			result = gitinfo.CompareToSnapshot(idx, snap)
		}
	}
	os.Exit(OutputResult(outputConfig(), "snapshot diff", start, result, false, err))
}

func runSnapshotDelete(cmd *cobra.Command, args []string) {
	start := time.Now()
	err := gitinfo.DeleteSnapshot(rootPath, args[0])
	os.Exit(OutputResult(outputConfig(), "snapshot delete", start, nil, false, err))
}
