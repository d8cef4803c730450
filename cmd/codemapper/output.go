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
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Exit codes every subcommand returns via os.Exit.
const (
	CLIExitSuccess  = 0 // query completed, nothing noteworthy
	CLIExitFindings = 1 // query completed with findings (e.g. untested symbols)
	CLIExitError    = 2 // the operation itself failed
)

// OutputConfig controls how a command renders its result, set from
// persistent flags on rootCmd.
type OutputConfig struct {
	JSON    bool
	Compact bool
	Quiet   bool
}

// CommandResult is the stable JSON envelope every subcommand's --json
// output is wrapped in.
type CommandResult struct {
	APIVersion string      `json:"api_version"`
	Command    string      `json:"command"`
	Timestamp  time.Time   `json:"timestamp"`
	DurationMs int64       `json:"duration_ms"`
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

const apiVersion = "1.0"

// OutputJSON encodes data to stdout, indented unless compact is set.
func OutputJSON(data interface{}, compact bool) error {
	encoder := json.NewEncoder(os.Stdout)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// OutputError reports a command failure either as a CommandResult (JSON
// mode) or a plain stderr line.
func OutputError(jsonMode bool, msg string, err error) {
	if jsonMode {
		result := CommandResult{
			APIVersion: apiVersion,
			Timestamp:  time.Now(),
			Success:    false,
			Error:      fmt.Sprintf("%s: %v", msg, err),
		}
		_ = OutputJSON(result, false)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}

// OutputResult renders data per cfg and returns the process exit code the
// caller should use. hasFindings marks a successful-but-noteworthy result
// (e.g. an untested-symbols list that isn't empty).
func OutputResult(cfg OutputConfig, command string, start time.Time, data interface{}, hasFindings bool, err error) int {
	if err != nil {
		if !cfg.Quiet {
			OutputError(cfg.JSON, "command failed", err)
		}
		return CLIExitError
	}

	if !cfg.Quiet {
		if cfg.JSON {
			result := CommandResult{
				APIVersion: apiVersion,
				Command:    command,
				Timestamp:  time.Now(),
				DurationMs: time.Since(start).Milliseconds(),
				Success:    true,
				Data:       data,
			}
			if encErr := OutputJSON(result, cfg.Compact); encErr != nil {
				fmt.Fprintf(os.Stderr, "failed to encode JSON: %v\n", encErr)
				return CLIExitError
			}
		} else {
			printHuman(command, data)
		}
	}

	if hasFindings {
		return CLIExitFindings
	}
	return CLIExitSuccess
}
