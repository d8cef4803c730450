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
	"strings"

	"github.com/p1rallels/codemapper-sub000/internal/gitinfo"
	"github.com/p1rallels/codemapper-sub000/internal/graph"
	"github.com/p1rallels/codemapper-sub000/internal/implementations"
	"github.com/p1rallels/codemapper-sub000/internal/model"
	"github.com/p1rallels/codemapper-sub000/internal/schema"
	"github.com/p1rallels/codemapper-sub000/internal/typeanalysis"
)

// maxListed caps how many entries a human-readable listing prints before
// collapsing the remainder into a "... and N more" line.
const maxListed = 25

func banner(title string) {
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 60))
}

// printHuman renders data as text on stdout. command is used only to decide
// between otherwise-ambiguous renderings (e.g. FindCallers vs FindCallees
// both return []graph.CallInfo); the dispatch itself is on data's concrete
// type.
func printHuman(command string, data interface{}) {
	switch v := data.(type) {
	case nil:
		fmt.Println("(no results)")

	case []model.Symbol:
		printSymbols(v)
	case *model.FileInfo:
		printFileInfo(v)

	case []graph.CallInfo:
		printCallInfos(command, v)
	case []graph.TestInfo:
		printTestInfos(v)
	case []graph.UntestedInfo:
		printUntestedInfos(v)
	case []graph.EntrypointInfo:
		printEntrypoints(v)
	case *graph.TraceResult:
		printTraceResult(v)
	case []graph.ImpactNode:
		printImpactNodes(v)

	case []implementations.Implementation:
		printImplementations(v)

	case []schema.Info:
		printSchemaInfos(v)

	case []typeanalysis.Info:
		printTypeInfos(v)

	case *gitinfo.BlameResult:
		printBlameResult(v)
	case []gitinfo.HistoryEntry:
		printHistoryEntries(v)
	case *gitinfo.DiffResult:
		printDiffResult(v)
	case *gitinfo.Snapshot:
		printSnapshot(v)
	case []string:
		printStrings(v)

	case fmt.Stringer:
		fmt.Println(v.String())

	default:
		fmt.Printf("%+v\n", v)
	}
}

func printSymbols(symbols []model.Symbol) {
	banner(fmt.Sprintf("Symbols (%d)", len(symbols)))
	for i, s := range symbols {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(symbols)-maxListed)
			break
		}
		fmt.Printf("  %-10s %-30s %s:%d\n", s.Type.ShortCode(), s.Name, s.FilePath, s.LineStart)
		if s.Signature != "" {
			fmt.Printf("             %s\n", s.Signature)
		}
	}
}

func printFileInfo(f *model.FileInfo) {
	banner(f.Path)
	fmt.Printf("Language: %s\n", f.Language)
	fmt.Printf("Size: %d bytes\n", f.Size)
	fmt.Printf("Hash: %s\n", f.Hash)
	fmt.Printf("Symbols: %d\n", len(f.Symbols))
	for _, s := range f.Symbols {
		fmt.Printf("  %-10s %-30s line %d-%d\n", s.Type.ShortCode(), s.Name, s.LineStart, s.LineEnd)
	}
	fmt.Printf("Dependencies: %d\n", len(f.Dependencies))
	for _, d := range f.Dependencies {
		fmt.Printf("  %s\n", d.ImportName)
	}
}

func printCallInfos(command string, calls []graph.CallInfo) {
	title := "Callers"
	if command == "callees" {
		title = "Callees"
	}
	banner(fmt.Sprintf("%s (%d)", title, len(calls)))
	for i, c := range calls {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(calls)-maxListed)
			break
		}
		fmt.Printf("  %-30s %s:%d\n", c.Name, c.FilePath, c.Line)
		if c.Context != "" {
			fmt.Printf("    %s\n", strings.TrimSpace(c.Context))
		}
	}
}

func printTestInfos(tests []graph.TestInfo) {
	banner(fmt.Sprintf("Tests (%d)", len(tests)))
	for i, t := range tests {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(tests)-maxListed)
			break
		}
		fmt.Printf("  %-30s %s:%d (calls at line %d)\n", t.TestName, t.FilePath, t.Line, t.CallLine)
	}
}

func printUntestedInfos(untested []graph.UntestedInfo) {
	banner(fmt.Sprintf("Untested symbols (%d)", len(untested)))
	for i, u := range untested {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(untested)-maxListed)
			break
		}
		fmt.Printf("  %-10s %-30s %s:%d\n", u.Type.ShortCode(), u.Name, u.FilePath, u.Line)
	}
}

func printEntrypoints(eps []graph.EntrypointInfo) {
	banner(fmt.Sprintf("Entrypoints (%d)", len(eps)))
	for i, e := range eps {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(eps)-maxListed)
			break
		}
		fmt.Printf("  [%s] %-30s %s:%d\n", e.Category, e.Name, e.FilePath, e.Line)
	}
}

func printTraceResult(t *graph.TraceResult) {
	if !t.Found {
		fmt.Println("No path found.")
		return
	}
	banner(fmt.Sprintf("Trace path (%d hops)", len(t.Steps)))
	for i, step := range t.Steps {
		arrow := "  "
		if i > 0 {
			arrow = "-> "
		}
		fmt.Printf("%s%s (%s:%d)\n", arrow, step.SymbolName, step.FilePath, step.Line)
	}
}

func printImpactNodes(nodes []graph.ImpactNode) {
	banner(fmt.Sprintf("Impact radius (%d symbols)", len(nodes)))
	for i, n := range nodes {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(nodes)-maxListed)
			break
		}
		fmt.Printf("  depth %d: %-30s %s:%d\n", n.Depth, n.Name, n.FilePath, n.Line)
	}
}

func printImplementations(impls []implementations.Implementation) {
	banner(fmt.Sprintf("Implementations (%d)", len(impls)))
	for i, impl := range impls {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(impls)-maxListed)
			break
		}
		fmt.Printf("  %-30s %s %-30s %s:%d\n", impl.ImplementorName, impl.Kind, impl.InterfaceName, impl.FilePath, impl.Line)
	}
}

func printSchemaInfos(infos []schema.Info) {
	for _, info := range infos {
		banner(fmt.Sprintf("%s (%s:%d)", info.SymbolName, info.FilePath, info.Line))
		for _, f := range info.Fields {
			optional := ""
			if f.IsOptional {
				optional = " (optional)"
			}
			fmt.Printf("  %-20s %-20s%s\n", f.Name, f.TypeName, optional)
			if f.HasDefault {
				fmt.Printf("                       = %s\n", f.DefaultValue)
			}
		}
		fmt.Println()
	}
}

func printTypeInfos(infos []typeanalysis.Info) {
	for _, info := range infos {
		banner(fmt.Sprintf("%s (%s:%d)", info.SymbolName, info.FilePath, info.Line))
		fmt.Printf("  %s\n", info.Signature)
		for _, p := range info.Params {
			resolved := "unresolved"
			if p.Resolved {
				resolved = p.DefinedIn
			}
			fmt.Printf("    param %-15s %-15s %s\n", p.Name, p.TypeName, resolved)
		}
		if info.Return != nil {
			fmt.Printf("    return %-14s %s\n", info.Return.TypeName, info.Return.DefinedIn)
		}
		fmt.Println()
	}
}

func printBlameResult(b *gitinfo.BlameResult) {
	banner(fmt.Sprintf("Blame: %s", b.SymbolName))
	fmt.Printf("Last changed by %s in %s\n", b.LastCommit.ShortHash, b.LastCommit.Date)
	fmt.Printf("  %s\n", b.LastCommit.Message)
	if b.OldSignature != b.NewSignature {
		fmt.Printf("Old: %s\n", b.OldSignature)
		fmt.Printf("New: %s\n", b.NewSignature)
	}
	fmt.Printf("Current location: line %d-%d\n", b.CurrentLineStart, b.CurrentLineEnd)
}

func printHistoryEntries(entries []gitinfo.HistoryEntry) {
	banner(fmt.Sprintf("History (%d entries)", len(entries)))
	for i, e := range entries {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(entries)-maxListed)
			break
		}
		status := "present"
		if !e.Existed {
			status = "absent"
		}
		fmt.Printf("  %s %-8s %s\n", e.Commit.ShortHash, status, e.Signature)
	}
}

func printDiffResult(d *gitinfo.DiffResult) {
	banner(fmt.Sprintf("Diff against %s (%d files analyzed)", d.Commit, d.FilesAnalyzed))
	for i, s := range d.Symbols {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(d.Symbols)-maxListed)
			break
		}
		fmt.Printf("  [%s] %-30s %s\n", s.ChangeType, s.Name, s.FilePath)
	}
}

func printSnapshot(s *gitinfo.Snapshot) {
	banner(fmt.Sprintf("Snapshot %q", s.Name))
	fmt.Printf("Taken: %s\n", s.Timestamp)
	fmt.Printf("Commit: %s\n", s.Commit)
	fmt.Printf("Files: %d, Symbols: %d\n", s.FileCount, s.SymbolCount)
}

func printStrings(items []string) {
	banner(fmt.Sprintf("Results (%d)", len(items)))
	for i, s := range items {
		if i >= maxListed {
			fmt.Printf("... and %d more\n", len(items)-maxListed)
			break
		}
		fmt.Printf("  %s\n", s)
	}
}
