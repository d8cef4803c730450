// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package index holds the in-memory CodeIndex: a flat symbol vector plus
// the name/file/dependency lookup maps built on top of it. CodeIndex is not
// safe for concurrent mutation — callers (the indexer's aggregator
// goroutine) are expected to serialize writes; reads are safe once writes
// have stopped.
package index

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// CodeIndex is the in-memory symbol table built from a set of FileInfo
// records. Removing a file tombstones its symbol slots rather than
// shifting the underlying vector; call Compact to reclaim the space.
type CodeIndex struct {
	files       map[string]model.FileInfo
	symbols     []model.Symbol
	live        []bool
	symbolIndex map[string][]int
	fileSymbols map[string][]int
	dependencies map[string][]string
}

// New returns an empty CodeIndex.
func New() *CodeIndex {
	return &CodeIndex{
		files:        make(map[string]model.FileInfo),
		symbolIndex:  make(map[string][]int),
		fileSymbols:  make(map[string][]int),
		dependencies: make(map[string][]string),
	}
}

// AddFile appends file's symbols to the flat vector and updates every
// derived index. If path was already present it is overwritten; callers
// that need clean replacement should RemoveFile first.
func (idx *CodeIndex) AddFile(file model.FileInfo) {
	path := file.Path

	symbolIndices := make([]int, 0, len(file.Symbols))
	for _, sym := range file.Symbols {
		pos := len(idx.symbols)
		idx.symbols = append(idx.symbols, sym)
		idx.live = append(idx.live, true)
		symbolIndices = append(symbolIndices, pos)
		idx.symbolIndex[sym.Name] = append(idx.symbolIndex[sym.Name], pos)
	}
	idx.fileSymbols[path] = symbolIndices

	deps := make([]string, 0, len(file.Dependencies))
	for _, d := range file.Dependencies {
		deps = append(deps, d.ImportName)
	}
	idx.dependencies[path] = deps

	idx.files[path] = file
}

// RemoveFile tombstones every symbol belonging to path and deletes path's
// entries from files, fileSymbols and dependencies. Tombstoned positions
// stay in the symbols vector (so other files' indices stay valid) until
// Compact is called.
func (idx *CodeIndex) RemoveFile(path string) {
	for _, pos := range idx.fileSymbols[path] {
		if pos >= 0 && pos < len(idx.live) {
			idx.live[pos] = false
		}
	}
	delete(idx.files, path)
	delete(idx.fileSymbols, path)
	delete(idx.dependencies, path)
}

// Compact rebuilds the symbols vector in place, dropping every tombstoned
// entry while preserving the relative order of survivors, and rewrites
// symbolIndex/fileSymbols so every stored position is valid again.
func (idx *CodeIndex) Compact() {
	newSymbols := make([]model.Symbol, 0, len(idx.symbols))
	remap := make([]int, len(idx.symbols))
	for old, alive := range idx.live {
		if !alive {
			remap[old] = -1
			continue
		}
		remap[old] = len(newSymbols)
		newSymbols = append(newSymbols, idx.symbols[old])
	}

	newSymbolIndex := make(map[string][]int, len(idx.symbolIndex))
	for name, positions := range idx.symbolIndex {
		var kept []int
		for _, p := range positions {
			if np := remap[p]; np >= 0 {
				kept = append(kept, np)
			}
		}
		if len(kept) > 0 {
			newSymbolIndex[name] = kept
		}
	}

	newFileSymbols := make(map[string][]int, len(idx.fileSymbols))
	for path, positions := range idx.fileSymbols {
		var kept []int
		for _, p := range positions {
			if np := remap[p]; np >= 0 {
				kept = append(kept, np)
			}
		}
		newFileSymbols[path] = kept
	}

	idx.symbols = newSymbols
	idx.live = make([]bool, len(newSymbols))
	for i := range idx.live {
		idx.live[i] = true
	}
	idx.symbolIndex = newSymbolIndex
	idx.fileSymbols = newFileSymbols
}

// QuerySymbol returns every live symbol named name, in insertion order.
func (idx *CodeIndex) QuerySymbol(name string) []model.Symbol {
	positions := idx.symbolIndex[name]
	if len(positions) == 0 {
		return nil
	}
	out := make([]model.Symbol, 0, len(positions))
	for _, p := range positions {
		if idx.isLive(p) {
			out = append(out, idx.symbols[p])
		}
	}
	return out
}

type scoredSymbol struct {
	symbol model.Symbol
	score  int
	dist   int
}

// FuzzySearch returns every live symbol whose name contains pattern
// case-insensitively, ranked exact-match > prefix-match > substring (ties
// broken by a shorter Levenshtein distance to pattern), descending.
func (idx *CodeIndex) FuzzySearch(pattern string) []model.Symbol {
	patternLower := strings.ToLower(pattern)

	var scored []scoredSymbol
	for i, sym := range idx.symbols {
		if !idx.isLive(i) {
			continue
		}
		nameLower := strings.ToLower(sym.Name)
		if !strings.Contains(nameLower, patternLower) {
			continue
		}
		var score int
		switch {
		case nameLower == patternLower:
			score = 100
		case strings.HasPrefix(nameLower, patternLower):
			score = 50
		}
		scored = append(scored, scoredSymbol{symbol: sym, score: score, dist: levenshteinDistance(nameLower, patternLower)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].dist < scored[j].dist
	})

	out := make([]model.Symbol, len(scored))
	for i, s := range scored {
		out[i] = s.symbol
	}
	return out
}

// GetFileSymbols returns the live symbols belonging to path, in the order
// the parser produced them.
func (idx *CodeIndex) GetFileSymbols(path string) []model.Symbol {
	positions := idx.fileSymbols[path]
	if len(positions) == 0 {
		return nil
	}
	out := make([]model.Symbol, 0, len(positions))
	for _, p := range positions {
		if idx.isLive(p) {
			out = append(out, idx.symbols[p])
		}
	}
	return out
}

// GetDependencies returns path's import names, or nil if path isn't
// indexed.
func (idx *CodeIndex) GetDependencies(path string) []string {
	return idx.dependencies[path]
}

// GetFile returns the FileInfo for path and whether it was found.
func (idx *CodeIndex) GetFile(path string) (model.FileInfo, bool) {
	f, ok := idx.files[path]
	return f, ok
}

// Files returns every indexed FileInfo, in no particular order.
func (idx *CodeIndex) Files() []model.FileInfo {
	out := make([]model.FileInfo, 0, len(idx.files))
	for _, f := range idx.files {
		out = append(out, f)
	}
	return out
}

// Symbols returns every live symbol in storage order.
func (idx *CodeIndex) Symbols() []model.Symbol {
	out := make([]model.Symbol, 0, len(idx.symbols))
	for i, s := range idx.symbols {
		if idx.isLive(i) {
			out = append(out, s)
		}
	}
	return out
}

// UsedByFile returns the paths of every indexed file whose dependency list
// contains an import name matching path's base name with its extension
// stripped. This is a pragmatic basename-containment approximation, not
// a language-aware module resolver: no import is actually resolved to the
// file it points at, so both false positives (an unrelated file importing
// a same-named module from a different package) and false negatives
// (aliased or re-exported imports) are possible. Acceptable per the
// project's "no cross-file type resolution beyond name match" boundary.
func (idx *CodeIndex) UsedByFile(path string) []string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return nil
	}

	var out []string
	for p, deps := range idx.dependencies {
		if p == path {
			continue
		}
		for _, dep := range deps {
			depBase := dep
			if i := strings.LastIndex(dep, "/"); i >= 0 {
				depBase = dep[i+1:]
			}
			if depBase == base {
				out = append(out, p)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// TotalFiles returns the number of indexed files.
func (idx *CodeIndex) TotalFiles() int { return len(idx.files) }

// TotalSymbols returns the number of live symbols.
func (idx *CodeIndex) TotalSymbols() int {
	total := 0
	for i := range idx.symbols {
		if idx.isLive(i) {
			total++
		}
	}
	return total
}

// SymbolsByType counts live symbols of the given type.
func (idx *CodeIndex) SymbolsByType(t model.SymbolType) int {
	count := 0
	for i, s := range idx.symbols {
		if idx.isLive(i) && s.Type == t {
			count++
		}
	}
	return count
}

func (idx *CodeIndex) isLive(pos int) bool {
	return pos >= 0 && pos < len(idx.live) && idx.live[pos]
}

// levenshteinDistance returns the edit distance between a and b.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
