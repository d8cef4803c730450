// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// CallInfo is one resolved edge in the call graph: a name that was called
// (or that calls something), where it's defined (or "<external>" when the
// index has no matching symbol), and the line/context the call was found at.
type CallInfo struct {
	Name     string
	Type     model.SymbolType
	FilePath string
	Line     int
	Context  string
}

// TestInfo is one place a symbol is exercised from a test.
type TestInfo struct {
	TestName string
	TestType model.SymbolType
	FilePath string
	Line     int
	CallLine int
	Context  string
}

// UntestedInfo is a non-test symbol with no test calling it by name
// anywhere in the index.
type UntestedInfo struct {
	Name      string
	Type      model.SymbolType
	FilePath  string
	Line      int
	Signature string
}

// EntrypointCategory ranks how likely an uncalled, exported symbol is to be
// a genuine entrypoint rather than dead code.
type EntrypointCategory int

const (
	MainEntry EntrypointCategory = iota
	ApiFunction
	PossiblyUnused
)

func (c EntrypointCategory) String() string {
	switch c {
	case MainEntry:
		return "Main Entrypoint"
	case ApiFunction:
		return "API Function"
	default:
		return "Possibly Unused"
	}
}

// EntrypointInfo is one exported, never-internally-called symbol.
type EntrypointInfo struct {
	Name       string
	Type       model.SymbolType
	FilePath   string
	Line       int
	Signature  string
	IsExported bool
	Category   EntrypointCategory
}

func readFile(root, path string) ([]byte, bool) {
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	if err != nil {
		slog.Debug("skipping unreadable file", slog.String("path", path), slog.Any("error", err))
		return nil, false
	}
	return content, true
}

func symbolBody(content []byte, symbol model.Symbol) (string, bool) {
	lines := strings.Split(string(content), "\n")
	start := symbol.LineStart - 1
	if start < 0 {
		start = 0
	}
	if start >= len(lines) {
		return "", false
	}
	end := symbol.LineEnd
	if end > len(lines) {
		end = len(lines)
	}
	if end < start {
		end = start
	}
	return strings.Join(lines[start:end], "\n"), true
}

// findEnclosingSymbol returns the smallest symbol in path whose range
// contains line, or nil if none does.
func findEnclosingSymbol(idx *index.CodeIndex, path string, line int) *model.Symbol {
	var best *model.Symbol
	bestSpan := -1
	for _, sym := range idx.GetFileSymbols(path) {
		if sym.LineStart > line || sym.LineEnd < line {
			continue
		}
		span := sym.LineEnd - sym.LineStart
		if best == nil || span < bestSpan {
			s := sym
			best = &s
			bestSpan = span
		}
	}
	return best
}

func nameMatches(name, query string, fuzzy bool) bool {
	if fuzzy {
		return strings.Contains(strings.ToLower(name), strings.ToLower(query))
	}
	return name == query
}

// FindCallers returns every call site across the whole index whose callee
// name matches symbolName, tagged with the symbol that encloses the call
// (or "<top-level>" when the call sits outside any symbol's range).
func FindCallers(ctx context.Context, idx *index.CodeIndex, root, symbolName string, fuzzy bool) ([]CallInfo, error) {
	var callers []CallInfo
	seen := make(map[string]bool)

	for _, file := range idx.Files() {
		content, ok := readFile(root, file.Path)
		if !ok {
			continue
		}

		calls, err := ExtractCalls(ctx, content, file.Language)
		if err != nil {
			return nil, err
		}

		for _, call := range calls {
			if !nameMatches(call.Name, symbolName, fuzzy) {
				continue
			}

			key := file.Path + ":" + strconv.Itoa(call.Line)
			if seen[key] {
				continue
			}
			seen[key] = true

			enclosing := findEnclosingSymbol(idx, file.Path, call.Line)
			name, typ := "<top-level>", model.SymbolFunction
			if enclosing != nil {
				name, typ = enclosing.Name, enclosing.Type
			}

			callers = append(callers, CallInfo{
				Name:     name,
				Type:     typ,
				FilePath: file.Path,
				Line:     call.Line,
				Context:  strings.TrimSpace(call.Context),
			})
		}
	}

	return callers, nil
}

// FindCallees returns every symbol that the symbol(s) named symbolName call,
// resolved against the index where possible and reported as "<external>"
// otherwise. Every index entry matching symbolName is processed, not just
// the first.
func FindCallees(ctx context.Context, idx *index.CodeIndex, root, symbolName string, fuzzy bool) ([]CallInfo, error) {
	var symbols []model.Symbol
	if fuzzy {
		symbols = idx.FuzzySearch(symbolName)
	} else {
		symbols = idx.QuerySymbol(symbolName)
	}
	if len(symbols) == 0 {
		return nil, nil
	}

	var callees []CallInfo
	seen := make(map[string]bool)

	for _, symbol := range symbols {
		found, err := findCalleesForSymbol(ctx, idx, root, symbol)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			key := symbol.FilePath + ":" + c.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			callees = append(callees, c)
		}
	}

	return callees, nil
}

func findCalleesForSymbol(ctx context.Context, idx *index.CodeIndex, root string, symbol model.Symbol) ([]CallInfo, error) {
	content, ok := readFile(root, symbol.FilePath)
	if !ok {
		return nil, nil
	}
	body, ok := symbolBody(content, symbol)
	if !ok {
		return nil, nil
	}

	lang := model.LanguageFromExtension(filepath.Ext(symbol.FilePath))
	calls, err := ExtractCalls(ctx, []byte(body), lang)
	if err != nil {
		return nil, err
	}

	var callees []CallInfo
	for _, call := range calls {
		targets := idx.QuerySymbol(call.Name)
		if target := firstSymbol(targets); target != nil {
			callees = append(callees, CallInfo{
				Name:     call.Name,
				Type:     target.Type,
				FilePath: target.FilePath,
				Line:     target.LineStart,
				Context:  target.Signature,
			})
			continue
		}
		callees = append(callees, CallInfo{
			Name:     call.Name,
			Type:     model.SymbolFunction,
			FilePath: "<external>",
			Line:     symbol.LineStart + call.Line - 1,
			Context:  strings.TrimSpace(call.Context),
		})
	}
	return callees, nil
}

// FindTests returns every call site matching symbolName that occurs inside
// a test file or a test-shaped symbol, tagged with the enclosing test.
func FindTests(ctx context.Context, idx *index.CodeIndex, root, symbolName string, fuzzy bool) ([]TestInfo, error) {
	var tests []TestInfo
	seen := make(map[string]bool)

	for _, file := range idx.Files() {
		isTestFile := IsTestFile(file.Path, file.Language)

		content, ok := readFile(root, file.Path)
		if !ok {
			continue
		}

		calls, err := ExtractCalls(ctx, content, file.Language)
		if err != nil {
			return nil, err
		}

		for _, call := range calls {
			if !nameMatches(call.Name, symbolName, fuzzy) {
				continue
			}

			enclosing := findEnclosingSymbol(idx, file.Path, call.Line)
			isTest := isTestFile
			if enclosing != nil {
				isTest = isTestFile || IsTestSymbol(*enclosing, string(content), file.Language)
			}
			if !isTest {
				continue
			}

			key := file.Path + ":" + strconv.Itoa(call.Line)
			if seen[key] {
				continue
			}
			seen[key] = true

			testName, testLine, testType := "<test-file-level>", call.Line, model.SymbolFunction
			if enclosing != nil {
				testName, testLine, testType = enclosing.Name, enclosing.LineStart, enclosing.Type
			}

			tests = append(tests, TestInfo{
				TestName: testName,
				TestType: testType,
				FilePath: file.Path,
				Line:     testLine,
				CallLine: call.Line,
				Context:  strings.TrimSpace(call.Context),
			})
		}
	}

	return tests, nil
}

// FindUntested returns every non-test symbol in the index that no test
// file or test symbol calls by name, sorted by file then line.
func FindUntested(ctx context.Context, idx *index.CodeIndex, root string) ([]UntestedInfo, error) {
	tested := make(map[string]bool)

	for _, file := range idx.Files() {
		content, ok := readFile(root, file.Path)
		if !ok {
			continue
		}

		if IsTestFile(file.Path, file.Language) {
			calls, err := ExtractCalls(ctx, content, file.Language)
			if err != nil {
				return nil, err
			}
			for _, call := range calls {
				tested[call.Name] = true
			}
			continue
		}

		for _, symbol := range idx.GetFileSymbols(file.Path) {
			if !IsTestSymbol(symbol, string(content), file.Language) {
				continue
			}
			body, ok := symbolBody(content, symbol)
			if !ok {
				continue
			}
			calls, err := ExtractCalls(ctx, []byte(body), file.Language)
			if err != nil {
				return nil, err
			}
			for _, call := range calls {
				tested[call.Name] = true
			}
		}
	}

	var untested []UntestedInfo
	for _, file := range idx.Files() {
		if IsTestFile(file.Path, file.Language) {
			continue
		}
		content, ok := readFile(root, file.Path)
		if !ok {
			continue
		}

		for _, symbol := range idx.GetFileSymbols(file.Path) {
			if IsTestSymbol(symbol, string(content), file.Language) {
				continue
			}
			if symbol.Name == "" {
				continue
			}
			if file.Language == model.LanguagePython && strings.HasPrefix(symbol.Name, "_") {
				continue
			}
			if symbol.Type == model.SymbolHeading || symbol.Type == model.SymbolCodeBlock {
				continue
			}
			if tested[symbol.Name] {
				continue
			}

			untested = append(untested, UntestedInfo{
				Name:      symbol.Name,
				Type:      symbol.Type,
				FilePath:  file.Path,
				Line:      symbol.LineStart,
				Signature: symbol.Signature,
			})
		}
	}

	sort.Slice(untested, func(i, j int) bool {
		if untested[i].FilePath != untested[j].FilePath {
			return untested[i].FilePath < untested[j].FilePath
		}
		return untested[i].Line < untested[j].Line
	})

	return untested, nil
}

// FindEntrypoints returns every exported, non-test symbol that nothing in
// the index calls by name, categorized and sorted MainEntry first, then
// ApiFunction, then PossiblyUnused (each bucket ordered by file then line).
//
// Exported-ness is read directly off symbol.IsExported, already computed
// at parse time by every language parser, rather than re-derived from the
// symbol's source line here.
func FindEntrypoints(ctx context.Context, idx *index.CodeIndex, root string) ([]EntrypointInfo, error) {
	called := make(map[string]bool)
	for _, file := range idx.Files() {
		content, ok := readFile(root, file.Path)
		if !ok {
			continue
		}
		calls, err := ExtractCalls(ctx, content, file.Language)
		if err != nil {
			continue
		}
		for _, call := range calls {
			called[call.Name] = true
		}
	}

	var entrypoints []EntrypointInfo
	for _, file := range idx.Files() {
		if IsTestFile(file.Path, file.Language) {
			continue
		}
		content, ok := readFile(root, file.Path)
		if !ok {
			continue
		}

		for _, symbol := range idx.GetFileSymbols(file.Path) {
			if symbol.Name == "" {
				continue
			}
			if symbol.Type == model.SymbolHeading || symbol.Type == model.SymbolCodeBlock {
				continue
			}
			if IsTestSymbol(symbol, string(content), file.Language) {
				continue
			}
			if called[symbol.Name] {
				continue
			}
			if !symbol.IsExported {
				continue
			}

			entrypoints = append(entrypoints, EntrypointInfo{
				Name:       symbol.Name,
				Type:       symbol.Type,
				FilePath:   file.Path,
				Line:       symbol.LineStart,
				Signature:  symbol.Signature,
				IsExported: true,
				Category:   categorizeEntrypoint(symbol.Name, symbol.Type),
			})
		}
	}

	sort.Slice(entrypoints, func(i, j int) bool {
		a, b := entrypoints[i], entrypoints[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.Line < b.Line
	})

	return entrypoints, nil
}

var mainEntryPatterns = []string{"main", "run", "start", "init", "execute", "cli", "app"}

var apiFunctionPatterns = []string{
	"get", "post", "put", "delete", "patch", "handle", "serve", "route",
	"api", "endpoint", "create", "read", "update", "list", "fetch",
	"process", "export", "import", "parse", "validate", "transform",
}

func categorizeEntrypoint(name string, symbolType model.SymbolType) EntrypointCategory {
	lower := strings.ToLower(name)

	for _, pattern := range mainEntryPatterns {
		if lower == pattern || strings.HasPrefix(lower, pattern+"_") {
			return MainEntry
		}
	}

	for _, pattern := range apiFunctionPatterns {
		if strings.HasPrefix(lower, pattern) || strings.HasSuffix(lower, pattern) {
			return ApiFunction
		}
	}

	if symbolType == model.SymbolClass || symbolType == model.SymbolEnum {
		return ApiFunction
	}

	if r, _ := utf8.DecodeRuneInString(name); symbolType == model.SymbolFunction && unicode.IsUpper(r) {
		return ApiFunction
	}

	return PossiblyUnused
}

