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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// TestDep is a non-test symbol a test file calls directly, i.e. something
// that test exercises.
type TestDep struct {
	Name           string
	SymbolType     model.SymbolType
	FilePath       string
	Line           int
	CalledFromLine int
}

// IsTestFile reports whether path looks like a test file under lang's
// naming convention.
func IsTestFile(path string, lang model.Language) bool {
	name := filepath.Base(path)
	slash := filepath.ToSlash(path)

	switch lang {
	case model.LanguageRust:
		return strings.HasSuffix(name, "_test.rs") ||
			strings.HasPrefix(name, "test_") ||
			strings.Contains(slash, "/tests/")
	case model.LanguagePython:
		return strings.HasPrefix(name, "test_") ||
			strings.HasSuffix(name, "_test.py") ||
			strings.Contains(slash, "/tests/")
	case model.LanguageJavaScript, model.LanguageTypeScript:
		for _, suffix := range []string{
			".test.js", ".spec.js", ".test.ts", ".spec.ts",
			".test.jsx", ".spec.jsx", ".test.tsx", ".spec.tsx",
		} {
			if strings.HasSuffix(name, suffix) {
				return true
			}
		}
		return strings.Contains(slash, "__tests__") || strings.Contains(slash, "/tests/")
	case model.LanguageGo:
		return strings.HasSuffix(name, "_test.go")
	case model.LanguageJava:
		return strings.HasSuffix(name, "Test.java") ||
			strings.HasPrefix(name, "Test") ||
			strings.Contains(slash, "/test/")
	default:
		return false
	}
}

// IsTestSymbol reports whether symbol (backed by content, symbol's own
// file's full text) is itself a test case: a Rust #[test]/#[tokio::test]
// function, a Java @Test method, or a name matching the test-naming
// convention for lang.
func IsTestSymbol(symbol model.Symbol, content string, lang model.Language) bool {
	name := symbol.Name

	switch lang {
	case model.LanguageRust:
		if hasPrecedingAttribute(content, symbol.LineStart, "#[test]", "#[tokio::test]") {
			return true
		}
		return strings.HasPrefix(name, "test_")
	case model.LanguagePython:
		return strings.HasPrefix(name, "test_") || strings.HasPrefix(name, "Test")
	case model.LanguageJavaScript, model.LanguageTypeScript:
		return strings.HasPrefix(name, "test") || name == "it" || name == "describe" || strings.HasPrefix(name, "Test")
	case model.LanguageGo:
		return strings.HasPrefix(name, "Test") || strings.HasPrefix(name, "Benchmark")
	case model.LanguageJava:
		if hasPrecedingAttribute(content, symbol.LineStart, "@Test") {
			return true
		}
		return strings.HasPrefix(name, "test")
	default:
		return false
	}
}

// hasPrecedingAttribute scans backward from lineStart (1-indexed, the
// symbol's own line) over attribute/annotation/comment lines, stopping at
// the first line that is neither blank, a comment, nor an attribute marker.
// It reports whether any scanned line contains one of markers.
func hasPrecedingAttribute(content string, lineStart int, markers ...string) bool {
	if lineStart <= 0 {
		return false
	}
	lines := strings.Split(content, "\n")
	idx := lineStart - 1
	if idx >= len(lines) {
		idx = len(lines) - 1
	}
	for i := idx; i >= 0; i-- {
		line := lines[i]
		for _, marker := range markers {
			if strings.Contains(line, marker) {
				return true
			}
		}
		trimmed := strings.TrimSpace(line)
		if i != idx && trimmed != "" && !strings.HasPrefix(trimmed, "#[") && !strings.HasPrefix(trimmed, "@") && !strings.HasPrefix(trimmed, "//") {
			break
		}
	}
	return false
}

// FindTestDeps returns the non-test symbols testFile (relative to root)
// calls directly, sorted by file then line.
func FindTestDeps(ctx context.Context, idx *index.CodeIndex, root, testFile string) ([]TestDep, error) {
	lang := model.LanguageFromExtension(filepath.Ext(testFile))
	if !IsTestFile(testFile, lang) {
		return nil, fmt.Errorf("not a test file: %s", testFile)
	}

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(testFile)))
	if err != nil {
		return nil, fmt.Errorf("read test file: %w", err)
	}

	calls, err := ExtractCalls(ctx, content, lang)
	if err != nil {
		return nil, err
	}

	var deps []TestDep
	seen := make(map[string]bool)

	for _, call := range calls {
		if seen[call.Name] {
			continue
		}

		targets := idx.QuerySymbol(call.Name)
		target := firstSymbol(targets)
		if target == nil || target.FilePath == testFile {
			continue
		}

		targetLang := model.LanguageFromExtension(filepath.Ext(target.FilePath))
		if IsTestFile(target.FilePath, targetLang) {
			continue
		}

		targetContent, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(target.FilePath)))
		if err != nil {
			continue
		}
		if IsTestSymbol(*target, string(targetContent), targetLang) {
			continue
		}

		seen[call.Name] = true
		deps = append(deps, TestDep{
			Name:           target.Name,
			SymbolType:     target.Type,
			FilePath:       target.FilePath,
			Line:           target.LineStart,
			CalledFromLine: call.Line,
		})
	}

	sort.Slice(deps, func(i, j int) bool {
		if deps[i].FilePath != deps[j].FilePath {
			return deps[i].FilePath < deps[j].FilePath
		}
		return deps[i].Line < deps[j].Line
	})

	return deps, nil
}

func firstSymbol(symbols []model.Symbol) *model.Symbol {
	if len(symbols) == 0 {
		return nil
	}
	return &symbols[0]
}
