// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package schema

import (
	"strings"
	"unicode"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// extractPythonFields scans symbol's own line range (a class body) for
// annotated assignments (`name: type` or `name: type = default`) with a
// line-by-line heuristic rather than a tree-sitter query — Python class
// bodies rarely carry field type annotations uniformly, so the original
// schema analyzer falls straight to this heuristic instead of attempting a
// query match first.
func extractPythonFields(content string, symbol model.Symbol) []FieldInfo {
	lines := strings.Split(content, "\n")
	if symbol.LineStart == 0 || symbol.LineEnd > len(lines) {
		return nil
	}

	start := symbol.LineStart - 1
	if start < 0 {
		start = 0
	}
	end := symbol.LineEnd
	if end > len(lines) {
		end = len(lines)
	}

	var fields []FieldInfo
	for _, line := range lines[start:end] {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "class ") || strings.HasPrefix(trimmed, "#") {
			continue
		}

		colon := strings.Index(trimmed, ":")
		if colon < 0 {
			continue
		}
		name := strings.TrimSpace(trimmed[:colon])
		if name == "" || !isPythonIdentifier(name) || strings.HasPrefix(name, "return") || strings.HasPrefix(name, "self") {
			continue
		}

		rest := strings.TrimSpace(trimmed[colon+1:])
		typeName, defaultValue, hasDefault := splitPythonDefault(rest)
		if typeName == "" {
			continue
		}

		fields = append(fields, FieldInfo{
			Name:         name,
			TypeName:     typeName,
			DefaultValue: defaultValue,
			HasDefault:   hasDefault,
			IsOptional:   strings.Contains(typeName, "Optional") || hasDefault,
		})
	}

	return fields
}

func isPythonIdentifier(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

func splitPythonDefault(rest string) (typeName, defaultValue string, hasDefault bool) {
	if eq := strings.Index(rest, "="); eq >= 0 {
		return strings.TrimSpace(rest[:eq]), strings.TrimSpace(rest[eq+1:]), true
	}
	return rest, "", false
}
