// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package implementations

import (
	"regexp"
	"strings"
)

var pyClassRe = regexp.MustCompile(`class\s+(\w+)\s*\(([^)]+)\)\s*:`)

func findPython(content, interfaceName string, fuzzy bool, interfaceLower string) []Implementation {
	var results []Implementation

	for lineNum, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		m := pyClassRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		className, parentsStr := m[1], m[2]

		for _, parent := range strings.Split(parentsStr, ",") {
			parent = strings.TrimSpace(parent)
			parentName := parent
			if idx := strings.Index(parentName, "["); idx >= 0 {
				parentName = parentName[:idx]
			}
			if idx := strings.LastIndex(parentName, "."); idx >= 0 {
				parentName = parentName[idx+1:]
			}
			parentName = strings.TrimSpace(parentName)

			if parentName != "" && matchesInterface(parentName, interfaceName, fuzzy, interfaceLower) {
				results = append(results, Implementation{
					ImplementorName: className,
					InterfaceName:   parentName,
					Line:            lineNum + 1,
					Kind:            KindInherits,
				})
			}
		}
	}

	return results
}
