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

var (
	rustImplForRe  = regexp.MustCompile(`impl\s+(?:<[^>]*>\s*)?(\w+)(?:<[^>]*>)?\s+for\s+(\w+)`)
	rustImplSelfRe = regexp.MustCompile(`impl\s+(?:<[^>]*>\s*)?(\w+)(?:<[^>]*>)?\s*\{`)
)

func findRust(content, interfaceName string, fuzzy bool, interfaceLower string) []Implementation {
	var results []Implementation

	for lineNum, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := rustImplForRe.FindStringSubmatch(trimmed); m != nil {
			traitName, typeName := m[1], m[2]
			if matchesInterface(traitName, interfaceName, fuzzy, interfaceLower) {
				results = append(results, Implementation{
					ImplementorName: typeName,
					InterfaceName:   traitName,
					Line:            lineNum + 1,
					Kind:            KindImpl,
				})
			}
		}

		if m := rustImplSelfRe.FindStringSubmatch(trimmed); m != nil && !strings.Contains(trimmed, " for ") {
			typeName := m[1]
			if matchesInterface(typeName, interfaceName, fuzzy, interfaceLower) {
				results = append(results, Implementation{
					ImplementorName: typeName,
					InterfaceName:   typeName,
					Line:            lineNum + 1,
					Kind:            KindImpl,
				})
			}
		}
	}

	return results
}
