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
	tsImplementsRe = regexp.MustCompile(`class\s+(\w+)(?:<[^>]*>)?(?:\s+extends\s+\w+(?:<[^>]*>)?)?\s+implements\s+([^{]+)`)
	tsExtendsRe    = regexp.MustCompile(`class\s+(\w+)(?:<[^>]*>)?\s+extends\s+(\w+)`)
)

func findTypeScript(content, interfaceName string, fuzzy bool, interfaceLower string) []Implementation {
	var results []Implementation

	for lineNum, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := tsImplementsRe.FindStringSubmatch(trimmed); m != nil {
			className, ifacesStr := m[1], m[2]
			for _, iface := range strings.Split(ifacesStr, ",") {
				iface = strings.TrimSpace(iface)
				if idx := strings.Index(iface, "<"); idx >= 0 {
					iface = iface[:idx]
				}
				iface = strings.TrimSpace(iface)
				if iface != "" && matchesInterface(iface, interfaceName, fuzzy, interfaceLower) {
					results = append(results, Implementation{
						ImplementorName: className,
						InterfaceName:   iface,
						Line:            lineNum + 1,
						Kind:            KindImplements,
					})
				}
			}
		}

		if m := tsExtendsRe.FindStringSubmatch(trimmed); m != nil {
			className, parentName := m[1], m[2]
			if matchesInterface(parentName, interfaceName, fuzzy, interfaceLower) {
				results = append(results, Implementation{
					ImplementorName: className,
					InterfaceName:   parentName,
					Line:            lineNum + 1,
					Kind:            KindExtends,
				})
			}
		}
	}

	return results
}
