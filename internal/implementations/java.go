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
	javaImplementsRe     = regexp.MustCompile(`class\s+(\w+)(?:<[^>]*>)?(?:\s+extends\s+\w+(?:<[^>]*>)?)?\s+implements\s+([^{]+)`)
	javaExtendsRe        = regexp.MustCompile(`class\s+(\w+)(?:<[^>]*>)?\s+extends\s+(\w+)`)
	javaInterfaceExtends = regexp.MustCompile(`interface\s+(\w+)(?:<[^>]*>)?\s+extends\s+([^{]+)`)
)

func findJava(content, interfaceName string, fuzzy bool, interfaceLower string) []Implementation {
	var results []Implementation

	for lineNum, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := javaImplementsRe.FindStringSubmatch(trimmed); m != nil {
			className, ifacesStr := m[1], m[2]
			for _, iface := range strings.Split(ifacesStr, ",") {
				iface = firstAngleSegment(iface)
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

		if m := javaExtendsRe.FindStringSubmatch(trimmed); m != nil {
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

		if m := javaInterfaceExtends.FindStringSubmatch(trimmed); m != nil {
			ifaceName, parentsStr := m[1], m[2]
			for _, parent := range strings.Split(parentsStr, ",") {
				parent = firstAngleSegment(parent)
				if parent != "" && matchesInterface(parent, interfaceName, fuzzy, interfaceLower) {
					results = append(results, Implementation{
						ImplementorName: ifaceName,
						InterfaceName:   parent,
						Line:            lineNum + 1,
						Kind:            KindExtends,
					})
				}
			}
		}
	}

	return results
}

func firstAngleSegment(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "<"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
