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

	"github.com/p1rallels/codemapper-sub000/internal/index"
)

// ImpactNode is one symbol reached while walking the transitive caller
// closure of an ImpactRadius query, at the depth it was first reached.
type ImpactNode struct {
	CallInfo
	Depth int
}

// ImpactRadius walks the transitive closure of FindCallers starting from
// symbolName, up to maxDepth levels deep (maxDepth <= 0 means depth 1
// only). It is a thin composition over FindCallers, not an independent
// analysis: at each level every newly-reached caller name is fed back into
// FindCallers for the next level. A name is only ever reported at the
// shallowest depth it was reached; cycles terminate naturally once every
// reachable name has been visited.
func ImpactRadius(ctx context.Context, idx *index.CodeIndex, root, symbolName string, fuzzy bool, maxDepth int) ([]ImpactNode, error) {
	if maxDepth <= 0 {
		maxDepth = 1
	}

	visited := map[string]bool{symbolName: true}
	frontier := []string{symbolName}
	var out []ImpactNode

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, name := range frontier {
			callers, err := FindCallers(ctx, idx, root, name, fuzzy)
			if err != nil {
				return nil, err
			}
			for _, c := range callers {
				if visited[c.Name] {
					continue
				}
				visited[c.Name] = true
				out = append(out, ImpactNode{CallInfo: c, Depth: depth})
				next = append(next, c.Name)
			}
		}
		frontier = next
	}

	return out, nil
}
