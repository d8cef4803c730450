// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// nodeText returns the source text spanned by n, bounds-checked against
// source so a malformed node never panics the caller.
func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(start) > len(source) || int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

// startLine returns n's 1-indexed start line.
func startLine(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

// endLine returns n's 1-indexed end line.
func endLine(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.EndPoint().Row) + 1
}

// children returns every direct child of n.
func children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// childOfType returns the first direct child of n whose Type() is typ, or
// nil.
func childOfType(n *sitter.Node, typ string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

// precedingLineComment walks n's siblings within parent searching for a
// comment node ending on the line immediately before n starts. Returns the
// trimmed comment text, or "" if none is found.
func precedingLineComment(parent, n *sitter.Node, source []byte, commentType string) string {
	if parent == nil || n == nil {
		return ""
	}
	target := startLine(n)
	var best string
	for i := 0; i < int(parent.ChildCount()); i++ {
		sib := parent.Child(i)
		if sib.Type() != commentType {
			continue
		}
		if endLine(sib) == target-1 {
			best = strings.TrimSpace(nodeText(sib, source))
		}
	}
	return best
}

// intPtr is a small convenience for building Symbol.ParentID values.
func intPtr(i int) *int {
	v := i
	return &v
}
