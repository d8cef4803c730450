// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph implements the call-graph engine: call-site extraction,
// caller/callee/test lookups, untested- and entrypoint-detection, and
// shortest-path tracing over the symbols an index has already parsed.
package graph

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"

	astpkg "github.com/p1rallels/codemapper-sub000/internal/ast"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// CallSite is one call expression found in a source fragment: the callee's
// name, the 1-indexed line it appears on (relative to the start of the
// fragment passed to ExtractCalls), and the raw source line for context.
type CallSite struct {
	Name    string
	Line    int
	Context string
}

// ExtractCalls parses source with the grammar for lang and returns every
// call site it contains, deduplicated by (name, line). Unrecognized
// languages (including Markdown) return an empty result, not an error.
//
// TypeScript is parsed with the JavaScript grammar: call-expression shapes
// are identical between the two, and adding the separate TSX/TS grammars
// just for call-site extraction would duplicate extractJSCalls for no
// behavioral difference.
func ExtractCalls(ctx context.Context, source []byte, lang model.Language) ([]CallSite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch lang {
	case model.LanguageGo:
		return extractGoCalls(ctx, source)
	case model.LanguageRust:
		return extractRustCalls(ctx, source)
	case model.LanguagePython:
		return extractPythonCalls(ctx, source)
	case model.LanguageJavaScript, model.LanguageTypeScript:
		return extractJSCalls(ctx, source)
	case model.LanguageJava:
		return extractJavaCalls(ctx, source)
	case model.LanguageC:
		return extractCCalls(ctx, source)
	default:
		return nil, nil
	}
}

type callKey struct {
	name string
	line int
}

// callCollector accumulates deduplicated call sites while a tree is walked.
type callCollector struct {
	lines []string
	seen  map[callKey]bool
	calls []CallSite
}

func newCallCollector(source []byte) *callCollector {
	return &callCollector{
		lines: strings.Split(string(source), "\n"),
		seen:  make(map[callKey]bool),
	}
}

func (c *callCollector) add(name string, line int) {
	if name == "" || line <= 0 {
		return
	}
	key := callKey{name, line}
	if c.seen[key] {
		return
	}
	c.seen[key] = true

	var context string
	if line-1 < len(c.lines) {
		context = c.lines[line-1]
	}
	c.calls = append(c.calls, CallSite{Name: name, Line: line, Context: context})
}

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

func startLine(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

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

func lastChildOfType(n *sitter.Node, typ string) *sitter.Node {
	if n == nil {
		return nil
	}
	var last *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			last = c
		}
	}
	return last
}

// identifierBefore returns the last "identifier" child of n that appears
// strictly before marker, used where a grammar gives a callee name and its
// receiver the same node type and the only way to tell them apart is
// position relative to the argument list.
func identifierBefore(n, marker *sitter.Node) *sitter.Node {
	if n == nil || marker == nil {
		return nil
	}
	var last *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.StartByte() >= marker.StartByte() {
			break
		}
		if c.Type() == "identifier" {
			last = c
		}
	}
	return last
}

func walkTree(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walkTree(n.Child(i), visit)
	}
}

func parseSource(ctx context.Context, source []byte, lang *sitter.Language) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", astpkg.ErrGrammarInit, err)
	}
	return tree, nil
}

func extractGoCalls(ctx context.Context, source []byte) ([]CallSite, error) {
	tree, err := parseSource(ctx, source, golang.GetLanguage())
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	cc := newCallCollector(source)
	walkTree(tree.RootNode(), func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		if id := childOfType(n, "identifier"); id != nil {
			cc.add(nodeText(id, source), startLine(id))
			return
		}
		if sel := childOfType(n, "selector_expression"); sel != nil {
			if field := childOfType(sel, "field_identifier"); field != nil {
				cc.add(nodeText(field, source), startLine(field))
			}
		}
	})
	return cc.calls, nil
}

// extractRustCalls covers plain calls, method calls, path-qualified calls,
// and macro invocations. It does not descend into a macro's token tree
// looking for call-shaped token sequences (`x.foo(...)`, `Type::foo(...)`):
// that heuristic only matters for calls hidden inside macro bodies, and the
// plain macro name this still captures (e.g. `println` from `println!(...)`)
// covers the overwhelming majority of real call-graph edges.
func extractRustCalls(ctx context.Context, source []byte) ([]CallSite, error) {
	tree, err := parseSource(ctx, source, rust.GetLanguage())
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	cc := newCallCollector(source)
	walkTree(tree.RootNode(), func(n *sitter.Node) {
		switch n.Type() {
		case "call_expression":
			if id := childOfType(n, "identifier"); id != nil {
				cc.add(nodeText(id, source), startLine(id))
				return
			}
			if fe := childOfType(n, "field_expression"); fe != nil {
				if field := childOfType(fe, "field_identifier"); field != nil {
					cc.add(nodeText(field, source), startLine(field))
				}
				return
			}
			if si := childOfType(n, "scoped_identifier"); si != nil {
				if name := lastChildOfType(si, "identifier"); name != nil {
					cc.add(nodeText(name, source), startLine(name))
				}
			}
		case "macro_invocation":
			if id := childOfType(n, "identifier"); id != nil {
				cc.add(nodeText(id, source), startLine(id))
			}
		}
	})
	return cc.calls, nil
}

func extractPythonCalls(ctx context.Context, source []byte) ([]CallSite, error) {
	tree, err := parseSource(ctx, source, python.GetLanguage())
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	cc := newCallCollector(source)
	walkTree(tree.RootNode(), func(n *sitter.Node) {
		if n.Type() != "call" {
			return
		}
		if id := childOfType(n, "identifier"); id != nil {
			cc.add(nodeText(id, source), startLine(id))
			return
		}
		if attr := childOfType(n, "attribute"); attr != nil {
			if name := lastChildOfType(attr, "identifier"); name != nil {
				cc.add(nodeText(name, source), startLine(name))
			}
		}
	})
	return cc.calls, nil
}

func extractJSCalls(ctx context.Context, source []byte) ([]CallSite, error) {
	tree, err := parseSource(ctx, source, javascript.GetLanguage())
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	cc := newCallCollector(source)
	walkTree(tree.RootNode(), func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		if id := childOfType(n, "identifier"); id != nil {
			cc.add(nodeText(id, source), startLine(id))
			return
		}
		if me := childOfType(n, "member_expression"); me != nil {
			if prop := childOfType(me, "property_identifier"); prop != nil {
				cc.add(nodeText(prop, source), startLine(prop))
			}
		}
	})
	return cc.calls, nil
}

func extractJavaCalls(ctx context.Context, source []byte) ([]CallSite, error) {
	tree, err := parseSource(ctx, source, java.GetLanguage())
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	cc := newCallCollector(source)
	walkTree(tree.RootNode(), func(n *sitter.Node) {
		if n.Type() != "method_invocation" {
			return
		}
		args := childOfType(n, "argument_list")
		if args == nil {
			return
		}
		if name := identifierBefore(n, args); name != nil {
			cc.add(nodeText(name, source), startLine(name))
		}
	})
	return cc.calls, nil
}

// extractCCalls only recognizes direct calls to a bare identifier, matching
// the set of call shapes a C grammar's call_expression reliably names;
// calls through a function pointer field are skipped.
func extractCCalls(ctx context.Context, source []byte) ([]CallSite, error) {
	tree, err := parseSource(ctx, source, c.GetLanguage())
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	cc := newCallCollector(source)
	walkTree(tree.RootNode(), func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		if id := childOfType(n, "identifier"); id != nil {
			cc.add(nodeText(id, source), startLine(id))
		}
	})
	return cc.calls, nil
}
