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
	"context"
	"os"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// goReceiverRe pulls the receiver's bare type name out of a method's
// recorded signature, e.g. "func (u *User) Greet() string" -> "User".
var goReceiverRe = regexp.MustCompile(`^func\s*\(\s*\w*\s*\*?(\w+)\s*\)`)

type goInterface struct {
	name    string
	methods map[string]bool
}

// findGo approximates Go's implicit interface satisfaction: since there's
// no "implements" keyword to grep for, a struct is considered an
// implementor of an interface when its method-name set is a superset of
// the interface's declared method-name set.
func findGo(ctx context.Context, idx *index.CodeIndex, file model.FileInfo, interfaceName string, fuzzy bool, interfaceLower string) []Implementation {
	interfaces := matchingGoInterfaces(ctx, idx, interfaceName, fuzzy, interfaceLower)
	if len(interfaces) == 0 {
		return nil
	}

	var results []Implementation
	for _, sym := range file.Symbols {
		if sym.Type != model.SymbolClass || sym.Signature != "struct" {
			continue
		}
		methodSet := goMethodSet(idx, sym.Name)
		if len(methodSet) == 0 {
			continue
		}
		for _, iface := range interfaces {
			if isSuperset(methodSet, iface.methods) {
				results = append(results, Implementation{
					ImplementorName: sym.Name,
					InterfaceName:   iface.name,
					Line:            sym.LineStart,
					Kind:            KindImplements,
				})
			}
		}
	}
	return results
}

func matchingGoInterfaces(ctx context.Context, idx *index.CodeIndex, interfaceName string, fuzzy bool, interfaceLower string) []goInterface {
	var candidates []model.Symbol
	if fuzzy {
		candidates = idx.FuzzySearch(interfaceName)
	} else {
		candidates = idx.QuerySymbol(interfaceName)
	}

	var out []goInterface
	for _, sym := range candidates {
		if sym.Type != model.SymbolClass || sym.Signature != "interface" {
			continue
		}
		if !matchesInterface(sym.Name, interfaceName, fuzzy, interfaceLower) {
			continue
		}
		methods := goInterfaceMethodNames(ctx, sym)
		if len(methods) == 0 {
			continue
		}
		out = append(out, goInterface{name: sym.Name, methods: methods})
	}
	return out
}

// goMethodSet collects every method name recorded anywhere in idx whose
// receiver type matches structName.
func goMethodSet(idx *index.CodeIndex, structName string) map[string]bool {
	methods := make(map[string]bool)
	for _, sym := range idx.Symbols() {
		if sym.Type != model.SymbolMethod {
			continue
		}
		m := goReceiverRe.FindStringSubmatch(sym.Signature)
		if m == nil || m[1] != structName {
			continue
		}
		methods[sym.Name] = true
	}
	return methods
}

// goInterfaceMethodNames re-parses sym's file to list the method names the
// interface declares, since the indexer itself doesn't record an
// interface's own method specs as symbols.
func goInterfaceMethodNames(ctx context.Context, sym model.Symbol) map[string]bool {
	content, err := os.ReadFile(sym.FilePath)
	if err != nil {
		return nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil
	}
	defer tree.Close()

	methods := make(map[string]bool)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "type_spec" {
			var name string
			var iface *sitter.Node
			for i := 0; i < int(n.ChildCount()); i++ {
				c := n.Child(i)
				switch c.Type() {
				case "type_identifier":
					if name == "" {
						name = nodeText(c, content)
					}
				case "interface_type":
					iface = c
				}
			}
			if name == sym.Name && iface != nil {
				for i := 0; i < int(iface.ChildCount()); i++ {
					elem := iface.Child(i)
					if elem.Type() != "method_elem" {
						continue
					}
					for j := 0; j < int(elem.ChildCount()); j++ {
						if field := elem.Child(j); field.Type() == "field_identifier" {
							methods[nodeText(field, content)] = true
							break
						}
					}
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())

	return methods
}

func nodeText(n *sitter.Node, source []byte) string {
	return strings.TrimSpace(n.Content(source))
}

func isSuperset(set, required map[string]bool) bool {
	for m := range required {
		if !set[m] {
			return false
		}
	}
	return true
}
