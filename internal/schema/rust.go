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
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// extractRustFields walks every struct_item in content and collects fields
// for the one matching symbol.Name, or for any struct at all when symbol is
// an "impl <Type>" pseudo-symbol (an inherent impl block's fields live on
// the struct it implements, not the impl block itself).
func extractRustFields(ctx context.Context, content string, symbol model.Symbol) ([]FieldInfo, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())

	source := []byte(content)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse rust source: %w", err)
	}
	defer tree.Close()

	var fields []FieldInfo
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "struct_item" {
				fields = append(fields, rustStructFields(c, source, symbol)...)
			}
			walk(c)
		}
	}
	walk(tree.RootNode())

	return fields, nil
}

func rustStructFields(node *sitter.Node, source []byte, symbol model.Symbol) []FieldInfo {
	nameNode := childOfType(node, "type_identifier")
	structName := nodeText(nameNode, source)
	if structName != symbol.Name && !strings.HasPrefix(symbol.Name, "impl ") {
		return nil
	}

	body := childOfType(node, "field_declaration_list")
	if body == nil {
		return nil
	}

	var fields []FieldInfo
	for _, decl := range childrenOfType(body, "field_declaration") {
		nameCap := childOfType(decl, "field_identifier")
		if nameCap == nil {
			continue
		}
		typeCap := lastChildExcept(decl, "field_identifier", "visibility_modifier")
		if typeCap == nil {
			continue
		}
		typeName := nodeText(typeCap, source)
		fields = append(fields, FieldInfo{
			Name:       nodeText(nameCap, source),
			TypeName:   typeName,
			IsOptional: strings.HasPrefix(typeName, "Option<"),
		})
	}
	return fields
}

// lastChildExcept returns the last child of n whose type is not one of the
// excluded names — the field_declaration grammar is `visibility? name: type`,
// so the type node is whatever remains after skipping those.
func lastChildExcept(n *sitter.Node, excluded ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[e] = true
	}
	var last *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == ":" || skip[c.Type()] {
			continue
		}
		last = c
	}
	return last
}
