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
	"github.com/smacker/go-tree-sitter/java"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func extractJavaFields(ctx context.Context, content string, symbol model.Symbol) ([]FieldInfo, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())

	source := []byte(content)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse java source: %w", err)
	}
	defer tree.Close()

	var fields []FieldInfo
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "class_declaration" {
				fields = append(fields, javaClassFields(c, source, symbol)...)
			}
			walk(c)
		}
	}
	walk(tree.RootNode())

	return fields, nil
}

func javaClassFields(node *sitter.Node, source []byte, symbol model.Symbol) []FieldInfo {
	nameNode := childOfType(node, "identifier")
	if nodeText(nameNode, source) != symbol.Name {
		return nil
	}
	body := childOfType(node, "class_body")
	if body == nil {
		return nil
	}

	var fields []FieldInfo
	for _, decl := range childrenOfType(body, "field_declaration") {
		var typeNode *sitter.Node
		for i := 0; i < int(decl.ChildCount()); i++ {
			if c := decl.Child(i); c.Type() != "modifiers" {
				typeNode = c
				break
			}
		}
		typeName := nodeText(typeNode, source)

		for _, declarator := range childrenOfType(decl, "variable_declarator") {
			nameCap := childOfType(declarator, "identifier")
			if nameCap == nil {
				continue
			}
			var defaultValue string
			var hasDefault bool
			if v := lastChildExcept(declarator, "identifier", "="); v != nil {
				defaultValue = nodeText(v, source)
				hasDefault = defaultValue != ""
			}
			fields = append(fields, FieldInfo{
				Name:         nodeText(nameCap, source),
				TypeName:     typeName,
				DefaultValue: defaultValue,
				HasDefault:   hasDefault,
				IsOptional:   strings.Contains(typeName, "Optional"),
			})
		}
	}
	return fields
}
