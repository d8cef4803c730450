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
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// extractTypeScriptFields handles both interface property signatures and
// class field definitions; symbol may be either kind.
func extractTypeScriptFields(ctx context.Context, content string, symbol model.Symbol) ([]FieldInfo, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())

	source := []byte(content)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse typescript source: %w", err)
	}
	defer tree.Close()

	var fields []FieldInfo
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "interface_declaration":
				fields = append(fields, tsInterfaceFields(c, source, symbol)...)
			case "class_declaration":
				fields = append(fields, tsClassFields(c, source, symbol)...)
			}
			walk(c)
		}
	}
	walk(tree.RootNode())

	return fields, nil
}

func tsInterfaceFields(node *sitter.Node, source []byte, symbol model.Symbol) []FieldInfo {
	nameNode := childOfType(node, "type_identifier")
	if nodeText(nameNode, source) != symbol.Name {
		return nil
	}
	body := childOfType(node, "object_type")
	if body == nil {
		return nil
	}

	var fields []FieldInfo
	for _, prop := range childrenOfType(body, "property_signature") {
		nameCap := childOfType(prop, "property_identifier")
		if nameCap == nil {
			continue
		}
		name := nodeText(nameCap, source)
		optional := strings.HasSuffix(name, "?")
		name = strings.TrimSuffix(name, "?")

		typeName := ""
		if annot := childOfType(prop, "type_annotation"); annot != nil {
			typeName = strings.TrimPrefix(nodeText(annot, source), ":")
			typeName = strings.TrimSpace(typeName)
		}

		fields = append(fields, FieldInfo{
			Name:       name,
			TypeName:   typeName,
			IsOptional: optional || strings.Contains(typeName, "undefined"),
		})
	}
	return fields
}

func tsClassFields(node *sitter.Node, source []byte, symbol model.Symbol) []FieldInfo {
	nameNode := childOfType(node, "type_identifier")
	if nodeText(nameNode, source) != symbol.Name {
		return nil
	}
	body := childOfType(node, "class_body")
	if body == nil {
		return nil
	}

	var fields []FieldInfo
	for _, decl := range childrenOfType(body, "public_field_definition") {
		nameCap := childOfType(decl, "property_identifier")
		if nameCap == nil {
			continue
		}
		name := nodeText(nameCap, source)

		typeName := "any"
		if annot := childOfType(decl, "type_annotation"); annot != nil {
			typeName = strings.TrimSpace(strings.TrimPrefix(nodeText(annot, source), ":"))
		}

		var defaultValue string
		var hasDefault bool
		if v := lastChildExcept(decl, "property_identifier", "type_annotation", "accessibility_modifier", "readonly", "static", "="); v != nil && v.Type() != "type_annotation" {
			defaultValue = nodeText(v, source)
			hasDefault = defaultValue != ""
		}

		fields = append(fields, FieldInfo{
			Name:         name,
			TypeName:     typeName,
			DefaultValue: defaultValue,
			HasDefault:   hasDefault,
			IsOptional:   strings.Contains(typeName, "?") || strings.Contains(typeName, "undefined"),
		})
	}
	return fields
}
