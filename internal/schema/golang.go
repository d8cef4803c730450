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
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func extractGoFields(ctx context.Context, content string, symbol model.Symbol) ([]FieldInfo, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

	source := []byte(content)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse go source: %w", err)
	}
	defer tree.Close()

	var fields []FieldInfo
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		decl := root.Child(i)
		if decl.Type() != "type_declaration" {
			continue
		}
		for _, spec := range childrenOfType(decl, "type_spec") {
			fields = append(fields, goStructFields(spec, source, symbol)...)
		}
	}

	return fields, nil
}

func goStructFields(spec *sitter.Node, source []byte, symbol model.Symbol) []FieldInfo {
	nameNode := childOfType(spec, "type_identifier")
	if nodeText(nameNode, source) != symbol.Name {
		return nil
	}
	structType := childOfType(spec, "struct_type")
	if structType == nil {
		return nil
	}
	body := childOfType(structType, "field_declaration_list")
	if body == nil {
		return nil
	}

	var fields []FieldInfo
	for _, decl := range childrenOfType(body, "field_declaration") {
		nameCap := childOfType(decl, "field_identifier")
		if nameCap == nil {
			continue
		}
		typeCap := goFieldType(decl)
		if typeCap == nil {
			continue
		}
		typeName := nodeText(typeCap, source)
		fields = append(fields, FieldInfo{
			Name:       nodeText(nameCap, source),
			TypeName:   typeName,
			IsOptional: strings.HasPrefix(typeName, "*"),
		})
	}
	return fields
}

// goFieldType returns decl's type node, recognizing the same shapes the
// indexer's own Go parser matches when reading a function's return type.
func goFieldType(decl *sitter.Node) *sitter.Node {
	for i := 0; i < int(decl.ChildCount()); i++ {
		c := decl.Child(i)
		switch c.Type() {
		case "type_identifier", "pointer_type", "slice_type", "map_type",
			"channel_type", "qualified_type", "interface_type", "struct_type",
			"function_type", "array_type":
			return c
		}
	}
	return nil
}
