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
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// JavaParser extracts classes, interfaces, enums, methods, constructors,
// and static fields, nesting members under their enclosing type.
type JavaParser struct {
	opts ParseOptions
}

// NewJavaParser returns a JavaParser with the default parse options.
func NewJavaParser() *JavaParser {
	return &JavaParser{opts: DefaultParseOptions()}
}

func (p *JavaParser) Language() model.Language { return model.LanguageJava }
func (p *JavaParser) Extensions() []string      { return []string{"java"} }

func (p *JavaParser) Parse(ctx context.Context, source []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.Valid(source) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGrammarInit, err)
	}
	defer tree.Close()

	result := &ParseResult{}
	root := tree.RootNode()
	if root == nil {
		return result, nil
	}
	if root.HasError() {
		result.Errors = append(result.Errors, "source contains syntax errors")
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		p.processItem(root, child, source, filePath, nil, result)
	}

	return result, nil
}

func (p *JavaParser) processItem(root, node *sitter.Node, source []byte, filePath string, parentID *int, result *ParseResult) {
	switch node.Type() {
	case "import_declaration":
		p.extractImport(node, source, result)
	case "class_declaration":
		p.extractType(root, node, source, filePath, model.SymbolClass, result)
	case "interface_declaration":
		p.extractType(root, node, source, filePath, model.SymbolInterface, result)
	case "enum_declaration":
		p.extractType(root, node, source, filePath, model.SymbolEnum, result)
	case "method_declaration", "constructor_declaration":
		p.extractMethod(root, node, source, filePath, parentID, result)
	case "field_declaration":
		p.extractField(root, node, source, filePath, parentID, result)
	}
}

func javaModifiers(node *sitter.Node, source []byte) string {
	mods := childOfType(node, "modifiers")
	if mods == nil {
		return ""
	}
	return nodeText(mods, source)
}

func isJavaPublic(node *sitter.Node, source []byte) bool {
	return strings.Contains(javaModifiers(node, source), "public")
}

func isJavaStatic(node *sitter.Node, source []byte) bool {
	return strings.Contains(javaModifiers(node, source), "static")
}

func (p *JavaParser) extractImport(node *sitter.Node, source []byte, result *ParseResult) {
	text := nodeText(node, source)
	text = strings.TrimPrefix(text, "import")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.TrimPrefix(strings.TrimSpace(text), "static")
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	result.Dependencies = append(result.Dependencies, model.Dependency{ImportName: text})
}

func (p *JavaParser) extractType(root, node *sitter.Node, source []byte, filePath string, symType model.SymbolType, result *ParseResult) {
	nameNode := childOfType(node, "identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	exported := isJavaPublic(node, source)
	if !p.opts.IncludePrivate && !exported {
		return
	}

	classIdx := len(result.Symbols)
	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       symType,
		Docstring:  precedingLineComment(root, node, source, "block_comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: exported,
	})

	body := childOfType(node, "class_body")
	if body == nil {
		body = childOfType(node, "interface_body")
	}
	if body == nil {
		body = childOfType(node, "enum_body")
	}
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		p.processItem(body, body.Child(i), source, filePath, intPtr(classIdx), result)
	}
}

func (p *JavaParser) extractMethod(root, node *sitter.Node, source []byte, filePath string, parentID *int, result *ParseResult) {
	nameNode := childOfType(node, "identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	exported := isJavaPublic(node, source)
	if !p.opts.IncludePrivate && !exported {
		return
	}

	params := nodeText(childOfType(node, "formal_parameters"), source)
	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolMethod,
		Signature:  params,
		Docstring:  precedingLineComment(root, node, source, "block_comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		ParentID:   parentID,
		FilePath:   filePath,
		IsExported: exported,
	})
}

func (p *JavaParser) extractField(root, node *sitter.Node, source []byte, filePath string, parentID *int, result *ParseResult) {
	if !isJavaStatic(node, source) {
		return
	}
	var typeNode *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() != "modifiers" {
			typeNode = c
			break
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "variable_declarator" {
			nameNode := childOfType(c, "identifier")
			if nameNode == nil {
				continue
			}
			name := nodeText(nameNode, source)
			exported := isJavaPublic(node, source)
			if !p.opts.IncludePrivate && !exported {
				continue
			}
			result.Symbols = append(result.Symbols, model.Symbol{
				Name:       name,
				Type:       model.SymbolStaticField,
				Signature:  nodeText(typeNode, source),
				Docstring:  precedingLineComment(root, node, source, "block_comment"),
				LineStart:  startLine(node),
				LineEnd:    endLine(node),
				ParentID:   parentID,
				FilePath:   filePath,
				IsExported: exported,
			})
		}
	}
}

var _ Parser = (*JavaParser)(nil)
