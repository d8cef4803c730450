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
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// RustParser extracts structs, enums, impl blocks (recorded as a Class
// named "impl <Type>"), functions (methods when nested in an impl block),
// and top-level const/static items.
type RustParser struct {
	opts ParseOptions
}

// NewRustParser returns a RustParser with the default parse options.
func NewRustParser() *RustParser {
	return &RustParser{opts: DefaultParseOptions()}
}

func (p *RustParser) Language() model.Language { return model.LanguageRust }
func (p *RustParser) Extensions() []string      { return []string{"rs"} }

func (p *RustParser) Parse(ctx context.Context, source []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.Valid(source) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())

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

func hasPubVisibility(node *sitter.Node, source []byte) bool {
	vis := childOfType(node, "visibility_modifier")
	if vis == nil {
		return false
	}
	text := nodeText(vis, source)
	// Restricted visibility (pub(crate), pub(super), pub(self), pub(in ..))
	// is not exported.
	return strings.HasPrefix(text, "pub") && !strings.HasPrefix(text, "pub(")
}

// processItem dispatches a single top-level-or-impl-body item. parentID is
// non-nil when node is nested inside an impl_item (its Class symbol index).
func (p *RustParser) processItem(root, node *sitter.Node, source []byte, filePath string, parentID *int, result *ParseResult) {
	switch node.Type() {
	case "use_declaration":
		p.extractUse(node, source, result)
	case "struct_item":
		p.extractStruct(root, node, source, filePath, result)
	case "enum_item":
		p.extractEnum(root, node, source, filePath, result)
	case "impl_item":
		p.extractImpl(root, node, source, filePath, result)
	case "function_item":
		p.extractFunction(root, node, source, filePath, parentID, result)
	case "const_item", "static_item":
		p.extractConstOrStatic(root, node, source, filePath, result)
	case "mod_item":
		if body := childOfType(node, "declaration_list"); body != nil {
			for i := 0; i < int(body.ChildCount()); i++ {
				p.processItem(body, body.Child(i), source, filePath, nil, result)
			}
		}
	}
}

func (p *RustParser) extractUse(node *sitter.Node, source []byte, result *ParseResult) {
	text := nodeText(node, source)
	text = strings.TrimPrefix(text, "use")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	result.Dependencies = append(result.Dependencies, model.Dependency{ImportName: text})
}

func (p *RustParser) extractStruct(root, node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	nameNode := childOfType(node, "type_identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	exported := hasPubVisibility(node, source)
	if !p.opts.IncludePrivate && !exported {
		return
	}
	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolClass,
		Signature:  "struct",
		Docstring:  precedingLineComment(root, node, source, "line_comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: exported,
	})
}

func (p *RustParser) extractEnum(root, node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	nameNode := childOfType(node, "type_identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	exported := hasPubVisibility(node, source)
	if !p.opts.IncludePrivate && !exported {
		return
	}
	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolEnum,
		Docstring:  precedingLineComment(root, node, source, "line_comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: exported,
	})
}

// extractImpl records the impl block itself as a Class named "impl <Type>"
// so its functions have a parent to attach to as methods, then recurses
// into the block's declaration_list.
func (p *RustParser) extractImpl(root, node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	var typeName string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "for":
			// `impl Trait for Type`: the implementing type follows "for".
			typeName = ""
		case "type_identifier", "generic_type":
			if typeName == "" {
				typeName = nodeText(c, source)
			}
		}
	}
	if typeName == "" {
		typeName = "?"
	}

	classIdx := len(result.Symbols)
	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       "impl " + typeName,
		Type:       model.SymbolClass,
		Docstring:  precedingLineComment(root, node, source, "line_comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: true,
	})

	body := childOfType(node, "declaration_list")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		p.processItem(body, body.Child(i), source, filePath, intPtr(classIdx), result)
	}
}

func (p *RustParser) extractFunction(root, node *sitter.Node, source []byte, filePath string, parentID *int, result *ParseResult) {
	nameNode := childOfType(node, "identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	exported := hasPubVisibility(node, source)
	if !p.opts.IncludePrivate && !exported {
		return
	}

	params := nodeText(childOfType(node, "parameters"), source)
	symType := model.SymbolFunction
	if parentID != nil {
		symType = model.SymbolMethod
	}

	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       symType,
		Signature:  params,
		Docstring:  precedingLineComment(root, node, source, "line_comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		ParentID:   parentID,
		FilePath:   filePath,
		IsExported: exported,
	})
}

func (p *RustParser) extractConstOrStatic(root, node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	nameNode := childOfType(node, "identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	exported := hasPubVisibility(node, source)
	if !p.opts.IncludePrivate && !exported {
		return
	}
	typeNode := childOfType(node, "primitive_type")
	if typeNode == nil {
		typeNode = childOfType(node, "type_identifier")
	}
	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolStaticField,
		Signature:  nodeText(typeNode, source),
		Docstring:  precedingLineComment(root, node, source, "line_comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: exported,
	})
}

var _ Parser = (*RustParser)(nil)
