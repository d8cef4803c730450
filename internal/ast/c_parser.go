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
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// CParser extracts function definitions and struct/union specifiers. C has
// no first-class export concept in this walk, so IsExported is always
// false.
type CParser struct {
	opts ParseOptions
}

// NewCParser returns a CParser with the default parse options.
func NewCParser() *CParser {
	return &CParser{opts: DefaultParseOptions()}
}

func (p *CParser) Language() model.Language { return model.LanguageC }
func (p *CParser) Extensions() []string      { return []string{"c", "h"} }

func (p *CParser) Parse(ctx context.Context, source []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.Valid(source) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

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

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			switch child.Type() {
			case "function_definition":
				p.extractFunction(n, child, source, filePath, result)
			case "struct_specifier":
				p.extractStructOrUnion(n, child, source, filePath, "struct", result)
			case "union_specifier":
				p.extractStructOrUnion(n, child, source, filePath, "union", result)
			case "declaration", "type_definition":
				walk(child)
			}
		}
	}
	walk(root)

	return result, nil
}

func (p *CParser) extractFunction(parent, node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	decl := childOfType(node, "function_declarator")
	if decl == nil {
		return
	}
	nameNode := childOfType(decl, "identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	params := nodeText(childOfType(decl, "parameter_list"), source)

	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolFunction,
		Signature:  params,
		Docstring:  precedingLineComment(parent, node, source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: false,
	})
}

func (p *CParser) extractStructOrUnion(parent, node *sitter.Node, source []byte, filePath string, kind string, result *ParseResult) {
	nameNode := childOfType(node, "type_identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolClass,
		Signature:  kind,
		Docstring:  precedingLineComment(parent, node, source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: false,
	})
}

var _ Parser = (*CParser)(nil)
