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
	"github.com/smacker/go-tree-sitter/python"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// PythonParser extracts classes, functions (methods when nested in a
// class), module-level imports, and all-uppercase module constants.
type PythonParser struct {
	opts ParseOptions
}

// NewPythonParser returns a PythonParser with the default parse options.
func NewPythonParser() *PythonParser {
	return &PythonParser{opts: DefaultParseOptions()}
}

func (p *PythonParser) Language() model.Language { return model.LanguagePython }
func (p *PythonParser) Extensions() []string      { return []string{"py"} }

func (p *PythonParser) Parse(ctx context.Context, source []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.Valid(source) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

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
		switch child.Type() {
		case "import_statement":
			p.processImportStatement(child, source, result)
		case "import_from_statement":
			p.processImportFromStatement(child, source, result)
		case "class_definition":
			p.processClass(child, source, filePath, result)
		case "function_definition":
			p.processFunction(child, source, filePath, nil, result)
		case "decorated_definition":
			p.processDecorated(child, source, filePath, nil, result)
		case "expression_statement":
			p.processModuleAssignment(child, source, filePath, result)
		}
	}

	return result, nil
}

func isPythonExported(name string) bool {
	return !strings.HasPrefix(name, "_")
}

func isAllCaps(name string) bool {
	if name == "" {
		return false
	}
	hasLetter := false
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func (p *PythonParser) processImportStatement(node *sitter.Node, source []byte, result *ParseResult) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "dotted_name":
			result.Dependencies = append(result.Dependencies, model.Dependency{ImportName: nodeText(child, source)})
		case "aliased_import":
			if dn := childOfType(child, "dotted_name"); dn != nil {
				result.Dependencies = append(result.Dependencies, model.Dependency{ImportName: nodeText(dn, source)})
			}
		}
	}
}

func (p *PythonParser) processImportFromStatement(node *sitter.Node, source []byte, result *ParseResult) {
	var modulePath string
	var names []string
	sawImport := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "import":
			sawImport = true
		case "dotted_name":
			if !sawImport {
				modulePath = nodeText(child, source)
			} else {
				names = append(names, nodeText(child, source))
			}
		case "wildcard_import":
			names = append(names, "*")
		case "aliased_import":
			if dn := childOfType(child, "dotted_name"); dn != nil {
				names = append(names, nodeText(dn, source))
			}
		case "identifier":
			if sawImport {
				names = append(names, nodeText(child, source))
			}
		}
	}

	if modulePath == "" {
		return
	}
	if len(names) == 0 {
		result.Dependencies = append(result.Dependencies, model.Dependency{ImportName: modulePath})
		return
	}
	for _, n := range names {
		result.Dependencies = append(result.Dependencies, model.Dependency{ImportName: n, FromFile: modulePath})
	}
}

func (p *PythonParser) processClass(node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	nameNode := childOfType(node, "identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	exported := isPythonExported(name)
	if !p.opts.IncludePrivate && !exported {
		return
	}

	classIdx := len(result.Symbols)
	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolClass,
		Docstring:  p.extractBlockDocstring(childOfType(node, "block"), source),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: exported,
	})

	body := childOfType(node, "block")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		switch member.Type() {
		case "function_definition":
			p.processFunction(member, source, filePath, intPtr(classIdx), result)
		case "decorated_definition":
			p.processDecorated(member, source, filePath, intPtr(classIdx), result)
		}
	}
}

func (p *PythonParser) processDecorated(node *sitter.Node, source []byte, filePath string, parentID *int, result *ParseResult) {
	inner := childOfType(node, "function_definition")
	if inner == nil {
		inner = childOfType(node, "class_definition")
	}
	if inner == nil {
		return
	}
	if inner.Type() == "class_definition" {
		p.processClass(inner, source, filePath, result)
		return
	}
	p.processFunction(inner, source, filePath, parentID, result)
}

func (p *PythonParser) processFunction(node *sitter.Node, source []byte, filePath string, parentID *int, result *ParseResult) {
	nameNode := childOfType(node, "identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	exported := isPythonExported(name)
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
		Docstring:  p.extractBlockDocstring(childOfType(node, "block"), source),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		ParentID:   parentID,
		FilePath:   filePath,
		IsExported: exported,
	})
}

// processModuleAssignment recognizes `NAME = ...` at module scope where NAME
// is all-uppercase, and records it as a module-level constant.
func (p *PythonParser) processModuleAssignment(node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	assign := childOfType(node, "assignment")
	if assign == nil {
		return
	}
	left := assign.Child(0)
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := nodeText(left, source)
	if !isAllCaps(name) {
		return
	}
	exported := isPythonExported(name)
	if !p.opts.IncludePrivate && !exported {
		return
	}
	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolStaticField,
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: exported,
	})
}

// extractBlockDocstring returns the first string expression statement in a
// block, unquoted, or "" if the block has none.
func (p *PythonParser) extractBlockDocstring(block *sitter.Node, source []byte) string {
	if block == nil || block.ChildCount() == 0 {
		return ""
	}
	first := block.Child(0)
	if first.Type() != "expression_statement" {
		return ""
	}
	strNode := childOfType(first, "string")
	if strNode == nil {
		return ""
	}
	text := nodeText(strNode, source)
	text = strings.TrimPrefix(text, `"""`)
	text = strings.TrimSuffix(text, `"""`)
	text = strings.TrimPrefix(text, "'''")
	text = strings.TrimSuffix(text, "'''")
	text = strings.Trim(text, `"'`)
	return strings.TrimSpace(text)
}

var _ Parser = (*PythonParser)(nil)
