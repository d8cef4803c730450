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
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// GoParser extracts functions, methods, type declarations (struct,
// interface, plain alias), and top-level constants from Go source.
type GoParser struct {
	opts ParseOptions
}

// NewGoParser returns a GoParser with the default parse options.
func NewGoParser() *GoParser {
	return &GoParser{opts: DefaultParseOptions()}
}

func (p *GoParser) Language() model.Language { return model.LanguageGo }
func (p *GoParser) Extensions() []string     { return []string{"go"} }

func (p *GoParser) Parse(ctx context.Context, source []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.Valid(source) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

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
		case "import_declaration":
			p.extractImports(child, source, result)
		case "function_declaration":
			p.extractFunction(root, child, source, filePath, result)
		case "method_declaration":
			p.extractMethod(root, child, source, filePath, result)
		case "type_declaration":
			p.extractTypeDecl(root, child, source, filePath, result)
		case "const_declaration":
			p.extractConstDecl(root, child, source, filePath, result)
		}
	}

	return result, nil
}

func (p *GoParser) extractImports(node *sitter.Node, source []byte, result *ParseResult) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "import_spec":
				p.processImportSpec(c, source, result)
			case "import_spec_list":
				walk(c)
			}
		}
	}
	walk(node)
}

func (p *GoParser) processImportSpec(node *sitter.Node, source []byte, result *ParseResult) {
	var path string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "interpreted_string_literal" {
			path = strings.Trim(nodeText(c, source), "\"")
		}
	}
	if path == "" {
		return
	}
	result.Dependencies = append(result.Dependencies, model.Dependency{ImportName: path})
}

func isGoExported(name string) bool {
	if name == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return r >= 'A' && r <= 'Z'
}

func (p *GoParser) extractFunction(root, node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	var name string
	var params string
	var returns string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "identifier":
			name = nodeText(c, source)
		case "parameter_list":
			if params == "" {
				params = nodeText(c, source)
			} else {
				returns = nodeText(c, source)
			}
		case "type_identifier", "pointer_type", "slice_type", "map_type", "channel_type", "qualified_type", "interface_type", "struct_type", "function_type":
			returns = nodeText(c, source)
		}
	}
	if name == "" {
		return
	}

	exported := isGoExported(name)
	if !p.opts.IncludePrivate && !exported {
		return
	}

	sig := fmt.Sprintf("func %s%s", name, params)
	if returns != "" {
		sig += " " + returns
	}

	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolFunction,
		Signature:  sig,
		Docstring:  precedingLineComment(root, node, source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: exported,
	})
}

func (p *GoParser) extractMethod(root, node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	var name, receiver, params, returns string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "parameter_list":
			plist := nodeText(c, source)
			if receiver == "" {
				receiver = plist
			} else if params == "" {
				params = plist
			} else {
				returns = plist
			}
		case "field_identifier":
			name = nodeText(c, source)
		case "type_identifier", "pointer_type", "slice_type", "map_type", "channel_type", "qualified_type":
			returns = nodeText(c, source)
		}
	}
	if name == "" {
		return
	}

	exported := isGoExported(name)
	if !p.opts.IncludePrivate && !exported {
		return
	}

	sig := fmt.Sprintf("func %s %s%s", receiver, name, params)
	if returns != "" {
		sig += " " + returns
	}

	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolMethod,
		Signature:  sig,
		Docstring:  precedingLineComment(root, node, source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: exported,
	})
}

func (p *GoParser) extractTypeDecl(root, node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	for i := 0; i < int(node.ChildCount()); i++ {
		spec := node.Child(i)
		if spec.Type() != "type_spec" {
			continue
		}
		var name, kindNote string
		for j := 0; j < int(spec.ChildCount()); j++ {
			c := spec.Child(j)
			switch c.Type() {
			case "type_identifier":
				if name == "" {
					name = nodeText(c, source)
				}
			case "struct_type":
				kindNote = "struct"
			case "interface_type":
				kindNote = "interface"
			}
		}
		if name == "" {
			continue
		}
		if kindNote == "" {
			kindNote = "type"
		}
		exported := isGoExported(name)
		if !p.opts.IncludePrivate && !exported {
			continue
		}

		result.Symbols = append(result.Symbols, model.Symbol{
			Name:       name,
			Type:       model.SymbolClass,
			Signature:  kindNote,
			Docstring:  precedingLineComment(root, node, source, "comment"),
			LineStart:  startLine(spec),
			LineEnd:    endLine(spec),
			FilePath:   filePath,
			IsExported: exported,
		})
	}
}

func (p *GoParser) extractConstDecl(root, node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "const_spec":
				p.extractConstSpec(root, node, c, source, filePath, result)
			case "const_spec_list":
				walk(c)
			}
		}
	}
	walk(node)
}

func (p *GoParser) extractConstSpec(root, decl, spec *sitter.Node, source []byte, filePath string, result *ParseResult) {
	var typeStr string
	var names []*sitter.Node
	for i := 0; i < int(spec.ChildCount()); i++ {
		c := spec.Child(i)
		switch c.Type() {
		case "identifier":
			names = append(names, c)
		case "type_identifier", "pointer_type", "slice_type", "map_type", "channel_type", "qualified_type":
			typeStr = nodeText(c, source)
		}
	}
	for _, n := range names {
		name := nodeText(n, source)
		exported := isGoExported(name)
		if !p.opts.IncludePrivate && !exported {
			continue
		}
		result.Symbols = append(result.Symbols, model.Symbol{
			Name:       name,
			Type:       model.SymbolStaticField,
			Signature:  typeStr,
			Docstring:  precedingLineComment(root, decl, source, "comment"),
			LineStart:  startLine(spec),
			LineEnd:    endLine(spec),
			FilePath:   filePath,
			IsExported: exported,
		})
	}
}

var _ Parser = (*GoParser)(nil)
