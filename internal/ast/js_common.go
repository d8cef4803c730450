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

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// jsGrammar abstracts over the JavaScript and TypeScript tree-sitter
// grammars so both languages share one extraction walk.
type jsGrammar interface {
	lang() *sitter.Language
	isTypeScript() bool
}

// parseJS runs the shared JS/TS extraction pipeline for source under the
// given grammar, producing model.Symbol / model.Dependency records.
func parseJS(ctx context.Context, source []byte, filePath string, g jsGrammar, opts ParseOptions) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.Valid(source) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	parser.SetLanguage(g.lang())

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

	w := &jsWalker{source: source, filePath: filePath, opts: opts, ts: g.isTypeScript(), result: result}
	w.walkTopLevel(root)
	return result, nil
}

type jsWalker struct {
	source   []byte
	filePath string
	opts     ParseOptions
	ts       bool
	result   *ParseResult
}

func (w *jsWalker) walkTopLevel(root *sitter.Node) {
	for i := 0; i < int(root.ChildCount()); i++ {
		w.walkStatement(root, root.Child(i), false)
	}
}

// walkStatement dispatches on a single top-level statement. Everything
// reached directly from walkTopLevel is un-exported by definition; the
// export_statement case re-dispatches its inner declaration with
// exported=true.
func (w *jsWalker) walkStatement(parent, node *sitter.Node, exported bool) {
	switch node.Type() {
	case "import_statement":
		w.extractImport(node)
	case "export_statement":
		w.extractExport(node)
	case "class_declaration":
		w.extractClass(parent, node, exported)
	case "function_declaration", "generator_function_declaration":
		w.extractFunction(parent, node, nil, exported)
	case "interface_declaration":
		if w.ts {
			w.extractInterface(parent, node, exported)
		}
	case "type_alias_declaration":
		if w.ts {
			w.extractTypeAlias(parent, node, exported)
		}
	case "enum_declaration":
		if w.ts {
			w.extractEnum(parent, node, exported)
		}
	case "lexical_declaration", "variable_declaration":
		w.extractVariableDeclaration(parent, node, exported)
	case "expression_statement":
		w.extractCommonJSExport(parent, node)
	}
}

func (w *jsWalker) extractImport(node *sitter.Node) {
	var source string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "string" {
			source = strings.Trim(nodeText(c, w.source), `"'`)
		}
	}
	if source != "" {
		w.result.Dependencies = append(w.result.Dependencies, model.Dependency{ImportName: source})
	}
}

// extractCommonJSExport recognizes `module.exports.name = fn` and
// `exports.name = fn` assignment statements, the CommonJS analog of an ESM
// export_statement.
func (w *jsWalker) extractCommonJSExport(parent, node *sitter.Node) {
	assign := childOfType(node, "assignment_expression")
	if assign == nil {
		return
	}
	left := assign.Child(0)
	if left == nil || left.Type() != "member_expression" {
		return
	}
	leftText := nodeText(left, w.source)
	if !strings.HasPrefix(leftText, "module.exports.") && !strings.HasPrefix(leftText, "exports.") {
		return
	}
	name := childOfType(left, "property_identifier")
	if name == nil {
		return
	}

	right := assign.Child(int(assign.ChildCount()) - 1)
	if right == nil {
		return
	}
	switch right.Type() {
	case "function_expression", "arrow_function", "function":
		params := nodeText(childOfType(right, "formal_parameters"), w.source)
		w.result.Symbols = append(w.result.Symbols, model.Symbol{
			Name:       nodeText(name, w.source),
			Type:       model.SymbolFunction,
			Signature:  params,
			Docstring:  precedingLineComment(parent, node, w.source, "comment"),
			LineStart:  startLine(node),
			LineEnd:    endLine(node),
			FilePath:   w.filePath,
			IsExported: true,
		})
	}
}

func (w *jsWalker) extractExport(node *sitter.Node) {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "class_declaration":
			w.extractClass(node, c, true)
		case "function_declaration", "generator_function_declaration":
			w.extractFunction(node, c, nil, true)
		case "interface_declaration":
			if w.ts {
				w.extractInterface(node, c, true)
			}
		case "type_alias_declaration":
			if w.ts {
				w.extractTypeAlias(node, c, true)
			}
		case "enum_declaration":
			if w.ts {
				w.extractEnum(node, c, true)
			}
		case "lexical_declaration", "variable_declaration":
			w.extractVariableDeclaration(node, c, true)
		}
	}
}

func (w *jsWalker) extractClass(parent, node *sitter.Node, exported bool) {
	nameNode := childOfType(node, "type_identifier")
	if nameNode == nil {
		nameNode = childOfType(node, "identifier")
	}
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, w.source)
	if !w.opts.IncludePrivate && !exported {
		return
	}

	classIdx := len(w.result.Symbols)
	w.result.Symbols = append(w.result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolClass,
		Docstring:  precedingLineComment(parent, node, w.source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   w.filePath,
		IsExported: exported,
	})

	body := childOfType(node, "class_body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member.Type() == "method_definition" {
			w.extractMethod(body, member, classIdx, exported)
		}
	}
}

// extractMethod records a class method; it is exported exactly when its
// class is.
func (w *jsWalker) extractMethod(parent, node *sitter.Node, classIdx int, exported bool) {
	nameNode := childOfType(node, "property_identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, w.source)
	params := nodeText(childOfType(node, "formal_parameters"), w.source)

	w.result.Symbols = append(w.result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolMethod,
		Signature:  params,
		Docstring:  precedingLineComment(parent, node, w.source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		ParentID:   intPtr(classIdx),
		FilePath:   w.filePath,
		IsExported: exported,
	})
}

func (w *jsWalker) extractFunction(parent, node *sitter.Node, parentID *int, exported bool) {
	nameNode := childOfType(node, "identifier")
	name := "anonymous"
	if nameNode != nil {
		name = nodeText(nameNode, w.source)
	}
	if !w.opts.IncludePrivate && !exported {
		return
	}

	params := nodeText(childOfType(node, "formal_parameters"), w.source)
	w.result.Symbols = append(w.result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolFunction,
		Signature:  params,
		Docstring:  precedingLineComment(parent, node, w.source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		ParentID:   parentID,
		FilePath:   w.filePath,
		IsExported: exported,
	})
}

// extractVariableDeclaration handles `const/let/var name = <expr>`. When the
// initializer is a function or arrow function expression, the symbol is
// named after the enclosing declarator. Callbacks passed to test-framework
// calls (describe/it/test/before*/after*) are not recorded: no synthetic
// names are produced for them.
func (w *jsWalker) extractVariableDeclaration(parent, node *sitter.Node, exported bool) {
	for i := 0; i < int(node.ChildCount()); i++ {
		decl := node.Child(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := childOfType(decl, "identifier")
		if nameNode == nil {
			continue
		}
		varName := nodeText(nameNode, w.source)

		var fnNode *sitter.Node
		for j := 0; j < int(decl.ChildCount()); j++ {
			c := decl.Child(j)
			if c.Type() == "arrow_function" || c.Type() == "function_expression" || c.Type() == "function" {
				fnNode = c
			}
		}
		if fnNode == nil {
			continue
		}
		if !w.opts.IncludePrivate && !exported {
			continue
		}

		params := nodeText(childOfType(fnNode, "formal_parameters"), w.source)
		w.result.Symbols = append(w.result.Symbols, model.Symbol{
			Name:       varName,
			Type:       model.SymbolFunction,
			Signature:  params,
			Docstring:  precedingLineComment(parent, node, w.source, "comment"),
			LineStart:  startLine(node),
			LineEnd:    endLine(node),
			FilePath:   w.filePath,
			IsExported: exported,
		})
	}
}

func (w *jsWalker) extractInterface(parent, node *sitter.Node, exported bool) {
	nameNode := childOfType(node, "type_identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, w.source)
	if !w.opts.IncludePrivate && !exported {
		return
	}
	w.result.Symbols = append(w.result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolInterface,
		Docstring:  precedingLineComment(parent, node, w.source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   w.filePath,
		IsExported: exported,
	})
}

func (w *jsWalker) extractTypeAlias(parent, node *sitter.Node, exported bool) {
	nameNode := childOfType(node, "type_identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, w.source)
	if !w.opts.IncludePrivate && !exported {
		return
	}
	w.result.Symbols = append(w.result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolTypeAlias,
		Docstring:  precedingLineComment(parent, node, w.source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   w.filePath,
		IsExported: exported,
	})
}

func (w *jsWalker) extractEnum(parent, node *sitter.Node, exported bool) {
	nameNode := childOfType(node, "identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, w.source)
	if !w.opts.IncludePrivate && !exported {
		return
	}
	w.result.Symbols = append(w.result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolEnum,
		Docstring:  precedingLineComment(parent, node, w.source, "comment"),
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   w.filePath,
		IsExported: exported,
	})
}
