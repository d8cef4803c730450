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
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// MarkdownParser extracts ATX headings and fenced code blocks. Both kinds
// are always considered exported since Markdown has no visibility concept.
type MarkdownParser struct {
	opts ParseOptions
}

// NewMarkdownParser returns a MarkdownParser with the default parse
// options.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{opts: DefaultParseOptions()}
}

func (p *MarkdownParser) Language() model.Language { return model.LanguageMarkdown }
func (p *MarkdownParser) Extensions() []string      { return []string{"md"} }

func (p *MarkdownParser) Parse(ctx context.Context, source []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.Valid(source) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	parser.SetLanguage(tree_sitter_markdown.GetLanguage())

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

	p.walk(root, source, filePath, result)
	return result, nil
}

func (p *MarkdownParser) walk(node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "atx_heading":
		p.extractHeading(node, source, filePath, result)
	case "fenced_code_block":
		p.extractCodeBlock(node, source, filePath, result)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		p.walk(node.Child(i), source, filePath, result)
	}
}

func (p *MarkdownParser) extractHeading(node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	level := 0
	var headingText string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "atx_h1_marker":
			level = 1
		case "atx_h2_marker":
			level = 2
		case "atx_h3_marker":
			level = 3
		case "atx_h4_marker":
			level = 4
		case "atx_h5_marker":
			level = 5
		case "atx_h6_marker":
			level = 6
		case "inline":
			headingText = strings.TrimSpace(nodeText(c, source))
		}
	}
	if headingText == "" {
		return
	}

	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       headingText,
		Type:       model.SymbolHeading,
		Signature:  strings.Repeat("#", level) + " " + headingText,
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: true,
	})
}

func (p *MarkdownParser) extractCodeBlock(node *sitter.Node, source []byte, filePath string, result *ParseResult) {
	var language, content string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "info_string":
			if l := childOfType(c, "language"); l != nil {
				language = nodeText(l, source)
			}
		case "code_fence_content":
			content = nodeText(c, source)
		}
	}

	name := "code_block"
	if language != "" {
		name = language + "_block"
	}

	sig := "```" + language
	docstring := firstLines(content, 3)

	result.Symbols = append(result.Symbols, model.Symbol{
		Name:       name,
		Type:       model.SymbolCodeBlock,
		Signature:  sig,
		Docstring:  docstring,
		LineStart:  startLine(node),
		LineEnd:    endLine(node),
		FilePath:   filePath,
		IsExported: true,
	})
}

// firstLines returns the first n lines of s, trimmed, joined by "\n".
func firstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var _ Parser = (*MarkdownParser)(nil)
