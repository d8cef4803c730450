// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package implementations discovers which types implement or extend a given
// interface/class, by re-reading each indexed file's source and matching it
// against per-language patterns. Every language but Go is regex-over-text;
// Go's implicit interface satisfaction is instead approximated from the
// index's own method-set records, since there's no embedding keyword to
// grep for.
package implementations

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// Kind describes the relationship between implementor and interface.
type Kind int

const (
	KindImplements Kind = iota
	KindExtends
	KindImpl
	KindInherits
)

func (k Kind) String() string {
	switch k {
	case KindImplements:
		return "implements"
	case KindExtends:
		return "extends"
	case KindImpl:
		return "impl"
	case KindInherits:
		return "inherits"
	default:
		return "unknown"
	}
}

// Implementation is a single implementor/interface relationship found in a
// file.
type Implementation struct {
	ImplementorName string
	InterfaceName   string
	FilePath        string
	Line            int
	Kind            Kind
	Language        model.Language
}

// Find scans every file in idx for implementors of interfaceName. When fuzzy
// is true, interfaceName is matched as a case-insensitive substring instead
// of an exact name.
func Find(ctx context.Context, idx *index.CodeIndex, interfaceName string, fuzzy bool) ([]Implementation, error) {
	interfaceLower := strings.ToLower(interfaceName)

	var results []Implementation
	for _, file := range idx.Files() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(file.Path)
		if err != nil || len(content) == 0 {
			continue
		}

		var fileImpls []Implementation
		switch file.Language {
		case model.LanguageRust:
			fileImpls = findRust(string(content), interfaceName, fuzzy, interfaceLower)
		case model.LanguagePython:
			fileImpls = findPython(string(content), interfaceName, fuzzy, interfaceLower)
		case model.LanguageTypeScript, model.LanguageJavaScript:
			fileImpls = findTypeScript(string(content), interfaceName, fuzzy, interfaceLower)
		case model.LanguageJava:
			fileImpls = findJava(string(content), interfaceName, fuzzy, interfaceLower)
		case model.LanguageGo:
			fileImpls = findGo(ctx, idx, file, interfaceName, fuzzy, interfaceLower)
		}

		for i := range fileImpls {
			fileImpls[i].FilePath = file.Path
			fileImpls[i].Language = file.Language
		}
		results = append(results, fileImpls...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FilePath != results[j].FilePath {
			return results[i].FilePath < results[j].FilePath
		}
		return results[i].Line < results[j].Line
	})

	return results, nil
}

func matchesInterface(name, interfaceName string, fuzzy bool, interfaceLower string) bool {
	if fuzzy {
		return strings.Contains(strings.ToLower(name), interfaceLower)
	}
	return name == interfaceName
}
