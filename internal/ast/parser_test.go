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
	"testing"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func TestNewDefaultRegistry_RegistersEveryLanguage(t *testing.T) {
	r := NewDefaultRegistry()

	want := []model.Language{
		model.LanguagePython,
		model.LanguageJavaScript,
		model.LanguageTypeScript,
		model.LanguageRust,
		model.LanguageGo,
		model.LanguageJava,
		model.LanguageC,
		model.LanguageMarkdown,
	}
	for _, lang := range want {
		if _, ok := r.GetByLanguage(lang); !ok {
			t.Errorf("expected registry to have a parser for %v", lang)
		}
	}
}

func TestNewDefaultRegistry_GetByExtension(t *testing.T) {
	r := NewDefaultRegistry()

	cases := map[string]model.Language{
		"go":   model.LanguageGo,
		"py":   model.LanguagePython,
		"js":   model.LanguageJavaScript,
		"jsx":  model.LanguageJavaScript,
		"ts":   model.LanguageTypeScript,
		"tsx":  model.LanguageTypeScript,
		"rs":   model.LanguageRust,
		"java": model.LanguageJava,
		"c":    model.LanguageC,
		"h":    model.LanguageC,
		"md":   model.LanguageMarkdown,
	}
	for ext, lang := range cases {
		p, ok := r.GetByExtension(ext)
		if !ok {
			t.Errorf("expected a parser registered for extension %q", ext)
			continue
		}
		if p.Language() != lang {
			t.Errorf("extension %q: expected %v, got %v", ext, lang, p.Language())
		}
	}
}

func TestParserRegistry_RegisterNil(t *testing.T) {
	r := NewParserRegistry()
	r.Register(nil)
	if len(r.Languages()) != 0 {
		t.Error("expected registering nil to be a no-op")
	}
}
