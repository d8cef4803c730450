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
	"strings"
	"testing"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

const testRustSimple = `use std::collections::HashMap;

pub struct Cache {
    entries: HashMap<String, String>,
}

pub enum State {
    Idle,
    Running,
}

pub const MAX_ENTRIES: usize = 128;

impl Cache {
    pub fn get(&self, key: &str) -> Option<&String> {
        self.entries.get(key)
    }

    fn touch(&mut self) {}
}

fn private_helper() {}
`

func TestRustParser_Parse_Symbols(t *testing.T) {
	p := NewRustParser()
	result, err := p.Parse(context.Background(), []byte(testRustSimple), "cache.rs")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	var haveStruct, haveEnum, haveConst, haveImpl, haveMethod, havePrivateMethod, havePrivateFn bool
	for _, s := range result.Symbols {
		switch {
		case s.Name == "Cache" && s.Type == model.SymbolClass:
			haveStruct = true
			if !s.IsExported {
				t.Error("expected Cache to be exported")
			}
		case s.Name == "State" && s.Type == model.SymbolEnum:
			haveEnum = true
		case s.Name == "MAX_ENTRIES" && s.Type == model.SymbolStaticField:
			haveConst = true
		case strings.HasPrefix(s.Name, "impl ") && s.Type == model.SymbolClass:
			haveImpl = true
		case s.Name == "get" && s.Type == model.SymbolMethod:
			haveMethod = true
			if s.ParentID == nil {
				t.Error("expected get to have a ParentID")
			}
		case s.Name == "touch" && s.Type == model.SymbolMethod:
			havePrivateMethod = true
			if s.IsExported {
				t.Error("expected touch to not be exported")
			}
		case s.Name == "private_helper":
			havePrivateFn = true
			if s.IsExported {
				t.Error("expected private_helper to not be exported")
			}
		}
	}

	if !haveStruct || !haveEnum || !haveConst || !haveImpl || !haveMethod || !havePrivateMethod || !havePrivateFn {
		t.Fatalf("missing expected symbols: struct=%v enum=%v const=%v impl=%v method=%v privMethod=%v privFn=%v",
			haveStruct, haveEnum, haveConst, haveImpl, haveMethod, havePrivateMethod, havePrivateFn)
	}
}

func TestRustParser_LanguageAndExtensions(t *testing.T) {
	p := NewRustParser()
	if p.Language() != model.LanguageRust {
		t.Errorf("expected LanguageRust, got %v", p.Language())
	}
	if exts := p.Extensions(); len(exts) != 1 || exts[0] != "rs" {
		t.Errorf("expected [rs], got %v", exts)
	}
}
