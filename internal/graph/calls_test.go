// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"testing"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

func callNames(calls []CallSite) []string {
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	return names
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func TestExtractCalls_Go(t *testing.T) {
	src := `package main

func main() {
	x := foo()
	bar(x)
	obj.Method()
}
`
	calls, err := ExtractCalls(context.Background(), []byte(src), model.LanguageGo)
	if err != nil {
		t.Fatalf("ExtractCalls: %v", err)
	}
	names := callNames(calls)
	for _, want := range []string{"foo", "bar", "Method"} {
		if !containsName(names, want) {
			t.Errorf("expected call to %q, got %v", want, names)
		}
	}
}

func TestExtractCalls_Rust(t *testing.T) {
	src := `
fn main() {
    let x = foo();
    bar(x);
    obj.method();
    println!("test");
}
`
	calls, err := ExtractCalls(context.Background(), []byte(src), model.LanguageRust)
	if err != nil {
		t.Fatalf("ExtractCalls: %v", err)
	}
	names := callNames(calls)
	for _, want := range []string{"foo", "bar", "method", "println"} {
		if !containsName(names, want) {
			t.Errorf("expected call to %q, got %v", want, names)
		}
	}
}

func TestExtractCalls_Python(t *testing.T) {
	src := `
def main():
    x = foo()
    bar(x)
    obj.method()
`
	calls, err := ExtractCalls(context.Background(), []byte(src), model.LanguagePython)
	if err != nil {
		t.Fatalf("ExtractCalls: %v", err)
	}
	names := callNames(calls)
	for _, want := range []string{"foo", "bar", "method"} {
		if !containsName(names, want) {
			t.Errorf("expected call to %q, got %v", want, names)
		}
	}
}

func TestExtractCalls_JavaScriptAndTypeScriptShareGrammar(t *testing.T) {
	src := `
function main() {
    const x = foo();
    bar(x);
    obj.method();
}
`
	for _, lang := range []model.Language{model.LanguageJavaScript, model.LanguageTypeScript} {
		calls, err := ExtractCalls(context.Background(), []byte(src), lang)
		if err != nil {
			t.Fatalf("ExtractCalls(%v): %v", lang, err)
		}
		names := callNames(calls)
		for _, want := range []string{"foo", "bar", "method"} {
			if !containsName(names, want) {
				t.Errorf("lang %v: expected call to %q, got %v", lang, want, names)
			}
		}
	}
}

func TestExtractCalls_Java(t *testing.T) {
	src := `
class Main {
    void run() {
        foo();
        obj.method();
    }
}
`
	calls, err := ExtractCalls(context.Background(), []byte(src), model.LanguageJava)
	if err != nil {
		t.Fatalf("ExtractCalls: %v", err)
	}
	names := callNames(calls)
	for _, want := range []string{"foo", "method"} {
		if !containsName(names, want) {
			t.Errorf("expected call to %q, got %v", want, names)
		}
	}
}

func TestExtractCalls_C(t *testing.T) {
	src := `
int main() {
    foo();
    bar(1, 2);
    return 0;
}
`
	calls, err := ExtractCalls(context.Background(), []byte(src), model.LanguageC)
	if err != nil {
		t.Fatalf("ExtractCalls: %v", err)
	}
	names := callNames(calls)
	for _, want := range []string{"foo", "bar"} {
		if !containsName(names, want) {
			t.Errorf("expected call to %q, got %v", want, names)
		}
	}
}

func TestExtractCalls_UnknownLanguageReturnsEmpty(t *testing.T) {
	calls, err := ExtractCalls(context.Background(), []byte("whatever"), model.LanguageMarkdown)
	if err != nil {
		t.Fatalf("ExtractCalls: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected no calls extracted from Markdown, got %v", calls)
	}
}

func TestExtractCalls_DedupesByNameAndLine(t *testing.T) {
	src := `package main

func main() {
	foo()
	foo()
}
`
	calls, err := ExtractCalls(context.Background(), []byte(src), model.LanguageGo)
	if err != nil {
		t.Fatalf("ExtractCalls: %v", err)
	}
	count := 0
	for _, c := range calls {
		if c.Name == "foo" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected two distinct-line calls to foo, got %d", count)
	}
}
