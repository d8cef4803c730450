// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "" || len(cfg.Extensions) != 0 {
		t.Errorf("expected zero Config, got %+v", cfg)
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "root: ./src\nextensions:\n  - go\n  - rs\ncache_dir: /tmp/cm-cache\noutput:\n  json: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "./src" {
		t.Errorf("expected root ./src, got %q", cfg.Root)
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[0] != "go" || cfg.Extensions[1] != "rs" {
		t.Errorf("unexpected extensions: %v", cfg.Extensions)
	}
	if !cfg.Output.JSON {
		t.Error("expected output.json true")
	}
}

func TestLoad_InvalidYAMLIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("root: [unterminated"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error parsing invalid YAML")
	}
}

func TestResolveExtensions_FallsBackToDefault(t *testing.T) {
	var cfg Config
	if got := cfg.ResolveExtensions(); len(got) != len(DefaultExtensions) {
		t.Errorf("expected default extensions, got %v", got)
	}

	cfg.Extensions = []string{"go"}
	if got := cfg.ResolveExtensions(); len(got) != 1 || got[0] != "go" {
		t.Errorf("expected configured extensions, got %v", got)
	}
}

func TestResolveRoot(t *testing.T) {
	var cfg Config
	if got := cfg.ResolveRoot("/cfgdir", "/fallback"); got != "/fallback" {
		t.Errorf("expected fallback, got %q", got)
	}

	cfg.Root = "/abs/path"
	if got := cfg.ResolveRoot("/cfgdir", "/fallback"); got != "/abs/path" {
		t.Errorf("expected absolute root kept as-is, got %q", got)
	}

	cfg.Root = "relative"
	if got := cfg.ResolveRoot("/cfgdir", "/fallback"); got != filepath.Join("/cfgdir", "relative") {
		t.Errorf("expected root resolved against config dir, got %q", got)
	}
}
