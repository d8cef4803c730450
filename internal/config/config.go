// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the optional per-repository CLI configuration file
// at <root>/.codemapper/config.yaml. It is consumed only by cmd/codemapper;
// nothing under internal/ other than this package ever reads it, and every
// field has a usable zero value so a missing file is never an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/p1rallels/codemapper-sub000/internal/cache"
)

// DefaultExtensions is the extension set used when neither the config file
// nor a CLI flag supplies one.
var DefaultExtensions = []string{"py", "js", "jsx", "ts", "tsx", "rs", "java", "go", "c", "h", "md"}

// FileName is the config file's name, nested under cache.DirName like the
// cache and snapshot directories.
const FileName = "config.yaml"

// Config is the YAML-backed shape of <root>/.codemapper/config.yaml. Every
// field is optional; a zero Config is valid and every consumer falls back
// to its own default.
type Config struct {
	// Root overrides the project root the CLI operates against. A
	// relative value is resolved against the directory the config file
	// lives in, not the process's working directory.
	Root string `yaml:"root"`

	// Extensions is the file-extension allowlist (without leading dots).
	// Empty means DefaultExtensions.
	Extensions []string `yaml:"extensions"`

	// IgnoreAdditional names extra directories to prune during a walk.
	// It is parsed but not applied: walks prune only walker.IgnoredDirs.
	IgnoreAdditional []string `yaml:"ignore_additional"`

	// CacheDir names a cache base directory in place of the default
	// "<root>/.codemapper". It is parsed but not applied: the CLI always
	// uses the default location.
	CacheDir string `yaml:"cache_dir"`

	Output OutputConfig `yaml:"output"`
}

// OutputConfig mirrors the CLI's output flags so they can be defaulted
// from the config file instead of repeated on every invocation.
type OutputConfig struct {
	JSON    bool `yaml:"json"`
	Compact bool `yaml:"compact"`
	Quiet   bool `yaml:"quiet"`
}

// Load reads and parses the config file at path. A missing file is not an
// error: it returns a zero Config so callers can apply their own defaults
// uniformly whether or not a config file exists.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location for a project
// rooted at root.
func DefaultPath(root string) string {
	return filepath.Join(root, cache.DirName, FileName)
}

// ResolveExtensions returns cfg's extensions, or DefaultExtensions when
// cfg didn't specify any.
func (c Config) ResolveExtensions() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	return c.Extensions
}

// ResolveRoot returns cfg's configured root resolved against configDir (the
// directory the config file was loaded from), or fallback when cfg didn't
// specify one.
func (c Config) ResolveRoot(configDir, fallback string) string {
	if c.Root == "" {
		return fallback
	}
	if filepath.IsAbs(c.Root) {
		return c.Root
	}
	return filepath.Join(configDir, c.Root)
}
