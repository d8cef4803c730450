// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package walker performs the recursive, ignore-aware directory scan that
// feeds the indexer: every regular file under a root whose extension is
// recognized by the parser registry, skipping well-known build/vendor
// directories and never following symlinks.
package walker

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// IgnoredDirs lists directory names never descended into during a walk.
var IgnoredDirs = map[string]bool{
	".codemapper":  true,
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	"target":       true,
	"dist":         true,
	"build":        true,
}

// Entry describes one file discovered by Walk.
type Entry struct {
	Path string // relative to root, slash-separated
	Ext  string // extension without a leading dot, lowercased
}

// Walk recursively scans root, calling fn for every regular file whose
// extension (case-insensitive, without the dot) is present in extensions.
// Symlinks are never followed; directories named in IgnoredDirs are pruned
// entirely. fn receives paths relative to root.
func Walk(root string, extensions map[string]bool, fn func(Entry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && IgnoredDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if ext == "" || !extensions[ext] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		return fn(Entry{Path: rel, Ext: ext})
	})
}

// Collect is a convenience wrapper over Walk that returns every matching
// entry instead of streaming them through a callback.
func Collect(root string, extensions map[string]bool) ([]Entry, error) {
	var entries []Entry
	err := Walk(root, extensions, func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}
