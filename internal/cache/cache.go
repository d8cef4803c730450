// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache persists a CodeIndex to disk as a binary index file plus a
// JSON metadata side-file, and revalidates that pair against the current
// filesystem state using a cheap size/mtime pre-filter before falling back
// to content hashing.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lukechampine.com/blake3"

	"github.com/p1rallels/codemapper-sub000/internal/index"
	"github.com/p1rallels/codemapper-sub000/internal/walker"
)

const (
	// DirName is the default per-repository cache root, sibling to the
	// indexed project's own files.
	DirName = ".codemapper"
	subdir  = "cache"
	// Version is bumped whenever the on-disk cache format changes
	// incompatibly; a version mismatch is treated as a cache miss.
	Version = "1.2"
	// SaveThreshold is the minimum indexing duration below which callers
	// should skip writing a cache for a freshly-indexed repository. The
	// manager itself does not enforce this; it is measured by the caller
	// (e.g. the CLI) around the indexing call.
	SaveThreshold = 300 * time.Millisecond
)

// FileChangeKind classifies one entry in a validation's change set.
type FileChangeKind int

const (
	FileModified FileChangeKind = iota
	FileAdded
	FileDeleted
)

func (k FileChangeKind) String() string {
	switch k {
	case FileModified:
		return "modified"
	case FileAdded:
		return "added"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileChange describes one file that differs between the cache's recorded
// metadata and the current filesystem. Size/Mtime/Hash are unset (zero
// value) for Deleted changes.
type FileChange struct {
	Path  string
	Kind  FileChangeKind
	Size  int64
	Mtime time.Time
	Hash  string
}

// FileMetadata is the per-file record persisted in CacheMetadata, used to
// detect changes on the next validation pass.
type FileMetadata struct {
	Hash  string    `json:"hash"`
	Size  int64     `json:"size"`
	Mtime time.Time `json:"mtime"`
}

// CacheMetadata is the JSON side-file written next to the binary index. It
// carries enough per-file bookkeeping to validate the cache without
// deserializing the (potentially large) index itself.
type CacheMetadata struct {
	Version      string                  `json:"version"`
	CreatedAt    time.Time               `json:"created_at"`
	RootPath     string                  `json:"root_path"`
	Extensions   []string                `json:"extensions"`
	FileCount    int                     `json:"file_count"`
	SymbolCount  int                     `json:"symbol_count"`
	CacheKey     string                  `json:"cache_key"`
	FileMetadata map[string]FileMetadata `json:"file_metadata"`
}

// ValidationKind is the three-way outcome of comparing a CacheMetadata
// against the current filesystem.
type ValidationKind int

const (
	ValidationValid ValidationKind = iota
	ValidationInvalid
	ValidationNeedsUpdate
)

// ValidationResult is the outcome of validating a cache. Changes is only
// populated when Kind is ValidationNeedsUpdate.
type ValidationResult struct {
	Kind    ValidationKind
	Changes []FileChange
}

// LoadResult is what Load returns on a cache hit (full or partial).
type LoadResult struct {
	Index    *index.CodeIndex
	Metadata CacheMetadata
	Changes  []FileChange
}

// Manager reads and writes the on-disk cache for a single project root. A
// zero-value Manager uses the default "<root>/.codemapper/cache" layout;
// set Dir to override where cache files live.
type Manager struct {
	// Dir, if non-empty, overrides the default "<root>/.codemapper"
	// base directory for cache files.
	Dir string
}

// NewManager returns a Manager using the default cache location.
func NewManager() *Manager {
	return &Manager{}
}

// ComputeCacheKey derives a stable fingerprint from root's canonical path
// and extensions, in the order given. The key is NOT order-invariant:
// callers must pass extensions in a consistent order across calls that
// should hit the same cache.
func (m *Manager) ComputeCacheKey(root string, extensions []string) (string, error) {
	canonical, err := canonicalize(root)
	if err != nil {
		return "", fmt.Errorf("canonicalize root: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(canonical))
	for _, ext := range extensions {
		h.Write([]byte(":"))
		h.Write([]byte(ext))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func canonicalize(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func (m *Manager) cachePaths(root string, extensions []string) (cacheFile, metaFile string, err error) {
	key, err := m.ComputeCacheKey(root, extensions)
	if err != nil {
		return "", "", err
	}
	base := m.Dir
	if base == "" {
		base = filepath.Join(root, DirName)
	}
	dir := filepath.Join(base, subdir)
	short := key[:16]
	return filepath.Join(dir, "project-"+short+".bin"),
		filepath.Join(dir, "project-"+short+".meta.json"),
		nil
}

func computeFileHash(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file for hashing: %w", err)
	}
	hash := blake3.Sum256(content)
	return "blake3:" + hex.EncodeToString(hash[:]), nil
}

// collectFileMetadata walks root and computes hash/size/mtime for every
// matching file. It is the slow path, used for a cold save with no
// previous metadata to carry forward.
func collectFileMetadata(root string, extensions map[string]bool) (map[string]FileMetadata, error) {
	out := make(map[string]FileMetadata)
	err := walker.Walk(root, extensions, func(e walker.Entry) error {
		full := filepath.Join(root, filepath.FromSlash(e.Path))
		info, err := os.Stat(full)
		if err != nil {
			return nil // skip files we can't stat, matching the teacher's tolerant walk
		}
		hash, err := computeFileHash(full)
		if err != nil {
			return nil // skip files we can't read
		}
		out[e.Path] = FileMetadata{Hash: hash, Size: info.Size(), Mtime: info.ModTime()}
		return nil
	})
	return out, err
}

// collectFileStats walks root and records size/mtime (no hashing) for
// every matching file. It is the fast pre-filter pass used by validation.
func collectFileStats(root string, extensions map[string]bool) (map[string]struct {
	size  int64
	mtime time.Time
}, error) {
	type stat struct {
		size  int64
		mtime time.Time
	}
	out := make(map[string]struct {
		size  int64
		mtime time.Time
	})
	err := walker.Walk(root, extensions, func(e walker.Entry) error {
		full := filepath.Join(root, filepath.FromSlash(e.Path))
		info, statErr := os.Stat(full)
		if statErr != nil {
			return nil
		}
		out[e.Path] = stat{size: info.Size(), mtime: info.ModTime()}
		return nil
	})
	return out, err
}

func extensionSet(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		set[e] = true
	}
	return set
}

// Save writes idx to the cache, recomputing file metadata for every
// matching file under root from scratch.
func (m *Manager) Save(idx *index.CodeIndex, root string, extensions []string) (CacheMetadata, error) {
	return m.saveInternal(idx, root, extensions, nil, nil)
}

// SaveWithChanges writes idx to the cache, starting from previous's
// recorded file metadata and applying changes (as produced by
// ValidateWithHashes) instead of rescanning every file.
func (m *Manager) SaveWithChanges(idx *index.CodeIndex, root string, extensions []string, previous CacheMetadata, changes []FileChange) (CacheMetadata, error) {
	return m.saveInternal(idx, root, extensions, &previous, changes)
}

func (m *Manager) saveInternal(idx *index.CodeIndex, root string, extensions []string, previous *CacheMetadata, changes []FileChange) (CacheMetadata, error) {
	cacheFile, metaFile, err := m.cachePaths(root, extensions)
	if err != nil {
		return CacheMetadata{}, err
	}
	if err := os.MkdirAll(filepath.Dir(cacheFile), 0o755); err != nil {
		return CacheMetadata{}, fmt.Errorf("create cache directory: %w", err)
	}

	var fileMetadata map[string]FileMetadata
	if previous != nil {
		fileMetadata = make(map[string]FileMetadata, len(previous.FileMetadata))
		for k, v := range previous.FileMetadata {
			fileMetadata[k] = v
		}
	} else {
		fileMetadata, err = collectFileMetadata(root, extensionSet(extensions))
		if err != nil {
			return CacheMetadata{}, fmt.Errorf("collect file metadata: %w", err)
		}
	}

	for _, change := range changes {
		switch change.Kind {
		case FileDeleted:
			delete(fileMetadata, change.Path)
		case FileModified, FileAdded:
			entry, err := fileMetadataForChange(root, change)
			if err != nil {
				return CacheMetadata{}, err
			}
			fileMetadata[change.Path] = entry
		}
	}

	if err := assertMetadataConsistency(idx, fileMetadata); err != nil {
		return CacheMetadata{}, err
	}

	key, err := m.ComputeCacheKey(root, extensions)
	if err != nil {
		return CacheMetadata{}, err
	}
	metadata := CacheMetadata{
		Version:      Version,
		CreatedAt:    time.Now(),
		RootPath:     root,
		Extensions:   append([]string(nil), extensions...),
		FileCount:    idx.TotalFiles(),
		SymbolCount:  idx.TotalSymbols(),
		CacheKey:     key,
		FileMetadata: fileMetadata,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(idx); err != nil {
		return CacheMetadata{}, fmt.Errorf("serialize index: %w", err)
	}
	if err := writeFileAtomic(cacheFile, buf.Bytes()); err != nil {
		return CacheMetadata{}, fmt.Errorf("write cache file: %w", err)
	}

	metaJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return CacheMetadata{}, fmt.Errorf("serialize metadata: %w", err)
	}
	if err := writeFileAtomic(metaFile, metaJSON); err != nil {
		return CacheMetadata{}, fmt.Errorf("write metadata file: %w", err)
	}

	if err := m.ensureGitignore(root); err != nil {
		return CacheMetadata{}, err
	}

	return metadata, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func fileMetadataForChange(root string, change FileChange) (FileMetadata, error) {
	if change.Kind == FileDeleted {
		return FileMetadata{}, fmt.Errorf("deleted file %s cannot produce metadata", change.Path)
	}

	full := filepath.Join(root, filepath.FromSlash(change.Path))

	hash := change.Hash
	if hash == "" {
		h, err := computeFileHash(full)
		if err != nil {
			return FileMetadata{}, fmt.Errorf("hash %s: %w", change.Path, err)
		}
		hash = h
	}

	size := change.Size
	mtime := change.Mtime
	if size == 0 || mtime.IsZero() {
		info, err := os.Stat(full)
		if err != nil {
			return FileMetadata{}, fmt.Errorf("stat %s: %w", change.Path, err)
		}
		size = info.Size()
		mtime = info.ModTime()
	}

	return FileMetadata{Hash: hash, Size: size, Mtime: mtime}, nil
}

func assertMetadataConsistency(idx *index.CodeIndex, fileMetadata map[string]FileMetadata) error {
	expected := idx.TotalFiles()
	if len(fileMetadata) != expected {
		return fmt.Errorf("file metadata count mismatch: expected %d entries, found %d", expected, len(fileMetadata))
	}
	for _, f := range idx.Files() {
		if _, ok := fileMetadata[f.Path]; !ok {
			return fmt.Errorf("missing metadata for %s", f.Path)
		}
	}
	for path, meta := range fileMetadata {
		if meta.Hash == "" {
			return fmt.Errorf("empty hash for %s", path)
		}
	}
	return nil
}

// Load reads the cache for root/extensions, if present, and validates it
// against the current filesystem. It returns (nil, nil) on a clean miss
// (no cache, version mismatch, or too many changes): callers should treat
// that as "rebuild from scratch".
func (m *Manager) Load(root string, extensions []string) (*LoadResult, error) {
	cacheFile, metaFile, err := m.cachePaths(root, extensions)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(cacheFile); err != nil {
		return nil, nil
	}
	if _, err := os.Stat(metaFile); err != nil {
		return nil, nil
	}

	metaBytes, err := os.ReadFile(metaFile)
	if err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}
	var metadata CacheMetadata
	if err := json.Unmarshal(metaBytes, &metadata); err != nil {
		slog.Warn("cache metadata corrupt, rebuilding", slog.String("root", root), slog.Any("error", err))
		return nil, nil
	}

	if metadata.Version != Version {
		slog.Warn("cache version mismatch, rebuilding", slog.String("root", root),
			slog.String("cached_version", metadata.Version), slog.String("current_version", Version))
		return nil, nil
	}

	result, err := m.ValidateWithHashes(metadata, root)
	if err != nil {
		return nil, err
	}

	switch result.Kind {
	case ValidationInvalid:
		return nil, nil
	case ValidationValid:
		idx, err := loadIndex(cacheFile)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Index: idx, Metadata: metadata}, nil
	default: // ValidationNeedsUpdate
		idx, err := loadIndex(cacheFile)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Index: idx, Metadata: metadata, Changes: result.Changes}, nil
	}
}

func loadIndex(cacheFile string) (*index.CodeIndex, error) {
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	idx := index.New()
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(idx); err != nil {
		return nil, fmt.Errorf("deserialize index: %w", err)
	}
	return idx, nil
}

// ValidateWithHashes compares metadata's recorded file metadata against
// the current filesystem using a size/mtime pre-filter (git's approach),
// falling back to content hashing only for files whose stats disagree.
func (m *Manager) ValidateWithHashes(metadata CacheMetadata, root string) (ValidationResult, error) {
	currentStats, err := collectFileStats(root, extensionSet(metadata.Extensions))
	if err != nil {
		return ValidationResult{}, fmt.Errorf("collect file stats: %w", err)
	}

	var changes []FileChange

	for path := range metadata.FileMetadata {
		if _, ok := currentStats[path]; !ok {
			changes = append(changes, FileChange{Path: path, Kind: FileDeleted})
		}
	}

	for path, stat := range currentStats {
		cached, ok := metadata.FileMetadata[path]
		if !ok {
			hash, err := computeFileHash(filepath.Join(root, filepath.FromSlash(path)))
			if err != nil {
				return ValidationResult{}, fmt.Errorf("hash %s: %w", path, err)
			}
			changes = append(changes, FileChange{Path: path, Kind: FileAdded, Size: stat.size, Mtime: stat.mtime, Hash: hash})
			continue
		}
		if stat.size != cached.Size || !stat.mtime.Equal(cached.Mtime) {
			hash, err := computeFileHash(filepath.Join(root, filepath.FromSlash(path)))
			if err != nil {
				return ValidationResult{}, fmt.Errorf("hash %s: %w", path, err)
			}
			if hash != cached.Hash {
				changes = append(changes, FileChange{Path: path, Kind: FileModified, Size: stat.size, Mtime: stat.mtime, Hash: hash})
			}
			// size/mtime drifted but the hash still matches: false alarm, no change recorded.
		}
	}

	if len(changes) == 0 {
		return ValidationResult{Kind: ValidationValid}, nil
	}

	threshold := len(metadata.FileMetadata)
	if threshold < 1000 {
		threshold = 1000
	}
	threshold /= 10
	if len(changes) > threshold || len(changes) > 100 {
		return ValidationResult{Kind: ValidationInvalid}, nil
	}

	return ValidationResult{Kind: ValidationNeedsUpdate, Changes: changes}, nil
}

// Invalidate deletes both cache files for root/extensions, if present.
// Missing files are not an error.
func (m *Manager) Invalidate(root string, extensions []string) error {
	cacheFile, metaFile, err := m.cachePaths(root, extensions)
	if err != nil {
		return err
	}
	if err := os.Remove(cacheFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	if err := os.Remove(metaFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove metadata file: %w", err)
	}
	return nil
}

// ensureGitignore writes "*\n" into the cache base directory's .gitignore
// the first time a cache is created under a repository, so the cache
// never gets committed.
func (m *Manager) ensureGitignore(root string) error {
	base := m.Dir
	if base == "" {
		base = filepath.Join(root, DirName)
	}
	gitignorePath := filepath.Join(base, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("create cache base directory: %w", err)
	}
	if err := os.WriteFile(gitignorePath, []byte("*\n"), 0o644); err != nil {
		return fmt.Errorf("write .gitignore: %w", err)
	}
	return nil
}
