// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package index

import (
	"bytes"
	"encoding/gob"

	"github.com/p1rallels/codemapper-sub000/internal/model"
)

// codeIndexSnapshot mirrors CodeIndex's unexported fields so gob (which
// only sees exported fields through reflection) can serialize and
// reconstruct the whole index, including its tombstones and derived
// lookup maps, without re-deriving them from scratch on load.
type codeIndexSnapshot struct {
	Files        map[string]model.FileInfo
	Symbols      []model.Symbol
	Live         []bool
	SymbolIndex  map[string][]int
	FileSymbols  map[string][]int
	Dependencies map[string][]string
}

// GobEncode implements gob.GobEncoder so CodeIndex can be written directly
// to a binary cache file.
func (idx *CodeIndex) GobEncode() ([]byte, error) {
	snap := codeIndexSnapshot{
		Files:        idx.files,
		Symbols:      idx.symbols,
		Live:         idx.live,
		SymbolIndex:  idx.symbolIndex,
		FileSymbols:  idx.fileSymbols,
		Dependencies: idx.dependencies,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder, restoring a CodeIndex previously
// written by GobEncode.
func (idx *CodeIndex) GobDecode(data []byte) error {
	var snap codeIndexSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return err
	}
	idx.files = snap.Files
	idx.symbols = snap.Symbols
	idx.live = snap.Live
	idx.symbolIndex = snap.SymbolIndex
	idx.fileSymbols = snap.FileSymbols
	idx.dependencies = snap.Dependencies
	if idx.files == nil {
		idx.files = make(map[string]model.FileInfo)
	}
	if idx.symbolIndex == nil {
		idx.symbolIndex = make(map[string][]int)
	}
	if idx.fileSymbols == nil {
		idx.fileSymbols = make(map[string][]int)
	}
	if idx.dependencies == nil {
		idx.dependencies = make(map[string][]string)
	}
	return nil
}
