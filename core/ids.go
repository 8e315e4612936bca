// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"encoding/hex"
	"path/filepath"

	"github.com/go-crypt/x/blake2b"
)

// ID is an opaque identifier assigned by the document store.
type ID uint64

// ItemID identifies an analyzed item within a corpus run.
// It is derived from the item's source path, so it is stable across runs.
type ItemID string

// ItemIDFromPath generates a deterministic ItemID from a source path using BLAKE2b hashing.
// Paths are cleaned and converted to forward slashes first so that
// equivalent spellings of a path map to the same ID.
func ItemIDFromPath(path string) ItemID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(filepath.ToSlash(filepath.Clean(path))))
	return ItemID(hex.EncodeToString(h.Sum(nil)))
}

// Checksum computes the hex-encoded 256-bit BLAKE2b digest of raw content.
// Identical bytes always produce identical checksums.
func Checksum(raw []byte) string {
	h, _ := blake2b.New(32, nil)
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}
