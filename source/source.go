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


package source

import (
	"context"
	"errors"
)

var (
	// ErrEmptyRoot indicates that a filesystem source has no root directory.
	ErrEmptyRoot = errors.New("source root cannot be empty")

	// ErrNotDirectory indicates that the source root is not a directory.
	ErrNotDirectory = errors.New("source root is not a directory")

	// ErrInvalidPattern indicates a malformed include or exclude glob.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// Document is a discovered, not yet read, corpus entry.
type Document struct {
	// Path identifies the document. For filesystem sources it is the path
	// relative to the root, using forward slashes.
	Path string

	// Read returns the raw bytes of the document.
	Read func(ctx context.Context) ([]byte, error)
}

// Source yields the documents of a corpus in a stable discovery order.
type Source interface {
	Discover(ctx context.Context) ([]Document, error)
}
