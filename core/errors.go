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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyContent indicates the content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyItemID indicates an item or record has no ID.
	ErrEmptyItemID = errors.New("item id cannot be empty")

	// ErrEmptyChecksum indicates an item or record has no checksum.
	ErrEmptyChecksum = errors.New("checksum cannot be empty")

	// ErrInvalidCategory indicates an unknown Category value.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidKind indicates an unknown Kind value.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvalidTier indicates an unknown Tier value.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrInvalidScore indicates a score outside [0,1] or NaN.
	ErrInvalidScore = errors.New("score must be within [0,1]")

	// ErrInvalidPriority indicates a priority outside 1-10.
	ErrInvalidPriority = errors.New("priority must be between 1 and 10")
)
