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


// Package dedupe finds exact and near-duplicate items in an analyzed corpus.
//
// Detection runs in two passes over the whole corpus. The exact pass groups
// items by checksum. The near-duplicate pass compares every remaining pair by
// token-set Jaccard similarity, which is quadratic in the number of items.
//
// Within a group, precedence decides the primary: higher importance wins,
// then larger size, then the lexicographically smaller ID. Every duplicate
// ends up pointing at a primary that is not itself a duplicate, and each
// primary lists the IDs merged into it.
package dedupe
