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


// Package planning partitions deduplicated items into priority-ordered batches.
//
// Planning is a pure function of its input: duplicates are dropped, the rest
// are assigned a tier by importance score, and each tier is chunked in
// discovery order. Batches are returned in wave order (HIGH, MEDIUM, LOW)
// and never mix tiers.
package planning
