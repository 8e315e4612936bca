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


// Package analysis turns raw documents into classified, scored items.
//
// The Analyzer is pure: given a path and its bytes it computes the checksum,
// title, category, kind, tags and the quality, complexity and importance
// scores. Classification uses explicit keyword tables keyed by core.Category
// and core.Kind; the argmax wins and ties fall back to the order of
// core.Categories and core.Kinds.
//
// The Runner fans analysis out over a bounded ants worker pool. A document
// that cannot be read or analyzed yields an *AnalysisError and never stops
// the analysis of the others.
package analysis
