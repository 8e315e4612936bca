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


// Package migration executes planned batches against a document store.
//
// Batches run in waves, one per tier, strictly in the order HIGH, MEDIUM,
// LOW. A wave does not start until every batch of the previous wave has
// finished. Within a wave at most N batches run at once (default 5); the
// batches race and complete in any order.
//
// Inside a batch items are migrated one after another. A failing item is
// recorded and the batch moves on. A systemic store failure, such as a
// closed or unreachable store, or a panic, aborts the batch: the current
// item and every item after it are marked failed and the batch carries a
// BatchError. Other batches and later waves still run.
//
// # Cancellation
//
// When the run context is cancelled no further batch is scheduled. A batch
// that is already running finishes its in-flight store call, which runs on
// a context detached from the run but bounded by the per-item timeout, and
// stops at the next item boundary. Items it did not reach are counted as
// cancelled, not failed.
package migration
