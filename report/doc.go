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


// Package report aggregates batch results into a corpus-wide report.
//
// Aggregate is pure summation and never fails. Duration is the span from the
// earliest batch start to the latest batch finish, and throughput is
// successes per second of that span; both are 0 when no batch ran.
//
// The package also writes reports as JSON and provides a progress tracker
// for long migrations.
package report
