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


// Package config holds the run configuration for a corpus migration.
//
// A Config starts from Default, may be overlaid by a TOML file through Load,
// and is adjusted with functional options before being validated.
//
//	cfg, err := config.Load("corpora.toml")
//	if err != nil {
//	    return err
//	}
//	config.WithBatchSize(100)(cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
