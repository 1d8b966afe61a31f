// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package data

// ScoreRecord is one company's standing within a single scoring run.
// Score records are ephemeral: they are recomputed on demand from a
// fundamentals snapshot and never persisted as authoritative state.
type ScoreRecord struct {
	Ticker string `json:"ticker"`

	// Raw holds the per-metric input values used for ranking; a nil
	// entry means the metric could not be derived for this company.
	Raw map[string]*float64 `json:"raw"`

	// Scores holds the per-metric percentile scores in [0, 1].
	Scores map[string]*float64 `json:"scores"`

	// HealthScore is the null-skipping mean of the per-metric scores.
	HealthScore *float64 `json:"health_score"`

	// Insight is a human-readable synthesis of the raw values.
	Insight string `json:"insight"`

	// RiskFlags lists triggered warnings in evaluation order, e.g.
	// "Revenue contraction" or "High leverage".
	RiskFlags []string `json:"risk_flags"`
}
