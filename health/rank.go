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

// Package health computes cross-sectional percentile scores over a
// fundamentals snapshot. All scoring is relative to the companies in
// the snapshot; a score only has meaning within the universe it was
// computed against.
package health

// percentileRanks converts raw factor values to percentile scores in
// (0, 1]. A value's score is the fraction of non-nil values at or
// below it, with ties sharing the lowest rank of the group. Nil
// values score 0.0, below every real observation.
func percentileRanks(values []*float64) []float64 {
	nonNull := 0
	for _, v := range values {
		if v != nil {
			nonNull++
		}
	}

	ranks := make([]float64, len(values))
	if nonNull == 0 {
		return ranks
	}

	for i, v := range values {
		if v == nil {
			continue
		}
		countLess := 0
		for _, other := range values {
			if other != nil && *other < *v {
				countLess++
			}
		}
		ranks[i] = float64(countLess+1) / float64(nonNull)
	}

	return ranks
}

// invertedRanks scores lower-is-better factors. Non-nil values get
// the complement of their percentile rank; nil values still score
// 0.0 rather than inheriting the complement, so a company that never
// reports the factor stays at the bottom.
func invertedRanks(values []*float64) []float64 {
	ranks := percentileRanks(values)
	for i, v := range values {
		if v != nil {
			ranks[i] = 1 - ranks[i]
		}
	}
	return ranks
}
