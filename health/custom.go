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
package health

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finqlab/fhdata/data"
	"github.com/finqlab/fhdata/library"
)

// CustomScores ranks companies on an arbitrary metric selection.
// Each metric contributes the percentile rank of the company's most
// recent available value; the composite is the mean over metrics the
// company reports. Higher raw values always rank higher, so metrics
// where smaller is better will rank inverted. Companies reporting
// none of the selected metrics are excluded. An empty selection
// yields an empty result.
func CustomScores(store *library.Store, metrics []string) []*data.ScoreRecord {
	if len(metrics) == 0 {
		return []*data.ScoreRecord{}
	}

	tickers := store.AllTickers()
	pivots := make(map[string]*library.Pivoted, len(tickers))
	for _, ticker := range tickers {
		pivots[ticker] = store.Pivot(ticker)
	}

	// raw[m][i] is ticker i's latest available value for metric m
	raw := make(map[string][]*float64, len(metrics))
	ranks := make(map[string][]float64, len(metrics))
	for _, metric := range metrics {
		values := make([]*float64, len(tickers))
		for i, ticker := range tickers {
			values[i] = pivots[ticker].LatestAvailable(metric)
		}
		raw[metric] = values
		ranks[metric] = percentileRanks(values)
	}

	records := make([]*data.ScoreRecord, 0, len(tickers))
	for i, ticker := range tickers {
		rawMap := make(map[string]*float64, len(metrics))
		scoreMap := make(map[string]*float64, len(metrics))

		sum := 0.0
		n := 0
		var parts []string
		for _, metric := range metrics {
			value := raw[metric][i]
			rawMap[metric] = value
			if value == nil {
				scoreMap[metric] = nil
				continue
			}

			rank := ranks[metric][i]
			scoreMap[metric] = &rank
			sum += rank
			n++
			parts = append(parts, fmt.Sprintf("%s: %s", metric, humanFormat(*value)))
		}

		if n == 0 {
			continue
		}

		composite := sum / float64(n)
		records = append(records, &data.ScoreRecord{
			Ticker:      ticker,
			Raw:         rawMap,
			Scores:      scoreMap,
			HealthScore: &composite,
			Insight:     strings.Join(parts, "; "),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if *records[i].HealthScore != *records[j].HealthScore {
			return *records[i].HealthScore > *records[j].HealthScore
		}
		return records[i].Ticker < records[j].Ticker
	})

	return records
}
