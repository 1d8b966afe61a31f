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

// Package normalize converts raw provider statement matrices to the
// tall fundamentals representation: one record per (ticker, fiscal
// period, metric, category). Period columns whose headers do not
// parse as dates are dropped, as are columns where every metric cell
// is empty.
package normalize

import (
	"time"

	"github.com/finqlab/fhdata/data"
	"github.com/finqlab/fhdata/provider"
	"github.com/rs/zerolog/log"
)

// periodLayouts are tried in order; providers are inconsistent about
// whether headers carry a time component.
var periodLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"Jan 2, 2006",
}

// ParsePeriod parses a raw statement column header as a period end
// date. The boolean is false when no known layout matches.
func ParsePeriod(header string) (time.Time, bool) {
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, header); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Melt flattens one statement matrix into tall records. Metric row
// order and column order are preserved, so output order is
// deterministic for a given matrix.
func Melt(matrix *provider.StatementMatrix) []*data.Fundamental {
	if matrix.Empty() {
		return nil
	}

	type column struct {
		idx       int
		periodEnd string
		fiscal    string
	}

	columns := make([]column, 0, len(matrix.Columns))
	for idx, header := range matrix.Columns {
		periodEnd, ok := ParsePeriod(header)
		if !ok {
			log.Debug().Str("Ticker", matrix.Ticker).Str("Header", header).
				Msg("dropping non-date statement column")
			continue
		}

		empty := true
		for _, metric := range matrix.RowOrder {
			if row := matrix.Rows[metric]; idx < len(row) && row[idx] != nil {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		columns = append(columns, column{
			idx:       idx,
			periodEnd: periodEnd.Format("2006-01-02"),
			fiscal:    data.FiscalPeriod(periodEnd),
		})
	}

	records := make([]*data.Fundamental, 0, len(columns)*len(matrix.RowOrder))
	for _, metric := range matrix.RowOrder {
		row := matrix.Rows[metric]
		for _, col := range columns {
			var value *float64
			if col.idx < len(row) {
				value = row[col.idx]
			}
			records = append(records, &data.Fundamental{
				Ticker:       matrix.Ticker,
				PeriodEnd:    col.periodEnd,
				FiscalPeriod: col.fiscal,
				Metric:       metric,
				Category:     matrix.Category,
				Value:        value,
			})
		}
	}

	return records
}

// MeltCompany melts all of a company's statements, concatenated in
// canonical category order. That order matters downstream: pivoting
// keeps the first value for a duplicated (fiscal period, metric)
// pair across categories.
func MeltCompany(matrices map[data.Category]*provider.StatementMatrix) []*data.Fundamental {
	var records []*data.Fundamental
	for _, category := range data.Categories {
		matrix, ok := matrices[category]
		if !ok {
			continue
		}
		records = append(records, Melt(matrix)...)
	}
	return records
}
