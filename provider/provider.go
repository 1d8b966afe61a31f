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
package provider

import (
	"context"

	"github.com/finqlab/fhdata/data"
)

// StatementMatrix is one raw quarterly statement exactly as a
// provider reports it: metric rows by period columns. Column headers
// are kept verbatim; the normalizer decides which ones parse as
// dates. Cell values are nil where the provider reported nothing.
type StatementMatrix struct {
	Ticker   string
	Category data.Category

	// Columns holds the raw period headers in provider order.
	Columns []string

	// RowOrder preserves the provider's metric ordering; Rows maps
	// each metric name to one value per column.
	RowOrder []string
	Rows     map[string][]*float64
}

// Empty reports whether the matrix carries no usable cells.
func (matrix *StatementMatrix) Empty() bool {
	return matrix == nil || len(matrix.Columns) == 0 || len(matrix.RowOrder) == 0
}

// SetCell assigns a value, growing the metric row on first use.
func (matrix *StatementMatrix) SetCell(metric string, colIdx int, value *float64) {
	row, ok := matrix.Rows[metric]
	if !ok {
		row = make([]*float64, len(matrix.Columns))
		matrix.Rows[metric] = row
		matrix.RowOrder = append(matrix.RowOrder, metric)
	}
	if colIdx >= 0 && colIdx < len(row) {
		row[colIdx] = value
	}
}

// StatementProvider supplies one company's raw quarterly statements.
type StatementProvider interface {
	Name() string
	Statements(ctx context.Context, ticker string) (map[data.Category]*StatementMatrix, error)
}

// UniverseProvider lists the companies considered for cross-sectional
// comparison, with basic reference metadata.
type UniverseProvider interface {
	Name() string
	List(ctx context.Context) ([]*data.TickerMetadata, error)
}
