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

// Package library holds a snapshot of collected fundamentals and the
// per-company pivoted view the scoring layer consumes. A Store is
// immutable after construction; rebuilding from a fresh record set
// yields a new snapshot with its own ID.
package library

import (
	"sort"

	"github.com/finqlab/fhdata/data"
	"github.com/google/uuid"
)

type Store struct {
	// SnapshotID identifies this materialization of the record set.
	SnapshotID uuid.UUID

	records  []*data.Fundamental
	byTicker map[string][]*data.Fundamental

	// tickers in first-seen order
	tickers []string

	metrics map[string]bool
}

// NewStore indexes a record set. Records are kept in their original
// order, which downstream duplicate resolution depends on.
func NewStore(records []*data.Fundamental) *Store {
	store := &Store{
		SnapshotID: uuid.New(),
		records:    records,
		byTicker:   make(map[string][]*data.Fundamental),
		metrics:    make(map[string]bool),
	}

	for _, record := range records {
		if _, ok := store.byTicker[record.Ticker]; !ok {
			store.tickers = append(store.tickers, record.Ticker)
		}
		store.byTicker[record.Ticker] = append(store.byTicker[record.Ticker], record)
		store.metrics[record.Metric] = true
	}

	return store
}

// AllTickers returns tickers in first-seen order.
func (store *Store) AllTickers() []string {
	out := make([]string, len(store.tickers))
	copy(out, store.tickers)
	return out
}

// RecordsFor returns a ticker's records in stored order.
func (store *Store) RecordsFor(ticker string) []*data.Fundamental {
	return store.byTicker[ticker]
}

// Metrics returns the distinct metric names present, sorted.
func (store *Store) Metrics() []string {
	out := make([]string, 0, len(store.metrics))
	for metric := range store.metrics {
		out = append(out, metric)
	}
	sort.Strings(out)
	return out
}

func (store *Store) NumRecords() int {
	return len(store.records)
}

func (store *Store) Records() []*data.Fundamental {
	return store.records
}

// Pivoted is one company's fundamentals as a metric-by-period table.
// Periods are calendar quarter labels sorted ascending; the label
// format sorts correctly as plain strings.
type Pivoted struct {
	Ticker  string
	Periods []string

	cells map[string]map[string]*float64
}

// Pivot builds the per-ticker metric/period table. When the same
// (fiscal period, metric) pair occurs more than once the first
// record in stored order wins, regardless of whether the later
// occurrence carries a value. Restricting categories limits which
// records participate; with none given all records do.
func (store *Store) Pivot(ticker string, categories ...data.Category) *Pivoted {
	var wanted map[data.Category]bool
	if len(categories) > 0 {
		wanted = make(map[data.Category]bool, len(categories))
		for _, category := range categories {
			wanted[category] = true
		}
	}

	pivoted := &Pivoted{
		Ticker: ticker,
		cells:  make(map[string]map[string]*float64),
	}

	periodSeen := make(map[string]bool)
	for _, record := range store.byTicker[ticker] {
		if wanted != nil && !wanted[record.Category] {
			continue
		}

		row, ok := pivoted.cells[record.Metric]
		if !ok {
			row = make(map[string]*float64)
			pivoted.cells[record.Metric] = row
		}
		if _, dup := row[record.FiscalPeriod]; dup {
			continue
		}
		row[record.FiscalPeriod] = record.Value

		if !periodSeen[record.FiscalPeriod] {
			periodSeen[record.FiscalPeriod] = true
			pivoted.Periods = append(pivoted.Periods, record.FiscalPeriod)
		}
	}

	sort.Strings(pivoted.Periods)
	return pivoted
}

func (pivoted *Pivoted) NumPeriods() int {
	return len(pivoted.Periods)
}

func (pivoted *Pivoted) HasMetric(metric string) bool {
	_, ok := pivoted.cells[metric]
	return ok
}

// Value returns the cell for a metric and period; nil when the cell
// is absent or was reported empty.
func (pivoted *Pivoted) Value(metric, period string) *float64 {
	return pivoted.cells[metric][period]
}

// Latest returns the value in the most recent period, nil when the
// metric is absent or the latest cell is empty.
func (pivoted *Pivoted) Latest(metric string) *float64 {
	return pivoted.Back(metric, 0)
}

// Back returns the value n periods before the most recent one. Back
// (metric, 0) is the latest period; nil when the offset walks off
// the front of the table.
func (pivoted *Pivoted) Back(metric string, n int) *float64 {
	idx := len(pivoted.Periods) - 1 - n
	if idx < 0 || idx >= len(pivoted.Periods) {
		return nil
	}
	row, ok := pivoted.cells[metric]
	if !ok {
		return nil
	}
	return row[pivoted.Periods[idx]]
}

// LatestAvailable returns the most recent non-nil value for a
// metric, scanning backwards from the latest period.
func (pivoted *Pivoted) LatestAvailable(metric string) *float64 {
	row, ok := pivoted.cells[metric]
	if !ok {
		return nil
	}
	for idx := len(pivoted.Periods) - 1; idx >= 0; idx-- {
		if v := row[pivoted.Periods[idx]]; v != nil {
			return v
		}
	}
	return nil
}
