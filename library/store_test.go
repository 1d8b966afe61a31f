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
package library

import (
	"testing"

	"github.com/finqlab/fhdata/data"
)

func f(v float64) *float64 {
	return &v
}

func record(ticker, period, metric string, category data.Category, value *float64) *data.Fundamental {
	return &data.Fundamental{
		Ticker:       ticker,
		FiscalPeriod: period,
		Metric:       metric,
		Category:     category,
		Value:        value,
	}
}

func TestStoreIndexing(t *testing.T) {
	store := NewStore([]*data.Fundamental{
		record("BBB", "2023Q4", "Total Revenue", data.IncomeStatement, f(1)),
		record("AAA", "2023Q4", "Total Revenue", data.IncomeStatement, f(2)),
		record("BBB", "2023Q4", "Net Income", data.IncomeStatement, f(3)),
	})

	tickers := store.AllTickers()
	if len(tickers) != 2 || tickers[0] != "BBB" || tickers[1] != "AAA" {
		t.Errorf("AllTickers() = %v, want first-seen order [BBB AAA]", tickers)
	}

	metrics := store.Metrics()
	if len(metrics) != 2 || metrics[0] != "Net Income" || metrics[1] != "Total Revenue" {
		t.Errorf("Metrics() = %v, want sorted [Net Income, Total Revenue]", metrics)
	}

	if store.NumRecords() != 3 {
		t.Errorf("NumRecords() = %d, want 3", store.NumRecords())
	}
	if len(store.RecordsFor("BBB")) != 2 {
		t.Errorf("RecordsFor(BBB) = %d records, want 2", len(store.RecordsFor("BBB")))
	}
}

func TestPivotPeriodOrdering(t *testing.T) {
	store := NewStore([]*data.Fundamental{
		record("AAA", "2024Q1", "Total Revenue", data.IncomeStatement, f(130)),
		record("AAA", "2023Q2", "Total Revenue", data.IncomeStatement, f(100)),
		record("AAA", "2023Q4", "Total Revenue", data.IncomeStatement, f(120)),
	})

	pivoted := store.Pivot("AAA")
	want := []string{"2023Q2", "2023Q4", "2024Q1"}
	if len(pivoted.Periods) != len(want) {
		t.Fatalf("Periods = %v, want %v", pivoted.Periods, want)
	}
	for i := range want {
		if pivoted.Periods[i] != want[i] {
			t.Fatalf("Periods = %v, want %v", pivoted.Periods, want)
		}
	}

	if v := pivoted.Latest("Total Revenue"); v == nil || *v != 130 {
		t.Errorf("Latest = %v, want 130", v)
	}
	if v := pivoted.Back("Total Revenue", 2); v == nil || *v != 100 {
		t.Errorf("Back(2) = %v, want 100", v)
	}
	if v := pivoted.Back("Total Revenue", 3); v != nil {
		t.Errorf("Back(3) = %v, want nil past table start", v)
	}
}

func TestPivotFirstWins(t *testing.T) {
	// Same (period, metric) in two categories; the earlier record
	// keeps the cell even though the later one has a value.
	store := NewStore([]*data.Fundamental{
		record("AAA", "2023Q4", "Free Cash Flow", data.IncomeStatement, nil),
		record("AAA", "2023Q4", "Free Cash Flow", data.CashFlow, f(50)),
	})

	pivoted := store.Pivot("AAA")
	if v := pivoted.Value("Free Cash Flow", "2023Q4"); v != nil {
		t.Errorf("Value = %v, want nil (first record wins)", v)
	}
}

func TestPivotCategoryFilter(t *testing.T) {
	store := NewStore([]*data.Fundamental{
		record("AAA", "2023Q4", "Total Revenue", data.IncomeStatement, f(100)),
		record("AAA", "2023Q4", "Total Assets", data.BalanceSheet, f(500)),
	})

	pivoted := store.Pivot("AAA", data.BalanceSheet)
	if pivoted.HasMetric("Total Revenue") {
		t.Error("income statement metric leaked through balance sheet filter")
	}
	if !pivoted.HasMetric("Total Assets") {
		t.Error("balance sheet metric missing")
	}
}

func TestLatestAvailable(t *testing.T) {
	store := NewStore([]*data.Fundamental{
		record("AAA", "2023Q3", "EBITDA", data.IncomeStatement, f(42)),
		record("AAA", "2023Q4", "EBITDA", data.IncomeStatement, nil),
	})

	pivoted := store.Pivot("AAA")
	if v := pivoted.Latest("EBITDA"); v != nil {
		t.Errorf("Latest = %v, want nil in most recent period", v)
	}
	if v := pivoted.LatestAvailable("EBITDA"); v == nil || *v != 42 {
		t.Errorf("LatestAvailable = %v, want 42", v)
	}
	if v := pivoted.LatestAvailable("Missing"); v != nil {
		t.Errorf("LatestAvailable(Missing) = %v, want nil", v)
	}
}
