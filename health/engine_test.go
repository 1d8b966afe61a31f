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
	"testing"

	"github.com/finqlab/fhdata/data"
	"github.com/finqlab/fhdata/library"
)

var quarters = []string{"2023Q1", "2023Q2", "2023Q3", "2023Q4", "2024Q1"}

// company builds five quarters of records. revenues runs oldest to
// newest; the remaining metrics are reported in the latest quarter
// only, which is all the factor model reads.
func company(ticker string, revenues []float64, netIncome, fcf, liabilities, equity *float64) []*data.Fundamental {
	var records []*data.Fundamental
	for i, rev := range revenues {
		r := rev
		records = append(records, &data.Fundamental{
			Ticker:       ticker,
			FiscalPeriod: quarters[i],
			Metric:       MetricTotalRevenue,
			Category:     data.IncomeStatement,
			Value:        &r,
		})
	}

	latest := quarters[len(revenues)-1]
	for metric, value := range map[string]*float64{
		MetricNetIncome:         netIncome,
		MetricFreeCashFlow:      fcf,
		MetricTotalLiabilities:  liabilities,
		MetricShareholderEquity: equity,
	} {
		if value == nil {
			continue
		}
		records = append(records, &data.Fundamental{
			Ticker:       ticker,
			FiscalPeriod: latest,
			Metric:       metric,
			Category:     data.BalanceSheet,
			Value:        value,
		})
	}

	return records
}

func TestComputeRawFactors(t *testing.T) {
	records := company("AAA", []float64{100, 105, 110, 115, 120}, f(24), f(12), f(100), f(200))
	store := library.NewStore(records)

	raw := computeRawFactors(store.Pivot("AAA"))

	if raw.growth == nil || !almostEqual(*raw.growth, 0.2) {
		t.Errorf("growth = %v, want 0.2", raw.growth)
	}
	if raw.netMargin == nil || !almostEqual(*raw.netMargin, 0.2) {
		t.Errorf("netMargin = %v, want 0.2", raw.netMargin)
	}
	if raw.fcfMargin == nil || !almostEqual(*raw.fcfMargin, 0.1) {
		t.Errorf("fcfMargin = %v, want 0.1", raw.fcfMargin)
	}
	if raw.debtEquity == nil || !almostEqual(*raw.debtEquity, 0.5) {
		t.Errorf("debtEquity = %v, want 0.5", raw.debtEquity)
	}
}

func TestComputeRawFactorsNegativeBase(t *testing.T) {
	// growth divides by |previous| so a negative base keeps the sign
	// of the change
	records := company("AAA", []float64{-100, 0, 0, 0, -50}, nil, nil, nil, nil)
	store := library.NewStore(records)

	raw := computeRawFactors(store.Pivot("AAA"))
	if raw.growth == nil || !almostEqual(*raw.growth, 0.5) {
		t.Errorf("growth = %v, want 0.5", raw.growth)
	}
}

func TestComputeRawFactorsMissingInputs(t *testing.T) {
	// zero equity and zero latest revenue disable their factors
	records := company("AAA", []float64{100, 105, 110, 115, 0}, f(24), f(12), f(100), f(0))
	store := library.NewStore(records)

	raw := computeRawFactors(store.Pivot("AAA"))
	if raw.netMargin != nil {
		t.Errorf("netMargin = %v, want nil with zero revenue", raw.netMargin)
	}
	if raw.fcfMargin != nil {
		t.Errorf("fcfMargin = %v, want nil with zero revenue", raw.fcfMargin)
	}
	if raw.debtEquity != nil {
		t.Errorf("debtEquity = %v, want nil with zero equity", raw.debtEquity)
	}
	if raw.growth == nil {
		t.Error("growth should still compute from a zero latest value")
	}
}

func TestScoresOrdering(t *testing.T) {
	var records []*data.Fundamental
	records = append(records, company("AAA", []float64{100, 105, 110, 115, 120}, f(24), f(12), f(50), f(200))...)
	records = append(records, company("BBB", []float64{100, 98, 96, 93, 90}, f(-5), f(-2), f(300), f(100))...)
	store := library.NewStore(records)

	scores := Scores(store)
	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(scores))
	}

	if scores[0].Ticker != "AAA" {
		t.Errorf("top ticker = %s, want AAA", scores[0].Ticker)
	}
	if !(*scores[0].HealthScore > *scores[1].HealthScore) {
		t.Errorf("scores not descending: %f, %f", *scores[0].HealthScore, *scores[1].HealthScore)
	}
	for _, s := range scores {
		if *s.HealthScore < 0 || *s.HealthScore > 1 {
			t.Errorf("%s score %f out of [0, 1]", s.Ticker, *s.HealthScore)
		}
	}

	// BBB triggers every risk flag
	want := []string{"Revenue contraction", "Negative profitability", "Cash burn", "High leverage"}
	if len(scores[1].RiskFlags) != len(want) {
		t.Fatalf("BBB flags = %v, want %v", scores[1].RiskFlags, want)
	}
	for i := range want {
		if scores[1].RiskFlags[i] != want[i] {
			t.Errorf("BBB flags[%d] = %s, want %s", i, scores[1].RiskFlags[i], want[i])
		}
	}
	if len(scores[0].RiskFlags) != 0 {
		t.Errorf("AAA flags = %v, want none", scores[0].RiskFlags)
	}
}

func TestScoresExclusions(t *testing.T) {
	var records []*data.Fundamental

	// two full companies so ranking has a cross-section
	records = append(records, company("AAA", []float64{100, 105, 110, 115, 120}, f(24), f(12), f(50), f(200))...)
	records = append(records, company("BBB", []float64{100, 98, 96, 93, 90}, f(5), f(2), f(30), f(100))...)

	// only four quarters of history
	records = append(records, company("SHORT", []float64{100, 105, 110, 115}, f(10), nil, nil, nil)...)

	// five quarters but no revenue metric at all
	for _, q := range quarters {
		records = append(records, &data.Fundamental{
			Ticker:       "NOREV",
			FiscalPeriod: q,
			Metric:       MetricNetIncome,
			Category:     data.IncomeStatement,
			Value:        f(10),
		})
	}

	store := library.NewStore(records)
	scores := Scores(store)

	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(scores))
	}
	for _, s := range scores {
		if s.Ticker == "SHORT" || s.Ticker == "NOREV" {
			t.Errorf("ticker %s should have been excluded", s.Ticker)
		}
	}
}

func TestScoresDeterministic(t *testing.T) {
	var records []*data.Fundamental
	records = append(records, company("AAA", []float64{100, 105, 110, 115, 120}, f(24), f(12), f(50), f(200))...)
	records = append(records, company("BBB", []float64{100, 98, 96, 93, 90}, f(5), f(2), f(30), f(100))...)
	records = append(records, company("CCC", []float64{80, 85, 82, 88, 95}, f(9), f(4), f(40), f(120))...)

	first := Scores(library.NewStore(records))
	second := Scores(library.NewStore(records))

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Ticker != second[i].Ticker {
			t.Errorf("order differs at %d: %s vs %s", i, first[i].Ticker, second[i].Ticker)
		}
		if *first[i].HealthScore != *second[i].HealthScore {
			t.Errorf("score differs for %s", first[i].Ticker)
		}
	}
}

func TestScoresEmptyStore(t *testing.T) {
	if scores := Scores(library.NewStore(nil)); len(scores) != 0 {
		t.Errorf("Scores(empty) = %d records, want 0", len(scores))
	}
}
