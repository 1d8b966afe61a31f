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

func metricRecord(ticker, period, metric string, value *float64) *data.Fundamental {
	return &data.Fundamental{
		Ticker:       ticker,
		FiscalPeriod: period,
		Metric:       metric,
		Category:     data.IncomeStatement,
		Value:        value,
	}
}

func TestCustomScores(t *testing.T) {
	store := library.NewStore([]*data.Fundamental{
		metricRecord("AAA", "2023Q4", "EBITDA", f(3e9)),
		metricRecord("BBB", "2023Q4", "EBITDA", f(1e9)),
		metricRecord("CCC", "2023Q4", "EBITDA", f(2e9)),
	})

	scores := CustomScores(store, []string{"EBITDA"})
	if len(scores) != 3 {
		t.Fatalf("len(scores) = %d, want 3", len(scores))
	}

	if scores[0].Ticker != "AAA" || scores[2].Ticker != "BBB" {
		t.Errorf("order = [%s %s %s], want [AAA CCC BBB]",
			scores[0].Ticker, scores[1].Ticker, scores[2].Ticker)
	}
	if !almostEqual(*scores[0].HealthScore, 1.0) {
		t.Errorf("top score = %f, want 1.0", *scores[0].HealthScore)
	}

	if scores[0].Insight != "EBITDA: $3.0B" {
		t.Errorf("insight = %q, want %q", scores[0].Insight, "EBITDA: $3.0B")
	}
}

func TestCustomScoresSkipsMissing(t *testing.T) {
	store := library.NewStore([]*data.Fundamental{
		metricRecord("AAA", "2023Q4", "EBITDA", f(3e9)),
		metricRecord("AAA", "2023Q4", "Total Debt", f(1e9)),
		metricRecord("BBB", "2023Q4", "EBITDA", f(1e9)),
	})

	scores := CustomScores(store, []string{"EBITDA", "Total Debt"})
	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(scores))
	}

	var bbb *data.ScoreRecord
	for _, s := range scores {
		if s.Ticker == "BBB" {
			bbb = s
		}
	}
	if bbb == nil {
		t.Fatal("BBB missing from results")
	}

	// BBB's composite averages only the metric it reports
	if bbb.Scores["Total Debt"] != nil {
		t.Errorf("BBB Total Debt score = %v, want nil", bbb.Scores["Total Debt"])
	}
	if !almostEqual(*bbb.HealthScore, 0.5) {
		t.Errorf("BBB composite = %f, want 0.5", *bbb.HealthScore)
	}
	if bbb.Insight != "EBITDA: $1.0B" {
		t.Errorf("BBB insight = %q, want %q", bbb.Insight, "EBITDA: $1.0B")
	}
}

func TestCustomScoresExcludesNoValueTickers(t *testing.T) {
	store := library.NewStore([]*data.Fundamental{
		metricRecord("AAA", "2023Q4", "EBITDA", f(3e9)),
		metricRecord("BBB", "2023Q4", "Inventory", f(1e9)),
	})

	scores := CustomScores(store, []string{"EBITDA"})
	if len(scores) != 1 || scores[0].Ticker != "AAA" {
		t.Errorf("scores = %d records, want only AAA", len(scores))
	}
}

func TestCustomScoresUsesLatestAvailable(t *testing.T) {
	store := library.NewStore([]*data.Fundamental{
		metricRecord("AAA", "2023Q3", "EBITDA", f(5e9)),
		metricRecord("AAA", "2023Q4", "EBITDA", nil),
		metricRecord("BBB", "2023Q4", "EBITDA", f(1e9)),
	})

	scores := CustomScores(store, []string{"EBITDA"})
	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(scores))
	}
	if scores[0].Ticker != "AAA" {
		t.Errorf("top = %s, want AAA from its prior-quarter value", scores[0].Ticker)
	}
}

func TestCustomScoresEmptySelection(t *testing.T) {
	store := library.NewStore([]*data.Fundamental{
		metricRecord("AAA", "2023Q4", "EBITDA", f(3e9)),
	})

	scores := CustomScores(store, nil)
	if scores == nil || len(scores) != 0 {
		t.Errorf("CustomScores(nil selection) = %v, want empty non-nil slice", scores)
	}
}
