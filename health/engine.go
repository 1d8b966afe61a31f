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
	"math"
	"sort"

	"github.com/finqlab/fhdata/data"
	"github.com/finqlab/fhdata/library"
	"github.com/rs/zerolog/log"
)

// Metric names the factor model depends on. Companies missing
// revenue entirely cannot be scored.
const (
	MetricTotalRevenue      = "Total Revenue"
	MetricNetIncome         = "Net Income"
	MetricFreeCashFlow      = "Free Cash Flow"
	MetricTotalLiabilities  = "Total Liabilities"
	MetricShareholderEquity = "Shareholder Equity"
)

// Factor keys used in ScoreRecord maps.
const (
	FactorGrowth     = "Growth"
	FactorNetMargin  = "NetMargin"
	FactorFCFMargin  = "FCFMargin"
	FactorDebtEquity = "DebtEquity"
)

// MinPeriods is the minimum quarters of history a company needs
// before its factors are considered meaningful. Four quarters back
// is the YoY comparison point, so five periods is the floor for a
// growth figure to exist at all.
const MinPeriods = 5

type rawFactors struct {
	ticker string

	growth     *float64
	netMargin  *float64
	fcfMargin  *float64
	debtEquity *float64
}

func (raw *rawFactors) allNil() bool {
	return raw.growth == nil && raw.netMargin == nil &&
		raw.fcfMargin == nil && raw.debtEquity == nil
}

// computeRawFactors derives the four factor values from a company's
// pivoted statement table. A factor is nil when its inputs are
// missing or its denominator is zero.
func computeRawFactors(pivoted *library.Pivoted) *rawFactors {
	raw := &rawFactors{ticker: pivoted.Ticker}

	revenue := pivoted.Latest(MetricTotalRevenue)

	// YoY growth compares against the quarter four periods back
	if prev := pivoted.Back(MetricTotalRevenue, 4); revenue != nil && prev != nil && *prev != 0 {
		g := (*revenue - *prev) / math.Abs(*prev)
		raw.growth = &g
	}

	if revenue != nil && *revenue != 0 {
		if netIncome := pivoted.Latest(MetricNetIncome); netIncome != nil {
			m := *netIncome / *revenue
			raw.netMargin = &m
		}
		if fcf := pivoted.Latest(MetricFreeCashFlow); fcf != nil {
			m := *fcf / *revenue
			raw.fcfMargin = &m
		}
	}

	liabilities := pivoted.Latest(MetricTotalLiabilities)
	equity := pivoted.Latest(MetricShareholderEquity)
	if liabilities != nil && equity != nil && *equity != 0 {
		de := *liabilities / *equity
		raw.debtEquity = &de
	}

	return raw
}

// Scores computes the composite health score for every scoreable
// company in the snapshot. Companies with fewer than MinPeriods
// quarters of history, without any revenue metric, or with no
// computable factor at all are excluded. Results are sorted by score
// descending with ticker as tie-break, so identical inputs yield
// identical output order.
func Scores(store *library.Store) []*data.ScoreRecord {
	var factors []*rawFactors

	for _, ticker := range store.AllTickers() {
		pivoted := store.Pivot(ticker)
		if pivoted.NumPeriods() < MinPeriods {
			log.Debug().Str("Ticker", ticker).Int("NumPeriods", pivoted.NumPeriods()).
				Msg("excluded: insufficient history")
			continue
		}
		if !pivoted.HasMetric(MetricTotalRevenue) {
			log.Debug().Str("Ticker", ticker).Msg("excluded: no revenue metric")
			continue
		}

		raw := computeRawFactors(pivoted)
		if raw.allNil() {
			log.Debug().Str("Ticker", ticker).Msg("excluded: no computable factors")
			continue
		}
		factors = append(factors, raw)
	}

	if len(factors) == 0 {
		return nil
	}

	growth := make([]*float64, len(factors))
	netMargin := make([]*float64, len(factors))
	fcfMargin := make([]*float64, len(factors))
	debtEquity := make([]*float64, len(factors))
	for i, raw := range factors {
		growth[i] = raw.growth
		netMargin[i] = raw.netMargin
		fcfMargin[i] = raw.fcfMargin
		debtEquity[i] = raw.debtEquity
	}

	growthRank := percentileRanks(growth)
	netMarginRank := percentileRanks(netMargin)
	fcfMarginRank := percentileRanks(fcfMargin)
	debtEquityRank := invertedRanks(debtEquity)

	records := make([]*data.ScoreRecord, 0, len(factors))
	for i, raw := range factors {
		composite := (growthRank[i] + netMarginRank[i] + fcfMarginRank[i] + debtEquityRank[i]) / 4

		gr, nm, fm, de := growthRank[i], netMarginRank[i], fcfMarginRank[i], debtEquityRank[i]
		records = append(records, &data.ScoreRecord{
			Ticker: raw.ticker,
			Raw: map[string]*float64{
				FactorGrowth:     raw.growth,
				FactorNetMargin:  raw.netMargin,
				FactorFCFMargin:  raw.fcfMargin,
				FactorDebtEquity: raw.debtEquity,
			},
			Scores: map[string]*float64{
				FactorGrowth:     &gr,
				FactorNetMargin:  &nm,
				FactorFCFMargin:  &fm,
				FactorDebtEquity: &de,
			},
			HealthScore: &composite,
			Insight:     healthInsight(raw),
			RiskFlags:   riskFlags(raw),
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
