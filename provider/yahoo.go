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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finqlab/fhdata/data"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

var (
	ErrStatus   = errors.New("status code is invalid")
	ErrNoTicker = errors.New("ticker not found")
)

// Yahoo fetches quarterly statements from the Yahoo Finance
// fundamentals-timeseries API. The same endpoint backs the yfinance
// python package; field keys are its quarterly* vocabulary and are
// translated to display metric names before the matrices leave this
// package.
type Yahoo struct {
	// BaseURL is overridable for tests.
	BaseURL string

	client  *resty.Client
	limiter *rate.Limiter
}

// NewYahoo creates a provider limited to rateLimit requests per
// minute. Values <= 0 fall back to a conservative default that
// matches the upstream per-IP throttle.
func NewYahoo(rateLimit int) *Yahoo {
	if rateLimit <= 0 {
		rateLimit = 120
	}

	return &Yahoo{
		BaseURL: "https://query2.finance.yahoo.com",
		client: resty.New().
			SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) fhdata"),
		limiter: rate.NewLimiter(rate.Limit(float64(rateLimit)/float64(61)), 1),
	}
}

func (yahoo *Yahoo) Name() string {
	return "yahoo"
}

// metric key -> display name, per statement category. Display names
// follow the labels yfinance exposes; the scoring layer keys off
// "Total Revenue", "Net Income", "Free Cash Flow", "Total
// Liabilities" and "Shareholder Equity".
var yahooIncomeMetrics = map[string]string{
	"quarterlyTotalRevenue":           "Total Revenue",
	"quarterlyCostOfRevenue":          "Cost Of Revenue",
	"quarterlyGrossProfit":            "Gross Profit",
	"quarterlyOperatingIncome":        "Operating Income",
	"quarterlyOperatingExpense":       "Operating Expense",
	"quarterlyNetIncome":              "Net Income",
	"quarterlyBasicEPS":               "Basic EPS",
	"quarterlyDilutedEPS":             "Diluted EPS",
	"quarterlyEBITDA":                 "EBITDA",
	"quarterlyInterestExpense":        "Interest Expense",
	"quarterlyPretaxIncome":           "Pretax Income",
	"quarterlyTaxProvision":           "Tax Provision",
	"quarterlyResearchAndDevelopment": "Research And Development",
}

var yahooBalanceMetrics = map[string]string{
	"quarterlyTotalAssets":                         "Total Assets",
	"quarterlyCurrentAssets":                       "Current Assets",
	"quarterlyTotalLiabilitiesNetMinorityInterest": "Total Liabilities",
	"quarterlyCurrentLiabilities":                  "Current Liabilities",
	"quarterlyStockholdersEquity":                  "Shareholder Equity",
	"quarterlyCashAndCashEquivalents":              "Cash And Cash Equivalents",
	"quarterlyInventory":                           "Inventory",
	"quarterlyTotalDebt":                           "Total Debt",
	"quarterlyWorkingCapital":                      "Working Capital",
	"quarterlyRetainedEarnings":                    "Retained Earnings",
	"quarterlyNetPPE":                              "Net PPE",
}

var yahooCashFlowMetrics = map[string]string{
	"quarterlyOperatingCashFlow":           "Operating Cash Flow",
	"quarterlyInvestingCashFlow":           "Investing Cash Flow",
	"quarterlyFinancingCashFlow":           "Financing Cash Flow",
	"quarterlyFreeCashFlow":                "Free Cash Flow",
	"quarterlyCapitalExpenditure":          "Capital Expenditure",
	"quarterlyEndCashPosition":             "End Cash Position",
	"quarterlyDepreciationAndAmortization": "Depreciation And Amortization",
	"quarterlyStockBasedCompensation":      "Stock Based Compensation",
}

var yahooCategoryMetrics = map[data.Category]map[string]string{
	data.IncomeStatement: yahooIncomeMetrics,
	data.BalanceSheet:    yahooBalanceMetrics,
	data.CashFlow:        yahooCashFlowMetrics,
}

// Statements fetches the three quarterly statements for a ticker. A
// statement whose request fails entirely is returned as an empty
// matrix; the error is reserved for failures that affect the whole
// company (transport errors, HTTP status >= 400 on every category).
func (yahoo *Yahoo) Statements(ctx context.Context, ticker string) (map[data.Category]*StatementMatrix, error) {
	matrices := make(map[data.Category]*StatementMatrix, len(data.Categories))

	var lastErr error
	fetched := 0

	for _, category := range data.Categories {
		matrix, err := yahoo.fetchStatement(ctx, ticker, category)
		if err != nil {
			log.Warn().Err(err).Str("Ticker", ticker).Str("Category", string(category)).
				Msg("statement fetch failed")
			lastErr = err
			matrix = newMatrix(ticker, category)
		} else {
			fetched++
		}
		matrices[category] = matrix
	}

	if fetched == 0 && lastErr != nil {
		return nil, lastErr
	}

	return matrices, nil
}

func newMatrix(ticker string, category data.Category) *StatementMatrix {
	return &StatementMatrix{
		Ticker:   ticker,
		Category: category,
		Rows:     make(map[string][]*float64),
	}
}

func (yahoo *Yahoo) fetchStatement(ctx context.Context, ticker string, category data.Category) (*StatementMatrix, error) {
	if err := yahoo.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	metricKeys := yahooCategoryMetrics[category]
	types := make([]string, 0, len(metricKeys))
	for key := range metricKeys {
		types = append(types, key)
	}

	now := time.Now()
	url := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s", yahoo.BaseURL, ticker)
	resp, err := yahoo.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", ticker).
		SetQueryParam("type", strings.Join(types, ",")).
		SetQueryParam("period1", fmt.Sprintf("%d", now.AddDate(-5, 0, 0).Unix())).
		SetQueryParam("period2", fmt.Sprintf("%d", now.Unix())).
		SetQueryParam("merge", "false").
		Get(url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return parseTimeseries(ticker, category, resp.Body()), nil
}

// parseTimeseries converts one timeseries response to a raw
// statement matrix. Column headers are the asOfDate strings exactly
// as reported; the normalizer deals with anything that fails to
// parse as a date.
func parseTimeseries(ticker string, category data.Category, body []byte) *StatementMatrix {
	matrix := newMatrix(ticker, category)
	metricKeys := yahooCategoryMetrics[category]

	colIdx := make(map[string]int)

	results := gjson.GetBytes(body, "timeseries.result")
	results.ForEach(func(_, result gjson.Result) bool {
		key := result.Get("meta.type.0").String()
		displayName, ok := metricKeys[key]
		if !ok {
			return true
		}

		result.Get(key).ForEach(func(_, point gjson.Result) bool {
			if !point.Exists() || point.Type == gjson.Null {
				return true
			}

			asOf := point.Get("asOfDate").String()
			if asOf == "" {
				return true
			}

			idx, seen := colIdx[asOf]
			if !seen {
				idx = len(matrix.Columns)
				colIdx[asOf] = idx
				matrix.Columns = append(matrix.Columns, asOf)
				for metric, row := range matrix.Rows {
					matrix.Rows[metric] = append(row, nil)
				}
			}

			raw := point.Get("reportedValue.raw")
			var value *float64
			if raw.Exists() && raw.Type == gjson.Number {
				v := raw.Float()
				value = &v
			}

			matrix.SetCell(displayName, idx, value)
			return true
		})
		return true
	})

	return matrix
}

type yahooProfile struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// Profile returns sector and industry for a ticker; it is used to
// backfill metadata the universe provider could not supply.
func (yahoo *Yahoo) Profile(ctx context.Context, ticker string) (sector string, industry string, err error) {
	if err := yahoo.limiter.Wait(ctx); err != nil {
		return "", "", err
	}

	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s", yahoo.BaseURL, ticker)
	resp, err := yahoo.client.R().
		SetContext(ctx).
		SetQueryParam("modules", "assetProfile").
		Get(url)
	if err != nil {
		return "", "", err
	}

	if resp.StatusCode() >= 400 {
		return "", "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	var profile yahooProfile
	if err := json.Unmarshal(resp.Body(), &profile); err != nil {
		return "", "", err
	}

	if len(profile.QuoteSummary.Result) == 0 {
		return "", "", ErrNoTicker
	}

	assetProfile := profile.QuoteSummary.Result[0].AssetProfile
	return assetProfile.Sector, assetProfile.Industry, nil
}
