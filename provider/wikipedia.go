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
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/finqlab/fhdata/data"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Wikipedia scrapes the list of S&P 500 constituents from the
// "List of S&P 500 companies" article. The constituents table is
// static HTML with a stable id, so a plain GET plus a CSS selector
// is enough.
type Wikipedia struct {
	// URL is overridable for tests.
	URL string

	client *resty.Client
}

func NewWikipedia() *Wikipedia {
	return &Wikipedia{
		URL: "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
		client: resty.New().
			SetHeader("User-Agent", "fhdata/1.0 (fundamentals collector)"),
	}
}

func (wiki *Wikipedia) Name() string {
	return "wikipedia"
}

// List returns every row of the constituents table. Ticker symbols
// with class share notation (BRK.B) are rewritten to the dash form
// the statements API expects (BRK-B).
func (wiki *Wikipedia) List(ctx context.Context) ([]*data.TickerMetadata, error) {
	resp, err := wiki.client.R().
		SetContext(ctx).
		Get(wiki.URL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, err
	}

	tickers := make([]*data.TickerMetadata, 0, 503)
	doc.Find("table#constituents tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			// header row
			return
		}

		symbol := strings.TrimSpace(cells.Eq(0).Text())
		if symbol == "" {
			return
		}

		tickers = append(tickers, &data.TickerMetadata{
			Ticker:   strings.ReplaceAll(symbol, ".", "-"),
			Name:     strings.TrimSpace(cells.Eq(1).Text()),
			Sector:   strings.TrimSpace(cells.Eq(2).Text()),
			Industry: strings.TrimSpace(cells.Eq(3).Text()),
		})
	})

	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: no constituent rows found", ErrNoTicker)
	}

	log.Info().Int("NumTickers", len(tickers)).Msg("fetched constituent list")
	return tickers, nil
}
