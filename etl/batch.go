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

// Package etl runs the collection pipeline: fetch the company
// universe, pull each company's statements through a bounded worker
// pool, normalize to tall records, and persist the snapshot.
package etl

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/finqlab/fhdata/data"
	"github.com/finqlab/fhdata/library"
	"github.com/finqlab/fhdata/normalize"
	"github.com/finqlab/fhdata/provider"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Batch struct {
	Universe   provider.UniverseProvider
	Statements provider.StatementProvider

	// Workers bounds concurrent statement fetches.
	Workers int

	// Limit caps how many companies are processed; <= 0 means all.
	Limit int

	OutputPath   string
	MetadataPath string
}

type companyResult struct {
	ticker  string
	records []*data.Fundamental
	err     error
}

// Run executes the pipeline. A universe fetch failure aborts the
// run; per-company failures are logged, counted as skips, and do not
// stop the batch. The summary reflects whatever was collected.
func (batch *Batch) Run(ctx context.Context) (*data.RunSummary, error) {
	summary := &data.RunSummary{
		RunID:        uuid.New(),
		StartTime:    time.Now(),
		OutputPath:   batch.OutputPath,
		MetadataPath: batch.MetadataPath,
	}

	tickers, err := batch.Universe.List(ctx)
	if err != nil {
		log.Error().Err(err).Str("Provider", batch.Universe.Name()).
			Msg("universe fetch failed")
		return nil, err
	}

	if batch.Limit > 0 && len(tickers) > batch.Limit {
		tickers = tickers[:batch.Limit]
	}
	summary.NumCompanies = len(tickers)

	workers := batch.Workers
	if workers <= 0 {
		workers = 4
	}

	type job struct {
		idx    int
		ticker string
	}

	jobs := make(chan job)
	results := make(chan companyResult)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				fmt.Printf("[%d/%d] %s\n", j.idx+1, len(tickers), j.ticker)

				matrices, err := batch.Statements.Statements(ctx, j.ticker)
				if err != nil {
					results <- companyResult{ticker: j.ticker, err: err}
					continue
				}
				results <- companyResult{
					ticker:  j.ticker,
					records: normalize.MeltCompany(matrices),
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for idx, meta := range tickers {
			select {
			case jobs <- job{idx: idx, ticker: meta.Ticker}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var records []*data.Fundamental
	for result := range results {
		if result.err != nil {
			log.Warn().Err(result.err).Str("Ticker", result.ticker).
				Msg("company skipped")
			summary.NumSkipped++
			continue
		}
		if len(result.records) == 0 {
			log.Warn().Str("Ticker", result.ticker).Msg("no records returned")
			summary.NumSkipped++
			continue
		}
		records = append(records, result.records...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary.NumRecords = len(records)

	if err := library.SaveParquet(records, batch.OutputPath); err != nil {
		return nil, err
	}

	if err := saveMetadataCSV(tickers, batch.MetadataPath); err != nil {
		return nil, err
	}

	summary.EndTime = time.Now()
	fmt.Printf("%d total rows written\n", summary.NumRecords)

	log.Info().
		Str("RunID", summary.RunID.String()[:6]).
		Int("NumCompanies", summary.NumCompanies).
		Int("NumSkipped", summary.NumSkipped).
		Int("NumRecords", summary.NumRecords).
		Dur("Elapsed", summary.EndTime.Sub(summary.StartTime)).
		Msg("collection finished")

	return summary, nil
}

func saveMetadataCSV(tickers []*data.TickerMetadata, fn string) error {
	fh, err := os.Create(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create metadata file")
		return err
	}
	defer fh.Close()

	if err := gocsv.MarshalFile(&tickers, fh); err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("metadata CSV write failed")
		return err
	}

	return nil
}

// LoadMetadataCSV reads a company reference file written by Run.
func LoadMetadataCSV(fn string) ([]*data.TickerMetadata, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var tickers []*data.TickerMetadata
	if err := gocsv.UnmarshalFile(fh, &tickers); err != nil {
		return nil, err
	}

	return tickers, nil
}
