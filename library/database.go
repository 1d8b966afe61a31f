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
	"context"

	"github.com/finqlab/fhdata/data"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Database mirrors collected fundamentals to PostgreSQL. The mirror
// is optional; parquet remains the source of truth for scoring.
type Database struct {
	DBUrl string

	Pool *pgxpool.Pool
}

// Connect to the configured database
func (db *Database) Connect(ctx context.Context) error {
	if db.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(context.Background(), db.DBUrl)
	if err != nil {
		return err
	}
	db.Pool = pool

	return nil
}

// Close the database pool
func (db *Database) Close() {
	db.Pool.Close()
}

// SaveRecords upserts a fundamentals record set. Failures on
// individual records are logged and counted but do not stop the
// batch; the returned error covers connection-level failures only.
func (db *Database) SaveRecords(ctx context.Context, records []*data.Fundamental) (int, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	saved := 0
	for _, record := range records {
		if err := record.SaveDB(ctx, data.FundamentalsTable, conn); err != nil {
			log.Error().Err(err).Str("Ticker", record.Ticker).
				Str("Metric", record.Metric).Msg("record not saved")
			continue
		}
		saved++
	}

	log.Info().Int("NumSaved", saved).Int("NumRecords", len(records)).
		Msg("fundamentals saved to database")
	return saved, nil
}

// SaveMetadata upserts company reference rows.
func (db *Database) SaveMetadata(ctx context.Context, tickers []*data.TickerMetadata) (int, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	saved := 0
	for _, meta := range tickers {
		if err := meta.SaveDB(ctx, data.TickerMetadataTable, conn); err != nil {
			log.Error().Err(err).Str("Ticker", meta.Ticker).Msg("metadata not saved")
			continue
		}
		saved++
	}

	return saved, nil
}

type dbFundamental struct {
	Ticker       string
	PeriodEnd    string
	FiscalPeriod string
	Metric       string
	Category     string
	Value        *float64
}

// LoadStore reads the full fundamentals mirror and indexes it.
func (db *Database) LoadStore(ctx context.Context) (*Store, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var rows []*dbFundamental
	err = pgxscan.Select(ctx, conn, &rows, `SELECT
		ticker,
		to_char(period_end, 'YYYY-MM-DD') AS period_end,
		fiscal_period,
		metric,
		category,
		value
	FROM `+data.FundamentalsTable+`
	ORDER BY ticker, fiscal_period, category, metric`)
	if err != nil {
		log.Error().Err(err).Msg("load fundamentals from database failed")
		return nil, err
	}

	records := make([]*data.Fundamental, 0, len(rows))
	for _, row := range rows {
		records = append(records, &data.Fundamental{
			Ticker:       row.Ticker,
			PeriodEnd:    row.PeriodEnd,
			FiscalPeriod: row.FiscalPeriod,
			Metric:       row.Metric,
			Category:     data.Category(row.Category),
			Value:        row.Value,
		})
	}

	return NewStore(records), nil
}

// LoadMetadata reads the company reference mirror.
func (db *Database) LoadMetadata(ctx context.Context) ([]*data.TickerMetadata, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var tickers []*data.TickerMetadata
	err = pgxscan.Select(ctx, conn, &tickers, `SELECT
		ticker, name, sector, industry
	FROM `+data.TickerMetadataTable+`
	ORDER BY ticker`)
	if err != nil {
		log.Error().Err(err).Msg("load ticker metadata from database failed")
		return nil, err
	}

	return tickers, nil
}
