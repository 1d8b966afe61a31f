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
package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// TickerMetadata is immutable company reference data refreshed
// wholesale whenever the universe is re-fetched.
type TickerMetadata struct {
	Ticker   string `json:"ticker" csv:"Ticker" parquet:"name=ticker, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name     string `json:"name" csv:"Name" parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Sector   string `json:"sector" csv:"Sector" parquet:"name=sector, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Industry string `json:"industry" csv:"Industry" parquet:"name=industry, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// sectorCategories folds GICS sectors into the four broad buckets the
// scoring consumers group by.
var sectorCategories = map[string]string{
	"Information Technology": "Technology",
	"Communication Services": "Technology",
	"Consumer Discretionary": "Manufacturing",
	"Industrials":            "Manufacturing",
	"Materials":              "Manufacturing",
	"Energy":                 "Manufacturing",
	"Health Care":            "Public Sector",
	"Utilities":              "Public Sector",
	"Real Estate":            "Public Sector",
	"Financials":             "Finance",
	"Consumer Staples":       "Finance",
}

// SectorCategory returns the broad peer-group bucket for the
// company's GICS sector, or "Other" for unmapped sectors.
func (meta *TickerMetadata) SectorCategory() string {
	if cat, ok := sectorCategories[meta.Sector]; ok {
		return cat
	}
	return "Other"
}

func (meta *TickerMetadata) SaveDB(ctx context.Context, tbl string, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing ticker metadata transaction to database")
		}
	}()

	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"ticker",
		"name",
		"sector",
		"industry"
	) VALUES (
		$1, $2, $3, $4
	) ON CONFLICT ON CONSTRAINT %[1]s_pkey DO UPDATE SET
		name = EXCLUDED.name,
		sector = EXCLUDED.sector,
		industry = EXCLUDED.industry`, tbl)

	_, err = tx.Exec(ctx, sql, meta.Ticker, meta.Name, meta.Sector, meta.Industry)
	if err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("save ticker metadata to DB failed")
		return err
	}

	return nil
}
