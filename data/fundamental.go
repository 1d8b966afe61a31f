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
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Category string

const (
	IncomeStatement Category = "IncomeStatement"
	BalanceSheet    Category = "BalanceSheet"
	CashFlow        Category = "CashFlow"
)

// Categories lists the statement categories in the order the
// provider emits them; pivoting keeps the first value seen for a
// duplicated (fiscal period, metric) pair, so this order doubles as
// the duplicate tie-break.
var Categories = []Category{IncomeStatement, BalanceSheet, CashFlow}

// Fundamental is one observed statement line-item value for one
// company in one fiscal period. Metric names are free-form and carry
// whatever label the statement provider uses; no attempt is made to
// reconcile provider vocabularies at this layer.
type Fundamental struct {
	Ticker string `json:"ticker" parquet:"name=ticker, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`

	// PeriodEnd is the end date of the fiscal period, YYYY-MM-DD.
	PeriodEnd string `json:"period_end" parquet:"name=period_end, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`

	// FiscalPeriod is the calendar quarter label derived from
	// PeriodEnd, e.g. 2023Q4.
	FiscalPeriod string `json:"fiscal_period" parquet:"name=fiscal_period, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`

	Metric   string   `json:"metric" parquet:"name=metric, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Category Category `json:"category" parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`

	// Value is nil when the source reported the cell as missing or
	// non-numeric; null cells are retained so that downstream
	// consumers can distinguish "reported empty" from "not reported".
	Value *float64 `json:"value" parquet:"name=value, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// FiscalPeriod converts a period end date to its calendar quarter
// label, e.g. 2023-11-04 -> 2023Q4.
func FiscalPeriod(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%dQ%d", t.Year(), q)
}

func (fundamental *Fundamental) PeriodEndDate() time.Time {
	t, err := time.Parse("2006-01-02", fundamental.PeriodEnd)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (fundamental *Fundamental) SaveDB(ctx context.Context, tbl string, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing fundamental transaction to database")
		}
	}()

	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"ticker",
		"period_end",
		"fiscal_period",
		"metric",
		"category",
		"value"
	) VALUES (
		$1, $2, $3, $4, $5, $6
	) ON CONFLICT ON CONSTRAINT %[1]s_pkey DO UPDATE SET
		period_end = EXCLUDED.period_end,
		value = EXCLUDED.value`, tbl)

	_, err = tx.Exec(ctx, sql, fundamental.Ticker, fundamental.PeriodEndDate(),
		fundamental.FiscalPeriod, fundamental.Metric, fundamental.Category,
		fundamental.Value)

	if err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("save fundamental to DB failed")
		return err
	}

	return nil
}
