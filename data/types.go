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
	"time"

	"github.com/google/uuid"
)

// RunSummary describes one ETL batch execution.
type RunSummary struct {
	RunID        uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	NumCompanies int
	NumSkipped   int
	NumRecords   int
	OutputPath   string
	MetadataPath string
}

// Table names used by the optional Postgres mirror; the schema is
// managed by the migrations embedded in the db package.
const (
	FundamentalsTable   = "fundamentals"
	TickerMetadataTable = "tickers"
)
