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
	"testing"
	"time"
)

func TestSectorCategory(t *testing.T) {
	cases := []struct {
		sector string
		want   string
	}{
		{"Information Technology", "Technology"},
		{"Communication Services", "Technology"},
		{"Consumer Discretionary", "Manufacturing"},
		{"Industrials", "Manufacturing"},
		{"Materials", "Manufacturing"},
		{"Energy", "Manufacturing"},
		{"Health Care", "Public Sector"},
		{"Utilities", "Public Sector"},
		{"Real Estate", "Public Sector"},
		{"Financials", "Finance"},
		{"Consumer Staples", "Finance"},
		{"", "Other"},
		{"Unknown Sector", "Other"},
	}

	for _, c := range cases {
		meta := &TickerMetadata{Ticker: "AAA", Sector: c.sector}
		if got := meta.SectorCategory(); got != c.want {
			t.Errorf("SectorCategory(%q) = %q, want %q", c.sector, got, c.want)
		}
	}
}

func TestFiscalPeriod(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2023-01-01", "2023Q1"},
		{"2023-03-31", "2023Q1"},
		{"2023-06-30", "2023Q2"},
		{"2023-07-01", "2023Q3"},
		{"2023-12-31", "2023Q4"},
	}

	for _, c := range cases {
		d, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := FiscalPeriod(d); got != c.want {
			t.Errorf("FiscalPeriod(%s) = %s, want %s", c.date, got, c.want)
		}
	}
}

func TestPeriodEndDate(t *testing.T) {
	f := &Fundamental{PeriodEnd: "2023-12-31"}
	if f.PeriodEndDate().Format("2006-01-02") != "2023-12-31" {
		t.Errorf("PeriodEndDate() = %v", f.PeriodEndDate())
	}

	bad := &Fundamental{PeriodEnd: "not-a-date"}
	if !bad.PeriodEndDate().IsZero() {
		t.Error("PeriodEndDate() should be zero for unparseable input")
	}
}
