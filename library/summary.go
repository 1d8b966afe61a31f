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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/finqlab/fhdata/data"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of a fundamentals snapshot in markdown
func Summary(store *Store, metadata []*data.TickerMetadata, fn string) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString("# Fundamentals Snapshot\n"); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Details\n\n"); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(fmt.Sprintf("File: %s\n\n", fn)); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Snapshot ID: %s\n", store.SnapshotID.String()[:6])); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Companies: %d\n", len(store.AllTickers()))); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Metrics: %d\n", len(store.Metrics()))); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Total Records: %d\n\n", store.NumRecords())); err != nil {
		return "", err
	}

	// snapshot age from file mtime
	if stat, err := os.Stat(fn); err == nil {
		age := timeago.English.Format(stat.ModTime())
		if _, err := builder.WriteString(fmt.Sprintf("Last Updated: %s (%s)\n\n",
			age, stat.ModTime().Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	} else {
		if _, err := builder.WriteString("Last Updated: Never\n\n"); err != nil {
			return "", err
		}
	}

	// period coverage across all companies
	earliest, latest := periodRange(store)
	if earliest != "" {
		if _, err := builder.WriteString(fmt.Sprintf("Coverage: %s - %s\n\n", earliest, latest)); err != nil {
			return "", err
		}
	}

	if _, err := builder.WriteString("## Sector Groups\n\n"); err != nil {
		return "", err
	}

	groups := make(map[string]int)
	var groupOrder []string
	for _, meta := range metadata {
		category := meta.SectorCategory()
		if _, ok := groups[category]; !ok {
			groupOrder = append(groupOrder, category)
		}
		groups[category]++
	}

	for _, category := range groupOrder {
		if _, err := builder.WriteString(p.Sprintf("  * %s: %d companies\n", category, groups[category])); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}

func periodRange(store *Store) (earliest string, latest string) {
	for _, ticker := range store.AllTickers() {
		for _, record := range store.RecordsFor(ticker) {
			if record.FiscalPeriod == "" {
				continue
			}
			if earliest == "" || record.FiscalPeriod < earliest {
				earliest = record.FiscalPeriod
			}
			if record.FiscalPeriod > latest {
				latest = record.FiscalPeriod
			}
		}
	}
	return
}

// Age reports how stale a snapshot file is; used to warn before
// scoring against old data.
func Age(fn string) (time.Duration, error) {
	stat, err := os.Stat(fn)
	if err != nil {
		return 0, err
	}
	return time.Since(stat.ModTime()), nil
}
