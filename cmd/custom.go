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
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/finqlab/fhdata/data"
	"github.com/finqlab/fhdata/health"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	customMetrics []string
	customTop     int
	listMetrics   bool
)

// customCmd represents the custom command
var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Rank companies on an arbitrary metric selection",
	Long: `The custom sub-command ranks companies on whatever statement metrics
you select instead of the fixed factor model. Each metric contributes the
percentile rank of the company's most recent reported value; the composite
averages across the metrics the company reports. Higher raw values always
rank higher, so metrics where smaller is better will rank inverted.

Use --list to see the metric names available in the snapshot.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, metadata := loadSnapshot(ctx)

		if listMetrics {
			for _, metric := range store.Metrics() {
				fmt.Println(metric)
			}
			return
		}

		if len(customMetrics) == 0 {
			log.Fatal().Msg("no metrics selected, use --metrics")
		}

		scores := health.CustomScores(store, customMetrics)
		if len(scores) == 0 {
			log.Fatal().Strs("Metrics", customMetrics).
				Msg("no company reports any of the selected metrics")
		}

		renderMarkdown(customDocument(scores, metadata, customMetrics, customTop))
	},
}

func customDocument(scores []*data.ScoreRecord, metadata []*data.TickerMetadata, metrics []string, top int) string {
	metaByTicker := make(map[string]*data.TickerMetadata, len(metadata))
	for _, meta := range metadata {
		metaByTicker[meta.Ticker] = meta
	}

	builder := strings.Builder{}
	builder.WriteString("# Custom Ranking\n\n")
	builder.WriteString(fmt.Sprintf("Metrics: %s\n\n", strings.Join(metrics, ", ")))
	builder.WriteString("| Rank | Ticker | Name | Score | Latest Values |\n")
	builder.WriteString("|------|--------|------|-------|---------------|\n")

	if top > 0 && len(scores) > top {
		scores = scores[:top]
	}
	for rank, score := range scores {
		name := ""
		if meta, ok := metaByTicker[score.Ticker]; ok {
			name = meta.Name
		}
		builder.WriteString(fmt.Sprintf("| %d | %s | %s | %.3f | %s |\n",
			rank+1, score.Ticker, name, *score.HealthScore, score.Insight))
	}
	builder.WriteString("\n")

	return builder.String()
}

func init() {
	rootCmd.AddCommand(customCmd)
	customCmd.Flags().StringSliceVarP(&customMetrics, "metrics", "m", nil, "metric names to rank on (comma separated)")
	customCmd.Flags().IntVarP(&customTop, "top", "t", 20, "companies shown (0 = all)")
	customCmd.Flags().BoolVarP(&listMetrics, "list", "l", false, "list metric names available in the snapshot")
}
