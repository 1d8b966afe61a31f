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
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/finqlab/fhdata/data"
	"github.com/finqlab/fhdata/etl"
	"github.com/finqlab/fhdata/health"
	"github.com/finqlab/fhdata/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var topN int

// scoresCmd represents the scores command
var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Rank companies by composite financial health",
	Long: `The scores sub-command computes a composite health score for every
company in the snapshot. Companies are ranked against the full cross-section
on four factors: year-over-year revenue growth, net margin, free cash flow
margin, and debt-to-equity (inverted, lower is better). The composite is the
average percentile across the factors. Results are grouped into broad sector
buckets with the top companies of each shown.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, metadata := loadSnapshot(ctx)
		scores := health.Scores(store)
		if len(scores) == 0 {
			log.Fatal().Msg("no scoreable companies in snapshot")
		}

		renderMarkdown(scoresDocument(scores, metadata, topN))
	},
}

// loadSnapshot reads the snapshot from the configured database when
// one is set, and from the parquet/CSV files otherwise.
func loadSnapshot(ctx context.Context) (*library.Store, []*data.TickerMetadata) {
	if dbURL := viper.GetString("db.url"); dbURL != "" {
		database := &library.Database{DBUrl: dbURL}
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer database.Close()

		store, err := database.LoadStore(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load fundamentals from database")
		}

		metadata, err := database.LoadMetadata(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load metadata from database")
		}

		return store, metadata
	}

	outputPath := viper.GetString("fundamentals.output_path")
	store, err := library.NewStoreFromParquet(outputPath)
	if err != nil {
		log.Fatal().Err(err).Str("FileName", outputPath).
			Msg("could not load snapshot, run collect first")
	}

	if age, err := library.Age(outputPath); err == nil && age > 120*24*time.Hour {
		log.Warn().Str("Age", age.String()).
			Msg("snapshot is more than a quarter old, consider re-running collect")
	}

	metadataPath := viper.GetString("fundamentals.metadata_path")
	metadata, err := etl.LoadMetadataCSV(metadataPath)
	if err != nil {
		log.Warn().Err(err).Str("FileName", metadataPath).
			Msg("could not load company metadata, sector grouping unavailable")
	}

	return store, metadata
}

// scoresDocument renders ranked results as markdown, one section per
// sector bucket. Companies without metadata fall into Other.
func scoresDocument(scores []*data.ScoreRecord, metadata []*data.TickerMetadata, top int) string {
	metaByTicker := make(map[string]*data.TickerMetadata, len(metadata))
	for _, meta := range metadata {
		metaByTicker[meta.Ticker] = meta
	}

	grouped := make(map[string][]*data.ScoreRecord)
	var groupOrder []string
	for _, score := range scores {
		category := "Other"
		if meta, ok := metaByTicker[score.Ticker]; ok {
			category = meta.SectorCategory()
		}
		if _, seen := grouped[category]; !seen {
			groupOrder = append(groupOrder, category)
		}
		grouped[category] = append(grouped[category], score)
	}

	builder := strings.Builder{}
	builder.WriteString("# Financial Health Scores\n\n")

	for _, category := range groupOrder {
		builder.WriteString(fmt.Sprintf("## %s\n\n", category))
		builder.WriteString("| Rank | Ticker | Name | Score | Insight |\n")
		builder.WriteString("|------|--------|------|-------|---------|\n")

		records := grouped[category]
		if top > 0 && len(records) > top {
			records = records[:top]
		}
		for rank, score := range records {
			name := ""
			if meta, ok := metaByTicker[score.Ticker]; ok {
				name = meta.Name
			}
			builder.WriteString(fmt.Sprintf("| %d | %s | %s | %.3f | %s |\n",
				rank+1, score.Ticker, name, *score.HealthScore, score.Insight))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

func renderMarkdown(document string) {
	r, _ := glamour.NewTermRenderer(
		// detect background color and pick either the default dark or light theme
		glamour.WithAutoStyle(),
		// wrap output at specific width (default is 80)
		glamour.WithWordWrap(120),
	)

	out, err := r.Render(document)
	if err != nil {
		log.Fatal().Err(err).Msg("could not render document")
	}

	fmt.Print(out)
}

func init() {
	rootCmd.AddCommand(scoresCmd)
	scoresCmd.Flags().IntVarP(&topN, "top", "t", 5, "companies shown per sector group (0 = all)")
}
