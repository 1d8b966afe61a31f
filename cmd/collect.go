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
	"time"

	"github.com/finqlab/fhdata/backblaze"
	"github.com/finqlab/fhdata/etl"
	"github.com/finqlab/fhdata/healthcheck"
	"github.com/finqlab/fhdata/library"
	"github.com/finqlab/fhdata/provider"
	"github.com/gosimple/slug"
	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch quarterly statements for the S&P 500 universe",
	Long: `The collect sub-command fetches the current S&P 500 constituent list,
pulls each company's quarterly income statement, balance sheet, and cash flow
statement, and writes normalized records to a parquet snapshot plus a company
metadata CSV. Companies whose fetch fails are skipped and counted; the run
still completes.

When a database URL is configured the snapshot is also mirrored to
PostgreSQL, and when a backblaze bucket is configured the output files are
uploaded after the run.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		checkID := viper.GetString("healthchecks.check_id")

		batch := &etl.Batch{
			Universe:     provider.NewWikipedia(),
			Statements:   provider.NewYahoo(viper.GetInt("yahoo.rate_limit")),
			Workers:      viper.GetInt("fundamentals.workers"),
			Limit:        viper.GetInt("fundamentals.limit"),
			OutputPath:   viper.GetString("fundamentals.output_path"),
			MetadataPath: viper.GetString("fundamentals.metadata_path"),
		}

		startTime := time.Now()
		summary, err := batch.Run(ctx)
		if err != nil {
			if pingErr := healthcheck.PingFailure(checkID); pingErr != nil {
				log.Error().Err(pingErr).Msg("could not send failure ping")
			}
			log.Fatal().Err(err).Msg("collection run failed")
		}

		runTime := time.Since(startTime)
		log.Info().Str("RunTime", durafmt.Parse(runTime).String()).
			Int("NumCompanies", summary.NumCompanies).
			Int("NumSkipped", summary.NumSkipped).
			Msg("successfully collected fundamentals")

		if dbURL := viper.GetString("db.url"); dbURL != "" {
			mirrorSnapshot(ctx, summary.OutputPath, summary.MetadataPath, dbURL)
		}

		if bucketName := viper.GetString("backblaze.bucket"); bucketName != "" {
			dirname := slug.Make("fundamentals " + startTime.Format("2006-01-02"))
			for _, fn := range []string{summary.OutputPath, summary.MetadataPath} {
				if err := backblaze.Upload(fn, bucketName, dirname); err != nil {
					log.Error().Err(err).Str("FileName", fn).Msg("upload failed")
				}
			}
		}

		if err := healthcheck.Ping(checkID); err != nil {
			log.Error().Err(err).Msg("could not send success ping")
		}
	},
}

func mirrorSnapshot(ctx context.Context, outputPath, metadataPath, dbURL string) {
	database := &library.Database{DBUrl: dbURL}
	if err := database.Connect(ctx); err != nil {
		log.Error().Err(err).Msg("could not connect to database, skipping mirror")
		return
	}
	defer database.Close()

	records, err := library.LoadParquet(outputPath)
	if err != nil {
		log.Error().Err(err).Msg("could not re-read snapshot, skipping mirror")
		return
	}

	if _, err := database.SaveRecords(ctx, records); err != nil {
		log.Error().Err(err).Msg("mirror fundamentals failed")
	}

	metadata, err := etl.LoadMetadataCSV(metadataPath)
	if err != nil {
		log.Error().Err(err).Msg("could not re-read metadata, skipping mirror")
		return
	}

	if _, err := database.SaveMetadata(ctx, metadata); err != nil {
		log.Error().Err(err).Msg("mirror metadata failed")
	}
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().Int("workers", 4, "number of concurrent statement fetches")
	collectCmd.Flags().Int("limit", 0, "maximum companies to process (0 = all)")
	collectCmd.Flags().String("output", "fundamentals.parquet", "snapshot output path")
	collectCmd.Flags().String("metadata", "tickers.csv", "company metadata output path")

	for viperKey, flagName := range map[string]string{
		"fundamentals.workers":       "workers",
		"fundamentals.limit":         "limit",
		"fundamentals.output_path":   "output",
		"fundamentals.metadata_path": "metadata",
	} {
		if err := viper.BindPFlag(viperKey, collectCmd.Flags().Lookup(flagName)); err != nil {
			log.Panic().Err(err).Str("Flag", flagName).Msg("BindPFlag failed")
		}
	}
}
