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
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/finqlab/fhdata/db"
	"github.com/finqlab/fhdata/healthcheck"
	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type settings struct {
	DB struct {
		URL string `toml:"url"`
	} `toml:"db"`
	Fundamentals struct {
		OutputPath   string `toml:"output_path"`
		MetadataPath string `toml:"metadata_path"`
	} `toml:"fundamentals"`
	Healthchecks struct {
		APIKey  string `toml:"apikey"`
		CheckID string `toml:"check_id"`
	} `toml:"healthchecks"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather configuration and setup the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		config := settings{}
		config.Fundamentals.OutputPath = "fundamentals.parquet"
		config.Fundamentals.MetadataPath = "tickers.csv"

		form := huh.NewForm(
			// where do snapshot files live
			huh.NewGroup(
				huh.NewInput().
					Title("Where should the fundamentals snapshot be written?").
					Value(&config.Fundamentals.OutputPath),

				huh.NewInput().
					Title("Where should the company metadata CSV be written?").
					Value(&config.Fundamentals.MetadataPath),
			),

			// get details about the database mirror
			huh.NewGroup(
				huh.NewInput().
					Title("Provide the DSN for mirroring to PostgreSQL, or leave empty to skip (postgres://[user[:password]@][netloc][:port][/dbname][?param1=value1&...])").
					Value(&config.DB.URL).
					Validate(func(dsn string) error {
						if dsn == "" {
							return nil
						}
						_, err := pgx.ParseConfig(dsn)
						return err
					}),
			),

			// optional run monitoring
			huh.NewGroup(
				huh.NewInput().
					Title("Provide a healthchecks.io API key to monitor collection runs, or leave empty to skip").
					Value(&config.Healthchecks.APIKey),
			),
		)

		err := form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering settings")
		}

		if config.DB.URL != "" {
			log.Info().Msg("creating database tables")

			// run migration
			dbURL := strings.Replace(config.DB.URL, "postgres://", "pgx5://", -1)
			err = db.Migrate(dbURL)
			if err != nil {
				log.Fatal().Err(err).Msg("error running database migration")
			}

			log.Info().Msg("database tables created")
		}

		if config.Healthchecks.APIKey != "" {
			viper.Set("healthchecks.apikey", config.Healthchecks.APIKey)

			// replace any check left over from a previous init
			if oldID := viper.GetString("healthchecks.check_id"); oldID != "" {
				if err := healthcheck.Delete(oldID); err != nil {
					log.Warn().Err(err).Str("CheckID", oldID).Msg("could not delete previous check")
				}
			}

			checkID, err := healthcheck.Create("fhdata collect", "fhdata-collect",
				[]string{"fhdata"}, "0 6 * * *")
			if err != nil {
				log.Fatal().Err(err).Msg("error creating healthchecks.io check")
			}
			config.Healthchecks.CheckID = checkID

			log.Info().Str("CheckID", checkID).Msg("created healthchecks.io check")
		}

		// save settings to config file
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".fhdata.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving settings to config file")
		configData, err := toml.Marshal(config)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("fhdata has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
