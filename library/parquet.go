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
	"github.com/finqlab/fhdata/data"
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// SaveParquet writes a record set to a parquet file, replacing any
// existing file at fn.
func SaveParquet(records []*data.Fundamental, fn string) error {
	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create local file")
		return err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(data.Fundamental), 4)
	if err != nil {
		log.Error().
			Str("OriginalError", err.Error()).
			Msg("Parquet write failed")
		return err
	}

	pw.RowGroupSize = 128 * 1024 * 1024 // 128M
	pw.PageSize = 8 * 1024              // 8k
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for _, r := range records {
		if err = pw.Write(r); err != nil {
			log.Error().
				Str("OriginalError", err.Error()).
				Str("Ticker", r.Ticker).Str("FiscalPeriod", r.FiscalPeriod).
				Str("Metric", r.Metric).
				Msg("Parquet write failed for record")
		}
	}

	if err = pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("Parquet write failed")
		return err
	}

	log.Info().Int("NumRecords", len(records)).Str("FileName", fn).Msg("Parquet write finished")
	return nil
}

// LoadParquet reads a record set previously written by SaveParquet.
func LoadParquet(fn string) ([]*data.Fundamental, error) {
	fh, err := local.NewLocalFileReader(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot open local file")
		return nil, err
	}
	defer fh.Close()

	pr, err := reader.NewParquetReader(fh, new(data.Fundamental), 4)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create parquet reader")
		return nil, err
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	records := make([]*data.Fundamental, 0, num)
	const batchSize = 10000
	for num > 0 {
		n := batchSize
		if num < n {
			n = num
		}
		batch := make([]data.Fundamental, n)
		if err := pr.Read(&batch); err != nil {
			log.Error().Err(err).Str("FileName", fn).Msg("parquet read failed")
			return nil, err
		}
		for idx := range batch {
			records = append(records, &batch[idx])
		}
		num -= n
	}

	log.Info().Int("NumRecords", len(records)).Str("FileName", fn).Msg("Parquet read finished")
	return records, nil
}

// NewStoreFromParquet loads a parquet record set and indexes it.
func NewStoreFromParquet(fn string) (*Store, error) {
	records, err := LoadParquet(fn)
	if err != nil {
		return nil, err
	}
	return NewStore(records), nil
}
