//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ListingSweep.
//
// ListingSweep is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ListingSweep is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ListingSweep. If not, see https://www.gnu.org/licenses/.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"listingsweep"
	"listingsweep/readers"
)

// sourceFlags holds the mutually exclusive input selectors shared by the
// clean, import, and validate commands.
type sourceFlags struct {
	csvPath  string
	sheetURL string

	s3Bucket string
	s3Key    string
	s3Region string

	mongoURI        string
	mongoDatabase   string
	mongoCollection string
}

func (sf *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sf.csvPath, "csv", "", "path to a local CSV file")
	cmd.Flags().StringVar(&sf.sheetURL, "gsheet", "", "shared Google Sheets URL")
	cmd.Flags().StringVar(&sf.s3Bucket, "s3-bucket", "", "S3 bucket holding a CSV export")
	cmd.Flags().StringVar(&sf.s3Key, "s3-key", "", "S3 object key of the CSV export")
	cmd.Flags().StringVar(&sf.s3Region, "s3-region", "", "AWS region for the S3 source")
	cmd.Flags().StringVar(&sf.mongoURI, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&sf.mongoDatabase, "mongo-db", "", "MongoDB database name")
	cmd.Flags().StringVar(&sf.mongoCollection, "mongo-collection", "", "MongoDB collection name")
}

// open resolves the flags into a data source. Exactly one source must be
// selected; a source that cannot be reached fails here, before any processing.
func (sf *sourceFlags) open(ctx context.Context) (listingsweep.DataSource, error) {
	selected := 0
	if sf.csvPath != "" {
		selected++
	}
	if sf.sheetURL != "" {
		selected++
	}
	if sf.s3Bucket != "" || sf.s3Key != "" {
		selected++
	}
	if sf.mongoURI != "" {
		selected++
	}
	if selected == 0 {
		return nil, fmt.Errorf("no input source: use --csv, --gsheet, --s3-bucket/--s3-key, or --mongo-uri")
	}
	if selected > 1 {
		return nil, fmt.Errorf("multiple input sources given; pick one")
	}

	switch {
	case sf.csvPath != "":
		return readers.OpenCSVFile(sf.csvPath)
	case sf.sheetURL != "":
		return readers.OpenSheet(sf.sheetURL)
	case sf.mongoURI != "":
		return readers.NewMongoReader(
			readers.WithMongoURI(sf.mongoURI),
			readers.WithMongoCollection(sf.mongoDatabase, sf.mongoCollection),
		)
	default:
		return readers.OpenS3Object(ctx,
			readers.WithS3Bucket(sf.s3Bucket),
			readers.WithS3Key(sf.s3Key),
			readers.WithS3Region(sf.s3Region),
		)
	}
}
