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

// Command listingsweep imports, validates, and cleans practitioner listing
// exports. Sources are local CSV files, shared Google Sheets, S3 objects, or
// MongoDB collections; the cleaning pass separates valid rows from rows with
// missing required fields or duplicate keys.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"listingsweep/config"
	"listingsweep/logging"
)

var (
	cfgPath string
	cfg     *config.Config
	logger  *slog.Logger

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:           "listingsweep",
	Short:         "Import and clean practitioner listing data",
	Long:          "listingsweep loads practitioner listing exports from CSV files, Google Sheets, S3, or MongoDB, reports on their quality, and splits them into clean and problematic record sets.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		logger, closeLog, err = logging.Setup(cfg.Logging)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
}

func main() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
