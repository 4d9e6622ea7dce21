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
	"github.com/spf13/cobra"
)

var (
	scrapeQuery    string
	scrapeLocation string
	scrapeLimit    int
)

// TODO: wire a Google Maps scraping source once the collection side is built;
// the command exists so the CLI surface is stable for callers.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect practitioner listings from the web (not yet implemented)",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Warn("scraping functionality is not yet implemented")
		logger.Info("would scrape listings",
			"query", scrapeQuery, "location", scrapeLocation, "limit", scrapeLimit)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeQuery, "query", "", "search term for listings")
	scrapeCmd.Flags().StringVar(&scrapeLocation, "location", "", "geographic area to search")
	scrapeCmd.Flags().IntVar(&scrapeLimit, "limit", 100, "maximum listings to collect")
	rootCmd.AddCommand(scrapeCmd)
}
