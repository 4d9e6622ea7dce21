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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"listingsweep/clean"
	"listingsweep/report"
)

var validateSource sourceFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report on the quality of a listing export",
	Long: "validate loads a listing export and prints a JSON data-quality report: " +
		"column types, null counts, duplicates, and missing required columns. The " +
		"command fails when required columns are absent or the source has no rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, err := validateSource.open(ctx)
		if err != nil {
			return err
		}
		defer source.Close()

		table, err := clean.Load(ctx, source)
		if err != nil {
			return err
		}
		clean.Normalize(table)

		rep := report.Build(table, clean.Rules{
			RequiredFields: cfg.Validation.RequiredFields,
			DuplicateKey:   cfg.Validation.DuplicateKey,
		})

		out, err := rep.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))

		if !rep.Valid {
			return fmt.Errorf("source failed validation")
		}
		return nil
	},
}

func init() {
	validateSource.register(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
