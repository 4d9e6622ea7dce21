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
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"listingsweep/clean"
)

var cleanSource sourceFlags

var (
	cleanOutput    string
	problemOutput  string
	requiredFields []string
	duplicateKey   []string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Split a listing export into clean and problematic records",
	Long: "clean loads a listing export, trims whitespace, flags rows with missing " +
		"required fields or duplicate keys, and writes valid rows to the clean " +
		"output. Problematic rows go to a separate file, created only when needed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, err := cleanSource.open(ctx)
		if err != nil {
			return err
		}
		defer source.Close()

		rules := clean.Rules{
			RequiredFields: cfg.Validation.RequiredFields,
			DuplicateKey:   cfg.Validation.DuplicateKey,
		}
		if len(requiredFields) > 0 {
			rules.RequiredFields = requiredFields
			rules.DuplicateKey = requiredFields
		}
		if len(duplicateKey) > 0 {
			rules.DuplicateKey = duplicateKey
		}

		opts := clean.Options{
			Rules:       rules,
			CleanPath:   cfg.Output.CleanPath,
			ProblemPath: cfg.Output.ProblemPath,
			Logger:      logger,
		}
		if cleanOutput != "" {
			opts.CleanPath = cleanOutput
		}
		if problemOutput != "" {
			opts.ProblemPath = problemOutput
		}

		summary, err := clean.Run(ctx, source, opts)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	cleanSource.register(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "path for the clean CSV output (default from config)")
	cleanCmd.Flags().StringVar(&problemOutput, "problems", "", "path for the problematic-records CSV (default from config)")
	cleanCmd.Flags().StringSliceVar(&requiredFields, "required", nil, "required columns; also the duplicate key unless --key is set")
	cleanCmd.Flags().StringSliceVar(&duplicateKey, "key", nil, "columns forming the duplicate key")
	rootCmd.AddCommand(cleanCmd)
}
