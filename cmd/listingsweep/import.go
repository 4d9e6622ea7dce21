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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"listingsweep"
	"listingsweep/clean"
	"listingsweep/filter"
	"listingsweep/report"
	"listingsweep/transform"
	"listingsweep/writers"
)

var importSource sourceFlags

var (
	importOutput  string
	postgresDSN   string
	postgresTable string
	importStrict  bool

	selectColumns  []string
	dropColumns    []string
	renameColumns  []string
	requireColumns []string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a listing export and save it to a file or database",
	Long: "import loads a listing export, normalizes whitespace, reports on its " +
		"quality, and streams the rows to a CSV, JSON, or Parquet file, or to a " +
		"PostgreSQL table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if importOutput == "" && postgresDSN == "" {
			return fmt.Errorf("no destination: use --output or --postgres-dsn")
		}
		if importOutput != "" && postgresDSN != "" {
			return fmt.Errorf("multiple destinations given; pick one")
		}
		if postgresDSN != "" && postgresTable == "" {
			return fmt.Errorf("--postgres-table is required with --postgres-dsn")
		}

		source, err := importSource.open(ctx)
		if err != nil {
			return err
		}

		table, err := clean.Load(ctx, source)
		if err != nil {
			source.Close()
			return err
		}
		source.Close()
		clean.Normalize(table)

		rules := clean.Rules{
			RequiredFields: cfg.Validation.RequiredFields,
			DuplicateKey:   cfg.Validation.DuplicateKey,
		}
		rep := report.Build(table, rules)
		for _, warning := range rep.Warnings {
			logger.Warn("data quality", "warning", warning)
		}
		if !rep.Valid && importStrict {
			return fmt.Errorf("import aborted: source failed validation")
		}

		renames, err := parseRenames(renameColumns)
		if err != nil {
			return err
		}

		sink, err := openSink(outputColumns(table.Columns, renames))
		if err != nil {
			return err
		}

		builder := listingsweep.NewPipeline().From(clean.NewTableSource(table))
		if len(selectColumns) > 0 {
			builder.Transform(transform.Select(selectColumns...))
		}
		if len(dropColumns) > 0 {
			builder.Transform(transform.Drop(dropColumns...))
		}
		if len(renames) > 0 {
			builder.Transform(transform.Rename(renames))
		}
		for _, col := range requireColumns {
			builder.Filter(filter.NotEmpty(col))
		}

		pipeline, err := builder.To(sink).Build()
		if err != nil {
			return err
		}
		if err := pipeline.Execute(ctx); err != nil {
			return err
		}

		logger.Info("import complete",
			"rows", pipeline.RecordsWritten(), "columns", len(table.Columns))
		return nil
	},
}

// parseRenames turns "old=new" flag values into a rename mapping.
func parseRenames(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	renames := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		old, updated, ok := strings.Cut(pair, "=")
		if !ok || old == "" || updated == "" {
			return nil, fmt.Errorf("invalid --rename %q: expected old=new", pair)
		}
		renames[old] = updated
	}
	return renames, nil
}

// outputColumns applies the column-level flags to the source column order, so
// file headers match what comes out of the transform chain.
func outputColumns(columns []string, renames map[string]string) []string {
	selected := make(map[string]bool, len(selectColumns))
	for _, col := range selectColumns {
		selected[col] = true
	}
	dropped := make(map[string]bool, len(dropColumns))
	for _, col := range dropColumns {
		dropped[col] = true
	}

	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if len(selectColumns) > 0 && !selected[col] {
			continue
		}
		if dropped[col] {
			continue
		}
		if renamed, ok := renames[col]; ok {
			col = renamed
		}
		out = append(out, col)
	}
	return out
}

// openSink picks the destination writer: file extension selects the format,
// PostgreSQL flags select the database sink.
func openSink(columns []string) (listingsweep.DataSink, error) {
	if postgresDSN != "" {
		return writers.NewPostgresWriter(
			writers.WithPostgresDSN(postgresDSN),
			writers.WithTableName(postgresTable),
			writers.WithColumns(columns),
			writers.WithCreateTable(true),
		)
	}

	f, err := os.Create(importOutput)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(importOutput)) {
	case ".csv":
		sink, err := writers.NewCSVWriter(f, writers.WithHeaders(columns))
		if err != nil {
			f.Close()
			return nil, err
		}
		return sink, nil
	case ".json":
		return writers.NewJSONWriter(f), nil
	case ".parquet":
		sink, err := writers.NewParquetWriter(f, writers.WithParquetFieldOrder(columns))
		if err != nil {
			f.Close()
			return nil, err
		}
		return sink, nil
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported output format %q: use .csv, .json, or .parquet", filepath.Ext(importOutput))
	}
}

func init() {
	importSource.register(importCmd)
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "destination file (.csv, .json, or .parquet)")
	importCmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "PostgreSQL connection string destination")
	importCmd.Flags().StringVar(&postgresTable, "postgres-table", "", "PostgreSQL table to load into")
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "abort the import when the source fails validation")
	importCmd.Flags().StringSliceVar(&selectColumns, "select", nil, "keep only these columns")
	importCmd.Flags().StringSliceVar(&dropColumns, "drop", nil, "drop these columns")
	importCmd.Flags().StringSliceVar(&renameColumns, "rename", nil, "rename columns as old=new")
	importCmd.Flags().StringSliceVar(&requireColumns, "require", nil, "drop records where these columns are empty")
	rootCmd.AddCommand(importCmd)
}
