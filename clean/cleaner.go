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

package clean

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"listingsweep"
	"listingsweep/writers"
)

// Options configures a cleaning run.
type Options struct {
	Rules Rules
	// CleanPath receives valid rows. Always written, header-only when no row is valid.
	CleanPath string
	// ProblemPath receives missing-field and duplicate rows. Only created when at
	// least one row is problematic.
	ProblemPath string
	Logger      *slog.Logger
}

// Summary reports the outcome of a cleaning run.
type Summary struct {
	RunID          string   `json:"run_id"`
	Rows           int      `json:"rows"`
	Missing        int      `json:"missing"`
	Duplicates     int      `json:"duplicates"`
	Problematic    int      `json:"problematic"`
	Clean          int      `json:"clean"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	ProblemWritten bool     `json:"problem_written"`
}

// Run executes one cleaning pass: load, normalize, classify, partition, write.
// The run is stateless; a failure at any stage aborts without partial recovery
// and a rerun starts again from the source.
func Run(ctx context.Context, source listingsweep.DataSource, opts Options) (*Summary, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	summary := &Summary{RunID: uuid.NewString()}

	table, err := Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("clean run %s: load: %w", summary.RunID, err)
	}
	summary.Rows = table.Len()
	log.Info("table loaded", "run_id", summary.RunID, "rows", table.Len(), "columns", len(table.Columns))

	Normalize(table)

	if missing := MissingColumns(table, opts.Rules.RequiredFields); len(missing) > 0 {
		summary.MissingColumns = missing
		log.Warn("required columns absent from source; every row fails completeness",
			"run_id", summary.RunID, "columns", missing)
	}

	verdicts := Classify(table, opts.Rules)
	for _, v := range verdicts {
		switch v {
		case MissingRequired:
			summary.Missing++
		case Duplicate:
			summary.Duplicates++
		}
	}

	partition := Split(table, verdicts)
	summary.Problematic = len(partition.Problematic)
	summary.Clean = len(partition.Clean)
	log.Info("rows classified", "run_id", summary.RunID,
		"missing", summary.Missing, "duplicates", summary.Duplicates,
		"problematic", summary.Problematic, "clean", summary.Clean)

	if err := writeCSV(ctx, opts.CleanPath, table.Columns, partition.Clean); err != nil {
		return nil, fmt.Errorf("clean run %s: write clean output: %w", summary.RunID, err)
	}
	log.Info("clean output written", "run_id", summary.RunID, "path", opts.CleanPath, "rows", summary.Clean)

	if len(partition.Problematic) == 0 {
		log.Info("no problematic rows to report", "run_id", summary.RunID)
		return summary, nil
	}

	if err := writeCSV(ctx, opts.ProblemPath, table.Columns, partition.Problematic); err != nil {
		return nil, fmt.Errorf("clean run %s: write problematic output: %w", summary.RunID, err)
	}
	summary.ProblemWritten = true
	log.Info("problematic output written", "run_id", summary.RunID, "path", opts.ProblemPath, "rows", summary.Problematic)

	return summary, nil
}

func writeCSV(ctx context.Context, path string, columns []string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	sink, err := writers.NewCSVWriter(f, writers.WithHeaders(columns))
	if err != nil {
		f.Close()
		return err
	}

	if err := WriteRows(ctx, rows, sink); err != nil {
		sink.Close()
		return err
	}
	return sink.Close()
}
