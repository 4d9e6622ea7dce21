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

package report

import (
	"encoding/json"
	"fmt"

	"listingsweep/clean"
)

// Package report builds data-quality reports over loaded tables: row and column
// counts, per-column null counts, duplicate counts, and warnings. The report is
// advisory; the cleaning pass itself never fails on data-quality findings.

// highNullRate is the fraction of absent values, across the whole table, above
// which a warning is raised.
const highNullRate = 0.10

// Report summarizes the quality of a loaded table.
type Report struct {
	Rows                   int            `json:"rows"`
	Columns                int            `json:"columns"`
	ColumnTypes            map[string]string `json:"column_types"`
	NullCounts             map[string]int `json:"null_counts"`
	DuplicateRows          int            `json:"duplicate_rows"`
	MissingRequiredColumns []string       `json:"missing_required_columns,omitempty"`
	Warnings               []string       `json:"warnings,omitempty"`
	Valid                  bool           `json:"valid"`
}

// Build computes a quality report for the table under the given rules.
// The table should already be normalized so null counts line up with what the
// cleaning pass will see.
func Build(t *clean.Table, rules clean.Rules) *Report {
	r := &Report{
		Rows:        t.Len(),
		Columns:     len(t.Columns),
		ColumnTypes: make(map[string]string, len(t.Columns)),
		NullCounts:  make(map[string]int, len(t.Columns)),
		Valid:       true,
	}

	for _, col := range t.Columns {
		r.ColumnTypes[col] = t.Schema[col].String()
		r.NullCounts[col] = 0
	}

	totalNulls := 0
	for _, row := range t.Rows {
		for _, col := range t.Columns {
			if v, ok := row.Values[col]; !ok || v == nil {
				r.NullCounts[col]++
				totalNulls++
			}
		}
	}

	if len(rules.DuplicateKey) > 0 {
		verdicts := clean.Classify(t, clean.Rules{DuplicateKey: rules.DuplicateKey})
		for _, v := range verdicts {
			if v == clean.Duplicate {
				r.DuplicateRows++
			}
		}
	}

	r.MissingRequiredColumns = clean.MissingColumns(t, rules.RequiredFields)
	if len(r.MissingRequiredColumns) > 0 {
		r.Valid = false
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("missing required columns: %v", r.MissingRequiredColumns))
	}

	if t.Len() == 0 {
		r.Valid = false
		r.Warnings = append(r.Warnings, "table has no data rows")
	}

	if r.DuplicateRows > 0 {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("found %d duplicate rows", r.DuplicateRows))
	}

	if cells := t.Len() * len(t.Columns); cells > 0 {
		rate := float64(totalNulls) / float64(cells)
		if rate > highNullRate {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("high percentage of null values: %.2f%%", rate*100))
		}
	}

	return r
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
