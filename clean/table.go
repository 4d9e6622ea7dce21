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
	"io"

	"listingsweep"
)

// Package clean implements the table-based cleaning pass: whole-table whitespace
// normalization, required-field validation, duplicate detection over a composite
// key, and partitioning into clean and problematic row sets.
//
// Unlike the streaming Pipeline, the cleaning pass needs the entire table in
// memory: duplicate detection is stateful across rows and the partition must
// preserve source order on both sides.

// TableError wraps structured error information for table operations.
type TableError struct {
	Op  string
	Err error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %s: %v", e.Op, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// Row is a single table row together with its original position in the source.
// The position is the row's identity: it survives normalization and partitioning
// so a row can be traced back to the input file.
type Row struct {
	Index  int
	Values listingsweep.Record
}

// Table is an ordered collection of rows sharing one column set.
// Column order is taken from the source (header order for CSV inputs) and is
// preserved in every output.
type Table struct {
	Columns []string
	Rows    []Row
	Schema  Schema
}

// Load drains a DataSource into a Table, assigning each row its source position.
// Column order comes from the source when it exposes one (see
// listingsweep.ColumnProvider); otherwise columns are collected in first-seen
// order across records.
func Load(ctx context.Context, source listingsweep.DataSource) (*Table, error) {
	t := &Table{}

	var columns []string
	if cp, ok := source.(listingsweep.ColumnProvider); ok {
		columns = append(columns, cp.Columns()...)
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}

	idx := 0
	for {
		select {
		case <-ctx.Done():
			return nil, &TableError{Op: "load", Err: ctx.Err()}
		default:
		}

		record, err := source.Read(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &TableError{Op: "load", Err: err}
		}
		if len(record) == 0 {
			continue
		}

		for k := range record {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}

		t.Rows = append(t.Rows, Row{Index: idx, Values: record})
		idx++
	}

	t.Columns = columns
	if len(t.Columns) == 0 {
		return nil, &TableError{Op: "load", Err: fmt.Errorf("source produced no columns")}
	}

	t.Schema = InferSchema(t)
	return t, nil
}

// HasColumn reports whether the table schema contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.Rows)
}
