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
	"io"

	"listingsweep"
)

// TableSource adapts a loaded Table back into a listingsweep.DataSource, so a
// table that has been normalized or inspected can feed a streaming pipeline.
type TableSource struct {
	table *Table
	pos   int
}

// NewTableSource creates a data source over the table's rows in order.
func NewTableSource(t *Table) *TableSource {
	return &TableSource{table: t}
}

// Read implements the DataSource interface.
func (s *TableSource) Read(ctx context.Context) (listingsweep.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.pos >= len(s.table.Rows) {
		return nil, io.EOF
	}
	record := s.table.Rows[s.pos].Values
	s.pos++
	return record, nil
}

// Close implements the DataSource interface.
func (s *TableSource) Close() error {
	return nil
}

// Columns implements listingsweep.ColumnProvider.
func (s *TableSource) Columns() []string {
	return append([]string(nil), s.table.Columns...)
}
