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

	"listingsweep"
)

// Partition holds the two row sets produced by a cleaning pass. Rows keep their
// original indices and appear in source order within each set; the two sets are
// disjoint and together cover the whole table.
type Partition struct {
	Clean       []Row
	Problematic []Row
}

// Split partitions table rows by verdict. verdicts must be parallel to t.Rows,
// as produced by Classify.
func Split(t *Table, verdicts []Verdict) Partition {
	var p Partition
	for i, row := range t.Rows {
		if verdicts[i] == Valid {
			p.Clean = append(p.Clean, row)
		} else {
			p.Problematic = append(p.Problematic, row)
		}
	}
	return p
}

// WriteRows streams a row set to a sink in order. The sink is flushed but not
// closed; the caller owns its lifecycle.
func WriteRows(ctx context.Context, rows []Row, sink listingsweep.DataSink) error {
	for _, row := range rows {
		if err := sink.Write(ctx, row.Values); err != nil {
			return err
		}
	}
	return sink.Flush()
}
