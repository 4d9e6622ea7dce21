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

import "strings"

// Normalize trims leading and trailing whitespace from every value in textual
// columns, in place. Internal whitespace is untouched and non-textual columns
// pass through unchanged.
//
// A value that trims down to the empty string becomes nil, so "absent" has a
// single representation from here on: nil. Completeness checks and duplicate
// keys rely on this. Normalize is idempotent.
func Normalize(t *Table) {
	for _, col := range t.Columns {
		if t.Schema[col] != TypeString && t.Schema[col] != TypeUnknown {
			continue
		}
		for i := range t.Rows {
			v, ok := t.Rows[i].Values[col]
			if !ok || v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				continue
			}
			trimmed := strings.TrimSpace(s)
			if trimmed == "" {
				t.Rows[i].Values[col] = nil
			} else {
				t.Rows[i].Values[col] = trimmed
			}
		}
	}
}
