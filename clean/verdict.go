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
	"strings"

	"github.com/spf13/cast"
)

// Verdict classifies a row after validation. Every row gets exactly one verdict,
// so the problematic set is a union by construction: a row that is both missing
// a required field and a duplicate is counted once, as MissingRequired.
type Verdict int

const (
	// Valid rows have every required field present and a first-occurrence key.
	Valid Verdict = iota
	// MissingRequired rows lack a value in at least one required field.
	MissingRequired
	// Duplicate rows repeat the composite key of an earlier row.
	Duplicate
)

// String returns a human-readable name for the verdict.
func (v Verdict) String() string {
	switch v {
	case MissingRequired:
		return "missing_required"
	case Duplicate:
		return "duplicate"
	default:
		return "valid"
	}
}

// keyAbsent is the canonical key fragment for an absent value. Absent values
// compare equal to each other and never to a real value, regardless of whether
// the source encoded them as null or as an empty string.
const keyAbsent = "\x00"

// keySep joins key fragments; a unit separator cannot occur in trimmed field text
// by accident often enough to matter, and keeps ("a","bc") distinct from ("ab","c").
const keySep = "\x1f"

// Rules bundles the externally supplied validation configuration: which columns
// must be non-empty and which columns form the duplicate key.
type Rules struct {
	RequiredFields []string
	DuplicateKey   []string
}

// Classify assigns a verdict to every row. The returned slice is parallel to
// t.Rows.
//
// Completeness: a row fails when any required field is absent; a required column
// missing from the schema entirely counts as absent for every row.
//
// Duplicates: the composite key is evaluated over post-normalization values, and
// the first occurrence of a key in source order is never flagged. Key claiming is
// independent of the completeness check, so a missing-field row still claims its
// key and a later identical row is a duplicate of it.
//
// Precedence: a row failing both checks is classified MissingRequired.
func Classify(t *Table, rules Rules) []Verdict {
	verdicts := make([]Verdict, len(t.Rows))
	seen := make(map[string]bool, len(t.Rows))

	for i, row := range t.Rows {
		dup := false
		if len(rules.DuplicateKey) > 0 {
			key := compositeKey(row, rules.DuplicateKey)
			if seen[key] {
				dup = true
			} else {
				seen[key] = true
			}
		}

		switch {
		case missingRequired(t, row, rules.RequiredFields):
			verdicts[i] = MissingRequired
		case dup:
			verdicts[i] = Duplicate
		default:
			verdicts[i] = Valid
		}
	}

	return verdicts
}

// MissingColumns returns the required columns absent from the table schema.
// These are reported as data-quality warnings, not errors: every row fails
// completeness when one exists.
func MissingColumns(t *Table, required []string) []string {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

func missingRequired(t *Table, row Row, required []string) bool {
	for _, col := range required {
		if !t.HasColumn(col) {
			return true
		}
		if absent(row.Values[col]) {
			return true
		}
	}
	return false
}

func compositeKey(row Row, key []string) string {
	parts := make([]string, len(key))
	for i, col := range key {
		v := row.Values[col]
		if absent(v) {
			parts[i] = keyAbsent
			continue
		}
		parts[i] = cast.ToString(v)
	}
	return strings.Join(parts, keySep)
}

// absent reports whether a value counts as missing. Normalize collapses
// whitespace-only strings to nil, but absent also tolerates tables that were
// classified without a prior Normalize pass.
func absent(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
