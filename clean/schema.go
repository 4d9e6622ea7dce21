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

// ColumnType is the inferred type of a table column.
type ColumnType int

const (
	// TypeUnknown means the column held no non-absent values.
	TypeUnknown ColumnType = iota
	// TypeString marks a textual column; only these are touched by Normalize.
	TypeString
	// TypeInt marks a column whose non-absent values are all integers.
	TypeInt
	// TypeFloat marks a numeric column with at least one non-integer value.
	TypeFloat
	// TypeBool marks a column whose non-absent values are all booleans.
	TypeBool
)

// String returns a human-readable name for the column type.
func (ct ColumnType) String() string {
	switch ct {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Schema maps column names to their inferred types.
type Schema map[string]ColumnType

// InferSchema determines each column's type with a single pass per column.
// A column with mixed or unconvertible values falls back to TypeString, which
// keeps later stages simple: numeric and boolean columns pass through
// normalization untouched, everything else is treated as text.
func InferSchema(t *Table) Schema {
	schema := make(Schema, len(t.Columns))
	for _, col := range t.Columns {
		schema[col] = inferColumn(t, col)
	}
	return schema
}

func inferColumn(t *Table, col string) ColumnType {
	inferred := TypeUnknown
	for _, row := range t.Rows {
		v, ok := row.Values[col]
		if !ok || v == nil {
			continue
		}
		vt := typeOf(v)
		switch {
		case inferred == TypeUnknown:
			inferred = vt
		case inferred == vt:
		case (inferred == TypeInt && vt == TypeFloat) || (inferred == TypeFloat && vt == TypeInt):
			inferred = TypeFloat
		default:
			return TypeString
		}
	}
	return inferred
}

func typeOf(v interface{}) ColumnType {
	switch v.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBool
	case float32, float64:
		return TypeFloat
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt
	default:
		// time.Time and anything else exotic is carried as text.
		return TypeString
	}
}
