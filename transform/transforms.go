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

package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"listingsweep"
)

// Package transform provides record transformers for import pipelines: column
// selection, renaming, dropping, and per-field string cleanup. Each function
// returns a listingsweep.Transformer; transformers never mutate their input
// record.

// Select keeps only the listed columns. Columns absent from a record are
// simply not present in the output.
func Select(columns ...string) listingsweep.Transformer {
	return listingsweep.TransformFunc(func(ctx context.Context, record listingsweep.Record) (listingsweep.Record, error) {
		result := make(listingsweep.Record, len(columns))
		for _, col := range columns {
			if value, exists := record[col]; exists {
				result[col] = value
			}
		}
		return result, nil
	})
}

// Rename maps old column names to new ones; unmapped columns pass through.
func Rename(mapping map[string]string) listingsweep.Transformer {
	return listingsweep.TransformFunc(func(ctx context.Context, record listingsweep.Record) (listingsweep.Record, error) {
		result := make(listingsweep.Record, len(record))
		for key, value := range record {
			if newKey, exists := mapping[key]; exists {
				result[newKey] = value
			} else {
				result[key] = value
			}
		}
		return result, nil
	})
}

// Drop removes the listed columns; columns that do not exist are ignored.
func Drop(columns ...string) listingsweep.Transformer {
	dropped := make(map[string]bool, len(columns))
	for _, col := range columns {
		dropped[col] = true
	}

	return listingsweep.TransformFunc(func(ctx context.Context, record listingsweep.Record) (listingsweep.Record, error) {
		result := make(listingsweep.Record, len(record))
		for key, value := range record {
			if !dropped[key] {
				result[key] = value
			}
		}
		return result, nil
	})
}

// TrimSpace trims surrounding whitespace from the named string fields. A field
// that trims to the empty string becomes nil, matching how the cleaning pass
// represents absent values.
func TrimSpace(fields ...string) listingsweep.Transformer {
	return listingsweep.TransformFunc(func(ctx context.Context, record listingsweep.Record) (listingsweep.Record, error) {
		result := record.Clone()
		for _, field := range fields {
			value, exists := record[field]
			if !exists {
				continue
			}
			str, ok := value.(string)
			if !ok {
				continue
			}
			trimmed := strings.TrimSpace(str)
			if trimmed == "" {
				result[field] = nil
			} else {
				result[field] = trimmed
			}
		}
		return result, nil
	})
}

// Lowercase folds the named string fields to lower case. Useful for email
// columns before deduplication.
func Lowercase(fields ...string) listingsweep.Transformer {
	return listingsweep.TransformFunc(func(ctx context.Context, record listingsweep.Record) (listingsweep.Record, error) {
		result := record.Clone()
		for _, field := range fields {
			if str, ok := record[field].(string); ok {
				result[field] = strings.ToLower(str)
			}
		}
		return result, nil
	})
}

// AddField sets a computed column on every record.
func AddField(field string, fn func(listingsweep.Record) interface{}) listingsweep.Transformer {
	return listingsweep.TransformFunc(func(ctx context.Context, record listingsweep.Record) (listingsweep.Record, error) {
		result := record.Clone()
		result[field] = fn(record)
		return result, nil
	})
}

// ToString converts a field's value to its string rendering. Nil stays nil.
func ToString(field string) listingsweep.Transformer {
	return convert(field, func(v interface{}) (interface{}, error) {
		return cast.ToStringE(v)
	})
}

// ToInt converts a field's value to int. Nil stays nil.
func ToInt(field string) listingsweep.Transformer {
	return convert(field, func(v interface{}) (interface{}, error) {
		return cast.ToIntE(v)
	})
}

// ToFloat converts a field's value to float64. Nil stays nil.
func ToFloat(field string) listingsweep.Transformer {
	return convert(field, func(v interface{}) (interface{}, error) {
		return cast.ToFloat64E(v)
	})
}

func convert(field string, fn func(interface{}) (interface{}, error)) listingsweep.Transformer {
	return listingsweep.TransformFunc(func(ctx context.Context, record listingsweep.Record) (listingsweep.Record, error) {
		value, exists := record[field]
		if !exists || value == nil {
			return record, nil
		}
		converted, err := fn(value)
		if err != nil {
			return nil, fmt.Errorf("convert field %s: %w", field, err)
		}
		result := record.Clone()
		result[field] = converted
		return result, nil
	})
}
