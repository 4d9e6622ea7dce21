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

package filter

import (
	"context"
	"regexp"
	"strings"

	"listingsweep"
)

// Package filter provides record filters for import pipelines. A filter
// returning false drops the record from the stream.

// NotEmpty keeps records where the named field has a non-absent value.
// Nil, a missing key, and a whitespace-only string all count as absent,
// matching the cleaning pass.
func NotEmpty(field string) listingsweep.Filter {
	return listingsweep.FilterFunc(func(ctx context.Context, record listingsweep.Record) (bool, error) {
		value, exists := record[field]
		if !exists || value == nil {
			return false, nil
		}
		if str, ok := value.(string); ok && strings.TrimSpace(str) == "" {
			return false, nil
		}
		return true, nil
	})
}

// Matches keeps records where the string field matches the pattern.
// Non-string and absent values never match.
func Matches(field, pattern string) (listingsweep.Filter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return listingsweep.FilterFunc(func(ctx context.Context, record listingsweep.Record) (bool, error) {
		if str, ok := record[field].(string); ok {
			return re.MatchString(str), nil
		}
		return false, nil
	}), nil
}

// All requires every filter to pass.
func All(filters ...listingsweep.Filter) listingsweep.Filter {
	return listingsweep.FilterFunc(func(ctx context.Context, record listingsweep.Record) (bool, error) {
		for _, f := range filters {
			include, err := f.ShouldInclude(ctx, record)
			if err != nil {
				return false, err
			}
			if !include {
				return false, nil
			}
		}
		return true, nil
	})
}

// Any requires at least one filter to pass.
func Any(filters ...listingsweep.Filter) listingsweep.Filter {
	return listingsweep.FilterFunc(func(ctx context.Context, record listingsweep.Record) (bool, error) {
		for _, f := range filters {
			include, err := f.ShouldInclude(ctx, record)
			if err != nil {
				return false, err
			}
			if include {
				return true, nil
			}
		}
		return false, nil
	})
}

// Not negates a filter.
func Not(f listingsweep.Filter) listingsweep.Filter {
	return listingsweep.FilterFunc(func(ctx context.Context, record listingsweep.Record) (bool, error) {
		include, err := f.ShouldInclude(ctx, record)
		if err != nil {
			return false, err
		}
		return !include, nil
	})
}
