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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingsweep"
	"listingsweep/clean"
)

func tableOf(columns []string, records ...listingsweep.Record) *clean.Table {
	t := &clean.Table{Columns: columns}
	for i, r := range records {
		t.Rows = append(t.Rows, clean.Row{Index: i, Values: r})
	}
	t.Schema = clean.InferSchema(t)
	return t
}

func TestBuild_CountsAndTypes(t *testing.T) {
	table := tableOf([]string{"Index", "Email", "Score"},
		listingsweep.Record{"Index": 1, "Email": "a@x.com", "Score": 1.5},
		listingsweep.Record{"Index": 2, "Email": nil, "Score": 2.5},
		listingsweep.Record{"Index": 3, "Email": "c@x.com", "Score": nil},
	)
	clean.Normalize(table)

	rules := clean.Rules{
		RequiredFields: []string{"Index", "Email"},
		DuplicateKey:   []string{"Index"},
	}
	rep := Build(table, rules)

	assert.Equal(t, 3, rep.Rows)
	assert.Equal(t, 3, rep.Columns)
	assert.Equal(t, "int", rep.ColumnTypes["Index"])
	assert.Equal(t, "string", rep.ColumnTypes["Email"])
	assert.Equal(t, "float", rep.ColumnTypes["Score"])
	assert.Equal(t, 1, rep.NullCounts["Email"])
	assert.Equal(t, 1, rep.NullCounts["Score"])
	assert.Zero(t, rep.NullCounts["Index"])
	assert.Zero(t, rep.DuplicateRows)
	assert.True(t, rep.Valid)
}

func TestBuild_DuplicatesRaiseWarning(t *testing.T) {
	table := tableOf([]string{"Email"},
		listingsweep.Record{"Email": "a@x.com"},
		listingsweep.Record{"Email": "a@x.com"},
		listingsweep.Record{"Email": "b@x.com"},
	)

	rep := Build(table, clean.Rules{DuplicateKey: []string{"Email"}})

	assert.Equal(t, 1, rep.DuplicateRows)
	require.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Warnings[0], "duplicate")
	assert.True(t, rep.Valid, "duplicates warn but do not invalidate")
}

func TestBuild_MissingRequiredColumnsInvalidate(t *testing.T) {
	table := tableOf([]string{"Email"},
		listingsweep.Record{"Email": "a@x.com"},
	)

	rep := Build(table, clean.Rules{RequiredFields: []string{"Email", "Phone"}})

	assert.False(t, rep.Valid)
	assert.Equal(t, []string{"Phone"}, rep.MissingRequiredColumns)
}

func TestBuild_EmptyTableInvalid(t *testing.T) {
	table := tableOf([]string{"Email"})

	rep := Build(table, clean.Rules{})

	assert.False(t, rep.Valid)
	require.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Warnings[0], "no data rows")
}

func TestBuild_HighNullRateWarning(t *testing.T) {
	table := tableOf([]string{"a", "b"},
		listingsweep.Record{"a": 1, "b": nil},
		listingsweep.Record{"a": 2, "b": nil},
	)

	rep := Build(table, clean.Rules{})

	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "null values") {
			found = true
		}
	}
	assert.True(t, found, "expected a high null rate warning, got %v", rep.Warnings)
}

func TestReport_JSONRoundTrip(t *testing.T) {
	table := tableOf([]string{"Email"},
		listingsweep.Record{"Email": "a@x.com"},
	)
	rep := Build(table, clean.Rules{RequiredFields: []string{"Email"}})

	data, err := rep.JSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1), decoded["rows"])
	assert.Equal(t, true, decoded["valid"])
}
