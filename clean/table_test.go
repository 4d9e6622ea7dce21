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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingsweep"
)

// recordSource is a test DataSource over a fixed record slice. When cols is
// set it also implements listingsweep.ColumnProvider.
type recordSource struct {
	records []listingsweep.Record
	cols    []string
	pos     int
	closed  bool
}

func (s *recordSource) Read(ctx context.Context) (listingsweep.Record, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	r := s.records[s.pos]
	s.pos++
	return r, nil
}

func (s *recordSource) Close() error {
	s.closed = true
	return nil
}

type orderedRecordSource struct {
	recordSource
}

func (s *orderedRecordSource) Columns() []string {
	return s.cols
}

func TestLoad_AssignsSourceOrderIndices(t *testing.T) {
	source := &recordSource{records: []listingsweep.Record{
		{"name": "Alice"},
		{"name": "Bob"},
		{"name": "Carol"},
	}}

	table, err := Load(context.Background(), source)
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	for i, row := range table.Rows {
		assert.Equal(t, i, row.Index)
	}
	assert.Equal(t, "Alice", table.Rows[0].Values["name"])
	assert.Equal(t, "Carol", table.Rows[2].Values["name"])
}

func TestLoad_ColumnOrderFromProvider(t *testing.T) {
	source := &orderedRecordSource{recordSource{
		records: []listingsweep.Record{
			{"Email": "a@x.com", "Index": 1, "Phone": nil},
		},
		cols: []string{"Index", "Email", "Phone"},
	}}

	table, err := Load(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, []string{"Index", "Email", "Phone"}, table.Columns)
}

func TestLoad_ColumnsFirstSeenWithoutProvider(t *testing.T) {
	source := &recordSource{records: []listingsweep.Record{
		{"a": 1},
		{"a": 2, "b": "x"},
	}}

	table, err := Load(context.Background(), source)
	require.NoError(t, err)
	assert.Contains(t, table.Columns, "a")
	assert.Contains(t, table.Columns, "b")
	assert.Equal(t, "a", table.Columns[0])
}

func TestLoad_EmptySourceFails(t *testing.T) {
	source := &recordSource{}

	_, err := Load(context.Background(), source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns")
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &recordSource{records: []listingsweep.Record{{"a": 1}}}
	_, err := Load(ctx, source)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_InfersSchema(t *testing.T) {
	source := &recordSource{records: []listingsweep.Record{
		{"name": "Alice", "age": 30, "score": 1.5, "active": true},
	}}

	table, err := Load(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, TypeString, table.Schema["name"])
	assert.Equal(t, TypeInt, table.Schema["age"])
	assert.Equal(t, TypeFloat, table.Schema["score"])
	assert.Equal(t, TypeBool, table.Schema["active"])
}

func TestTableSource_RoundTrip(t *testing.T) {
	source := &orderedRecordSource{recordSource{
		records: []listingsweep.Record{
			{"name": "Alice"},
			{"name": "Bob"},
		},
		cols: []string{"name"},
	}}

	table, err := Load(context.Background(), source)
	require.NoError(t, err)

	ts := NewTableSource(table)
	assert.Equal(t, []string{"name"}, ts.Columns())

	ctx := context.Background()
	first, err := ts.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", first["name"])

	second, err := ts.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bob", second["name"])

	_, err = ts.Read(ctx)
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, ts.Close())
}
