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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingsweep"
)

func TestSelect(t *testing.T) {
	ctx := context.Background()
	record := listingsweep.Record{"Index": 1, "Email": "a@x.com", "Notes": "x"}

	out, err := Select("Index", "Email", "Missing").Transform(ctx, record)
	require.NoError(t, err)

	assert.Equal(t, listingsweep.Record{"Index": 1, "Email": "a@x.com"}, out)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	record := listingsweep.Record{"email_address": "a@x.com", "Index": 1}

	out, err := Rename(map[string]string{"email_address": "Email"}).Transform(ctx, record)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", out["Email"])
	assert.NotContains(t, out, "email_address")
	assert.Equal(t, 1, out["Index"])
}

func TestDrop(t *testing.T) {
	ctx := context.Background()
	record := listingsweep.Record{"Index": 1, "Notes": "x"}

	out, err := Drop("Notes", "Missing").Transform(ctx, record)
	require.NoError(t, err)

	assert.Equal(t, listingsweep.Record{"Index": 1}, out)
}

func TestTrimSpace(t *testing.T) {
	ctx := context.Background()
	record := listingsweep.Record{"Name": "  Alice ", "Email": "   ", "Index": 2}

	out, err := TrimSpace("Name", "Email", "Index").Transform(ctx, record)
	require.NoError(t, err)

	assert.Equal(t, "Alice", out["Name"])
	assert.Nil(t, out["Email"])
	assert.Equal(t, 2, out["Index"], "non-string fields pass through")

	// The input record is never mutated.
	assert.Equal(t, "  Alice ", record["Name"])
}

func TestLowercase(t *testing.T) {
	ctx := context.Background()
	record := listingsweep.Record{"Email": "Alice@X.COM"}

	out, err := Lowercase("Email").Transform(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", out["Email"])
}

func TestAddField(t *testing.T) {
	ctx := context.Background()
	record := listingsweep.Record{"Name": "Alice"}

	out, err := AddField("source", func(r listingsweep.Record) interface{} {
		return "csv"
	}).Transform(ctx, record)
	require.NoError(t, err)

	assert.Equal(t, "csv", out["source"])
	assert.NotContains(t, record, "source")
}

func TestConversions(t *testing.T) {
	ctx := context.Background()

	out, err := ToInt("Index").Transform(ctx, listingsweep.Record{"Index": "42"})
	require.NoError(t, err)
	assert.Equal(t, 42, out["Index"])

	out, err = ToFloat("Score").Transform(ctx, listingsweep.Record{"Score": "3.5"})
	require.NoError(t, err)
	assert.Equal(t, 3.5, out["Score"])

	out, err = ToString("Index").Transform(ctx, listingsweep.Record{"Index": 7})
	require.NoError(t, err)
	assert.Equal(t, "7", out["Index"])

	// Nil passes through untouched.
	out, err = ToInt("Index").Transform(ctx, listingsweep.Record{"Index": nil})
	require.NoError(t, err)
	assert.Nil(t, out["Index"])

	_, err = ToInt("Index").Transform(ctx, listingsweep.Record{"Index": "not a number"})
	require.Error(t, err)
}
