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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingsweep"
)

func include(t *testing.T, f listingsweep.Filter, record listingsweep.Record) bool {
	t.Helper()
	ok, err := f.ShouldInclude(context.Background(), record)
	require.NoError(t, err)
	return ok
}

func TestNotEmpty(t *testing.T) {
	f := NotEmpty("Email")

	assert.True(t, include(t, f, listingsweep.Record{"Email": "a@x.com"}))
	assert.False(t, include(t, f, listingsweep.Record{"Email": nil}))
	assert.False(t, include(t, f, listingsweep.Record{"Email": "   "}))
	assert.False(t, include(t, f, listingsweep.Record{}))
	assert.True(t, include(t, f, listingsweep.Record{"Email": 42}), "non-string values count as present")
}

func TestMatches(t *testing.T) {
	f, err := Matches("Phone", `^\+?\d+$`)
	require.NoError(t, err)

	assert.True(t, include(t, f, listingsweep.Record{"Phone": "+15551234"}))
	assert.False(t, include(t, f, listingsweep.Record{"Phone": "n/a"}))
	assert.False(t, include(t, f, listingsweep.Record{"Phone": nil}))

	_, err = Matches("Phone", `[invalid`)
	require.Error(t, err)
}

func TestCombinators(t *testing.T) {
	email := NotEmpty("Email")
	phone := NotEmpty("Phone")

	both := listingsweep.Record{"Email": "a@x.com", "Phone": "555"}
	emailOnly := listingsweep.Record{"Email": "a@x.com"}
	neither := listingsweep.Record{}

	assert.True(t, include(t, All(email, phone), both))
	assert.False(t, include(t, All(email, phone), emailOnly))

	assert.True(t, include(t, Any(email, phone), emailOnly))
	assert.False(t, include(t, Any(email, phone), neither))

	assert.False(t, include(t, Not(email), emailOnly))
	assert.True(t, include(t, Not(email), neither))
}
