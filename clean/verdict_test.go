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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingsweep"
)

func TestClassify_MissingRequiredField(t *testing.T) {
	table := tableOf([]string{"Index", "Email"},
		listingsweep.Record{"Index": 1, "Email": "a@x.com"},
		listingsweep.Record{"Index": 2, "Email": nil},
		listingsweep.Record{"Index": nil, "Email": "c@x.com"},
	)
	Normalize(table)

	verdicts := Classify(table, Rules{RequiredFields: []string{"Index", "Email"}})

	assert.Equal(t, Valid, verdicts[0])
	assert.Equal(t, MissingRequired, verdicts[1])
	assert.Equal(t, MissingRequired, verdicts[2])
}

func TestClassify_EmptyStringCountsAsMissing(t *testing.T) {
	// Unnormalized tables still classify correctly; absent tolerates raw
	// whitespace strings.
	table := tableOf([]string{"Email"},
		listingsweep.Record{"Email": "   "},
		listingsweep.Record{"Email": ""},
	)

	verdicts := Classify(table, Rules{RequiredFields: []string{"Email"}})
	assert.Equal(t, MissingRequired, verdicts[0])
	assert.Equal(t, MissingRequired, verdicts[1])
}

func TestClassify_RequiredColumnAbsentFromTable(t *testing.T) {
	table := tableOf([]string{"Email"},
		listingsweep.Record{"Email": "a@x.com"},
		listingsweep.Record{"Email": "b@x.com"},
	)

	verdicts := Classify(table, Rules{RequiredFields: []string{"Email", "Phone"}})
	for _, v := range verdicts {
		assert.Equal(t, MissingRequired, v)
	}

	missing := MissingColumns(table, []string{"Email", "Phone"})
	assert.Equal(t, []string{"Phone"}, missing)
}

func TestClassify_DuplicatesKeepFirst(t *testing.T) {
	table := tableOf([]string{"Email"},
		listingsweep.Record{"Email": "a@x.com"},
		listingsweep.Record{"Email": "b@x.com"},
		listingsweep.Record{"Email": "a@x.com"},
		listingsweep.Record{"Email": "a@x.com"},
	)

	verdicts := Classify(table, Rules{DuplicateKey: []string{"Email"}})

	assert.Equal(t, Valid, verdicts[0])
	assert.Equal(t, Valid, verdicts[1])
	assert.Equal(t, Duplicate, verdicts[2])
	assert.Equal(t, Duplicate, verdicts[3])
}

func TestClassify_CompositeKeyOverMultipleColumns(t *testing.T) {
	table := tableOf([]string{"Name", "Phone"},
		listingsweep.Record{"Name": "Alice", "Phone": "111"},
		listingsweep.Record{"Name": "Alice", "Phone": "222"},
		listingsweep.Record{"Name": "Alice", "Phone": "111"},
	)

	verdicts := Classify(table, Rules{DuplicateKey: []string{"Name", "Phone"}})

	assert.Equal(t, Valid, verdicts[0])
	assert.Equal(t, Valid, verdicts[1])
	assert.Equal(t, Duplicate, verdicts[2])
}

func TestClassify_KeyFragmentBoundaries(t *testing.T) {
	// ("a","bc") and ("ab","c") concatenate to the same text but are
	// different keys.
	table := tableOf([]string{"x", "y"},
		listingsweep.Record{"x": "a", "y": "bc"},
		listingsweep.Record{"x": "ab", "y": "c"},
	)

	verdicts := Classify(table, Rules{DuplicateKey: []string{"x", "y"}})
	assert.Equal(t, Valid, verdicts[0])
	assert.Equal(t, Valid, verdicts[1])
}

func TestClassify_AbsentKeyValuesCompareEqual(t *testing.T) {
	// nil and empty string are the same absent key fragment, and absent never
	// matches a real value.
	table := tableOf([]string{"Email"},
		listingsweep.Record{"Email": nil},
		listingsweep.Record{"Email": ""},
		listingsweep.Record{"Email": "a@x.com"},
	)

	verdicts := Classify(table, Rules{DuplicateKey: []string{"Email"}})
	assert.Equal(t, Valid, verdicts[0])
	assert.Equal(t, Duplicate, verdicts[1])
	assert.Equal(t, Valid, verdicts[2])
}

func TestClassify_MissingTakesPrecedenceOverDuplicate(t *testing.T) {
	table := tableOf([]string{"Index", "Email"},
		listingsweep.Record{"Index": 1, "Email": "a@x.com"},
		listingsweep.Record{"Index": nil, "Email": "a@x.com"},
	)

	rules := Rules{
		RequiredFields: []string{"Index", "Email"},
		DuplicateKey:   []string{"Email"},
	}
	verdicts := Classify(table, rules)

	assert.Equal(t, Valid, verdicts[0])
	assert.Equal(t, MissingRequired, verdicts[1])
}

func TestClassify_MissingRowStillClaimsKey(t *testing.T) {
	// A row flagged for missing fields still claims its duplicate key, so a
	// later identical row is a duplicate of it.
	table := tableOf([]string{"Index", "Email"},
		listingsweep.Record{"Index": nil, "Email": "a@x.com"},
		listingsweep.Record{"Index": 2, "Email": "a@x.com"},
	)

	rules := Rules{
		RequiredFields: []string{"Index"},
		DuplicateKey:   []string{"Email"},
	}
	verdicts := Classify(table, rules)

	assert.Equal(t, MissingRequired, verdicts[0])
	assert.Equal(t, Duplicate, verdicts[1])
}

func TestClassify_NumericKeysCompareByRenderedValue(t *testing.T) {
	table := tableOf([]string{"Index"},
		listingsweep.Record{"Index": 1},
		listingsweep.Record{"Index": 1},
		listingsweep.Record{"Index": 2},
	)

	verdicts := Classify(table, Rules{DuplicateKey: []string{"Index"}})
	assert.Equal(t, Valid, verdicts[0])
	assert.Equal(t, Duplicate, verdicts[1])
	assert.Equal(t, Valid, verdicts[2])
}

// The worked example: row 2 is missing its email, row 3 repeats row 1's key.
func TestClassify_MixedProblems(t *testing.T) {
	table := tableOf([]string{"Index", "Email"},
		listingsweep.Record{"Index": 1, "Email": "a@x.com"},
		listingsweep.Record{"Index": 2, "Email": ""},
		listingsweep.Record{"Index": 1, "Email": "a@x.com"},
	)
	Normalize(table)

	rules := Rules{
		RequiredFields: []string{"Index", "Email"},
		DuplicateKey:   []string{"Index", "Email"},
	}
	verdicts := Classify(table, rules)
	require.Len(t, verdicts, 3)

	assert.Equal(t, Valid, verdicts[0])
	assert.Equal(t, MissingRequired, verdicts[1])
	assert.Equal(t, Duplicate, verdicts[2])
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "missing_required", MissingRequired.String())
	assert.Equal(t, "duplicate", Duplicate.String())
}
