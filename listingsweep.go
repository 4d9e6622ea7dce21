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

package listingsweep

import "context"

// Package listingsweep defines the core interfaces and types for the ListingSweep toolkit.
//
// ListingSweep imports tabular business-listing records from CSV files, Google Sheets
// exports, S3 objects, or MongoDB collections, and cleans them: whitespace
// normalization, required-field validation, and duplicate detection over a composite
// key. Sources and sinks are small interfaces so the cleaning pipeline stays
// independent of where records come from and where they go.

// Record represents a single listing record.
// Each record is a map from column names to values; a nil value means the field is
// absent in the source.
type Record map[string]interface{}

// DataSource streams records from an input (CSV file, Google Sheet, S3 object,
// MongoDB collection).
type DataSource interface {
	// Read returns the next record or io.EOF when no more records are available.
	Read(ctx context.Context) (Record, error)
	// Close releases any resources held by the data source.
	Close() error
}

// DataSink writes records to a destination (CSV, JSON lines, Parquet, PostgreSQL).
type DataSink interface {
	// Write outputs a single record to the sink.
	Write(ctx context.Context, record Record) error
	// Flush ensures all buffered data is written to the sink.
	Flush() error
	// Close releases any resources held by the data sink.
	Close() error
}

// ColumnProvider is implemented by data sources with an inherent column order,
// such as CSV readers whose header row fixes the column set. Consumers that care
// about column order (table loading, CSV output) check for it with a type
// assertion.
type ColumnProvider interface {
	Columns() []string
}

// Transformer modifies or enriches records as they pass through a pipeline.
type Transformer interface {
	Transform(ctx context.Context, record Record) (Record, error)
}

// TransformFunc adapts an ordinary function to the Transformer interface.
type TransformFunc func(ctx context.Context, record Record) (Record, error)

// Transform implements Transformer.
func (f TransformFunc) Transform(ctx context.Context, record Record) (Record, error) {
	return f(ctx, record)
}

// Filter decides whether a record should be kept.
type Filter interface {
	// ShouldInclude returns true if the record should be included in the output.
	ShouldInclude(ctx context.Context, record Record) (bool, error)
}

// FilterFunc adapts an ordinary function to the Filter interface.
type FilterFunc func(ctx context.Context, record Record) (bool, error)

// ShouldInclude implements Filter.
func (f FilterFunc) ShouldInclude(ctx context.Context, record Record) (bool, error) {
	return f(ctx, record)
}

// ErrorStrategy defines how a pipeline reacts to record-level errors.
type ErrorStrategy int

const (
	// FailFast stops processing on the first error encountered.
	FailFast ErrorStrategy = iota
	// SkipErrors continues processing, skipping failed records.
	SkipErrors
)

// ErrorHandler receives record-level errors when the strategy is SkipErrors.
// Returning a non-nil error stops the pipeline; returning nil continues.
type ErrorHandler interface {
	HandleError(ctx context.Context, record Record, err error) error
}

// ErrorHandlerFunc adapts an ordinary function to the ErrorHandler interface.
type ErrorHandlerFunc func(ctx context.Context, record Record, err error) error

// HandleError implements ErrorHandler.
func (f ErrorHandlerFunc) HandleError(ctx context.Context, record Record, err error) error {
	return f(ctx, record, err)
}

// Clone returns a shallow copy of the record. Transformers that modify records
// operate on a clone so upstream stages never observe the mutation.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
