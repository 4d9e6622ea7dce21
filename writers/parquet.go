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

package writers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/apache/arrow/go/v12/parquet"
	"github.com/apache/arrow/go/v12/parquet/compress"
	"github.com/apache/arrow/go/v12/parquet/pqarrow"
	"github.com/spf13/cast"

	"listingsweep"
)

// ParquetWriterError wraps Parquet-specific write errors with context.
type ParquetWriterError struct {
	Op  string
	Err error
}

func (e *ParquetWriterError) Error() string {
	return fmt.Sprintf("parquet writer %s: %v", e.Op, e.Err)
}

func (e *ParquetWriterError) Unwrap() error {
	return e.Err
}

// ParquetWriterStats holds Parquet write statistics.
type ParquetWriterStats struct {
	RecordsWritten  int64
	BatchesWritten  int64
	LastFlushTime   time.Time
	FlushDuration   time.Duration
	NullValueCounts map[string]int64
}

// ParquetWriterOptions configures the Parquet writer.
type ParquetWriterOptions struct {
	FieldOrder  []string
	BatchSize   int
	Compression compress.Compression
}

// ParquetWriterOption is a functional option for ParquetWriterOptions.
type ParquetWriterOption func(*ParquetWriterOptions)

// WithParquetFieldOrder fixes the column order of the output file. Without it,
// columns come from the first record's sorted keys.
func WithParquetFieldOrder(fields []string) ParquetWriterOption {
	return func(opts *ParquetWriterOptions) {
		opts.FieldOrder = append([]string(nil), fields...)
	}
}

// WithParquetBatchSize sets the number of records buffered per row batch.
func WithParquetBatchSize(size int) ParquetWriterOption {
	return func(opts *ParquetWriterOptions) { opts.BatchSize = size }
}

// WithParquetCompression sets the column compression codec.
func WithParquetCompression(codec compress.Compression) ParquetWriterOption {
	return func(opts *ParquetWriterOptions) { opts.Compression = codec }
}

// ParquetWriter implements listingsweep.DataSink for Parquet archival output.
// The schema is inferred from the first record: string, int64, float64, and bool
// columns; anything else is stored as its string form. All fields are nullable.
type ParquetWriter struct {
	sink       io.WriteCloser
	options    ParquetWriterOptions
	fieldOrder []string
	schema     *arrow.Schema
	writer     *pqarrow.FileWriter
	builder    *array.RecordBuilder
	allocator  memory.Allocator
	buffered   int
	stats      ParquetWriterStats
	errorState bool
	closed     bool
}

// NewParquetWriter creates a Parquet writer over the given sink.
func NewParquetWriter(w io.WriteCloser, opts ...ParquetWriterOption) (*ParquetWriter, error) {
	options := ParquetWriterOptions{
		BatchSize:   1000,
		Compression: compress.Codecs.Snappy,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &ParquetWriter{
		sink:       w,
		options:    options,
		fieldOrder: append([]string(nil), options.FieldOrder...),
		allocator:  memory.NewGoAllocator(),
		stats:      ParquetWriterStats{NullValueCounts: make(map[string]int64)},
	}, nil
}

// Write implements the DataSink interface.
func (p *ParquetWriter) Write(ctx context.Context, record listingsweep.Record) error {
	if p.closed {
		return &ParquetWriterError{Op: "write", Err: fmt.Errorf("parquet writer is closed")}
	}
	if p.errorState {
		return &ParquetWriterError{Op: "write", Err: fmt.Errorf("writer is in error state")}
	}

	if p.schema == nil {
		if err := p.initializeSchema(record); err != nil {
			p.errorState = true
			return err
		}
	}

	for i, name := range p.fieldOrder {
		value, exists := record[name]
		if !exists || value == nil {
			p.builder.Field(i).AppendNull()
			p.stats.NullValueCounts[name]++
			continue
		}
		if err := appendValue(p.builder.Field(i), value); err != nil {
			p.errorState = true
			return &ParquetWriterError{Op: "append_value", Err: fmt.Errorf("field %s: %w", name, err)}
		}
	}

	p.buffered++
	p.stats.RecordsWritten++

	if p.buffered >= p.options.BatchSize {
		if err := p.flushBatch(); err != nil {
			p.errorState = true
			return err
		}
	}
	return nil
}

// Flush implements the DataSink interface.
func (p *ParquetWriter) Flush() error {
	if p.buffered > 0 {
		return p.flushBatch()
	}
	return nil
}

// Close implements the DataSink interface. It writes any buffered rows, the
// Parquet footer, and closes the underlying sink.
func (p *ParquetWriter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	if p.buffered > 0 {
		if err := p.flushBatch(); err != nil {
			return err
		}
	}

	if p.builder != nil {
		p.builder.Release()
		p.builder = nil
	}

	if p.writer != nil {
		if err := p.writer.Close(); err != nil {
			return &ParquetWriterError{Op: "close_writer", Err: err}
		}
		p.writer = nil
		// footer is written; the sink was closed by the parquet writer
		p.sink = nil
		return nil
	}

	if p.sink != nil {
		return p.sink.Close()
	}
	return nil
}

// Stats returns the current write statistics.
func (p *ParquetWriter) Stats() ParquetWriterStats {
	return p.stats
}

func (p *ParquetWriter) initializeSchema(record listingsweep.Record) error {
	if len(p.fieldOrder) == 0 {
		p.fieldOrder = make([]string, 0, len(record))
		for name := range record {
			p.fieldOrder = append(p.fieldOrder, name)
		}
		sort.Strings(p.fieldOrder)
	}

	fields := make([]arrow.Field, len(p.fieldOrder))
	for i, name := range p.fieldOrder {
		fields[i] = arrow.Field{
			Name:     name,
			Type:     inferArrowType(record[name]),
			Nullable: true,
		}
	}
	p.schema = arrow.NewSchema(fields, nil)

	props := parquet.NewWriterProperties(parquet.WithCompression(p.options.Compression))
	writer, err := pqarrow.NewFileWriter(p.schema, p.sink, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return &ParquetWriterError{Op: "create_writer", Err: err}
	}
	p.writer = writer
	p.builder = array.NewRecordBuilder(p.allocator, p.schema)
	return nil
}

func (p *ParquetWriter) flushBatch() error {
	start := time.Now()

	rec := p.builder.NewRecord()
	defer rec.Release()

	if err := p.writer.Write(rec); err != nil {
		return &ParquetWriterError{Op: "write_batch", Err: err}
	}

	p.buffered = 0
	p.stats.BatchesWritten++
	p.stats.LastFlushTime = time.Now()
	p.stats.FlushDuration += time.Since(start)
	return nil
}

func inferArrowType(value interface{}) arrow.DataType {
	switch value.(type) {
	case bool:
		return arrow.FixedWidthTypes.Boolean
	case int, int8, int16, int32, int64:
		return arrow.PrimitiveTypes.Int64
	case float32, float64:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

func appendValue(builder array.Builder, value interface{}) error {
	switch b := builder.(type) {
	case *array.BooleanBuilder:
		v, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		b.Append(v)
	case *array.Int64Builder:
		v, err := cast.ToInt64E(value)
		if err != nil {
			return err
		}
		b.Append(v)
	case *array.Float64Builder:
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return err
		}
		b.Append(v)
	case *array.StringBuilder:
		b.Append(cast.ToString(value))
	default:
		return fmt.Errorf("unsupported builder type %T", builder)
	}
	return nil
}
