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

package readers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"listingsweep"
)

// Package readers provides implementations of listingsweep.DataSource for reading
// listing records from various sources.

// CSVReaderError wraps structured error information for the CSV reader.
type CSVReaderError struct {
	Op  string
	Err error
}

func (e *CSVReaderError) Error() string {
	return fmt.Sprintf("csv reader %s: %v", e.Op, e.Err)
}

func (e *CSVReaderError) Unwrap() error {
	return e.Err
}

// CSVReaderStats holds statistics about the CSV reader's performance.
type CSVReaderStats struct {
	RecordsRead     int64
	ReadDuration    time.Duration
	LastReadTime    time.Time
	NullValueCounts map[string]int64
}

// CSVReaderOptions configures the CSV reader.
type CSVReaderOptions struct {
	Comma            rune
	Comment          rune
	LazyQuotes       bool
	TrimLeadingSpace bool
	HasHeaders       bool
	// ParseTypes infers int, float, and bool values from field text. When false
	// every non-empty field is kept as a string.
	ParseTypes bool
}

// ReaderOptionCSV allows functional customization of CSVReader.
type ReaderOptionCSV func(*CSVReaderOptions)

// WithCSVComma sets the field delimiter.
func WithCSVComma(r rune) ReaderOptionCSV {
	return func(o *CSVReaderOptions) { o.Comma = r }
}

// WithCSVHasHeaders controls whether the first row is treated as a header.
func WithCSVHasHeaders(hasHeaders bool) ReaderOptionCSV {
	return func(o *CSVReaderOptions) { o.HasHeaders = hasHeaders }
}

// WithCSVParseTypes toggles numeric/boolean type inference per field.
func WithCSVParseTypes(parse bool) ReaderOptionCSV {
	return func(o *CSVReaderOptions) { o.ParseTypes = parse }
}

// WithCSVLazyQuotes tolerates bare quotes in fields, common in scraped exports.
func WithCSVLazyQuotes(lazy bool) ReaderOptionCSV {
	return func(o *CSVReaderOptions) { o.LazyQuotes = lazy }
}

// CSVReader implements listingsweep.DataSource for CSV input.
// Empty fields become nil so "absent" is uniform across sources.
type CSVReader struct {
	reader  *csv.Reader
	headers []string
	closer  io.Closer
	stats   CSVReaderStats
	opts    CSVReaderOptions
}

// NewCSVReader creates a CSVReader over r with default or overridden options.
// The header row is read immediately; an empty input fails here, before any
// processing starts.
func NewCSVReader(r io.ReadCloser, options ...ReaderOptionCSV) (*CSVReader, error) {
	opts := CSVReaderOptions{
		Comma:            ',',
		HasHeaders:       true,
		TrimLeadingSpace: true,
		ParseTypes:       true,
	}
	for _, opt := range options {
		opt(&opts)
	}

	csvReader := csv.NewReader(r)
	csvReader.Comma = opts.Comma
	csvReader.Comment = opts.Comment
	csvReader.LazyQuotes = opts.LazyQuotes
	csvReader.TrimLeadingSpace = opts.TrimLeadingSpace

	reader := &CSVReader{
		reader: csvReader,
		closer: r,
		opts:   opts,
		stats:  CSVReaderStats{NullValueCounts: make(map[string]int64)},
	}

	if opts.HasHeaders {
		headers, err := csvReader.Read()
		if err != nil {
			if err == io.EOF {
				err = fmt.Errorf("input is empty")
			}
			return nil, &CSVReaderError{Op: "read_headers", Err: err}
		}
		reader.headers = headers
	}

	return reader, nil
}

// OpenCSVFile opens a local CSV file as a data source. A missing file is a fatal
// source-not-found error reported before any processing.
func OpenCSVFile(path string, options ...ReaderOptionCSV) (*CSVReader, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, &CSVReaderError{Op: "open", Err: fmt.Errorf("file does not appear to be a CSV: %s", path)}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &CSVReaderError{Op: "open", Err: err}
	}
	reader, err := NewCSVReader(f, options...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return reader, nil
}

// Read implements the DataSource interface.
func (c *CSVReader) Read(ctx context.Context) (listingsweep.Record, error) {
	start := time.Now()

	select {
	case <-ctx.Done():
		return nil, &CSVReaderError{Op: "read", Err: ctx.Err()}
	default:
	}

	record, err := c.reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &CSVReaderError{Op: "read_record", Err: err}
	}

	res := make(listingsweep.Record, len(record))
	for i, val := range record {
		var key string
		if i < len(c.headers) {
			key = c.headers[i]
		} else {
			key = "col_" + strconv.Itoa(i)
		}
		if strings.TrimSpace(val) == "" {
			c.stats.NullValueCounts[key]++
			res[key] = nil
		} else {
			res[key] = c.parseValue(val)
		}
	}

	c.stats.RecordsRead++
	c.stats.LastReadTime = time.Now()
	c.stats.ReadDuration += time.Since(start)

	return res, nil
}

// Close implements the DataSource interface.
func (c *CSVReader) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// Columns implements listingsweep.ColumnProvider: the header order of the source.
func (c *CSVReader) Columns() []string {
	return append([]string(nil), c.headers...)
}

// Stats returns CSV reader performance stats.
func (c *CSVReader) Stats() CSVReaderStats {
	return c.stats
}

// parseValue attempts to infer int, float, or bool, falling back to string.
// Leading/trailing whitespace is preserved on strings; the cleaning pass owns
// normalization.
func (c *CSVReader) parseValue(value string) interface{} {
	if !c.opts.ParseTypes {
		return value
	}

	trimmed := strings.TrimSpace(value)
	if i, err := strconv.Atoi(trimmed); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(trimmed); err == nil {
		return b
	}
	return value
}
