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
	"encoding/json"
	"fmt"
	"io"

	"listingsweep"
)

// JSONWriter implements listingsweep.DataSink for line-delimited JSON output.
type JSONWriter struct {
	writer  io.Writer
	closer  io.Closer
	written int64
}

// NewJSONWriter creates a writer that emits one JSON object per line.
func NewJSONWriter(w io.WriteCloser) *JSONWriter {
	return &JSONWriter{
		writer: w,
		closer: w,
	}
}

// Write implements the DataSink interface.
func (j *JSONWriter) Write(ctx context.Context, record listingsweep.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("json writer marshal: %w", err)
	}
	if _, err := j.writer.Write(data); err != nil {
		return fmt.Errorf("json writer write: %w", err)
	}
	if _, err := j.writer.Write([]byte("\n")); err != nil {
		return fmt.Errorf("json writer write: %w", err)
	}
	j.written++
	return nil
}

// Flush implements the DataSink interface.
func (j *JSONWriter) Flush() error {
	if flusher, ok := j.writer.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close implements the DataSink interface.
func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}

// Written reports how many records have been written.
func (j *JSONWriter) Written() int64 {
	return j.written
}
