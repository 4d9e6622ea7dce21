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
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	_ "github.com/lib/pq"

	"listingsweep"
)

// PostgresWriterError wraps PostgreSQL-specific write errors with context about
// the operation.
type PostgresWriterError struct {
	Op  string
	Err error
}

func (e *PostgresWriterError) Error() string {
	return fmt.Sprintf("postgres writer %s: %v", e.Op, e.Err)
}

func (e *PostgresWriterError) Unwrap() error {
	return e.Err
}

// PostgresWriterStats holds PostgreSQL write performance statistics.
type PostgresWriterStats struct {
	RecordsWritten  int64
	BatchesWritten  int64
	LastWriteTime   time.Time
	WriteDuration   time.Duration
	ConnectionTime  time.Duration
	NullValueCounts map[string]int64
}

// PostgresWriterOptions configures the PostgreSQL writer.
// The writer targets flat listing tables: every column is stored as TEXT when the
// writer creates the table itself.
type PostgresWriterOptions struct {
	DSN             string
	TableName       string
	Columns         []string
	BatchSize       int
	CreateTable     bool
	TruncateTable   bool
	IgnoreConflicts bool
	ConflictColumns []string
	QueryTimeout    time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresWriterOption is a functional option for PostgresWriterOptions.
type PostgresWriterOption func(*PostgresWriterOptions)

// WithPostgresDSN sets the connection string.
func WithPostgresDSN(dsn string) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) { opts.DSN = dsn }
}

// WithTableName sets the target table name.
func WithTableName(name string) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) { opts.TableName = name }
}

// WithColumns fixes the column order for inserts.
func WithColumns(columns []string) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) {
		opts.Columns = append([]string(nil), columns...)
	}
}

// WithPostgresBatchSize sets the number of records per insert batch.
func WithPostgresBatchSize(size int) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) { opts.BatchSize = size }
}

// WithCreateTable creates the target table as all-TEXT columns if it does not exist.
func WithCreateTable(create bool) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) { opts.CreateTable = create }
}

// WithTruncateTable truncates the target table before the first write.
func WithTruncateTable(truncate bool) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) { opts.TruncateTable = truncate }
}

// WithIgnoreConflicts adds ON CONFLICT DO NOTHING over the given columns, so a
// reloaded export does not fail on rows already present.
func WithIgnoreConflicts(columns []string) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) {
		opts.IgnoreConflicts = true
		opts.ConflictColumns = append([]string(nil), columns...)
	}
}

// WithPostgresQueryTimeout sets the timeout applied to each statement.
func WithPostgresQueryTimeout(timeout time.Duration) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) { opts.QueryTimeout = timeout }
}

// PostgresWriter implements listingsweep.DataSink for PostgreSQL output.
type PostgresWriter struct {
	db          *sql.DB
	options     PostgresWriterOptions
	columns     []string
	recordBuf   []listingsweep.Record
	stats       PostgresWriterStats
	initialized bool
	errorState  bool
	mu          sync.Mutex
}

// NewPostgresWriter creates a PostgreSQL writer and verifies the connection.
func NewPostgresWriter(opts ...PostgresWriterOption) (*PostgresWriter, error) {
	options := PostgresWriterOptions{
		BatchSize:       500,
		QueryTimeout:    30 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.DSN == "" {
		return nil, &PostgresWriterError{Op: "configure", Err: fmt.Errorf("dsn is required")}
	}
	if options.TableName == "" {
		return nil, &PostgresWriterError{Op: "configure", Err: fmt.Errorf("table name is required")}
	}
	if options.IgnoreConflicts && len(options.ConflictColumns) == 0 {
		return nil, &PostgresWriterError{Op: "configure", Err: fmt.Errorf("conflict columns required when ignoring conflicts")}
	}

	w := &PostgresWriter{
		options: options,
		columns: append([]string(nil), options.Columns...),
		stats:   PostgresWriterStats{NullValueCounts: make(map[string]int64)},
	}
	if err := w.connect(); err != nil {
		return nil, &PostgresWriterError{Op: "connect", Err: err}
	}
	return w, nil
}

// Write implements the DataSink interface. Records are buffered and inserted in
// batches.
func (w *PostgresWriter) Write(ctx context.Context, record listingsweep.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.errorState {
		return &PostgresWriterError{Op: "write", Err: fmt.Errorf("writer is in error state")}
	}

	if !w.initialized {
		if err := w.initializeUnsafe(ctx, record); err != nil {
			w.errorState = true
			return &PostgresWriterError{Op: "initialize", Err: err}
		}
	}

	for k, v := range record {
		if v == nil {
			w.stats.NullValueCounts[k]++
		}
	}

	w.recordBuf = append(w.recordBuf, record)
	w.stats.RecordsWritten++

	if len(w.recordBuf) >= w.options.BatchSize {
		if err := w.flushBufferUnsafe(ctx); err != nil {
			w.errorState = true
			return &PostgresWriterError{Op: "flush_batch", Err: err}
		}
	}
	return nil
}

// Flush implements the DataSink interface.
func (w *PostgresWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), w.options.QueryTimeout)
	defer cancel()
	return w.flushBufferUnsafe(ctx)
}

// Close implements the DataSink interface.
func (w *PostgresWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

// Stats returns a copy of the write statistics.
func (w *PostgresWriter) Stats() PostgresWriterStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	statsCopy := w.stats
	statsCopy.NullValueCounts = make(map[string]int64, len(w.stats.NullValueCounts))
	for k, v := range w.stats.NullValueCounts {
		statsCopy.NullValueCounts[k] = v
	}
	return statsCopy
}

func (w *PostgresWriter) connect() error {
	start := time.Now()

	db, err := sql.Open("postgres", w.options.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(w.options.MaxOpenConns)
	db.SetMaxIdleConns(w.options.MaxIdleConns)
	db.SetConnMaxLifetime(w.options.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), w.options.QueryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	w.db = db
	w.stats.ConnectionTime = time.Since(start)
	return nil
}

func (w *PostgresWriter) initializeUnsafe(ctx context.Context, firstRecord listingsweep.Record) error {
	if len(w.columns) == 0 {
		for key := range firstRecord {
			w.columns = append(w.columns, key)
		}
		sort.Strings(w.columns)
	}

	if w.options.CreateTable {
		cols := make([]string, len(w.columns))
		for i, c := range w.columns {
			cols[i] = fmt.Sprintf("%s TEXT", quoteIdent(c))
		}
		query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
			quoteIdent(w.options.TableName), strings.Join(cols, ", "))
		if _, err := w.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	if w.options.TruncateTable {
		query := fmt.Sprintf("TRUNCATE TABLE %s", quoteIdent(w.options.TableName))
		if _, err := w.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("truncate table: %w", err)
		}
	}

	w.initialized = true
	return nil
}

func (w *PostgresWriter) flushBufferUnsafe(ctx context.Context) error {
	if len(w.recordBuf) == 0 {
		return nil
	}

	start := time.Now()

	placeholders := make([]string, 0, len(w.recordBuf))
	args := make([]interface{}, 0, len(w.recordBuf)*len(w.columns))
	n := 1
	for _, record := range w.recordBuf {
		ph := make([]string, len(w.columns))
		for i, col := range w.columns {
			ph[i] = fmt.Sprintf("$%d", n)
			n++
			if v, ok := record[col]; ok && v != nil {
				args = append(args, cast.ToString(v))
			} else {
				args = append(args, nil)
			}
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
	}

	quoted := make([]string, len(w.columns))
	for i, c := range w.columns {
		quoted[i] = quoteIdent(c)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quoteIdent(w.options.TableName), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	if w.options.IgnoreConflicts {
		conflict := make([]string, len(w.options.ConflictColumns))
		for i, c := range w.options.ConflictColumns {
			conflict[i] = quoteIdent(c)
		}
		query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(conflict, ", "))
	}

	if _, err := w.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	w.stats.BatchesWritten++
	w.stats.LastWriteTime = time.Now()
	w.stats.WriteDuration += time.Since(start)
	w.recordBuf = w.recordBuf[:0]
	return nil
}

// quoteIdent double-quotes an identifier; listing exports commonly use column
// names with spaces ("Practitioner Name", "Google Maps URL").
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
