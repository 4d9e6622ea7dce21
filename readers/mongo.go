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
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"listingsweep"
)

// MongoReaderError provides structured error information for MongoDB reads.
type MongoReaderError struct {
	Op         string
	Collection string
	Err        error
}

func (e *MongoReaderError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("mongo reader %s [%s]: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("mongo reader %s: %v", e.Op, e.Err)
}

func (e *MongoReaderError) Unwrap() error {
	return e.Err
}

// MongoReaderOptions configures the MongoDB listings source.
type MongoReaderOptions struct {
	URI        string
	Database   string
	Collection string
	Filter     bson.M
	Projection bson.M
	Sort       bson.D
	BatchSize  int32
	Timeout    time.Duration
	// DropID omits the _id field from records; listing exports rarely want it.
	DropID bool
}

// ReaderOptionMongo is a functional option for MongoReaderOptions.
type ReaderOptionMongo func(*MongoReaderOptions)

// WithMongoURI sets the connection URI.
func WithMongoURI(uri string) ReaderOptionMongo {
	return func(o *MongoReaderOptions) { o.URI = uri }
}

// WithMongoCollection sets the database and collection to read.
func WithMongoCollection(database, collection string) ReaderOptionMongo {
	return func(o *MongoReaderOptions) {
		o.Database = database
		o.Collection = collection
	}
}

// WithMongoFilter sets the query filter.
func WithMongoFilter(filter bson.M) ReaderOptionMongo {
	return func(o *MongoReaderOptions) { o.Filter = filter }
}

// WithMongoProjection sets the field projection.
func WithMongoProjection(projection bson.M) ReaderOptionMongo {
	return func(o *MongoReaderOptions) { o.Projection = projection }
}

// WithMongoSort sets the sort specification. Listing imports usually sort by a
// stable field so duplicate detection sees a deterministic source order.
func WithMongoSort(sort bson.D) ReaderOptionMongo {
	return func(o *MongoReaderOptions) { o.Sort = sort }
}

// WithMongoBatchSize sets the cursor batch size.
func WithMongoBatchSize(size int32) ReaderOptionMongo {
	return func(o *MongoReaderOptions) { o.BatchSize = size }
}

// WithMongoTimeout sets the connect timeout.
func WithMongoTimeout(timeout time.Duration) ReaderOptionMongo {
	return func(o *MongoReaderOptions) { o.Timeout = timeout }
}

// WithMongoDropID omits the _id field from emitted records.
func WithMongoDropID(drop bool) ReaderOptionMongo {
	return func(o *MongoReaderOptions) { o.DropID = drop }
}

// MongoReader implements listingsweep.DataSource over a MongoDB collection.
// The cursor is opened lazily on the first Read.
type MongoReader struct {
	client     *mongo.Client
	collection *mongo.Collection
	cursor     *mongo.Cursor
	opts       MongoReaderOptions
	records    int64
}

// NewMongoReader creates a MongoDB data source.
func NewMongoReader(options ...ReaderOptionMongo) (*MongoReader, error) {
	opts := MongoReaderOptions{
		Filter:    bson.M{},
		BatchSize: 1000,
		Timeout:   10 * time.Second,
		DropID:    true,
	}
	for _, opt := range options {
		opt(&opts)
	}

	if opts.URI == "" {
		return nil, &MongoReaderError{Op: "configure", Err: fmt.Errorf("uri is required")}
	}
	if opts.Database == "" || opts.Collection == "" {
		return nil, &MongoReaderError{Op: "configure", Err: fmt.Errorf("database and collection are required")}
	}

	return &MongoReader{opts: opts}, nil
}

// Read implements the DataSource interface.
func (mr *MongoReader) Read(ctx context.Context) (listingsweep.Record, error) {
	if mr.client == nil {
		if err := mr.connect(ctx); err != nil {
			return nil, err
		}
	}
	if mr.cursor == nil {
		if err := mr.openCursor(ctx); err != nil {
			return nil, err
		}
	}

	if !mr.cursor.Next(ctx) {
		if err := mr.cursor.Err(); err != nil {
			return nil, &MongoReaderError{Op: "cursor_next", Collection: mr.opts.Collection, Err: err}
		}
		return nil, io.EOF
	}

	var doc bson.M
	if err := mr.cursor.Decode(&doc); err != nil {
		return nil, &MongoReaderError{Op: "decode", Collection: mr.opts.Collection, Err: err}
	}

	record := make(listingsweep.Record, len(doc))
	for k, v := range doc {
		if k == "_id" && mr.opts.DropID {
			continue
		}
		record[k] = normalizeBSON(v)
	}

	mr.records++
	return record, nil
}

// Close implements the DataSource interface.
func (mr *MongoReader) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mr.opts.Timeout)
	defer cancel()

	if mr.cursor != nil {
		if err := mr.cursor.Close(ctx); err != nil {
			return &MongoReaderError{Op: "close_cursor", Collection: mr.opts.Collection, Err: err}
		}
		mr.cursor = nil
	}
	if mr.client != nil {
		if err := mr.client.Disconnect(ctx); err != nil {
			return &MongoReaderError{Op: "disconnect", Err: err}
		}
		mr.client = nil
	}
	return nil
}

// RecordsRead reports how many documents have been emitted.
func (mr *MongoReader) RecordsRead() int64 {
	return mr.records
}

func (mr *MongoReader) connect(ctx context.Context) error {
	clientOpts := options.Client().ApplyURI(mr.opts.URI).SetConnectTimeout(mr.opts.Timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return &MongoReaderError{Op: "connect", Err: err}
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return &MongoReaderError{Op: "ping", Err: err}
	}

	mr.client = client
	mr.collection = client.Database(mr.opts.Database).Collection(mr.opts.Collection)
	return nil
}

func (mr *MongoReader) openCursor(ctx context.Context) error {
	findOpts := options.Find().SetBatchSize(mr.opts.BatchSize)
	if mr.opts.Projection != nil {
		findOpts.SetProjection(mr.opts.Projection)
	}
	if mr.opts.Sort != nil {
		findOpts.SetSort(mr.opts.Sort)
	}

	cursor, err := mr.collection.Find(ctx, mr.opts.Filter, findOpts)
	if err != nil {
		return &MongoReaderError{Op: "init_cursor", Collection: mr.opts.Collection, Err: err}
	}
	mr.cursor = cursor
	return nil
}

// normalizeBSON maps BSON-specific types onto the plain values the cleaning
// pipeline understands.
func normalizeBSON(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time()
	case primitive.Decimal128:
		return t.String()
	case int32:
		return int(t)
	case int64:
		return int(t)
	default:
		return v
	}
}
