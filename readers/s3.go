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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ReaderError provides structured error information for S3 reader operations.
type S3ReaderError struct {
	Op  string
	Err error
}

func (e *S3ReaderError) Error() string {
	return fmt.Sprintf("s3 reader %s: %v", e.Op, e.Err)
}

func (e *S3ReaderError) Unwrap() error {
	return e.Err
}

// S3ReaderOptions configures where the CSV object lives and how to reach it.
type S3ReaderOptions struct {
	Bucket         string
	Key            string
	Region         string
	Profile        string
	Credentials    aws.Credentials
	EndpointURL    string
	ForcePathStyle bool
	CSV            []ReaderOptionCSV
}

// ReaderOptionS3 is a functional option for S3ReaderOptions.
type ReaderOptionS3 func(*S3ReaderOptions)

// WithS3Bucket sets the bucket name.
func WithS3Bucket(bucket string) ReaderOptionS3 {
	return func(o *S3ReaderOptions) { o.Bucket = bucket }
}

// WithS3Key sets the object key of the CSV export.
func WithS3Key(key string) ReaderOptionS3 {
	return func(o *S3ReaderOptions) { o.Key = key }
}

// WithS3Region sets the AWS region.
func WithS3Region(region string) ReaderOptionS3 {
	return func(o *S3ReaderOptions) { o.Region = region }
}

// WithS3Profile selects a shared-config profile.
func WithS3Profile(profile string) ReaderOptionS3 {
	return func(o *S3ReaderOptions) { o.Profile = profile }
}

// WithS3Credentials supplies explicit credentials instead of the default chain.
func WithS3Credentials(creds aws.Credentials) ReaderOptionS3 {
	return func(o *S3ReaderOptions) { o.Credentials = creds }
}

// WithS3Endpoint points the client at an S3-compatible service.
func WithS3Endpoint(endpointURL string, forcePathStyle bool) ReaderOptionS3 {
	return func(o *S3ReaderOptions) {
		o.EndpointURL = endpointURL
		o.ForcePathStyle = forcePathStyle
	}
}

// WithS3CSVOptions forwards options to the underlying CSV reader.
func WithS3CSVOptions(opts ...ReaderOptionCSV) ReaderOptionS3 {
	return func(o *S3ReaderOptions) { o.CSV = append(o.CSV, opts...) }
}

// OpenS3Object fetches a single CSV object from S3 and returns a data source
// streaming its rows. A missing bucket or key fails here, before any processing.
func OpenS3Object(ctx context.Context, options ...ReaderOptionS3) (*CSVReader, error) {
	var opts S3ReaderOptions
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Bucket == "" || opts.Key == "" {
		return nil, &S3ReaderError{Op: "configure", Err: fmt.Errorf("bucket and key are required")}
	}

	cfg, err := createAWSConfig(ctx, opts)
	if err != nil {
		return nil, &S3ReaderError{Op: "create_aws_config", Err: err}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(opts.Bucket),
		Key:    aws.String(opts.Key),
	})
	if err != nil {
		return nil, &S3ReaderError{Op: "get_object", Err: err}
	}

	reader, err := NewCSVReader(out.Body, opts.CSV...)
	if err != nil {
		out.Body.Close()
		return nil, err
	}
	return reader, nil
}

func createAWSConfig(ctx context.Context, opts S3ReaderOptions) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, err
	}

	if opts.Credentials.AccessKeyID != "" {
		cfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				opts.Credentials.AccessKeyID,
				opts.Credentials.SecretAccessKey,
				opts.Credentials.SessionToken,
			),
		)
	}

	return cfg, nil
}
