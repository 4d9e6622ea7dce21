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
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// SheetReaderError wraps structured error information for Google Sheets imports.
type SheetReaderError struct {
	Op         string
	StatusCode int
	URL        string
	Err        error
}

func (e *SheetReaderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("sheet reader %s [%d] %s: %v", e.Op, e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("sheet reader %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *SheetReaderError) Unwrap() error {
	return e.Err
}

// SheetReaderOptions configures the Google Sheets reader.
type SheetReaderOptions struct {
	Timeout time.Duration
	Client  *http.Client
	CSV     []ReaderOptionCSV
}

// ReaderOptionSheet is a functional option for SheetReaderOptions.
type ReaderOptionSheet func(*SheetReaderOptions)

// WithSheetTimeout sets the request timeout for the export fetch.
func WithSheetTimeout(timeout time.Duration) ReaderOptionSheet {
	return func(o *SheetReaderOptions) { o.Timeout = timeout }
}

// WithSheetHTTPClient supplies a custom HTTP client.
func WithSheetHTTPClient(client *http.Client) ReaderOptionSheet {
	return func(o *SheetReaderOptions) { o.Client = client }
}

// WithSheetCSVOptions forwards options to the underlying CSV reader.
func WithSheetCSVOptions(opts ...ReaderOptionCSV) ReaderOptionSheet {
	return func(o *SheetReaderOptions) { o.CSV = append(o.CSV, opts...) }
}

var gidPattern = regexp.MustCompile(`gid=(\d+)`)

// OpenSheet fetches a shared Google Sheet as CSV and returns a data source over
// its rows. The edit link is rewritten to the CSV export link and fetched with a
// single blocking GET; there is no retry. The returned CSVReader streams the
// response body.
func OpenSheet(sheetURL string, options ...ReaderOptionSheet) (*CSVReader, error) {
	opts := SheetReaderOptions{
		Timeout: 30 * time.Second,
	}
	for _, opt := range options {
		opt(&opts)
	}

	exportURL, err := ExportURL(sheetURL)
	if err != nil {
		return nil, &SheetReaderError{Op: "rewrite_url", URL: sheetURL, Err: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	resp, err := client.Get(exportURL)
	if err != nil {
		return nil, &SheetReaderError{Op: "fetch", URL: exportURL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &SheetReaderError{
			Op:         "fetch",
			StatusCode: resp.StatusCode,
			URL:        exportURL,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	reader, err := NewCSVReader(resp.Body, opts.CSV...)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	return reader, nil
}

// ExportURL rewrites a Google Sheets edit link to its CSV export form.
// "https://docs.google.com/spreadsheets/d/<id>/edit#gid=0" becomes
// "https://docs.google.com/spreadsheets/d/<id>/export?format=csv&gid=0".
// A URL already pointing at an export endpoint is returned unchanged.
func ExportURL(sheetURL string) (string, error) {
	if err := validateSheetURL(sheetURL); err != nil {
		return "", err
	}

	if strings.Contains(sheetURL, "/export") {
		return sheetURL, nil
	}

	gid := ""
	if m := gidPattern.FindStringSubmatch(sheetURL); m != nil {
		gid = m[1]
	}

	base := sheetURL
	if idx := strings.Index(base, "/edit"); idx >= 0 {
		base = base[:idx]
	}
	base = strings.TrimRight(base, "/")

	export := base + "/export?format=csv"
	if gid != "" {
		export += "&gid=" + gid
	}
	return export, nil
}

func validateSheetURL(sheetURL string) error {
	parsed, err := url.Parse(sheetURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Host != "docs.google.com" || !strings.Contains(parsed.Path, "/spreadsheets/") {
		return fmt.Errorf("not a Google Sheets URL")
	}
	return nil
}
