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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListingColumns, cfg.Validation.RequiredFields)
	assert.Equal(t, DefaultListingColumns, cfg.Validation.DuplicateKey)
	assert.Equal(t, "data_cleaned.csv", cfg.Output.CleanPath)
	assert.Equal(t, "problematic_records.csv", cfg.Output.ProblemPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
validation:
  required_fields:
    - Email
    - Phone
output:
  clean_path: out/clean.csv
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Email", "Phone"}, cfg.Validation.RequiredFields)
	// Duplicate key follows required fields unless set explicitly.
	assert.Equal(t, []string{"Email", "Phone"}, cfg.Validation.DuplicateKey)
	assert.Equal(t, "out/clean.csv", cfg.Output.CleanPath)
	assert.Equal(t, "problematic_records.csv", cfg.Output.ProblemPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_ExplicitDuplicateKey(t *testing.T) {
	path := writeConfig(t, `
validation:
  required_fields:
    - Email
    - Phone
  duplicate_key:
    - Email
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Email"}, cfg.Validation.DuplicateKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SWEEP_VALIDATION_REQUIRED_FIELDS", "Email,Website")
	t.Setenv("SWEEP_OUTPUT_CLEAN_PATH", "env_clean.csv")
	t.Setenv("SWEEP_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"Email", "Website"}, cfg.Validation.RequiredFields)
	assert.Equal(t, "env_clean.csv", cfg.Output.CleanPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidYAMLFails(t *testing.T) {
	path := writeConfig(t, "validation: [not a map")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ValidationRejectsUnknownValues(t *testing.T) {
	t.Run("bad_format", func(t *testing.T) {
		path := writeConfig(t, "logging:\n  format: xml\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logging format")
	})

	t.Run("bad_output", func(t *testing.T) {
		path := writeConfig(t, "logging:\n  output: syslog\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logging output")
	})
}
