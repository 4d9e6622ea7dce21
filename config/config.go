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
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Package config loads the application configuration from an optional YAML file
// with environment-variable overrides (prefix SWEEP). The validation rules are
// the part the cleaning core consumes: an ordered Required Field Set and an
// ordered Duplicate Key. Both default to the standard practitioner-listing
// columns.

// Config is the complete application configuration.
type Config struct {
	Validation ValidationConfig `yaml:"validation" envconfig:"VALIDATION"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// ValidationConfig carries the externally supplied cleaning rules.
type ValidationConfig struct {
	// RequiredFields are columns that must be non-empty for a row to be valid.
	RequiredFields []string `yaml:"required_fields" envconfig:"REQUIRED_FIELDS"`
	// DuplicateKey lists the columns whose combined value identifies a row for
	// deduplication. Defaults to the same columns as RequiredFields.
	DuplicateKey []string `yaml:"duplicate_key" envconfig:"DUPLICATE_KEY"`
}

// OutputConfig sets default output locations for the clean command.
type OutputConfig struct {
	CleanPath   string `yaml:"clean_path" envconfig:"CLEAN_PATH"`
	ProblemPath string `yaml:"problem_path" envconfig:"PROBLEM_PATH"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DefaultListingColumns is the column set practitioner-directory exports share.
// It doubles as the default Required Field Set and Duplicate Key.
var DefaultListingColumns = []string{
	"Index",
	"Practitioner Name",
	"Email",
	"Phone",
	"Website",
	"Google Maps URL",
}

// Load reads configuration from the given YAML file (if the path is non-empty
// and the file exists) and applies environment overrides. Defaults fill
// whatever remains unset.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("SWEEP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Validation.RequiredFields) == 0 {
		c.Validation.RequiredFields = append([]string(nil), DefaultListingColumns...)
	}
	if len(c.Validation.DuplicateKey) == 0 {
		c.Validation.DuplicateKey = append([]string(nil), c.Validation.RequiredFields...)
	}
	if c.Output.CleanPath == "" {
		c.Output.CleanPath = "data_cleaned.csv"
	}
	if c.Output.ProblemPath == "" {
		c.Output.ProblemPath = "problematic_records.csv"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/listingsweep.log"
	}
}

func (c *Config) validate() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("unknown logging output %q", c.Logging.Output)
	}
	return nil
}
