// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration.
//
// # Description
//
// Starts from Default, overlays the YAML file at path when path is not
// empty, applies environment overrides and validates the result. Keys
// missing from the file keep their defaults.
//
// # Inputs
//
//   - path: YAML file to read. Empty skips the file.
//
// # Outputs
//
//   - *Config: The validated configuration.
//   - error: Non-nil if the file cannot be read or parsed, an override is
//     malformed, or validation fails.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read the config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse the config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories as needed.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type lookupFunc func(string) (string, bool)

// applyEnv overlays ALGOLAB_*, OTEL_* and INFLUXDB_* variables.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	if v, ok := lookup("ALGOLAB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ALGOLAB_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v, ok := lookup("ALGOLAB_LOG_LEVEL"); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookup("ALGOLAB_STORAGE_PATH"); ok && v != "" {
		cfg.Storage.Path = v
	}
	if v, ok := lookup("ALGOLAB_TRACING_EXPORTER"); ok && v != "" {
		cfg.Tracing.Exporter = v
	}
	if v, ok := lookup("OTEL_EXPORTER_OTLP_ENDPOINT"); ok && v != "" {
		cfg.Tracing.Endpoint = v
	}

	influx := map[string]*string{
		"INFLUXDB_URL":    &cfg.Influx.URL,
		"INFLUXDB_TOKEN":  &cfg.Influx.Token,
		"INFLUXDB_ORG":    &cfg.Influx.Org,
		"INFLUXDB_BUCKET": &cfg.Influx.Bucket,
	}
	for key, dst := range influx {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	return nil
}
