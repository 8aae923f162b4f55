// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads AlgoLab configuration from YAML and the environment.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var configValidate = validator.New()

type Config struct {
	// Server: HTTP listener and request throttling
	Server ServerConfig `yaml:"server"`

	// Defaults: action options used when a request leaves them out
	Defaults ActionDefaults `yaml:"defaults"`

	// Generator: random collection generation
	Generator GeneratorConfig `yaml:"generator"`

	// Limits: hard caps on request size
	Limits LimitsConfig `yaml:"limits"`

	// Benchmark: sweep execution
	Benchmark BenchmarkConfig `yaml:"benchmark"`

	// Storage: where rendered charts are kept
	Storage StorageConfig `yaml:"storage"`

	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Metrics MetricsConfig `yaml:"metrics"`

	// Influx: optional time-series sink for run results
	Influx InfluxConfig `yaml:"influx"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" validate:"gte=1,lte=65535"`
	RateLimit       float64       `yaml:"rate_limit" validate:"gte=0"` // actions per second, 0 disables
	RateBurst       int           `yaml:"rate_burst" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// ActionDefaults mirrors the options block of an action request.
type ActionDefaults struct {
	MinSize        int `yaml:"min_size" validate:"gte=1"`
	MaxSize        int `yaml:"max_size" validate:"gtefield=MinSize"`
	Jump           int `yaml:"jump" validate:"gte=1"`
	Repeats        int `yaml:"repeats" validate:"gte=1"`
	CompareRepeats int `yaml:"compare_repeats" validate:"gte=1"`
	RunSize        int `yaml:"run_size" validate:"gte=0"` // generated input size for run
}

type GeneratorConfig struct {
	Min     int    `yaml:"min"`
	Max     int    `yaml:"max" validate:"gtefield=Min"`
	Passes  int    `yaml:"passes" validate:"gte=0"`
	Shuffle string `yaml:"shuffle" validate:"omitempty,oneof=fisher-yates legacy"`
	Seed    int64  `yaml:"seed"`
}

type LimitsConfig struct {
	MaxCollectionSize int `yaml:"max_collection_size" validate:"gte=1"`
	MaxRunsPerRequest int `yaml:"max_runs_per_request" validate:"gte=1"`
}

type BenchmarkConfig struct {
	Parallelism int `yaml:"parallelism" validate:"gte=1"`
}

type StorageConfig struct {
	// Backend is badger, memory or gcs
	Backend     string        `yaml:"backend" validate:"oneof=badger memory gcs"`
	Path        string        `yaml:"path" validate:"required_if=Backend badger"`
	ArtifactTTL time.Duration `yaml:"artifact_ttl" validate:"gte=0"`
	GCS         GCSConfig     `yaml:"gcs"`
}

type GCSConfig struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
}

type TracingConfig struct {
	// Exporter is none, stdout or otlp
	Exporter    string  `yaml:"exporter" validate:"oneof=none stdout otlp"`
	Endpoint    string  `yaml:"endpoint" validate:"required_if=Exporter otlp"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

// MetricsConfig selects where OpenTelemetry instruments are exported.
// Prometheus collectors are always served on /metrics.
type MetricsConfig struct {
	// Exporter is prometheus, stdout or none
	Exporter string `yaml:"exporter" validate:"oneof=prometheus stdout none"`
}

// InfluxConfig is disabled when URL is empty.
type InfluxConfig struct {
	URL    string `yaml:"url" validate:"omitempty,url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org" validate:"required_with=URL"`
	Bucket string `yaml:"bucket" validate:"required_with=URL"`
}

// Enabled reports whether the sink should be configured.
func (c InfluxConfig) Enabled() bool {
	return c.URL != ""
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			RateLimit:       10,
			RateBurst:       20,
			ShutdownTimeout: 10 * time.Second,
		},
		Defaults: ActionDefaults{
			MinSize:        5,
			MaxSize:        20,
			Jump:           1,
			Repeats:        5,
			CompareRepeats: 10,
			RunSize:        10,
		},
		Generator: GeneratorConfig{
			Min:     1,
			Max:     1000,
			Passes:  5,
			Shuffle: "fisher-yates",
		},
		Limits: LimitsConfig{
			MaxCollectionSize: 10000,
			MaxRunsPerRequest: 5000,
		},
		Benchmark: BenchmarkConfig{Parallelism: 1},
		Storage: StorageConfig{
			Backend:     "badger",
			Path:        "~/.algolab/artifacts",
			ArtifactTTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{Level: "info"},
		Tracing: TracingConfig{
			Exporter:    "none",
			ServiceName: "algolab",
			SampleRatio: 1,
		},
		Metrics: MetricsConfig{Exporter: "prometheus"},
	}
}

// Validate checks every section against its constraints.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Storage.Backend == "gcs" && c.Storage.GCS.Bucket == "" {
		return fmt.Errorf("invalid configuration: storage.gcs.bucket is required for the gcs backend")
	}
	return nil
}
