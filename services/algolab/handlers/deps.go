// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the AlgoLab HTTP endpoints.
package handlers

import (
	"log/slog"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/charts"
	"github.com/AleutianAI/AlgoLab/services/algolab/config"
	"github.com/AleutianAI/AlgoLab/services/algolab/datatypes"
	"github.com/AleutianAI/AlgoLab/services/algolab/harness"
	"github.com/AleutianAI/AlgoLab/services/algolab/middleware"
	"github.com/AleutianAI/AlgoLab/services/algolab/observability"
	"github.com/AleutianAI/AlgoLab/services/algolab/sinks"
	"github.com/AleutianAI/AlgoLab/services/algolab/storage"
)

var tracer = otel.Tracer("algolab.handlers")

// Settings are the request-time knobs that may change on config reload.
type Settings struct {
	Defaults config.ActionDefaults
	Limits   config.LimitsConfig
}

// SettingsStore holds the current Settings.
//
// # Thread Safety
//
// Safe for concurrent use. Readers see either the old or the new value.
type SettingsStore struct {
	current atomic.Pointer[Settings]
}

// NewSettingsStore creates a store seeded from cfg.
func NewSettingsStore(cfg config.Config) *SettingsStore {
	s := &SettingsStore{}
	s.Update(cfg)
	return s
}

// Load returns the current settings.
func (s *SettingsStore) Load() Settings {
	return *s.current.Load()
}

// Update swaps in the sections of cfg that handlers read.
func (s *SettingsStore) Update(cfg config.Config) {
	s.current.Store(&Settings{Defaults: cfg.Defaults, Limits: cfg.Limits})
}

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Registry *algorithms.Registry
	Harness  *harness.Harness
	Charts   *charts.Generator
	Store    storage.ArtifactStore
	Sink     sinks.ResultSink
	Metrics  *observability.Metrics
	Settings *SettingsStore
	Logger   *slog.Logger
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// abortWith writes an ErrorResponse and stops the chain.
func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, datatypes.ErrorResponse{
		Message:   message,
		RequestID: middleware.RequestIDFrom(c),
	})
}
