// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package routes wires the AlgoLab handlers onto a gin engine.
package routes

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/AlgoLab/services/algolab/handlers"
	"github.com/AleutianAI/AlgoLab/services/algolab/middleware"
	"github.com/AleutianAI/AlgoLab/services/algolab/observability"
)

// Options carries the optional middleware. Nil fields are skipped.
type Options struct {
	// ServiceName labels otelgin spans. Empty disables otelgin.
	ServiceName string

	// Limiter throttles POST /api/algorithms/:name.
	Limiter *middleware.RateLimiter

	// HTTPMetrics records OpenTelemetry request instruments.
	HTTPMetrics *observability.HTTPMetrics
}

// SetupRoutes registers every AlgoLab endpoint on router.
//
// # Routes
//
//   - GET  /health
//   - GET  /metrics
//   - GET  /api/algorithms
//   - GET  /api/algorithmType/:type
//   - GET  /api/algorithms/:name
//   - POST /api/algorithms/:name
//   - GET  /api/graphs/:id
func SetupRoutes(router *gin.Engine, deps *handlers.Deps, opts Options) {
	router.Use(middleware.RequestID())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.HTTPMetrics != nil {
		router.Use(opts.HTTPMetrics.Middleware())
	}

	router.GET("/health", handlers.HealthCheck(deps))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/algorithms", handlers.ListAlgorithms(deps))
		api.GET("/algorithmType/:type", handlers.ListAlgorithmType(deps))
		api.GET("/algorithms/:name", handlers.GetAlgorithmMetadata(deps))

		action := []gin.HandlerFunc{handlers.HandleAction(deps)}
		if opts.Limiter != nil {
			action = append([]gin.HandlerFunc{opts.Limiter.Middleware()}, action...)
		}
		api.POST("/algorithms/:name", action...)

		api.GET("/graphs/:id", handlers.GetGraph(deps))
	}
}
