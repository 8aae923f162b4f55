// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package algolab assembles the AlgoLab HTTP service.
//
// The service owns the algorithm registry, the harness that runs sweeps and
// comparisons, chart rendering and storage, the result sink, and the
// telemetry stack. Handlers read request defaults and limits through a
// settings store which is swapped when the config file changes.
//
// # Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc, err := algolab.New(ctx, cfg, algolab.Options{ConfigPath: path})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run(ctx))
package algolab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/charts"
	"github.com/AleutianAI/AlgoLab/services/algolab/config"
	"github.com/AleutianAI/AlgoLab/services/algolab/handlers"
	"github.com/AleutianAI/AlgoLab/services/algolab/harness"
	"github.com/AleutianAI/AlgoLab/services/algolab/middleware"
	"github.com/AleutianAI/AlgoLab/services/algolab/observability"
	"github.com/AleutianAI/AlgoLab/services/algolab/routes"
	"github.com/AleutianAI/AlgoLab/services/algolab/sinks"
	"github.com/AleutianAI/AlgoLab/services/algolab/storage"
)

// ErrNilConfig is returned by New when cfg is nil.
var ErrNilConfig = errors.New("config must not be nil")

// =============================================================================
// Interface Definition
// =============================================================================

// Service is the AlgoLab HTTP service lifecycle.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run should be called at
// most once.
type Service interface {
	// Run serves HTTP until ctx is done, then shuts down gracefully within
	// the configured shutdown timeout.
	Run(ctx context.Context) error

	// Router returns the configured gin engine.
	Router() *gin.Engine

	// Shutdown releases the store, the sink and the telemetry providers.
	// Safe to call more than once.
	Shutdown(ctx context.Context) error
}

// Options are the non-file inputs to New.
type Options struct {
	// ConfigPath is watched for changes while Run is active. Empty disables
	// hot reload.
	ConfigPath string

	// Version is reported as the service.version resource attribute.
	Version string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// =============================================================================
// Implementation
// =============================================================================

type service struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger

	router    *gin.Engine
	deps      *handlers.Deps
	limiter   *middleware.RateLimiter
	telemetry func(context.Context) error

	shutdownOnce sync.Once
	shutdownErr  error
}

// New builds a Service from cfg.
//
// # Description
//
// Initialization order:
//  1. Telemetry (tracer and meter providers, propagators)
//  2. Prometheus collectors on a private registry
//  3. Registry, generator and harness
//  4. Chart store and result sink
//  5. Router with request id, otelgin, HTTP metrics and rate limiting
//
// A failure after telemetry or storage came up releases what was built.
//
// # Inputs
//
//   - ctx: Used for exporter and storage connections.
//   - cfg: A validated configuration.
//   - opts: Watch path, version and logger.
//
// # Outputs
//
//   - Service: Ready to Run.
//   - error: ErrNilConfig or the first component failure.
func New(ctx context.Context, cfg *config.Config, opts Options) (Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{cfg: cfg, configPath: opts.ConfigPath, logger: logger}

	reg := prometheus.NewRegistry()
	telemetryCfg := observability.FromConfig(*cfg, opts.Version, reg)
	shutdown, err := observability.Init(ctx, telemetryCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	s.telemetry = shutdown

	metrics := observability.NewMetrics(reg)
	registry := algorithms.NewSortRegistry()
	h, err := NewHarness(cfg, registry, metrics, logger)
	if err != nil {
		_ = s.Shutdown(ctx)
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		_ = s.Shutdown(ctx)
		return nil, fmt.Errorf("failed to open chart store: %w", err)
	}

	s.deps = &handlers.Deps{
		Registry: registry,
		Harness:  h,
		Charts:   charts.NewGenerator(nil),
		Store:    store,
		Sink:     sinks.New(cfg.Influx),
		Metrics:  metrics,
		Settings: handlers.NewSettingsStore(*cfg),
		Logger:   logger,
	}
	s.limiter = middleware.NewRateLimiter(cfg.Server)

	httpMetrics, err := observability.NewHTTPMetrics(otel.Meter("algolab.http"))
	if err != nil {
		_ = s.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create http instruments: %w", err)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	routes.SetupRoutes(s.router, s.deps, routes.Options{
		ServiceName: telemetryCfg.ServiceName,
		Limiter:     s.limiter,
		HTTPMetrics: httpMetrics,
	})

	logger.Info("AlgoLab service initialized",
		"algorithms", registry.Count(),
		"storage", cfg.Storage.Backend,
		"influx", cfg.Influx.Enabled(),
		"tracing", cfg.Tracing.Exporter,
	)
	return s, nil
}

// NewHarness builds a harness whose generator and parallelism follow cfg.
func NewHarness(cfg *config.Config, registry *algorithms.Registry, observer algorithms.Observer, logger *slog.Logger) (*harness.Harness, error) {
	gen, err := NewGenerator(cfg.Generator)
	if err != nil {
		return nil, err
	}
	opts := []harness.Option{
		harness.WithGenerator(gen),
		harness.WithParallelism(cfg.Benchmark.Parallelism),
	}
	if logger != nil {
		opts = append(opts, harness.WithLogger(logger))
	}
	if observer != nil {
		opts = append(opts, harness.WithObserver(observer))
	}
	return harness.New(registry, opts...), nil
}

// NewGenerator converts the generator section.
func NewGenerator(cfg config.GeneratorConfig) (*algorithms.Generator, error) {
	gen, err := algorithms.NewGenerator(algorithms.GeneratorConfig{
		Min:     cfg.Min,
		Max:     cfg.Max,
		Passes:  cfg.Passes,
		Shuffle: algorithms.ShuffleMode(cfg.Shuffle),
		Seed:    cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return gen, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

func (s *service) Run(ctx context.Context) error {
	addr := net.JoinHostPort("", strconv.Itoa(s.cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if s.configPath != "" {
		go func() {
			if err := config.Watch(watchCtx, s.configPath, s.logger, s.reload); err != nil {
				s.logger.Warn("config watch stopped", "path", s.configPath, "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting AlgoLab server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		_ = s.Shutdown(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down AlgoLab server", "timeout", timeout.String())
	serveErr := srv.Shutdown(shutdownCtx)
	return errors.Join(serveErr, s.Shutdown(shutdownCtx))
}

func (s *service) Router() *gin.Engine {
	return s.router
}

func (s *service) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		var errs []error
		if s.deps != nil {
			if err := s.deps.Store.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close chart store: %w", err))
			}
			if err := s.deps.Sink.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close result sink: %w", err))
			}
		}
		if s.telemetry != nil {
			if err := s.telemetry(ctx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
			}
		}
		s.shutdownErr = errors.Join(errs...)
	})
	return s.shutdownErr
}

// reload applies a changed config file. Only request defaults, limits and
// the rate limit are live; everything else needs a restart.
func (s *service) reload(cfg *config.Config) {
	s.deps.Settings.Update(*cfg)
	s.limiter.Update(cfg.Server)
	s.logger.Info("configuration reloaded",
		"path", s.configPath,
		"rate_limit", cfg.Server.RateLimit,
		"max_collection_size", cfg.Limits.MaxCollectionSize,
	)
}
