// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package storage keeps rendered chart artifacts.
//
// Artifacts are addressed by uuid. The badger backend serves both the
// persistent and in-memory modes; the gcs backend writes objects to a
// Cloud Storage bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AlgoLab/services/algolab/config"
)

var (
	// ErrNotFound is returned by Get for an unknown or expired id.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidID is returned for an id that is not a uuid.
	ErrInvalidID = errors.New("artifact id must be a uuid")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Artifact is a stored chart.
type Artifact struct {
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArtifactStore persists artifacts by id.
//
// # Thread Safety
//
// Implementations are safe for concurrent use.
type ArtifactStore interface {
	// Put stores a under id, replacing any previous artifact.
	Put(ctx context.Context, id string, a Artifact) error

	// Get returns the artifact stored under id or ErrNotFound.
	Get(ctx context.Context, id string) (Artifact, error)

	// Close releases the backend.
	Close() error
}

// NewID returns a fresh artifact id.
func NewID() string {
	return uuid.NewString()
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Open builds the store selected by cfg.Backend.
//
// # Inputs
//
//   - ctx: Used to create the gcs client.
//   - cfg: Storage configuration.
//   - logger: Receives backend logs. May be nil.
//
// # Outputs
//
//   - ArtifactStore: Caller must Close it.
//   - error: ErrUnknownBackend or a backend open failure.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (ArtifactStore, error) {
	switch cfg.Backend {
	case "badger":
		path, err := expandHome(cfg.Path)
		if err != nil {
			return nil, err
		}
		bc := DefaultBadgerConfig()
		bc.Path = path
		bc.TTL = cfg.ArtifactTTL
		bc.Logger = logger
		return OpenBadger(bc)

	case "memory":
		bc := InMemoryBadgerConfig()
		bc.TTL = cfg.ArtifactTTL
		bc.Logger = logger
		return OpenBadger(bc)

	case "gcs":
		return NewGCSStore(ctx, GCSConfig{
			Bucket:          cfg.GCS.Bucket,
			Prefix:          cfg.GCS.Prefix,
			CredentialsFile: cfg.GCS.CredentialsFile,
		})

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
