// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSConfig selects the bucket that receives artifacts.
type GCSConfig struct {
	Bucket string

	// Prefix is prepended to object names, for example "algolab/charts".
	Prefix string

	// CredentialsFile is a service account key. Empty uses application
	// default credentials.
	CredentialsFile string
}

// GCSStore is an ArtifactStore backed by a Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStore creates a store writing to cfg.Bucket.
func NewGCSStore(ctx context.Context, cfg GCSConfig, opts ...option.ClientOption) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", cfg.CredentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *GCSStore) objectName(id string) string {
	return path.Join(s.prefix, chartKeyPrefix+id)
}

// Put uploads a as an object named after id.
func (s *GCSStore) Put(ctx context.Context, id string, a Artifact) error {
	if err := checkID(id); err != nil {
		return err
	}
	name := s.objectName(id)
	writer := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	writer.ContentType = a.ContentType
	writer.CacheControl = "public, max-age=3600"

	if _, err := writer.Write(a.Data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write GCS object %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", name, err)
	}
	return nil
}

// Get downloads the object for id.
func (s *GCSStore) Get(ctx context.Context, id string) (Artifact, error) {
	if err := checkID(id); err != nil {
		return Artifact{}, err
	}
	name := s.objectName(id)
	reader, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return Artifact{}, ErrNotFound
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to open GCS object %s: %w", name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read GCS object %s: %w", name, err)
	}
	return Artifact{
		ContentType: reader.Attrs.ContentType,
		Data:        data,
		CreatedAt:   reader.Attrs.LastModified,
	}, nil
}

// Close releases the client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
