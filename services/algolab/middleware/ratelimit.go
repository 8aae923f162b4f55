// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides gin middleware for the AlgoLab API.
package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/AlgoLab/services/algolab/config"
	"github.com/AleutianAI/AlgoLab/services/algolab/datatypes"
)

// TooManyRequestsMessage is the body message of a throttled request.
const TooManyRequestsMessage = "Too many requests, slow down."

// =============================================================================
// Rate Limiter
// =============================================================================

// RateLimiter throttles action requests with a single token bucket shared
// by all clients.
//
// # Description
//
// A zero rate disables throttling. Update installs a fresh bucket so a
// config reload takes effect without restarting the server.
//
// # Thread Safety
//
// Safe for concurrent use.
type RateLimiter struct {
	mu      sync.RWMutex
	limiter *rate.Limiter
	enabled bool
}

// NewRateLimiter builds a limiter from the server section.
func NewRateLimiter(cfg config.ServerConfig) *RateLimiter {
	r := &RateLimiter{}
	r.Update(cfg)
	return r
}

// Update applies a new rate and burst.
func (r *RateLimiter) Update(cfg config.ServerConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg.RateLimit <= 0 {
		r.enabled = false
		r.limiter = nil
		return
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	r.enabled = true
	r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
}

// Allow reports whether one more request may proceed now.
func (r *RateLimiter) Allow() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.enabled || r.limiter.Allow()
}

// Middleware aborts with 429 once the bucket is empty.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Allow() {
			c.Header("Retry-After", strconv.Itoa(1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, datatypes.ErrorResponse{
				Message:   TooManyRequestsMessage,
				RequestID: RequestIDFrom(c),
			})
			return
		}
		c.Next()
	}
}
