// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AlgoLab/services/algolab/storage"
)

// GetGraph serves a stored chart.
func GetGraph(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		artifact, err := deps.Store.Get(c.Request.Context(), id)
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidID) {
			abortWith(c, http.StatusNotFound, fmt.Sprintf("Graph '%s' doesn't exist.", id))
			return
		}
		if err != nil {
			deps.logger().Error("graph lookup failed", "graph", id, "error", err)
			abortWith(c, http.StatusInternalServerError, "Failed to load graph.")
			return
		}
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
	}
}
