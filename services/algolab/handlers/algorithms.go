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

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/datatypes"
)

func unknownAlgorithmMessage(name string) string {
	return fmt.Sprintf("Algorithm '%s' doesn't exist.", name)
}

// ListAlgorithms returns every registered identifier in registration order.
func ListAlgorithms(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, datatypes.AlgorithmListResponse{
			AvailableAlgorithms: deps.Registry.IDs(),
		})
	}
}

// ListAlgorithmType returns id -> display name for one problem family.
func ListAlgorithmType(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		family := algorithms.Family(c.Param("type"))
		for _, f := range deps.Registry.Families() {
			if f == family {
				c.JSON(http.StatusOK, deps.Registry.ByFamily(family))
				return
			}
		}
		abortWith(c, http.StatusBadRequest,
			fmt.Sprintf("Algorithm type '%s' does not exist within the API.", family))
	}
}

// GetAlgorithmMetadata returns the descriptive record of an algorithm.
//
// # Outputs
//
//   - 200 with algorithms.Metadata.
//   - 404 for an unknown identifier.
//   - 501 when the strategy has no metadata.
func GetAlgorithmMetadata(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		strategy, err := deps.Registry.Strategy(name)
		if err != nil {
			abortWith(c, http.StatusNotFound, unknownAlgorithmMessage(name))
			return
		}

		md, err := strategy.Metadata()
		if errors.Is(err, algorithms.ErrNotImplemented) {
			abortWith(c, http.StatusNotImplemented,
				fmt.Sprintf("There is no metadata available for the %s algorithm.", name))
			return
		}
		if err != nil {
			deps.logger().Error("metadata lookup failed", "algorithm", name, "error", err)
			abortWith(c, http.StatusInternalServerError, "Failed to load algorithm metadata.")
			return
		}
		c.JSON(http.StatusOK, md)
	}
}

// HealthCheck reports liveness and the number of registered algorithms.
func HealthCheck(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, datatypes.HealthResponse{
			Status:     "ok",
			Algorithms: deps.Registry.Count(),
		})
	}
}
