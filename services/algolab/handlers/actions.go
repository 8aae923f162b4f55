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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AlgoLab/services/algolab/algorithms"
	"github.com/AleutianAI/AlgoLab/services/algolab/charts"
	"github.com/AleutianAI/AlgoLab/services/algolab/datatypes"
	"github.com/AleutianAI/AlgoLab/services/algolab/harness"
	"github.com/AleutianAI/AlgoLab/services/algolab/middleware"
	"github.com/AleutianAI/AlgoLab/services/algolab/storage"
)

// IncompatibleMessage is the client message for a cross-family compare.
const IncompatibleMessage = "The two algorithms do not solve the same computational problem!"

// NoActionMessage is the client message for a request without an action.
const NoActionMessage = "No action specified."

// actionInvalid labels requests rejected before their action is known.
const actionInvalid = "invalid"

// HandleAction runs, sweeps or compares the algorithm named in the path.
//
// # Description
//
// The path algorithm is checked first, so an unknown name is a 404 whatever
// the body says. The body is then decoded into datatypes.ActionRequest and
// dispatched on its action:
//
//   - run: one run on the given collection, or on Size (default
//     defaults.run_size) generated elements. Responds with a projection.
//   - test: a size sweep over the merged options. Responds with one key per
//     size plus "graph".
//   - compare: first_algorithm (default: the path algorithm) against
//     second_algorithm on a shared input. Responds with both result lists
//     plus "graph".
//
// Every projection produced is forwarded to the result sink. With makegraph
// set, test and compare render a chart and return its id in "graph".
//
// # Outputs
//
//   - 200 on success, including runs that failed verification.
//   - 400 for a missing or invalid action, invalid options or collection,
//     or incompatible algorithms.
//   - 404 for an unknown algorithm.
//   - 503 when the client gave up before the work finished.
func HandleAction(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "handlers.HandleAction")
		defer span.End()

		name := c.Param("name")
		action := actionInvalid
		defer func() {
			if deps.Metrics != nil {
				deps.Metrics.RecordAction(action, c.Writer.Status())
			}
		}()

		if !deps.Registry.Has(name) {
			abortWith(c, http.StatusNotFound, unknownAlgorithmMessage(name))
			return
		}

		var req datatypes.ActionRequest
		if err := decodeBody(c.Request.Body, &req); err != nil {
			abortWith(c, http.StatusBadRequest, "Malformed request body.")
			return
		}
		if req.RequestID == "" {
			req.RequestID = middleware.RequestIDFrom(c)
		}
		req.EnsureDefaults()

		if err := req.ValidateAction(); err != nil {
			var msg string
			switch {
			case errors.Is(err, datatypes.ErrNoAction):
				msg = NoActionMessage
			case errors.Is(err, datatypes.ErrInvalidAction):
				msg = err.Error()
			default:
				msg = "Invalid request: " + err.Error()
			}
			abortWith(c, http.StatusBadRequest, msg)
			return
		}
		action = req.Action
		span.SetAttributes(
			attribute.String("algorithm.id", name),
			attribute.String("action", action),
			attribute.String("request.id", req.RequestID),
		)

		settings := deps.Settings.Load()
		collection, err := datatypes.ParseCollection(req.Collection, settings.Limits.MaxCollectionSize)
		if err != nil {
			abortWith(c, http.StatusBadRequest, err.Error())
			return
		}

		a := &actionContext{ctx: ctx, c: c, deps: deps, settings: settings, span: span}
		switch req.Action {
		case datatypes.ActionRun:
			a.run(name, &req, collection)
		case datatypes.ActionTest:
			a.test(name, &req)
		case datatypes.ActionCompare:
			a.compare(name, &req, collection)
		}
	}
}

type actionContext struct {
	ctx      context.Context
	c        *gin.Context
	deps     *Deps
	settings Settings
	span     trace.Span
}

func (a *actionContext) run(name string, req *datatypes.ActionRequest, collection []int) {
	size := req.Size
	if size == 0 {
		size = a.settings.Defaults.RunSize
	}
	if len(collection) == 0 && size > a.settings.Limits.MaxCollectionSize {
		abortWith(a.c, http.StatusBadRequest, fmt.Sprintf("%v: size %d exceeds the limit of %d",
			datatypes.ErrInvalidOptions, size, a.settings.Limits.MaxCollectionSize))
		return
	}

	p, err := a.deps.Harness.Run(a.ctx, harness.RunConfig{Algorithm: name, Collection: collection, Size: size})
	if err != nil {
		a.fail(err)
		return
	}
	a.writeRuns(datatypes.ActionRun, []algorithms.Projection{p})
	a.c.JSON(http.StatusOK, p)
}

func (a *actionContext) test(name string, req *datatypes.ActionRequest) {
	opts, err := req.ResolveOptions(a.settings.Defaults, false)
	if err != nil {
		abortWith(a.c, http.StatusBadRequest, err.Error())
		return
	}
	if err := opts.CheckLimits(a.settings.Limits); err != nil {
		abortWith(a.c, http.StatusBadRequest, err.Error())
		return
	}

	cfg := harness.SweepConfig{
		Algorithm: name,
		MinSize:   opts.MinSize,
		MaxSize:   opts.MaxSize,
		Step:      opts.Jump,
		Repeats:   opts.Repeats,
	}
	if a.deps.Metrics != nil {
		a.deps.Metrics.RecordSweep(name, cfg.TotalRuns())
	}
	result, err := a.deps.Harness.Sweep(a.ctx, cfg)
	if err != nil {
		a.fail(err)
		return
	}
	a.writeRuns(datatypes.ActionTest, result.Projections())

	var graph *string
	if req.MakeGraph {
		svg, err := a.deps.Charts.Sweep(a.ctx, result)
		if graph, err = a.storeChart(svg, err); err != nil {
			return
		}
	}
	a.c.JSON(http.StatusOK, datatypes.SweepResponse{Result: result, Graph: graph})
}

func (a *actionContext) compare(name string, req *datatypes.ActionRequest, collection []int) {
	first := req.FirstAlgorithm
	if first == "" {
		first = name
	}
	second := req.SecondAlgorithm
	if second == "" {
		abortWith(a.c, http.StatusBadRequest, datatypes.ErrMissingAlgorithm.Error())
		return
	}
	for _, id := range []string{first, second} {
		if !a.deps.Registry.Has(id) {
			abortWith(a.c, http.StatusNotFound, unknownAlgorithmMessage(id))
			return
		}
	}

	opts, err := req.ResolveOptions(a.settings.Defaults, true)
	if err != nil {
		abortWith(a.c, http.StatusBadRequest, err.Error())
		return
	}
	if err := opts.CheckCompareLimits(a.settings.Limits); err != nil {
		abortWith(a.c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.deps.Harness.Compare(a.ctx, harness.CompareConfig{
		First:      first,
		Second:     second,
		Collection: collection,
		Repeats:    opts.Repeats,
		MinSize:    opts.MinSize,
		MaxSize:    opts.MaxSize,
	})
	if err != nil {
		a.fail(err)
		return
	}
	all := append(append([]algorithms.Projection(nil), result.First.Results...), result.Second.Results...)
	a.writeRuns(datatypes.ActionCompare, all)

	var graph *string
	if req.MakeGraph {
		svg, err := a.deps.Charts.Comparison(a.ctx, result)
		if graph, err = a.storeChart(svg, err); err != nil {
			return
		}
	}
	a.c.JSON(http.StatusOK, datatypes.NewCompareResponse(result, graph))
}

// storeChart persists a rendered chart and returns its id. On failure it
// has already written the error response.
func (a *actionContext) storeChart(svg []byte, renderErr error) (*string, error) {
	if renderErr != nil {
		a.deps.logger().Error("chart render failed", "error", renderErr)
		a.span.RecordError(renderErr)
		abortWith(a.c, http.StatusInternalServerError, "Failed to render graph.")
		return nil, renderErr
	}
	id := storage.NewID()
	err := a.deps.Store.Put(a.ctx, id, storage.Artifact{
		ContentType: charts.ContentType,
		Data:        svg,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		a.deps.logger().Error("chart store failed", "graph", id, "error", err)
		a.span.RecordError(err)
		abortWith(a.c, http.StatusInternalServerError, "Failed to store graph.")
		return nil, err
	}
	return &id, nil
}

func (a *actionContext) writeRuns(action string, projections []algorithms.Projection) {
	if a.deps.Sink == nil {
		return
	}
	if err := a.deps.Sink.WriteRuns(a.ctx, action, projections); err != nil {
		a.deps.logger().Warn("result sink write failed", "action", action, "runs", len(projections), "error", err)
	}
}

// fail maps harness errors to responses.
func (a *actionContext) fail(err error) {
	a.span.RecordError(err)
	switch {
	case errors.Is(err, algorithms.ErrIncompatibleAlgorithms):
		abortWith(a.c, http.StatusBadRequest, IncompatibleMessage)
	case errors.Is(err, algorithms.ErrInvalidCollection), errors.Is(err, harness.ErrInvalidSweep):
		abortWith(a.c, http.StatusBadRequest, err.Error())
	case errors.Is(err, algorithms.ErrUnknownAlgorithm):
		abortWith(a.c, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		abortWith(a.c, http.StatusServiceUnavailable, "Request cancelled before the action finished.")
	default:
		a.deps.logger().Error("action failed", "error", err)
		abortWith(a.c, http.StatusInternalServerError, "Internal error.")
	}
}

// decodeBody decodes a JSON body. An empty body decodes to the zero value.
func decodeBody(body io.Reader, v any) error {
	if body == nil {
		return nil
	}
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
