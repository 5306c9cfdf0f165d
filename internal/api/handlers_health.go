// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/coursepath/internal/metrics"
)

// readinessTimeout bounds the store ping of the readiness probe.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests. It only reports that the
// process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)
	respondJSON(w, http.StatusOK, map[string]any{
		"alive":  true,
		"uptime": uptime,
	})
}

// HealthReady handles readiness probe requests. The service is ready when
// the student store answers. Loaded models are reported but not required:
// a fresh deployment has none until its first training run.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	storeOK := h.store != nil && h.store.Ping(ctx) == nil

	statusCode := http.StatusOK
	status := "ready"
	if !storeOK {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, map[string]any{
		"status":          status,
		"store_connected": storeOK,
		"models_loaded":   h.engine.IsReady(),
		"uptime":          time.Since(h.startTime).Seconds(),
	})
}
