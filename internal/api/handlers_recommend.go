// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/middleware"
	"github.com/tomtom215/coursepath/internal/recommend"
	"github.com/tomtom215/coursepath/internal/validation"
)

// Recommend handles POST /api/v1/recommendations/{algorithm}.
//
// Body: {"student_id": 42, "degree_id": "2491", "k": 5, "min_sim": 0.7, "min_matched_len": 1}
//
// A student without usable history answers 422 with the reason; a missing
// model answers 503 until the first training run publishes one.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req validation.RecommendRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	req.Algorithm = strings.ToLower(chi.URLParam(r, "algorithm"))

	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		Algorithm:     req.Algorithm,
		StudentID:     req.StudentID,
		DegreeID:      h.degreeOrDefault(req.DegreeID),
		K:             req.K,
		MinSim:        req.MinSim,
		MinMatchedLen: req.MinMatchedLen,
		RequestID:     middleware.GetRequestID(r.Context()),
	})
	if err != nil {
		if recommend.IsDataAbsence(err) {
			logging.Ctx(r.Context()).Info().
				Str("algorithm", req.Algorithm).
				Int("student_id", req.StudentID).
				Str("reason", err.Error()).
				Msg("Nothing to recommend")
		}
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// StatusResponse is the body of GET /api/v1/recommendations/status.
type StatusResponse struct {
	Ready        bool                       `json:"ready"`
	Algorithms   []string                   `json:"algorithms"`
	Training     recommend.TrainingStatus   `json:"training"`
	Metrics      recommend.Metrics          `json:"metrics"`
	StoreBreaker string                     `json:"store_breaker,omitempty"`
	Performance  []middleware.EndpointStats `json:"performance"`
	Uptime       float64                    `json:"uptime_seconds"`
}

// Status handles GET /api/v1/recommendations/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status := StatusResponse{
		Ready:       h.engine.IsReady(),
		Algorithms:  h.engine.Algorithms(),
		Training:    h.engine.GetStatus(),
		Metrics:     h.engine.GetMetrics(),
		Performance: h.perfMon.GetStats(),
		Uptime:      time.Since(h.startTime).Seconds(),
	}
	if h.breaker != nil {
		status.StoreBreaker = h.breaker.State()
	}
	respondJSON(w, http.StatusOK, status)
}
