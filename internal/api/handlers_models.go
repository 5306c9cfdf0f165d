// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/recommend/storage"
	"github.com/tomtom215/coursepath/internal/validation"
)

// ModelsResponse is the body of GET /api/v1/models.
type ModelsResponse struct {
	Models []storage.ModelMetadata `json:"models"`
	Count  int                     `json:"count"`
}

// ListModels handles GET /api/v1/models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.engine.ListModels(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if models == nil {
		models = []storage.ModelMetadata{}
	}
	respondJSON(w, http.StatusOK, ModelsResponse{Models: models, Count: len(models)})
}

// TrainAccepted is the body of an accepted training trigger.
type TrainAccepted struct {
	Message   string `json:"message"`
	Algorithm string `json:"algorithm"`
	DegreeID  string `json:"degree_id"`
}

// TriggerTraining handles POST /api/v1/models/{algorithm}/train. The run
// happens in the background; progress is reported by the status endpoint.
func (h *Handler) TriggerTraining(w http.ResponseWriter, r *http.Request) {
	var req validation.TrainRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	req.Algorithm = strings.ToLower(chi.URLParam(r, "algorithm"))

	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	if h.trainer == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, ErrTrainingDisabled.Error(), nil)
		return
	}

	degreeID := h.degreeOrDefault(req.DegreeID)
	if err := h.trainer.Trigger(req.Algorithm, degreeID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("algorithm", req.Algorithm).
		Str("degree_id", degreeID).
		Msg("Manual training triggered")

	respondJSON(w, http.StatusAccepted, TrainAccepted{
		Message:   "training started",
		Algorithm: req.Algorithm,
		DegreeID:  degreeID,
	})
}
