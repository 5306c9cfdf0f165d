// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/middleware"
	"github.com/tomtom215/coursepath/internal/recommend"
	"github.com/tomtom215/coursepath/internal/studentstore"
	"github.com/tomtom215/coursepath/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrCodeNoData             = "NO_DATA"
	ErrCodeModelNotLoaded     = "MODEL_NOT_LOADED"
	ErrCodeUnknownAlgorithm   = "UNKNOWN_ALGORITHM"
	ErrCodeTrainingInProgress = "TRAINING_IN_PROGRESS"
	ErrCodeNoPlanChanges      = "NO_PLAN_CHANGES"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeUnavailable        = "SERVICE_UNAVAILABLE"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Code      string         `json:"code"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// respondJSON writes data as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error","code":"INTERNAL_ERROR"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes an ErrorResponse.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	respondJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

// respondValidationError answers 400 with the validator's field details.
func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

// errorStatus maps a domain error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, recommend.ErrStudentNotFound), errors.Is(err, studentstore.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case recommend.IsDataAbsence(err):
		return http.StatusUnprocessableEntity, ErrCodeNoData
	case errors.Is(err, recommend.ErrModelNotLoaded):
		return http.StatusServiceUnavailable, ErrCodeModelNotLoaded
	case errors.Is(err, recommend.ErrUnknownAlgorithm):
		return http.StatusBadRequest, ErrCodeUnknownAlgorithm
	case errors.Is(err, recommend.ErrTrainingInProgress):
		return http.StatusConflict, ErrCodeTrainingInProgress
	case errors.Is(err, recommend.ErrTrainingThrottled):
		return http.StatusTooManyRequests, ErrCodeTooManyRequests
	case errors.Is(err, studentstore.ErrNoPlanChanges):
		return http.StatusConflict, ErrCodeNoPlanChanges
	case errors.Is(err, studentstore.ErrInvalidToken):
		return http.StatusBadRequest, ErrCodeInvalidToken
	case errors.Is(err, studentstore.ErrInvalidKey):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	case errors.Is(err, studentstore.ErrStoreClosed), errors.Is(err, recommend.ErrNoDataProvider):
		return http.StatusServiceUnavailable, ErrCodeUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondDomainError maps err with errorStatus. Unexpected errors are logged
// and their text is not sent to the client.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		message = "internal server error"
	}
	respondError(w, r, status, code, message, nil)
}

// decodeJSON reads a JSON request body into target. An empty body leaves
// target untouched when allowEmpty is set.
func decodeJSON(r *http.Request, target any, allowEmpty bool) error {
	if r.Body == nil || r.Body == http.NoBody {
		if allowEmpty {
			return nil
		}
		return errEmptyBody
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if allowEmpty {
			return nil
		}
		return errEmptyBody
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(target)
}

// respondDecodeError answers a body that could not be decoded.
func respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large", nil)
		return
	}
	if errors.Is(err, errEmptyBody) {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "request body is required", nil)
		return
	}
	respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body", nil)
}
