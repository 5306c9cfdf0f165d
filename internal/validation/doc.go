// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator caches struct metadata, reports JSON
// field names for request bodies and registers the "subject" rule, which
// requires a stored subject map to carry a course code. The package also
// defines the request shapes of the HTTP API (RecommendRequest,
// TrainRequest, SubjectsRequest, LogsQuery); internal/config validates its
// settings through the same instance.
//
//	req := validation.RecommendRequest{Algorithm: "pm", StudentID: 42}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
