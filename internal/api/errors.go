// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import "errors"

var (
	// errEmptyBody is returned by decodeJSON when a required body is missing.
	errEmptyBody = errors.New("request body is required")

	// ErrTrainingDisabled is returned when no training trigger is wired.
	ErrTrainingDisabled = errors.New("manual training is not available")

	// ErrCatalogDisabled is returned when no subject catalog is wired.
	ErrCatalogDisabled = errors.New("subject catalog is not available")
)
