// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package algorithms

import (
	"context"
	"errors"
	"strconv"
)

// Algorithm names as used in artifacts, routes and metrics.
const (
	NamePM  = "pm"
	NameSPM = "spm"
)

// Data-absence errors returned by the rankers. Callers translate them into
// structured "no result" responses.
var (
	// ErrNoValidCourses means the target sequence is empty after filtering.
	ErrNoValidCourses = errors.New("student has no valid courses to analyze")

	// ErrNoReferenceCohort means a PM model holds no successful students.
	ErrNoReferenceCohort = errors.New("no successful students in the model")

	// ErrNoPatterns means an SPM model holds no patterns.
	ErrNoPatterns = errors.New("model contains no patterns")
)

// Messages attached to empty recommendation lists.
const (
	MsgNoSimilarCandidates = "no candidates found: the next term of similar trajectories only holds completed courses"
	MsgNoPatternMatch      = "no patterns with a sufficient full match or no candidates"
)

// formatFloat renders a float without trailing zeros for reason strings.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
