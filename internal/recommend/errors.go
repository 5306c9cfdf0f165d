// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package recommend

import (
	"errors"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
)

var (
	// ErrStudentNotFound is returned when the requested student has no record.
	ErrStudentNotFound = errors.New("student not found")

	// ErrEmptyPopulation is returned when training finds no usable student.
	ErrEmptyPopulation = errors.New("no students available for training")

	// ErrNoSuccessfulStudents is returned when no student reaches the PM GPA threshold.
	ErrNoSuccessfulStudents = errors.New("no successful students with the current threshold")

	// ErrNoSequences is returned when no student has courses that pass the SPM filter.
	ErrNoSequences = errors.New("no sequences available for pattern mining")

	// ErrTrainingInProgress is returned when a training run is already active.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrTrainingThrottled is returned when a manual training run is requested
	// again before the trigger cooldown elapsed.
	ErrTrainingThrottled = errors.New("training was triggered too recently")

	// ErrUnknownAlgorithm is returned for an algorithm name nobody registered.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrModelNotLoaded is returned when no artifact exists for an algorithm and degree.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrNoDataProvider is returned when the engine has no data source.
	ErrNoDataProvider = errors.New("data provider not set")
)

// Ranker data-absence errors, re-exported so callers need only this package.
var (
	ErrNoValidCourses    = algorithms.ErrNoValidCourses
	ErrNoReferenceCohort = algorithms.ErrNoReferenceCohort
	ErrNoPatterns        = algorithms.ErrNoPatterns
)

// IsDataAbsence reports whether err means "nothing to recommend from"
// rather than a failure.
func IsDataAbsence(err error) bool {
	return errors.Is(err, ErrNoValidCourses) ||
		errors.Is(err, ErrNoReferenceCohort) ||
		errors.Is(err, ErrNoPatterns)
}
