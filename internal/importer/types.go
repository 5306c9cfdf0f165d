// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package importer

import (
	"time"
)

// StudentRecord is one input record.
type StudentRecord struct {
	ID       int              `json:"id" validate:"required,min=1"`
	DegreeID string           `json:"degree_id,omitempty" validate:"omitempty,max=64,printascii"`
	Subjects []map[string]any `json:"subjects" validate:"required,min=1,max=500,dive,subject"`
}

// ImportStats holds statistics about an import operation.
type ImportStats struct {
	// Source names the imported file or stream.
	Source string `json:"source"`

	// TotalRecords is the number of input records, or 0 when the input is a
	// stream whose length is unknown until the end.
	TotalRecords int64 `json:"total_records"`

	// Processed counts records read, including skipped ones.
	Processed int64 `json:"processed"`

	// Imported counts records written to the store.
	Imported int64 `json:"imported"`

	// Skipped counts records that failed validation or were already
	// processed by a resumed import.
	Skipped int64 `json:"skipped"`

	// Errors counts records the store rejected.
	Errors int64 `json:"errors"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// DryRun indicates that nothing was written.
	DryRun bool `json:"dry_run"`
}

// Duration returns the duration of the import operation.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the import progress as a percentage (0-100). It is 0
// while the total is unknown.
func (s *ImportStats) Progress() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.TotalRecords) * 100
}

// RecordsPerSecond returns the import rate.
func (s *ImportStats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}
