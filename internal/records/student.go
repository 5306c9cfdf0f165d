// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package records

// Student is one stored student record after parsing: the identifier and the
// raw attempts as they came from storage, not yet normalized.
type Student struct {
	ID       int          `json:"id"`
	Attempts []RawAttempt `json:"attempts"`
}

// NewStudent parses stored subject maps into a Student.
func NewStudent(id int, subjects []map[string]any) Student {
	return Student{ID: id, Attempts: ParseAttempts(subjects)}
}
