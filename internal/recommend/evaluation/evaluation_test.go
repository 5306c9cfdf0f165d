// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package evaluation

import (
	"math"

	"github.com/tomtom215/coursepath/internal/records"
)

func seq(terms ...[]string) records.TermSequence {
	return records.TermSequence(terms)
}

func term(codes ...string) []string {
	return codes
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

// trajectory builds a student where every course earned the same grade.
func trajectory(id int, gpa float64, terms records.TermSequence) records.Trajectory {
	grades := make(map[string]float64)
	for _, t := range terms {
		for _, c := range t {
			grades[c] = gpa
		}
	}
	return records.Trajectory{StudentID: id, Terms: terms, Grades: grades, GPA: gpa}
}
