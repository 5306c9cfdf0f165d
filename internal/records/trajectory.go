// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package records

import "strings"

// Trajectory is one student's approved history as used for PM training.
type Trajectory struct {
	StudentID int                `json:"student_id"`
	Terms     TermSequence       `json:"subjects_by_term"`
	Grades    map[string]float64 `json:"grades_by_subject"`
	GPA       float64            `json:"gpa"`
}

// ApprovedOnly keeps approved attempts.
func ApprovedOnly(a NormalizedAttempt) bool {
	return a.Status == StatusApproved
}

// SPMFilter keeps attempts whose status is in statuses (any status when the
// list is empty) and whose grade, missing counted as 0, is at least gradeMin.
func SPMFilter(statuses []string, gradeMin float64) AttemptFilter {
	allowed := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			allowed[s] = struct{}{}
		}
	}
	return func(a NormalizedAttempt) bool {
		if len(allowed) > 0 {
			if _, ok := allowed[a.Status]; !ok {
				return false
			}
		}
		return a.GradeOrZero() >= gradeMin
	}
}

// WeightedGPA returns the attempt-weighted GPA over attempts with a grade.
// Each attempt weighs 1 + Attempts. The result is rounded to 3 decimals and is
// 0 when no attempt has a grade.
func WeightedGPA(attempts []NormalizedAttempt) float64 {
	var sum, weights float64
	for _, a := range attempts {
		if a.Grade == nil {
			continue
		}
		w := 1.0 + float64(a.Attempts)
		sum += GradeToGPA(*a.Grade) * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return Round(sum/weights, 3)
}

// BuildTrajectory runs the record pipeline for one student and keeps approved
// courses only. ok is false when the student has no approved course.
func BuildTrajectory(studentID int, raw []RawAttempt, extractors []DateExtractor) (Trajectory, bool) {
	normalized := Normalize(raw)
	terms := AssignTerms(normalized, extractors)
	seq, placed := Sequence(terms, ApprovedOnly)
	if len(placed) == 0 {
		return Trajectory{}, false
	}

	grades := make(map[string]float64, len(placed))
	for code, a := range placed {
		grades[code] = GradeToGPA(a.GradeOrZero())
	}

	approved := make([]NormalizedAttempt, 0, len(placed))
	for _, a := range normalized {
		if ApprovedOnly(a) {
			approved = append(approved, a)
		}
	}

	return Trajectory{
		StudentID: studentID,
		Terms:     seq,
		Grades:    grades,
		GPA:       WeightedGPA(approved),
	}, true
}

// BuildSequence runs the record pipeline for one student and keeps attempts
// accepted by keep. Grades (0-100, missing as 0) of the kept attempts are
// returned alongside the sequence.
func BuildSequence(raw []RawAttempt, keep AttemptFilter, extractors []DateExtractor) (TermSequence, map[string]float64) {
	terms := AssignTerms(Normalize(raw), extractors)
	seq, placed := Sequence(terms, keep)
	grades := make(map[string]float64, len(placed))
	for code, a := range placed {
		grades[code] = a.GradeOrZero()
	}
	return seq, grades
}
