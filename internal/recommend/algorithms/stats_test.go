// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package algorithms

import (
	"math"
	"testing"

	"github.com/tomtom215/coursepath/internal/records"
)

func TestComputeCourseStats(t *testing.T) {
	t.Parallel()

	cohort := []records.Trajectory{
		{StudentID: 1, Terms: seq(term("A"), term("B")), Grades: map[string]float64{"A": 4, "B": 3}},
		{StudentID: 2, Terms: seq(term("A", "C")), Grades: map[string]float64{"A": 3}},
		{StudentID: 3, Terms: seq(term("D")), Grades: map[string]float64{"D": 2.5}},
		{StudentID: 4, Terms: seq(term("A")), Grades: map[string]float64{"A": 2}},
	}

	stats := ComputeCourseStats(cohort)
	tests := []struct {
		code string
		want CourseStat
	}{
		{"A", CourseStat{AvgGrade: 3, AdoptionRate: 0.75, Count: 3}},
		{"B", CourseStat{AvgGrade: 3, AdoptionRate: 0.25, Count: 1}},
		{"C", CourseStat{AvgGrade: 0, AdoptionRate: 0.25, Count: 1}},
		{"D", CourseStat{AvgGrade: 2.5, AdoptionRate: 0.25, Count: 1}},
	}
	for _, tt := range tests {
		if got := stats[tt.code]; got != tt.want {
			t.Errorf("stats[%s] = %+v, want %+v", tt.code, got, tt.want)
		}
	}
}

func TestCourseStats_Baselines(t *testing.T) {
	t.Parallel()

	stats := CourseStats{
		"A": {AvgGrade: 4, AdoptionRate: 0.75},
		"B": {AvgGrade: 2, AdoptionRate: 0.25},
	}
	if got := stats.AdoptionWeightedGPA(); got != 3.5 {
		t.Errorf("AdoptionWeightedGPA() = %v, want 3.5", got)
	}
	if got := stats.OverallAvgGrade(); math.Abs(got-3) > 1e-12 {
		t.Errorf("OverallAvgGrade() = %v, want 3", got)
	}

	unweighted := CourseStats{"A": {AvgGrade: 4}, "B": {AvgGrade: 3}}
	if got := unweighted.AdoptionWeightedGPA(); got != 3.5 {
		t.Errorf("AdoptionWeightedGPA() without adoption = %v, want 3.5", got)
	}

	if got := (CourseStats{}).AdoptionWeightedGPA(); got != 0 {
		t.Errorf("AdoptionWeightedGPA() on empty stats = %v, want 0", got)
	}
}
