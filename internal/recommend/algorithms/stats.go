// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package algorithms

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/coursepath/internal/records"
)

// CourseStat aggregates one course over a reference population.
type CourseStat struct {
	// AvgGrade is the mean GPA (0-4) over occurrences, 3 decimals.
	AvgGrade float64 `json:"avg_grade"`

	// AdoptionRate is the share of the population that took the course, 6 decimals.
	AdoptionRate float64 `json:"adoption_rate"`

	// Count is the number of occurrences.
	Count int `json:"count"`
}

// CourseStats maps course code to its aggregate.
type CourseStats map[string]CourseStat

// StatsAccumulator builds CourseStats in a single pass over a population.
// The zero value is not usable; call NewStatsAccumulator.
type StatsAccumulator struct {
	count      map[string]int
	gradeSum   map[string]float64
	students   map[string]int
	population int
}

// NewStatsAccumulator returns an empty accumulator.
func NewStatsAccumulator() *StatsAccumulator {
	return &StatsAccumulator{
		count:    make(map[string]int),
		gradeSum: make(map[string]float64),
		students: make(map[string]int),
	}
}

// Add records one member of the population. gpaByCourse holds 0-4 grades;
// a course without an entry contributes grade 0.
func (a *StatsAccumulator) Add(seq records.TermSequence, gpaByCourse map[string]float64) {
	seen := make(map[string]struct{})
	for _, term := range seq {
		for _, c := range term {
			a.count[c]++
			a.gradeSum[c] += gpaByCourse[c]
			seen[c] = struct{}{}
		}
	}
	for c := range seen {
		a.students[c]++
	}
	a.population++
}

// Population returns how many members were added.
func (a *StatsAccumulator) Population() int {
	return a.population
}

// Stats returns the accumulated course statistics.
func (a *StatsAccumulator) Stats() CourseStats {
	pop := max(1, a.population)
	stats := make(CourseStats, len(a.count))
	for c, n := range a.count {
		stats[c] = CourseStat{
			AvgGrade:     records.Round(a.gradeSum[c]/float64(max(1, n)), 3),
			AdoptionRate: records.Round(float64(a.students[c])/float64(pop), 6),
			Count:        n,
		}
	}
	return stats
}

// ComputeCourseStats aggregates a PM reference cohort.
func ComputeCourseStats(cohort []records.Trajectory) CourseStats {
	acc := NewStatsAccumulator()
	for i := range cohort {
		acc.Add(cohort[i].Terms, cohort[i].Grades)
	}
	return acc.Stats()
}

// Codes returns the course codes in sorted order.
func (s CourseStats) Codes() []string {
	codes := make([]string, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// OverallAvgGrade is the plain mean of the per-course averages, 0 when empty.
func (s CourseStats) OverallAvgGrade() float64 {
	if len(s) == 0 {
		return 0
	}
	grades := make([]float64, 0, len(s))
	for _, c := range s.Codes() {
		grades = append(grades, s[c].AvgGrade)
	}
	return stat.Mean(grades, nil)
}

// AdoptionWeightedGPA averages course grades weighted by adoption rate,
// falling back to the plain mean when every weight is zero. 3 decimals.
func (s CourseStats) AdoptionWeightedGPA() float64 {
	if len(s) == 0 {
		return 0
	}
	codes := s.Codes()
	grades := make([]float64, len(codes))
	weights := make([]float64, len(codes))
	var weightSum float64
	for i, c := range codes {
		grades[i] = s[c].AvgGrade
		weights[i] = s[c].AdoptionRate
		weightSum += weights[i]
	}
	if weightSum <= 0 {
		return records.Round(stat.Mean(grades, nil), 3)
	}
	return records.Round(stat.Mean(grades, weights), 3)
}
