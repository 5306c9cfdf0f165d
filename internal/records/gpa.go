// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package records

import "math"

// MaxGPA is the top of the 0-4 GPA scale.
const MaxGPA = 4.0

// GradeToGPA maps a 0-100 grade onto the 0-4 scale, clamped.
func GradeToGPA(grade float64) float64 {
	gpa := grade / 100.0 * MaxGPA
	if gpa < 0 {
		return 0
	}
	if gpa > MaxGPA {
		return MaxGPA
	}
	return gpa
}

// GPAToGrade maps a 0-4 GPA back onto the 0-100 scale.
func GPAToGrade(gpa float64) float64 {
	return gpa / MaxGPA * 100.0
}

// Round rounds v to the given number of decimals, half away from zero.
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
