// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package records

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestParseAttempt(t *testing.T) {
	t.Parallel()

	var m map[string]any
	dec := json.NewDecoder(strings.NewReader(`{
		"code": " mat101 ",
		"status": "APR",
		"resultType": "T",
		"source": "por examen",
		"grade": 87.5,
		"semester": "2",
		"attempts": 2,
		"date": "12/07/2021",
		"completedAt": null
	}`))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	a := ParseAttempt(m)
	if a.NormalizedCode() != "MAT101" {
		t.Errorf("NormalizedCode() = %q, want MAT101", a.NormalizedCode())
	}
	if a.ResultType != "T" {
		t.Errorf("ResultType = %q, want T", a.ResultType)
	}
	if a.ResultSource != "por examen" {
		t.Errorf("ResultSource = %q, want fallback from source", a.ResultSource)
	}
	if a.Grade == nil || *a.Grade != 87.5 {
		t.Errorf("Grade = %v, want 87.5", a.Grade)
	}
	if a.SemesterOrDefault() != 2 {
		t.Errorf("SemesterOrDefault() = %d, want 2", a.SemesterOrDefault())
	}
	if a.ReportedAttempts != 2 {
		t.Errorf("ReportedAttempts = %d, want 2", a.ReportedAttempts)
	}
	if want := map[string]string{"date": "12/07/2021"}; !reflect.DeepEqual(a.Dates, want) {
		t.Errorf("Dates = %v, want %v", a.Dates, want)
	}
}

func TestParseAttempt_MalformedFields(t *testing.T) {
	t.Parallel()

	a := ParseAttempt(map[string]any{
		"code":     1234.0,
		"status":   "APR",
		"grade":    "not a number",
		"semester": []any{"x"},
		"date":     "yesterday",
	})

	if a.Code != "1234" {
		t.Errorf("Code = %q, want 1234", a.Code)
	}
	if a.Grade != nil {
		t.Errorf("Grade = %v, want nil", *a.Grade)
	}
	if a.GradeOrZero() != 0 {
		t.Errorf("GradeOrZero() = %v, want 0", a.GradeOrZero())
	}
	if a.SemesterOrDefault() != 1 {
		t.Errorf("SemesterOrDefault() = %d, want 1", a.SemesterOrDefault())
	}
	if _, ok := firstDate(a, DefaultDateExtractors); ok {
		t.Error("firstDate() ok = true, want false for unparseable date")
	}
}

func TestGradeToGPA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		grade float64
		want  float64
	}{
		{grade: 0, want: 0},
		{grade: 50, want: 2},
		{grade: 90, want: 3.6},
		{grade: 100, want: 4},
		{grade: 120, want: 4},
		{grade: -5, want: 0},
	}
	for _, tt := range tests {
		if got := GradeToGPA(tt.grade); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("GradeToGPA(%v) = %v, want %v", tt.grade, got, tt.want)
		}
	}
}

func TestBuildTrajectory(t *testing.T) {
	t.Parallel()

	raw := []RawAttempt{
		{Code: "a", Status: "APR", ResultType: "T", Grade: f64(90), Semester: f64(1)},
		{Code: "b", Status: "APR", ResultType: "T", Grade: f64(80), Semester: f64(1)},
		{Code: "c", Status: "REP", ResultType: "T", ResultSource: "por examen", Grade: f64(20), Semester: f64(2)},
		{Code: "c", Status: "APR", ResultType: "T", ResultSource: "por examen", Grade: f64(70), Semester: f64(3)},
		{Code: "d", Status: "REV", ResultType: "T", Grade: f64(100), Semester: f64(2)},
	}

	tr, ok := BuildTrajectory(7, raw, nil)
	if !ok {
		t.Fatal("BuildTrajectory() ok = false, want true")
	}
	if tr.StudentID != 7 {
		t.Errorf("StudentID = %d, want 7", tr.StudentID)
	}
	if want := (TermSequence{{"A", "B"}, {"C"}}); !reflect.DeepEqual(tr.Terms, want) {
		t.Errorf("Terms = %v, want %v", tr.Terms, want)
	}
	if got := tr.Grades["C"]; math.Abs(got-2.8) > 1e-9 {
		t.Errorf("Grades[C] = %v, want 2.8", got)
	}

	// A and B weigh 1, C weighs 1+2 exam attempts: (3.6 + 3.2 + 2.8*3) / 5.
	if tr.GPA != 3.04 {
		t.Errorf("GPA = %v, want 3.04", tr.GPA)
	}
}

func TestBuildTrajectory_NoApprovedCourses(t *testing.T) {
	t.Parallel()

	raw := []RawAttempt{
		{Code: "a", Status: "REV", ResultType: "T"},
		{Code: "b", Status: "REP", ResultType: "T"},
	}
	if _, ok := BuildTrajectory(1, raw, nil); ok {
		t.Error("BuildTrajectory() ok = true, want false")
	}
}

func TestSPMFilter(t *testing.T) {
	t.Parallel()

	keep := SPMFilter([]string{" apr "}, 86)
	tests := []struct {
		name string
		a    NormalizedAttempt
		want bool
	}{
		{"approved above threshold", NormalizedAttempt{RawAttempt: RawAttempt{Status: "APR", Grade: f64(90)}}, true},
		{"approved at threshold", NormalizedAttempt{RawAttempt: RawAttempt{Status: "APR", Grade: f64(86)}}, true},
		{"approved below threshold", NormalizedAttempt{RawAttempt: RawAttempt{Status: "APR", Grade: f64(85.9)}}, false},
		{"missing grade", NormalizedAttempt{RawAttempt: RawAttempt{Status: "APR"}}, false},
		{"other status", NormalizedAttempt{RawAttempt: RawAttempt{Status: "REP", Grade: f64(99)}}, false},
	}
	for _, tt := range tests {
		if got := keep(tt.a); got != tt.want {
			t.Errorf("%s: keep() = %v, want %v", tt.name, got, tt.want)
		}
	}

	anyStatus := SPMFilter(nil, 0)
	if !anyStatus(NormalizedAttempt{RawAttempt: RawAttempt{Status: "REP"}}) {
		t.Error("empty status list should accept any status")
	}
}
