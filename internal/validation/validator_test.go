// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package validation

import (
	"strings"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

// hasError reports whether err holds a failure on field with tag.
func hasError(err *RequestValidationError, field, tag string) bool {
	if err == nil {
		return false
	}
	for _, e := range err.Errors() {
		if e.Field() == field && e.Tag() == tag {
			return true
		}
	}
	return false
}

func TestRecommendRequest(t *testing.T) {
	t.Parallel()

	valid := RecommendRequest{Algorithm: "pm", StudentID: 42}

	tests := []struct {
		name      string
		mutate    func(r *RecommendRequest)
		wantField string
		wantTag   string
	}{
		{name: "minimal", mutate: func(r *RecommendRequest) {}},
		{name: "all options", mutate: func(r *RecommendRequest) {
			r.Algorithm = "spm"
			r.DegreeID = "2491"
			r.K = 10
			r.MinSim = floatPtr(0)
			r.MinMatchedLen = 2
		}},
		{
			name:      "unknown algorithm",
			mutate:    func(r *RecommendRequest) { r.Algorithm = "knn" },
			wantField: "Algorithm", wantTag: "oneof",
		},
		{
			name:      "missing student",
			mutate:    func(r *RecommendRequest) { r.StudentID = 0 },
			wantField: "student_id", wantTag: "required",
		},
		{
			name:      "negative student",
			mutate:    func(r *RecommendRequest) { r.StudentID = -3 },
			wantField: "student_id", wantTag: "min",
		},
		{
			name:      "k too large",
			mutate:    func(r *RecommendRequest) { r.K = 101 },
			wantField: "k", wantTag: "max",
		},
		{
			name:      "similarity above one",
			mutate:    func(r *RecommendRequest) { r.MinSim = floatPtr(1.5) },
			wantField: "min_sim", wantTag: "lte",
		},
		{
			name:      "degree with control characters",
			mutate:    func(r *RecommendRequest) { r.DegreeID = "24\n91" },
			wantField: "degree_id", wantTag: "printascii",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := valid
			tt.mutate(&req)
			err := ValidateStruct(&req)

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if !hasError(err, tt.wantField, tt.wantTag) {
				t.Errorf("expected error on %s/%s, got %v", tt.wantField, tt.wantTag, err)
			}
		})
	}
}

func TestTrainRequest(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"pm", "spm", "all"} {
		if err := ValidateStruct(&TrainRequest{Algorithm: alg}); err != nil {
			t.Errorf("ValidateStruct(%q) = %v, want nil", alg, err)
		}
	}
	if err := ValidateStruct(&TrainRequest{Algorithm: "ALL"}); !hasError(err, "Algorithm", "oneof") {
		t.Errorf("expected oneof error for ALL, got %v", err)
	}
}

func TestSubjectsRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		subjects  []map[string]any
		wantField string
		wantTag   string
	}{
		{
			name:     "valid",
			subjects: []map[string]any{{"code": "MAT101", "status": "APR", "grade": 90}},
		},
		{
			name:     "numeric code",
			subjects: []map[string]any{{"code": 101}},
		},
		{
			name:      "missing subjects",
			subjects:  nil,
			wantField: "subjects", wantTag: "required",
		},
		{
			name:      "empty code",
			subjects:  []map[string]any{{"code": "MAT101"}, {"code": "  "}},
			wantField: "subjects[1]", wantTag: "subject",
		},
		{
			name:      "no code key",
			subjects:  []map[string]any{{"status": "APR"}},
			wantField: "subjects[0]", wantTag: "subject",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&SubjectsRequest{Subjects: tt.subjects})
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if !hasError(err, tt.wantField, tt.wantTag) {
				t.Errorf("expected error on %s/%s, got %v", tt.wantField, tt.wantTag, err)
			}
		})
	}
}

func TestLogsQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   LogsQuery
		wantErr bool
	}{
		{"empty", LogsQuery{}, false},
		{"full", LogsQuery{Algorithm: "SPM", StartDay: "2026-03-01", EndDay: "2026-03-31", Limit: 10}, false},
		{"timestamp instead of day", LogsQuery{StartDay: "2026-03-01T10:00:00Z"}, true},
		{"slashes", LogsQuery{EndDay: "2026/03/01"}, true},
		{"unknown algorithm", LogsQuery{Algorithm: "knn"}, true},
		{"limit too large", LogsQuery{Limit: 5000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogsQuery_Days(t *testing.T) {
	t.Parallel()

	start, end := LogsQuery{StartDay: "2026-03-05"}.Days()
	if want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if !end.IsZero() {
		t.Errorf("end = %v, want zero", end)
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&RecommendRequest{Algorithm: "pm", StudentID: 1, K: 500})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "k must be at most 100" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "k must be at most 100")
	}
	if apiErr.Details["field"] != "k" {
		t.Errorf("Details[field] = %v, want k", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&RecommendRequest{Algorithm: "x", StudentID: 0})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("len(fields) = %d, want 2", len(fields))
	}
	if !strings.Contains(apiErr.Message, "Algorithm must be one of: pm spm") {
		t.Errorf("Message = %q, want the oneof message", apiErr.Message)
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()

	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Message != "Validation failed" {
		t.Errorf("Message = %q, want Validation failed", apiErr.Message)
	}
}

// Structs without json tags report Go field names.
func TestFieldNames_NoJSONTags(t *testing.T) {
	t.Parallel()

	type settings struct {
		TopK int `validate:"min=1"`
	}
	err := ValidateStruct(&settings{})
	if !hasError(err, "TopK", "min") {
		t.Errorf("expected TopK/min, got %v", err)
	}
}

func TestStudentPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      StudentPath
		wantField string
	}{
		{"valid", StudentPath{DegreeID: "2491", StudentID: 7}, ""},
		{"missing degree", StudentPath{StudentID: 7}, "degree_id"},
		{"zero student", StudentPath{DegreeID: "2491"}, "student_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.path)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if !hasError(err, tt.wantField, "required") {
				t.Errorf("expected required error on %s, got %v", tt.wantField, err)
			}
		})
	}
}

func TestRequirementsRequest(t *testing.T) {
	t.Parallel()

	group := func(codes ...string) RequirementGroupRequest {
		g := RequirementGroupRequest{ID: "1", Min: 1}
		for _, c := range codes {
			g.Subjects = append(g.Subjects, RequiredSubjectRequest{Code: c})
		}
		return g
	}

	tests := []struct {
		name      string
		req       RequirementsRequest
		wantField string
		wantTag   string
	}{
		{name: "no requirements", req: RequirementsRequest{}},
		{name: "partial and total", req: RequirementsRequest{
			PartialRequirements: []RequirementGroupRequest{group("MAT101")},
			TotalRequirements:   []RequirementGroupRequest{group("MAT102", "FIS101")},
			Standing:            3,
		}},
		{
			name:      "group without subjects",
			req:       RequirementsRequest{TotalRequirements: []RequirementGroupRequest{{ID: "1", Min: 1}}},
			wantField: "subjects", wantTag: "required",
		},
		{
			name:      "subject without code",
			req:       RequirementsRequest{PartialRequirements: []RequirementGroupRequest{group("")}},
			wantField: "code", wantTag: "required",
		},
		{
			name:      "negative minimum",
			req:       RequirementsRequest{TotalRequirements: []RequirementGroupRequest{{ID: "1", Min: -1, Subjects: group("A").Subjects}}},
			wantField: "min", wantTag: "gte",
		},
		{
			name:      "negative standing",
			req:       RequirementsRequest{Standing: -2},
			wantField: "standing", wantTag: "gte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if !hasError(err, tt.wantField, tt.wantTag) {
				t.Errorf("expected %s error on %s, got %v", tt.wantTag, tt.wantField, err)
			}
		})
	}
}

func TestDegreeRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       DegreeRequest
		wantField string
		wantTag   string
	}{
		{name: "plan only", req: DegreeRequest{Plan: "2008"}},
		{name: "with subjects", req: DegreeRequest{Plan: "2008", Subjects: []DegreeSubjectRequest{
			{ID: 1, Code: "MAT101", Name: "Calculus I", Semester: 1},
			{ID: 2, Name: "Calculus II", Semester: 2, SubjectIDs: []int{1}},
		}}},
		{name: "missing plan", req: DegreeRequest{Degree: "Systems"}, wantField: "plan", wantTag: "required"},
		{
			name:      "subject without name",
			req:       DegreeRequest{Plan: "2008", Subjects: []DegreeSubjectRequest{{ID: 1, Semester: 1}}},
			wantField: "name", wantTag: "required",
		},
		{
			name:      "negative semester",
			req:       DegreeRequest{Plan: "2008", Subjects: []DegreeSubjectRequest{{Name: "A", Semester: -1}}},
			wantField: "semester", wantTag: "gte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if !hasError(err, tt.wantField, tt.wantTag) {
				t.Errorf("expected %s error on %s, got %v", tt.wantTag, tt.wantField, err)
			}
		})
	}
}

func TestSubjectPath(t *testing.T) {
	t.Parallel()

	if err := ValidateStruct(&SubjectPath{Code: "MAT101"}); err != nil {
		t.Errorf("catalog path: ValidateStruct() = %v, want nil", err)
	}
	if err := ValidateStruct(&SubjectPath{DegreeID: "2491", Code: "MAT101"}); err != nil {
		t.Errorf("degree path: ValidateStruct() = %v, want nil", err)
	}
	if err := ValidateStruct(&SubjectPath{DegreeID: "2491"}); !hasError(err, "code", "required") {
		t.Errorf("expected required error on code, got %v", err)
	}
}
