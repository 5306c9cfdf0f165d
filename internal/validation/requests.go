// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package validation

import "time"

// DayLayout is the calendar-day format accepted by the logs endpoint.
const DayLayout = "2006-01-02"

// RecommendRequest is the body of POST /api/v1/recommendations/{algorithm}.
// Algorithm comes from the path.
type RecommendRequest struct {
	Algorithm     string   `json:"-" validate:"required,oneof=pm spm"`
	StudentID     int      `json:"student_id" validate:"required,min=1"`
	DegreeID      string   `json:"degree_id,omitempty" validate:"omitempty,max=64,printascii"`
	K             int      `json:"k,omitempty" validate:"omitempty,min=1,max=100"`
	MinSim        *float64 `json:"min_sim,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinMatchedLen int      `json:"min_matched_len,omitempty" validate:"omitempty,min=1,max=50"`
}

// TrainRequest names the algorithm and degree of a manual training run.
type TrainRequest struct {
	Algorithm string `json:"-" validate:"required,oneof=pm spm all"`
	DegreeID  string `json:"degree_id,omitempty" validate:"omitempty,max=64,printascii"`
}

// StudentPath holds the path parameters of the student endpoints.
type StudentPath struct {
	DegreeID  string `json:"degree_id" validate:"required,max=64,printascii"`
	StudentID int    `json:"student_id" validate:"required,min=1"`
}

// StudentsQuery holds the query parameters of the student listing.
type StudentsQuery struct {
	Limit int    `json:"limit" validate:"omitempty,min=1,max=1000"`
	Token string `json:"token" validate:"omitempty,max=512"`
}

// SubjectsRequest is the body of the student record and plan PUT endpoints.
type SubjectsRequest struct {
	Subjects []map[string]any `json:"subjects" validate:"required,min=1,max=500,dive,subject"`
}

// LogsQuery holds the query parameters of the logs endpoint.
type LogsQuery struct {
	Algorithm string `json:"algorithm" validate:"omitempty,oneof=pm spm PM SPM"`
	StartDay  string `json:"start_day" validate:"omitempty,datetime=2006-01-02"`
	EndDay    string `json:"end_day" validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=1000"`
}

// Days parses the validated day bounds. Empty bounds are returned as zero
// times.
func (q LogsQuery) Days() (start, end time.Time) {
	if q.StartDay != "" {
		start, _ = time.Parse(DayLayout, q.StartDay)
	}
	if q.EndDay != "" {
		end, _ = time.Parse(DayLayout, q.EndDay)
	}
	return start, end
}

// SubjectPath identifies a catalog subject, optionally inside a degree.
type SubjectPath struct {
	DegreeID string `json:"degree_id" validate:"omitempty,max=64,printascii"`
	Code     string `json:"code" validate:"required,max=32,printascii"`
}

// DegreePath identifies a degree.
type DegreePath struct {
	DegreeID string `json:"degree_id" validate:"required,max=64,printascii"`
}

// SubjectRequest is the body of PUT /api/v1/subjects/{code}.
type SubjectRequest struct {
	Name string `json:"name" validate:"required,max=256"`
}

// RequiredSubjectRequest is one member of a requirement group.
type RequiredSubjectRequest struct {
	Code string `json:"code" validate:"required,max=32,printascii"`
	Name string `json:"name,omitempty" validate:"omitempty,max=256"`
	Type string `json:"type,omitempty" validate:"omitempty,max=32"`
}

// RequirementGroupRequest is satisfied when at least Min subjects are.
type RequirementGroupRequest struct {
	ID       string                   `json:"id" validate:"required,max=32"`
	Min      int                      `json:"min" validate:"gte=0"`
	Subjects []RequiredSubjectRequest `json:"subjects" validate:"required,min=1,max=100,dive"`
}

// RequirementsRequest is the body of
// PUT /api/v1/degrees/{degreeID}/subjects/{code}/requirements.
type RequirementsRequest struct {
	Name                string                    `json:"name,omitempty" validate:"omitempty,max=256"`
	PartialRequirements []RequirementGroupRequest `json:"partial_requirements" validate:"max=50,dive"`
	TotalRequirements   []RequirementGroupRequest `json:"total_requirements" validate:"max=50,dive"`
	Standing            int                       `json:"standing" validate:"gte=0"`
}

// DegreeSubjectRequest is a subject of a degree plan.
type DegreeSubjectRequest struct {
	ID         int     `json:"id,omitempty" validate:"gte=0"`
	Code       string  `json:"code,omitempty" validate:"omitempty,max=32,printascii"`
	Name       string  `json:"name" validate:"required,max=256"`
	Semester   float64 `json:"semester" validate:"gte=0"`
	SubjectIDs []int   `json:"subject_ids,omitempty" validate:"max=100"`
}

// DegreeRequest is the body of PUT /api/v1/degrees/{degreeID}.
type DegreeRequest struct {
	University string                 `json:"university,omitempty" validate:"omitempty,max=256"`
	Degree     string                 `json:"degree,omitempty" validate:"omitempty,max=256"`
	Plan       string                 `json:"plan" validate:"required,max=64"`
	Subjects   []DegreeSubjectRequest `json:"subjects" validate:"max=500,dive"`
}
