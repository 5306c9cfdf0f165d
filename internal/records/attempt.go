// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package records

import (
	"math"
	"strconv"
	"strings"
)

// Status codes with special meaning in the pipeline.
const (
	StatusApproved = "APR"
	StatusRevoked  = "REV"
	StatusExcluded = "RLI"
)

// Result types.
const (
	ResultTypeTotal   = "T"
	ResultTypePartial = "P"
)

// sourceByInstruction marks credit obtained by attending the course.
const sourceByInstruction = "por dictado"

// RawAttempt is one enrollment record as found in storage, parsed into typed
// fields. Fields that could not be parsed are left at their zero value or nil.
type RawAttempt struct {
	// Code is the course code exactly as stored (not normalized).
	Code string `json:"code"`

	// Name is the course display name.
	Name string `json:"name,omitempty"`

	// Status is the outcome code (APR, REV, RLI, ...).
	Status string `json:"status,omitempty"`

	// ResultType is T (total/final) or P (partial).
	ResultType string `json:"result_type,omitempty"`

	// ResultSource is free text such as "por dictado" or "por examen".
	ResultSource string `json:"result_source,omitempty"`

	// Grade is the 0-100 grade, nil when absent or unparseable.
	Grade *float64 `json:"grade,omitempty"`

	// Semester is the institution's semester number, nil when absent or unparseable.
	Semester *float64 `json:"semester,omitempty"`

	// Dates holds candidate completion dates keyed by source field name.
	Dates map[string]string `json:"dates,omitempty"`

	// ReportedAttempts is the attempt counter stored with the record, if any.
	// It is informational; the normalizer derives its own count.
	ReportedAttempts int `json:"reported_attempts,omitempty"`

	// LastAttemptDate is the stored last attempt date, if any.
	LastAttemptDate string `json:"last_attempt_date,omitempty"`

	// carried is the exam count derived by a previous Normalize pass.
	carried    int
	hasCarried bool
}

// NormalizedCode returns the trimmed, upper-cased course code.
func (a RawAttempt) NormalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(a.Code))
}

// NormalizedStatus returns the trimmed, upper-cased status.
func (a RawAttempt) NormalizedStatus() string {
	return strings.ToUpper(strings.TrimSpace(a.Status))
}

// NormalizedResultType returns the trimmed, upper-cased result type.
func (a RawAttempt) NormalizedResultType() string {
	return strings.ToUpper(strings.TrimSpace(a.ResultType))
}

// normalizedSource returns the lower-cased, trimmed result source.
func (a RawAttempt) normalizedSource() string {
	return strings.ToLower(strings.TrimSpace(a.ResultSource))
}

// IsExamSource reports whether the credit came from an exam.
func (a RawAttempt) IsExamSource() bool {
	src := a.normalizedSource()
	return src == "por examen" || src == "examen" || strings.Contains(src, "exam")
}

// IsByInstruction reports whether the credit came from attending the course.
func (a RawAttempt) IsByInstruction() bool {
	return a.normalizedSource() == sourceByInstruction
}

// GradeOrZero returns the grade, or 0 when it is missing.
func (a RawAttempt) GradeOrZero() float64 {
	if a.Grade == nil {
		return 0
	}
	return *a.Grade
}

// SemesterOrDefault returns the rounded semester number, or 1 when missing.
func (a RawAttempt) SemesterOrDefault() int {
	if a.Semester == nil {
		return 1
	}
	return roundSemester(*a.Semester)
}

// roundSemester rounds half to even, matching how semester numbers were
// historically bucketed.
func roundSemester(v float64) int {
	return int(math.RoundToEven(v))
}

// Keys recognized in stored subject maps.
const (
	keyCode            = "code"
	keyName            = "name"
	keyStatus          = "status"
	keyResultSource    = "result_source"
	keySource          = "source"
	keyGrade           = "grade"
	keySemester        = "semester"
	keyAttempts        = "attempts"
	keyLastAttemptDate = "last_attempt_date"
)

// resultTypeKeys lists the result type field names in priority order.
var resultTypeKeys = []string{"result_type", "resultType", "type"}

// DateKeys lists the completion date field names in priority order.
var DateKeys = []string{"date", "completedAt", "completeTimestamp"}

// ParseAttempt converts a stored subject map into a RawAttempt.
// Malformed fields fall back to zero values; the attempt is never rejected.
func ParseAttempt(m map[string]any) RawAttempt {
	a := RawAttempt{
		Code:            stringValue(m[keyCode]),
		Name:            stringValue(m[keyName]),
		Status:          stringValue(m[keyStatus]),
		LastAttemptDate: stringValue(m[keyLastAttemptDate]),
	}

	for _, k := range resultTypeKeys {
		if s := stringValue(m[k]); s != "" {
			a.ResultType = s
			break
		}
	}

	a.ResultSource = stringValue(m[keyResultSource])
	if a.ResultSource == "" {
		a.ResultSource = stringValue(m[keySource])
	}

	if g, ok := floatValue(m[keyGrade]); ok {
		a.Grade = &g
	}
	if s, ok := floatValue(m[keySemester]); ok {
		a.Semester = &s
	}
	if n, ok := floatValue(m[keyAttempts]); ok {
		a.ReportedAttempts = int(n)
	}

	for _, k := range DateKeys {
		v, present := m[k]
		if !present || v == nil {
			continue
		}
		if a.Dates == nil {
			a.Dates = make(map[string]string, len(DateKeys))
		}
		a.Dates[k] = stringValue(v)
	}

	return a
}

// ParseAttempts converts a list of stored subject maps.
func ParseAttempts(subjects []map[string]any) []RawAttempt {
	out := make([]RawAttempt, 0, len(subjects))
	for _, s := range subjects {
		if s == nil {
			continue
		}
		out = append(out, ParseAttempt(s))
	}
	return out
}

// floater matches json.Number from both encoding/json and goccy/go-json.
type floater interface {
	Float64() (float64, error)
}

// floatValue coerces storage numbers (including decimal strings) to float64.
func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case floater:
		f, err := n.Float64()
		return f, err == nil && !math.IsNaN(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}

// stringValue renders a storage value as a string. Integral numbers are
// rendered without a fractional part so numeric course codes stay stable.
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case floater:
		if f, err := s.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return ""
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
