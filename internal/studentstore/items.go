// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package studentstore

import (
	"strconv"
	"time"

	"github.com/tomtom215/coursepath/internal/records"
)

// Key prefixes
const (
	degreeKeyPrefix  = "DEGREE#"
	studentKeyPrefix = "STUDENTS#"
	planKeyPrefix    = "STUDENT-PLAN#"
	logsKeyPrefix    = "LOGS#"
	subjectKeyPrefix = "SUBJECTS#"
)

// Fixed partitions of the catalog items shared by every degree.
const (
	// CatalogPartition holds one SUBJECTS# item per subject.
	CatalogPartition = "SUBJECTS#"

	// UniversityPartition holds one DEGREE# item per degree.
	UniversityPartition = "UNIVERSITY#"
)

// DegreeKey returns the partition key of a degree.
func DegreeKey(degreeID string) string { return degreeKeyPrefix + degreeID }

// StudentKey returns the sort key of a student record.
func StudentKey(studentID int) string { return studentKeyPrefix + strconv.Itoa(studentID) }

// PlanKey returns the sort key of a student plan.
func PlanKey(studentID int) string { return planKeyPrefix + strconv.Itoa(studentID) }

// LogsKey returns the sort key of a student's recommendation logs.
func LogsKey(studentID int) string { return logsKeyPrefix + strconv.Itoa(studentID) }

// SubjectKey returns the sort key of a subject, both in the catalog and in
// the requirements of a degree.
func SubjectKey(code string) string { return subjectKeyPrefix + code }

// StudentItem is a stored student record. Subjects are kept as the raw maps
// received from ingestion; records.ParseAttempts interprets them.
type StudentItem struct {
	PK        string           `json:"PK"`
	SK        string           `json:"SK"`
	ID        int              `json:"id"`
	DegreeID  string           `json:"degree_id"`
	Subjects  []map[string]any `json:"subjects"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Student converts the item into the record used for training and inference.
func (it *StudentItem) Student() records.Student {
	return records.NewStudent(it.ID, it.Subjects)
}

// LogEntry is one served recommendation.
type LogEntry struct {
	Date      time.Time      `json:"date"`
	Algorithm string         `json:"algorithm"`
	Params    map[string]any `json:"params,omitempty"`
	Subjects  []string       `json:"subjects"`
}

// LogsItem holds every recommendation served to one student.
type LogsItem struct {
	PK          string     `json:"PK"`
	SK          string     `json:"SK"`
	Logs        []LogEntry `json:"logs"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated time.Time  `json:"last_updated"`
}

// LogFilter narrows GetLogs. Zero values disable each criterion.
type LogFilter struct {
	// Algorithm keeps entries of one algorithm (case-insensitive).
	Algorithm string

	// StartDay and EndDay bound the entry date by calendar day (UTC), inclusive.
	StartDay time.Time
	EndDay   time.Time

	// Limit caps the number of entries returned.
	Limit int
}

// LogsResult is the outcome of GetLogs.
type LogsResult struct {
	// Logs are the matching entries, newest first.
	Logs []LogEntry `json:"logs"`

	// TotalBeforeFilter counts every stored entry.
	TotalBeforeFilter int `json:"total_logs_before_filter"`

	// LastUpdated is when the last entry was appended. Zero if none.
	LastUpdated time.Time `json:"last_updated"`
}
