// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package recommend

import (
	"time"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/recommend/evaluation"
	"github.com/tomtom215/coursepath/internal/records"
)

// PMSchemaVersion is the layout version written into PM artifacts.
const PMSchemaVersion = 3

// ModelTypeSPM identifies the mining and ranking procedure of SPM artifacts.
const ModelTypeSPM = "PrefixSpanSimplified_LongestMatchReco"

// maxStoredTuningRows caps the PM tuning rows kept in an artifact.
const maxStoredTuningRows = 10

// ArtifactName returns the storage name of an algorithm's artifact for a degree.
func ArtifactName(algorithm, degreeID string) string {
	return algorithm + "-" + degreeID
}

// PMParams are the thresholds a PM artifact was trained with.
type PMParams struct {
	GPASuccessThreshold float64 `json:"gpa_success_threshold"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	TopK                int     `json:"top_k"`
}

// PMCounts are the population sizes seen by PM training.
type PMCounts struct {
	StudentsTotal      int `json:"students_total"`
	StudentsSuccessful int `json:"students_successful"`
}

// PMArtifact is the trained PM model: the successful reference cohort and
// its course statistics, plus evaluation results.
type PMArtifact struct {
	SchemaVersion      int                       `json:"schema_version"`
	CreatedAt          time.Time                 `json:"created_at"`
	DegreeID           string                    `json:"degree_id"`
	SuccessfulStudents []records.Trajectory      `json:"successful_students"`
	CourseStats        algorithms.CourseStats    `json:"course_stats"`
	Params             PMParams                  `json:"params"`
	Counts             PMCounts                  `json:"counts"`
	Metrics            evaluation.HoldoutMetrics `json:"recommender_metrics"`
	Tuning             []evaluation.PMTuningRow  `json:"tuning_results"`
}

// SPMParams are the settings an SPM artifact was trained with.
type SPMParams struct {
	MinSupport        float64                 `json:"min_support"`
	MinSupportNext    float64                 `json:"min_support_next"`
	MaxPatternLength  int                     `json:"max_pattern_length"`
	GradeMin          float64                 `json:"grade_min_for_spm"`
	StatusesOK        []string                `json:"statuses_ok_for_spm"`
	TopK              int                     `json:"top_k"`
	CohortSize        int                     `json:"cohort_size"`
	BaselineMode      evaluation.BaselineMode `json:"baseline_mode"`
	TuningSupportGrid []float64               `json:"tuning_support_grid"`
}

// SPMArtifact is the trained SPM model: the mined patterns and the course
// statistics of the filtered population, plus evaluation results.
type SPMArtifact struct {
	Algorithm        string                    `json:"algorithm"`
	ModelType        string                    `json:"model_type"`
	CreatedAt        time.Time                 `json:"created_at"`
	DegreeID         string                    `json:"degree_id"`
	Params           SPMParams                 `json:"params"`
	Patterns         []algorithms.Pattern      `json:"patterns"`
	CourseStats      algorithms.CourseStats    `json:"course_stats"`
	PatternMetrics   evaluation.PatternMetrics `json:"pattern_metrics"`
	TuningSimulation []evaluation.SPMTuningRow `json:"tuning_simulation"`
	TuningBest       *evaluation.SPMTuningRow  `json:"tuning_best,omitempty"`
	Sequences        int                       `json:"sequences"`
}
