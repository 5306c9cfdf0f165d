// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/recommend/evaluation"
	"github.com/tomtom215/coursepath/internal/recommend/storage"
	"github.com/tomtom215/coursepath/internal/records"
)

// PMAlgorithm trains and restores PM models.
type PMAlgorithm struct {
	pm         PMConfig
	tuning     TuningConfig
	extractors []records.DateExtractor
	logger     zerolog.Logger
}

// NewPMAlgorithm creates the PM strategy from the engine configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPMAlgorithm(cfg *Config, logger zerolog.Logger) *PMAlgorithm {
	return &PMAlgorithm{
		pm:         cfg.PM,
		tuning:     cfg.Clone().Tuning,
		extractors: records.DefaultDateExtractors,
		logger:     logger.With().Str("algorithm", algorithms.NamePM).Logger(),
	}
}

// Name returns "pm".
func (a *PMAlgorithm) Name() string { return algorithms.NamePM }

// Train builds a PM artifact and wraps it in a model.
func (a *PMAlgorithm) Train(ctx context.Context, degreeID string, students []records.Student) (Model, error) {
	artifact, err := TrainPM(ctx, degreeID, students, a.pm, a.tuning, a.extractors, a.logger)
	if err != nil {
		return nil, err
	}
	return newPMModel(artifact, a.extractors), nil
}

// Restore loads the latest PM artifact stored under name.
func (a *PMAlgorithm) Restore(ctx context.Context, store ArtifactStore, name string) (Model, *storage.ModelMetadata, error) {
	var artifact PMArtifact
	meta, err := store.Load(ctx, name, 0, &artifact)
	if err != nil {
		return nil, nil, err
	}
	if artifact.SchemaVersion != PMSchemaVersion {
		return nil, nil, fmt.Errorf("pm artifact %s: unsupported schema version %d", name, artifact.SchemaVersion)
	}
	return newPMModel(&artifact, a.extractors), meta, nil
}

// TrainPM builds a PM artifact from a degree population.
//
// Students without approved courses are skipped. The reference cohort is the
// set of trajectories whose GPA reaches the success threshold; its course
// statistics drive scoring. The artifact also records a last-term holdout
// over the whole population and, when enabled, the best tuning rows.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func TrainPM(ctx context.Context, degreeID string, students []records.Student, cfg PMConfig, tuning TuningConfig, extractors []records.DateExtractor, logger zerolog.Logger) (*PMArtifact, error) {
	if len(students) == 0 {
		return nil, ErrEmptyPopulation
	}

	population := make([]records.Trajectory, 0, len(students))
	for i := range students {
		traj, ok := records.BuildTrajectory(students[i].ID, students[i].Attempts, extractors)
		if !ok {
			continue
		}
		population = append(population, traj)
	}
	if len(population) == 0 {
		return nil, fmt.Errorf("%w: no student has approved courses", ErrEmptyPopulation)
	}

	successful := evaluation.SuccessfulCohort(population, cfg.GPASuccessThreshold)
	if len(successful) == 0 {
		return nil, fmt.Errorf("%w (gpa >= %v)", ErrNoSuccessfulStudents, cfg.GPASuccessThreshold)
	}

	logger.Info().
		Int("students", len(population)).
		Int("successful", len(successful)).
		Float64("gpa_threshold", cfg.GPASuccessThreshold).
		Msg("built pm reference cohort")

	stats := algorithms.ComputeCourseStats(successful)
	ranker := algorithms.NewPMRanker(successful, stats)

	metrics, err := evaluation.Holdout(ctx, population, ranker, evaluation.HoldoutConfig{
		SimilarityThreshold: cfg.SimilarityThreshold,
		K:                   cfg.TopK,
		GPASuccessThreshold: cfg.GPASuccessThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("holdout evaluation: %w", err)
	}

	var rows []evaluation.PMTuningRow
	if tuning.Enabled && len(tuning.GPAGrid) > 0 && len(tuning.SimilarityGrid) > 0 {
		rows, err = evaluation.TunePM(ctx, population, evaluation.PMGrid{
			GPAThresholds:        tuning.GPAGrid,
			SimilarityThresholds: tuning.SimilarityGrid,
			K:                    cfg.TopK,
			CohortSize:           tuning.CohortSize,
			Seed:                 tuning.Seed,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("pm tuning: %w", err)
		}
		if len(rows) > maxStoredTuningRows {
			rows = rows[:maxStoredTuningRows]
		}
	}

	return &PMArtifact{
		SchemaVersion:      PMSchemaVersion,
		CreatedAt:          time.Now().UTC(),
		DegreeID:           degreeID,
		SuccessfulStudents: successful,
		CourseStats:        stats,
		Params: PMParams{
			GPASuccessThreshold: cfg.GPASuccessThreshold,
			SimilarityThreshold: cfg.SimilarityThreshold,
			TopK:                cfg.TopK,
		},
		Counts: PMCounts{
			StudentsTotal:      len(population),
			StudentsSuccessful: len(successful),
		},
		Metrics: metrics,
		Tuning:  rows,
	}, nil
}

// pmModel serves recommendations from a PM artifact.
type pmModel struct {
	artifact   *PMArtifact
	ranker     *algorithms.PMRanker
	extractors []records.DateExtractor
}

func newPMModel(artifact *PMArtifact, extractors []records.DateExtractor) *pmModel {
	return &pmModel{
		artifact:   artifact,
		ranker:     algorithms.NewPMRanker(artifact.SuccessfulStudents, artifact.CourseStats),
		extractors: extractors,
	}
}

func (m *pmModel) Artifact() any { return m.artifact }

func (m *pmModel) Counts() map[string]int {
	return map[string]int{
		"students_total":      m.artifact.Counts.StudentsTotal,
		"students_successful": m.artifact.Counts.StudentsSuccessful,
	}
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (m *pmModel) Recommend(ctx context.Context, student records.Student, req Request) (*Response, error) {
	traj, ok := records.BuildTrajectory(student.ID, student.Attempts, m.extractors)
	if !ok {
		return nil, ErrNoValidCourses
	}

	k := req.K
	if k <= 0 {
		k = m.artifact.Params.TopK
	}
	minSim := m.artifact.Params.SimilarityThreshold
	if req.MinSim != nil {
		minSim = *req.MinSim
	}

	res, err := m.ranker.Rank(ctx, traj.Terms, k, minSim)
	if err != nil {
		return nil, err
	}

	subjects := make([]string, len(res.Recommendations))
	for i, rec := range res.Recommendations {
		subjects[i] = rec.Subject
	}

	return &Response{
		Params: map[string]any{
			"k":                     k,
			"min_sim":               minSim,
			"gpa_success_threshold": m.artifact.Params.GPASuccessThreshold,
		},
		Recommendations: res.Recommendations,
		SimilarPeers:    res.SimilarPeers,
		Message:         res.Message,
		subjects:        subjects,
	}, nil
}
