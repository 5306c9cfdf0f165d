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

// SPMAlgorithm trains and restores SPM models.
type SPMAlgorithm struct {
	spm        SPMConfig
	tuning     TuningConfig
	keyCourses []string
	keySource  KeyCourseSource
	extractors []records.DateExtractor
	logger     zerolog.Logger
}

// NewSPMAlgorithm creates the SPM strategy from the engine configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSPMAlgorithm(cfg *Config, logger zerolog.Logger) *SPMAlgorithm {
	c := cfg.Clone()
	return &SPMAlgorithm{
		spm:        c.SPM,
		tuning:     c.Tuning,
		keyCourses: c.KeyCourses,
		extractors: records.DefaultDateExtractors,
		logger:     logger.With().Str("algorithm", algorithms.NameSPM).Logger(),
	}
}

// SetKeyCourseSource adds the prerequisites stored for each degree to the
// configured key courses.
func (a *SPMAlgorithm) SetKeyCourseSource(src KeyCourseSource) {
	a.keySource = src
}

// keyCoursesFor returns the configured key courses plus those of src for
// degreeID. A failing source leaves the configured list in effect.
func (a *SPMAlgorithm) keyCoursesFor(ctx context.Context, degreeID string) []string {
	if a.keySource == nil || degreeID == "" {
		return a.keyCourses
	}
	stored, err := a.keySource.KeyCourses(ctx, degreeID)
	if err != nil {
		a.logger.Warn().Err(err).Str("degree_id", degreeID).Msg("failed to load stored key courses")
		return a.keyCourses
	}
	keys := make([]string, 0, len(a.keyCourses)+len(stored))
	keys = append(keys, a.keyCourses...)
	return append(keys, stored...)
}

// Name returns "spm".
func (a *SPMAlgorithm) Name() string { return algorithms.NameSPM }

// Train mines an SPM artifact and wraps it in a model.
func (a *SPMAlgorithm) Train(ctx context.Context, degreeID string, students []records.Student) (Model, error) {
	artifact, err := TrainSPM(ctx, degreeID, students, a.spm, a.tuning, a.extractors, a.logger)
	if err != nil {
		return nil, err
	}
	return newSPMModel(artifact, a.keyCoursesFor(ctx, degreeID), a.extractors), nil
}

// Restore loads the latest SPM artifact stored under name.
func (a *SPMAlgorithm) Restore(ctx context.Context, store ArtifactStore, name string) (Model, *storage.ModelMetadata, error) {
	var artifact SPMArtifact
	meta, err := store.Load(ctx, name, 0, &artifact)
	if err != nil {
		return nil, nil, err
	}
	if artifact.ModelType != ModelTypeSPM {
		return nil, nil, fmt.Errorf("spm artifact %s: unsupported model type %q", name, artifact.ModelType)
	}
	return newSPMModel(&artifact, a.keyCoursesFor(ctx, artifact.DegreeID), a.extractors), meta, nil
}

// TrainSPM builds an SPM artifact from a degree population.
//
// Each student contributes the sequence of attempts passing the status and
// grade filter; empty sequences are dropped. Course statistics are taken over
// the kept sequences with grades converted to GPA. Patterns are mined with the
// configured thresholds and evaluated, and the support grid is simulated when
// tuning is enabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func TrainSPM(ctx context.Context, degreeID string, students []records.Student, cfg SPMConfig, tuning TuningConfig, extractors []records.DateExtractor, logger zerolog.Logger) (*SPMArtifact, error) {
	if len(students) == 0 {
		return nil, ErrEmptyPopulation
	}

	mode, err := evaluation.ParseBaselineMode(cfg.BaselineMode)
	if err != nil {
		return nil, err
	}
	minerCfg := algorithms.MinerConfig{
		MinSupport:       cfg.MinSupport,
		MinSupportNext:   cfg.MinSupportNext,
		MaxPatternLength: cfg.MaxPatternLength,
	}
	if err := minerCfg.Validate(); err != nil {
		return nil, err
	}

	keep := records.SPMFilter(cfg.StatusesOK, cfg.GradeMin)
	acc := algorithms.NewStatsAccumulator()
	db := make([]records.TermSequence, 0, len(students))
	for i := range students {
		seq, grades := records.BuildSequence(students[i].Attempts, keep, extractors)
		if seq.Len() == 0 {
			continue
		}
		gpa := make(map[string]float64, len(grades))
		for code, g := range grades {
			gpa[code] = records.GradeToGPA(g)
		}
		acc.Add(seq, gpa)
		db = append(db, seq)
	}
	if len(db) == 0 {
		return nil, fmt.Errorf("%w (statuses %v, grade >= %v)", ErrNoSequences, cfg.StatusesOK, cfg.GradeMin)
	}
	stats := acc.Stats()

	patterns, err := algorithms.NewMiner(minerCfg).Mine(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("mine patterns: %w", err)
	}

	logger.Info().
		Int("students", len(students)).
		Int("sequences", len(db)).
		Int("patterns", len(patterns)).
		Float64("min_support", cfg.MinSupport).
		Msg("mined spm patterns")

	metrics := evaluation.ComputePatternMetrics(patterns, db)

	var rows []evaluation.SPMTuningRow
	if tuning.Enabled && len(tuning.SupportGrid) > 0 {
		rows, err = evaluation.TuneSPM(ctx, db, stats, evaluation.SPMGrid{
			Supports:         tuning.SupportGrid,
			MinSupportNext:   cfg.MinSupportNext,
			MaxPatternLength: cfg.MaxPatternLength,
			Simulation: evaluation.SPMSimulationConfig{
				CohortSize:   cfg.CohortSize,
				K:            cfg.TopK,
				BaselineMode: mode,
			},
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("spm tuning: %w", err)
		}
	}

	var best *evaluation.SPMTuningRow
	if len(rows) > 0 {
		b := rows[0]
		best = &b
	}

	return &SPMArtifact{
		Algorithm: algorithms.NameSPM,
		ModelType: ModelTypeSPM,
		CreatedAt: time.Now().UTC(),
		DegreeID:  degreeID,
		Params: SPMParams{
			MinSupport:        cfg.MinSupport,
			MinSupportNext:    cfg.MinSupportNext,
			MaxPatternLength:  cfg.MaxPatternLength,
			GradeMin:          cfg.GradeMin,
			StatusesOK:        append([]string(nil), cfg.StatusesOK...),
			TopK:              cfg.TopK,
			CohortSize:        cfg.CohortSize,
			BaselineMode:      mode,
			TuningSupportGrid: append([]float64(nil), tuning.SupportGrid...),
		},
		Patterns:         patterns,
		CourseStats:      stats,
		PatternMetrics:   metrics,
		TuningSimulation: rows,
		TuningBest:       best,
		Sequences:        len(db),
	}, nil
}

// spmModel serves recommendations from an SPM artifact.
type spmModel struct {
	artifact   *SPMArtifact
	ranker     *algorithms.SPMRanker
	keep       records.AttemptFilter
	extractors []records.DateExtractor
}

func newSPMModel(artifact *SPMArtifact, keyCourses []string, extractors []records.DateExtractor) *spmModel {
	return &spmModel{
		artifact:   artifact,
		ranker:     algorithms.NewSPMRanker(artifact.Patterns, artifact.CourseStats, keyCourses),
		keep:       records.SPMFilter(artifact.Params.StatusesOK, artifact.Params.GradeMin),
		extractors: extractors,
	}
}

func (m *spmModel) Artifact() any { return m.artifact }

func (m *spmModel) Counts() map[string]int {
	return map[string]int{
		"sequences": m.artifact.Sequences,
		"patterns":  len(m.artifact.Patterns),
	}
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (m *spmModel) Recommend(ctx context.Context, student records.Student, req Request) (*Response, error) {
	seq, _ := records.BuildSequence(student.Attempts, m.keep, m.extractors)
	if seq.Len() == 0 {
		return nil, ErrNoValidCourses
	}

	k := req.K
	if k <= 0 {
		k = m.artifact.Params.TopK
	}
	minMatched := req.MinMatchedLen
	if minMatched <= 0 {
		minMatched = 1
	}

	res, err := m.ranker.Rank(ctx, seq, k, minMatched)
	if err != nil {
		return nil, err
	}

	subjects := make([]string, len(res.Recommendations))
	for i, rec := range res.Recommendations {
		subjects[i] = rec.Subject
	}
	matched := res.MatchedLength

	return &Response{
		Params: map[string]any{
			"k":                   k,
			"min_matched_len":     minMatched,
			"grade_min_for_spm":   m.artifact.Params.GradeMin,
			"statuses_ok_for_spm": m.artifact.Params.StatusesOK,
		},
		Recommendations:      res.Recommendations,
		MatchedPatternLength: &matched,
		Message:              res.Message,
		subjects:             subjects,
	}, nil
}
