// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/coursepath/internal/recommend/evaluation"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// DegreeID is the degree program used when a request names none.
	DegreeID string `json:"degree_id"`

	// PM contains parameters for trajectory-similarity recommendations.
	PM PMConfig `json:"pm"`

	// SPM contains parameters for sequential pattern mining.
	SPM SPMConfig `json:"spm"`

	// Tuning contains the grids explored after each training run.
	Tuning TuningConfig `json:"tuning"`

	// KeyCourses lists prerequisite courses flagged and promoted in SPM results.
	KeyCourses []string `json:"key_courses"`

	// Training contains training schedule parameters.
	Training TrainingConfig `json:"training"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains caching parameters.
	Cache CacheConfig `json:"cache"`
}

// PMConfig contains parameters for the PM strategy.
type PMConfig struct {
	// GPASuccessThreshold is the GPA (0-4) a student needs to join the
	// reference cohort.
	// Default: 3.6.
	GPASuccessThreshold float64 `json:"gpa_success_threshold"`

	// SimilarityThreshold is the minimum footprint similarity of a peer.
	// Default: 0.7.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// TopK is the default number of recommendations.
	// Default: 5.
	TopK int `json:"top_k"`
}

// SPMConfig contains parameters for the SPM strategy.
type SPMConfig struct {
	// MinSupport is the fraction of sequences that must contain a pattern.
	// Default: 0.20.
	MinSupport float64 `json:"min_support"`

	// MinSupportNext is the fraction of sequences that must show a next item.
	// Default: 0.05.
	MinSupportNext float64 `json:"min_support_next"`

	// MaxPatternLength bounds pattern growth.
	// Default: 6.
	MaxPatternLength int `json:"max_pattern_length"`

	// GradeMin is the minimum 0-100 grade an attempt needs to enter a sequence.
	// Default: 86.
	GradeMin float64 `json:"grade_min"`

	// StatusesOK lists the statuses an attempt needs to enter a sequence.
	// Default: [APR].
	StatusesOK []string `json:"statuses_ok"`

	// TopK is the default number of recommendations.
	// Default: 4.
	TopK int `json:"top_k"`

	// CohortSize caps the students simulated after training.
	// Default: 200.
	CohortSize int `json:"cohort_size"`

	// BaselineMode is "global" or "prefix".
	// Default: global.
	BaselineMode string `json:"baseline_mode"`
}

// TuningConfig contains the hyperparameter grids explored after training.
type TuningConfig struct {
	// Enabled controls whether tuning runs at all.
	// Default: true.
	Enabled bool `json:"enabled"`

	// GPAGrid lists PM success thresholds.
	GPAGrid []float64 `json:"gpa_grid"`

	// SimilarityGrid lists PM similarity thresholds.
	SimilarityGrid []float64 `json:"similarity_grid"`

	// SupportGrid lists SPM minimum supports.
	SupportGrid []float64 `json:"support_grid"`

	// CohortSize caps the students simulated per PM grid point.
	// Default: 200.
	CohortSize int `json:"cohort_size"`

	// Seed drives cohort sampling. Zero uses the default seed.
	// Default: 42.
	Seed int64 `json:"seed"`
}

// TrainingConfig contains training schedule parameters.
type TrainingConfig struct {
	// Interval is the time between scheduled retraining runs.
	// Default: 24h.
	Interval time.Duration `json:"interval"`

	// Timeout is the maximum duration of one training run.
	// Default: 30m.
	Timeout time.Duration `json:"timeout"`

	// RetainVersions is the number of artifact versions kept per model.
	// Default: 3.
	RetainVersions int `json:"retain_versions"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxK caps the number of recommendations a request may ask for.
	// Default: 50.
	MaxK int `json:"max_k"`

	// PredictionTimeout bounds a single inference call.
	// Default: 10s.
	PredictionTimeout time.Duration `json:"prediction_timeout"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled controls whether responses are cached.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`

	// InvalidateOnTrain controls whether cache is cleared after training.
	// Default: true.
	InvalidateOnTrain bool `json:"invalidate_on_train"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		DegreeID: "2491",
		PM: PMConfig{
			GPASuccessThreshold: 3.6,
			SimilarityThreshold: 0.7,
			TopK:                5,
		},
		SPM: SPMConfig{
			MinSupport:       0.20,
			MinSupportNext:   0.05,
			MaxPatternLength: 6,
			GradeMin:         86,
			StatusesOK:       []string{"APR"},
			TopK:             4,
			CohortSize:       200,
			BaselineMode:     string(evaluation.BaselineGlobal),
		},
		Tuning: TuningConfig{
			Enabled:        true,
			GPAGrid:        []float64{3.4, 3.6, 3.8},
			SimilarityGrid: []float64{0.6, 0.7, 0.8},
			SupportGrid:    []float64{0.10, 0.20, 0.30},
			CohortSize:     200,
			Seed:           evaluation.DefaultSeed,
		},
		Training: TrainingConfig{
			Interval:       24 * time.Hour,
			Timeout:        30 * time.Minute,
			RetainVersions: 3,
		},
		Limits: LimitsConfig{
			MaxK:              50,
			PredictionTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:           true,
			TTL:               5 * time.Minute,
			MaxEntries:        10000,
			InvalidateOnTrain: true,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DegreeID) == "" {
		return fmt.Errorf("degree_id must not be empty")
	}

	if c.PM.GPASuccessThreshold < 0 || c.PM.GPASuccessThreshold > 4 {
		return fmt.Errorf("pm.gpa_success_threshold must be in [0, 4], got %v", c.PM.GPASuccessThreshold)
	}
	if c.PM.SimilarityThreshold < 0 || c.PM.SimilarityThreshold > 1 {
		return fmt.Errorf("pm.similarity_threshold must be in [0, 1], got %v", c.PM.SimilarityThreshold)
	}
	if c.PM.TopK < 1 {
		return fmt.Errorf("pm.top_k must be positive, got %d", c.PM.TopK)
	}

	if c.SPM.MinSupport < 0 || c.SPM.MinSupport > 1 {
		return fmt.Errorf("spm.min_support must be in [0, 1], got %v", c.SPM.MinSupport)
	}
	if c.SPM.MinSupportNext < 0 || c.SPM.MinSupportNext > 1 {
		return fmt.Errorf("spm.min_support_next must be in [0, 1], got %v", c.SPM.MinSupportNext)
	}
	if c.SPM.MaxPatternLength < 1 {
		return fmt.Errorf("spm.max_pattern_length must be positive, got %d", c.SPM.MaxPatternLength)
	}
	if c.SPM.GradeMin < 0 || c.SPM.GradeMin > 100 {
		return fmt.Errorf("spm.grade_min must be in [0, 100], got %v", c.SPM.GradeMin)
	}
	if len(c.SPM.StatusesOK) == 0 {
		return fmt.Errorf("spm.statuses_ok must not be empty")
	}
	if c.SPM.TopK < 1 {
		return fmt.Errorf("spm.top_k must be positive, got %d", c.SPM.TopK)
	}
	if c.SPM.CohortSize < 1 {
		return fmt.Errorf("spm.cohort_size must be positive, got %d", c.SPM.CohortSize)
	}
	if _, err := evaluation.ParseBaselineMode(c.SPM.BaselineMode); err != nil {
		return fmt.Errorf("spm.baseline_mode: %w", err)
	}

	if c.Tuning.Enabled {
		if c.Tuning.CohortSize < 1 {
			return fmt.Errorf("tuning.cohort_size must be positive, got %d", c.Tuning.CohortSize)
		}
		for _, v := range c.Tuning.GPAGrid {
			if v < 0 || v > 4 {
				return fmt.Errorf("tuning.gpa_grid values must be in [0, 4], got %v", v)
			}
		}
		for _, v := range c.Tuning.SimilarityGrid {
			if v < 0 || v > 1 {
				return fmt.Errorf("tuning.similarity_grid values must be in [0, 1], got %v", v)
			}
		}
		for _, v := range c.Tuning.SupportGrid {
			if v < 0 || v > 1 {
				return fmt.Errorf("tuning.support_grid values must be in [0, 1], got %v", v)
			}
		}
	}

	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.RetainVersions < 1 {
		return fmt.Errorf("training.retain_versions must be positive, got %d", c.Training.RetainVersions)
	}

	if c.Limits.MaxK < max(c.PM.TopK, c.SPM.TopK) {
		return fmt.Errorf("limits.max_k must be >= every default top_k, got %d", c.Limits.MaxK)
	}
	if c.Limits.PredictionTimeout <= 0 {
		return fmt.Errorf("limits.prediction_timeout must be positive, got %v", c.Limits.PredictionTimeout)
	}

	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive when cache is enabled, got %d", c.Cache.MaxEntries)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.SPM.StatusesOK = append([]string(nil), c.SPM.StatusesOK...)
	out.Tuning.GPAGrid = append([]float64(nil), c.Tuning.GPAGrid...)
	out.Tuning.SimilarityGrid = append([]float64(nil), c.Tuning.SimilarityGrid...)
	out.Tuning.SupportGrid = append([]float64(nil), c.Tuning.SupportGrid...)
	out.KeyCourses = append([]string(nil), c.KeyCourses...)
	return &out
}

// MarshalJSON implements custom JSON marshaling for duration fields.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	type training struct {
		Interval       string `json:"interval"`
		Timeout        string `json:"timeout"`
		RetainVersions int    `json:"retain_versions"`
	}
	type limits struct {
		MaxK              int    `json:"max_k"`
		PredictionTimeout string `json:"prediction_timeout"`
	}
	type cache struct {
		Enabled           bool   `json:"enabled"`
		TTL               string `json:"ttl"`
		MaxEntries        int    `json:"max_entries"`
		InvalidateOnTrain bool   `json:"invalidate_on_train"`
	}
	return json.Marshal(&struct {
		*Alias
		Training training `json:"training"`
		Limits   limits   `json:"limits"`
		Cache    cache    `json:"cache"`
	}{
		Alias: (*Alias)(c),
		Training: training{
			Interval:       c.Training.Interval.String(),
			Timeout:        c.Training.Timeout.String(),
			RetainVersions: c.Training.RetainVersions,
		},
		Limits: limits{
			MaxK:              c.Limits.MaxK,
			PredictionTimeout: c.Limits.PredictionTimeout.String(),
		},
		Cache: cache{
			Enabled:           c.Cache.Enabled,
			TTL:               c.Cache.TTL.String(),
			MaxEntries:        c.Cache.MaxEntries,
			InvalidateOnTrain: c.Cache.InvalidateOnTrain,
		},
	})
}
