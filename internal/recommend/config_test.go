// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package recommend

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "2491", cfg.DegreeID)
	assert.Equal(t, 3.6, cfg.PM.GPASuccessThreshold)
	assert.Equal(t, 0.7, cfg.PM.SimilarityThreshold)
	assert.Equal(t, 5, cfg.PM.TopK)
	assert.Equal(t, 0.20, cfg.SPM.MinSupport)
	assert.Equal(t, 0.05, cfg.SPM.MinSupportNext)
	assert.Equal(t, 6, cfg.SPM.MaxPatternLength)
	assert.Equal(t, 86.0, cfg.SPM.GradeMin)
	assert.Equal(t, []string{"APR"}, cfg.SPM.StatusesOK)
	assert.Equal(t, 4, cfg.SPM.TopK)
	assert.Equal(t, 200, cfg.SPM.CohortSize)
	assert.Equal(t, "global", cfg.SPM.BaselineMode)
	assert.Equal(t, []float64{3.4, 3.6, 3.8}, cfg.Tuning.GPAGrid)
	assert.Equal(t, []float64{0.6, 0.7, 0.8}, cfg.Tuning.SimilarityGrid)
	assert.Equal(t, []float64{0.10, 0.20, 0.30}, cfg.Tuning.SupportGrid)
	assert.Equal(t, int64(42), cfg.Tuning.Seed)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"empty degree", func(c *Config) { c.DegreeID = " " }, "degree_id"},
		{"gpa threshold above scale", func(c *Config) { c.PM.GPASuccessThreshold = 4.5 }, "pm.gpa_success_threshold"},
		{"similarity out of range", func(c *Config) { c.PM.SimilarityThreshold = -0.1 }, "pm.similarity_threshold"},
		{"pm top k", func(c *Config) { c.PM.TopK = 0 }, "pm.top_k"},
		{"min support", func(c *Config) { c.SPM.MinSupport = 1.5 }, "spm.min_support"},
		{"max pattern length", func(c *Config) { c.SPM.MaxPatternLength = 0 }, "spm.max_pattern_length"},
		{"grade min", func(c *Config) { c.SPM.GradeMin = 101 }, "spm.grade_min"},
		{"statuses", func(c *Config) { c.SPM.StatusesOK = nil }, "spm.statuses_ok"},
		{"baseline mode", func(c *Config) { c.SPM.BaselineMode = "median" }, "spm.baseline_mode"},
		{"tuning grid", func(c *Config) { c.Tuning.SupportGrid = []float64{0.1, 2} }, "tuning.support_grid"},
		{"tuning cohort", func(c *Config) { c.Tuning.CohortSize = 0 }, "tuning.cohort_size"},
		{"training timeout", func(c *Config) { c.Training.Timeout = 0 }, "training.timeout"},
		{"retain versions", func(c *Config) { c.Training.RetainVersions = 0 }, "training.retain_versions"},
		{"max k below top k", func(c *Config) { c.Limits.MaxK = 3 }, "limits.max_k"},
		{"cache entries", func(c *Config) { c.Cache.MaxEntries = 0 }, "cache.max_entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("disabled tuning skips grid checks", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Tuning.Enabled = false
		cfg.Tuning.CohortSize = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	orig := DefaultConfig()
	orig.KeyCourses = []string{"MAT101"}
	clone := orig.Clone()

	clone.SPM.StatusesOK[0] = "EQV"
	clone.Tuning.GPAGrid[0] = 1.0
	clone.KeyCourses[0] = "FIS101"
	clone.PM.TopK = 9

	assert.Equal(t, "APR", orig.SPM.StatusesOK[0])
	assert.Equal(t, 3.4, orig.Tuning.GPAGrid[0])
	assert.Equal(t, "MAT101", orig.KeyCourses[0])
	assert.Equal(t, 5, orig.PM.TopK)
}

func TestConfig_MarshalJSON(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Training.Interval = 6 * time.Hour

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	training, ok := decoded["training"].(map[string]any)
	require.True(t, ok, "training should be an object")
	assert.Equal(t, "6h0m0s", training["interval"])
	assert.Equal(t, "30m0s", training["timeout"])

	cache, ok := decoded["cache"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "5m0s", cache["ttl"])

	assert.True(t, strings.Contains(string(data), `"degree_id":"2491"`))
}
