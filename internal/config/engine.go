// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package config

import (
	"strings"

	"github.com/tomtom215/coursepath/internal/recommend"
	"github.com/tomtom215/coursepath/internal/studentstore"
)

// EngineConfig converts the loaded settings into the recommendation
// engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	out := recommend.DefaultConfig()
	r := c.Recommend

	out.DegreeID = strings.TrimSpace(r.DegreeID)
	out.PM = recommend.PMConfig{
		GPASuccessThreshold: r.GPASuccessThreshold,
		SimilarityThreshold: r.SimilarityThreshold,
		TopK:                r.TopK,
	}
	out.SPM = recommend.SPMConfig{
		MinSupport:       r.MinSupport,
		MinSupportNext:   r.MinSupportNext,
		MaxPatternLength: r.MaxPatternLength,
		GradeMin:         r.GradeMinForSPM,
		StatusesOK:       upperAll(r.StatusesOKForSPM),
		TopK:             r.SPMTopK,
		CohortSize:       r.CohortSize,
		BaselineMode:     strings.ToLower(r.BaselineMode),
	}
	out.KeyCourses = upperAll(r.KeyCourses)
	out.Tuning = recommend.TuningConfig{
		Enabled:        c.Tuning.Enabled,
		GPAGrid:        append([]float64(nil), c.Tuning.GPAGrid...),
		SimilarityGrid: append([]float64(nil), c.Tuning.SimilarityGrid...),
		SupportGrid:    append([]float64(nil), c.Tuning.SupportGrid...),
		CohortSize:     c.Tuning.CohortSize,
		Seed:           c.Tuning.Seed,
	}
	out.Training = recommend.TrainingConfig{
		Interval:       c.Training.Interval,
		Timeout:        c.Training.Timeout,
		RetainVersions: c.Training.RetainVersions,
	}
	out.Limits = recommend.LimitsConfig{
		MaxK:              r.MaxK,
		PredictionTimeout: r.PredictionTimeout,
	}
	out.Cache = recommend.CacheConfig{
		Enabled:           c.Cache.Enabled,
		TTL:               c.Cache.TTL,
		MaxEntries:        c.Cache.MaxEntries,
		InvalidateOnTrain: c.Cache.InvalidateOnTrain,
	}
	return out
}

// BreakerConfig returns the circuit breaker settings for the student store.
func (c *Config) BreakerConfig() studentstore.BreakerConfig {
	cfg := studentstore.DefaultBreakerConfig()
	cfg.MaxRequests = c.Store.BreakerMaxRequests
	cfg.Interval = c.Store.BreakerInterval
	cfg.Timeout = c.Store.BreakerTimeout
	cfg.MinRequests = c.Store.BreakerMinRequests
	cfg.FailureRatio = c.Store.BreakerFailureRatio
	return cfg
}

// StoreOptions returns the Badger options for the student store. The
// logger is filled in by the caller.
func (c *Config) StoreOptions() studentstore.Options {
	return studentstore.Options{
		Path:       c.Store.Path,
		InMemory:   c.Store.InMemory,
		SyncWrites: c.Store.SyncWrites,
		GCRatio:    c.Store.GCRatio,
	}
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
