// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coursepath/internal/config"
	"github.com/tomtom215/coursepath/internal/recommend"
	"github.com/tomtom215/coursepath/internal/recommend/storage"
	"github.com/tomtom215/coursepath/internal/studentstore"
)

// initEngine builds the recommendation engine with both algorithms, the
// artifact store and the student store, and restores the latest models of
// the default degree. Missing artifacts are not an error: the first training
// run publishes them.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(ctx context.Context, cfg *config.Config, provider *studentstore.BreakerProvider, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg := cfg.EngineConfig()

	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, err
	}

	artifacts, err := storage.NewStore(cfg.Artifacts.Path)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}

	engine.SetArtifactStore(artifacts)
	engine.SetDataProvider(provider)
	engine.SetRecommendationLogger(provider)
	engine.RegisterAlgorithm(recommend.NewPMAlgorithm(engineCfg, logger))
	spm := recommend.NewSPMAlgorithm(engineCfg, logger)
	spm.SetKeyCourseSource(provider)
	engine.RegisterAlgorithm(spm)

	if err := engine.LoadLatest(ctx, engineCfg.DegreeID); err != nil {
		logger.Warn().Err(err).Str("degree_id", engineCfg.DegreeID).Msg("failed to restore stored models")
	}

	logger.Info().
		Strs("algorithms", engine.Algorithms()).
		Bool("ready", engine.IsReady()).
		Msg("recommendation engine initialized")
	return engine, nil
}
