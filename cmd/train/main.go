// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Command train runs one training job against the configured student store
// and publishes the resulting artifacts. It exits non-zero when any selected
// algorithm fails, for example on an empty population.
//
//	train -algorithm all -degree 2491
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomtom215/coursepath/internal/config"
	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/recommend"
	"github.com/tomtom215/coursepath/internal/recommend/storage"
	"github.com/tomtom215/coursepath/internal/studentstore"
	"github.com/tomtom215/coursepath/internal/validation"
)

func main() {
	var algorithm, degreeID string
	flag.StringVar(&algorithm, "algorithm", recommend.AlgorithmAll, "algorithm to train: pm, spm or all")
	flag.StringVar(&degreeID, "degree", "", "degree to train (default: DEGREE_ID)")
	flag.Parse()

	if err := run(strings.ToLower(algorithm), degreeID); err != nil {
		fmt.Fprintf(os.Stderr, "train: %v\n", err)
		os.Exit(1)
	}
}

func run(algorithm, degreeID string) error {
	req := validation.TrainRequest{Algorithm: algorithm, DegreeID: degreeID}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return verr
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "coursepath-train",
	})
	logger := logging.Logger()

	if degreeID == "" {
		degreeID = cfg.Recommend.DegreeID
	}

	storeOpts := cfg.StoreOptions()
	storeOpts.Logger = logging.WithComponent("studentstore")
	store, err := studentstore.Open(storeOpts)
	if err != nil {
		return fmt.Errorf("open student store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing student store")
		}
	}()

	artifacts, err := storage.NewStore(cfg.Artifacts.Path)
	if err != nil {
		return fmt.Errorf("open artifact store: %w", err)
	}

	engineCfg := cfg.EngineConfig()
	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return err
	}
	engine.SetArtifactStore(artifacts)
	provider := studentstore.NewBreakerProvider(store, cfg.BreakerConfig(), logger)
	engine.SetDataProvider(provider)
	engine.RegisterAlgorithm(recommend.NewPMAlgorithm(engineCfg, logger))
	spm := recommend.NewSPMAlgorithm(engineCfg, logger)
	spm.SetKeyCourseSource(provider)
	engine.RegisterAlgorithm(spm)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithNewCorrelationID(ctx)

	runLog := logging.NewRunLoggerWithLogger(logger, degreeID)
	runLog.RunStarted(ctx, algorithm, "cli")
	start := time.Now()

	results, err := engine.Train(ctx, algorithm, degreeID)
	for i := range results {
		r := &results[i]
		runLog.ModelPublished(ctx, r.Name, r.Version, r.Counts, time.Duration(r.DurationMS)*time.Millisecond)
	}
	if err != nil {
		runLog.RunFailed(ctx, algorithm, err, time.Since(start))
		return err
	}
	runLog.RunCompleted(ctx, len(results), time.Since(start))
	return nil
}
