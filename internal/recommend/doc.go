// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Package recommend trains and serves next-course recommendations for the
// students of a degree program.
//
// # Architecture
//
// Two strategies are registered with the Engine:
//
//   - PM: successful peers whose footprint is similar to the student's
//     trajectory vote for the courses of their next term.
//   - SPM: frequent term patterns mined from the cohort propose the next
//     courses of the longest pattern the student fully completed.
//
// Training reads the whole population of a degree through a DataProvider,
// builds an artifact per strategy (see PMArtifact and SPMArtifact) and saves
// it as a new version in the artifact store. Inference loads the latest
// artifact lazily and keeps it in memory until the next training run swaps
// it out.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, logger)
//	engine.SetDataProvider(provider)
//	engine.SetArtifactStore(store)
//	engine.RegisterAlgorithm(recommend.NewPMAlgorithm(cfg, logger))
//	engine.RegisterAlgorithm(recommend.NewSPMAlgorithm(cfg, logger))
//
//	if _, err := engine.Train(ctx, recommend.AlgorithmAll, cfg.DegreeID); err != nil {
//	    return err
//	}
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Algorithm: "pm",
//	    StudentID: 1001,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Only one training run may execute
// at a time; a second caller gets ErrTrainingInProgress instead of waiting.
// Loaded models are immutable and swapped under a write lock, so inference
// only ever takes a read lock.
package recommend
