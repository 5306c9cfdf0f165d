// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Package storage persists trained recommendation artifacts.
//
// Each artifact is written once per training run under a monotonically
// increasing version, so a deployment can roll back or compare runs.
//
// # Storage Format
//
//	filename: {name}_v{version}.json.gz
//
//	structure (gzip-compressed JSON):
//	  - metadata (ModelMetadata)
//	  - payload (the artifact document)
//
// The SHA-256 of the payload bytes is recorded in the metadata when saving
// and checked again when loading, so a truncated or edited file is rejected
// instead of producing wrong recommendations.
//
// Artifact names follow "{algorithm}-{degree}", for example pm-2491 and
// spm-2491.
//
// # Usage
//
//	store, err := storage.NewStore("/data/models")
//	if err != nil {
//	    return err
//	}
//
//	version := store.NextVersion("pm-2491")
//	err = store.Save(ctx, "pm-2491", version, artifact, storage.ModelMetadata{
//	    Algorithm: "pm",
//	    DegreeID:  "2491",
//	    TrainedAt: time.Now(),
//	})
//
//	var loaded PMArtifact
//	meta, err := store.Load(ctx, "pm-2491", 0, &loaded) // 0 = latest
//
// # Thread Safety
//
// Save, Delete and Prune take the write lock. Load and ListModels share the
// read lock.
package storage
