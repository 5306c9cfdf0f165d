// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Package importer bulk-loads student records into the student store.
//
// The input is either a JSON array of student objects or newline-delimited
// JSON (one object per line):
//
//	{"id": 7, "degree_id": "2491", "subjects": [{"code": "MAT101", "status": "APR", "grade": 88}]}
//
// Each record is validated with the same rules as PUT
// /api/v1/students/{degree}/{id}; invalid records are counted as skipped and
// the import continues. Records are written with studentstore.SaveStudent, so
// a re-import creates missing plans and merges changed subjects into
// existing ones.
//
// # Progress Tracking
//
// When a ProgressTracker is configured, statistics are saved after every
// batch under the import source name. A later import with Resume set skips
// the records the previous run already processed.
//
//	imp := importer.NewImporter(importer.Config{DegreeID: "2491", Source: "fall.ndjson"}, store, logger)
//	imp.SetProgressTracker(importer.NewStoreProgress(store))
//	stats, err := imp.Import(ctx, file)
package importer
