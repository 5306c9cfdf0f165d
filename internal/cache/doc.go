// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Package cache provides a generic, thread-safe LRU cache with TTL.
//
// The recommendation engine keeps served responses in an LRU keyed by
// algorithm, degree, student and request parameters:
//
//	responses := cache.NewLRU[*Response](cfg.MaxEntries, cfg.TTL)
//	responses.Add(key, resp)
//	if resp, ok := responses.Get(key); ok {
//	    // cache hit
//	}
//
// Entries of one student are dropped with RemoveFunc when the student's
// record changes, and the whole cache is cleared after a training run.
package cache
