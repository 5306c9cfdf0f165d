// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

/*
Package middleware provides chi-compatible HTTP middleware for the API.

Key Components:

  - RequestID: UUID request IDs, echoed in X-Request-ID and stored in the
    logging context together with a fresh correlation ID
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - Compression: gzip for clients sending Accept-Encoding: gzip
  - PerformanceMonitor: sliding-window latency percentiles per route

Every middleware has the func(http.Handler) http.Handler shape:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)
	r.Use(middleware.Compression)

Route labels are read after the next handler ran, so the metrics and the
performance monitor must be installed on the router, not around it.
Requests that match no route are labelled "unmatched".
*/
package middleware
