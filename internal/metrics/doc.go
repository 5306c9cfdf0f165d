// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry at package init through
promauto and exported at /metrics by the API router.

# Available Metrics

Student Store Metrics:
  - student_store_operation_duration_seconds (histogram)
    Labels: operation (get, put, query, query_all, append_log)
  - student_store_errors_total (counter)
    Labels: operation, error_type
  - student_store_malformed_items_total (counter)

API Metrics:
  - api_requests_total (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds (histogram)
    Labels: method, endpoint
  - api_active_requests (gauge)
  - api_rate_limit_hits_total (counter)
    Labels: endpoint

Recommendation Metrics:
  - recommendation_requests_total (counter)
    Labels: algorithm, outcome (ok, empty, error)
  - recommendation_duration_seconds (histogram)
    Labels: algorithm
  - recommendation_cache_hits_total, recommendation_cache_misses_total (counters)

Training Metrics:
  - training_runs_total (counter)
    Labels: algorithm, status (success, failure)
  - training_duration_seconds (histogram)
    Labels: algorithm
  - training_last_success_timestamp (gauge)
    Labels: algorithm
  - model_version (gauge)
    Labels: name (pm-2491, spm-2491, ...)
  - training_population_students (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state (gauge), 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total (counter)

# Usage Example

	start := time.Now()
	err := store.Put(ctx, item)
	metrics.RecordStoreOperation("put", time.Since(start), err)

# Prometheus Configuration

	scrape_configs:
	  - job_name: 'coursepath'
	    static_configs:
	      - targets: ['localhost:8080']
	    metrics_path: '/metrics'
	    scrape_interval: 15s
*/
package metrics
