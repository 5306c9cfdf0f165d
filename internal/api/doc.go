// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

/*
Package api provides the HTTP surface of the CoursePath service.

The router is built with go-chi/chi v5. Every route passes through request
ID propagation, panic recovery, CORS, Prometheus metrics, the in-process
performance monitor and an access log. The /api/v1 group adds per-IP rate
limiting (httprate), security headers, a request body limit and an optional
request timeout.

# Endpoints

Recommendations:
  - POST /api/v1/recommendations/{algorithm}: rank next courses with pm or spm
  - GET  /api/v1/recommendations/status: training state, engine metrics and latency stats

Models:
  - GET  /api/v1/models: stored artifacts
  - POST /api/v1/models/{algorithm}/train: start a training run (pm, spm or all)

Students:
  - GET  /api/v1/degrees/{degreeID}/students: paginated listing (limit, token)
  - GET  /api/v1/degrees/{degreeID}/students/{studentID}
  - PUT  /api/v1/degrees/{degreeID}/students/{studentID}
  - GET  /api/v1/degrees/{degreeID}/students/{studentID}/plan
  - PUT  /api/v1/degrees/{degreeID}/students/{studentID}/plan
  - GET  /api/v1/degrees/{degreeID}/students/{studentID}/logs

Health and metrics:
  - GET /api/v1/health/live
  - GET /api/v1/health/ready
  - GET /metrics

# Responses

Successful responses carry the resource as JSON. Failures carry an
ErrorResponse with a stable machine-readable code:

	{"error": "no valid courses for this student", "code": "NO_DATA", "request_id": "..."}

A student without usable history is not a failure of the service and
answers 422 with code NO_DATA. A recommendation for an algorithm that has
no trained model answers 503 with code MODEL_NOT_LOADED.
*/
package api
