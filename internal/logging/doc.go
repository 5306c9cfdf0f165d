// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Package logging provides centralized zerolog-based structured logging for CoursePath.
//
// JSON output is the production default; console output is available for
// development. All packages log through the global logger configured here.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("degree_id", "2491").Msg("Server starting")
//	logging.Error().Err(err).Int("student_id", id).Msg("Recommendation failed")
//
//	// Correlation and request IDs travel in the context
//	logging.Ctx(ctx).Info().Msg("Processing")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Component Loggers
//
//	storeLogger := logging.WithComponent("studentstore")
//	storeLogger.Warn().Str("key", key).Msg("Skipping malformed item")
//
// # Training Runs
//
// RunLogger emits the lifecycle of a training run (started, model published,
// failed, skipped, completed) with a shared correlation ID:
//
//	rl := logging.NewRunLogger(degreeID)
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	rl.RunStarted(ctx, "all", "schedule")
//
// # slog Adapter
//
// Suture v4 logs through slog. NewSlogLogger bridges it to zerolog:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger("supervisor")}
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//
// All exported functions are safe for concurrent use.
package logging
