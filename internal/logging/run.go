// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RunLogger logs the lifecycle of training runs. Every line carries the
// component, the degree and, when present in the context, the correlation ID
// of the run.
type RunLogger struct {
	logger zerolog.Logger
}

// NewRunLogger creates a run logger on top of the global logger.
func NewRunLogger(degreeID string) *RunLogger {
	return NewRunLoggerWithLogger(Logger(), degreeID)
}

// NewRunLoggerWithLogger creates a run logger writing to logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRunLoggerWithLogger(logger zerolog.Logger, degreeID string) *RunLogger {
	return &RunLogger{
		logger: logger.With().Str("component", "training").Str("degree_id", degreeID).Logger(),
	}
}

func (r *RunLogger) withContext(ctx context.Context) zerolog.Logger {
	logCtx := r.logger.With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	return logCtx.Logger()
}

// RunStarted logs the start of a run. trigger is "schedule", "manual" or "startup".
func (r *RunLogger) RunStarted(ctx context.Context, algorithm, trigger string) {
	l := r.withContext(ctx)
	l.Info().Str("algorithm", algorithm).Str("trigger", trigger).Msg("training run started")
}

// ModelPublished logs one trained and published model.
func (r *RunLogger) ModelPublished(ctx context.Context, name string, version int, counts map[string]int, d time.Duration) {
	l := r.withContext(ctx)
	ev := l.Info().Str("model", name).Int("version", version).Dur("duration", d)
	for k, v := range counts {
		ev = ev.Int(k, v)
	}
	ev.Msg("model published")
}

// RunFailed logs a run that published nothing or partially failed.
func (r *RunLogger) RunFailed(ctx context.Context, algorithm string, err error, d time.Duration) {
	l := r.withContext(ctx)
	l.Error().Err(err).Str("algorithm", algorithm).Dur("duration", d).Msg("training run failed")
}

// RunSkipped logs a trigger ignored because another run is active or the
// trigger was throttled.
func (r *RunLogger) RunSkipped(ctx context.Context, reason string) {
	l := r.withContext(ctx)
	l.Warn().Str("reason", reason).Msg("training run skipped")
}

// RunCompleted logs the end of a run.
func (r *RunLogger) RunCompleted(ctx context.Context, models int, d time.Duration) {
	l := r.withContext(ctx)
	l.Info().Int("models", models).Dur("duration", d).Msg("training run completed")
}
