// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package studentstore

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/coursepath/internal/metrics"
	"github.com/tomtom215/coursepath/internal/records"
)

// BreakerConfig configures the circuit breaker in front of store reads.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32        // requests allowed in half-open state
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open-state wait before half-open
	MinRequests  uint32        // requests needed before the ratio is considered
	FailureRatio float64
}

// DefaultBreakerConfig returns the breaker settings used by the server.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "student-store",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerProvider serves student records to the recommendation engine through
// a circuit breaker, and records served recommendations.
//
// A missing student is a successful read and never trips the breaker.
type BreakerProvider struct {
	store  *Store
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger zerolog.Logger
}

// NewBreakerProvider wraps store reads with a circuit breaker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerProvider(store *Store, cfg BreakerConfig, logger zerolog.Logger) *BreakerProvider {
	if cfg.Name == "" {
		cfg.Name = DefaultBreakerConfig().Name
	}
	p := &BreakerProvider{
		store:  store,
		name:   cfg.Name,
		logger: logger.With().Str("component", "breaker").Str("breaker", cfg.Name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	p.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				p.logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("opening circuit")
				return true
			}
			return false
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			p.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return p
}

// GetStudent returns a student record. found is false when the student does
// not exist in the degree.
func (p *BreakerProvider) GetStudent(ctx context.Context, degreeID string, studentID int) (records.Student, bool, error) {
	res, err := p.execute(func() (any, error) {
		return p.store.GetStudent(ctx, degreeID, studentID)
	})
	if errors.Is(err, ErrNotFound) {
		return records.Student{}, false, nil
	}
	if err != nil {
		return records.Student{}, false, err
	}
	item, ok := res.(*StudentItem)
	if !ok || item == nil {
		return records.Student{}, false, nil
	}
	return item.Student(), true, nil
}

// ListStudents returns every student record of a degree.
func (p *BreakerProvider) ListStudents(ctx context.Context, degreeID string) ([]records.Student, error) {
	res, err := p.execute(func() (any, error) {
		return p.store.ListStudents(ctx, degreeID)
	})
	if err != nil {
		return nil, err
	}
	items, _ := res.([]StudentItem) //nolint:errcheck // type is fixed by the closure above
	out := make([]records.Student, len(items))
	for i := range items {
		out[i] = items[i].Student()
	}
	return out, nil
}

// KeyCourses returns the prerequisite codes stored for a degree.
func (p *BreakerProvider) KeyCourses(ctx context.Context, degreeID string) ([]string, error) {
	res, err := p.execute(func() (any, error) {
		return p.store.KeyCourses(ctx, degreeID)
	})
	if err != nil {
		return nil, err
	}
	codes, _ := res.([]string) //nolint:errcheck // type is fixed by the closure above
	return codes, nil
}

// LogRecommendation appends to the student's log. Writes bypass the breaker.
func (p *BreakerProvider) LogRecommendation(ctx context.Context, degreeID string, studentID int, algorithm string, params map[string]any, subjects []string) error {
	return p.store.LogRecommendation(ctx, degreeID, studentID, algorithm, params, subjects)
}

// State returns the current breaker state name.
func (p *BreakerProvider) State() string {
	return stateToString(p.cb.State())
}

// execute runs fn through the breaker and updates metrics.
func (p *BreakerProvider) execute(fn func() (any, error)) (any, error) {
	res, err := p.cb.Execute(fn)
	switch {
	case err == nil || errors.Is(err, ErrNotFound):
		metrics.CircuitBreakerRequests.WithLabelValues(p.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(p.name, "rejected").Inc()
		p.logger.Warn().Err(err).Msg("request rejected")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(p.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(p.name).Set(float64(p.cb.Counts().ConsecutiveFailures))
	}
	return res, err
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
