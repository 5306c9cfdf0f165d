// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/recommend"
)

// Run triggers, as reported in the training logs.
const (
	TriggerSchedule = "schedule"
	TriggerStartup  = "startup"
	TriggerManual   = "manual"
)

// Trainer is the part of the recommendation engine the training service
// drives. *recommend.Engine implements it.
type Trainer interface {
	Train(ctx context.Context, algorithm, degreeID string) ([]recommend.TrainResult, error)
	GetStatus() recommend.TrainingStatus
	SetNextScheduledTraining(t time.Time)
}

// TrainingServiceConfig holds configuration for the training service.
type TrainingServiceConfig struct {
	// DegreeID is the degree trained on schedule and by default on trigger.
	DegreeID string

	// Schedule is a standard cron expression or descriptor ("@daily").
	// When empty, runs repeat every Interval.
	Schedule string

	// Interval is used when Schedule is empty. Default: 24h
	Interval time.Duration

	// OnStartup trains every algorithm once when the service starts.
	OnStartup bool

	// TriggerCooldown is the minimum gap between manual triggers. Zero
	// disables throttling.
	TriggerCooldown time.Duration
}

// CronSpec returns the cron specification the service schedules.
func (c TrainingServiceConfig) CronSpec() string {
	if s := strings.TrimSpace(c.Schedule); s != "" {
		return s
	}
	interval := c.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return "@every " + interval.String()
}

// TrainingService runs scheduled training under supervision and accepts
// manual triggers from the API. Every run trains all algorithms unless a
// trigger names one.
type TrainingService struct {
	trainer  Trainer
	config   TrainingServiceConfig
	schedule cron.Schedule
	limiter  *rate.Limiter
	logger   zerolog.Logger
	runLog   *logging.RunLogger
	name     string

	mu      sync.Mutex
	baseCtx context.Context
	runs    sync.WaitGroup
}

// NewTrainingService creates a training service. It fails on an invalid
// cron expression.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(trainer Trainer, cfg TrainingServiceConfig, logger zerolog.Logger) (*TrainingService, error) {
	schedule, err := cron.ParseStandard(cfg.CronSpec())
	if err != nil {
		return nil, fmt.Errorf("invalid training schedule %q: %w", cfg.CronSpec(), err)
	}

	limit := rate.Inf
	if cfg.TriggerCooldown > 0 {
		limit = rate.Every(cfg.TriggerCooldown)
	}

	logger = logger.With().Str("service", "training").Logger()
	return &TrainingService{
		trainer:  trainer,
		config:   cfg,
		schedule: schedule,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
		runLog:   logging.NewRunLoggerWithLogger(logger, cfg.DegreeID),
		name:     "training-service",
		baseCtx:  context.Background(),
	}, nil
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() {
		s.run(ctx, recommend.AlgorithmAll, s.config.DegreeID, TriggerSchedule)
	}))

	s.trainer.SetNextScheduledTraining(s.schedule.Next(time.Now()))
	s.logger.Info().
		Str("schedule", s.config.CronSpec()).
		Bool("train_on_startup", s.config.OnStartup).
		Msg("training service starting")

	if s.config.OnStartup {
		s.run(ctx, recommend.AlgorithmAll, s.config.DegreeID, TriggerStartup)
	}

	c.Start()
	<-ctx.Done()

	s.logger.Info().Msg("training service shutting down")
	<-c.Stop().Done()
	s.runs.Wait()
	return ctx.Err()
}

// Trigger starts a manual training run in the background. It returns
// recommend.ErrTrainingInProgress when a run is active and
// recommend.ErrTrainingThrottled when called again within the cooldown.
// An empty degreeID selects the configured degree.
func (s *TrainingService) Trigger(algorithm, degreeID string) error {
	if degreeID == "" {
		degreeID = s.config.DegreeID
	}
	if s.trainer.GetStatus().IsTraining {
		s.runLog.RunSkipped(context.Background(), "training already in progress")
		return recommend.ErrTrainingInProgress
	}
	if !s.limiter.Allow() {
		s.runLog.RunSkipped(context.Background(), "manual trigger throttled")
		return recommend.ErrTrainingThrottled
	}

	s.mu.Lock()
	ctx := s.baseCtx
	s.runs.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.runs.Done()
		s.run(ctx, algorithm, degreeID, TriggerManual)
	}()
	return nil
}

// run trains algorithm for degreeID and logs the outcome. The next
// scheduled time is refreshed afterwards.
func (s *TrainingService) run(ctx context.Context, algorithm, degreeID, trigger string) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	start := time.Now()
	s.runLog.RunStarted(ctx, algorithm, trigger)

	results, err := s.trainer.Train(ctx, algorithm, degreeID)
	defer s.trainer.SetNextScheduledTraining(s.schedule.Next(time.Now()))

	if errors.Is(err, recommend.ErrTrainingInProgress) {
		s.runLog.RunSkipped(ctx, "training already in progress")
		return
	}
	for i := range results {
		r := &results[i]
		s.runLog.ModelPublished(ctx, r.Name, r.Version, r.Counts, time.Duration(r.DurationMS)*time.Millisecond)
	}
	if err != nil {
		s.runLog.RunFailed(ctx, algorithm, err, time.Since(start))
		if len(results) == 0 {
			return
		}
	}
	s.runLog.RunCompleted(ctx, len(results), time.Since(start))
}

// String implements fmt.Stringer for suture's logs.
func (s *TrainingService) String() string {
	return s.name
}
