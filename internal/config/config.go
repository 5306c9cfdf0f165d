// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	engine, err := recommend.NewEngine(cfg.EngineConfig(), logger)
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Store     StoreConfig     `koanf:"store"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Recommend RecommendConfig `koanf:"recommend"`
	Tuning    TuningConfig    `koanf:"tuning"`
	Training  TrainingConfig  `koanf:"training"`
	Cache     CacheConfig     `koanf:"cache"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8080)
//   - HTTP_TIMEOUT: Per-request handler timeout (default: 30s)
//   - HTTP_SHUTDOWN_TIMEOUT: Graceful shutdown deadline (default: 15s)
//   - ENVIRONMENT: development, staging or production (default: development)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development staging production"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds HTTP API cross-cutting settings.
type APIConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1,max=100000"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=1s,lte=1h"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// MaxBodyBytes bounds JSON request bodies.
	// Default: 1MB
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"min=1024"`
}

// StoreConfig holds the BadgerDB student store settings and the circuit
// breaker wrapped around its read paths.
//
// Environment Variables:
//   - STORE_PATH: Badger directory (default: /data/students)
//   - STORE_IN_MEMORY: Keep the store in memory only (default: false)
//   - STORE_GC_INTERVAL: Value-log GC interval (default: 10m)
//   - BREAKER_TIMEOUT: Time the breaker stays open (default: 30s)
type StoreConfig struct {
	Path       string        `koanf:"path" validate:"required_without=InMemory"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval" validate:"gt=0"`
	GCRatio    float64       `koanf:"gc_ratio" validate:"gt=0,lt=1"`

	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests" validate:"min=1"`
	BreakerInterval     time.Duration `koanf:"breaker_interval" validate:"gt=0"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests" validate:"min=1"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio" validate:"gt=0,lte=1"`
}

// ArtifactsConfig holds the trained-model directory.
type ArtifactsConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// RecommendConfig holds the PM and SPM parameters.
//
// Environment Variables:
//   - DEGREE_ID: Default degree program (default: 2491)
//   - GPA_SUCCESS_THRESHOLD: PM reference-cohort GPA (default: 3.6)
//   - SIMILARITY_THRESHOLD: PM peer similarity (default: 0.7)
//   - TOP_K: PM recommendations (default: 5)
//   - MIN_SUPPORT: SPM pattern support (default: 0.20)
//   - MIN_SUPPORT_NEXT: SPM next-item support (default: 0.05)
//   - MAX_PATTERN_LENGTH: SPM pattern length bound (default: 6)
//   - GRADE_MIN_FOR_SPM: SPM grade filter, 0-100 (default: 86)
//   - STATUSES_OK_FOR_SPM: Comma-separated SPM status filter (default: APR)
//   - SPM_TOP_K: SPM recommendations (default: 4)
//   - COHORT_SIZE: SPM simulation cohort (default: 200)
//   - BASELINE_MODE: global or prefix (default: global)
//   - KEY_COURSES: Comma-separated prerequisite catalog (default: empty)
type RecommendConfig struct {
	DegreeID            string   `koanf:"degree_id" validate:"required"`
	GPASuccessThreshold float64  `koanf:"gpa_success_threshold" validate:"gte=0,lte=4"`
	SimilarityThreshold float64  `koanf:"similarity_threshold" validate:"gte=0,lte=1"`
	TopK                int      `koanf:"top_k" validate:"min=1"`
	MinSupport          float64  `koanf:"min_support" validate:"gte=0,lte=1"`
	MinSupportNext      float64  `koanf:"min_support_next" validate:"gte=0,lte=1"`
	MaxPatternLength    int      `koanf:"max_pattern_length" validate:"min=1"`
	GradeMinForSPM      float64  `koanf:"grade_min_for_spm" validate:"gte=0,lte=100"`
	StatusesOKForSPM    []string `koanf:"statuses_ok_for_spm" validate:"min=1,dive,required"`
	SPMTopK             int      `koanf:"spm_top_k" validate:"min=1"`
	CohortSize          int      `koanf:"cohort_size" validate:"min=1"`
	BaselineMode        string   `koanf:"baseline_mode" validate:"oneof=global prefix"`
	KeyCourses          []string `koanf:"key_courses" validate:"dive,required"`

	// MaxK caps the k a request may ask for.
	MaxK              int           `koanf:"max_k" validate:"min=1"`
	PredictionTimeout time.Duration `koanf:"prediction_timeout" validate:"gt=0"`
}

// TuningConfig holds the grids explored after each training run.
//
// Environment Variables:
//   - TUNING_ENABLED: Run tuning after training (default: true)
//   - TUNING_GPA_GRID: Comma-separated PM thresholds (default: 3.4,3.6,3.8)
//   - TUNING_SIM_GRID: Comma-separated PM similarities (default: 0.6,0.7,0.8)
//   - TUNING_SUPPORT_GRID: Comma-separated SPM supports (default: 0.10,0.20,0.30)
//   - TUNING_COHORT_SIZE: Students simulated per PM grid point (default: 200)
//   - TUNING_SEED: Cohort sampling seed (default: 42)
type TuningConfig struct {
	Enabled        bool      `koanf:"enabled"`
	GPAGrid        []float64 `koanf:"gpa_grid" validate:"dive,gte=0,lte=4"`
	SimilarityGrid []float64 `koanf:"sim_grid" validate:"dive,gte=0,lte=1"`
	SupportGrid    []float64 `koanf:"support_grid" validate:"dive,gte=0,lte=1"`
	CohortSize     int       `koanf:"cohort_size" validate:"min=1"`
	Seed           int64     `koanf:"seed"`
}

// TrainingConfig holds the retraining schedule.
//
// Environment Variables:
//   - TRAIN_SCHEDULE: Cron expression; overrides TRAIN_INTERVAL when set
//   - TRAIN_INTERVAL: Interval between scheduled runs (default: 24h)
//   - TRAIN_ON_STARTUP: Train once when the server starts (default: false)
//   - TRAIN_TIMEOUT: Maximum duration of one run (default: 30m)
//   - TRAIN_RETAIN_VERSIONS: Artifact versions kept per model (default: 3)
//   - TRAIN_TRIGGER_COOLDOWN: Minimum gap between manual triggers (default: 1m)
type TrainingConfig struct {
	Schedule        string        `koanf:"schedule"`
	Interval        time.Duration `koanf:"interval" validate:"gt=0"`
	OnStartup       bool          `koanf:"on_startup"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	RetainVersions  int           `koanf:"retain_versions" validate:"min=1"`
	TriggerCooldown time.Duration `koanf:"trigger_cooldown" validate:"gte=0"`
}

// CacheConfig holds the response cache settings.
type CacheConfig struct {
	Enabled           bool          `koanf:"enabled"`
	TTL               time.Duration `koanf:"ttl" validate:"gt=0"`
	MaxEntries        int           `koanf:"max_entries" validate:"min=1"`
	InvalidateOnTrain bool          `koanf:"invalidate_on_train"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration using the following precedence (highest first):
//  1. Environment variables
//  2. Config file (CONFIG_PATH, config.yaml or /etc/coursepath/config.yaml)
//  3. Built-in defaults
func Load() (*Config, error) {
	return LoadWithKoanf()
}
