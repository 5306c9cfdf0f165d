// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/coursepath/config.yaml",
	"/etc/coursepath/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			MaxBodyBytes:    1 << 20,
		},
		Store: StoreConfig{
			Path:                "/data/students",
			GCInterval:          10 * time.Minute,
			GCRatio:             0.5,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Artifacts: ArtifactsConfig{
			Path: "/data/models",
		},
		Recommend: RecommendConfig{
			DegreeID:            "2491",
			GPASuccessThreshold: 3.6,
			SimilarityThreshold: 0.7,
			TopK:                5,
			MinSupport:          0.20,
			MinSupportNext:      0.05,
			MaxPatternLength:    6,
			GradeMinForSPM:      86,
			StatusesOKForSPM:    []string{"APR"},
			SPMTopK:             4,
			CohortSize:          200,
			BaselineMode:        "global",
			KeyCourses:          []string{},
			MaxK:                50,
			PredictionTimeout:   10 * time.Second,
		},
		Tuning: TuningConfig{
			Enabled:        true,
			GPAGrid:        []float64{3.4, 3.6, 3.8},
			SimilarityGrid: []float64{0.6, 0.7, 0.8},
			SupportGrid:    []float64{0.10, 0.20, 0.30},
			CohortSize:     200,
			Seed:           42,
		},
		Training: TrainingConfig{
			Interval:        24 * time.Hour,
			Timeout:         30 * time.Minute,
			RetainVersions:  3,
			TriggerCooldown: time.Minute,
		},
		Cache: CacheConfig{
			Enabled:           true,
			TTL:               5 * time.Minute,
			MaxEntries:        10000,
			InvalidateOnTrain: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables (highest priority)
	// GPA_SUCCESS_THRESHOLD -> recommend.gpa_success_threshold
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"api.cors_origins",
	"recommend.statuses_ok_for_spm",
	"recommend.key_courses",
	"tuning.gpa_grid",
	"tuning.sim_grid",
	"tuning.support_grid",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings while the config expects slices. An explicitly
// empty value clears the slice.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		trimmed := []string{}
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server mappings
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// API mappings
	"cors_origins":        "api.cors_origins",
	"rate_limit_requests": "api.rate_limit_reqs",
	"rate_limit_window":   "api.rate_limit_window",
	"disable_rate_limit":  "api.rate_limit_disabled",
	"api_max_body_bytes":  "api.max_body_bytes",

	// Student store mappings
	"store_path":            "store.path",
	"store_in_memory":       "store.in_memory",
	"store_sync_writes":     "store.sync_writes",
	"store_gc_interval":     "store.gc_interval",
	"store_gc_ratio":        "store.gc_ratio",
	"breaker_max_requests":  "store.breaker_max_requests",
	"breaker_interval":      "store.breaker_interval",
	"breaker_timeout":       "store.breaker_timeout",
	"breaker_min_requests":  "store.breaker_min_requests",
	"breaker_failure_ratio": "store.breaker_failure_ratio",

	// Artifact mappings
	"model_path": "artifacts.path",

	// Recommendation mappings
	"degree_id":             "recommend.degree_id",
	"gpa_success_threshold": "recommend.gpa_success_threshold",
	"similarity_threshold":  "recommend.similarity_threshold",
	"top_k":                 "recommend.top_k",
	"min_support":           "recommend.min_support",
	"min_support_next":      "recommend.min_support_next",
	"max_pattern_length":    "recommend.max_pattern_length",
	"grade_min_for_spm":     "recommend.grade_min_for_spm",
	"statuses_ok_for_spm":   "recommend.statuses_ok_for_spm",
	"spm_top_k":             "recommend.spm_top_k",
	"cohort_size":           "recommend.cohort_size",
	"baseline_mode":         "recommend.baseline_mode",
	"key_courses":           "recommend.key_courses",
	"recommend_max_k":       "recommend.max_k",
	"prediction_timeout":    "recommend.prediction_timeout",

	// Tuning mappings
	"tuning_enabled":      "tuning.enabled",
	"tuning_gpa_grid":     "tuning.gpa_grid",
	"tuning_sim_grid":     "tuning.sim_grid",
	"tuning_support_grid": "tuning.support_grid",
	"tuning_cohort_size":  "tuning.cohort_size",
	"tuning_seed":         "tuning.seed",

	// Training mappings
	"train_schedule":         "training.schedule",
	"train_interval":         "training.interval",
	"train_on_startup":       "training.on_startup",
	"train_timeout":          "training.timeout",
	"train_retain_versions":  "training.retain_versions",
	"train_trigger_cooldown": "training.trigger_cooldown",

	// Cache mappings
	"cache_enabled":             "cache.enabled",
	"cache_ttl":                 "cache.ttl",
	"cache_max_entries":         "cache.max_entries",
	"cache_invalidate_on_train": "cache.invalidate_on_train",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DEGREE_ID -> recommend.degree_id
//   - TUNING_SIM_GRID -> tuning.sim_grid
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Returning "" skips the variable so unrelated environment does not
	// pollute the config.
	return ""
}

// GetKoanfInstance returns a new Koanf instance for advanced usage.
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}
