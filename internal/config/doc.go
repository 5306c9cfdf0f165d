// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

/*
Package config provides centralized configuration management for CoursePath.

Settings are loaded with Koanf v2 in three layers: built-in defaults, an
optional YAML file, then environment variables. Field bounds are declared
as validator tags and checked through internal/validation; rules spanning
several fields (cron schedule, max k, log level) are checked afterwards,
followed by the engine's own Validate.

# Environment Variables

Recommendation (RecommendConfig):
  - DEGREE_ID, GPA_SUCCESS_THRESHOLD, SIMILARITY_THRESHOLD, TOP_K
  - MIN_SUPPORT, MIN_SUPPORT_NEXT, MAX_PATTERN_LENGTH
  - GRADE_MIN_FOR_SPM, STATUSES_OK_FOR_SPM, SPM_TOP_K, COHORT_SIZE, BASELINE_MODE
  - KEY_COURSES, RECOMMEND_MAX_K, PREDICTION_TIMEOUT

Tuning (TuningConfig):
  - TUNING_ENABLED, TUNING_GPA_GRID, TUNING_SIM_GRID, TUNING_SUPPORT_GRID
  - TUNING_COHORT_SIZE, TUNING_SEED

Training (TrainingConfig):
  - TRAIN_SCHEDULE, TRAIN_INTERVAL, TRAIN_ON_STARTUP, TRAIN_TIMEOUT
  - TRAIN_RETAIN_VERSIONS, TRAIN_TRIGGER_COOLDOWN

Storage (StoreConfig, ArtifactsConfig):
  - STORE_PATH, STORE_IN_MEMORY, STORE_SYNC_WRITES, STORE_GC_INTERVAL, STORE_GC_RATIO
  - BREAKER_MAX_REQUESTS, BREAKER_INTERVAL, BREAKER_TIMEOUT
  - BREAKER_MIN_REQUESTS, BREAKER_FAILURE_RATIO
  - MODEL_PATH

HTTP (ServerConfig, APIConfig):
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT, ENVIRONMENT
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - API_MAX_BODY_BYTES

Cache and logging:
  - CACHE_ENABLED, CACHE_TTL, CACHE_MAX_ENTRIES, CACHE_INVALIDATE_ON_TRAIN
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

List values (grids, statuses, key courses, CORS origins) are comma-separated
in the environment and plain YAML sequences in a config file.

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load config")
	}
	engine, err := recommend.NewEngine(cfg.EngineConfig(), logger)

A YAML file uses the koanf paths:

	recommend:
	  degree_id: "2491"
	  key_courses: [MAT101, FIS101]
	tuning:
	  gpa_grid: [3.2, 3.6]
	training:
	  schedule: "0 3 * * *"

The Config struct is immutable after Load() returns.
*/
package config
