// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

/*
Package main is the entry point for the CoursePath server.

CoursePath recommends the next courses a university student should take,
either from the courses of academically successful peers with a similar
history (pm) or from frequent course sequences mined over the whole
cohort (spm).

# Application Architecture

	RootSupervisor ("coursepath")
	├── DataSupervisor ("data-layer")
	│   └── Student store GC
	├── TrainingSupervisor ("training-layer")
	│   └── Training service (cron schedule and manual triggers)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Startup order:

 1. Configuration: koanf with defaults, an optional YAML file and environment variables
 2. Logging: zerolog, JSON or console
 3. Student store: BadgerDB behind a gobreaker circuit breaker
 4. Engine: pm and spm registered, latest artifacts restored
 5. Supervisor tree: GC, training and HTTP services

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_SHUTDOWN_TIMEOUT, running training is canceled and the store is
closed.

# Example Usage

	export DEGREE_ID=2491
	export STORE_PATH=/data/students
	export MODEL_PATH=/data/models
	export TRAIN_SCHEDULE="30 3 * * *"
	./coursepath
*/
package main
