// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

/*
Package services provides suture.Service wrappers for CoursePath components.

Each wrapper implements Serve(ctx context.Context) error, returns when the
context is canceled and names itself through fmt.Stringer for suture's
event logs.

# Available Services

HTTPServerService runs the API server and shuts it down gracefully within
a timeout when the tree stops.

TrainingService trains models on a robfig/cron schedule (a cron expression
or an "@every" interval), optionally once at startup, and accepts manual
triggers from the API. Manual triggers are throttled with a
golang.org/x/time/rate limiter and refused while a run is active. Each run
gets its own correlation ID in the training logs.

StoreGCService runs Badger value log garbage collection on the student
store at a fixed interval.

# Usage

	trainer, err := services.NewTrainingService(engine, services.TrainingServiceConfig{
	    DegreeID:        cfg.Recommend.DegreeID,
	    Schedule:        cfg.Training.Schedule,
	    Interval:        cfg.Training.Interval,
	    OnStartup:       cfg.Training.OnStartup,
	    TriggerCooldown: cfg.Training.TriggerCooldown,
	}, logger)
	if err != nil {
	    return err
	}
	tree.AddTrainingService(trainer)
	tree.AddDataService(services.NewStoreGCService(store, cfg.Store.GCInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
*/
package services
