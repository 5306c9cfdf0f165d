// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

/*
Package supervisor provides process supervision for CoursePath using suture v4.

Long-running services are organized into a tree with one child supervisor
per layer:

	RootSupervisor ("coursepath")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService
	├── TrainingSupervisor ("training-layer")
	│   └── TrainingService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once failures exceed the
threshold; failures decay over FailureDecay seconds. Supervisor events are
written through log/slog with sutureslog, bridged to zerolog by
logging.NewSlogLogger.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 15*time.Second, logger))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}
*/
package supervisor
