// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

/*
Package supervisor provides process supervision for the flow engine using suture v4.

The tree organizes long-running services into two layers for failure isolation:

	RootSupervisor ("flowengine")
	├── DataSupervisor ("data-layer")
	│   └── recorder.Recorder ("signal-recorder")
	└── MaintenanceSupervisor ("maintenance-layer")
	    ├── services.GCService ("store-gc-service")
	    └── services.CompactService ("interest-compact-service")

A crashing maintenance pass is restarted with backoff without touching the
recorder, so signals keep flowing while upkeep recovers.

# Usage

	tree, err := supervisor.NewFlowTree(logger, cfg.Supervisor, supervisor.Components{
	    Recorder: rec,
	    GC:       services.NewGCService(store, gcCfg, logger),
	    Compact:  services.NewCompactService(engine, compactCfg, logger),
	})
	if err != nil {
	    return err
	}
	errCh := tree.ServeBackground(ctx)

Cancelling ctx stops every service. The recorder drains its queue before
returning, so ShutdownTimeout must exceed the recorder's drain timeout.

# Logging

Supervisor events (service panics, failures, backoff) are logged through
sutureslog. NewFlowTree bridges them to zerolog with logging.NewSlogLogger.
*/
package supervisor
