// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

/*
Package services provides suture.Service wrappers for periodic maintenance
of the flow engine's stores.

Each wrapper implements the suture.Service interface with a ticker loop:

	func (s *Service) Serve(ctx context.Context) error {
	    ticker := time.NewTicker(s.config.Interval)
	    defer ticker.Stop()
	    for {
	        select {
	        case <-ctx.Done():
	            return ctx.Err()
	        case <-ticker.C:
	            s.RunOnce()
	        }
	    }
	}

A failed pass is logged and retried on the next tick; it never returns an
error to the supervisor.

# Available Services

GC Service (GCService):
  - Runs badger value-log GC through the GarbageCollector interface
  - Counts outcomes in flow_store_gc_runs_total

Compaction Service (CompactService):
  - Applies pending decay and eviction through the Compactor interface
  - Optional pass on startup

All services implement fmt.Stringer so suture logs them by name.
*/
package services
