// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package supervisor

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/flowengine/internal/logging"
)

// Components are the long-running services of the flow engine.
// Recorder is required; the maintenance services are optional.
type Components struct {
	Recorder suture.Service
	GC       suture.Service
	Compact  suture.Service
}

// NewFlowTree builds the tree with components placed in their layers.
// Supervisor events are logged through logger via the slog bridge.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFlowTree(logger zerolog.Logger, config TreeConfig, c Components) (*SupervisorTree, error) {
	if c.Recorder == nil {
		return nil, errors.New("recorder service is required")
	}

	slogger := logging.NewSlogLogger(logger.With().Str("component", "supervisor").Logger())
	tree, err := NewSupervisorTree(slogger, config)
	if err != nil {
		return nil, err
	}

	tree.AddDataService(c.Recorder)
	if c.GC != nil {
		tree.AddMaintenanceService(c.GC)
	}
	if c.Compact != nil {
		tree.AddMaintenanceService(c.Compact)
	}
	return tree, nil
}
