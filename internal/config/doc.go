// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

/*
Package config provides centralized configuration management for the flow engine.

Configuration is layered with koanf v2, each layer overriding the previous:

 1. Defaults copied from each component's DefaultConfig
 2. An optional YAML file: an explicit path, else CONFIG_PATH, else the
    first of flow.yaml, flow.yml, config.yaml, config.yml
 3. Environment variables prefixed FLOW_

# Environment Variables

Names map to config paths by section:

	FLOW_STORE_PATH=/data/flow            -> store.path
	FLOW_STORE_IN_MEMORY=true             -> store.in_memory
	FLOW_STORE_BREAKER_ENABLED=false      -> store.breaker.enabled
	FLOW_INTEREST_DECAY_FACTOR=0.9        -> interest.decay_factor
	FLOW_INTEREST_BOOSTS_LIKE=2           -> interest.boosts.like
	FLOW_INTEREST_DISCOVERY_MODIFIERS=a,b -> interest.discovery.modifiers
	FLOW_BRAIN_PERSONAS_SAGE=1000         -> brain.personas.sage
	FLOW_RECORDER_QUEUE_SIZE=512          -> recorder.queue_size
	FLOW_LOGGING_LEVEL=debug              -> logging.level

# Example YAML

	store:
	  path: /var/lib/flow
	  gc_interval: 30m
	interest:
	  decay_factor: 0.95
	  boosts:
	    like: 1.5
	brain:
	  alpha: 0.1
	recorder:
	  queue_size: 256
	  drain_timeout: 5s
	logging:
	  level: info
	  format: console

# Validation

Load validates struct tags through the validation package and a few
cross-field rules (watch boosts ordered, shutdown timeout above the
recorder drain timeout). The accessor methods (KVStore, InterestEngine,
BrainModel, SignalRecorder, Tree, GCService, CompactService, Log) convert
the loaded values into each component's own Config type.
*/
package config
