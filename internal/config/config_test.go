// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/flowengine/internal/brain"
	"github.com/tomtom215/flowengine/internal/interest"
	"github.com/tomtom215/flowengine/internal/recorder"
)

// isolate runs the test from an empty directory so no stray config file is found.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(ConfigPathEnvVar, "")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	if err := cfg.InterestEngine().Validate(); err != nil {
		t.Errorf("InterestEngine() invalid: %v", err)
	}
	if err := cfg.BrainModel().Validate(); err != nil {
		t.Errorf("BrainModel() invalid: %v", err)
	}
	if err := cfg.SignalRecorder().Validate(); err != nil {
		t.Errorf("SignalRecorder() invalid: %v", err)
	}
	kv := cfg.KVStore()
	if err := kv.Validate(); err != nil {
		t.Errorf("KVStore() invalid: %v", err)
	}
}

func TestDefaultConfigMatchesComponents(t *testing.T) {
	cfg := defaultConfig()

	if got, want := cfg.InterestEngine(), interest.DefaultConfig(); !reflect.DeepEqual(got, want) {
		t.Errorf("InterestEngine() = %+v, want %+v", got, want)
	}
	if got, want := cfg.BrainModel(), brain.DefaultConfig(); !reflect.DeepEqual(got, want) {
		t.Errorf("BrainModel() = %+v, want %+v", got, want)
	}
	if got, want := cfg.SignalRecorder(), recorder.DefaultConfig(); !reflect.DeepEqual(got, want) {
		t.Errorf("SignalRecorder() = %+v, want %+v", got, want)
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Path != "data/flow" {
		t.Errorf("Store.Path = %q, want data/flow", cfg.Store.Path)
	}
	if cfg.Recorder.DrainTimeout != 5*time.Second {
		t.Errorf("Recorder.DrainTimeout = %v, want 5s", cfg.Recorder.DrainTimeout)
	}
	if len(cfg.Interest.Discovery.Modifiers) == 0 {
		t.Error("Discovery.Modifiers lost in the defaults round trip")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "flow.yaml"), `
store:
  path: /var/lib/flow
  breaker:
    failure_threshold: 9
interest:
  decay_factor: 0.9
  boosts:
    like: 3
  discovery:
    modifiers: [fresh, classic]
brain:
  personas:
    sage: 1000
recorder:
  drain_timeout: 2s
logging:
  format: console
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Path != "/var/lib/flow" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Store.Breaker.FailureThreshold != 9 {
		t.Errorf("Breaker.FailureThreshold = %d, want 9", cfg.Store.Breaker.FailureThreshold)
	}
	if !cfg.Store.Breaker.Enabled {
		t.Error("unset Breaker.Enabled lost its default")
	}
	if cfg.Interest.DecayFactor != 0.9 || cfg.Interest.Boosts.Like != 3 {
		t.Errorf("Interest = %+v", cfg.Interest)
	}
	if !reflect.DeepEqual(cfg.Interest.Discovery.Modifiers, []string{"fresh", "classic"}) {
		t.Errorf("Modifiers = %v", cfg.Interest.Discovery.Modifiers)
	}
	if cfg.Brain.Personas.Sage != 1000 || cfg.Brain.Personas.Explorer != 10 {
		t.Errorf("Personas = %+v", cfg.Brain.Personas)
	}
	if cfg.Recorder.DrainTimeout != 2*time.Second {
		t.Errorf("DrainTimeout = %v, want 2s", cfg.Recorder.DrainTimeout)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
}

func TestLoad_ExplicitAndEnvPath(t *testing.T) {
	dir := isolate(t)
	custom := filepath.Join(dir, "custom.yaml")
	writeFile(t, custom, "store:\n  path: /from/custom\n")

	cfg, err := Load(custom)
	if err != nil {
		t.Fatalf("Load(custom) error = %v", err)
	}
	if cfg.Store.Path != "/from/custom" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}

	t.Setenv(ConfigPathEnvVar, custom)
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() via CONFIG_PATH error = %v", err)
	}
	if cfg.Store.Path != "/from/custom" {
		t.Errorf("Store.Path via CONFIG_PATH = %q", cfg.Store.Path)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing explicit file accepted")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.yaml"), "store:\n  path: /from/file\n")

	t.Setenv("FLOW_STORE_PATH", "/from/env")
	t.Setenv("FLOW_STORE_IN_MEMORY", "true")
	t.Setenv("FLOW_STORE_BREAKER_ENABLED", "false")
	t.Setenv("FLOW_INTEREST_BOOSTS_SEARCH", "1.25")
	t.Setenv("FLOW_INTEREST_DISCOVERY_MODIFIERS", " weird , wonderful ,")
	t.Setenv("FLOW_BRAIN_ALPHA", "0.2")
	t.Setenv("FLOW_RECORDER_QUEUE_SIZE", "512")
	t.Setenv("FLOW_LOGGING_LEVEL", "debug")
	t.Setenv("FLOW_UNRELATED_SETTING", "ignored")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Path != "/from/env" || !cfg.Store.InMemory || cfg.Store.Breaker.Enabled {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Interest.Boosts.Search != 1.25 {
		t.Errorf("Boosts.Search = %v, want 1.25", cfg.Interest.Boosts.Search)
	}
	if !reflect.DeepEqual(cfg.Interest.Discovery.Modifiers, []string{"weird", "wonderful"}) {
		t.Errorf("Modifiers = %q", cfg.Interest.Discovery.Modifiers)
	}
	if cfg.Brain.Alpha != 0.2 {
		t.Errorf("Brain.Alpha = %v", cfg.Brain.Alpha)
	}
	if cfg.Recorder.QueueSize != 512 {
		t.Errorf("Recorder.QueueSize = %d", cfg.Recorder.QueueSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"decay above one", map[string]string{"FLOW_INTEREST_DECAY_FACTOR": "1.5"}, "DecayFactor"},
		{"bad log level", map[string]string{"FLOW_LOGGING_LEVEL": "loud"}, "Level"},
		{"zero workers", map[string]string{"FLOW_RECORDER_WORKERS": "0"}, "Workers"},
		{"unordered personas", map[string]string{"FLOW_BRAIN_PERSONAS_ENTHUSIAST": "5"}, "Enthusiast"},
		{"empty path on disk", map[string]string{"FLOW_STORE_PATH": ""}, "Path"},
		{"shutdown shorter than drain", map[string]string{"FLOW_SUPERVISOR_SHUTDOWN_TIMEOUT": "1s"}, "drain_timeout"},
		{"boosts out of order", map[string]string{"FLOW_INTEREST_BOOSTS_WATCH_GLANCE": "5"}, "non-decreasing"},
		{"burst required", map[string]string{"FLOW_RECORDER_BURST": "0"}, "burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FLOW_STORE_PATH", "store.path"},
		{"FLOW_STORE_GC_INTERVAL", "store.gc_interval"},
		{"FLOW_STORE_BREAKER_OPEN_TIMEOUT", "store.breaker.open_timeout"},
		{"FLOW_INTEREST_MAX_TOPICS", "interest.max_topics"},
		{"FLOW_INTEREST_AFFINITY_SUBSCRIBE", "interest.affinity.subscribe"},
		{"FLOW_BRAIN_PERSONAS_EXPLORER", "brain.personas.explorer"},
		{"FLOW_SUPERVISOR_FAILURE_BACKOFF", "supervisor.failure_backoff"},
		{"FLOW_STORE", ""},
		{"FLOW_NOPE_X", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAccessors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Store.GCInterval = time.Minute
	cfg.Interest.CompactInterval = 2 * time.Hour
	cfg.Logging.Level = "warn"

	if got := cfg.GCService(); got.Interval != time.Minute || got.Ratio != cfg.Store.GCRatio {
		t.Errorf("GCService() = %+v", got)
	}
	if got := cfg.CompactService(); got.Interval != 2*time.Hour || !got.CompactOnStartup {
		t.Errorf("CompactService() = %+v", got)
	}
	if got := cfg.Tree(); got.ShutdownTimeout != cfg.Supervisor.ShutdownTimeout {
		t.Errorf("Tree() = %+v", got)
	}
	if got := cfg.Log(); got.Level != "warn" || got.Output == nil {
		t.Errorf("Log() = %+v", got)
	}

	// Modifiers are copied, not shared.
	ic := cfg.InterestEngine()
	ic.Discovery.Modifiers[0] = "changed"
	if cfg.Interest.Discovery.Modifiers[0] == "changed" {
		t.Error("InterestEngine() shares the modifiers slice")
	}
}
