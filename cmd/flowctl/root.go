// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/flowengine/internal/brain"
	"github.com/tomtom215/flowengine/internal/config"
	"github.com/tomtom215/flowengine/internal/interest"
	"github.com/tomtom215/flowengine/internal/kvstore"
	"github.com/tomtom215/flowengine/internal/logging"
	"github.com/tomtom215/flowengine/internal/recorder"
)

// Version is set at build time.
var Version = "0.1.0"

// app holds global flags and the components opened for one command.
type app struct {
	// Global flags
	configPath  string
	storePath   string
	inMemory    bool
	logLevel    string
	jsonOutput  bool
	hour        int
	dumpMetrics bool

	cfg      *config.Config
	logger   zerolog.Logger
	badger   *kvstore.BadgerStore
	store    kvstore.Store
	engine   *interest.Engine
	brain    *brain.Brain
	recorder *recorder.Recorder

	now func() time.Time
}

type runFunc func(ctx context.Context, cmd *cobra.Command, args []string) error

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "flowctl",
		Short: "Local interest engine for a streaming client",
		Long: `flowctl records viewing signals into a local interest model and queries it.

Watches, likes, subscriptions and searches update decaying topic scores,
keyword scores, channel affinity and a time-of-day personality model, all
kept in an on-device key-value store. The model scores candidate content
and generates discovery search queries.

Configuration is read from flow.yaml (or --config) and FLOW_* environment
variables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file path (default: search flow.yaml, config.yaml)")
	pf.StringVar(&a.storePath, "store", "", "store directory (overrides store.path)")
	pf.BoolVar(&a.inMemory, "in-memory", false, "use an ephemeral in-memory store")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (overrides logging.level)")
	pf.BoolVar(&a.jsonOutput, "json", false, "print results as JSON")
	pf.IntVar(&a.hour, "hour", -1, "hour of day 0-23 for time-aware commands (default: now)")
	pf.BoolVar(&a.dumpMetrics, "metrics", false, "print engine metrics to stderr after the command")

	root.AddCommand(
		newWatchCmd(a),
		newLikeCmd(a),
		newSubscribeCmd(a),
		newSearchCmd(a),
		newScoreCmd(a),
		newTopicsCmd(a),
		newGenresCmd(a),
		newKeywordsCmd(a),
		newChannelsCmd(a),
		newDiscoverCmd(a),
		newBrainCmd(a),
		newResetCmd(a),
		newReplayCmd(a),
	)
	return root
}

// run opens the engine around fn and closes it afterwards.
func (a *app) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd); err != nil {
			return err
		}
		defer a.close()

		ctx := logging.ContextWithLogger(cmd.Context(), a.logger)
		ctx = logging.ContextWithNewCorrelationID(ctx)
		start := time.Now()
		if err := fn(ctx, cmd, args); err != nil {
			logging.Ctx(ctx).Debug().Err(err).Str("command", cmd.CommandPath()).Msg("Command failed")
			return err
		}
		logging.Ctx(ctx).Debug().
			Str("command", cmd.CommandPath()).
			Dur("duration", time.Since(start)).
			Msg("Command finished")
		if a.dumpMetrics {
			return writeMetrics(cmd.ErrOrStderr(), prometheus.DefaultGatherer)
		}
		return nil
	}
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store.Path = a.storePath
		cfg.Store.InMemory = false
	}
	if a.inMemory {
		cfg.Store.InMemory = true
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if a.hour < -1 || a.hour > 23 {
		return fmt.Errorf("--hour must be in 0-23, got %d", a.hour)
	}
	a.cfg = cfg

	lc := cfg.Log()
	lc.Output = cmd.ErrOrStderr()
	logging.Init(lc)
	a.logger = logging.Logger()

	kvCfg := cfg.KVStore()
	a.badger, err = kvstore.Open(&kvCfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.store = a.badger
	if kvCfg.Breaker.Enabled {
		a.store = kvstore.NewBreakerStore(a.badger, kvCfg.Breaker)
	}

	a.engine, err = interest.NewEngine(a.store, cfg.InterestEngine(), a.logger)
	if err != nil {
		a.close()
		return fmt.Errorf("create interest engine: %w", err)
	}
	a.brain, err = brain.New(a.store, cfg.BrainModel(), a.logger, brain.WithExtractor(a.engine.Extractor()))
	if err != nil {
		a.close()
		return fmt.Errorf("create personality model: %w", err)
	}
	a.recorder, err = recorder.New(a.engine, cfg.SignalRecorder(), a.logger,
		recorder.WithBrain(a.brain),
		recorder.WithClock(a.now),
	)
	if err != nil {
		a.close()
		return fmt.Errorf("create recorder: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to close store")
	}
	a.store = nil
	a.badger = nil
}

// currentHour returns --hour, or the local wall-clock hour when unset.
func (a *app) currentHour() int {
	if a.hour >= 0 {
		return a.hour
	}
	return a.now().Hour()
}

// print writes v as indented JSON with --json, otherwise calls text.
func (a *app) print(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if a.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
