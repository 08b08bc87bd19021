// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/flowengine/internal/recorder"
	"github.com/tomtom215/flowengine/internal/supervisor"
	"github.com/tomtom215/flowengine/internal/supervisor/services"
)

// replayResult summarizes a replay run.
type replayResult struct {
	Read     int            `json:"read"`
	Stats    recorder.Stats `json:"stats"`
	Duration string         `json:"duration"`
}

func newReplayCmd(a *app) *cobra.Command {
	var maintenance bool
	cmd := &cobra.Command{
		Use:   "replay <events.jsonl|->",
		Short: "Replay a file of recorded events through the supervised recorder",
		Long: `Replay newline-delimited JSON events through the background recorder.

The recorder runs under the supervisor tree exactly as it would in a
long-running client. After the last line is queued the tree is stopped
and the recorder drains its queue within recorder.drain_timeout.

Each line is one event:
  {"kind":"watch","title":"Piano Sonata","channel_id":"UC1","watch_seconds":600,"total_seconds":900,"at":"2026-03-01T21:10:00Z"}
  {"kind":"like","title":"Piano Sonata","channel_id":"UC1"}
  {"kind":"subscribe","channel_id":"UC1","channel_name":"Classical Hub"}
  {"kind":"search","query":"jazz piano"}

Blank lines and lines starting with '#' are ignored. Use - to read stdin.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		in, closeIn, err := openInput(cmd, args[0])
		if err != nil {
			return err
		}
		defer closeIn()

		components := supervisor.Components{Recorder: a.recorder}
		if maintenance {
			if gcCfg := a.cfg.GCService(); gcCfg.Interval > 0 && !a.cfg.Store.InMemory {
				components.GC = services.NewGCService(a.badger, gcCfg, a.logger)
			}
			components.Compact = services.NewCompactService(a.engine, a.cfg.CompactService(), a.logger)
		}
		tree, err := supervisor.NewFlowTree(a.logger, a.cfg.Tree(), components)
		if err != nil {
			return fmt.Errorf("build supervisor tree: %w", err)
		}

		start := time.Now()
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		treeErr := tree.ServeBackground(runCtx)

		n, decodeErr := recorder.DecodeEvents(in, func(ev recorder.Event) error {
			return a.recorder.EnqueueWait(runCtx, ev)
		})

		cancel()
		if err := <-treeErr; err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Msg("Supervisor tree stopped with error")
		}
		if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
			a.logger.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
		}

		res := replayResult{Read: n, Stats: a.recorder.Stats(), Duration: time.Since(start).Round(time.Millisecond).String()}
		if err := a.print(cmd, res, func(w io.Writer) {
			fmt.Fprintf(w, "Replayed %d events in %s: %d applied, %d failed, %d dropped\n",
				res.Read, res.Duration, res.Stats.Processed, res.Stats.Failed, res.Stats.Dropped)
		}); err != nil {
			return err
		}
		if decodeErr != nil {
			return fmt.Errorf("replay stopped: %w", decodeErr)
		}
		return nil
	})
	cmd.Flags().BoolVar(&maintenance, "maintenance", false, "run store GC and topic compaction alongside the recorder")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path) //nolint:gosec // path supplied by the operator
	if err != nil {
		return nil, nil, fmt.Errorf("open events: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
