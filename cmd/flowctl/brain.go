// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newBrainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brain",
		Short: "Inspect the personality model",
		Long: `The personality model blends every interaction into a global taste
vector and one per time-of-day segment, and derives a persona from the
interaction count.`,
	}
	cmd.AddCommand(newBrainShowCmd(a), newBrainDiscoverCmd(a), newBrainResetCmd(a))
	return cmd
}

func newBrainShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show persona and taste profile",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		p, err := a.brain.Profile(ctx)
		if err != nil {
			return fmt.Errorf("brain profile: %w", err)
		}
		return a.print(cmd, p, func(w io.Writer) {
			fmt.Fprintf(w, "Persona:        %s (%d interactions)\n", p.Persona, p.TotalInteractions)
			if p.DominantTopic != "" {
				fmt.Fprintf(w, "Dominant topic: %s\n", p.DominantTopic)
			}
			if p.DominantSegment != "" {
				fmt.Fprintf(w, "Most active:    %s\n", p.DominantSegment)
			}
			fmt.Fprintf(w, "Pacing %.2f  Complexity %.2f  Duration %.2f  Live %.2f\n",
				p.Pacing, p.Complexity, p.Duration, p.IsLive)
			for _, t := range p.TopTopics {
				fmt.Fprintf(w, "  %-24s %.3f\n", t.Topic, t.Weight)
			}
		})
	})
	return cmd
}

func newBrainDiscoverCmd(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Generate discovery queries for the current time of day",
		Long: `Generate search queries from the taste of the current time-of-day segment,
falling back to the global taste while the segment is empty.

Example:
  flowctl brain discover --hour 21 -n 3`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		queries, err := a.brain.DiscoveryQueries(ctx, count, a.currentHour())
		if err != nil {
			return fmt.Errorf("brain discovery: %w", err)
		}
		return a.print(cmd, queries, func(w io.Writer) { printLines(w, queries, "No queries: the model has no topics yet.") })
	})
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of queries")
	return cmd
}

func newBrainResetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the personality model",
		Long:  "Reset the personality model to zero. Topic, keyword and channel scores are kept.",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		if err := a.brain.Reset(ctx); err != nil {
			return fmt.Errorf("reset brain: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Personality model reset.")
		return nil
	})
	return cmd
}
