// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete topic, keyword and channel scores",
		Long: `Delete topic, keyword and channel scores. With --all the personality
model is reset as well.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		err := a.engine.Reset(ctx)
		if all {
			err = errors.Join(err, a.brain.Reset(ctx))
		}
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		if all {
			fmt.Fprintln(cmd.OutOrStdout(), "Interest scores and personality model reset.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Interest scores reset.")
		}
		return nil
	})
	cmd.Flags().BoolVar(&all, "all", false, "also reset the personality model")
	return cmd
}
