// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/flowengine/internal/logging"
	"github.com/tomtom215/flowengine/internal/recorder"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		channelID, channelName string
		watched, total         int
		live                   bool
	)
	cmd := &cobra.Command{
		Use:   "watch <title>",
		Short: "Record a watch",
		Long: `Record that a video was watched.

The watched fraction decides the topic boost. Without --total the watch
counts as a view of unknown length.

Examples:
  flowctl watch "Piano Sonata No. 14" --channel-id UC1 --channel-name "Classical Hub" --watched 600 --total 900
  flowctl watch "Speedrun Live" --live --hour 22`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return a.dispatch(ctx, cmd, recorder.Event{
			Kind:         recorder.KindWatch,
			Title:        args[0],
			ChannelID:    channelID,
			ChannelName:  channelName,
			WatchSeconds: watched,
			TotalSeconds: total,
			IsLive:       live,
		})
	})
	cmd.Flags().StringVar(&channelID, "channel-id", "", "channel id")
	cmd.Flags().StringVar(&channelName, "channel-name", "", "channel display name")
	cmd.Flags().IntVar(&watched, "watched", 0, "seconds watched")
	cmd.Flags().IntVar(&total, "total", 0, "video length in seconds")
	cmd.Flags().BoolVar(&live, "live", false, "the video is a live stream")
	return cmd
}

func newLikeCmd(a *app) *cobra.Command {
	var channelID, channelName string
	cmd := &cobra.Command{
		Use:   "like <title>",
		Short: "Record a like",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return a.dispatch(ctx, cmd, recorder.Event{
			Kind:        recorder.KindLike,
			Title:       args[0],
			ChannelID:   channelID,
			ChannelName: channelName,
		})
	})
	cmd.Flags().StringVar(&channelID, "channel-id", "", "channel id")
	cmd.Flags().StringVar(&channelName, "channel-name", "", "channel display name")
	return cmd
}

func newSubscribeCmd(a *app) *cobra.Command {
	var channelName string
	cmd := &cobra.Command{
		Use:   "subscribe <channel-id>",
		Short: "Record a channel subscription",
		Long: `Record a subscription. Topics are taken from the channel name.

Example:
  flowctl subscribe UC42 --name "Retro Gaming Daily"`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return a.dispatch(ctx, cmd, recorder.Event{
			Kind:        recorder.KindSubscribe,
			ChannelID:   args[0],
			ChannelName: channelName,
		})
	})
	cmd.Flags().StringVar(&channelName, "name", "", "channel display name")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Record a search query",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return a.dispatch(ctx, cmd, recorder.Event{
			Kind:  recorder.KindSearch,
			Query: strings.Join(args, " "),
		})
	})
	return cmd
}

// dispatch applies ev synchronously and reports it.
func (a *app) dispatch(ctx context.Context, cmd *cobra.Command, ev recorder.Event) error { //nolint:gocritic // Event is small
	ev.ID = logging.GenerateEventID()
	ev.At = a.eventTime()
	if err := a.recorder.Dispatch(ctx, ev); err != nil {
		return fmt.Errorf("record %s: %w", ev.Kind, err)
	}
	return a.print(cmd, ev, func(w io.Writer) {
		fmt.Fprintf(w, "Recorded %s (%s)\n", ev.Kind, describe(&ev))
	})
}

// eventTime is now, moved to --hour when given.
func (a *app) eventTime() time.Time {
	now := a.now()
	if a.hour < 0 {
		return now
	}
	return time.Date(now.Year(), now.Month(), now.Day(), a.hour, now.Minute(), now.Second(), 0, now.Location())
}

func describe(ev *recorder.Event) string {
	switch ev.Kind {
	case recorder.KindSearch:
		return fmt.Sprintf("%q", ev.Query)
	case recorder.KindSubscribe:
		if ev.ChannelName != "" {
			return fmt.Sprintf("%s %q", ev.ChannelID, ev.ChannelName)
		}
		return ev.ChannelID
	default:
		return fmt.Sprintf("%q", ev.Title)
	}
}
