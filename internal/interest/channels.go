// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package interest

import (
	"context"
	"fmt"
	"sort"
)

// UpdateChannelAffinity applies one channel signal.
//
// Affinity grows by WatchInterest, by the like increment when Liked and by
// the subscribe increment when Subscribed. WatchCount grows only for signals
// that carry a watch, whether the channel is new or known.
func (e *Engine) UpdateChannelAffinity(ctx context.Context, sig ChannelSignal) error {
	if sig.ChannelID == "" {
		return ErrMissingChannel
	}
	now := e.now()

	err := e.store.Update(ctx, KeyChannelAffinity, func(current []byte, _ bool) ([]byte, error) {
		channels := decodeChannels(&e.logger, current)

		ca, ok := channels[sig.ChannelID]
		if !ok {
			ca = ChannelAffinity{ChannelID: sig.ChannelID}
		}
		if sig.ChannelName != "" {
			ca.ChannelName = sig.ChannelName
		}

		ca.AffinityScore += sig.WatchInterest
		if sig.Liked {
			ca.AffinityScore += e.config.Affinity.Like
			ca.LikeCount++
		}
		if sig.Subscribed {
			ca.AffinityScore += e.config.Affinity.Subscribe
		}
		if sig.Watched {
			ca.WatchCount++
		}
		ca.LastInteraction = now

		channels[sig.ChannelID] = ca
		return encodeChannels(channels)
	})
	if err != nil {
		return fmt.Errorf("update channel affinity: %w", err)
	}
	return nil
}

// ChannelAffinities returns every known channel keyed by channel ID.
func (e *Engine) ChannelAffinities(ctx context.Context) (map[string]ChannelAffinity, error) {
	raw, err := e.load(ctx, KeyChannelAffinity)
	if err != nil {
		return nil, err
	}
	return decodeChannels(&e.logger, raw), nil
}

// TopChannels returns up to limit channels by affinity descending.
func (e *Engine) TopChannels(ctx context.Context, limit int) ([]ChannelAffinity, error) {
	channels, err := e.ChannelAffinities(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]ChannelAffinity, 0, len(channels))
	for _, ca := range channels {
		ranked = append(ranked, ca)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AffinityScore != ranked[j].AffinityScore {
			return ranked[i].AffinityScore > ranked[j].AffinityScore
		}
		return ranked[i].ChannelID < ranked[j].ChannelID
	})
	return topN(ranked, limit), nil
}
