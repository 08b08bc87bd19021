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
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/flowengine/internal/brain"
	"github.com/tomtom215/flowengine/internal/interest"
)

// scoredCandidate is one line of score output.
type scoredCandidate struct {
	interest.Candidate
	interest.InterestScore
	BrainAffinity float64 `json:"brain_affinity"`
}

func newScoreCmd(a *app) *cobra.Command {
	var (
		channelID, channelName string
		duration               int
		live                   bool
		file                   string
	)
	cmd := &cobra.Command{
		Use:   "score [title...]",
		Short: "Score candidate videos against the interest model",
		Long: `Score one or more candidate titles. Scoring never changes the model.

Each title shares the channel and duration flags. With --file, candidates
are read from a JSON array instead.

Examples:
  flowctl score "Beethoven Piano Sonata" --channel-id UC1 --duration 900
  flowctl score "Chess Openings" "Pasta Carbonara"
  flowctl score --file candidates.json --json`,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		candidates, err := loadCandidates(file, args, channelID, channelName, duration)
		if err != nil {
			return err
		}

		var scores []interest.InterestScore
		if len(candidates) == 1 {
			c := candidates[0]
			s, err := a.engine.ScoreVideoInterest(ctx, c.Title, c.ChannelID, c.ChannelName, c.DurationSeconds)
			if err != nil {
				return fmt.Errorf("score: %w", err)
			}
			scores = []interest.InterestScore{s}
		} else {
			scores, err = a.engine.ScoreBatch(ctx, candidates)
			if err != nil {
				return fmt.Errorf("score batch: %w", err)
			}
		}

		hour := a.currentHour()
		out := make([]scoredCandidate, len(candidates))
		for i, c := range candidates {
			vec := a.brain.VectorFor(brain.Content{
				Title:           c.Title,
				ChannelName:     c.ChannelName,
				DurationSeconds: c.DurationSeconds,
				IsLive:          live,
			})
			aff, err := a.brain.Affinity(ctx, vec, hour)
			if err != nil {
				return fmt.Errorf("brain affinity: %w", err)
			}
			out[i] = scoredCandidate{Candidate: c, InterestScore: scores[i], BrainAffinity: aff}
		}

		return a.print(cmd, out, func(w io.Writer) {
			for i := range out {
				s := &out[i]
				fmt.Fprintf(w, "%-40s total=%6.2f topic=%6.2f keyword=%6.2f channel=%6.2f brain=%.3f format=%s\n",
					truncate(s.Title, 40), s.TotalScore, s.TopicScore, s.KeywordScore, s.ChannelScore,
					s.BrainAffinity, s.ContentFormat)
				if len(s.MatchedTopics) > 0 {
					fmt.Fprintf(w, "  matched: %s\n", strings.Join(s.MatchedTopics, ", "))
				}
			}
		})
	})
	cmd.Flags().StringVar(&channelID, "channel-id", "", "channel id shared by the titles")
	cmd.Flags().StringVar(&channelName, "channel-name", "", "channel name shared by the titles")
	cmd.Flags().IntVar(&duration, "duration", 0, "video length in seconds")
	cmd.Flags().BoolVar(&live, "live", false, "candidates are live streams")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON array of candidates")
	return cmd
}

func loadCandidates(file string, titles []string, channelID, channelName string, duration int) ([]interest.Candidate, error) {
	if file != "" {
		if len(titles) > 0 {
			return nil, errors.New("pass titles or --file, not both")
		}
		raw, err := os.ReadFile(file) //nolint:gosec // path supplied by the operator
		if err != nil {
			return nil, fmt.Errorf("read candidates: %w", err)
		}
		var candidates []interest.Candidate
		if err := json.Unmarshal(raw, &candidates); err != nil {
			return nil, fmt.Errorf("parse candidates: %w", err)
		}
		if len(candidates) == 0 {
			return nil, errors.New("candidate file is empty")
		}
		return candidates, nil
	}

	if len(titles) == 0 {
		return nil, errors.New("at least one title or --file is required")
	}
	candidates := make([]interest.Candidate, len(titles))
	for i, t := range titles {
		candidates[i] = interest.Candidate{
			Title:           t,
			ChannelID:       channelID,
			ChannelName:     channelName,
			DurationSeconds: duration,
		}
	}
	return candidates, nil
}

func newTopicsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List the strongest topics",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		topics, err := a.engine.TopTopics(ctx, limit)
		if err != nil {
			return fmt.Errorf("top topics: %w", err)
		}
		return a.print(cmd, topics, func(w io.Writer) {
			if len(topics) == 0 {
				fmt.Fprintln(w, "No topics yet.")
				return
			}
			for _, t := range topics {
				fmt.Fprintf(w, "%-24s %6.2f  (%d interactions, last %s)\n",
					t.Topic, t.Score, t.InteractionCount, t.LastUpdated.Format("2006-01-02 15:04"))
			}
		})
	})
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max topics")
	return cmd
}

func newGenresCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List genres by summed topic score",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		genres, err := a.engine.TopGenres(ctx, limit)
		if err != nil {
			return fmt.Errorf("top genres: %w", err)
		}
		return a.print(cmd, genres, func(w io.Writer) {
			if len(genres) == 0 {
				fmt.Fprintln(w, "No genres yet.")
				return
			}
			for _, g := range genres {
				fmt.Fprintf(w, "%-16s %6.2f\n", g.Genre, g.Score)
			}
		})
	})
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "max genres")
	return cmd
}

func newKeywordsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "List the strongest keywords",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		keywords, err := a.engine.TopKeywords(ctx, limit)
		if err != nil {
			return fmt.Errorf("top keywords: %w", err)
		}
		return a.print(cmd, keywords, func(w io.Writer) {
			if len(keywords) == 0 {
				fmt.Fprintln(w, "No keywords yet.")
				return
			}
			for _, k := range keywords {
				fmt.Fprintf(w, "%-24s %6.2f\n", k.Keyword, k.Score)
			}
		})
	})
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max keywords")
	return cmd
}

func newChannelsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List channels by affinity",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		channels, err := a.engine.TopChannels(ctx, limit)
		if err != nil {
			return fmt.Errorf("top channels: %w", err)
		}
		return a.print(cmd, channels, func(w io.Writer) {
			if len(channels) == 0 {
				fmt.Fprintln(w, "No channels yet.")
				return
			}
			for _, c := range channels {
				name := c.ChannelName
				if name == "" {
					name = c.ChannelID
				}
				fmt.Fprintf(w, "%-32s %7.2f  watches=%d likes=%d\n",
					truncate(name, 32), c.AffinityScore, c.WatchCount, c.LikeCount)
			}
		})
	})
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max channels")
	return cmd
}

func newDiscoverCmd(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Generate discovery search queries from topic interest",
		Long: `Generate search queries from the strongest genres and topics.

Output varies between runs. For time-of-day aware queries from the
personality model use 'flowctl brain discover'.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
		queries, err := a.engine.GenerateDiscoveryQueries(ctx, count)
		if err != nil {
			return fmt.Errorf("discovery queries: %w", err)
		}
		return a.print(cmd, queries, func(w io.Writer) { printLines(w, queries, "No queries: record some signals first.") })
	})
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of queries")
	return cmd
}

func printLines(w io.Writer, lines []string, empty string) {
	if len(lines) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
