// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package brain

import (
	"sort"
)

// Persona is a discrete tier derived from interaction volume.
type Persona int

// Persona tiers, lowest first.
const (
	PersonaInitiate Persona = iota
	PersonaExplorer
	PersonaEnthusiast
	PersonaConnoisseur
	PersonaSage
)

func (p Persona) String() string {
	switch p {
	case PersonaExplorer:
		return "Explorer"
	case PersonaEnthusiast:
		return "Enthusiast"
	case PersonaConnoisseur:
		return "Connoisseur"
	case PersonaSage:
		return "Sage"
	default:
		return "Initiate"
	}
}

// PersonaFor maps an interaction count to a tier. It is total: zero and
// negative counts map to Initiate.
func PersonaFor(totalInteractions int, t PersonaThresholds) Persona {
	switch {
	case totalInteractions >= t.Sage:
		return PersonaSage
	case totalInteractions >= t.Connoisseur:
		return PersonaConnoisseur
	case totalInteractions >= t.Enthusiast:
		return PersonaEnthusiast
	case totalInteractions >= t.Explorer:
		return PersonaExplorer
	default:
		return PersonaInitiate
	}
}

// TopicWeight is a topic with its blended weight.
type TopicWeight struct {
	Topic  string  `json:"topic"`
	Weight float64 `json:"weight"`
}

// Profile is a display projection of the brain.
type Profile struct {
	Persona           string        `json:"persona"`
	TotalInteractions int           `json:"total_interactions"`
	DominantTopic     string        `json:"dominant_topic,omitempty"`
	DominantSegment   Segment       `json:"dominant_segment,omitempty"`
	TopTopics         []TopicWeight `json:"top_topics"`
	Pacing            float64       `json:"pacing"`
	Complexity        float64       `json:"complexity"`
	Duration          float64       `json:"duration"`
	IsLive            float64       `json:"is_live"`
}

// buildProfile derives the profile; it never fails, even for the zero brain.
func buildProfile(b *UserBrain, t PersonaThresholds, topN int) Profile {
	p := Profile{
		Persona:           PersonaFor(b.TotalInteractions, t).String(),
		TotalInteractions: b.TotalInteractions,
		TopTopics:         rankTopics(b.Global.Topics, topN),
		Pacing:            b.Global.Pacing,
		Complexity:        b.Global.Complexity,
		Duration:          b.Global.Duration,
		IsLive:            b.Global.IsLive,
	}
	if len(p.TopTopics) > 0 {
		p.DominantTopic = p.TopTopics[0].Topic
	}

	best := 0.0
	for _, s := range Segments {
		if m := b.Vector(s).magnitude(); m > best {
			best = m
			p.DominantSegment = s
		}
	}
	return p
}

// rankTopics returns up to n positive-weight topics by weight descending.
func rankTopics(topics map[string]float64, n int) []TopicWeight {
	out := make([]TopicWeight, 0, len(topics))
	for topic, w := range topics {
		if w > 0 {
			out = append(out, TopicWeight{Topic: topic, Weight: w})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Topic < out[j].Topic
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
