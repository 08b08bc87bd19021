// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package brain

import (
	"errors"
	"fmt"
)

// KeyBrain is the store key holding the personality model.
const KeyBrain = "flow_neuro_brain"

// ErrInvalidHour is returned for an interaction hour outside 0-23.
var ErrInvalidHour = errors.New("brain: hour must be in 0-23")

// ContentVector is a multi-axis fingerprint of a piece of content or of
// aggregate taste. Axes are nominally in [0, 1].
type ContentVector struct {
	Topics     map[string]float64 `json:"topics"`
	Pacing     float64            `json:"pacing"`
	Complexity float64            `json:"complexity"`
	Duration   float64            `json:"duration"`
	IsLive     float64            `json:"is_live"`
}

// NewContentVector returns a zero vector with an allocated topic map.
func NewContentVector() ContentVector {
	return ContentVector{Topics: make(map[string]float64)}
}

// Clone returns a deep copy.
func (v ContentVector) Clone() ContentVector { //nolint:gocritic // value receiver keeps call sites simple
	out := v
	out.Topics = make(map[string]float64, len(v.Topics))
	for k, w := range v.Topics {
		out.Topics[k] = w
	}
	return out
}

// magnitude is the L1 mass of the vector, topics included.
func (v *ContentVector) magnitude() float64 {
	m := v.Pacing + v.Complexity + v.Duration + v.IsLive
	for _, w := range v.Topics {
		m += w
	}
	return m
}

// Segment is a time-of-day bucket.
type Segment string

// Time-of-day segments.
const (
	SegmentMorning   Segment = "morning"   // 06-11
	SegmentAfternoon Segment = "afternoon" // 12-17
	SegmentEvening   Segment = "evening"   // 18-23
	SegmentNight     Segment = "night"     // 00-05
)

// Segments lists every segment in day order.
var Segments = []Segment{SegmentMorning, SegmentAfternoon, SegmentEvening, SegmentNight}

// SegmentForHour maps a wall-clock hour to its segment.
func SegmentForHour(hour int) (Segment, error) {
	switch {
	case hour < 0 || hour > 23:
		return "", fmt.Errorf("%w: got %d", ErrInvalidHour, hour)
	case hour < 6:
		return SegmentNight, nil
	case hour < 12:
		return SegmentMorning, nil
	case hour < 18:
		return SegmentAfternoon, nil
	default:
		return SegmentEvening, nil
	}
}

// UserBrain is the persisted personality model.
type UserBrain struct {
	Global            ContentVector      `json:"global_vector"`
	Morning           ContentVector      `json:"morning_vector"`
	Afternoon         ContentVector      `json:"afternoon_vector"`
	Evening           ContentVector      `json:"evening_vector"`
	Night             ContentVector      `json:"night_vector"`
	ChannelScores     map[string]float64 `json:"channel_scores"`
	TotalInteractions int                `json:"total_interactions"`
}

// NewUserBrain returns the all-zero brain.
func NewUserBrain() *UserBrain {
	return &UserBrain{
		Global:        NewContentVector(),
		Morning:       NewContentVector(),
		Afternoon:     NewContentVector(),
		Evening:       NewContentVector(),
		Night:         NewContentVector(),
		ChannelScores: make(map[string]float64),
	}
}

// Vector returns a pointer to the segment's vector.
func (b *UserBrain) Vector(s Segment) *ContentVector {
	switch s {
	case SegmentMorning:
		return &b.Morning
	case SegmentAfternoon:
		return &b.Afternoon
	case SegmentEvening:
		return &b.Evening
	case SegmentNight:
		return &b.Night
	default:
		return &b.Global
	}
}

// Clone returns a deep copy.
func (b *UserBrain) Clone() *UserBrain {
	out := &UserBrain{
		Global:            b.Global.Clone(),
		Morning:           b.Morning.Clone(),
		Afternoon:         b.Afternoon.Clone(),
		Evening:           b.Evening.Clone(),
		Night:             b.Night.Clone(),
		ChannelScores:     make(map[string]float64, len(b.ChannelScores)),
		TotalInteractions: b.TotalInteractions,
	}
	for k, v := range b.ChannelScores {
		out.ChannelScores[k] = v
	}
	return out
}

// normalize allocates any nil maps left by an older or partial document.
func (b *UserBrain) normalize() {
	for _, v := range []*ContentVector{&b.Global, &b.Morning, &b.Afternoon, &b.Evening, &b.Night} {
		if v.Topics == nil {
			v.Topics = make(map[string]float64)
		}
	}
	if b.ChannelScores == nil {
		b.ChannelScores = make(map[string]float64)
	}
}

// Content describes an item to fingerprint.
type Content struct {
	Title           string
	ChannelName     string
	DurationSeconds int
	IsLive          bool
}
