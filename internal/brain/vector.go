// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package brain

import (
	"math"
	"sort"

	"github.com/tomtom215/flowengine/internal/signals"
)

// pacing per content format: fast formats score high.
var formatPacing = map[string]float64{
	signals.FormatShort:       1.0,
	signals.FormatCompilation: 0.8,
	signals.FormatLive:        0.6,
	signals.FormatStandard:    0.5,
	signals.FormatSeries:      0.4,
	signals.FormatLongForm:    0.2,
}

// complexity per genre; genres not listed count as 0.3.
var genreComplexity = map[string]float64{
	"education":  0.8,
	"science":    0.8,
	"tech":       0.7,
	"finance":    0.7,
	"news":       0.6,
	"podcasts":   0.5,
	"art":        0.5,
	"automotive": 0.4,
	"travel":     0.4,
}

const (
	defaultComplexity = 0.5
	leisureComplexity = 0.3
)

// vectorFor fingerprints content. Topic weights are 1.0; duration saturates
// at one hour.
func vectorFor(x *signals.Extractor, c Content) ContentVector { //nolint:gocritic // Content is small
	v := NewContentVector()
	for _, t := range x.ExtractTopics(c.Title, c.ChannelName) {
		v.Topics[t] = 1.0
	}

	format := x.DetectFormat(c.Title, c.DurationSeconds)
	v.Pacing = formatPacing[format]

	genres := x.MatchGenres(c.Title + " " + c.ChannelName)
	if len(genres) == 0 {
		v.Complexity = defaultComplexity
	} else {
		sum := 0.0
		for _, g := range genres {
			if cx, ok := genreComplexity[g]; ok {
				sum += cx
			} else {
				sum += leisureComplexity
			}
		}
		v.Complexity = sum / float64(len(genres))
	}

	if c.DurationSeconds > 0 {
		v.Duration = math.Min(float64(c.DurationSeconds)/3600, 1)
	}
	if c.IsLive || format == signals.FormatLive {
		v.IsLive = 1
	}
	return v
}

// blend applies axis = axis*(1-alpha) + value*alpha*weight to every axis and
// to each topic present in src. Topics absent from src are left untouched.
func blend(dst *ContentVector, src *ContentVector, alpha, weight float64) {
	mix := func(cur, v float64) float64 {
		return cur*(1-alpha) + v*alpha*weight
	}
	dst.Pacing = mix(dst.Pacing, src.Pacing)
	dst.Complexity = mix(dst.Complexity, src.Complexity)
	dst.Duration = mix(dst.Duration, src.Duration)
	dst.IsLive = mix(dst.IsLive, src.IsLive)

	if dst.Topics == nil {
		dst.Topics = make(map[string]float64, len(src.Topics))
	}
	for topic, v := range src.Topics {
		dst.Topics[topic] = mix(dst.Topics[topic], v)
	}
}

// prune keeps the limit strongest topics.
func prune(v *ContentVector, limit int) {
	if len(v.Topics) <= limit {
		return
	}
	type tw struct {
		topic string
		w     float64
	}
	ranked := make([]tw, 0, len(v.Topics))
	for t, w := range v.Topics {
		ranked = append(ranked, tw{t, w})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].w != ranked[j].w {
			return ranked[i].w > ranked[j].w
		}
		return ranked[i].topic < ranked[j].topic
	})
	for _, r := range ranked[limit:] {
		delete(v.Topics, r.topic)
	}
}

// cosine is the cosine similarity of two sparse topic maps; 0 when either is empty.
func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, x := range a {
		na += x * x
		if y, ok := b[k]; ok {
			dot += x * y
		}
	}
	for _, y := range b {
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Affinity weights: topic similarity dominates, shape closeness refines.
const (
	topicAffinityWeight = 0.7
	shapeAffinityWeight = 0.3
	segmentTasteWeight  = 0.6
)

// taste mixes the segment vector with the global vector.
func taste(b *UserBrain, s Segment) ContentVector {
	seg, global := b.Vector(s), &b.Global
	w := segmentTasteWeight
	if len(seg.Topics) == 0 {
		w = 0
	}
	out := NewContentVector()
	for t, x := range global.Topics {
		out.Topics[t] += x * (1 - w)
	}
	for t, x := range seg.Topics {
		out.Topics[t] += x * w
	}
	out.Pacing = seg.Pacing*w + global.Pacing*(1-w)
	out.Complexity = seg.Complexity*w + global.Complexity*(1-w)
	out.Duration = seg.Duration*w + global.Duration*(1-w)
	out.IsLive = seg.IsLive*w + global.IsLive*(1-w)
	return out
}

// affinity scores a candidate vector against a taste vector. The taste axes
// are EMA values that approach the content axes only asymptotically, so they
// are rescaled by the largest axis before comparison.
func affinity(t *ContentVector, v *ContentVector) float64 {
	topic := cosine(t.Topics, v.Topics)

	axes := [4][2]float64{
		{t.Pacing, v.Pacing},
		{t.Complexity, v.Complexity},
		{t.Duration, v.Duration},
		{t.IsLive, v.IsLive},
	}
	scale := 0.0
	for _, a := range axes {
		scale = math.Max(scale, a[0])
	}
	if scale == 0 {
		return topicAffinityWeight * topic
	}

	diff := 0.0
	for _, a := range axes {
		diff += math.Abs(a[0]/scale - a[1])
	}
	shape := math.Max(0, 1-diff/float64(len(axes)))
	return topicAffinityWeight*topic + shapeAffinityWeight*shape
}
