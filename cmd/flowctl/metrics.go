// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const metricPrefix = "flow_"

// writeMetrics prints the engine's own collectors, skipping series that
// never moved.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), metricPrefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			value, ok := metricValue(mf.GetType(), m)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%s%s %s\n", mf.GetName(), formatLabels(m.GetLabel()), value)
		}
	}
	return nil
}

func metricValue(t dto.MetricType, m *dto.Metric) (string, bool) {
	switch t {
	case dto.MetricType_COUNTER:
		v := m.GetCounter().GetValue()
		return fmt.Sprintf("%g", v), v != 0
	case dto.MetricType_GAUGE:
		v := m.GetGauge().GetValue()
		return fmt.Sprintf("%g", v), true
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		if h.GetSampleCount() == 0 {
			return "", false
		}
		return fmt.Sprintf("count=%d sum=%.6f", h.GetSampleCount(), h.GetSampleSum()), true
	default:
		return "", false
	}
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}
