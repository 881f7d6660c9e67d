// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Name:      "chat_requests_total",
		Help:      "Chat turns processed, by outcome.",
	}, []string{"outcome"})

	toolDispatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Name:      "tool_dispatches_total",
		Help:      "Tool invocations requested by the model, by tool and outcome.",
	}, []string{"tool", "outcome"})

	toolRoundsPerChat = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scout",
		Name:      "tool_rounds_per_chat",
		Help:      "Model round trips spent on tool calls within one chat turn.",
		Buckets:   prometheus.LinearBuckets(0, 1, 9),
	})

	// statsParseFailuresTotal counts prospect records whose stats field
	// was present but not valid JSON. The records still serve with empty
	// stats; this counter is the only visibility into the bad data.
	statsParseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scout",
		Name:      "stats_parse_failures_total",
		Help:      "Prospect stats fields that failed to parse as JSON.",
	})

	modelLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scout",
		Name:      "model_latency_seconds",
		Help:      "Latency of individual model API calls.",
		Buckets:   prometheus.DefBuckets,
	})
)
