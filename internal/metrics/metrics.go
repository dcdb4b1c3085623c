// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package metrics provides Prometheus instrumentation for the client.
//
// Metrics are registered with the default registry via promauto so an
// embedding application can expose them alongside its own. They cover the
// REST transport, the realtime channel, and optimistic chat delivery.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// REST transport metrics.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amora_api_request_duration_seconds",
			Help:    "Duration of REST API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amora_api_requests_total",
			Help: "Total REST API requests by outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, client_error, server_error, transport_error
	)

	APIRateLimitWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "amora_api_ratelimit_waits_total",
			Help: "Requests delayed by the client-side rate limiter",
		},
	)

	APIRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "amora_api_retries_total",
			Help: "Request retries after HTTP 429",
		},
	)

	// Circuit breaker state: 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "amora_breaker_state",
			Help: "Circuit breaker state of the REST transport",
		},
	)

	// Realtime channel metrics.
	RealtimeConnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "amora_realtime_connects_total",
			Help: "Successful websocket connections",
		},
	)

	RealtimeReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "amora_realtime_reconnects_total",
			Help: "Websocket reconnection attempts",
		},
	)

	RealtimeEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amora_realtime_events_received_total",
			Help: "Inbound realtime events by type",
		},
		[]string{"event"},
	)

	// Optimistic chat delivery outcomes.
	ChatSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amora_chat_sends_total",
			Help: "Chat message sends by settlement outcome",
		},
		[]string{"outcome"}, // confirmed, failed
	)

	ChatDuplicatesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "amora_chat_duplicates_dropped_total",
			Help: "Inbound realtime messages dropped as duplicates of known ids",
		},
	)
)
