// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package api

import (
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/metrics"
)

// newTransportBreaker builds the circuit breaker every request passes
// through. A transport failure or a 5xx answer counts as a failure; the
// circuit opens at a 60% failure rate once at least 10 requests have been
// observed in the measurement window.
//
// The breaker uses real time for its interval and timeout. Tests exercise
// the wrapped transport directly rather than mocking the breaker.
func newTransportBreaker() *gobreaker.CircuitBreaker[*http.Response] {
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "amora-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening API circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("API circuit state change")
			metrics.BreakerState.Set(stateToFloat(to))
		},
	})
}

// stateToFloat maps breaker states onto the gauge scale: 0 closed,
// 1 half-open, 2 open.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
