// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package api is the REST transport for the Amora platform.
//
// A single Client carries the configured origin, a cookie jar (the session
// cookie travels on every request, the browser-client equivalent of
// withCredentials), an optional cached bearer token, a client-side rate
// limiter, and automatic retry with exponential backoff on HTTP 429.
//
// Endpoint methods live in the endpoints_*.go files, one typed method per
// server route. All of them accept a context and return either a typed
// response or an error from the taxonomy in errors.go.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/amora-app/amora-go/internal/config"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/metrics"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024

// TokenSource supplies the cached bearer token some endpoints require in
// addition to the session cookie. localstore.Store satisfies it.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the Amora REST API.
//
// Thread safety: safe for concurrent use. Each call creates its own request;
// the cookie jar and limiter are internally synchronized.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[*http.Response]
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient builds a Client from configuration. The tokens source may be nil
// when no bearer token is cached yet (before first login).
func NewClient(cfg *config.APIConfig, tokens TokenSource) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		tokens:         tokens,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		breaker:        newTransportBreaker(),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}, nil
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// metricSegments holds the fixed path segments of the API surface. Any
// segment outside this set is a caller-supplied identifier.
var metricSegments = map[string]struct{}{
	"api": {}, "user": {}, "reel": {}, "payment": {}, "payment-verification": {},
	"me": {}, "login": {}, "signup": {}, "logout": {}, "update": {},
	"all-users": {}, "chat-request": {}, "send": {}, "request": {},
	"accept": {}, "reject": {}, "cancel-by-user": {}, "status": {},
	"incoming": {}, "chat": {}, "messages": {}, "message": {},
	"friends": {}, "chat-friends": {}, "upload": {}, "AllReels": {},
	"my-reels": {}, "deleteReel": {}, "like": {}, "bookmark": {},
	"create-order": {}, "verify-payment": {},
}

// metricPath reduces a request path to its endpoint template: the query
// string is dropped and identifier segments are replaced with ":id" so the
// metric label set stays bounded.
func metricPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, ok := metricSegments[segment]; !ok {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

// do performs one API call: rate limit, marshal body, issue request with
// 429 retry, map the status code, decode the response into out (when out is
// non-nil). The context bounds everything including backoff waits.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if time.Since(waitStart) > time.Millisecond {
		metrics.APIRateLimitWaits.Inc()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	endpoint := metricPath(path)
	start := time.Now()
	resp, err := c.doWithRetry(ctx, method, path, func() (io.Reader, string) {
		if payload == nil {
			return http.NoBody, ""
		}
		return bytes.NewReader(payload), "application/json"
	})
	metrics.APIRequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			metrics.APIRequests.WithLabelValues(endpoint, "server_error").Inc()
		} else {
			metrics.APIRequests.WithLabelValues(endpoint, "transport_error").Inc()
		}
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, path); err != nil {
		return err
	}
	metrics.APIRequests.WithLabelValues(endpoint, "success").Inc()

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// doWithRetry issues the request, retrying on HTTP 429 with exponential
// backoff (1s, 2s, 4s, ...) and honoring a Retry-After header when present.
// makeBody is called fresh per attempt so the body can be re-read.
func (c *Client) doWithRetry(ctx context.Context, method, path string, makeBody func() (io.Reader, string)) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		body, contentType := makeBody()
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		c.addAuth(req)

		resp, err := c.roundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()
		if attempt == c.maxRetries {
			return nil, fmt.Errorf("%w after %d retries", ErrRateLimited, c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		metrics.APIRetries.Inc()
		logging.Ctx(ctx).Warn().
			Str("path", path).
			Dur("delay", delay).
			Int("attempt", attempt+1).
			Msg("rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// roundTrip sends one request through the circuit breaker. Transport errors
// and 5xx answers count against the breaker; a 5xx is converted to an
// *APIError here so the breaker sees it as a failure. 4xx answers pass
// through untouched, they indicate caller problems rather than server
// health.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
		}
		if resp.StatusCode >= 500 {
			body := readBodyForError(resp.Body)
			_ = resp.Body.Close()
			return nil, &APIError{StatusCode: resp.StatusCode, Message: extractMessage(body)}
		}
		return resp, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: circuit open", ErrServiceUnavailable)
		}
		return nil, err
	}
	return resp, nil
}

// addAuth attaches the cached bearer token when one exists. The session
// cookie travels automatically via the jar.
func (c *Client) addAuth(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token()
	if err != nil || token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// checkStatus maps a non-2xx response to the error taxonomy, consuming the
// body for its message.
func (c *Client) checkStatus(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	bodyBytes := readBodyForError(resp.Body)
	message := extractMessage(bodyBytes)
	endpoint := metricPath(path)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		metrics.APIRequests.WithLabelValues(endpoint, "client_error").Inc()
		if message != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, message)
		}
		return ErrUnauthorized
	case http.StatusForbidden:
		metrics.APIRequests.WithLabelValues(endpoint, "client_error").Inc()
		if message != "" {
			return fmt.Errorf("%w: %s", ErrNotConnected, message)
		}
		return ErrNotConnected
	}

	outcome := "server_error"
	if resp.StatusCode < 500 {
		outcome = "client_error"
	}
	metrics.APIRequests.WithLabelValues(endpoint, outcome).Inc()

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return nil
	}
	return body
}

// extractMessage pulls a human-readable message out of an error body when
// the server answered with its usual JSON envelope.
func extractMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

// checkEnvelope converts a success=false body into an *APIError. Endpoints
// call this after decoding so business failures and transport failures reach
// callers through the same taxonomy.
func checkEnvelope(success bool, message string) error {
	if success {
		return nil
	}
	return &APIError{StatusCode: http.StatusOK, Message: message}
}
