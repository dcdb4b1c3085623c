// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected indicates the server refused a chat lookup with 403
	// because the two users are not connected. Callers redirect to the
	// connections screen instead of rendering an empty chat.
	ErrNotConnected = errors.New("api: users are not connected")

	// ErrUnauthorized indicates the session cookie or bearer token was
	// rejected.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrRateLimited indicates retries after HTTP 429 were exhausted.
	ErrRateLimited = errors.New("api: rate limit exceeded")

	// ErrServiceUnavailable indicates the circuit breaker is open and no
	// request was sent. Callers treat it like a transport failure.
	ErrServiceUnavailable = errors.New("api: service unavailable")
)

// APIError is a server-reported business failure: the request reached the
// server but it answered success=false or a non-2xx status with a message.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: server error (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.StatusCode)
}

// ServerMessage returns the server's human-readable message, or fallback
// when the server gave none. The session and connection layers use this to
// build their uniform result shapes.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
