// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package connections manages the request lifecycle between two users:
// send, cancel, accept, reject, and the status lookups screens render from.
//
// None of the transitions are optimistic. The server owns the request state
// machine; the UI re-queries after a confirmed transition instead of
// guessing, so a rejected transition never leaves a phantom state behind.
package connections

import (
	"context"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/models"
)

// Result is the uniform outcome of a request transition.
type Result struct {
	Success bool
	Message string
}

// SelfID supplies the current user's id at call time, so the service
// survives a re-login without rebinding.
type SelfID func() string

// Service coordinates request transitions against the API.
type Service struct {
	client *api.Client
	selfID SelfID
}

// NewService builds a Service bound to the current identity.
func NewService(client *api.Client, selfID SelfID) *Service {
	return &Service{client: client, selfID: selfID}
}

// Status looks up the request state between the current user and other.
// The ordered pair matters: the sender position is always the current user
// here; callers that need the reverse direction query with Incoming.
func (s *Service) Status(ctx context.Context, otherID string) (models.RequestStatus, string, error) {
	return s.client.RequestStatus(ctx, s.selfID(), otherID)
}

// Send creates a pending request to receiver.
func (s *Service) Send(ctx context.Context, receiverID string) Result {
	if err := s.client.SendChatRequest(ctx, s.selfID(), receiverID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("receiver", receiverID).Msg("send request failed")
		return Result{Message: api.ServerMessage(err, "could not send the request")}
	}
	return Result{Success: true, Message: "request sent"}
}

// CancelBySender withdraws a pending request the current user sent.
func (s *Service) CancelBySender(ctx context.Context, receiverID string) Result {
	if err := s.client.CancelRequest(ctx, s.selfID(), receiverID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("receiver", receiverID).Msg("cancel request failed")
		return Result{Message: api.ServerMessage(err, "could not cancel the request")}
	}
	return Result{Success: true, Message: "request cancelled"}
}

// Accept confirms a pending request the current user received. senderID is
// the request's originator.
func (s *Service) Accept(ctx context.Context, senderID string) Result {
	if err := s.client.AcceptRequest(ctx, senderID, s.selfID()); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("sender", senderID).Msg("accept request failed")
		return Result{Message: api.ServerMessage(err, "could not accept the request")}
	}
	return Result{Success: true, Message: "request accepted"}
}

// Reject declines a pending request the current user received.
func (s *Service) Reject(ctx context.Context, senderID string) Result {
	if err := s.client.RejectRequest(ctx, senderID, s.selfID()); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("sender", senderID).Msg("reject request failed")
		return Result{Message: api.ServerMessage(err, "could not reject the request")}
	}
	return Result{Success: true, Message: "request rejected"}
}

// Incoming lists pending requests addressed to the current user, newest
// first as the server returns them.
func (s *Service) Incoming(ctx context.Context) ([]models.ConnectionRequest, error) {
	return s.client.IncomingRequests(ctx, s.selfID())
}

// Friends lists the accepted connections.
func (s *Service) Friends(ctx context.Context) ([]models.UserRef, error) {
	return s.client.Friends(ctx)
}
