// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/amora-app/amora-go/internal/models"
)

// requestPair identifies the ordered (sender, receiver) pair every request
// transition operates on.
type requestPair struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

// statusResponse is the request-status lookup answer.
type statusResponse struct {
	Envelope
	Status    models.RequestStatus `json:"status"`
	RequestID string               `json:"requestId"`
}

// RequestStatus looks up the current request state for the ordered pair.
// Profile screens re-query this whenever the viewed profile changes.
func (c *Client) RequestStatus(ctx context.Context, senderID, receiverID string) (models.RequestStatus, string, error) {
	query := url.Values{}
	query.Set("senderId", senderID)
	query.Set("receiverId", receiverID)

	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/request/status?"+query.Encode(), nil, &resp); err != nil {
		return models.StatusNone, "", err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return models.StatusNone, "", err
	}
	if resp.Status == "" {
		return models.StatusNone, "", nil
	}
	return resp.Status, resp.RequestID, nil
}

// SendChatRequest creates a pending request from sender to receiver. The
// server rejects a pair that already has an active request.
func (c *Client) SendChatRequest(ctx context.Context, senderID, receiverID string) error {
	var resp Envelope
	if err := c.do(ctx, http.MethodPost, "/api/user/chat-request/send",
		requestPair{SenderID: senderID, ReceiverID: receiverID}, &resp); err != nil {
		return err
	}
	return checkEnvelope(resp.Success, resp.Message)
}

// AcceptRequest accepts a pending request. Only valid for its receiver.
func (c *Client) AcceptRequest(ctx context.Context, senderID, receiverID string) error {
	var resp Envelope
	if err := c.do(ctx, http.MethodPut, "/api/user/request/accept",
		requestPair{SenderID: senderID, ReceiverID: receiverID}, &resp); err != nil {
		return err
	}
	return checkEnvelope(resp.Success, resp.Message)
}

// RejectRequest rejects a pending request. Only valid for its receiver.
func (c *Client) RejectRequest(ctx context.Context, senderID, receiverID string) error {
	var resp Envelope
	if err := c.do(ctx, http.MethodPut, "/api/user/request/reject",
		requestPair{SenderID: senderID, ReceiverID: receiverID}, &resp); err != nil {
		return err
	}
	return checkEnvelope(resp.Success, resp.Message)
}

// CancelRequest withdraws a pending request the sender initiated,
// transitioning the pair back to none.
func (c *Client) CancelRequest(ctx context.Context, senderID, receiverID string) error {
	var resp Envelope
	if err := c.do(ctx, http.MethodPut, "/api/user/request/cancel-by-user",
		requestPair{SenderID: senderID, ReceiverID: receiverID}, &resp); err != nil {
		return err
	}
	return checkEnvelope(resp.Success, resp.Message)
}

// incomingResponse wraps the incoming-requests listing.
type incomingResponse struct {
	Envelope
	Requests []models.ConnectionRequest `json:"requests"`
}

// IncomingRequests lists pending requests addressed to userID.
func (c *Client) IncomingRequests(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	var resp incomingResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/request/incoming/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Requests, nil
}

// chatResponse wraps the create-or-fetch conversation lookup.
type chatResponse struct {
	Envelope
	Chat models.Conversation `json:"chat"`
}

// OpenChat resolves or creates the conversation with friendID. A 403 maps
// to ErrNotConnected: the designed failure path for messaging a
// non-connection.
func (c *Client) OpenChat(ctx context.Context, friendID string) (*models.Conversation, error) {
	var resp chatResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/request/chat/"+friendID, nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return &resp.Chat, nil
}

// messagesResponse wraps a conversation's history.
type messagesResponse struct {
	Envelope
	Messages []models.Message `json:"messages"`
}

// Messages fetches the full message list for a conversation. History is
// loaded once per open; there is no pagination.
func (c *Client) Messages(ctx context.Context, chatID string) ([]models.Message, error) {
	var resp messagesResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/request/chat/"+chatID+"/messages", nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// sendMessageRequest is the POST body for a new message.
type sendMessageRequest struct {
	Message string `json:"message"`
}

// sendMessageResponse wraps the server-confirmed message.
type sendMessageResponse struct {
	Envelope
	Data models.Message `json:"data"`
}

// SendMessage posts a new message and returns the server-confirmed record
// that replaces the caller's optimistic placeholder.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*models.Message, error) {
	var resp sendMessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/request/chat/"+chatID+"/message",
		sendMessageRequest{Message: text}, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// conversationsResponse wraps both conversation listings.
type conversationsResponse struct {
	Envelope
	Chats []models.Conversation `json:"chats"`
}

// ChatFriends lists conversations that already have at least one message
// (the primary tab).
func (c *Client) ChatFriends(ctx context.Context) ([]models.Conversation, error) {
	var resp conversationsResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/request/chat-friends", nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Chats, nil
}

// friendsResponse wraps the accepted-connections listing.
type friendsResponse struct {
	Envelope
	Friends []models.UserRef `json:"friends"`
}

// Friends lists accepted connections, including pairs with no messages yet
// (the general tab's data source).
func (c *Client) Friends(ctx context.Context) ([]models.UserRef, error) {
	var resp friendsResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/request/friends", nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Friends, nil
}
