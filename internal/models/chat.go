// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package models

import "time"

// RequestStatus is the lifecycle state of a connection request between two
// users. The server enforces at most one active (pending or accepted) request
// per unordered pair; the client only reflects the reported status.
type RequestStatus string

const (
	StatusNone     RequestStatus = "none"
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// ConnectionRequest is a directed request from one user to another.
type ConnectionRequest struct {
	RequestID  string        `json:"_id"`
	SenderID   string        `json:"senderId"`
	ReceiverID string        `json:"receiverId"`
	Status     RequestStatus `json:"status"`
	Message    string        `json:"message,omitempty"`
	Sender     UserRef       `json:"sender,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Conversation is created implicitly by the server once a connection is
// accepted and a first message context is needed. The client never creates
// conversation records itself.
type Conversation struct {
	ChatID       string    `json:"_id"`
	Participants []UserRef `json:"participants"`
	LastMessage  string    `json:"lastMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Peer returns the participant that is not selfID. Falls back to the zero
// UserRef when the conversation shape is unexpected.
func (c Conversation) Peer(selfID string) UserRef {
	for _, p := range c.Participants {
		if p.ID != selfID {
			return p
		}
	}
	return UserRef{}
}

// DeliveryState tracks an optimistic message through its lifecycle. The
// pending to confirmed/failed transition is driven solely by the settlement
// of the send call, never by a second event source.
type DeliveryState string

const (
	DeliveryPending   DeliveryState = "pending"
	DeliveryConfirmed DeliveryState = "confirmed"
	DeliveryFailed    DeliveryState = "failed"
)

// Message is one chat message. TempID and State are client-local: a message
// created optimistically carries a client-generated TempID until the server
// confirmation swaps it for the canonical record, or marks it failed in place.
type Message struct {
	ID        string    `json:"_id"`
	ChatID    string    `json:"chatId"`
	SenderID  string    `json:"sender"`
	Text      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read,omitempty"`

	TempID string        `json:"-"`
	State  DeliveryState `json:"-"`
}

// Confirmed reports whether the message came from (or was acknowledged by)
// the server.
func (m Message) Confirmed() bool {
	return m.State == "" || m.State == DeliveryConfirmed
}

// PresenceEvent is broadcast over the realtime channel. It is transient and
// never persisted beyond the currently open chat screen.
type PresenceEvent struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
}
