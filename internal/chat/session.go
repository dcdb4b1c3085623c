// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package chat drives one open conversation: history load, optimistic send
// with confirm-or-fail settlement, and merge of realtime pushes.
package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/metrics"
	"github.com/amora-app/amora-go/internal/models"
	"github.com/amora-app/amora-go/internal/realtime"
	"github.com/amora-app/amora-go/internal/validation"
)

// ErrNotConnected is surfaced when the two users are not connected. The UI
// routes to the connections screen instead of showing an empty chat.
var ErrNotConnected = api.ErrNotConnected

// SendResult reports the settlement of one send.
type SendResult struct {
	Success bool
	Message string
	// TempID identifies the optimistic row the caller rendered, whether it
	// was confirmed or marked failed.
	TempID string
}

// Session is one open conversation. Safe for concurrent use: the realtime
// goroutine appends inbound messages while the UI goroutine sends.
type Session struct {
	client  *api.Client
	channel *realtime.Channel
	chatID  string
	selfID  string
	peer    models.UserRef

	unsubscribe func()

	mu       sync.RWMutex
	messages []models.Message
	seen     map[string]struct{}
}

// Open resolves (or creates) the conversation with friendID and returns a
// Session bound to it. Returns ErrNotConnected when the server refuses the
// pair; any other error is a transport or server failure.
//
// When a realtime channel is provided the session joins the conversation's
// room and subscribes to message pushes.
func Open(ctx context.Context, client *api.Client, channel *realtime.Channel, selfID, friendID string) (*Session, error) {
	conversation, err := client.OpenChat(ctx, friendID)
	if err != nil {
		return nil, err
	}
	if conversation.ChatID == "" {
		return nil, errors.New("chat: server returned a conversation without an id")
	}

	s := &Session{
		client:  client,
		channel: channel,
		chatID:  conversation.ChatID,
		selfID:  selfID,
		peer:    conversation.Peer(selfID),
		seen:    make(map[string]struct{}),
	}

	if channel != nil {
		if err := channel.JoinRoom(s.chatID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("chat", s.chatID).Msg("join room failed, history only")
		}
		s.unsubscribe = channel.Subscribe(realtime.EventReceiveMessage, s.handleInbound)
	}
	return s, nil
}

// Close detaches the session's message listener. The shared channel stays
// connected; no leave-room event is sent, the server scopes room membership
// to the connection's lifetime.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// ChatID returns the conversation id.
func (s *Session) ChatID() string { return s.chatID }

// Peer returns the other participant.
func (s *Session) Peer() models.UserRef { return s.peer }

// LoadHistory replaces the message list with the server's full history.
// Every loaded message is confirmed by definition and registered for
// deduplication against later pushes.
func (s *Session) LoadHistory(ctx context.Context) error {
	history, err := s.client.Messages(ctx, s.chatID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]models.Message, len(history))
	s.seen = make(map[string]struct{}, len(history))
	for i, msg := range history {
		msg.State = models.DeliveryConfirmed
		s.messages[i] = msg
		if msg.ID != "" {
			s.seen[msg.ID] = struct{}{}
		}
	}
	return nil
}

// Messages returns a snapshot of the current list, oldest first.
func (s *Session) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]models.Message, len(s.messages))
	copy(snapshot, s.messages)
	return snapshot
}

// Send validates text, appends an optimistic pending message, posts it, and
// settles the same row: confirmed with the server's record on success,
// failed in place on any error. The list length never changes during
// settlement, only the one row does.
func (s *Session) Send(ctx context.Context, text string) SendResult {
	if s.chatID == "" {
		return SendResult{Message: "no open conversation"}
	}
	input := struct {
		Message string `validate:"chatmessage"`
	}{Message: text}
	if err := validation.ValidateStruct(&input); err != nil {
		return SendResult{Message: err.Error()}
	}

	tempID := uuid.NewString()
	s.mu.Lock()
	s.messages = append(s.messages, models.Message{
		ChatID:   s.chatID,
		SenderID: s.selfID,
		Text:     text,
		TempID:   tempID,
		State:    models.DeliveryPending,
	})
	s.mu.Unlock()

	confirmed, err := s.client.SendMessage(ctx, s.chatID, text)
	if err != nil {
		s.settle(tempID, nil)
		metrics.ChatSends.WithLabelValues("failed").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("chat", s.chatID).Msg("message send failed")
		return SendResult{Message: api.ServerMessage(err, "message failed to send"), TempID: tempID}
	}

	s.settle(tempID, confirmed)
	metrics.ChatSends.WithLabelValues("confirmed").Inc()

	// Best effort: nudge a peer who has the conversation open right now. The
	// POST above already delivered the message of record.
	if s.channel != nil && s.channel.Connected() {
		if err := s.channel.SendMessage(s.selfID, s.peer.ID, text); err != nil {
			logging.Ctx(ctx).Debug().Err(err).Msg("realtime send nudge failed")
		}
	}
	return SendResult{Success: true, TempID: tempID}
}

// settle resolves the pending row identified by tempID. With a confirmed
// record the row is swapped in place and its server id registered; with nil
// the row is marked failed where it stands.
func (s *Session) settle(tempID string, confirmed *models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].TempID != tempID {
			continue
		}
		if confirmed == nil {
			s.messages[i].State = models.DeliveryFailed
			return
		}

		replacement := *confirmed
		replacement.TempID = tempID
		replacement.State = models.DeliveryConfirmed
		if replacement.ChatID == "" {
			replacement.ChatID = s.chatID
		}
		if replacement.SenderID == "" {
			replacement.SenderID = s.selfID
		}
		s.messages[i] = replacement
		if replacement.ID != "" {
			s.seen[replacement.ID] = struct{}{}
		}
		return
	}
}

// handleInbound merges one realtime push. Messages for other conversations
// are ignored; messages whose server id was already seen (history, own send
// confirmation, or a duplicate push) are dropped.
func (s *Session) handleInbound(data json.RawMessage) {
	var msg models.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		logging.Warn().Err(err).Msg("unparseable realtime message")
		return
	}
	if msg.ChatID != "" && msg.ChatID != s.chatID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID != "" {
		if _, dup := s.seen[msg.ID]; dup {
			metrics.ChatDuplicatesDropped.Inc()
			return
		}
		s.seen[msg.ID] = struct{}{}
	}

	msg.State = models.DeliveryConfirmed
	if msg.ChatID == "" {
		msg.ChatID = s.chatID
	}
	s.messages = append(s.messages, msg)
}
