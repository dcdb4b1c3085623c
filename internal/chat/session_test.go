// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/config"
	"github.com/amora-app/amora-go/internal/models"
)

func newTestAPI(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.APIConfig{
		BaseURL:        server.URL,
		Timeout:        5 * time.Second,
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
		RateLimit:      1000,
		RateBurst:      1000,
	}
	client, err := api.NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("api.NewClient() error = %v", err)
	}
	return client
}

// chatServer answers the open/history/send routes for one conversation.
func chatServer(t *testing.T, sendStatus int, sendBody string) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/request/chat/friend1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"chat":{"_id":"chat1","participants":[
			{"_id":"self","firstName":"Sam"},{"_id":"friend1","firstName":"Alex"}]}}`))
	})
	mux.HandleFunc("/api/user/request/chat/chat1/messages", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"messages":[
			{"_id":"m1","chatId":"chat1","sender":"friend1","message":"hey"}]}`))
	})
	mux.HandleFunc("/api/user/request/chat/chat1/message", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(sendStatus)
		w.Write([]byte(sendBody))
	})
	return mux
}

func openTestSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()

	client := newTestAPI(t, handler)
	session, err := Open(context.Background(), client, nil, "self", "friend1")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := session.LoadHistory(context.Background()); err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	return session
}

func TestOpenNotConnected(t *testing.T) {
	client := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success":false,"message":"not connected"}`))
	}))

	_, err := Open(context.Background(), client, nil, "self", "stranger")
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Open() error = %v, want ErrNotConnected", err)
	}
}

func TestSendConfirmSwapsInPlace(t *testing.T) {
	session := openTestSession(t, chatServer(t, http.StatusOK,
		`{"success":true,"data":{"_id":"m2","chatId":"chat1","sender":"self","message":"hello"}}`))

	before := len(session.Messages())
	result := session.Send(context.Background(), "hello")
	if !result.Success {
		t.Fatalf("Send() = %+v, want success", result)
	}

	messages := session.Messages()
	if len(messages) != before+1 {
		t.Fatalf("len(messages) = %d, want %d", len(messages), before+1)
	}

	last := messages[len(messages)-1]
	if last.ID != "m2" {
		t.Errorf("last.ID = %q, want the server's id", last.ID)
	}
	if last.State != models.DeliveryConfirmed {
		t.Errorf("last.State = %q, want confirmed", last.State)
	}
	if last.TempID != result.TempID {
		t.Errorf("last.TempID = %q, want %q", last.TempID, result.TempID)
	}
}

func TestSendFailureMarksInPlace(t *testing.T) {
	session := openTestSession(t, chatServer(t, http.StatusOK,
		`{"success":false,"message":"flagged by moderation"}`))

	before := len(session.Messages())
	result := session.Send(context.Background(), "hello")
	if result.Success {
		t.Fatalf("Send() = %+v, want failure", result)
	}
	if result.Message != "flagged by moderation" {
		t.Errorf("Message = %q, want the server's message", result.Message)
	}

	messages := session.Messages()
	if len(messages) != before+1 {
		t.Fatalf("len(messages) = %d, want %d (failed row stays)", len(messages), before+1)
	}
	last := messages[len(messages)-1]
	if last.State != models.DeliveryFailed {
		t.Errorf("last.State = %q, want failed", last.State)
	}
	if last.Text != "hello" {
		t.Errorf("last.Text = %q, the failed row must keep its text", last.Text)
	}
}

func TestSendValidation(t *testing.T) {
	session := openTestSession(t, chatServer(t, http.StatusOK, `{"success":true}`))

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t "},
		{"over the limit", strings.Repeat("a", 201)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(session.Messages())
			result := session.Send(context.Background(), tt.text)
			if result.Success {
				t.Fatalf("Send(%q) succeeded, want rejection", tt.name)
			}
			if got := len(session.Messages()); got != before {
				t.Errorf("rejected send changed the list: %d -> %d", before, got)
			}
		})
	}
}

func TestSendExactlyAtLimit(t *testing.T) {
	session := openTestSession(t, chatServer(t, http.StatusOK,
		`{"success":true,"data":{"_id":"m3","chatId":"chat1","sender":"self"}}`))

	result := session.Send(context.Background(), strings.Repeat("a", 200))
	if !result.Success {
		t.Fatalf("Send() at the limit = %+v, want success", result)
	}
}

func TestInboundDeduplicatesOwnEcho(t *testing.T) {
	session := openTestSession(t, chatServer(t, http.StatusOK,
		`{"success":true,"data":{"_id":"m2","chatId":"chat1","sender":"self","message":"hello"}}`))

	if result := session.Send(context.Background(), "hello"); !result.Success {
		t.Fatalf("Send() failed: %+v", result)
	}
	before := len(session.Messages())

	// The server pushes the same message back over the realtime channel.
	session.handleInbound([]byte(`{"_id":"m2","chatId":"chat1","sender":"self","message":"hello"}`))

	if got := len(session.Messages()); got != before {
		t.Errorf("duplicate push appended: %d -> %d", before, got)
	}
}

func TestInboundAppendsNewMessage(t *testing.T) {
	session := openTestSession(t, chatServer(t, http.StatusOK, `{"success":true}`))
	before := len(session.Messages())

	session.handleInbound([]byte(`{"_id":"m9","chatId":"chat1","sender":"friend1","message":"hi there"}`))

	messages := session.Messages()
	if len(messages) != before+1 {
		t.Fatalf("len(messages) = %d, want %d", len(messages), before+1)
	}
	last := messages[len(messages)-1]
	if last.ID != "m9" || last.State != models.DeliveryConfirmed {
		t.Errorf("last = %+v", last)
	}
}

func TestInboundIgnoresOtherConversations(t *testing.T) {
	session := openTestSession(t, chatServer(t, http.StatusOK, `{"success":true}`))
	before := len(session.Messages())

	session.handleInbound([]byte(`{"_id":"mX","chatId":"other-chat","sender":"friend2","message":"wrong room"}`))

	if got := len(session.Messages()); got != before {
		t.Errorf("message for another conversation appended: %d -> %d", before, got)
	}
}

func TestHistoryRegistersIDsForDedupe(t *testing.T) {
	session := openTestSession(t, chatServer(t, http.StatusOK, `{"success":true}`))
	before := len(session.Messages())

	// m1 came from history; a push of the same id must be dropped.
	session.handleInbound([]byte(`{"_id":"m1","chatId":"chat1","sender":"friend1","message":"hey"}`))

	if got := len(session.Messages()); got != before {
		t.Errorf("history duplicate appended: %d -> %d", before, got)
	}
}
