// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package chat

import (
	"context"
	"net/http"
	"testing"

	"github.com/amora-app/amora-go/internal/models"
)

func TestLoadTabsSplitsByActivity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/request/chat-friends", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"chats":[
			{"_id":"chat1","lastMessage":"see you then","participants":[
				{"_id":"self","firstName":"Sam"},{"_id":"f1","firstName":"Alex"}]}]}`))
	})
	mux.HandleFunc("/api/user/request/friends", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"friends":[
			{"_id":"f1","firstName":"Alex"},
			{"_id":"f2","firstName":"Robin"}]}`))
	})

	client := newTestAPI(t, mux)
	tabs, err := LoadTabs(context.Background(), client, "self")
	if err != nil {
		t.Fatalf("LoadTabs() error = %v", err)
	}

	if len(tabs.Primary) != 1 {
		t.Fatalf("len(Primary) = %d, want 1", len(tabs.Primary))
	}
	if tabs.Primary[0].ChatID != "chat1" || tabs.Primary[0].Peer.ID != "f1" {
		t.Errorf("Primary[0] = %+v", tabs.Primary[0])
	}
	if tabs.Primary[0].LastMessage != "see you then" {
		t.Errorf("LastMessage = %q", tabs.Primary[0].LastMessage)
	}

	// f1 already chats, only f2 belongs in General.
	if len(tabs.General) != 1 {
		t.Fatalf("len(General) = %d, want 1", len(tabs.General))
	}
	if tabs.General[0].Peer.ID != "f2" || tabs.General[0].ChatID != "" {
		t.Errorf("General[0] = %+v", tabs.General[0])
	}
}

func TestFilterRows(t *testing.T) {
	rows := []Row{
		{Peer: models.UserRef{ID: "1", FirstName: "Alex", LastName: "Stone"}},
		{Peer: models.UserRef{ID: "2", FirstName: "Robin", LastName: "Alexander"}},
		{Peer: models.UserRef{ID: "3", FirstName: "Priya", LastName: "Nair"}},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"empty query returns all", "", []string{"1", "2", "3"}},
		{"case insensitive", "ALEX", []string{"1", "2"}},
		{"last name match", "nair", []string{"3"}},
		{"no match", "zed", nil},
		{"surrounding whitespace", "  priya ", []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := FilterRows(rows, tt.query)
			if len(matched) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(matched), len(tt.wantIDs))
			}
			for i, row := range matched {
				if row.Peer.ID != tt.wantIDs[i] {
					t.Errorf("matched[%d].ID = %q, want %q", i, row.Peer.ID, tt.wantIDs[i])
				}
			}
		})
	}
}
