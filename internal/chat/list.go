// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package chat

import (
	"context"
	"strings"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/models"
)

// Row is one entry in the conversation list: either an active conversation
// or a connection with no messages yet.
type Row struct {
	Peer models.UserRef
	// ChatID is empty for connections that have never exchanged a message;
	// opening such a row creates the conversation.
	ChatID      string
	LastMessage string
}

// Tabs is the conversation list split into its two views. Primary holds
// conversations with at least one message; General holds accepted
// connections that have not started talking.
type Tabs struct {
	Primary []Row
	General []Row
}

// LoadTabs fetches both listings and splits connections between them. A
// friend who already has a conversation appears only in Primary.
func LoadTabs(ctx context.Context, client *api.Client, selfID string) (Tabs, error) {
	conversations, err := client.ChatFriends(ctx)
	if err != nil {
		return Tabs{}, err
	}
	friends, err := client.Friends(ctx)
	if err != nil {
		return Tabs{}, err
	}

	var tabs Tabs
	inPrimary := make(map[string]struct{}, len(conversations))
	for _, conversation := range conversations {
		peer := conversation.Peer(selfID)
		if peer.ID != "" {
			inPrimary[peer.ID] = struct{}{}
		}
		tabs.Primary = append(tabs.Primary, Row{
			Peer:        peer,
			ChatID:      conversation.ChatID,
			LastMessage: conversation.LastMessage,
		})
	}
	for _, friend := range friends {
		if _, seen := inPrimary[friend.ID]; seen {
			continue
		}
		tabs.General = append(tabs.General, Row{Peer: friend})
	}
	return tabs, nil
}

// FilterRows returns the rows whose peer name contains query, matched
// case-insensitively. An empty query returns rows unchanged.
func FilterRows(rows []Row, query string) []Row {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return rows
	}

	var matched []Row
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Peer.DisplayName()), query) {
			matched = append(matched, row)
		}
	}
	return matched
}
