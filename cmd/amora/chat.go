// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/amora-app/amora-go/internal/chat"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/models"
	"github.com/amora-app/amora-go/internal/realtime"
	"github.com/amora-app/amora-go/internal/supervisor"
)

// chat opens an interactive conversation: history first, then live messages
// while stdin lines are sent. The realtime channel runs under supervision
// so a dropped connection reconnects without ending the conversation.
func (a *app) chat(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: amora chat <friendId>")
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	channel, err := realtime.NewChannel(&a.cfg.Realtime, a.cfg.API.BaseURL, a.selfID())
	if err != nil {
		return err
	}

	session, err := chat.Open(ctx, a.client, channel, a.selfID(), args[0])
	if err != nil {
		if errors.Is(err, chat.ErrNotConnected) {
			return errors.New("you are not connected with this user yet, send a request first")
		}
		return err
	}
	if err := session.LoadHistory(ctx); err != nil {
		return err
	}

	defer session.Close()
	printHistory(session, a.selfID())

	// Echo live messages from the peer as they arrive.
	unsubscribe := channel.Subscribe(realtime.EventReceiveMessage, func(data json.RawMessage) {
		printLatestFrom(session, args[0])
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultConfig())
	tree.Add(channel)
	done := tree.ServeBackground(ctx)

	fmt.Println("type a message and press enter; ctrl-d to leave")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}
		result := session.Send(ctx, text)
		if !result.Success {
			fmt.Fprintln(os.Stderr, "not sent:", result.Message)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logging.Warn().Msg("realtime channel did not stop in time")
	}
	return scanner.Err()
}

// printHistory renders the conversation grouped by day.
func printHistory(session *chat.Session, selfID string) {
	for _, group := range chat.GroupByDate(session.Messages(), time.Now()) {
		fmt.Println("----", group.Label, "----")
		for _, msg := range group.Messages {
			printMessage(msg, selfID)
		}
	}
}

// printLatestFrom prints the newest message when it came from the peer. Own
// messages are already echoed by the send path.
func printLatestFrom(session *chat.Session, peerID string) {
	messages := session.Messages()
	if len(messages) == 0 {
		return
	}
	if last := messages[len(messages)-1]; last.SenderID == peerID {
		printMessage(last, "")
	}
}

func printMessage(msg models.Message, selfID string) {
	who := msg.SenderID
	if selfID != "" && msg.SenderID == selfID {
		who = "you"
	}
	suffix := ""
	switch msg.State {
	case models.DeliveryPending:
		suffix = " (sending)"
	case models.DeliveryFailed:
		suffix = " (failed)"
	}
	fmt.Printf("[%s] %s: %s%s\n", msg.Timestamp.Format("15:04"), who, msg.Text, suffix)
}
