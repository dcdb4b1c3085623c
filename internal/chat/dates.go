// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package chat

import (
	"time"

	"github.com/amora-app/amora-go/internal/models"
)

// DateGroup is one rendered section of a conversation: a day header and the
// messages that fall under it, in their original order.
type DateGroup struct {
	Label    string
	Messages []models.Message
}

// DateLabel names the calendar day ts falls on, relative to now: "Today",
// "Yesterday", or the written-out date. Calendar days, not 24h windows: a
// message from 23:59 is "Yesterday" one minute later.
func DateLabel(ts, now time.Time) string {
	ts = ts.In(now.Location())
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	switch day(ts) {
	case day(now):
		return "Today"
	case day(now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return ts.Format("January 2, 2006")
	}
}

// GroupByDate splits messages into per-day sections, preserving order.
// Messages are assumed oldest first, as the server returns them.
func GroupByDate(messages []models.Message, now time.Time) []DateGroup {
	var groups []DateGroup
	for _, msg := range messages {
		label := DateLabel(msg.Timestamp, now)
		if len(groups) == 0 || groups[len(groups)-1].Label != label {
			groups = append(groups, DateGroup{Label: label})
		}
		last := &groups[len(groups)-1]
		last.Messages = append(last.Messages, msg)
	}
	return groups
}
