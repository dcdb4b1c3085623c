// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package chat

import (
	"testing"
	"time"

	"github.com/amora-app/amora-go/internal/models"
)

func TestDateLabel(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"same morning", time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC), "Today"},
		{"late yesterday", time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{"two days back", time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC), "March 13, 2026"},
		{"last year", time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC), "December 31, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateLabel(tt.ts, now); got != tt.want {
				t.Errorf("DateLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupByDate(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	messages := []models.Message{
		{ID: "a", Timestamp: time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)},
		{ID: "b", Timestamp: time.Date(2026, 3, 13, 21, 0, 0, 0, time.UTC)},
		{ID: "c", Timestamp: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)},
		{ID: "d", Timestamp: time.Date(2026, 3, 15, 9, 59, 0, 0, time.UTC)},
	}

	groups := GroupByDate(messages, now)
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}

	wantLabels := []string{"March 13, 2026", "Yesterday", "Today"}
	wantCounts := []int{2, 1, 1}
	for i, group := range groups {
		if group.Label != wantLabels[i] {
			t.Errorf("groups[%d].Label = %q, want %q", i, group.Label, wantLabels[i])
		}
		if len(group.Messages) != wantCounts[i] {
			t.Errorf("groups[%d] has %d messages, want %d", i, len(group.Messages), wantCounts[i])
		}
	}
}

func TestGroupByDateEmpty(t *testing.T) {
	if groups := GroupByDate(nil, time.Now()); groups != nil {
		t.Errorf("GroupByDate(nil) = %v, want nil", groups)
	}
}
