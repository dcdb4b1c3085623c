// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package discovery builds the browse feed: every other user rendered as a
// card with their request status resolved per row.
package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/connections"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/models"
)

// maxCardInterests caps how many interest chips a card shows.
const maxCardInterests = 4

// Card is one feed entry, flattened from the profile document for display.
// Every field tolerates a sparsely filled profile.
type Card struct {
	UserID     string
	Name       string
	Age        int
	Location   string
	Bio        string
	Profession string
	Interests  []string
	AvatarURL  string

	Status    models.RequestStatus
	RequestID string
}

// NewCard flattens a profile into a Card. Missing sections produce zero
// values, never a panic; interests are truncated to the display cap.
func NewCard(user models.User, now time.Time) Card {
	interests := user.Personal.Interests
	if len(interests) > maxCardInterests {
		interests = interests[:maxCardInterests]
	}

	location := user.Location.City
	if location != "" && user.Location.Country != "" {
		location += ", " + user.Location.Country
	} else if location == "" {
		location = user.Location.Country
	}

	return Card{
		UserID:     user.ID,
		Name:       user.DisplayName(),
		Age:        ageFrom(user.Personal.DateOfBirth, now),
		Location:   location,
		Bio:        user.Personal.Bio,
		Profession: user.Professional.Occupation,
		Interests:  interests,
		AvatarURL:  user.Personal.AvatarURL,
		Status:     models.StatusNone,
	}
}

// ageFrom computes full years since a yyyy-mm-dd birth date. Unparseable
// dates yield 0, rendered as "age unknown".
func ageFrom(dob string, now time.Time) int {
	born, err := time.Parse("2006-01-02", strings.TrimSpace(dob))
	if err != nil {
		return 0
	}
	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// Feed is the browse screen's data source. Safe for concurrent use.
type Feed struct {
	client *api.Client
	conns  *connections.Service
	selfID connections.SelfID

	mu    sync.RWMutex
	cards []Card
}

// NewFeed builds a Feed over the API and the connections service.
func NewFeed(client *api.Client, conns *connections.Service, selfID connections.SelfID) *Feed {
	return &Feed{client: client, conns: conns, selfID: selfID}
}

// Load fetches every user, drops the current one, and resolves each card's
// request status. A status lookup that fails leaves that one card at "none"
// rather than failing the whole feed.
func (f *Feed) Load(ctx context.Context) error {
	users, err := f.client.AllUsers(ctx)
	if err != nil {
		return err
	}

	self := f.selfID()
	now := time.Now()
	cards := make([]Card, 0, len(users))
	for _, user := range users {
		if user.ID == "" || user.ID == self {
			continue
		}
		card := NewCard(user, now)

		status, requestID, err := f.conns.Status(ctx, user.ID)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("user", user.ID).Msg("status lookup failed")
		} else {
			card.Status = status
			card.RequestID = requestID
		}
		cards = append(cards, card)
	}

	f.mu.Lock()
	f.cards = cards
	f.mu.Unlock()
	return nil
}

// Cards returns a snapshot of the feed.
func (f *Feed) Cards() []Card {
	f.mu.RLock()
	defer f.mu.RUnlock()
	snapshot := make([]Card, len(f.cards))
	copy(snapshot, f.cards)
	return snapshot
}

// Connect sends a request to the card's user. The card flips to pending
// only after the server confirms the send; a failed send changes nothing.
func (f *Feed) Connect(ctx context.Context, userID string) connections.Result {
	result := f.conns.Send(ctx, userID)
	if result.Success {
		f.setStatus(userID, models.StatusPending, "")
	}
	return result
}

// Cancel withdraws the pending request to the card's user.
func (f *Feed) Cancel(ctx context.Context, userID string) connections.Result {
	result := f.conns.CancelBySender(ctx, userID)
	if result.Success {
		f.setStatus(userID, models.StatusNone, "")
	}
	return result
}

// RefreshStatus re-queries one card's request state. The feed itself is a
// point-in-time snapshot; screens call this when a card regains focus so a
// transition made elsewhere (another device, the other user accepting) is
// picked up without reloading everything.
func (f *Feed) RefreshStatus(ctx context.Context, userID string) (models.RequestStatus, error) {
	status, requestID, err := f.conns.Status(ctx, userID)
	if err != nil {
		return models.StatusNone, err
	}
	f.setStatus(userID, status, requestID)
	return status, nil
}

// setStatus updates one card in place.
func (f *Feed) setStatus(userID string, status models.RequestStatus, requestID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cards {
		if f.cards[i].UserID == userID {
			f.cards[i].Status = status
			f.cards[i].RequestID = requestID
			return
		}
	}
}
