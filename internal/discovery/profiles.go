// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/models"
)

// ProfileCache memoizes full-profile lookups. Opening the same profile
// twice within the TTL reuses the first answer; profile detail screens are
// opened and closed constantly while browsing.
type ProfileCache struct {
	client *api.Client
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]profileEntry
}

type profileEntry struct {
	user    *models.User
	fetched time.Time
}

// NewProfileCache builds a cache with the given freshness window.
func NewProfileCache(client *api.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{
		client:  client,
		ttl:     ttl,
		entries: make(map[string]profileEntry),
	}
}

// Get returns the profile for id, from cache when fresh. Errors are never
// cached; the next call retries.
func (c *ProfileCache) Get(ctx context.Context, id string) (*models.User, error) {
	c.mu.Lock()
	entry, ok := c.entries[id]
	c.mu.Unlock()
	if ok && time.Since(entry.fetched) < c.ttl {
		return entry.user, nil
	}

	user, err := c.client.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[id] = profileEntry{user: user, fetched: time.Now()}
	c.mu.Unlock()
	return user, nil
}

// Invalidate drops one entry, forcing the next Get to refetch. Called after
// anything that changes what the profile screen shows.
func (c *ProfileCache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}
