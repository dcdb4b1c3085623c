// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package session owns the authenticated identity lifecycle: signup, login,
// session restore on startup, profile updates, and logout.
//
// Every operation returns a Result instead of an error. A network failure, a
// rejected credential, and a malformed server response all collapse into
// Result{Success: false, Message: ...} so callers render one failure path.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/localstore"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/models"
	"github.com/amora-app/amora-go/internal/validation"
)

// Result is the uniform outcome shape for every session operation.
type Result struct {
	Success bool
	User    *models.User
	Message string
}

// failure builds a failed Result with the given message.
func failure(message string) Result {
	return Result{Success: false, Message: message}
}

// Manager coordinates the API, the local cache, and the in-memory identity.
type Manager struct {
	client         *api.Client
	store          *localstore.Store
	restoreTimeout time.Duration

	current *models.User
}

// NewManager builds a Manager. restoreTimeout bounds the server round trip
// during Restore; the cached identity is used when the server cannot answer
// in time.
func NewManager(client *api.Client, store *localstore.Store, restoreTimeout time.Duration) *Manager {
	return &Manager{
		client:         client,
		store:          store,
		restoreTimeout: restoreTimeout,
	}
}

// Current returns the in-memory identity, or nil when logged out.
func (m *Manager) Current() *models.User {
	return m.current
}

// Restore re-establishes the session on startup.
//
// The cached identity is adopted immediately, then the server is asked to
// confirm the session, bounded by the restore timeout. A confirmed session
// overwrites the cache with the server's copy. Any failed check, including a
// rejection, falls back to the cached identity: only an explicit logout or a
// failed login clears the session, never a failed restore.
//
// A cached token whose expiry has already passed skips the round trip, since
// the server's answer is known in advance.
func (m *Manager) Restore(ctx context.Context) Result {
	cached, err := m.store.User()
	if err != nil && !errors.Is(err, localstore.ErrNotFound) {
		logging.Warn().Err(err).Msg("reading cached identity")
	}

	token, tokenErr := m.store.Token()
	if cached == nil && errors.Is(tokenErr, localstore.ErrNotFound) {
		return failure("no saved session")
	}
	if tokenErr == nil && tokenExpired(token) {
		return m.fallback(cached, "session expired, please log in")
	}

	ctx, cancel := context.WithTimeout(ctx, m.restoreTimeout)
	defer cancel()

	resp, err := m.client.Me(ctx)
	switch {
	case err == nil:
		if user, ok := resp.ExtractUser(); ok {
			m.adopt(user, resp.Token)
			return Result{Success: true, User: user}
		}
		// Confirmed but no identity in the body. Keep the cache.
		if cached != nil {
			m.current = cached
			return Result{Success: true, User: cached}
		}
		return failure("session could not be restored")

	case errors.Is(err, api.ErrUnauthorized):
		return m.fallback(cached, "session expired, please log in")

	default:
		// Timeout or transport trouble. The cached identity keeps the app
		// usable until the server is reachable again.
		if cached != nil {
			logging.Warn().Err(err).Msg("session check unreachable, using cached identity")
		}
		return m.fallback(cached, api.ServerMessage(err, "could not reach the server"))
	}
}

// fallback resolves a failed session check: the cached identity stays in use
// when one exists, otherwise the failure message stands alone.
func (m *Manager) fallback(cached *models.User, message string) Result {
	if cached == nil {
		return failure(message)
	}
	m.current = cached
	return Result{Success: true, User: cached, Message: message}
}

// GetUser fetches a profile by id straight from the server. The profile
// editor hydrates from here rather than trusting the cached identity, which
// may lag behind the canonical record.
func (m *Manager) GetUser(ctx context.Context, id string) Result {
	user, err := m.client.GetUser(ctx, id)
	if err != nil {
		return failure(api.ServerMessage(err, "could not load the profile"))
	}
	return Result{Success: true, User: user}
}

// Login authenticates with credentials. A failed login clears the local
// cache so a half-written session never survives a rejection. A success
// that carries no recognizable user object is still a success with a nil
// User; only failures may clear storage.
func (m *Manager) Login(ctx context.Context, creds api.Credentials) Result {
	if err := validation.ValidateStruct(&creds); err != nil {
		return failure(err.Error())
	}

	resp, err := m.client.Login(ctx, creds)
	if err != nil {
		m.endSession()
		return failure(api.ServerMessage(err, "login failed"))
	}

	user, _ := resp.ExtractUser()
	if user != nil {
		m.adopt(user, resp.Token)
	}
	return Result{Success: true, User: user, Message: resp.Message}
}

// Signup creates an account. Some server versions return the new account
// inline and others answer with only a confirmation message; both are
// successes, the caller routes to login when User is nil.
func (m *Manager) Signup(ctx context.Context, form api.SignupForm) Result {
	if err := validation.ValidateStruct(&form); err != nil {
		return failure(err.Error())
	}

	resp, err := m.client.Signup(ctx, form)
	if err != nil {
		return failure(api.ServerMessage(err, "signup failed"))
	}

	user, _ := resp.ExtractUser()
	if user != nil {
		m.adopt(user, resp.Token)
	}
	return Result{Success: true, User: user, Message: resp.Message}
}

// UpdateProfile saves the edited profile document. A success answer that
// carries no user object is treated as a failure: rendering stale sections
// as if they were saved is worse than reporting an error.
func (m *Manager) UpdateProfile(ctx context.Context, profile *models.User) Result {
	resp, err := m.client.UpdateProfile(ctx, profile)
	if err != nil {
		return failure(api.ServerMessage(err, "profile update failed"))
	}

	user, ok := resp.ExtractUser()
	if !ok {
		return failure("server confirmed the update but returned no profile")
	}

	m.adopt(user, resp.Token)
	return Result{Success: true, User: user, Message: resp.Message}
}

// Logout tells the server to end the session, then clears local state
// regardless of the answer. Logging out must never fail from the user's
// point of view.
func (m *Manager) Logout(ctx context.Context) Result {
	if err := m.client.Logout(ctx); err != nil {
		logging.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
	}
	m.endSession()
	return Result{Success: true, Message: "logged out"}
}

// adopt installs the identity in memory and persists it, along with the
// token when the server rotated one.
func (m *Manager) adopt(user *models.User, token string) {
	m.current = user
	if err := m.store.SaveUser(user); err != nil {
		logging.Warn().Err(err).Msg("persisting identity")
	}
	if token != "" {
		if err := m.store.SaveToken(token); err != nil {
			logging.Warn().Err(err).Msg("persisting token")
		}
	}
}

// endSession drops the in-memory identity and all persisted session state.
func (m *Manager) endSession() {
	m.current = nil
	if err := m.store.Clear(); err != nil {
		logging.Warn().Err(err).Msg("clearing session state")
	}
}
