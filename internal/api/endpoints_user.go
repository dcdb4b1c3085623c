// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/amora-app/amora-go/internal/models"
)

// Envelope is the server's common response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthResponse is the shape of login, signup, session-check, and profile
// update responses. The user object has been observed under different keys
// depending on the endpoint and server version, so it is kept raw until
// ExtractUser tries each key in turn.
type AuthResponse struct {
	Envelope
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Data    json.RawMessage `json:"data"`
	NewUser json.RawMessage `json:"newUser"`
}

// ExtractUser tries each key the server has been seen to nest the user
// under. Returns (nil, false) when no recognizable user object is present,
// which is a legitimate outcome for signup ("registered, please login").
func (r *AuthResponse) ExtractUser() (*models.User, bool) {
	for _, raw := range []json.RawMessage{r.User, r.Data, r.NewUser} {
		if user, ok := decodeUser(raw); ok {
			return user, true
		}
	}
	return nil, false
}

// decodeUser attempts to read a user from raw, tolerating one level of
// nesting under a "user" key.
func decodeUser(raw json.RawMessage) (*models.User, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err == nil && (user.ID != "" || user.Email != "") {
		return &user, true
	}

	var nested struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested.User) > 0 {
		if err := json.Unmarshal(nested.User, &user); err == nil && (user.ID != "" || user.Email != "") {
			return &user, true
		}
	}

	return nil, false
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupForm is the account creation payload. The profile document proper is
// filled in later through the profile editor.
type SignupForm struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Gender    string `json:"gender" validate:"required"`
	DOB       string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
}

// Me confirms the current session and returns the canonical identity.
func (c *Client) Me(ctx context.Context) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/me", nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login posts credentials.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/login", creds, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, form SignupForm) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/signup", form, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout notifies the server. Callers clear local state regardless of the
// outcome here.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/user/logout", nil, nil)
}

// UpdateProfile PUTs the full profile document and returns the updated
// identity.
func (c *Client) UpdateProfile(ctx context.Context, profile *models.User) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPut, "/api/user/update", profile, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return &resp, nil
}

// userResponse wraps a single fetched profile.
type userResponse struct {
	Envelope
	User json.RawMessage `json:"user"`
	Data json.RawMessage `json:"data"`
}

// GetUser fetches any user's full profile by id.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/"+id, nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	for _, raw := range []json.RawMessage{resp.User, resp.Data} {
		if user, ok := decodeUser(raw); ok {
			return user, nil
		}
	}
	return nil, &APIError{StatusCode: http.StatusOK, Message: "user missing from response"}
}

// usersResponse wraps the discovery listing.
type usersResponse struct {
	Envelope
	Users []models.User `json:"users"`
}

// AllUsers lists every visible profile, the discovery feed's data source.
// The server excludes the calling user.
func (c *Client) AllUsers(ctx context.Context) ([]models.User, error) {
	var resp usersResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/all-users", nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Users, nil
}
