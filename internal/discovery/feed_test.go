// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/config"
	"github.com/amora-app/amora-go/internal/connections"
	"github.com/amora-app/amora-go/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
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

func newTestFeed(t *testing.T, handler http.Handler) *Feed {
	t.Helper()
	client := newTestClient(t, handler)
	selfID := func() string { return "self" }
	return NewFeed(client, connections.NewService(client, selfID), selfID)
}

func TestNewCard(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	user := models.User{
		ID: "u1",
		Personal: models.PersonalInfo{
			FirstName:   "Priya",
			LastName:    "Nair",
			DateOfBirth: "1998-03-10",
			Bio:         "weekend trekker",
			Interests:   []string{"music", "hiking", "cooking", "films", "travel"},
			AvatarURL:   "https://cdn.example.com/a.jpg",
		},
		Professional: models.ProfessionalInfo{Occupation: "Designer"},
		Location:     models.LocationInfo{City: "Pune", Country: "India"},
	}

	card := NewCard(user, now)
	if card.Name != "Priya Nair" {
		t.Errorf("Name = %q", card.Name)
	}
	if card.Age != 28 {
		t.Errorf("Age = %d, want 28", card.Age)
	}
	if card.Location != "Pune, India" {
		t.Errorf("Location = %q", card.Location)
	}
	if card.Bio != "weekend trekker" {
		t.Errorf("Bio = %q", card.Bio)
	}
	if len(card.Interests) != 4 {
		t.Errorf("len(Interests) = %d, want the display cap of 4", len(card.Interests))
	}
	if card.Status != models.StatusNone {
		t.Errorf("Status = %q, want none", card.Status)
	}
}

func TestNewCardSparseProfile(t *testing.T) {
	card := NewCard(models.User{ID: "u2"}, time.Now())
	if card.UserID != "u2" {
		t.Errorf("UserID = %q", card.UserID)
	}
	if card.Age != 0 || card.Name != "" || card.Location != "" || len(card.Interests) != 0 {
		t.Errorf("sparse profile produced non-zero card: %+v", card)
	}
}

func TestAgeFrom(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  string
		want int
	}{
		{"birthday passed", "1990-01-15", 36},
		{"birthday upcoming", "1990-12-15", 35},
		{"garbage", "not-a-date", 0},
		{"empty", "", 0},
		{"future date", "2030-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageFrom(tt.dob, now); got != tt.want {
				t.Errorf("ageFrom(%q) = %d, want %d", tt.dob, got, tt.want)
			}
		})
	}
}

func TestLoadExcludesSelfAndResolvesStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/all-users", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"users":[
			{"_id":"self","personalInfo":{"firstName":"Sam"}},
			{"_id":"u1","personalInfo":{"firstName":"Alex"}},
			{"_id":"u2","personalInfo":{"firstName":"Robin"}}]}`))
	})
	mux.HandleFunc("/api/user/request/status", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("receiverId") == "u1" {
			w.Write([]byte(`{"success":true,"status":"pending","requestId":"req1"}`))
			return
		}
		w.Write([]byte(`{"success":true}`))
	})

	feed := newTestFeed(t, mux)
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cards := feed.Cards()
	if len(cards) != 2 {
		t.Fatalf("len(cards) = %d, want 2 (self excluded)", len(cards))
	}
	if cards[0].UserID != "u1" || cards[0].Status != models.StatusPending || cards[0].RequestID != "req1" {
		t.Errorf("cards[0] = %+v", cards[0])
	}
	if cards[1].Status != models.StatusNone {
		t.Errorf("cards[1].Status = %q, want none", cards[1].Status)
	}
}

func TestConnectFlipsOnlyAfterConfirm(t *testing.T) {
	var succeed atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/all-users", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"users":[{"_id":"u1","personalInfo":{"firstName":"Alex"}}]}`))
	})
	mux.HandleFunc("/api/user/request/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/api/user/chat-request/send", func(w http.ResponseWriter, r *http.Request) {
		if succeed.Load() {
			w.Write([]byte(`{"success":true}`))
			return
		}
		w.Write([]byte(`{"success":false,"message":"already pending"}`))
	})

	feed := newTestFeed(t, mux)
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result := feed.Connect(context.Background(), "u1"); result.Success {
		t.Fatal("Connect() succeeded, server said no")
	}
	if got := feed.Cards()[0].Status; got != models.StatusNone {
		t.Errorf("Status after failed send = %q, want unchanged none", got)
	}

	succeed.Store(true)
	if result := feed.Connect(context.Background(), "u1"); !result.Success {
		t.Fatal("Connect() failed, server said yes")
	}
	if got := feed.Cards()[0].Status; got != models.StatusPending {
		t.Errorf("Status after confirmed send = %q, want pending", got)
	}
}

func TestRefreshStatus(t *testing.T) {
	var status atomic.Value
	status.Store("pending")

	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/all-users", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"users":[{"_id":"u1","personalInfo":{"firstName":"Alex"}}]}`))
	})
	mux.HandleFunc("/api/user/request/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"status":"` + status.Load().(string) + `"}`))
	})

	feed := newTestFeed(t, mux)
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := feed.Cards()[0].Status; got != models.StatusPending {
		t.Fatalf("initial status = %q", got)
	}

	// The other user accepted in the meantime.
	status.Store("accepted")
	refreshed, err := feed.RefreshStatus(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RefreshStatus() error = %v", err)
	}
	if refreshed != models.StatusAccepted {
		t.Errorf("RefreshStatus() = %q, want accepted", refreshed)
	}
	if got := feed.Cards()[0].Status; got != models.StatusAccepted {
		t.Errorf("card status = %q, want accepted", got)
	}
}

func TestProfileCacheMemoizes(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"success":true,"user":{"_id":"u1","email":"a@b.c"}}`))
	})

	cache := NewProfileCache(newTestClient(t, mux), time.Minute)

	for i := 0; i < 3; i++ {
		user, err := cache.Get(context.Background(), "u1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if user.ID != "u1" {
			t.Errorf("user.ID = %q", user.ID)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (memoized)", got)
	}

	cache.Invalidate("u1")
	if _, err := cache.Get(context.Background(), "u1"); err != nil {
		t.Fatalf("Get() after invalidate error = %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2 after invalidate", got)
	}
}
