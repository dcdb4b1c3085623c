// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/config"
	"github.com/amora-app/amora-go/internal/localstore"
	"github.com/amora-app/amora-go/internal/models"
	"github.com/amora-app/amora-go/internal/session"
)

func TestDefaultProfilePrivacy(t *testing.T) {
	p := DefaultProfile()
	if !p.Privacy.ShowProfile || !p.Privacy.ShowPhotos {
		t.Errorf("Privacy = %+v, want profile and photos visible by default", p.Privacy)
	}
	if p.Privacy.ShowContact {
		t.Error("ShowContact defaults to true, want hidden")
	}
}

func TestApplyReplacesOnlyPatchedSections(t *testing.T) {
	current := models.User{
		ID:    "u1",
		Email: "a@b.c",
		Personal: models.PersonalInfo{
			FirstName: "Sam",
			Bio:       "old bio",
		},
		Location: models.LocationInfo{City: "Pune"},
	}

	updated := Apply(current, Patch{
		Personal: &models.PersonalInfo{FirstName: "Sam", Bio: "new bio"},
	})

	if updated.Personal.Bio != "new bio" {
		t.Errorf("Bio = %q, want patched value", updated.Personal.Bio)
	}
	if updated.Location.City != "Pune" {
		t.Errorf("City = %q, unpatched section must survive", updated.Location.City)
	}
	if updated.ID != "u1" || updated.Email != "a@b.c" {
		t.Errorf("identity fields changed: %+v", updated)
	}
}

func TestApplySectionIsWholesale(t *testing.T) {
	current := models.User{
		Personal: models.PersonalInfo{FirstName: "Sam", Bio: "old bio"},
	}

	// The patch section omits Bio, so the saved section omits it too.
	updated := Apply(current, Patch{
		Personal: &models.PersonalInfo{FirstName: "Samuel"},
	})

	if updated.Personal.Bio != "" {
		t.Errorf("Bio = %q, a section patch replaces the whole section", updated.Personal.Bio)
	}
}

func TestCompletionEmpty(t *testing.T) {
	percent, missing := Completion(models.User{})
	if percent != 0 {
		t.Errorf("percent = %d, want 0", percent)
	}
	if len(missing) != len(completionChecks) {
		t.Errorf("len(missing) = %d, want %d", len(missing), len(completionChecks))
	}
}

func TestCompletionTwoOfThirteen(t *testing.T) {
	user := models.User{
		Email:    "sam@example.com",
		Personal: models.PersonalInfo{FirstName: "Sam"},
	}

	percent, missing := Completion(user)
	if percent != 15 {
		t.Errorf("percent = %d, want round(2/13*100) = 15", percent)
	}
	if len(missing) != 11 {
		t.Errorf("len(missing) = %d, want 11", len(missing))
	}
}

func TestCompletionRoundsHalfUp(t *testing.T) {
	// 7 of 13 is 53.85%, which rounds to 54, not down to 53.
	user := models.User{
		Email: "sam@example.com",
		Personal: models.PersonalInfo{
			FirstName:   "Sam",
			LastName:    "Stone",
			Gender:      "male",
			DateOfBirth: "1995-01-01",
			Bio:         "hello",
			Interests:   []string{"music"},
		},
	}

	percent, _ := Completion(user)
	if percent != 54 {
		t.Errorf("percent = %d, want 54", percent)
	}
}

func TestCompletionFull(t *testing.T) {
	user := models.User{
		Email: "sam@example.com",
		Personal: models.PersonalInfo{
			FirstName:   "Sam",
			LastName:    "Stone",
			Gender:      "male",
			DateOfBirth: "1995-01-01",
			Bio:         "hello",
			Interests:   []string{"music"},
			AvatarURL:   "https://cdn.example.com/a.jpg",
		},
		Religious:    models.ReligiousInfo{Religion: "none"},
		Professional: models.ProfessionalInfo{Occupation: "Engineer", Education: "BSc"},
		Location:     models.LocationInfo{City: "Pune"},
		Lifestyle:    models.LifestyleInfo{Diet: "vegetarian"},
		Preferences:  models.PartnerPreferences{AgeMin: 25, AgeMax: 35},
	}

	percent, missing := Completion(user)
	if percent != 100 {
		t.Errorf("percent = %d, want 100", percent)
	}
	if missing != nil {
		t.Errorf("missing = %v, want none", missing)
	}
}

func TestCompletionPartialPreferences(t *testing.T) {
	user := models.User{
		Preferences: models.PartnerPreferences{AgeMin: 25}, // no AgeMax
	}
	_, missing := Completion(user)

	found := false
	for _, label := range missing {
		if label == "partner preferences" {
			found = true
		}
	}
	if !found {
		t.Error("partner preferences with only AgeMin should count as missing")
	}
}

// TestEditorSaveUsesServerCopy verifies the edit base comes from the server,
// not the cached identity: a bio written from another device must survive an
// unrelated edit made here.
func TestEditorSaveUsesServerCopy(t *testing.T) {
	var saved models.User

	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"token":"tok1","user":{"_id":"u1","email":"a@b.c","personalInfo":{"firstName":"Sam","bio":"stale bio"}}}`))
	})
	mux.HandleFunc("/api/user/u1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"user":{"_id":"u1","email":"a@b.c","personalInfo":{"firstName":"Sam","bio":"server bio"}}}`))
	})
	mux.HandleFunc("/api/user/update", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&saved); err != nil {
			t.Errorf("decoding update body: %v", err)
		}
		w.Write([]byte(`{"success":true,"user":{"_id":"u1","email":"a@b.c","personalInfo":{"firstName":"Sam","bio":"server bio"},"locationInfo":{"city":"Pune"}}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store, err := localstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("localstore.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.APIConfig{
		BaseURL:        server.URL,
		Timeout:        5 * time.Second,
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
		RateLimit:      1000,
		RateBurst:      1000,
	}
	client, err := api.NewClient(cfg, store)
	if err != nil {
		t.Fatalf("api.NewClient() error = %v", err)
	}
	sessions := session.NewManager(client, store, time.Second)
	if result := sessions.Login(context.Background(), api.Credentials{Email: "a@b.c", Password: "pw"}); !result.Success {
		t.Fatalf("Login() = %+v", result)
	}

	result := NewEditor(sessions).Save(context.Background(), Patch{
		Location: &models.LocationInfo{City: "Pune"},
	})
	if !result.Success {
		t.Fatalf("Save() = %+v", result)
	}
	if saved.Personal.Bio != "server bio" {
		t.Errorf("saved Bio = %q, want the server's copy as the edit base", saved.Personal.Bio)
	}
	if saved.Location.City != "Pune" {
		t.Errorf("saved City = %q, want the patched value", saved.Location.City)
	}
}
