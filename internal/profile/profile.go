// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package profile edits the multi-section profile document: defaults for a
// fresh account, section-wise patching, and the completion meter.
package profile

import (
	"context"

	"github.com/amora-app/amora-go/internal/models"
	"github.com/amora-app/amora-go/internal/session"
)

// DefaultProfile returns the document a brand-new account starts from.
// Only privacy carries non-zero defaults: profiles are visible until the
// user opts out, contact details are hidden until they opt in.
func DefaultProfile() models.User {
	return models.User{
		Privacy: models.PrivacySettings{
			ShowProfile: true,
			ShowPhotos:  true,
			ShowContact: false,
		},
	}
}

// Patch carries the sections one save touches. The edit screens work one
// section at a time; a nil section means "leave as is", a non-nil section
// replaces its counterpart wholesale.
type Patch struct {
	Personal     *models.PersonalInfo
	Religious    *models.ReligiousInfo
	Professional *models.ProfessionalInfo
	Family       *models.FamilyInfo
	Lifestyle    *models.LifestyleInfo
	Location     *models.LocationInfo
	Preferences  *models.PartnerPreferences
	Privacy      *models.PrivacySettings
}

// Apply returns current with the patch's sections swapped in. Identity
// fields (id, email, premium state) are never patchable from here.
func Apply(current models.User, patch Patch) models.User {
	if patch.Personal != nil {
		current.Personal = *patch.Personal
	}
	if patch.Religious != nil {
		current.Religious = *patch.Religious
	}
	if patch.Professional != nil {
		current.Professional = *patch.Professional
	}
	if patch.Family != nil {
		current.Family = *patch.Family
	}
	if patch.Lifestyle != nil {
		current.Lifestyle = *patch.Lifestyle
	}
	if patch.Location != nil {
		current.Location = *patch.Location
	}
	if patch.Preferences != nil {
		current.Preferences = *patch.Preferences
	}
	if patch.Privacy != nil {
		current.Privacy = *patch.Privacy
	}
	return current
}

// completionChecks is the fixed checklist behind the completion meter. The
// denominator is the checklist length, so adding a check changes every
// profile's percentage.
var completionChecks = []struct {
	label  string
	filled func(u models.User) bool
}{
	{"email", func(u models.User) bool { return u.Email != "" }},
	{"first name", func(u models.User) bool { return u.Personal.FirstName != "" }},
	{"last name", func(u models.User) bool { return u.Personal.LastName != "" }},
	{"gender", func(u models.User) bool { return u.Personal.Gender != "" }},
	{"date of birth", func(u models.User) bool { return u.Personal.DateOfBirth != "" }},
	{"bio", func(u models.User) bool { return u.Personal.Bio != "" }},
	{"interests", func(u models.User) bool { return len(u.Personal.Interests) > 0 }},
	{"photo", func(u models.User) bool { return u.Personal.AvatarURL != "" }},
	{"religion", func(u models.User) bool { return u.Religious.Religion != "" }},
	{"occupation", func(u models.User) bool { return u.Professional.Occupation != "" }},
	{"city", func(u models.User) bool { return u.Location.City != "" }},
	{"lifestyle", func(u models.User) bool { return u.Lifestyle.Diet != "" }},
	{"partner preferences", func(u models.User) bool {
		return u.Preferences.AgeMin > 0 && u.Preferences.AgeMax > 0
	}},
}

// Completion scores the profile against the checklist. Returns the rounded
// percentage and the labels still missing, in checklist order.
func Completion(user models.User) (int, []string) {
	var filled int
	var missing []string
	for _, check := range completionChecks {
		if check.filled(user) {
			filled++
		} else {
			missing = append(missing, check.label)
		}
	}
	total := len(completionChecks)
	return (filled*100 + total/2) / total, missing
}

// Editor saves section edits through the session so the cached identity
// stays in step with the server's copy.
type Editor struct {
	sessions *session.Manager
}

// NewEditor builds an Editor over the session manager.
func NewEditor(sessions *session.Manager) *Editor {
	return &Editor{sessions: sessions}
}

// Save applies the patch to a server-fresh copy of the profile and persists
// the whole document. The cached identity may lag behind the canonical
// record, so the base for the edit comes from the server when it answers;
// the cached copy is only a fallback. Requires a logged-in session.
func (e *Editor) Save(ctx context.Context, patch Patch) session.Result {
	current := e.sessions.Current()
	if current == nil {
		return session.Result{Message: "not logged in"}
	}

	base := *current
	if fresh := e.sessions.GetUser(ctx, current.ID); fresh.Success && fresh.User != nil {
		base = *fresh.User
	}

	updated := Apply(base, patch)
	return e.sessions.UpdateProfile(ctx, &updated)
}
