// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package models defines the wire-level data model shared by every Amora
// client package. The server is authoritative for all of these types; the
// client only ever holds transient copies plus a handful of client-local
// fields (optimistic message state, per-viewer toggles).
package models

import "time"

// PersonalInfo is the identity section of a profile.
type PersonalInfo struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Gender      string   `json:"gender"`
	DateOfBirth string   `json:"dateOfBirth"`
	Bio         string   `json:"bio"`
	Interests   []string `json:"interests"`
	AvatarURL   string   `json:"avatarUrl"`
}

// ReligiousInfo captures faith and community background.
type ReligiousInfo struct {
	Religion  string `json:"religion"`
	Community string `json:"community"`
	Practice  string `json:"practice"`
}

// ProfessionalInfo captures work and education.
type ProfessionalInfo struct {
	Occupation string `json:"occupation"`
	Company    string `json:"company"`
	Education  string `json:"education"`
	Income     string `json:"income"`
}

// FamilyInfo captures family background.
type FamilyInfo struct {
	FamilyType       string `json:"familyType"`
	FatherOccupation string `json:"fatherOccupation"`
	MotherOccupation string `json:"motherOccupation"`
	Siblings         int    `json:"siblings"`
}

// LifestyleInfo captures habits relevant to matching.
type LifestyleInfo struct {
	Diet     string `json:"diet"`
	Smoking  string `json:"smoking"`
	Drinking string `json:"drinking"`
	Exercise string `json:"exercise"`
}

// LocationInfo captures where the user lives.
type LocationInfo struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// PartnerPreferences describes the profile's stated match criteria.
type PartnerPreferences struct {
	AgeMin    int      `json:"ageMin"`
	AgeMax    int      `json:"ageMax"`
	Religions []string `json:"religions"`
	Locations []string `json:"locations"`
	Education string   `json:"education"`
}

// PrivacySettings controls which profile sections other users may see.
type PrivacySettings struct {
	ShowProfile bool `json:"showProfile"`
	ShowPhotos  bool `json:"showPhotos"`
	ShowContact bool `json:"showContact"`
}

// User is the full multi-section profile document. The same shape serves as
// the authenticated identity (session store) and as the profile of any other
// user fetched for display.
type User struct {
	ID           string             `json:"_id"`
	Email        string             `json:"email"`
	Personal     PersonalInfo       `json:"personalInfo"`
	Religious    ReligiousInfo      `json:"religiousInfo"`
	Professional ProfessionalInfo   `json:"professionalInfo"`
	Family       FamilyInfo         `json:"familyInfo"`
	Lifestyle    LifestyleInfo      `json:"lifestyleInfo"`
	Location     LocationInfo       `json:"locationInfo"`
	Preferences  PartnerPreferences `json:"partnerPreferences"`
	Privacy      PrivacySettings    `json:"privacySettings"`
	Premium      bool               `json:"premium"`
	PlanTier     string             `json:"planTier"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// DisplayName joins the personal first and last name, tolerating either
// being empty.
func (u User) DisplayName() string {
	first := u.Personal.FirstName
	last := u.Personal.LastName
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

// UserRef is the compact participant reference embedded in conversations
// and request rows.
type UserRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl"`
}

// DisplayName joins first and last name for list rendering.
func (r UserRef) DisplayName() string {
	if r.FirstName != "" && r.LastName != "" {
		return r.FirstName + " " + r.LastName
	}
	if r.FirstName != "" {
		return r.FirstName
	}
	return r.LastName
}
