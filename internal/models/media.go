// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package models

import "time"

// MediaType distinguishes gallery items.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaPrivacy is the visibility of an uploaded item.
type MediaPrivacy string

const (
	PrivacyPublic  MediaPrivacy = "public"
	PrivacyFriends MediaPrivacy = "friends"
	PrivacyPrivate MediaPrivacy = "private"
)

// MediaItem is one gallery or reel entry owned by the uploading user.
// Liked and Bookmarked are per-viewer toggles, applied optimistically and
// rolled back if the server rejects them.
type MediaItem struct {
	ID         string       `json:"_id"`
	OwnerID    string       `json:"ownerId"`
	MediaType  MediaType    `json:"mediaType"`
	MediaURL   string       `json:"mediaUrl"`
	Caption    string       `json:"caption,omitempty"`
	Likes      int          `json:"likes"`
	Comments   int          `json:"comments"`
	Privacy    MediaPrivacy `json:"privacy"`
	Liked      bool         `json:"liked"`
	Bookmarked bool         `json:"bookmarked"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// GalleryStats are the aggregate counters shown above the gallery grid.
type GalleryStats struct {
	Total  int `json:"total"`
	Images int `json:"images"`
	Videos int `json:"videos"`
}

// PlanTier identifies a premium subscription level.
type PlanTier string

const (
	TierSilver   PlanTier = "silver"
	TierGold     PlanTier = "gold"
	TierPlatinum PlanTier = "platinum"
)

// Plan is one fixed subscription tier presented by the paywall.
type Plan struct {
	Tier     PlanTier `json:"tier"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Currency string   `json:"currency"`
	Perks    []string `json:"perks"`
}

// PaymentOrder is the server-side order created before the checkout widget
// opens. The gateway's completion callback references OrderID.
type PaymentOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// PaymentCompletion is what the third-party checkout hands back on success.
type PaymentCompletion struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}
