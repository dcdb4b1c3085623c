// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package payments runs the premium upgrade flow: order creation, the
// external checkout hand-off, and server-side verification. The upgrade is
// real only after the server verifies the completion; everything before
// that is provisional and any failure resets the flow to the start.
package payments

import (
	"context"
	"encoding/hex"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/models"
)

// plans is the fixed tier catalog the paywall renders. Amounts are in the
// currency's smallest unit.
var plans = []models.Plan{
	{Tier: models.TierSilver, Name: "Silver", Price: 29900, Currency: "INR",
		Perks: []string{"Unlimited requests", "See who viewed you"}},
	{Tier: models.TierGold, Name: "Gold", Price: 49900, Currency: "INR",
		Perks: []string{"Everything in Silver", "Profile boost", "Read receipts"}},
	{Tier: models.TierPlatinum, Name: "Platinum", Price: 99900, Currency: "INR",
		Perks: []string{"Everything in Gold", "Priority support", "Incognito browsing"}},
}

// Plans returns the tier catalog.
func Plans() []models.Plan {
	catalog := make([]models.Plan, len(plans))
	copy(catalog, plans)
	return catalog
}

// PlanFor looks up one tier, or false for an unknown tier.
func PlanFor(tier models.PlanTier) (models.Plan, bool) {
	for _, plan := range plans {
		if plan.Tier == tier {
			return plan, true
		}
	}
	return models.Plan{}, false
}

// CheckoutOpener hands the created order to the external checkout widget
// and returns the completion the user came back with. Implementations
// return an error when the user dismissed the widget or it failed to open.
type CheckoutOpener interface {
	Open(ctx context.Context, order models.PaymentOrder) (models.PaymentCompletion, error)
}

// Result is the uniform outcome of an upgrade attempt.
type Result struct {
	Success bool
	Message string
	Tier    models.PlanTier
}

// Service runs upgrade flows.
type Service struct {
	client *api.Client
	opener CheckoutOpener
	selfID func() string
}

// NewService builds a Service around the checkout opener.
func NewService(client *api.Client, opener CheckoutOpener, selfID func() string) *Service {
	return &Service{client: client, opener: opener, selfID: selfID}
}

// Upgrade runs the full flow for one tier. Every failure, at any stage,
// leaves no partial state behind: the next attempt starts from order
// creation again.
func (s *Service) Upgrade(ctx context.Context, tier models.PlanTier) Result {
	if _, known := PlanFor(tier); !known {
		return Result{Message: "unknown plan", Tier: tier}
	}

	order, err := s.client.CreateOrder(ctx, s.selfID(), tier)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("tier", string(tier)).Msg("order creation failed")
		return Result{Message: api.ServerMessage(err, "could not start checkout"), Tier: tier}
	}
	if order.OrderID == "" {
		return Result{Message: "could not start checkout", Tier: tier}
	}

	completion, err := s.opener.Open(ctx, *order)
	if err != nil {
		logging.Ctx(ctx).Info().Err(err).Msg("checkout dismissed")
		return Result{Message: "payment was not completed", Tier: tier}
	}

	// Shape check before the round trip. The server performs the real
	// signature verification; a completion that cannot possibly pass is
	// rejected without the call.
	if !completionWellFormed(order.OrderID, completion) {
		return Result{Message: "payment response was invalid", Tier: tier}
	}

	if err := s.client.VerifyPayment(ctx, completion); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("order", order.OrderID).Msg("payment verification failed")
		return Result{Message: api.ServerMessage(err, "payment could not be verified"), Tier: tier}
	}

	return Result{Success: true, Tier: tier, Message: "upgrade complete"}
}

// completionWellFormed checks the completion references the order we opened
// and carries a plausible HMAC-SHA256 signature (64 hex characters).
func completionWellFormed(orderID string, completion models.PaymentCompletion) bool {
	if completion.OrderID != orderID || completion.PaymentID == "" {
		return false
	}
	raw, err := hex.DecodeString(completion.Signature)
	if err != nil {
		return false
	}
	return len(raw) == 32
}
