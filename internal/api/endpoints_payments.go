// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package api

import (
	"context"
	"net/http"

	"github.com/amora-app/amora-go/internal/models"
)

// createOrderRequest names the tier being purchased.
type createOrderRequest struct {
	Tier models.PlanTier `json:"tier"`
}

// orderResponse wraps the gateway order created server-side.
type orderResponse struct {
	Envelope
	Order models.PaymentOrder `json:"order"`
}

// CreateOrder asks the server to create a gateway order for the tier before
// the checkout widget opens.
func (c *Client) CreateOrder(ctx context.Context, userID string, tier models.PlanTier) (*models.PaymentOrder, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/api/payment/create-order/"+userID,
		createOrderRequest{Tier: tier}, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// VerifyPayment submits the checkout completion for server-side signature
// verification. The upgrade is not real until this succeeds.
func (c *Client) VerifyPayment(ctx context.Context, completion models.PaymentCompletion) error {
	var resp Envelope
	if err := c.do(ctx, http.MethodPost, "/api/payment-verification/verify-payment",
		completion, &resp); err != nil {
		return err
	}
	return checkEnvelope(resp.Success, resp.Message)
}
