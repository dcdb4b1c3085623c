// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package payments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/config"
	"github.com/amora-app/amora-go/internal/models"
)

// fakeOpener scripts the checkout widget's behavior.
type fakeOpener struct {
	completion models.PaymentCompletion
	err        error
	opened     atomic.Int32
}

func (f *fakeOpener) Open(ctx context.Context, order models.PaymentOrder) (models.PaymentCompletion, error) {
	f.opened.Add(1)
	if f.err != nil {
		return models.PaymentCompletion{}, f.err
	}
	completion := f.completion
	if completion.OrderID == "" {
		completion.OrderID = order.OrderID
	}
	return completion, nil
}

// validSignature is a plausible HMAC-SHA256 hex digest.
var validSignature = strings.Repeat("ab", 32)

func newTestService(t *testing.T, handler http.Handler, opener CheckoutOpener) *Service {
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
	return NewService(client, opener, func() string { return "self" })
}

// paymentServer answers order creation and scripts the verification result.
func paymentServer(t *testing.T, verifyBody string) (http.Handler, *atomic.Int32) {
	t.Helper()

	var verifies atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/payment/create-order/self", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"order":{"orderId":"ord1","amount":49900,"currency":"INR","keyId":"key1"}}`))
	})
	mux.HandleFunc("/api/payment-verification/verify-payment", func(w http.ResponseWriter, r *http.Request) {
		verifies.Add(1)
		w.Write([]byte(verifyBody))
	})
	return mux, &verifies
}

func TestPlansCatalog(t *testing.T) {
	catalog := Plans()
	if len(catalog) != 3 {
		t.Fatalf("len(Plans()) = %d, want 3", len(catalog))
	}

	// Callers must not be able to mutate the catalog.
	catalog[0].Name = "mutated"
	if Plans()[0].Name == "mutated" {
		t.Error("Plans() returned shared backing storage")
	}

	if _, ok := PlanFor(models.TierGold); !ok {
		t.Error("PlanFor(gold) = false")
	}
	if _, ok := PlanFor("diamond"); ok {
		t.Error("PlanFor(diamond) = true, want unknown")
	}
}

func TestUpgradeHappyPath(t *testing.T) {
	handler, verifies := paymentServer(t, `{"success":true}`)
	opener := &fakeOpener{completion: models.PaymentCompletion{
		PaymentID: "pay1",
		Signature: validSignature,
	}}

	svc := newTestService(t, handler, opener)
	result := svc.Upgrade(context.Background(), models.TierGold)
	if !result.Success {
		t.Fatalf("Upgrade() = %+v, want success", result)
	}
	if opener.opened.Load() != 1 {
		t.Errorf("checkout opened %d times, want 1", opener.opened.Load())
	}
	if verifies.Load() != 1 {
		t.Errorf("verification called %d times, want 1", verifies.Load())
	}
}

func TestUpgradeUnknownTier(t *testing.T) {
	opener := &fakeOpener{}
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an unknown tier")
	}), opener)

	if result := svc.Upgrade(context.Background(), "diamond"); result.Success {
		t.Fatal("Upgrade(diamond) succeeded")
	}
	if opener.opened.Load() != 0 {
		t.Error("checkout opened for an unknown tier")
	}
}

func TestUpgradeDismissedCheckout(t *testing.T) {
	handler, verifies := paymentServer(t, `{"success":true}`)
	opener := &fakeOpener{err: errors.New("user closed the widget")}

	svc := newTestService(t, handler, opener)
	result := svc.Upgrade(context.Background(), models.TierGold)
	if result.Success {
		t.Fatalf("Upgrade() = %+v, want failure", result)
	}
	if verifies.Load() != 0 {
		t.Error("verification called after a dismissed checkout")
	}
}

func TestUpgradeMalformedCompletion(t *testing.T) {
	tests := []struct {
		name       string
		completion models.PaymentCompletion
	}{
		{"wrong order", models.PaymentCompletion{OrderID: "other", PaymentID: "pay1", Signature: validSignature}},
		{"missing payment id", models.PaymentCompletion{OrderID: "ord1", Signature: validSignature}},
		{"non-hex signature", models.PaymentCompletion{OrderID: "ord1", PaymentID: "pay1", Signature: "zz"}},
		{"short signature", models.PaymentCompletion{OrderID: "ord1", PaymentID: "pay1", Signature: "abcd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, verifies := paymentServer(t, `{"success":true}`)
			svc := newTestService(t, handler, &fakeOpener{completion: tt.completion})

			if result := svc.Upgrade(context.Background(), models.TierGold); result.Success {
				t.Fatalf("Upgrade() succeeded with a malformed completion")
			}
			if verifies.Load() != 0 {
				t.Error("malformed completion reached the server")
			}
		})
	}
}

func TestUpgradeVerificationRejected(t *testing.T) {
	handler, _ := paymentServer(t, `{"success":false,"message":"signature mismatch"}`)
	opener := &fakeOpener{completion: models.PaymentCompletion{
		PaymentID: "pay1",
		Signature: validSignature,
	}}

	svc := newTestService(t, handler, opener)
	result := svc.Upgrade(context.Background(), models.TierGold)
	if result.Success {
		t.Fatalf("Upgrade() = %+v, want failure", result)
	}
	if result.Message != "signature mismatch" {
		t.Errorf("Message = %q, want the server's message", result.Message)
	}

	// A failed flow resets fully: the next attempt creates a fresh order.
	opener.opened.Store(0)
	if result := svc.Upgrade(context.Background(), models.TierGold); result.Success {
		t.Fatal("second Upgrade() succeeded against a rejecting server")
	}
	if opener.opened.Load() != 1 {
		t.Errorf("second attempt opened checkout %d times, want 1", opener.opened.Load())
	}
}
