package payout_test

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/cmoyo/payouts/pkg/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func postWebhook(t *testing.T, app *fiber.App, payload []byte, signature string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	return resp.StatusCode
}

func TestStripeWebhook(t *testing.T) {
	payoutRaw := []byte(`{
		"id": "po_1Abc",
		"amount": 5000,
		"currency": "usd",
		"status": "paid"
	}`)

	t.Run("rejects a request without a signature header", func(t *testing.T) {
		f := newFixture(t)

		status := postWebhook(t, f.app, []byte(`{}`), "")

		assert.Equal(t, fiber.StatusBadRequest, status)
		f.events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("rejects a payload that fails verification", func(t *testing.T) {
		f := newFixture(t)
		f.verifier.err = errors.New("no valid signature found")

		status := postWebhook(t, f.app, []byte(`{}`), "t=1,v1=bad")

		assert.Equal(t, fiber.StatusBadRequest, status)
		f.events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("records a payout event and syncs it", func(t *testing.T) {
		f := newFixture(t)
		f.verifier.event = stripe.Event{
			ID:       "evt_1Abc",
			Type:     "payout.paid",
			Livemode: true,
			Data:     &stripe.EventData{Raw: payoutRaw},
		}
		eventID := uuid.New()
		f.events.On("Record", mock.Anything, mock.MatchedBy(func(c dto.EventCreate) bool {
			return c.ExternalID == "evt_1Abc" && c.Type == "payout.paid" && c.Livemode
		})).Return(&dto.EventRead{ID: eventID, ExternalID: "evt_1Abc"}, nil)
		f.payouts.On("Upsert", mock.Anything, "po_1Abc", mock.MatchedBy(func(up dto.PayoutUpsert) bool {
			return up.EventID != nil && *up.EventID == eventID &&
				up.Amount.Equal(decimal.NewFromInt(50))
		})).Return(&dto.PayoutRead{ExternalID: "po_1Abc"}, true, nil)

		status := postWebhook(t, f.app, payoutRaw, "t=1,v1=sig")

		assert.Equal(t, fiber.StatusOK, status)
		f.events.AssertExpectations(t)
		f.payouts.AssertExpectations(t)
	})

	t.Run("records a non-payout event without touching payouts", func(t *testing.T) {
		f := newFixture(t)
		f.verifier.event = stripe.Event{
			ID:   "evt_2Def",
			Type: "charge.succeeded",
			Data: &stripe.EventData{Raw: []byte(`{"id": "ch_1Abc"}`)},
		}
		f.events.On("Record", mock.Anything, mock.Anything).
			Return(&dto.EventRead{ID: uuid.New(), ExternalID: "evt_2Def"}, nil)

		status := postWebhook(t, f.app, []byte(`{}`), "t=1,v1=sig")

		assert.Equal(t, fiber.StatusOK, status)
		f.payouts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a payout event missing required fields", func(t *testing.T) {
		f := newFixture(t)
		f.verifier.event = stripe.Event{
			ID:   "evt_3Ghi",
			Type: "payout.created",
			Data: &stripe.EventData{Raw: []byte(`{"id": "po_1Abc"}`)},
		}
		f.events.On("Record", mock.Anything, mock.Anything).
			Return(&dto.EventRead{ID: uuid.New(), ExternalID: "evt_3Ghi"}, nil)

		status := postWebhook(t, f.app, []byte(`{}`), "t=1,v1=sig")

		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("redelivery of the same event stays idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.verifier.event = stripe.Event{
			ID:       "evt_1Abc",
			Type:     "payout.paid",
			Livemode: true,
			Data:     &stripe.EventData{Raw: payoutRaw},
		}
		eventID := uuid.New()
		// Record returns the already-stored row on redelivery.
		f.events.On("Record", mock.Anything, mock.Anything).
			Return(&dto.EventRead{ID: eventID, ExternalID: "evt_1Abc"}, nil)
		f.payouts.On("Upsert", mock.Anything, "po_1Abc", mock.Anything).
			Return(&dto.PayoutRead{ExternalID: "po_1Abc"}, false, nil)
		f.payouts.On("UpdateStatus", mock.Anything, "po_1Abc", "paid").Return(nil)

		first := postWebhook(t, f.app, payoutRaw, "t=1,v1=sig")
		second := postWebhook(t, f.app, payoutRaw, "t=1,v1=sig")

		assert.Equal(t, fiber.StatusOK, first)
		assert.Equal(t, fiber.StatusOK, second)
		f.payouts.AssertNumberOfCalls(t, "Upsert", 2)
	})
}
