package payout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/cmoyo/payouts/pkg/dto"
	payoutprovider "github.com/cmoyo/payouts/pkg/provider"
	eventrepo "github.com/cmoyo/payouts/pkg/repository/event"
	payoutsvc "github.com/cmoyo/payouts/pkg/service/payout"
	"github.com/cmoyo/payouts/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82"
)

// WebhookVerifier checks a webhook payload against its signature header and
// returns the decoded event.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signature string) (stripe.Event, error)
}

// StripeWebhookHandler returns a handler for incoming Stripe events. Every
// verified event is recorded; payout.* events additionally trigger a sync of
// the embedded payout resource, associated with the stored event.
func StripeWebhookHandler(
	svc *payoutsvc.Service,
	events eventrepo.Repository,
	verifier WebhookVerifier,
	logger *slog.Logger,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("Stripe-Signature")
		if signature == "" {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Missing signature",
				"Stripe-Signature header is required")
		}

		event, err := verifier.VerifyWebhook(c.Body(), signature)
		if err != nil {
			logger.Warn("webhook signature verification failed", "error", err)
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid signature", err.Error())
		}

		stored, err := events.Record(c.Context(), dto.EventCreate{
			ExternalID: event.ID,
			Type:       string(event.Type),
			Livemode:   event.Livemode,
			Payload:    c.Body(),
		})
		if err != nil {
			logger.Error("webhook event record failed", "event_id", event.ID, "error", err)
			return common.ErrorResponseJSON(c, fiber.StatusInternalServerError, "Failed to record event", err.Error())
		}

		if strings.HasPrefix(string(event.Type), "payout.") {
			var res payoutprovider.Resource
			if err := json.Unmarshal(event.Data.Raw, &res); err != nil {
				logger.Error("webhook payout payload decode failed", "event_id", event.ID, "error", err)
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Malformed payout payload", err.Error())
			}
			if _, err := svc.SyncOne(c.Context(), &res, &stored.ID); err != nil {
				logger.Error("webhook payout sync failed", "event_id", event.ID, "payout_id", res.ID, "error", err)
				status := fiber.StatusInternalServerError
				if errors.Is(err, payoutprovider.ErrMissingField) {
					status = fiber.StatusBadRequest
				}
				return common.ErrorResponseJSON(c, status, "Failed to sync payout", err.Error())
			}
		}

		return common.SuccessResponseJSON(c, fiber.StatusOK, "Event processed", fiber.Map{
			"event_id": stored.ID,
		})
	}
}
