// Package payout exposes the payout sync operations over HTTP.
package payout

import (
	"log/slog"
	"time"

	eventrepo "github.com/cmoyo/payouts/pkg/repository/event"
	payoutsvc "github.com/cmoyo/payouts/pkg/service/payout"
	"github.com/cmoyo/payouts/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Routes registers HTTP routes for payout operations.
//
// Routes:
//   - POST /api/v1/payouts              : Create a payout and persist the result.
//   - POST /api/v1/payouts/sync         : Run a full bulk sync against the remote API.
//   - POST /api/v1/payouts/:id/refresh  : Refresh one payout's status from the remote API.
//   - GET  /api/v1/payouts              : List payouts created in a calendar month.
//   - POST /api/v1/webhooks/stripe      : Receive payout event notifications.
func Routes(
	app *fiber.App,
	svc *payoutsvc.Service,
	events eventrepo.Repository,
	verifier WebhookVerifier,
	logger *slog.Logger,
) {
	app.Post("/api/v1/payouts", CreatePayout(svc, logger))
	app.Post("/api/v1/payouts/sync", SyncPayouts(svc, logger))
	app.Post("/api/v1/payouts/:id/refresh", RefreshPayout(svc, logger))
	app.Get("/api/v1/payouts", ListPayouts(svc))
	app.Post("/api/v1/webhooks/stripe", StripeWebhookHandler(svc, events, verifier, logger))
}

// CreatePayout returns a handler that invokes the remote payout creation and
// persists the returned resource. A remote rejection leaves no local record.
func CreatePayout(svc *payoutsvc.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreatePayoutRequest](c)
		if err != nil {
			return nil // error response already written
		}

		record, err := svc.Create(c.Context(), payoutsvc.CreateParams{
			Amount:        decimal.NewFromFloat(input.Amount),
			Currency:      input.Currency,
			Destination:   input.Destination,
			Description:   input.Description,
			TransferGroup: input.TransferGroup,
			StripeAccount: input.StripeAccount,
			Metadata:      input.Metadata,
		})
		if err != nil {
			logger.Error("payout creation failed", "error", err)
			return common.ErrorResponseJSON(c, common.ErrorToStatusCode(err), "Failed to create payout", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Payout created", record)
	}
}

// SyncPayouts returns a handler that runs a full bulk sync.
func SyncPayouts(svc *payoutsvc.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := svc.SyncAll(c.Context())
		if err != nil {
			logger.Error("bulk payout sync failed", "error", err)
			return common.ErrorResponseJSON(c, fiber.StatusBadGateway, "Bulk sync failed", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payouts synced", summary)
	}
}

// RefreshPayout returns a handler that refreshes one payout's status.
func RefreshPayout(svc *payoutsvc.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		externalID := c.Params("id")
		if err := svc.RefreshStatus(c.Context(), externalID); err != nil {
			logger.Error("payout status refresh failed", "payout_id", externalID, "error", err)
			return common.ErrorResponseJSON(c, common.ErrorToStatusCode(err), "Failed to refresh payout", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payout status refreshed", nil)
	}
}

// ListPayouts returns a handler for the calendar-month period query.
func ListPayouts(svc *payoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year")
		month := c.QueryInt("month")
		if year < 1 || month < 1 || month > 12 {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid period",
				"year and month query parameters are required; month is 1-12")
		}

		records, err := svc.InPeriod(c.Context(), year, time.Month(month))
		if err != nil {
			return common.ErrorResponseJSON(c, common.ErrorToStatusCode(err), "Failed to list payouts", err.Error())
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payouts in period", records)
	}
}
