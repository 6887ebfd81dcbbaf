package webapi

import (
	"log/slog"

	"github.com/cmoyo/payouts/webapi/common"
	payouthandler "github.com/cmoyo/payouts/webapi/payout"

	eventrepo "github.com/cmoyo/payouts/pkg/repository/event"
	payoutsvc "github.com/cmoyo/payouts/pkg/service/payout"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps carries the collaborators the HTTP surface needs.
type Deps struct {
	PayoutService *payoutsvc.Service
	Events        eventrepo.Repository
	Webhook       payouthandler.WebhookVerifier
	Logger        *slog.Logger
}

// NewApp builds the Fiber application with all routes and middleware.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	payouthandler.Routes(app, deps.PayoutService, deps.Events, deps.Webhook, deps.Logger)

	return app
}
