// Package stripe implements the remote payout provider on the official
// Stripe client.
package stripe

import (
	"context"
	"iter"

	"github.com/cmoyo/payouts/pkg/config"
	"github.com/cmoyo/payouts/pkg/provider"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Gateway adapts the Stripe API to provider.PayoutProvider.
type Gateway struct {
	client        *stripe.Client
	signingSecret string
}

// New creates a Stripe gateway with the given configuration.
func New(cfg *config.Stripe) *Gateway {
	return &Gateway{
		client:        stripe.NewClient(cfg.ApiKey),
		signingSecret: cfg.SigningSecret,
	}
}

// Retrieve implements provider.PayoutProvider.
func (g *Gateway) Retrieve(ctx context.Context, id string) (*provider.Resource, error) {
	po, err := g.client.V1Payouts.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return fromStripe(po), nil
}

// Create implements provider.PayoutProvider. TransferGroup rides along as an
// extra form parameter; the on-behalf-of account is sent as the Stripe-Account
// header, which is how the API scopes a payout to a connected account.
func (g *Gateway) Create(ctx context.Context, p provider.CreatePayoutParams) (*provider.Resource, error) {
	params := &stripe.PayoutCreateParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
	}
	if p.Destination != "" {
		params.Destination = stripe.String(p.Destination)
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	if p.TransferGroup != "" {
		params.AddExtra("transfer_group", p.TransferGroup)
	}
	if p.StripeAccount != "" {
		params.SetStripeAccount(p.StripeAccount)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	po, err := g.client.V1Payouts.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	return fromStripe(po), nil
}

// List implements provider.PayoutProvider. The client auto-pages through the
// collection; a transport failure surfaces as the final yielded error.
func (g *Gateway) List(ctx context.Context) iter.Seq2[*provider.Resource, error] {
	return func(yield func(*provider.Resource, error) bool) {
		for po, err := range g.client.V1Payouts.List(ctx, &stripe.PayoutListParams{}) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(fromStripe(po), nil) {
				return
			}
		}
	}
}

// VerifyWebhook checks the webhook signature and parses the event.
func (g *Gateway) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, g.signingSecret)
}

// fromStripe maps the typed client object onto the wire resource. Stripe's
// zero values mean "absent" for the optional strings, so only non-zero
// values become present pointers.
func fromStripe(po *stripe.Payout) *provider.Resource {
	res := &provider.Resource{
		ID:       po.ID,
		Amount:   stripe.Int64(po.Amount),
		Currency: string(po.Currency),
		Livemode: stripe.Bool(po.Livemode),
		Metadata: po.Metadata,
	}
	if po.Created != 0 {
		res.Created = stripe.Int64(po.Created)
	}
	if po.ArrivalDate != 0 {
		res.ArrivalDate = stripe.Int64(po.ArrivalDate)
	}
	if po.Destination != nil && po.Destination.ID != "" {
		res.Destination = stripe.String(po.Destination.ID)
	}
	res.FailureCode = optional(string(po.FailureCode))
	res.FailureMessage = optional(po.FailureMessage)
	res.Method = optional(string(po.Method))
	res.SourceType = optional(string(po.SourceType))
	res.StatementDescriptor = optional(po.StatementDescriptor)
	res.Status = optional(string(po.Status))
	res.Type = optional(string(po.Type))
	return res
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
