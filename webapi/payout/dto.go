package payout

// CreatePayoutRequest is the request body for creating a payout. Amount is
// in main currency units (e.g. dollars).
type CreatePayoutRequest struct {
	Amount        float64           `json:"amount" validate:"required,gt=0"`
	Currency      string            `json:"currency" validate:"required,len=3"`
	Destination   string            `json:"destination" validate:"required"`
	Description   string            `json:"description"`
	TransferGroup string            `json:"transfer_group"`
	StripeAccount string            `json:"stripe_account"`
	Metadata      map[string]string `json:"metadata"`
}
