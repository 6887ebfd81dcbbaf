// Package provider defines the boundary to the remote payment API: the wire
// shape of a payout resource and the operations the sync layer consumes.
// Authentication, transport, retries and pagination mechanics all live behind
// the PayoutProvider implementation.
package provider

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"
)

// ErrMissingField is returned when a remote resource lacks a field the sync
// cannot proceed without.
var ErrMissingField = errors.New("payout resource: missing required field")

// Resource is one remote payout as delivered on the wire. Optional fields are
// pointers so that an absent or null key survives JSON decoding as nil while
// an explicit zero stays present; the synchronizer relies on that distinction
// for amount_reversed.
type Resource struct {
	ID                  string            `json:"id"`
	Amount              *int64            `json:"amount"`
	Currency            string            `json:"currency"`
	AmountReversed      *int64            `json:"amount_reversed"`
	Created             *int64            `json:"created"`
	ArrivalDate         *int64            `json:"arrival_date"`
	Destination         *string           `json:"destination"`
	FailureCode         *string           `json:"failure_code"`
	FailureMessage      *string           `json:"failure_message"`
	Livemode            *bool             `json:"livemode"`
	Metadata            map[string]string `json:"metadata"`
	Method              *string           `json:"method"`
	SourceType          *string           `json:"source_type"`
	StatementDescriptor *string           `json:"statement_descriptor"`
	Status              *string           `json:"status"`
	TransferGroup       *string           `json:"transfer_group"`
	Type                *string           `json:"type"`
}

// Validate checks the fields every sync requires. Optional fields are never
// an error; a missing key simply stays nil.
func (r *Resource) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if r.Amount == nil {
		return fmt.Errorf("%w: amount", ErrMissingField)
	}
	if r.Currency == "" {
		return fmt.Errorf("%w: currency", ErrMissingField)
	}
	return nil
}

// Timestamp converts a remote epoch-seconds value to UTC time. A nil input
// yields nil rather than an error; absent timestamps are routine.
func Timestamp(epoch *int64) *time.Time {
	if epoch == nil {
		return nil
	}
	t := time.Unix(*epoch, 0).UTC()
	return &t
}

// CreatePayoutParams carries the caller-supplied parameters for a remote
// payout creation. Amount is already converted to minor units.
type CreatePayoutParams struct {
	Amount      int64
	Currency    string
	Destination string
	Description string
	// TransferGroup tags the payout as part of a logical group, when set.
	TransferGroup string
	// StripeAccount issues the payout on behalf of a connected account.
	StripeAccount string
	Metadata      map[string]string
}

// PayoutProvider is the remote payment API collaborator.
type PayoutProvider interface {
	// Retrieve fetches the current state of one payout by its remote id.
	Retrieve(ctx context.Context, id string) (*Resource, error)

	// Create asks the remote system to create a payout and returns the
	// resulting resource.
	Create(ctx context.Context, params CreatePayoutParams) (*Resource, error)

	// List lazily iterates the full remote payout collection. A transport
	// failure is yielded as a non-nil error, after which iteration stops.
	List(ctx context.Context) iter.Seq2[*Resource, error]
}
