package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutUpsert is the full mapped attribute set written on every sync. Nil
// pointers mean "absent on the wire" and are persisted as NULL; the upsert
// replaces all listed fields, it never merges.
type PayoutUpsert struct {
	Amount              decimal.Decimal
	AmountReversed      *decimal.Decimal
	Created             *time.Time
	Currency            string
	ArrivalDate         *time.Time
	Destination         *string
	EventID             *uuid.UUID
	FailureCode         *string
	FailureMessage      *string
	Livemode            *bool
	Metadata            map[string]string
	Method              *string
	SourceType          *string
	StatementDescriptor *string
	Status              *string
	TransferGroup       *string
	Type                *string
}

// PayoutRead is a read-optimized DTO for queries and API responses.
type PayoutRead struct {
	ID                  uuid.UUID         `json:"id"`
	ExternalID          string            `json:"external_id"`
	Amount              decimal.Decimal   `json:"amount"`
	AmountReversed      *decimal.Decimal  `json:"amount_reversed,omitempty"`
	Created             *time.Time        `json:"created,omitempty"`
	Currency            string            `json:"currency"`
	ArrivalDate         *time.Time        `json:"arrival_date,omitempty"`
	Destination         *string           `json:"destination,omitempty"`
	EventID             *uuid.UUID        `json:"event_id,omitempty"`
	FailureCode         *string           `json:"failure_code,omitempty"`
	FailureMessage      *string           `json:"failure_message,omitempty"`
	Livemode            *bool             `json:"livemode,omitempty"`
	Metadata            map[string]string `json:"metadata"`
	Method              *string           `json:"method,omitempty"`
	SourceType          *string           `json:"source_type,omitempty"`
	StatementDescriptor *string           `json:"statement_descriptor,omitempty"`
	Status              *string           `json:"status,omitempty"`
	TransferGroup       *string           `json:"transfer_group,omitempty"`
	Type                *string           `json:"type,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}
