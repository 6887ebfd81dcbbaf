package dto

import (
	"time"

	"github.com/google/uuid"
)

// EventCreate is a DTO for recording one delivered webhook event.
type EventCreate struct {
	ExternalID string // remote event id, unique
	Type       string // e.g. payout.paid
	Livemode   bool
	Payload    []byte // raw event JSON as delivered
}

// EventRead is a read-optimized DTO for stored events.
type EventRead struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Type       string    `json:"type"`
	Livemode   bool      `json:"livemode"`
	Payload    []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
