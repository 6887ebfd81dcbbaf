// Package event defines the persistence interface for delivered webhook
// events. Events are an audit record; payouts reference them weakly.
package event

import (
	"context"

	"github.com/cmoyo/payouts/pkg/dto"
)

// Repository stores delivered webhook events keyed by the remote event id.
type Repository interface {
	// Record persists an event. Webhooks are delivered at least once, so a
	// redelivered event id returns the already stored record instead of
	// erroring.
	Record(ctx context.Context, create dto.EventCreate) (*dto.EventRead, error)

	// GetByExternalID retrieves a stored event by its remote id.
	GetByExternalID(ctx context.Context, externalID string) (*dto.EventRead, error)
}
