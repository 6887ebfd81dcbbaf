// Package payout defines the persistence interface for payout records.
package payout

import (
	"context"
	"time"

	"github.com/cmoyo/payouts/pkg/dto"
)

// Repository is the payout record store. The upsert is keyed by the remote
// system's external id, which is unique and immutable once assigned.
type Repository interface {
	// Upsert inserts a payout record or, when a record with the external id
	// already exists, overwrites the full mapped attribute set. It must be
	// atomic with respect to the unique constraint on external_id: two
	// concurrent upserts for a fresh key must never create two rows.
	// Returns the persisted record and whether it was freshly created.
	Upsert(ctx context.Context, externalID string, up dto.PayoutUpsert) (*dto.PayoutRead, bool, error)

	// UpdateStatus overwrites only the status column of an existing record.
	UpdateStatus(ctx context.Context, externalID string, status string) error

	// GetByExternalID retrieves one payout record by its external id.
	GetByExternalID(ctx context.Context, externalID string) (*dto.PayoutRead, error)

	// ListInPeriod returns the records whose remote creation timestamp falls
	// within the given calendar month.
	ListInPeriod(ctx context.Context, year int, month time.Month) ([]*dto.PayoutRead, error)
}
