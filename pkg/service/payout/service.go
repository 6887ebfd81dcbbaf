// Package payout implements the payout synchronization service: bulk sync,
// single-resource sync, status refresh, creation and period queries.
package payout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmoyo/payouts/pkg/dto"
	"github.com/cmoyo/payouts/pkg/money"
	"github.com/cmoyo/payouts/pkg/provider"
	repo "github.com/cmoyo/payouts/pkg/repository/payout"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service synchronizes remote payout resources with the local record store.
type Service struct {
	provider provider.PayoutProvider
	payouts  repo.Repository
	logger   *slog.Logger
}

// New creates a payout service.
func New(
	p provider.PayoutProvider,
	payouts repo.Repository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: p,
		payouts:  payouts,
		logger:   logger.With("service", "Payout"),
	}
}

// SyncSummary reports the outcome of one bulk sync run.
type SyncSummary struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// SyncOne maps one remote payout resource onto the local record and upserts
// it, keyed by the resource id. When the upsert updated an existing record,
// the status column is overwritten a second time with the just-decoded value,
// so that concurrent notifications for the same payout always leave status
// matching the most recently processed payload. eventID optionally associates
// the webhook event that carried the resource.
func (s *Service) SyncOne(
	ctx context.Context,
	res *provider.Resource,
	eventID *uuid.UUID,
) (*dto.PayoutRead, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}

	up, err := s.decode(res, eventID)
	if err != nil {
		return nil, err
	}

	record, created, err := s.payouts.Upsert(ctx, res.ID, *up)
	if err != nil {
		return nil, fmt.Errorf("upsert payout %s: %w", res.ID, err)
	}

	if !created {
		status := ""
		if res.Status != nil {
			status = *res.Status
		}
		if err := s.payouts.UpdateStatus(ctx, res.ID, status); err != nil {
			// The record is upserted but may carry a stale status; the next
			// sync or refresh converges it.
			return nil, fmt.Errorf("refresh status for payout %s: %w", res.ID, err)
		}
		record.Status = &status
	}

	return record, nil
}

// decode translates the wire resource into the persisted attribute set per
// the field mapping rules: amount is required; amount_reversed is decoded
// whenever the key is present, including an explicit zero; timestamps
// tolerate absence; everything else passes through with an absent default.
func (s *Service) decode(
	res *provider.Resource,
	eventID *uuid.UUID,
) (*dto.PayoutUpsert, error) {
	amount, err := money.ToLocal(*res.Amount, res.Currency)
	if err != nil {
		return nil, err
	}

	var amountReversed *decimal.Decimal
	if res.AmountReversed != nil {
		reversed, err := money.ToLocal(*res.AmountReversed, res.Currency)
		if err != nil {
			return nil, err
		}
		amountReversed = &reversed
	}

	metadata := res.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	return &dto.PayoutUpsert{
		Amount:              amount,
		AmountReversed:      amountReversed,
		Created:             provider.Timestamp(res.Created),
		Currency:            res.Currency,
		ArrivalDate:         provider.Timestamp(res.ArrivalDate),
		Destination:         res.Destination,
		EventID:             eventID,
		FailureCode:         res.FailureCode,
		FailureMessage:      res.FailureMessage,
		Livemode:            res.Livemode,
		Metadata:            metadata,
		Method:              res.Method,
		SourceType:          res.SourceType,
		StatementDescriptor: res.StatementDescriptor,
		Status:              res.Status,
		TransferGroup:       res.TransferGroup,
		Type:                res.Type,
	}, nil
}

// SyncAll iterates the full remote payout collection sequentially and syncs
// each resource with no associated event. A malformed item is logged and
// counted, never allowed to abort the remaining items; a transport failure
// during iteration terminates the run with an error.
func (s *Service) SyncAll(ctx context.Context) (SyncSummary, error) {
	var summary SyncSummary
	for res, err := range s.provider.List(ctx) {
		if err != nil {
			return summary, fmt.Errorf("list payouts: %w", err)
		}
		if _, err := s.SyncOne(ctx, res, nil); err != nil {
			summary.Failed++
			s.logger.Error("payout sync failed",
				"payout_id", res.ID,
				"error", err,
			)
			continue
		}
		summary.Synced++
	}
	s.logger.Info("bulk payout sync finished",
		"synced", summary.Synced,
		"failed", summary.Failed,
	)
	return summary, nil
}

// RefreshStatus re-fetches one payout from the remote API and persists only
// its current status. No other field is touched; a remote lookup failure
// leaves the record unchanged.
func (s *Service) RefreshStatus(ctx context.Context, externalID string) error {
	res, err := s.provider.Retrieve(ctx, externalID)
	if err != nil {
		return fmt.Errorf("retrieve payout %s: %w", externalID, err)
	}
	if res.Status == nil {
		return fmt.Errorf("%w: status", provider.ErrMissingField)
	}
	if err := s.payouts.UpdateStatus(ctx, externalID, *res.Status); err != nil {
		return fmt.Errorf("update status for payout %s: %w", externalID, err)
	}
	return nil
}

// CreateParams carries the caller-supplied parameters for a new payout.
// Amount is in local decimal units and converted before the remote call.
type CreateParams struct {
	Amount      decimal.Decimal
	Currency    string
	Destination string
	Description string
	// TransferGroup optionally tags the payout as part of a group.
	TransferGroup string
	// StripeAccount optionally issues the payout on behalf of a connected
	// account.
	StripeAccount string
	Metadata      map[string]string
}

// Create invokes the remote payout creation and persists the returned
// resource. A remote rejection propagates to the caller and leaves no local
// record behind.
func (s *Service) Create(ctx context.Context, params CreateParams) (*dto.PayoutRead, error) {
	raw, err := money.ToRemote(params.Amount, params.Currency)
	if err != nil {
		return nil, err
	}

	res, err := s.provider.Create(ctx, provider.CreatePayoutParams{
		Amount:        raw,
		Currency:      params.Currency,
		Destination:   params.Destination,
		Description:   params.Description,
		TransferGroup: params.TransferGroup,
		StripeAccount: params.StripeAccount,
		Metadata:      params.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("create payout: %w", err)
	}

	return s.SyncOne(ctx, res, nil)
}

// InPeriod returns the persisted payouts whose remote creation timestamp
// falls within the given calendar month. Read-only.
func (s *Service) InPeriod(ctx context.Context, year int, month time.Month) ([]*dto.PayoutRead, error) {
	return s.payouts.ListInPeriod(ctx, year, month)
}
