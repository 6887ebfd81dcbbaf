// Package payout implements the payout record store on GORM/Postgres.
package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmoyo/payouts/pkg/dto"
	repo "github.com/cmoyo/payouts/pkg/repository/payout"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a payout repository using the provided *gorm.DB. The DB must
// be opened with TranslateError so duplicate-key violations surface as
// gorm.ErrDuplicatedKey.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Upsert implements payout.Repository. Insert first; when the unique index
// on external_id rejects the row, fall back to a full-column update. A
// concurrent insert race resolves the same way: exactly one writer creates
// the row, the other observes the conflict and updates.
func (r *repository) Upsert(
	ctx context.Context,
	externalID string,
	up dto.PayoutUpsert,
) (*dto.PayoutRead, bool, error) {
	m := mapUpsertToModel(externalID, up)
	m.ID = uuid.New()

	err := r.db.WithContext(ctx).Create(m).Error
	if err == nil {
		return mapModelToRead(m), true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	res := r.db.WithContext(
		ctx,
	).Model(
		&Payout{},
	).Where(
		"external_id = ?",
		externalID,
	).Updates(
		mapUpsertToColumns(up),
	)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, fmt.Errorf("payout %s vanished during upsert", externalID)
	}

	read, err := r.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, false, err
	}
	return read, false, nil
}

// UpdateStatus implements payout.Repository.
func (r *repository) UpdateStatus(
	ctx context.Context,
	externalID string,
	status string,
) error {
	return r.db.WithContext(
		ctx,
	).Model(
		&Payout{},
	).Where(
		"external_id = ?",
		externalID,
	).Update(
		"status",
		status,
	).Error
}

// GetByExternalID implements payout.Repository.
func (r *repository) GetByExternalID(
	ctx context.Context,
	externalID string,
) (*dto.PayoutRead, error) {
	var m Payout
	if err := r.db.WithContext(
		ctx,
	).Where(
		"external_id = ?",
		externalID,
	).First(
		&m,
	).Error; err != nil {
		return nil, err
	}
	return mapModelToRead(&m), nil
}

// ListInPeriod implements payout.Repository. The month boundary comparison
// uses the remote creation timestamp as stored.
func (r *repository) ListInPeriod(
	ctx context.Context,
	year int,
	month time.Month,
) ([]*dto.PayoutRead, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var models []Payout
	if err := r.db.WithContext(
		ctx,
	).Where(
		"created >= ? AND created < ?",
		start,
		end,
	).Order(
		"created",
	).Find(
		&models,
	).Error; err != nil {
		return nil, err
	}

	reads := make([]*dto.PayoutRead, 0, len(models))
	for i := range models {
		reads = append(reads, mapModelToRead(&models[i]))
	}
	return reads, nil
}

func mapUpsertToModel(externalID string, up dto.PayoutUpsert) *Payout {
	return &Payout{
		ExternalID:          externalID,
		Amount:              up.Amount,
		AmountReversed:      up.AmountReversed,
		Created:             up.Created,
		Currency:            up.Currency,
		ArrivalDate:         up.ArrivalDate,
		Destination:         up.Destination,
		EventID:             up.EventID,
		FailureCode:         up.FailureCode,
		FailureMessage:      up.FailureMessage,
		Livemode:            up.Livemode,
		Metadata:            JSONMap(up.Metadata),
		Method:              up.Method,
		SourceType:          up.SourceType,
		StatementDescriptor: up.StatementDescriptor,
		Status:              up.Status,
		TransferGroup:       up.TransferGroup,
		Type:                up.Type,
	}
}

// mapUpsertToColumns builds the explicit column map for the update side of
// the upsert. Every mapped column is listed so nil pointers overwrite with
// NULL: the upsert replaces the attribute set, it does not merge.
func mapUpsertToColumns(up dto.PayoutUpsert) map[string]any {
	return map[string]any{
		"amount":               up.Amount,
		"amount_reversed":      up.AmountReversed,
		"created":              up.Created,
		"currency":             up.Currency,
		"arrival_date":         up.ArrivalDate,
		"destination":          up.Destination,
		"event_id":             up.EventID,
		"failure_code":         up.FailureCode,
		"failure_message":      up.FailureMessage,
		"livemode":             up.Livemode,
		"metadata":             JSONMap(up.Metadata),
		"method":               up.Method,
		"source_type":          up.SourceType,
		"statement_descriptor": up.StatementDescriptor,
		"status":               up.Status,
		"transfer_group":       up.TransferGroup,
		"type":                 up.Type,
	}
}

func mapModelToRead(m *Payout) *dto.PayoutRead {
	return &dto.PayoutRead{
		ID:                  m.ID,
		ExternalID:          m.ExternalID,
		Amount:              m.Amount,
		AmountReversed:      m.AmountReversed,
		Created:             m.Created,
		Currency:            m.Currency,
		ArrivalDate:         m.ArrivalDate,
		Destination:         m.Destination,
		EventID:             m.EventID,
		FailureCode:         m.FailureCode,
		FailureMessage:      m.FailureMessage,
		Livemode:            m.Livemode,
		Metadata:            map[string]string(m.Metadata),
		Method:              m.Method,
		SourceType:          m.SourceType,
		StatementDescriptor: m.StatementDescriptor,
		Status:              m.Status,
		TransferGroup:       m.TransferGroup,
		Type:                m.Type,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
