// Package event implements the webhook event store on GORM/Postgres.
package event

import (
	"context"
	"errors"

	"github.com/cmoyo/payouts/pkg/dto"
	repo "github.com/cmoyo/payouts/pkg/repository/event"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates an event repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Record implements event.Repository. Redelivered events resolve to the
// record stored on first delivery.
func (r *repository) Record(
	ctx context.Context,
	create dto.EventCreate,
) (*dto.EventRead, error) {
	m := &Event{
		ID:         uuid.New(),
		ExternalID: create.ExternalID,
		Type:       create.Type,
		Livemode:   create.Livemode,
		Payload:    create.Payload,
	}
	err := r.db.WithContext(ctx).Create(m).Error
	if err == nil {
		return mapModelToRead(m), nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.GetByExternalID(ctx, create.ExternalID)
	}
	return nil, err
}

// GetByExternalID implements event.Repository.
func (r *repository) GetByExternalID(
	ctx context.Context,
	externalID string,
) (*dto.EventRead, error) {
	var m Event
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

func mapModelToRead(m *Event) *dto.EventRead {
	return &dto.EventRead{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Type:       m.Type,
		Livemode:   m.Livemode,
		Payload:    m.Payload,
		CreatedAt:  m.CreatedAt,
	}
}
