// Package mocks provides testify mocks for the repository and provider
// interfaces, shared across service and handler tests.
package mocks

import (
	"context"
	"iter"
	"time"

	"github.com/cmoyo/payouts/pkg/dto"
	"github.com/cmoyo/payouts/pkg/provider"
	"github.com/stretchr/testify/mock"
)

// PayoutRepository mocks repository/payout.Repository.
type PayoutRepository struct {
	mock.Mock
}

func (m *PayoutRepository) Upsert(
	ctx context.Context,
	externalID string,
	up dto.PayoutUpsert,
) (*dto.PayoutRead, bool, error) {
	args := m.Called(ctx, externalID, up)
	var read *dto.PayoutRead
	if args.Get(0) != nil {
		read = args.Get(0).(*dto.PayoutRead)
	}
	return read, args.Bool(1), args.Error(2)
}

func (m *PayoutRepository) UpdateStatus(
	ctx context.Context,
	externalID string,
	status string,
) error {
	args := m.Called(ctx, externalID, status)
	return args.Error(0)
}

func (m *PayoutRepository) GetByExternalID(
	ctx context.Context,
	externalID string,
) (*dto.PayoutRead, error) {
	args := m.Called(ctx, externalID)
	var read *dto.PayoutRead
	if args.Get(0) != nil {
		read = args.Get(0).(*dto.PayoutRead)
	}
	return read, args.Error(1)
}

func (m *PayoutRepository) ListInPeriod(
	ctx context.Context,
	year int,
	month time.Month,
) ([]*dto.PayoutRead, error) {
	args := m.Called(ctx, year, month)
	var reads []*dto.PayoutRead
	if args.Get(0) != nil {
		reads = args.Get(0).([]*dto.PayoutRead)
	}
	return reads, args.Error(1)
}

// EventRepository mocks repository/event.Repository.
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Record(
	ctx context.Context,
	create dto.EventCreate,
) (*dto.EventRead, error) {
	args := m.Called(ctx, create)
	var read *dto.EventRead
	if args.Get(0) != nil {
		read = args.Get(0).(*dto.EventRead)
	}
	return read, args.Error(1)
}

func (m *EventRepository) GetByExternalID(
	ctx context.Context,
	externalID string,
) (*dto.EventRead, error) {
	args := m.Called(ctx, externalID)
	var read *dto.EventRead
	if args.Get(0) != nil {
		read = args.Get(0).(*dto.EventRead)
	}
	return read, args.Error(1)
}

// PayoutProvider mocks provider.PayoutProvider. List yields Resources, then
// ListErr when set.
type PayoutProvider struct {
	mock.Mock

	Resources []*provider.Resource
	ListErr   error
}

func (m *PayoutProvider) Retrieve(
	ctx context.Context,
	id string,
) (*provider.Resource, error) {
	args := m.Called(ctx, id)
	var res *provider.Resource
	if args.Get(0) != nil {
		res = args.Get(0).(*provider.Resource)
	}
	return res, args.Error(1)
}

func (m *PayoutProvider) Create(
	ctx context.Context,
	params provider.CreatePayoutParams,
) (*provider.Resource, error) {
	args := m.Called(ctx, params)
	var res *provider.Resource
	if args.Get(0) != nil {
		res = args.Get(0).(*provider.Resource)
	}
	return res, args.Error(1)
}

func (m *PayoutProvider) List(ctx context.Context) iter.Seq2[*provider.Resource, error] {
	return func(yield func(*provider.Resource, error) bool) {
		for _, res := range m.Resources {
			if !yield(res, nil) {
				return
			}
		}
		if m.ListErr != nil {
			yield(nil, m.ListErr)
		}
	}
}
