package payout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmoyo/payouts/internal/fixtures/mocks"
	"github.com/cmoyo/payouts/pkg/currency"
	"github.com/cmoyo/payouts/pkg/dto"
	"github.com/cmoyo/payouts/pkg/provider"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(p *mocks.PayoutProvider, r *mocks.PayoutRepository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(p, r, logger)
}

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

func validResource() *provider.Resource {
	return &provider.Resource{
		ID:       "po_1Abc",
		Amount:   int64Ptr(5000),
		Currency: "usd",
		Status:   strPtr("pending"),
	}
}

func TestSyncOne_CreatesFreshRecord(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.PayoutRepository)
	svc := newTestService(new(mocks.PayoutProvider), repo)

	res := validResource()
	res.Created = int64Ptr(1600000000)
	res.Metadata = map[string]string{"order": "6735"}

	repo.On("Upsert", ctx, "po_1Abc", mock.MatchedBy(func(up dto.PayoutUpsert) bool {
		return up.Amount.Equal(decimal.RequireFromString("50")) &&
			up.Currency == "usd" &&
			up.Created != nil &&
			up.Created.Equal(time.Date(2020, 9, 13, 12, 26, 40, 0, time.UTC)) &&
			up.AmountReversed == nil &&
			up.ArrivalDate == nil &&
			up.Metadata["order"] == "6735"
	})).Return(&dto.PayoutRead{ExternalID: "po_1Abc"}, true, nil).Once()

	record, err := svc.SyncOne(ctx, res, nil)
	require.NoError(t, err)
	assert.Equal(t, "po_1Abc", record.ExternalID)

	// Fresh creation skips the status overwrite.
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestSyncOne_ExistingRecordOverwritesStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.PayoutRepository)
	svc := newTestService(new(mocks.PayoutProvider), repo)

	res := validResource()
	res.Status = strPtr("paid")

	repo.On("Upsert", ctx, "po_1Abc", mock.Anything).
		Return(&dto.PayoutRead{ExternalID: "po_1Abc", Status: strPtr("pending")}, false, nil).Once()
	repo.On("UpdateStatus", ctx, "po_1Abc", "paid").Return(nil).Once()

	record, err := svc.SyncOne(ctx, res, nil)
	require.NoError(t, err)
	require.NotNil(t, record.Status)
	assert.Equal(t, "paid", *record.Status)
	repo.AssertExpectations(t)
}

func TestSyncOne_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.PayoutRepository)
	svc := newTestService(new(mocks.PayoutProvider), repo)

	res := validResource()

	var firstUpsert, secondUpsert dto.PayoutUpsert
	repo.On("Upsert", ctx, "po_1Abc", mock.Anything).
		Run(func(args mock.Arguments) { firstUpsert = args.Get(2).(dto.PayoutUpsert) }).
		Return(&dto.PayoutRead{ExternalID: "po_1Abc"}, true, nil).Once()
	repo.On("Upsert", ctx, "po_1Abc", mock.Anything).
		Run(func(args mock.Arguments) { secondUpsert = args.Get(2).(dto.PayoutUpsert) }).
		Return(&dto.PayoutRead{ExternalID: "po_1Abc"}, false, nil).Once()
	repo.On("UpdateStatus", ctx, "po_1Abc", "pending").Return(nil).Once()

	_, err := svc.SyncOne(ctx, res, nil)
	require.NoError(t, err)
	_, err = svc.SyncOne(ctx, res, nil)
	require.NoError(t, err)

	// Identical input decodes to the identical attribute set both times.
	assert.Equal(t, firstUpsert, secondUpsert)
	repo.AssertExpectations(t)
}

func TestSyncOne_AmountReversedAsymmetry(t *testing.T) {
	ctx := context.Background()

	t.Run("absent stays absent", func(t *testing.T) {
		repo := new(mocks.PayoutRepository)
		svc := newTestService(new(mocks.PayoutProvider), repo)

		repo.On("Upsert", ctx, "po_1Abc", mock.MatchedBy(func(up dto.PayoutUpsert) bool {
			return up.AmountReversed == nil
		})).Return(&dto.PayoutRead{}, true, nil).Once()

		_, err := svc.SyncOne(ctx, validResource(), nil)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("explicit zero stays present", func(t *testing.T) {
		repo := new(mocks.PayoutRepository)
		svc := newTestService(new(mocks.PayoutProvider), repo)

		res := validResource()
		res.AmountReversed = int64Ptr(0)

		repo.On("Upsert", ctx, "po_1Abc", mock.MatchedBy(func(up dto.PayoutUpsert) bool {
			return up.AmountReversed != nil && up.AmountReversed.IsZero()
		})).Return(&dto.PayoutRead{}, true, nil).Once()

		_, err := svc.SyncOne(ctx, res, nil)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestSyncOne_MissingRequiredFields(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		res  *provider.Resource
	}{
		{name: "missing amount", res: &provider.Resource{ID: "po_1", Currency: "usd"}},
		{name: "missing currency", res: &provider.Resource{ID: "po_1", Amount: int64Ptr(5000)}},
		{name: "missing id", res: &provider.Resource{Amount: int64Ptr(5000), Currency: "usd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.PayoutRepository)
			svc := newTestService(new(mocks.PayoutProvider), repo)

			_, err := svc.SyncOne(ctx, tt.res, nil)
			require.ErrorIs(t, err, provider.ErrMissingField)
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSyncOne_UnknownCurrency(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.PayoutRepository)
	svc := newTestService(new(mocks.PayoutProvider), repo)

	res := validResource()
	res.Currency = "zzz"

	_, err := svc.SyncOne(ctx, res, nil)
	require.ErrorIs(t, err, currency.ErrUnsupported)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncOne_AssociatesEvent(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.PayoutRepository)
	svc := newTestService(new(mocks.PayoutProvider), repo)

	eventID := uuid.New()
	repo.On("Upsert", ctx, "po_1Abc", mock.MatchedBy(func(up dto.PayoutUpsert) bool {
		return up.EventID != nil && *up.EventID == eventID
	})).Return(&dto.PayoutRead{}, true, nil).Once()

	_, err := svc.SyncOne(ctx, validResource(), &eventID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSyncAll_IsolatesBadItems(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.PayoutRepository)

	bad := validResource()
	bad.ID = "po_2Bad"
	bad.Currency = "" // missing required field

	p := &mocks.PayoutProvider{Resources: []*provider.Resource{
		validResource(),
		bad,
		{ID: "po_3Def", Amount: int64Ptr(200), Currency: "jpy", Status: strPtr("paid")},
	}}
	svc := newTestService(p, repo)

	repo.On("Upsert", ctx, "po_1Abc", mock.Anything).
		Return(&dto.PayoutRead{}, true, nil).Once()
	repo.On("Upsert", ctx, "po_3Def", mock.Anything).
		Return(&dto.PayoutRead{}, true, nil).Once()

	summary, err := svc.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Synced)
	assert.Equal(t, 1, summary.Failed)
	repo.AssertExpectations(t)
}

func TestSyncAll_TransportErrorAborts(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.PayoutRepository)

	p := &mocks.PayoutProvider{
		Resources: []*provider.Resource{validResource()},
		ListErr:   errors.New("rate limited"),
	}
	svc := newTestService(p, repo)

	repo.On("Upsert", ctx, "po_1Abc", mock.Anything).
		Return(&dto.PayoutRead{}, true, nil).Once()

	summary, err := svc.SyncAll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, 1, summary.Synced)
}

func TestRefreshStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("persists only the status", func(t *testing.T) {
		repo := new(mocks.PayoutRepository)
		p := new(mocks.PayoutProvider)
		svc := newTestService(p, repo)

		res := validResource()
		res.Status = strPtr("in_transit")
		p.On("Retrieve", ctx, "po_1Abc").Return(res, nil).Once()
		repo.On("UpdateStatus", ctx, "po_1Abc", "in_transit").Return(nil).Once()

		require.NoError(t, svc.RefreshStatus(ctx, "po_1Abc"))
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
		p.AssertExpectations(t)
	})

	t.Run("remote lookup failure leaves record untouched", func(t *testing.T) {
		repo := new(mocks.PayoutRepository)
		p := new(mocks.PayoutProvider)
		svc := newTestService(p, repo)

		p.On("Retrieve", ctx, "po_gone").Return(nil, errors.New("no such payout")).Once()

		err := svc.RefreshStatus(ctx, "po_gone")
		require.Error(t, err)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("converts the amount and syncs the result", func(t *testing.T) {
		repo := new(mocks.PayoutRepository)
		p := new(mocks.PayoutProvider)
		svc := newTestService(p, repo)

		created := validResource()
		p.On("Create", ctx, mock.MatchedBy(func(params provider.CreatePayoutParams) bool {
			return params.Amount == 5000 &&
				params.Currency == "usd" &&
				params.Destination == "ba_1Xyz" &&
				params.TransferGroup == "batch-7" &&
				params.StripeAccount == "acct_1Conn"
		})).Return(created, nil).Once()
		repo.On("Upsert", ctx, "po_1Abc", mock.Anything).
			Return(&dto.PayoutRead{ExternalID: "po_1Abc"}, true, nil).Once()

		record, err := svc.Create(ctx, CreateParams{
			Amount:        decimal.RequireFromString("50"),
			Currency:      "usd",
			Destination:   "ba_1Xyz",
			Description:   "weekly payout",
			TransferGroup: "batch-7",
			StripeAccount: "acct_1Conn",
		})
		require.NoError(t, err)
		assert.Equal(t, "po_1Abc", record.ExternalID)
		p.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("remote rejection creates no local record", func(t *testing.T) {
		repo := new(mocks.PayoutRepository)
		p := new(mocks.PayoutProvider)
		svc := newTestService(p, repo)

		p.On("Create", ctx, mock.Anything).
			Return(nil, errors.New("insufficient balance")).Once()

		_, err := svc.Create(ctx, CreateParams{
			Amount:   decimal.RequireFromString("50"),
			Currency: "usd",
		})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inexact amount is rejected before the remote call", func(t *testing.T) {
		repo := new(mocks.PayoutRepository)
		p := new(mocks.PayoutProvider)
		svc := newTestService(p, repo)

		_, err := svc.Create(ctx, CreateParams{
			Amount:   decimal.RequireFromString("50.5"),
			Currency: "jpy",
		})
		require.Error(t, err)
		p.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestInPeriod(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.PayoutRepository)
	svc := newTestService(new(mocks.PayoutProvider), repo)

	january := []*dto.PayoutRead{{ExternalID: "po_jan"}}
	repo.On("ListInPeriod", ctx, 2024, time.January).Return(january, nil).Once()

	got, err := svc.InPeriod(ctx, 2024, time.January)
	require.NoError(t, err)
	assert.Equal(t, january, got)
	repo.AssertExpectations(t)
}
