package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/fieldline/portal/internal/models"
	cfgpkg "github.com/fieldline/portal/pkg/config"
	"github.com/fieldline/portal/pkg/types"
)

func TestUpsertSubscriptionForAccount_Preconditions(t *testing.T) {
	svc := newTestService(&stubProvider{})

	_, err := svc.UpsertSubscriptionForAccount(context.Background(), "", &types.ProviderSubscription{ID: "sub_1"}, "webhook")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.UpsertSubscriptionForAccount(context.Background(), "acct-1", nil, "webhook")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.UpsertSubscriptionForAccount(context.Background(), "acct-1", &types.ProviderSubscription{}, "webhook")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func testPlanConfig() *cfgpkg.Config {
	return &cfgpkg.Config{Plans: []*cfgpkg.Plan{
		{Code: "free"},
		{Code: "pro", ProviderPriceID: "price_pro", Paid: true},
	}}
}

func TestBuildSubscriptionRow_ActivePaid(t *testing.T) {
	sub := &types.ProviderSubscription{
		ID:     "sub_1",
		Status: "active",
		Items: []types.ProviderSubscriptionItem{
			{PriceID: "price_pro", PlanCode: "pro", CurrentPeriodEnd: int64p(4102444800)},
		},
		Customer: types.ProviderCustomerRef{ID: "cus_1"},
	}

	row := buildSubscriptionRow(testPlanConfig(), "acct-1", sub)

	require.NotEmpty(t, row.ID)
	require.Equal(t, "acct-1", row.AccountID)
	require.Equal(t, types.PlanStatusPro, row.Status)
	require.Equal(t, "pro", row.PlanCode)
	require.Equal(t, types.PaymentProviderStripe, row.Provider)
	require.Equal(t, "cus_1", row.ProviderCustomerID)
	require.Equal(t, "sub_1", row.ProviderSubscriptionID)
	require.Equal(t, strp("2100-01-01T00:00:00.000Z"), row.CurrentPeriodEnd)
	require.Nil(t, row.CancelAt)
	require.Nil(t, row.CanceledAt)
	require.NotNil(t, row.CancelAtPeriodEnd)
	require.False(t, *row.CancelAtPeriodEnd)
	require.Nil(t, row.CancellationDetails)
}

func TestBuildSubscriptionRow_CancelledWithRemainingPeriod(t *testing.T) {
	sub := &types.ProviderSubscription{
		ID:                "sub_1",
		Status:            "canceled",
		CurrentPeriodEnd:  int64p(4102444800),
		Customer:          types.ProviderCustomerRef{ID: "cus_1"},
		CancelAt:          int64p(4102444800),
		CanceledAt:        int64p(1767225600),
		CancelAtPeriodEnd: true,
		CancellationDetails: map[string]any{
			"reason": "cancellation_requested",
		},
	}

	row := buildSubscriptionRow(testPlanConfig(), "acct-1", sub)

	require.Equal(t, types.PlanStatusCancelled, row.Status)
	require.Equal(t, "pro", row.PlanCode)
	require.Equal(t, strp("2100-01-01T00:00:00.000Z"), row.CurrentPeriodEnd)
	require.Equal(t, strp("2100-01-01T00:00:00.000Z"), row.CancelAt)
	require.Equal(t, strp("2026-01-01T00:00:00.000Z"), row.CanceledAt)
	require.NotNil(t, row.CancelAtPeriodEnd)
	require.True(t, *row.CancelAtPeriodEnd)
	require.Equal(t, datatypes.JSONMap{"reason": "cancellation_requested"}, row.CancellationDetails)
}

func TestBuildSubscriptionRow_CancelledPeriodElapsed(t *testing.T) {
	sub := &types.ProviderSubscription{
		ID:               "sub_1",
		Status:           "canceled",
		CurrentPeriodEnd: int64p(1767225600),
		Customer:         types.ProviderCustomerRef{ID: "cus_1"},
		CanceledAt:       int64p(1767225600),
	}

	row := buildSubscriptionRow(testPlanConfig(), "acct-1", sub)

	require.Equal(t, types.PlanStatusFree, row.Status)
	require.Equal(t, "free", row.PlanCode)
}

func TestBuildSubscriptionRow_Idempotent(t *testing.T) {
	sub := &types.ProviderSubscription{
		ID:     "sub_1",
		Status: "active",
		Items: []types.ProviderSubscriptionItem{
			{PriceID: "price_pro", PlanCode: "pro", CurrentPeriodEnd: int64p(4102444800)},
		},
		Customer: types.ProviderCustomerRef{ID: "cus_1"},
	}

	first := buildSubscriptionRow(testPlanConfig(), "acct-1", sub)
	second := buildSubscriptionRow(testPlanConfig(), "acct-1", sub)

	first.ID, second.ID = "", ""
	first.UpdatedAt = second.UpdatedAt
	require.Equal(t, first, second)
}

func TestNewChangeLog(t *testing.T) {
	after := &models.Subscription{ID: "row-2", AccountID: "acct-1", Status: types.PlanStatusPro}

	entry := newChangeLog("webhook", nil, after)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, "acct-1", entry.AccountID)
	require.Equal(t, "webhook", entry.Source)
	require.Equal(t, after, entry.After.Data())
	require.Nil(t, entry.Before.Data())

	before := &models.Subscription{ID: "row-1", AccountID: "acct-1", Status: types.PlanStatusFree}
	entry = newChangeLog("checkout_return", before, after)
	require.Equal(t, before, entry.Before.Data())
	require.Equal(t, after, entry.After.Data())
}
