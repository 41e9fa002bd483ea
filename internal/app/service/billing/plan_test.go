package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cfgpkg "github.com/fieldline/portal/pkg/config"
	"github.com/fieldline/portal/pkg/types"
)

func strp(s string) *string { return &s }

func int64p(v int64) *int64 { return &v }

func TestResolvePlanStatus(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).UTC().Format(isoMillis)
	past := time.Now().Add(-24 * time.Hour).UTC().Format(isoMillis)

	cases := []struct {
		name      string
		status    *string
		periodEnd *string
		want      types.PlanStatus
	}{
		{"active", strp("active"), nil, types.PlanStatusPro},
		{"trialing", strp("trialing"), nil, types.PlanStatusPro},
		{"past_due keeps access", strp("past_due"), nil, types.PlanStatusPro},
		{"mixed case provider status", strp(" ACTIVE "), nil, types.PlanStatusPro},
		{"canceled with future period end", strp("canceled"), &future, types.PlanStatusCancelled},
		{"canceled with past period end", strp("canceled"), &past, types.PlanStatusFree},
		{"canceled without period end", strp("canceled"), nil, types.PlanStatusFree},
		{"canceled with garbage period end", strp("canceled"), strp("not-a-time"), types.PlanStatusFree},
		{"incomplete", strp("incomplete"), nil, types.PlanStatusFree},
		{"unpaid", strp("unpaid"), nil, types.PlanStatusFree},
		{"unknown status", strp("paused"), nil, types.PlanStatusFree},
		{"nil status", nil, &future, types.PlanStatusFree},
		{"empty status", strp("  "), &future, types.PlanStatusFree},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ResolvePlanStatus(tc.status, tc.periodEnd))
		})
	}
}

func TestResolvePeriodEnd_TopLevelWins(t *testing.T) {
	sub := &types.ProviderSubscription{
		CurrentPeriodEnd: int64p(1767225600),
		Items: []types.ProviderSubscriptionItem{
			{CurrentPeriodEnd: int64p(1799999999)},
		},
	}
	got := ResolvePeriodEnd(sub)
	require.NotNil(t, got)
	require.Equal(t, int64(1767225600), *got)
}

func TestResolvePeriodEnd_MaxAcrossItems(t *testing.T) {
	sub := &types.ProviderSubscription{
		Items: []types.ProviderSubscriptionItem{
			{CurrentPeriodEnd: int64p(1700000000)},
			{CurrentPeriodEnd: nil},
			{CurrentPeriodEnd: int64p(1767225600)},
			{CurrentPeriodEnd: int64p(1750000000)},
		},
	}
	got := ResolvePeriodEnd(sub)
	require.NotNil(t, got)
	require.Equal(t, int64(1767225600), *got)
}

func TestResolvePeriodEnd_Missing(t *testing.T) {
	require.Nil(t, ResolvePeriodEnd(nil))
	require.Nil(t, ResolvePeriodEnd(&types.ProviderSubscription{}))
	require.Nil(t, ResolvePeriodEnd(&types.ProviderSubscription{
		Items: []types.ProviderSubscriptionItem{{}, {}},
	}))
}

func TestResolvePlanCode(t *testing.T) {
	cfg := &cfgpkg.Config{Plans: []*cfgpkg.Plan{
		{Code: "free", Paid: false},
		{Code: "pro", ProviderPriceID: "price_pro", Paid: true},
	}}

	sub := &types.ProviderSubscription{Items: []types.ProviderSubscriptionItem{
		{PriceID: "price_other"},
		{PriceID: "price_pro", PlanCode: "pro"},
	}}
	require.Equal(t, "pro", resolvePlanCode(cfg, sub, types.PlanStatusPro))

	// No item carries a plan code: fall back on the catalog default for the
	// canonical status.
	bare := &types.ProviderSubscription{Items: []types.ProviderSubscriptionItem{{PriceID: "price_x"}}}
	require.Equal(t, "pro", resolvePlanCode(cfg, bare, types.PlanStatusPro))
	require.Equal(t, "pro", resolvePlanCode(cfg, bare, types.PlanStatusCancelled))
	require.Equal(t, "free", resolvePlanCode(cfg, bare, types.PlanStatusFree))
}
