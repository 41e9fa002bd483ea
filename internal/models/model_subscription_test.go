package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldline/portal/pkg/types"
)

func TestSubscriptionEntitled(t *testing.T) {
	var none *Subscription
	require.False(t, none.Entitled())

	require.False(t, (&Subscription{Status: types.PlanStatusFree}).Entitled())
	require.True(t, (&Subscription{Status: types.PlanStatusPro}).Entitled())
	// Cancelled keeps entitlement until the paid period runs out.
	require.True(t, (&Subscription{Status: types.PlanStatusCancelled}).Entitled())
}
