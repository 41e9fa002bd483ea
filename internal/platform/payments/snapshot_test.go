package payments

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func TestSubscriptionSnapshot(t *testing.T) {
	sub := &stripe.Subscription{
		ID:                "sub_123",
		Status:            stripe.SubscriptionStatusActive,
		Customer:          &stripe.Customer{ID: "cus_123"},
		CancelAtPeriodEnd: true,
		CancelAt:          1767225600,
		CancellationDetails: &stripe.SubscriptionCancellationDetails{
			Reason: stripe.SubscriptionCancellationDetailsReasonCancellationRequested,
		},
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					Price: &stripe.Price{
						ID:       "price_pro",
						Metadata: map[string]string{"plan_code": "pro"},
					},
					CurrentPeriodEnd: 1767225600,
				},
				nil,
			},
		},
	}

	got := SubscriptionSnapshot(sub)
	require.NotNil(t, got)
	require.Equal(t, "sub_123", got.ID)
	require.Equal(t, "active", got.Status)
	require.Equal(t, "cus_123", got.Customer.ID)
	require.False(t, got.Customer.Expanded)
	require.True(t, got.CancelAtPeriodEnd)
	require.NotNil(t, got.CancelAt)
	require.Equal(t, int64(1767225600), *got.CancelAt)
	require.Nil(t, got.CanceledAt)
	require.Equal(t, "cancellation_requested", got.CancellationDetails["reason"])

	require.Len(t, got.Items, 1)
	require.Equal(t, "price_pro", got.Items[0].PriceID)
	require.Equal(t, "pro", got.Items[0].PlanCode)
	require.NotNil(t, got.Items[0].CurrentPeriodEnd)
	require.Equal(t, int64(1767225600), *got.Items[0].CurrentPeriodEnd)

	require.Nil(t, SubscriptionSnapshot(nil))
}

func TestSessionSnapshot_BareSubscriptionReference(t *testing.T) {
	sess := &stripe.CheckoutSession{
		ID:           "cs_123",
		Status:       stripe.CheckoutSessionStatusComplete,
		Subscription: &stripe.Subscription{ID: "sub_123"},
	}

	got := SessionSnapshot(sess)
	require.NotNil(t, got)
	require.Equal(t, "cs_123", got.ID)
	require.Equal(t, "complete", got.Status)
	require.Equal(t, "sub_123", got.SubscriptionID)
	// Not expanded: only the reference id travels.
	require.Nil(t, got.Subscription)
}

func TestSessionSnapshot_ExpandedSubscription(t *testing.T) {
	sess := &stripe.CheckoutSession{
		ID:     "cs_123",
		Status: stripe.CheckoutSessionStatusComplete,
		Subscription: &stripe.Subscription{
			ID:     "sub_123",
			Status: stripe.SubscriptionStatusTrialing,
		},
	}

	got := SessionSnapshot(sess)
	require.NotNil(t, got.Subscription)
	require.Equal(t, "trialing", got.Subscription.Status)
}

func TestCustomerRef_ExpandedDetection(t *testing.T) {
	require.False(t, customerRef(nil).Expanded)
	require.False(t, customerRef(&stripe.Customer{ID: "cus_1"}).Expanded)
	require.True(t, customerRef(&stripe.Customer{ID: "cus_1", Email: "a@b.c"}).Expanded)
	require.True(t, customerRef(&stripe.Customer{ID: "cus_1", Name: "Studio"}).Expanded)
}
