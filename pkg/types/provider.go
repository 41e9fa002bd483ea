package types

// Provider-agnostic snapshots of payment-provider objects. The billing
// service operates on these instead of raw SDK structs so that reconciliation
// stays testable and survives provider API migrations (several Stripe API
// versions moved the period-end field from the subscription to its items).

// ProviderCustomerRef is the customer field of a provider subscription, which
// the provider returns either as a bare identifier or as an embedded object.
type ProviderCustomerRef struct {
	ID       string
	Expanded bool
}

// CustomerID narrows the union to the identifier regardless of shape.
func (r *ProviderCustomerRef) CustomerID() string {
	if r == nil {
		return ""
	}
	return r.ID
}

// ProviderSubscriptionItem is one line item of a provider subscription.
type ProviderSubscriptionItem struct {
	PriceID string `json:"price_id"`
	// PlanCode is the plan metadata attached to the item's price, empty when absent.
	PlanCode string `json:"plan_code"`
	// CurrentPeriodEnd is the item-level period end in Unix seconds, nil when absent.
	CurrentPeriodEnd *int64 `json:"current_period_end"`
}

// ProviderSubscription is a point-in-time snapshot of a provider subscription.
type ProviderSubscription struct {
	ID     string
	Status string
	// CurrentPeriodEnd is the top-level period end in Unix seconds. Newer
	// provider API versions only report it per item; see ResolvePeriodEnd.
	CurrentPeriodEnd  *int64
	Items             []ProviderSubscriptionItem
	Customer          ProviderCustomerRef
	CancelAt          *int64
	CanceledAt        *int64
	CancelAtPeriodEnd bool
	// CancellationDetails is copied verbatim from the provider, shape unvalidated.
	CancellationDetails map[string]any
}

// ProviderCheckoutSession is a snapshot of a provider-hosted checkout session.
type ProviderCheckoutSession struct {
	ID     string
	Status string
	// SubscriptionID is set when the session references a subscription.
	SubscriptionID string
	// Subscription is non-nil when the provider expanded the object inline.
	Subscription *ProviderSubscription
	Customer     ProviderCustomerRef
}
