package types

// PlanStatus is the canonical subscription status used across the portal.
// It is intentionally distinct from the payment provider's status vocabulary;
// raw provider statuses never leave the billing service.
type PlanStatus string

const (
	// PlanStatusFree means no active paid relationship.
	PlanStatusFree PlanStatus = "free"
	// PlanStatusPro means an active paid plan (including trials and grace periods).
	PlanStatusPro PlanStatus = "pro"
	// PlanStatusCancelled means the plan was cancelled but entitlement runs
	// until the end of the already-paid period.
	PlanStatusCancelled PlanStatus = "cancelled"
)

func (s PlanStatus) Paid() bool {
	return s == PlanStatusPro || s == PlanStatusCancelled
}

// PaymentProvider identifies the external payment system a subscription
// belongs to.
type PaymentProvider string

const (
	PaymentProviderStripe PaymentProvider = "stripe"
)
