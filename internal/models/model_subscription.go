package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fieldline/portal/pkg/types"
)

// Subscription is the billing state of one workspace. The unique index on
// account_id guarantees at most one row per workspace; reconciliation upserts
// against that constraint.
//
// Timestamp columns hold provider-normalized ISO-8601 strings (millisecond
// precision, UTC) rather than native timestamps so the stored value matches
// the reconciliation output byte for byte.
type Subscription struct {
	ID        string           `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AccountID string           `gorm:"column:account_id;type:uuid;not null;uniqueIndex" json:"account_id"`
	PlanCode  string           `gorm:"column:plan_code;type:varchar(64);not null" json:"plan_code"`
	Status    types.PlanStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`

	Provider               types.PaymentProvider `gorm:"column:provider;type:varchar(32);not null" json:"provider"`
	ProviderCustomerID     string                `gorm:"column:provider_customer_id;type:varchar(128)" json:"provider_customer_id"`
	ProviderSubscriptionID string                `gorm:"column:provider_subscription_id;type:varchar(128);not null" json:"provider_subscription_id"`

	CurrentPeriodEnd  *string `gorm:"column:current_period_end;type:varchar(40);default:null" json:"current_period_end"`
	CancelAt          *string `gorm:"column:cancel_at;type:varchar(40);default:null" json:"cancel_at"`
	CanceledAt        *string `gorm:"column:canceled_at;type:varchar(40);default:null" json:"canceled_at"`
	CancelAtPeriodEnd *bool   `gorm:"column:cancel_at_period_end;default:null" json:"cancel_at_period_end"`

	// CancellationDetails is copied verbatim from the provider, not validated.
	CancellationDetails datatypes.JSONMap `gorm:"column:cancellation_details;type:jsonb;default:null" json:"cancellation_details"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// Entitled reports whether the workspace currently has paid access.
func (s *Subscription) Entitled() bool {
	return s != nil && s.Status.Paid()
}
