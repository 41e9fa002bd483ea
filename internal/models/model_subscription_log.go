package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionLog records every reconciliation write with before/after
// snapshots. Written asynchronously; failures are logged, never surfaced.
type SubscriptionLog struct {
	ID        string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AccountID string `gorm:"column:account_id;type:uuid;not null;index" json:"account_id"`
	// Source is the flow that triggered the write: checkout_return or webhook.
	Source    string                            `gorm:"column:source;type:varchar(32);not null" json:"source"`
	Before    datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb" json:"before"`
	After     datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb" json:"after"`
	Extra     datatypes.JSONMap                 `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time                         `json:"created_at"`
}

func (SubscriptionLog) TableName() string {
	return "subscription_log"
}
