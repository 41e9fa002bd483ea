package models

import "time"

// Membership links a profile to exactly one workspace. Created at signup or
// invite acceptance; the billing subsystem only ever reads it to resolve
// which subscription row a user's checkout belongs to.
type Membership struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProfileID string    `gorm:"column:profile_id;type:uuid;not null;uniqueIndex" json:"profile_id"`
	AccountID string    `gorm:"column:account_id;type:uuid;not null;index" json:"account_id"`
	Role      string    `gorm:"column:role;type:varchar(32);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Membership) TableName() string {
	return "membership"
}
