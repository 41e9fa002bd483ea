package models

import "time"

// Invite is a pending workspace invitation, redeemed by token.
type Invite struct {
	ID         string     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AccountID  string     `gorm:"column:account_id;type:uuid;not null;index" json:"account_id"`
	Email      string     `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Role       string     `gorm:"column:role;type:varchar(32);not null" json:"role"`
	Token      string     `gorm:"column:token;type:varchar(64);not null;uniqueIndex" json:"-"`
	ExpiresAt  time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	AcceptedAt *time.Time `gorm:"column:accepted_at;default:null" json:"accepted_at"`
	RevokedAt  *time.Time `gorm:"column:revoked_at;default:null" json:"revoked_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Invite) TableName() string {
	return "invite"
}

// Redeemable reports whether the invite can still be accepted at t.
func (i *Invite) Redeemable(t time.Time) bool {
	return i != nil && i.AcceptedAt == nil && i.RevokedAt == nil && i.ExpiresAt.After(t)
}
