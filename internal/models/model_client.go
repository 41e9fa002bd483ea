package models

import "time"

// Client is an external client organization managed by a workspace.
type Client struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AccountID string    `gorm:"column:account_id;type:uuid;not null;index:idx_client_account_name,priority:1" json:"account_id"`
	Name      string    `gorm:"column:name;type:varchar(128);not null;index:idx_client_account_name,priority:2" json:"name"`
	Website   string    `gorm:"column:website;type:varchar(255)" json:"website"`
	Notes     string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "client"
}
