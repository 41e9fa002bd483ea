package models

import "time"

// Account is a studio workspace (tenant). It owns clients, projects,
// contacts, and at most one subscription row.
type Account struct {
	ID   string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	// ProviderCustomerID is the payment-provider customer attached to this
	// workspace, empty until the first checkout or portal interaction.
	ProviderCustomerID string    `gorm:"column:provider_customer_id;type:varchar(128)" json:"provider_customer_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "account"
}
