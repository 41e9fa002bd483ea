package models

import "time"

// Contact is a person at a client organization.
type Contact struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AccountID string    `gorm:"column:account_id;type:uuid;not null;index" json:"account_id"`
	ClientID  *string   `gorm:"column:client_id;type:uuid;index" json:"client_id"`
	Name      string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone     string    `gorm:"column:phone;type:varchar(64)" json:"phone"`
	Title     string    `gorm:"column:title;type:varchar(128)" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Contact) TableName() string {
	return "contact"
}
