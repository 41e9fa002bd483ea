package models

import "time"

// Profile is a portal user.
type Profile struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName  string    `gorm:"column:full_name;type:varchar(128)" json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profile"
}
