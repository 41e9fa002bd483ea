package models

import "time"

type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project is a studio engagement for a client, created directly or by
// finalizing an intake submission.
type Project struct {
	ID        string        `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AccountID string        `gorm:"column:account_id;type:uuid;not null;index" json:"account_id"`
	ClientID  *string       `gorm:"column:client_id;type:uuid;index" json:"client_id"`
	Name      string        `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Status    ProjectStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Summary   string        `gorm:"column:summary;type:text" json:"summary"`
	StartAt   *time.Time    `gorm:"column:start_at;default:null" json:"start_at"`
	DueAt     *time.Time    `gorm:"column:due_at;default:null" json:"due_at"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (Project) TableName() string {
	return "project"
}
