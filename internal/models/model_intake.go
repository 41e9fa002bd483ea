package models

import (
	"time"

	"gorm.io/datatypes"
)

type IntakeStatus string

const (
	IntakeStatusDraft     IntakeStatus = "draft"
	IntakeStatusSubmitted IntakeStatus = "submitted"
	IntakeStatusFinalized IntakeStatus = "finalized"
)

// IntakeSubmission is a guided project-intake wizard draft. Each wizard step
// merges its answers into Payload; finalizing turns the submission into a
// project plus contact rows.
type IntakeSubmission struct {
	ID        string       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AccountID string       `gorm:"column:account_id;type:uuid;not null;index" json:"account_id"`
	ProfileID string       `gorm:"column:profile_id;type:uuid;not null" json:"profile_id"`
	Status    IntakeStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	// Step is the last completed wizard step.
	Step    int               `gorm:"column:step;not null;default:0" json:"step"`
	Payload datatypes.JSONMap `gorm:"column:payload;type:jsonb;default:'{}'" json:"payload"`
	// ProjectID is set once the submission has been finalized.
	ProjectID *string   `gorm:"column:project_id;type:uuid;default:null" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (IntakeSubmission) TableName() string {
	return "intake_submission"
}
