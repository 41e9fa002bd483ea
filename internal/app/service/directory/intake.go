package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fieldline/portal/internal/models"
	"github.com/fieldline/portal/pkg/tool"
)

var (
	// ErrIntakeFinalized means the submission was already turned into a
	// project and can no longer change.
	ErrIntakeFinalized = errors.New("intake submission already finalized")
	// ErrIntakeIncomplete means finalize was called before the wizard was
	// submitted.
	ErrIntakeIncomplete = errors.New("intake submission not submitted yet")
)

// StartIntake opens a fresh wizard draft for the workspace.
func (s *Service) StartIntake(ctx context.Context, accountID, profileID string) (*models.IntakeSubmission, error) {
	if accountID == "" || profileID == "" {
		return nil, fmt.Errorf("accountID and profileID are required")
	}
	sub := &models.IntakeSubmission{
		ID:        tool.GenerateUUIDV7(),
		AccountID: accountID,
		ProfileID: profileID,
		Status:    models.IntakeStatusDraft,
		Payload:   datatypes.JSONMap{},
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to start intake: %w", err)
	}
	return sub, nil
}

// SaveIntakeStep merges one wizard step's answers into the draft payload and
// advances the step counter. Steps may be re-saved; keys overwrite.
func (s *Service) SaveIntakeStep(ctx context.Context, accountID, id string, step int, answers map[string]any) (*models.IntakeSubmission, error) {
	var sub models.IntakeSubmission
	if err := s.getScoped(ctx, accountID, id, &sub); err != nil {
		return nil, err
	}
	if sub.Status == models.IntakeStatusFinalized {
		return nil, ErrIntakeFinalized
	}

	payload := map[string]any(sub.Payload)
	if payload == nil {
		payload = map[string]any{}
	}
	for k, v := range answers {
		payload[k] = v
	}
	sub.Payload = datatypes.JSONMap(payload)
	if step > sub.Step {
		sub.Step = step
	}
	sub.Status = models.IntakeStatusDraft
	if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to save intake step: %w", err)
	}
	return &sub, nil
}

// SubmitIntake marks the wizard complete, ready for finalization.
func (s *Service) SubmitIntake(ctx context.Context, accountID, id string) (*models.IntakeSubmission, error) {
	var sub models.IntakeSubmission
	if err := s.getScoped(ctx, accountID, id, &sub); err != nil {
		return nil, err
	}
	if sub.Status == models.IntakeStatusFinalized {
		return nil, ErrIntakeFinalized
	}
	sub.Status = models.IntakeStatusSubmitted
	if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to submit intake: %w", err)
	}
	return &sub, nil
}

// FinalizeIntake turns a submitted wizard into a project (and contact rows
// when the payload names any) in one transaction.
func (s *Service) FinalizeIntake(ctx context.Context, accountID, id string) (*models.Project, error) {
	var project *models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.IntakeSubmission
		if err := tx.Where("id = ? AND account_id = ?", id, accountID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load intake %s: %w", id, err)
		}
		switch sub.Status {
		case models.IntakeStatusFinalized:
			return ErrIntakeFinalized
		case models.IntakeStatusDraft:
			return ErrIntakeIncomplete
		}

		name, _ := sub.Payload["project_name"].(string)
		if name == "" {
			name = "Untitled project"
		}
		summary, _ := sub.Payload["summary"].(string)

		project = &models.Project{
			ID:        tool.GenerateUUIDV7(),
			AccountID: accountID,
			Name:      name,
			Status:    models.ProjectStatusDraft,
			Summary:   summary,
		}
		if clientID, ok := sub.Payload["client_id"].(string); ok && clientID != "" {
			var c models.Client
			if err := tx.Where("id = ? AND account_id = ?", clientID, accountID).First(&c).Error; err == nil {
				project.ClientID = &c.ID
			}
		}
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("failed to create project from intake: %w", err)
		}

		if raw, ok := sub.Payload["contacts"].([]any); ok {
			for _, entry := range raw {
				m, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				cname, _ := m["name"].(string)
				if cname == "" {
					continue
				}
				email, _ := m["email"].(string)
				phone, _ := m["phone"].(string)
				contact := &models.Contact{
					ID:        tool.GenerateUUIDV7(),
					AccountID: accountID,
					ClientID:  project.ClientID,
					Name:      cname,
					Email:     email,
					Phone:     phone,
				}
				if err := tx.Create(contact).Error; err != nil {
					return fmt.Errorf("failed to create intake contact: %w", err)
				}
			}
		}

		now := time.Now()
		sub.Status = models.IntakeStatusFinalized
		sub.ProjectID = &project.ID
		sub.UpdatedAt = now
		if err := tx.Save(&sub).Error; err != nil {
			return fmt.Errorf("failed to finalize intake: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// GetIntake returns one submission scoped to the workspace.
func (s *Service) GetIntake(ctx context.Context, accountID, id string) (*models.IntakeSubmission, error) {
	var sub models.IntakeSubmission
	if err := s.getScoped(ctx, accountID, id, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
