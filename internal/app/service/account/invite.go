package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fieldline/portal/internal/models"
	"github.com/fieldline/portal/pkg/tool"
)

var (
	// ErrInviteNotFound means no invite matches the token.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrInviteNotRedeemable means the invite expired, was revoked, or was
	// already accepted.
	ErrInviteNotRedeemable = errors.New("invite is no longer redeemable")
)

const inviteTTL = 7 * 24 * time.Hour

// CreateInvite issues a workspace invitation redeemable by token until the
// expiry.
func (s *Service) CreateInvite(ctx context.Context, accountID, email, role string) (*models.Invite, error) {
	if accountID == "" || email == "" {
		return nil, fmt.Errorf("accountID and email are required")
	}
	if role != RoleOwner && role != RoleMember {
		role = RoleMember
	}

	inv := &models.Invite{
		ID:        tool.GenerateUUIDV7(),
		AccountID: accountID,
		Email:     email,
		Role:      role,
		Token:     tool.GenerateInviteToken(),
		ExpiresAt: time.Now().Add(inviteTTL),
	}
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, fmt.Errorf("failed to create invite for %s: %w", email, err)
	}
	return inv, nil
}

// AcceptInvite redeems a token for the given profile, creating the membership
// inside one transaction. A profile joins at most one workspace.
func (s *Service) AcceptInvite(ctx context.Context, token, profileID string) (*models.Membership, error) {
	if token == "" || profileID == "" {
		return nil, fmt.Errorf("token and profileID are required")
	}

	var membership *models.Membership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Invite
		if err := tx.Where("token = ?", token).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return fmt.Errorf("failed to load invite: %w", err)
		}
		if !inv.Redeemable(time.Now()) {
			return ErrInviteNotRedeemable
		}

		var existing models.Membership
		err := tx.Where("profile_id = ?", profileID).First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check membership: %w", err)
		}

		membership = &models.Membership{
			ID:        tool.GenerateUUIDV7(),
			ProfileID: profileID,
			AccountID: inv.AccountID,
			Role:      inv.Role,
		}
		if err := tx.Create(membership).Error; err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}

		now := time.Now()
		inv.AcceptedAt = &now
		if err := tx.Save(&inv).Error; err != nil {
			return fmt.Errorf("failed to mark invite accepted: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// ListInvites returns all invites of a workspace, newest first.
func (s *Service) ListInvites(ctx context.Context, accountID string) ([]*models.Invite, error) {
	var invites []*models.Invite
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&invites).Error; err != nil {
		return nil, fmt.Errorf("failed to list invites for account %s: %w", accountID, err)
	}
	return invites, nil
}

// RevokeInvite marks a pending invite revoked.
func (s *Service) RevokeInvite(ctx context.Context, accountID, inviteID string) error {
	var inv models.Invite
	if err := s.db.WithContext(ctx).Where("id = ? AND account_id = ?", inviteID, accountID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("failed to load invite %s: %w", inviteID, err)
	}
	if inv.AcceptedAt != nil || inv.RevokedAt != nil {
		return ErrInviteNotRedeemable
	}
	now := time.Now()
	inv.RevokedAt = &now
	if err := s.db.WithContext(ctx).Save(&inv).Error; err != nil {
		return fmt.Errorf("failed to revoke invite %s: %w", inviteID, err)
	}
	return nil
}
