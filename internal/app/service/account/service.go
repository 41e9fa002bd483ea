package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fieldline/portal/internal/models"
	cfgpkg "github.com/fieldline/portal/pkg/config"
	"github.com/fieldline/portal/pkg/tool"
)

var (
	// ErrNoMembership means the profile exists but is not linked to any
	// workspace.
	ErrNoMembership = errors.New("profile has no workspace membership")
	// ErrProfileNotFound means the session references a profile that does
	// not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrAlreadyMember means the profile is already linked to a workspace;
	// a profile belongs to at most one.
	ErrAlreadyMember = errors.New("profile already belongs to a workspace")
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type Service struct {
	cfg *cfgpkg.Config
	log *zap.SugaredLogger
	db  *gorm.DB
}

func NewService(cfg *cfgpkg.Config, log *zap.SugaredLogger, db *gorm.DB) *Service {
	return &Service{cfg: cfg, log: log, db: db}
}

// ResolveAccountID resolves the workspace a profile belongs to. Profile and
// membership rows are fetched concurrently; neither branch depends on the
// other.
func (s *Service) ResolveAccountID(ctx context.Context, profileID string) (string, error) {
	if profileID == "" {
		return "", ErrProfileNotFound
	}

	var (
		wg            sync.WaitGroup
		profile       models.Profile
		membership    models.Membership
		profileErr    error
		membershipErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		profileErr = s.db.WithContext(ctx).Where("id = ?", profileID).First(&profile).Error
	}()
	go func() {
		defer wg.Done()
		membershipErr = s.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&membership).Error
	}()
	wg.Wait()

	if profileErr != nil {
		if errors.Is(profileErr, gorm.ErrRecordNotFound) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to load profile %s: %w", profileID, profileErr)
	}
	if membershipErr != nil {
		if errors.Is(membershipErr, gorm.ErrRecordNotFound) {
			return "", ErrNoMembership
		}
		return "", fmt.Errorf("failed to load membership for profile %s: %w", profileID, membershipErr)
	}
	return membership.AccountID, nil
}

// AccountForProfile loads the profile and its workspace.
func (s *Service) AccountForProfile(ctx context.Context, profileID string) (*models.Account, *models.Profile, error) {
	accountID, err := s.ResolveAccountID(ctx, profileID)
	if err != nil {
		return nil, nil, err
	}

	var acct models.Account
	if err := s.db.WithContext(ctx).Where("id = ?", accountID).First(&acct).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", profileID).First(&profile).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load profile %s: %w", profileID, err)
	}
	return &acct, &profile, nil
}

// SetProviderCustomerID records the payment-provider customer on the
// workspace. Written once, on first checkout.
func (s *Service) SetProviderCustomerID(ctx context.Context, accountID, customerID string) error {
	if accountID == "" || customerID == "" {
		return fmt.Errorf("accountID and customerID are required")
	}
	res := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("provider_customer_id", customerID)
	if res.Error != nil {
		return fmt.Errorf("failed to set billing customer on account %s: %w", accountID, res.Error)
	}
	return nil
}

// AccountByProviderCustomerID resolves a workspace from the payment-provider
// customer identifier; used by webhook reconciliation.
func (s *Service) AccountByProviderCustomerID(ctx context.Context, customerID string) (*models.Account, error) {
	if customerID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var acct models.Account
	if err := s.db.WithContext(ctx).Where("provider_customer_id = ?", customerID).First(&acct).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

// CreateWorkspace creates a workspace with the profile as owner. Signup
// completion path; the membership row written here is what billing later
// reads to resolve the subscription owner.
func (s *Service) CreateWorkspace(ctx context.Context, profileID, name string) (*models.Account, error) {
	if profileID == "" || name == "" {
		return nil, fmt.Errorf("profileID and name are required")
	}

	acct := &models.Account{ID: tool.GenerateUUIDV7(), Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Membership
		err := tx.Where("profile_id = ?", profileID).First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check membership: %w", err)
		}

		if err := tx.Create(acct).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		m := &models.Membership{
			ID:        tool.GenerateUUIDV7(),
			ProfileID: profileID,
			AccountID: acct.ID,
			Role:      RoleOwner,
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Workspace is the portal's current-workspace view.
type Workspace struct {
	Account      *models.Account      `json:"account"`
	Membership   *models.Membership   `json:"membership"`
	Subscription *models.Subscription `json:"subscription"`
}

// GetWorkspace returns the account, membership, and subscription (nil when
// the workspace never checked out) for the session profile.
func (s *Service) GetWorkspace(ctx context.Context, profileID string) (*Workspace, error) {
	acct, _, err := s.AccountForProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	var membership models.Membership
	if err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&membership).Error; err != nil {
		return nil, fmt.Errorf("failed to load membership for profile %s: %w", profileID, err)
	}

	ws := &Workspace{Account: acct, Membership: &membership}
	var sub models.Subscription
	err = s.db.WithContext(ctx).Where("account_id = ?", acct.ID).First(&sub).Error
	if err == nil {
		ws.Subscription = &sub
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load subscription for account %s: %w", acct.ID, err)
	}
	return ws, nil
}

// EnsureProfile creates the profile row on first login.
func (s *Service) EnsureProfile(ctx context.Context, profileID, email, fullName string) (*models.Profile, error) {
	if profileID == "" || email == "" {
		return nil, fmt.Errorf("profileID and email are required")
	}
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("id = ?", profileID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile %s: %w", profileID, err)
	}

	profile = models.Profile{ID: profileID, Email: email, FullName: fullName, CreatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile %s: %w", profileID, err)
	}
	return &profile, nil
}
