package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/models"
	"github.com/fieldline/portal/internal/platform/payments"
	cfgpkg "github.com/fieldline/portal/pkg/config"
	"github.com/fieldline/portal/pkg/logctx"
	"github.com/fieldline/portal/pkg/tool"
	"github.com/fieldline/portal/pkg/types"
)

type Service struct {
	cfg      *cfgpkg.Config
	log      *zap.SugaredLogger
	db       *gorm.DB
	provider payments.Client
	accounts *account.Service
}

func NewService(cfg *cfgpkg.Config, log *zap.SugaredLogger, db *gorm.DB, provider payments.Client, accounts *account.Service) *Service {
	return &Service{cfg: cfg, log: log, db: db, provider: provider, accounts: accounts}
}

// buildSubscriptionRow maps one provider snapshot onto a full subscription
// row. Pure: the same snapshot always yields the same row modulo id and
// updated_at.
func buildSubscriptionRow(cfg *cfgpkg.Config, accountID string, sub *types.ProviderSubscription) *models.Subscription {
	periodEnd := NormalizeTimestamp(ResolvePeriodEnd(sub))
	status := ResolvePlanStatus(&sub.Status, periodEnd)

	row := &models.Subscription{
		ID:                     tool.GenerateUUIDV7(),
		AccountID:              accountID,
		PlanCode:               resolvePlanCode(cfg, sub, status),
		Status:                 status,
		Provider:               types.PaymentProviderStripe,
		ProviderCustomerID:     sub.Customer.CustomerID(),
		ProviderSubscriptionID: sub.ID,
		CurrentPeriodEnd:       periodEnd,
		CancelAt:               NormalizeTimestamp(sub.CancelAt),
		CanceledAt:             NormalizeTimestamp(sub.CanceledAt),
		CancelAtPeriodEnd:      &sub.CancelAtPeriodEnd,
		UpdatedAt:              time.Now(),
	}
	if sub.CancellationDetails != nil {
		row.CancellationDetails = datatypes.JSONMap(sub.CancellationDetails)
	}
	return row
}

// newChangeLog builds the audit entry for one reconciliation write. before is
// nil on the first reconciliation of a workspace.
func newChangeLog(source string, before, after *models.Subscription) *models.SubscriptionLog {
	entry := &models.SubscriptionLog{
		ID:        tool.GenerateUUIDV7(),
		AccountID: after.AccountID,
		Source:    source,
		After:     datatypes.NewJSONType(after),
		Extra:     datatypes.JSONMap{},
	}
	if before != nil {
		entry.Before = datatypes.NewJSONType(before)
	}
	return entry
}

// UpsertSubscriptionForAccount reconciles one provider subscription snapshot
// into the workspace's subscription row. Keyed on account_id, so the database
// arbitrates concurrent reconciliation attempts (duplicate checkout-return
// tabs, webhook racing the return page); last writer wins on the full row.
// Idempotent: the same snapshot produces the same row modulo updated_at.
func (s *Service) UpsertSubscriptionForAccount(ctx context.Context, accountID string, sub *types.ProviderSubscription, source string) (*models.Subscription, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: empty account id", ErrInvalidArgument)
	}
	if sub == nil || sub.ID == "" {
		return nil, fmt.Errorf("%w: provider subscription has no identifier", ErrInvalidArgument)
	}

	row := buildSubscriptionRow(s.cfg, accountID, sub)

	// Snapshot the prior row for the change log. Best-effort: a row inserted
	// between this read and the upsert only costs a missing before entry.
	var before *models.Subscription
	var prior models.Subscription
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).First(&prior).Error
	if err == nil {
		before = &prior
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load subscription for account %s: %w", accountID, err)
	}

	// RETURNING writes the persisted row back into row, so on the conflict
	// path the caller sees the surviving id and created_at, not the ones
	// minted for the insert attempt.
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_code", "status", "provider", "provider_customer_id",
			"provider_subscription_id", "current_period_end", "cancel_at",
			"canceled_at", "cancel_at_period_end", "cancellation_details",
			"updated_at",
		}),
	}, clause.Returning{}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert subscription for account %s: %w", accountID, err)
	}

	// Change log is best-effort and never blocks the caller.
	go func(entry *models.SubscriptionLog) {
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}(newChangeLog(source, before, row))

	return row, nil
}

// SubscriptionForAccount returns the workspace's subscription row, nil when
// none exists yet.
func (s *Service) SubscriptionForAccount(ctx context.Context, accountID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load subscription for account %s: %w", accountID, err)
	}
	return &sub, nil
}
