package billing

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fieldline/portal/pkg/logctx"
)

// HandleProviderEvent verifies and applies one provider webhook event.
// Subscription lifecycle events feed the same idempotent upsert as the
// checkout return page, so delivery order and duplicates are harmless.
// Events for customers this portal does not know are acknowledged and
// skipped; the provider should not keep retrying them.
func (s *Service) HandleProviderEvent(ctx context.Context, payload []byte, sigHeader string) error {
	evt, err := s.provider.ParseWebhookEvent(payload, sigHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if evt.Subscription == nil {
		return nil
	}

	log := logctx.FromCtx(ctx, s.log)
	customerID := evt.Subscription.Customer.CustomerID()
	acct, err := s.accounts.AccountByProviderCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnw("webhook for unknown billing customer",
				"event_id", evt.ID, "event_type", evt.Type, "customer_id", customerID)
			return nil
		}
		return fmt.Errorf("failed to resolve account for customer %s: %w", customerID, err)
	}

	if _, err := s.UpsertSubscriptionForAccount(ctx, acct.ID, evt.Subscription, "webhook"); err != nil {
		return err
	}
	log.Infow("webhook reconciled",
		"event_id", evt.ID, "event_type", evt.Type, "account_id", acct.ID)
	return nil
}
