package billing

import (
	"context"
	"fmt"

	"github.com/fieldline/portal/internal/platform/payments"
	"github.com/fieldline/portal/pkg/logctx"
)

// billingPath is where checkout flows send the browser back to.
const billingPath = "/app/billing"

type CheckoutOutcome string

const (
	// CheckoutOutcomeRedirect means the checkout was abandoned or otherwise
	// not completed; the browser goes back to the billing page.
	CheckoutOutcomeRedirect CheckoutOutcome = "redirect"
	// CheckoutOutcomeConfirmed means reconciliation succeeded.
	CheckoutOutcomeConfirmed CheckoutOutcome = "confirmed"
)

type CheckoutReturnResult struct {
	Outcome     CheckoutOutcome `json:"outcome"`
	RedirectURL string          `json:"redirect_url,omitempty"`
	BillingURL  string          `json:"billing_url,omitempty"`
	PlanCode    string          `json:"plan_code,omitempty"`
}

// HandleCheckoutReturn runs when the browser comes back from the hosted
// checkout. Sessions that never completed redirect back to the billing page
// without touching the datastore. Completed sessions are reconciled into the
// subscription row; any failure there is a reconciliation failure, not a
// payment failure — the caller renders a support path, nothing is rolled
// back, and re-visiting the URL retries safely because the upsert is
// idempotent.
func (s *Service) HandleCheckoutReturn(ctx context.Context, profileID, sessionID string) (*CheckoutReturnResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing session_id", ErrInvalidArgument)
	}

	sess, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Status != "complete" {
		return &CheckoutReturnResult{Outcome: CheckoutOutcomeRedirect, RedirectURL: billingPath}, nil
	}

	sub := sess.Subscription
	if sub == nil {
		if sess.SubscriptionID == "" {
			return nil, fmt.Errorf("%w: session %s", ErrMissingSubscriptionReference, sessionID)
		}
		sub, err = s.provider.GetSubscription(ctx, sess.SubscriptionID)
		if err != nil {
			return nil, err
		}
	}

	if profileID == "" {
		return nil, ErrUnauthenticated
	}
	accountID, err := s.accounts.ResolveAccountID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	row, err := s.UpsertSubscriptionForAccount(ctx, accountID, sub, "checkout_return")
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("checkout reconciled",
		"session_id", sessionID, "account_id", accountID, "plan_code", row.PlanCode, "status", row.Status)
	return &CheckoutReturnResult{
		Outcome:    CheckoutOutcomeConfirmed,
		BillingURL: billingPath,
		PlanCode:   row.PlanCode,
	}, nil
}

// StartCheckout creates a provider-hosted checkout session for a paid plan
// and returns its URL. The provider customer is created lazily on first use
// and recorded on the workspace.
func (s *Service) StartCheckout(ctx context.Context, profileID, planCode, origin string) (*payments.CheckoutSessionRef, error) {
	if origin == "" {
		return nil, fmt.Errorf("%w: missing origin", ErrInvalidArgument)
	}
	plan := s.cfg.GetPlanByCode(planCode)
	if plan == nil || !plan.Paid || plan.ProviderPriceID == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, planCode)
	}

	acct, profile, err := s.accounts.AccountForProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	customerID := acct.ProviderCustomerID
	if customerID == "" {
		customerID, err = s.provider.CreateCustomer(ctx, profile.Email, acct.Name, acct.ID)
		if err != nil {
			return nil, fmt.Errorf("unable to create billing customer: %w", err)
		}
		if err := s.accounts.SetProviderCustomerID(ctx, acct.ID, customerID); err != nil {
			return nil, err
		}
	}

	ref, err := s.provider.CreateCheckoutSession(ctx, payments.CreateCheckoutParams{
		CustomerID: customerID,
		PriceID:    plan.ProviderPriceID,
		SuccessURL: origin + billingPath + "/checkout/return?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + billingPath,
		AccountID:  acct.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to start checkout: %w", err)
	}
	return ref, nil
}

// PortalSession returns a provider-hosted billing-management URL for the
// session user's workspace. The return URL is {origin}/app/billing.
func (s *Service) PortalSession(ctx context.Context, profileID, origin string) (string, error) {
	if origin == "" {
		return "", fmt.Errorf("%w: missing origin header", ErrInvalidArgument)
	}
	if profileID == "" {
		return "", ErrUnauthenticated
	}

	acct, _, err := s.accounts.AccountForProfile(ctx, profileID)
	if err != nil {
		return "", err
	}
	if acct.ProviderCustomerID == "" {
		return "", ErrNoBillingCustomer
	}

	url, err := s.provider.CreatePortalSession(ctx, acct.ProviderCustomerID, origin+billingPath)
	if err != nil {
		return "", fmt.Errorf("unable to create billing portal session: %w", err)
	}
	return url, nil
}
