package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	billingportalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/fieldline/portal/pkg/config"
	"github.com/fieldline/portal/pkg/types"
)

// Client is the payment-provider surface the billing service depends on.
// Implementations return provider-agnostic snapshots so reconciliation logic
// never touches SDK structs directly.
type Client interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*types.ProviderCheckoutSession, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*types.ProviderSubscription, error)
	CreateCheckoutSession(ctx context.Context, p CreateCheckoutParams) (*CheckoutSessionRef, error)
	CreateCustomer(ctx context.Context, email, name, accountID string) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	ParseWebhookEvent(payload []byte, sigHeader string) (*WebhookEvent, error)
}

type CreateCheckoutParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
	AccountID  string
}

type CheckoutSessionRef struct {
	ID  string
	URL string
}

// WebhookEvent is a verified provider event carrying a subscription snapshot
// when the event concerns one.
type WebhookEvent struct {
	ID           string
	Type         string
	Subscription *types.ProviderSubscription
}

type stripeClient struct {
	cfg *cfgpkg.Config
	log *zap.SugaredLogger
}

// NewClient builds the Stripe-backed client. The SDK uses a process-global
// API key; the key comes from the injected config, never from the process
// environment.
func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) Client {
	stripe.Key = cfg.Stripe.SecretKey
	return &stripeClient{cfg: cfg, log: log}
}

func (c *stripeClient) GetCheckoutSession(ctx context.Context, sessionID string) (*types.ProviderCheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("subscription")
	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}
	return SessionSnapshot(sess), nil
}

func (c *stripeClient) GetSubscription(ctx context.Context, subscriptionID string) (*types.ProviderSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subscription %s: %w", subscriptionID, err)
	}
	return SubscriptionSnapshot(sub), nil
}

func (c *stripeClient) CreateCheckoutSession(ctx context.Context, p CreateCheckoutParams) (*CheckoutSessionRef, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}
	if p.AccountID != "" {
		params.Metadata = map[string]string{"account_id": p.AccountID}
	}
	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &CheckoutSessionRef{ID: sess.ID, URL: sess.URL}, nil
}

func (c *stripeClient) CreateCustomer(ctx context.Context, email, name, accountID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
		Metadata: map[string]string{
			"account_id": accountID,
		},
	}
	params.Context = ctx
	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe customer creation failed: %w", err)
	}
	return cust.ID, nil
}

func (c *stripeClient) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx
	sess, err := billingportalsession.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return sess.URL, nil
}

// ParseWebhookEvent verifies the signature and decodes subscription-bearing
// events. Signature verification is the authentication mechanism for the
// webhook endpoint.
func (c *stripeClient) ParseWebhookEvent(payload []byte, sigHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, c.cfg.Stripe.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook signature: %w", err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to unmarshal subscription event %s: %w", event.ID, err)
		}
		out.Subscription = SubscriptionSnapshot(&sub)
	}
	return out, nil
}

var Module = fx.Options(
	fx.Provide(NewClient),
)
