package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldline/portal/internal/platform/payments"
	cfgpkg "github.com/fieldline/portal/pkg/config"
	"github.com/fieldline/portal/pkg/types"
)

// stubProvider implements payments.Client with per-method hooks and records
// which calls were made.
type stubProvider struct {
	getSession      func(sessionID string) (*types.ProviderCheckoutSession, error)
	getSubscription func(subscriptionID string) (*types.ProviderSubscription, error)
	calls           []string
}

func (s *stubProvider) GetCheckoutSession(_ context.Context, sessionID string) (*types.ProviderCheckoutSession, error) {
	s.calls = append(s.calls, "GetCheckoutSession")
	return s.getSession(sessionID)
}

func (s *stubProvider) GetSubscription(_ context.Context, subscriptionID string) (*types.ProviderSubscription, error) {
	s.calls = append(s.calls, "GetSubscription")
	return s.getSubscription(subscriptionID)
}

func (s *stubProvider) CreateCheckoutSession(_ context.Context, _ payments.CreateCheckoutParams) (*payments.CheckoutSessionRef, error) {
	s.calls = append(s.calls, "CreateCheckoutSession")
	return nil, errors.New("not implemented")
}

func (s *stubProvider) CreateCustomer(_ context.Context, _, _, _ string) (string, error) {
	s.calls = append(s.calls, "CreateCustomer")
	return "", errors.New("not implemented")
}

func (s *stubProvider) CreatePortalSession(_ context.Context, _, _ string) (string, error) {
	s.calls = append(s.calls, "CreatePortalSession")
	return "", errors.New("not implemented")
}

func (s *stubProvider) ParseWebhookEvent(_ []byte, _ string) (*payments.WebhookEvent, error) {
	s.calls = append(s.calls, "ParseWebhookEvent")
	return nil, errors.New("not implemented")
}

func newTestService(provider payments.Client) *Service {
	return NewService(&cfgpkg.Config{}, zap.NewNop().Sugar(), nil, provider, nil)
}

func TestHandleCheckoutReturn_MissingSessionID(t *testing.T) {
	svc := newTestService(&stubProvider{})
	_, err := svc.HandleCheckoutReturn(context.Background(), "profile-1", "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestHandleCheckoutReturn_IncompleteSessionRedirects(t *testing.T) {
	for _, status := range []string{"open", "expired"} {
		t.Run(status, func(t *testing.T) {
			stub := &stubProvider{
				getSession: func(string) (*types.ProviderCheckoutSession, error) {
					return &types.ProviderCheckoutSession{ID: "cs_1", Status: status}, nil
				},
			}
			svc := newTestService(stub)

			res, err := svc.HandleCheckoutReturn(context.Background(), "profile-1", "cs_1")
			require.NoError(t, err)
			require.Equal(t, CheckoutOutcomeRedirect, res.Outcome)
			require.Equal(t, "/app/billing", res.RedirectURL)
			// Nothing beyond the session lookup happens for an abandoned
			// checkout; in particular no subscription fetch and no write.
			require.Equal(t, []string{"GetCheckoutSession"}, stub.calls)
		})
	}
}

func TestHandleCheckoutReturn_SessionLookupError(t *testing.T) {
	boom := errors.New("provider down")
	stub := &stubProvider{
		getSession: func(string) (*types.ProviderCheckoutSession, error) { return nil, boom },
	}
	svc := newTestService(stub)

	_, err := svc.HandleCheckoutReturn(context.Background(), "profile-1", "cs_1")
	require.ErrorIs(t, err, boom)
}

func TestHandleCheckoutReturn_CompleteWithoutSubscriptionRef(t *testing.T) {
	stub := &stubProvider{
		getSession: func(string) (*types.ProviderCheckoutSession, error) {
			return &types.ProviderCheckoutSession{ID: "cs_1", Status: "complete"}, nil
		},
	}
	svc := newTestService(stub)

	_, err := svc.HandleCheckoutReturn(context.Background(), "profile-1", "cs_1")
	require.ErrorIs(t, err, ErrMissingSubscriptionReference)
}

func TestHandleCheckoutReturn_Unauthenticated(t *testing.T) {
	stub := &stubProvider{
		getSession: func(string) (*types.ProviderCheckoutSession, error) {
			return &types.ProviderCheckoutSession{
				ID:     "cs_1",
				Status: "complete",
				Subscription: &types.ProviderSubscription{
					ID:     "sub_1",
					Status: "active",
				},
			}, nil
		},
	}
	svc := newTestService(stub)

	_, err := svc.HandleCheckoutReturn(context.Background(), "", "cs_1")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestStartCheckout_UnknownPlan(t *testing.T) {
	cfg := &cfgpkg.Config{Plans: []*cfgpkg.Plan{
		{Code: "free", Paid: false},
		{Code: "pro", ProviderPriceID: "price_pro", Paid: true},
	}}
	svc := NewService(cfg, zap.NewNop().Sugar(), nil, &stubProvider{}, nil)

	_, err := svc.StartCheckout(context.Background(), "profile-1", "enterprise", "https://portal.example.com")
	require.ErrorIs(t, err, ErrUnknownPlan)

	// The free plan has no provider price and can never be checked out.
	_, err = svc.StartCheckout(context.Background(), "profile-1", "free", "https://portal.example.com")
	require.ErrorIs(t, err, ErrUnknownPlan)
}

func TestStartCheckout_MissingOrigin(t *testing.T) {
	svc := newTestService(&stubProvider{})
	_, err := svc.StartCheckout(context.Background(), "profile-1", "pro", "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPortalSession_Validation(t *testing.T) {
	svc := newTestService(&stubProvider{})

	_, err := svc.PortalSession(context.Background(), "profile-1", "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.PortalSession(context.Background(), "", "https://portal.example.com")
	require.ErrorIs(t, err, ErrUnauthenticated)
}
