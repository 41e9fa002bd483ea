package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldline/portal/internal/platform/payments"
)

type stubWebhookProvider struct {
	stubProvider
	parse func(payload []byte, sigHeader string) (*payments.WebhookEvent, error)
}

func (s *stubWebhookProvider) ParseWebhookEvent(payload []byte, sigHeader string) (*payments.WebhookEvent, error) {
	return s.parse(payload, sigHeader)
}

func TestHandleProviderEvent_BadSignature(t *testing.T) {
	stub := &stubWebhookProvider{
		parse: func([]byte, string) (*payments.WebhookEvent, error) {
			return nil, errors.New("signature mismatch")
		},
	}
	svc := newTestService(stub)

	err := svc.HandleProviderEvent(context.Background(), []byte(`{}`), "t=1,v1=bad")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestHandleProviderEvent_IgnoresNonSubscriptionEvents(t *testing.T) {
	stub := &stubWebhookProvider{
		parse: func([]byte, string) (*payments.WebhookEvent, error) {
			return &payments.WebhookEvent{ID: "evt_1", Type: "invoice.paid"}, nil
		},
	}
	svc := newTestService(stub)

	require.NoError(t, svc.HandleProviderEvent(context.Background(), []byte(`{}`), "sig"))
}
