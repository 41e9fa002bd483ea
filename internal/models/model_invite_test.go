package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInviteRedeemable(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	base := Invite{ExpiresAt: now.Add(time.Hour)}
	require.True(t, base.Redeemable(now))

	expired := Invite{ExpiresAt: past}
	require.False(t, expired.Redeemable(now))

	accepted := base
	accepted.AcceptedAt = &past
	require.False(t, accepted.Redeemable(now))

	revoked := base
	revoked.RevokedAt = &past
	require.False(t, revoked.Redeemable(now))
}
