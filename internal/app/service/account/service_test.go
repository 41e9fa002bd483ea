package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/fieldline/portal/pkg/config"
)

func TestResolveAccountID_EmptyProfile(t *testing.T) {
	svc := NewService(&cfgpkg.Config{}, zap.NewNop().Sugar(), nil)
	_, err := svc.ResolveAccountID(context.Background(), "")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestEnsureProfile_RequiresIdentity(t *testing.T) {
	svc := NewService(&cfgpkg.Config{}, zap.NewNop().Sugar(), nil)

	_, err := svc.EnsureProfile(context.Background(), "", "a@b.c", "A")
	require.Error(t, err)

	_, err = svc.EnsureProfile(context.Background(), "profile-1", "", "A")
	require.Error(t, err)
}

func TestCreateInvite_RequiresAccountAndEmail(t *testing.T) {
	svc := NewService(&cfgpkg.Config{}, zap.NewNop().Sugar(), nil)

	_, err := svc.CreateInvite(context.Background(), "", "a@b.c", "member")
	require.Error(t, err)

	_, err = svc.CreateInvite(context.Background(), "acct-1", "", "member")
	require.Error(t, err)
}
