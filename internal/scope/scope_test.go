package scope_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetly/assetly-auth/internal/domain"
	"github.com/assetly/assetly-auth/internal/scope"
)

func TestEffectiveTenant(t *testing.T) {
	admin := scope.Identity{AccountID: 1, Role: domain.RoleAdmin, TenantID: 1}
	user := scope.Identity{AccountID: 2, Role: domain.RoleUser, TenantID: 1}

	require.Equal(t, int64(7), admin.EffectiveTenant(7))
	require.Equal(t, int64(1), admin.EffectiveTenant(0))
	require.Equal(t, int64(1), user.EffectiveTenant(7))
	require.Equal(t, int64(1), user.EffectiveTenant(0))
}

func TestCanAccess(t *testing.T) {
	admin := scope.Identity{AccountID: 1, Role: domain.RoleAdmin, TenantID: 1}
	user := scope.Identity{AccountID: 2, Role: domain.RoleUser, TenantID: 1}

	require.NoError(t, admin.CanAccess(1))
	require.NoError(t, admin.CanAccess(9))
	require.NoError(t, user.CanAccess(1))
	require.ErrorIs(t, user.CanAccess(9), domain.ErrForbidden)
}

func TestCanDeleteAccount(t *testing.T) {
	admin := scope.Identity{AccountID: 1, Role: domain.RoleAdmin, TenantID: 1}
	user := scope.Identity{AccountID: 2, Role: domain.RoleUser, TenantID: 1}

	other := domain.Account{ID: 3, TenantID: 1}
	foreign := domain.Account{ID: 4, TenantID: 9}

	require.NoError(t, admin.CanDeleteAccount(other))
	require.NoError(t, admin.CanDeleteAccount(foreign))

	// Deletion is an administrative action; same-tenant targets are no
	// exception.
	require.ErrorIs(t, user.CanDeleteAccount(other), domain.ErrForbidden)
	require.ErrorIs(t, user.CanDeleteAccount(foreign), domain.ErrForbidden)

	// Self-deletion is rejected regardless of role.
	require.ErrorIs(t, admin.CanDeleteAccount(domain.Account{ID: 1, TenantID: 1}), domain.ErrForbidden)
	require.ErrorIs(t, user.CanDeleteAccount(domain.Account{ID: 2, TenantID: 1}), domain.ErrForbidden)
}
