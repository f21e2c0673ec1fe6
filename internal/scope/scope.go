// Package scope carries the verified identity of a request and the tenant
// authorization rules every data-access operation applies.
package scope

import (
	"github.com/assetly/assetly-auth/internal/domain"
)

// Identity is the decoded, verified content of a bearer token.
type Identity struct {
	AccountID int64
	Role      domain.Role
	TenantID  int64
}

// Privileged reports whether the identity holds the cross-tenant role.
func (id Identity) Privileged() bool {
	return id.Role == domain.RoleAdmin
}

// EffectiveTenant resolves which tenant an operation targets. A privileged
// identity may name any tenant explicitly; requested == 0 and every
// unprivileged request fall back to the caller's own tenant.
func (id Identity) EffectiveTenant(requested int64) int64 {
	if id.Privileged() && requested != 0 {
		return requested
	}
	return id.TenantID
}

// CanAccess decides whether the identity may touch a resource owned by
// resourceTenant. Writes and deletes must call this after fetching the
// resource, since resource ids do not encode the tenant.
func (id Identity) CanAccess(resourceTenant int64) error {
	if id.Privileged() {
		return nil
	}
	if id.TenantID != resourceTenant {
		return domain.ErrForbidden
	}
	return nil
}

// CanDeleteAccount requires the privileged role, applies the tenant check
// and then the self-protection rule: no identity may delete its own account,
// whatever its role.
func (id Identity) CanDeleteAccount(target domain.Account) error {
	if !id.Privileged() {
		return domain.ErrForbidden
	}
	if err := id.CanAccess(target.TenantID); err != nil {
		return err
	}
	if id.AccountID == target.ID {
		return domain.ErrForbidden
	}
	return nil
}
