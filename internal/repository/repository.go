package repository

import (
	"context"

	"github.com/assetly/assetly-auth/internal/domain"
)

// AccountRepository persists identity records. Email lookups are exact,
// case-sensitive matches.
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]domain.Account, error)
	UpdateFailedAttempts(ctx context.Context, id int64, attempts int) error
	ResetFailureState(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// TenantRepository persists tenants. CreateWithAdmin inserts the tenant and
// its first administrator atomically; neither row is visible if the other
// insert fails.
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Tenant, error)
	CreateWithAdmin(ctx context.Context, tenant domain.Tenant, admin domain.Account) (domain.Tenant, domain.Account, error)
}

// AlertRepository persists security alerts keyed on the account they
// reference.
type AlertRepository interface {
	Create(ctx context.Context, alert domain.SecurityAlert) (domain.SecurityAlert, error)
	HasUnresolved(ctx context.Context, accountID int64) (bool, error)
	List(ctx context.Context) ([]domain.SecurityAlert, error)
	GetByID(ctx context.Context, id int64) (domain.SecurityAlert, error)
	Resolve(ctx context.Context, id int64) (domain.SecurityAlert, error)
	ResolveAllForAccount(ctx context.Context, accountID int64) error
}
