package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetly/assetly-auth/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tenants (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	address     TEXT NOT NULL DEFAULT '',
	contact     TEXT NOT NULL DEFAULT '',
	sector      TEXT NOT NULL DEFAULT '',
	logo_url    TEXT NOT NULL DEFAULT '',
	is_default  BOOLEAN NOT NULL DEFAULT false,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS accounts (
	id               BIGSERIAL PRIMARY KEY,
	tenant_id        BIGINT NOT NULL REFERENCES tenants(id),
	email            TEXT NOT NULL UNIQUE,
	name             TEXT NOT NULL,
	password_hash    TEXT NOT NULL,
	role             TEXT NOT NULL,
	failed_attempts  INT NOT NULL DEFAULT 0,
	locked_until     TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS security_alerts (
	id          BIGSERIAL PRIMARY KEY,
	account_id  BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	message     TEXT NOT NULL,
	type        TEXT NOT NULL DEFAULT 'SECURITY',
	resolved    BOOLEAN NOT NULL DEFAULT false,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_security_alerts_unresolved
	ON security_alerts (account_id) WHERE NOT resolved;
`

// EnsureSchema applies the embedded DDL. Statements are idempotent, so it is
// safe to run at every process start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const selectDefaultTenantSQL = `SELECT ` + tenantColumns + ` FROM tenants WHERE is_default LIMIT 1`

// SeedDefaultTenant creates the break-glass tenant and its administrator on
// first boot. Subsequent boots find the existing rows and change nothing.
func SeedDefaultTenant(ctx context.Context, pool *pgxpool.Pool, adminEmail, adminName, passwordHash string) (domain.Tenant, domain.Account, error) {
	tenant, err := scanTenant(pool.QueryRow(ctx, selectDefaultTenantSQL))
	if err == nil {
		account, err := scanAccount(pool.QueryRow(ctx, selectAccountByEmailSQL, adminEmail))
		if err != nil {
			return domain.Tenant{}, domain.Account{}, fmt.Errorf("load seeded admin: %w", err)
		}
		return tenant, account, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Tenant{}, domain.Account{}, fmt.Errorf("load default tenant: %w", err)
	}

	repo := NewPostgresTenantRepo(pool)
	return repo.CreateWithAdmin(ctx,
		domain.Tenant{Name: "Assetly", Sector: "platform", IsDefault: true},
		domain.Account{Email: adminEmail, Name: adminName, PasswordHash: passwordHash, Role: domain.RoleAdmin},
	)
}
