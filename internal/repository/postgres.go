package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetly/assetly-auth/internal/domain"
)

// Compile-time interface assertions.
var (
	_ AccountRepository = (*PostgresAccountRepo)(nil)
	_ TenantRepository  = (*PostgresTenantRepo)(nil)
	_ AlertRepository   = (*PostgresAlertRepo)(nil)
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// PostgresAccountRepo implements AccountRepository over a pgx pool.
type PostgresAccountRepo struct {
	db *pgxpool.Pool
}

func NewPostgresAccountRepo(pool *pgxpool.Pool) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: pool}
}

const accountColumns = `id, tenant_id, email, name, password_hash, role, failed_attempts, locked_until, created_at, updated_at`

const selectAccountByEmailSQL = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

func (r *PostgresAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, selectAccountByEmailSQL, email))
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	return account, nil
}

const selectAccountByIDSQL = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

func (r *PostgresAccountRepo) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, selectAccountByIDSQL, id))
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}
	return account, nil
}

const insertAccountSQL = `INSERT INTO accounts (tenant_id, email, name, password_hash, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + accountColumns

func (r *PostgresAccountRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	inserted, err := scanAccount(r.db.QueryRow(ctx, insertAccountSQL,
		account.TenantID,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.Role,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, domain.ErrDuplicateEmail
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	return inserted, nil
}

const listAccountsByTenantSQL = `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 ORDER BY id`

func (r *PostgresAccountRepo) ListByTenant(ctx context.Context, tenantID int64) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, listAccountsByTenantSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

const updateFailedAttemptsSQL = `UPDATE accounts SET failed_attempts = $2, updated_at = now() WHERE id = $1`

func (r *PostgresAccountRepo) UpdateFailedAttempts(ctx context.Context, id int64, attempts int) error {
	if _, err := r.db.Exec(ctx, updateFailedAttemptsSQL, id, attempts); err != nil {
		return fmt.Errorf("update failed attempts: %w", err)
	}
	return nil
}

const resetFailureStateSQL = `UPDATE accounts SET failed_attempts = 0, locked_until = NULL, updated_at = now() WHERE id = $1`

func (r *PostgresAccountRepo) ResetFailureState(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, resetFailureStateSQL, id); err != nil {
		return fmt.Errorf("reset failure state: %w", err)
	}
	return nil
}

const deleteAccountSQL = `DELETE FROM accounts WHERE id = $1`

func (r *PostgresAccountRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, deleteAccountSQL, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete account: %w", pgx.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.TenantID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&account.Role,
		&account.FailedAttempts,
		&account.LockedUntil,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// PostgresTenantRepo implements TenantRepository.
type PostgresTenantRepo struct {
	db *pgxpool.Pool
}

func NewPostgresTenantRepo(pool *pgxpool.Pool) *PostgresTenantRepo {
	return &PostgresTenantRepo{db: pool}
}

const tenantColumns = `id, name, address, contact, sector, logo_url, is_default, created_at, updated_at`

const selectTenantByIDSQL = `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`

func (r *PostgresTenantRepo) GetByID(ctx context.Context, id int64) (domain.Tenant, error) {
	tenant, err := scanTenant(r.db.QueryRow(ctx, selectTenantByIDSQL, id))
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	return tenant, nil
}

const insertTenantSQL = `INSERT INTO tenants (name, address, contact, sector, logo_url, is_default)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + tenantColumns

func (r *PostgresTenantRepo) CreateWithAdmin(ctx context.Context, tenant domain.Tenant, admin domain.Account) (domain.Tenant, domain.Account, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Tenant{}, domain.Account{}, fmt.Errorf("begin register tx: %w", err)
	}
	defer tx.Rollback(ctx)

	createdTenant, err := scanTenant(tx.QueryRow(ctx, insertTenantSQL,
		tenant.Name,
		tenant.Address,
		tenant.Contact,
		tenant.Sector,
		tenant.LogoURL,
		tenant.IsDefault,
	))
	if err != nil {
		return domain.Tenant{}, domain.Account{}, fmt.Errorf("create tenant: %w", err)
	}

	createdAdmin, err := scanAccount(tx.QueryRow(ctx, insertAccountSQL,
		createdTenant.ID,
		admin.Email,
		admin.Name,
		admin.PasswordHash,
		admin.Role,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Tenant{}, domain.Account{}, domain.ErrDuplicateEmail
		}
		return domain.Tenant{}, domain.Account{}, fmt.Errorf("create first admin: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Tenant{}, domain.Account{}, fmt.Errorf("commit register tx: %w", err)
	}
	return createdTenant, createdAdmin, nil
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var tenant domain.Tenant
	err := row.Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Address,
		&tenant.Contact,
		&tenant.Sector,
		&tenant.LogoURL,
		&tenant.IsDefault,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		return domain.Tenant{}, err
	}
	return tenant, nil
}

// PostgresAlertRepo implements AlertRepository.
type PostgresAlertRepo struct {
	db *pgxpool.Pool
}

func NewPostgresAlertRepo(pool *pgxpool.Pool) *PostgresAlertRepo {
	return &PostgresAlertRepo{db: pool}
}

const alertColumns = `id, account_id, message, type, resolved, created_at`

const insertAlertSQL = `INSERT INTO security_alerts (account_id, message, type)
VALUES ($1, $2, $3)
RETURNING ` + alertColumns

func (r *PostgresAlertRepo) Create(ctx context.Context, alert domain.SecurityAlert) (domain.SecurityAlert, error) {
	created, err := scanAlert(r.db.QueryRow(ctx, insertAlertSQL, alert.AccountID, alert.Message, alert.Type))
	if err != nil {
		return domain.SecurityAlert{}, fmt.Errorf("create alert: %w", err)
	}
	return created, nil
}

const hasUnresolvedAlertSQL = `SELECT EXISTS (SELECT 1 FROM security_alerts WHERE account_id = $1 AND NOT resolved)`

func (r *PostgresAlertRepo) HasUnresolved(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, hasUnresolvedAlertSQL, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check unresolved alert: %w", err)
	}
	return exists, nil
}

const listAlertsSQL = `SELECT ` + alertColumns + ` FROM security_alerts ORDER BY created_at DESC`

func (r *PostgresAlertRepo) List(ctx context.Context) ([]domain.SecurityAlert, error) {
	rows, err := r.db.Query(ctx, listAlertsSQL)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]domain.SecurityAlert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("list alerts: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

const selectAlertByIDSQL = `SELECT ` + alertColumns + ` FROM security_alerts WHERE id = $1`

func (r *PostgresAlertRepo) GetByID(ctx context.Context, id int64) (domain.SecurityAlert, error) {
	alert, err := scanAlert(r.db.QueryRow(ctx, selectAlertByIDSQL, id))
	if err != nil {
		return domain.SecurityAlert{}, fmt.Errorf("get alert: %w", err)
	}
	return alert, nil
}

const resolveAlertSQL = `UPDATE security_alerts SET resolved = true WHERE id = $1 RETURNING ` + alertColumns

func (r *PostgresAlertRepo) Resolve(ctx context.Context, id int64) (domain.SecurityAlert, error) {
	alert, err := scanAlert(r.db.QueryRow(ctx, resolveAlertSQL, id))
	if err != nil {
		return domain.SecurityAlert{}, fmt.Errorf("resolve alert: %w", err)
	}
	return alert, nil
}

const resolveAlertsForAccountSQL = `UPDATE security_alerts SET resolved = true WHERE account_id = $1 AND NOT resolved`

func (r *PostgresAlertRepo) ResolveAllForAccount(ctx context.Context, accountID int64) error {
	if _, err := r.db.Exec(ctx, resolveAlertsForAccountSQL, accountID); err != nil {
		return fmt.Errorf("resolve alerts for account: %w", err)
	}
	return nil
}

func scanAlert(row rowScanner) (domain.SecurityAlert, error) {
	var alert domain.SecurityAlert
	err := row.Scan(
		&alert.ID,
		&alert.AccountID,
		&alert.Message,
		&alert.Type,
		&alert.Resolved,
		&alert.CreatedAt,
	)
	if err != nil {
		return domain.SecurityAlert{}, err
	}
	return alert, nil
}
