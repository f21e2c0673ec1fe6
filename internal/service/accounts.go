package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/assetly/assetly-auth/internal/domain"
	"github.com/assetly/assetly-auth/internal/scope"
)

// CreateAccountInput describes an account added by an administrator.
// TenantID may name another tenant only when the caller is privileged.
type CreateAccountInput struct {
	TenantID int64
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// CreateAccount adds a user to a tenant. Privileged callers may target any
// tenant; the caller's own tenant is used otherwise.
func (s *AuthService) CreateAccount(ctx context.Context, identity scope.Identity, in CreateAccountInput) (AccountView, error) {
	ctx, span := s.startSpan(ctx, "AuthService.CreateAccount")
	defer span.End()

	if !identity.Privileged() {
		return AccountView{}, domain.ErrForbidden
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return AccountView{}, invalidInput("email is required")
	}
	if strings.TrimSpace(in.Password) == "" {
		return AccountView{}, invalidInput("password is required")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return AccountView{}, invalidInput("unknown role")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		span.RecordError(err)
		return AccountView{}, err
	}

	account := domain.Account{
		TenantID:     identity.EffectiveTenant(in.TenantID),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return AccountView{}, domain.ErrDuplicateEmail
		}
		span.RecordError(err)
		return AccountView{}, fmt.Errorf("create account: %w", err)
	}

	s.audit("accounts.create", "actor_id", identity.AccountID, "account_id", created.ID, "tenant_id", created.TenantID)
	return newAccountView(created), nil
}

// ListAccounts returns the accounts of the caller's effective tenant. When a
// privileged caller names a foreign tenant, the tenant must exist.
func (s *AuthService) ListAccounts(ctx context.Context, identity scope.Identity, requestedTenant int64) ([]AccountView, error) {
	ctx, span := s.startSpan(ctx, "AuthService.ListAccounts")
	defer span.End()

	target := identity.EffectiveTenant(requestedTenant)
	if target != identity.TenantID {
		if _, err := s.tenants.GetByID(ctx, target); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			span.RecordError(err)
			return nil, fmt.Errorf("load tenant: %w", err)
		}
	}

	accounts, err := s.accounts.ListByTenant(ctx, target)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, newAccountView(account))
	}
	return views, nil
}

// GetAccount fetches one account and then checks tenant ownership. A truly
// absent id is NotFound; an existing account in a foreign tenant is Forbidden
// and its data is never returned.
func (s *AuthService) GetAccount(ctx context.Context, identity scope.Identity, accountID int64) (AccountView, error) {
	ctx, span := s.startSpan(ctx, "AuthService.GetAccount")
	defer span.End()

	account, err := s.fetchAccount(ctx, accountID)
	if err != nil {
		return AccountView{}, err
	}
	if err := identity.CanAccess(account.TenantID); err != nil {
		return AccountView{}, err
	}
	return newAccountView(account), nil
}

// DeleteAccount removes an account. Deletion is an administrative action;
// the tenant check and the self-protection rule apply on top of the role.
func (s *AuthService) DeleteAccount(ctx context.Context, identity scope.Identity, accountID int64) error {
	ctx, span := s.startSpan(ctx, "AuthService.DeleteAccount")
	defer span.End()

	if !identity.Privileged() {
		return domain.ErrForbidden
	}

	account, err := s.fetchAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if err := identity.CanDeleteAccount(account); err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, accountID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		span.RecordError(err)
		return fmt.Errorf("delete account: %w", err)
	}

	s.audit("accounts.delete", "actor_id", identity.AccountID, "account_id", accountID)
	return nil
}

func (s *AuthService) fetchAccount(ctx context.Context, accountID int64) (domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("fetch account: %w", err)
	}
	return account, nil
}
