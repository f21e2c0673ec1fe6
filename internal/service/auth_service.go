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

// RegisterInput carries everything needed to create a tenant and its first
// administrator.
type RegisterInput struct {
	TenantName    string
	TenantAddress string
	TenantContact string
	TenantSector  string
	TenantLogoURL string
	AdminName     string
	AdminEmail    string
	Password      string
}

// Register creates a tenant together with its first admin account in one
// transaction and logs the new admin in. A tenant is never left behind
// without its account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	email := strings.TrimSpace(in.AdminEmail)
	if email == "" {
		return AuthResult{}, invalidInput("email is required")
	}
	if strings.TrimSpace(in.Password) == "" {
		return AuthResult{}, invalidInput("password is required")
	}
	if strings.TrimSpace(in.TenantName) == "" {
		return AuthResult{}, invalidInput("company name is required")
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, domain.ErrDuplicateEmail
	} else if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	tenant := domain.Tenant{
		Name:    strings.TrimSpace(in.TenantName),
		Address: strings.TrimSpace(in.TenantAddress),
		Contact: strings.TrimSpace(in.TenantContact),
		Sector:  strings.TrimSpace(in.TenantSector),
		LogoURL: strings.TrimSpace(in.TenantLogoURL),
	}
	admin := domain.Account{
		Email:        email,
		Name:         strings.TrimSpace(in.AdminName),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}

	createdTenant, createdAdmin, err := s.tenants.CreateWithAdmin(ctx, tenant, admin)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return AuthResult{}, domain.ErrDuplicateEmail
		}
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("register tenant: %w", err)
	}

	signed, err := s.issuer.Issue(createdAdmin.ID, createdAdmin.Role, createdAdmin.TenantID)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	s.audit("auth.register.success", "tenant_id", createdTenant.ID, "account_id", createdAdmin.ID)
	return AuthResult{
		Token:     signed,
		ExpiresIn: int64(s.issuer.TTL().Seconds()),
		Account:   newAccountView(createdAdmin),
	}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller; the consecutive-failure
// counter and the alert check run only for existing accounts.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	email = strings.TrimSpace(email)
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.audit("auth.login.unknown_email", "email", email)
			return AuthResult{}, domain.ErrInvalidCredentials
		}
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("lookup account: %w", err)
	}

	if !s.hasher.Verify(plaintext, account.PasswordHash) {
		if err := s.recordFailedAttempt(ctx, account); err != nil {
			// The increment must be durable before the caller learns
			// anything; a storage error ends the attempt as a server fault.
			span.RecordError(err)
			return AuthResult{}, err
		}
		return AuthResult{}, domain.ErrInvalidCredentials
	}

	if account.FailedAttempts > 0 {
		if err := s.accounts.UpdateFailedAttempts(ctx, account.ID, 0); err != nil {
			span.RecordError(err)
			return AuthResult{}, fmt.Errorf("reset failure counter: %w", err)
		}
		account.FailedAttempts = 0
	}

	signed, err := s.issuer.Issue(account.ID, account.Role, account.TenantID)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	s.audit("auth.login.success", "account_id", account.ID, "tenant_id", account.TenantID)
	return AuthResult{
		Token:     signed,
		ExpiresIn: int64(s.issuer.TTL().Seconds()),
		Account:   newAccountView(account),
	}, nil
}

// recordFailedAttempt persists the incremented counter and raises a single
// security alert once the threshold is crossed. While an unresolved alert
// exists for the account, further failures raise nothing new.
func (s *AuthService) recordFailedAttempt(ctx context.Context, account domain.Account) error {
	attempts := account.FailedAttempts + 1
	if err := s.accounts.UpdateFailedAttempts(ctx, account.ID, attempts); err != nil {
		return fmt.Errorf("record failed attempt: %w", err)
	}

	s.audit("auth.login.failed", "account_id", account.ID, "attempts", attempts)

	if attempts < s.cfg.AlertThreshold {
		return nil
	}

	unresolved, err := s.alerts.HasUnresolved(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("check unresolved alert: %w", err)
	}
	if unresolved {
		return nil
	}

	alert := domain.SecurityAlert{
		AccountID: account.ID,
		Message:   fmt.Sprintf("Repeated failed login attempts for %s (%s)", account.Name, account.Email),
		Type:      domain.AlertTypeSecurity,
	}
	if _, err := s.alerts.Create(ctx, alert); err != nil {
		return fmt.Errorf("create security alert: %w", err)
	}

	s.audit("auth.alert.raised", "account_id", account.ID, "attempts", attempts)
	return nil
}

// Authenticate verifies a bearer token and returns the identity it asserts.
// Missing, malformed, badly signed and expired tokens are all reported as the
// one ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (scope.Identity, error) {
	_, span := s.startSpan(ctx, "AuthService.Authenticate")
	defer span.End()

	if strings.TrimSpace(raw) == "" {
		return scope.Identity{}, domain.ErrUnauthorized
	}
	identity, err := s.issuer.Verify(raw)
	if err != nil {
		return scope.Identity{}, domain.ErrUnauthorized
	}
	return identity, nil
}
