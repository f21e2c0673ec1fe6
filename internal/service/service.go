package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/assetly/assetly-auth/internal/config"
	"github.com/assetly/assetly-auth/internal/domain"
	"github.com/assetly/assetly-auth/internal/password"
	"github.com/assetly/assetly-auth/internal/repository"
	"github.com/assetly/assetly-auth/internal/token"
)

// AuthService implements credential verification, failure tracking, token
// issuance and the tenant-scoped account/alert operations.
type AuthService struct {
	accounts repository.AccountRepository
	tenants  repository.TenantRepository
	alerts   repository.AlertRepository
	hasher   *password.Hasher
	issuer   *token.Issuer
	cfg      config.Config
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewAuthService wires the service with its collaborators.
func NewAuthService(
	accounts repository.AccountRepository,
	tenants repository.TenantRepository,
	alerts repository.AlertRepository,
	hasher *password.Hasher,
	issuer *token.Issuer,
	cfg config.Config,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		tenants:  tenants,
		alerts:   alerts,
		hasher:   hasher,
		issuer:   issuer,
		cfg:      cfg,
		logger:   logger,
		tracer:   otel.Tracer("assetly-auth/service"),
	}
}

// AccountView is the outward-facing shape of an account. The password hash
// never leaves the service layer.
type AccountView struct {
	ID             int64       `json:"id"`
	TenantID       int64       `json:"tenant_id"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	Role           domain.Role `json:"role"`
	FailedAttempts int         `json:"failed_attempts"`
	CreatedAt      time.Time   `json:"created_at"`
}

// AuthResult pairs a signed token with the account it asserts.
type AuthResult struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	Account   AccountView `json:"account"`
}

func newAccountView(account domain.Account) AccountView {
	return AccountView{
		ID:             account.ID,
		TenantID:       account.TenantID,
		Email:          account.Email,
		Name:           account.Name,
		Role:           account.Role,
		FailedAttempts: account.FailedAttempts,
		CreatedAt:      account.CreatedAt,
	}
}

// ValidationError marks malformed input; handlers map it to a 400 response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalidInput(msg string) error {
	return &ValidationError{Msg: msg}
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}

func (s *AuthService) audit(event string, kv ...any) {
	s.log().Sugar().Infow(event, kv...)
}
