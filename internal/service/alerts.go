package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/assetly/assetly-auth/internal/domain"
	"github.com/assetly/assetly-auth/internal/scope"
)

// AlertView is the outward-facing shape of a security alert.
type AlertView struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
}

func newAlertView(alert domain.SecurityAlert) AlertView {
	return AlertView{
		ID:        alert.ID,
		AccountID: alert.AccountID,
		Message:   alert.Message,
		Type:      alert.Type,
		Resolved:  alert.Resolved,
		CreatedAt: alert.CreatedAt,
	}
}

// ListAlerts returns all security alerts. Privileged role only.
func (s *AuthService) ListAlerts(ctx context.Context, identity scope.Identity) ([]AlertView, error) {
	ctx, span := s.startSpan(ctx, "AuthService.ListAlerts")
	defer span.End()

	if !identity.Privileged() {
		return nil, domain.ErrForbidden
	}

	alerts, err := s.alerts.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	views := make([]AlertView, 0, len(alerts))
	for _, alert := range alerts {
		views = append(views, newAlertView(alert))
	}
	return views, nil
}

// ResolveAlert marks a single alert handled. Privileged role only.
func (s *AuthService) ResolveAlert(ctx context.Context, identity scope.Identity, alertID int64) (AlertView, error) {
	ctx, span := s.startSpan(ctx, "AuthService.ResolveAlert")
	defer span.End()

	if !identity.Privileged() {
		return AlertView{}, domain.ErrForbidden
	}

	if _, err := s.alerts.GetByID(ctx, alertID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AlertView{}, domain.ErrNotFound
		}
		span.RecordError(err)
		return AlertView{}, fmt.Errorf("load alert: %w", err)
	}

	resolved, err := s.alerts.Resolve(ctx, alertID)
	if err != nil {
		span.RecordError(err)
		return AlertView{}, fmt.Errorf("resolve alert: %w", err)
	}

	s.audit("alerts.resolve", "actor_id", identity.AccountID, "alert_id", alertID)
	return newAlertView(resolved), nil
}

// UnlockAccount resets an account's failure state and bulk-resolves its
// unresolved alerts. Privileged role only; the tenant check runs against the
// fetched account.
func (s *AuthService) UnlockAccount(ctx context.Context, identity scope.Identity, accountID int64) error {
	ctx, span := s.startSpan(ctx, "AuthService.UnlockAccount")
	defer span.End()

	if !identity.Privileged() {
		return domain.ErrForbidden
	}

	account, err := s.fetchAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if err := identity.CanAccess(account.TenantID); err != nil {
		return err
	}

	if err := s.accounts.ResetFailureState(ctx, account.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("reset failure state: %w", err)
	}
	if err := s.alerts.ResolveAllForAccount(ctx, account.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("resolve account alerts: %w", err)
	}

	s.audit("accounts.unlock", "actor_id", identity.AccountID, "account_id", account.ID)
	return nil
}
