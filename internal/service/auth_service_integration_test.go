//go:build integration

package service_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/assetly/assetly-auth/internal/config"
	"github.com/assetly/assetly-auth/internal/domain"
	"github.com/assetly/assetly-auth/internal/password"
	"github.com/assetly/assetly-auth/internal/repository"
	"github.com/assetly/assetly-auth/internal/scope"
	"github.com/assetly/assetly-auth/internal/service"
	"github.com/assetly/assetly-auth/internal/token"
)

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL must be set for integration tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}

	require.NoError(t, repository.EnsureSchema(ctx, pool))
	return pool
}

func seedTenant(t *testing.T, db *pgxpool.Pool, name string) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO tenants (name, is_default)
		VALUES ($1, FALSE)
		RETURNING id
	`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedDBAccount(t *testing.T, db *pgxpool.Pool, tenantID int64, email, plaintext string, role domain.Role) int64 {
	t.Helper()
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	require.NoError(t, err)

	var id int64
	err = db.QueryRow(ctx, `
		INSERT INTO accounts (tenant_id, email, name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			failed_attempts = 0
		RETURNING id
	`, tenantID, email, "Seeded Account", string(hashed), string(role)).Scan(&id)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `DELETE FROM security_alerts WHERE account_id = $1`, id)
	require.NoError(t, err)

	return id
}

func newRealAuthService(t *testing.T, db *pgxpool.Pool) *service.AuthService {
	t.Helper()

	cfg := config.Config{
		AlertThreshold: 3,
		TokenTTL:       7 * 24 * time.Hour,
	}

	return service.NewAuthService(
		repository.NewPostgresAccountRepo(db),
		repository.NewPostgresTenantRepo(db),
		repository.NewPostgresAlertRepo(db),
		password.NewHasher(10),
		token.NewIssuer("integration-signing-key", cfg.TokenTTL),
		cfg,
		zap.NewExample(),
	)
}

func TestAuthService_BruteForceLifecycle_Integration(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	ctx := context.Background()
	tenantID := seedTenant(t, db, fmt.Sprintf("Acme %d", time.Now().UnixNano()))
	email := fmt.Sprintf("victim-%d@acme.test", time.Now().UnixNano())
	accountID := seedDBAccount(t, db, tenantID, email, "correct-horse", domain.RoleUser)
	adminID := seedDBAccount(t, db, tenantID, fmt.Sprintf("admin-%d@acme.test", time.Now().UnixNano()), "admin-pass", domain.RoleAdmin)

	svc := newRealAuthService(t, db)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, email, "battery-staple")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	var unresolved int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM security_alerts
		WHERE account_id = $1 AND resolved = FALSE
	`, accountID).Scan(&unresolved)
	require.NoError(t, err)
	require.Equal(t, 1, unresolved)

	// A fourth failure must not duplicate the alert.
	_, err = svc.Login(ctx, email, "battery-staple")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	var total int
	err = db.QueryRow(ctx, `SELECT COUNT(*) FROM security_alerts WHERE account_id = $1`, accountID).Scan(&total)
	require.NoError(t, err)
	require.Equal(t, 1, total)

	identity := scope.Identity{AccountID: adminID, Role: domain.RoleAdmin, TenantID: tenantID}
	require.NoError(t, svc.UnlockAccount(ctx, identity, accountID))

	var attempts int
	err = db.QueryRow(ctx, `SELECT failed_attempts FROM accounts WHERE id = $1`, accountID).Scan(&attempts)
	require.NoError(t, err)
	require.Equal(t, 0, attempts)

	err = db.QueryRow(ctx, `
		SELECT COUNT(*) FROM security_alerts
		WHERE account_id = $1 AND resolved = FALSE
	`, accountID).Scan(&unresolved)
	require.NoError(t, err)
	require.Equal(t, 0, unresolved)

	res, err := svc.Login(ctx, email, "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
}

func TestAuthService_RegisterIsAtomic_Integration(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	ctx := context.Background()
	svc := newRealAuthService(t, db)

	email := fmt.Sprintf("founder-%d@startup.test", time.Now().UnixNano())
	first, err := svc.Register(ctx, service.RegisterInput{
		TenantName: fmt.Sprintf("Startup %d", time.Now().UnixNano()),
		AdminName:  "Founder",
		AdminEmail: email,
		Password:   "s3cret!A",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)

	var before int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&before))

	_, err = svc.Register(ctx, service.RegisterInput{
		TenantName: "Doomed Tenant",
		AdminName:  "Copycat",
		AdminEmail: email,
		Password:   "other-pass",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	var after int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&after))
	require.Equal(t, before, after)
}
