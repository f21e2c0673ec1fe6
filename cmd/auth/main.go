package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/assetly/assetly-auth/internal/config"
	httptransport "github.com/assetly/assetly-auth/internal/http"
	"github.com/assetly/assetly-auth/internal/http/handler"
	httpmiddleware "github.com/assetly/assetly-auth/internal/http/middleware"
	apimiddleware "github.com/assetly/assetly-auth/internal/middleware"
	"github.com/assetly/assetly-auth/internal/password"
	"github.com/assetly/assetly-auth/internal/repository"
	"github.com/assetly/assetly-auth/internal/server"
	"github.com/assetly/assetly-auth/internal/service"
	"github.com/assetly/assetly-auth/internal/telemetry"
	"github.com/assetly/assetly-auth/internal/token"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newPGXPool,
			newAccountRepository,
			newTenantRepository,
			newAlertRepository,
			newHasher,
			newTokenIssuer,
			newRateLimiter,
			service.NewAuthService,
			handler.NewAuthHandler,
			handler.NewAccountHandler,
			handler.NewAlertHandler,
			newAuthMiddleware,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Production() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newAccountRepository(pool *pgxpool.Pool) repository.AccountRepository {
	return repository.NewPostgresAccountRepo(pool)
}

func newTenantRepository(pool *pgxpool.Pool) repository.TenantRepository {
	return repository.NewPostgresTenantRepo(pool)
}

func newAlertRepository(pool *pgxpool.Pool) repository.AlertRepository {
	return repository.NewPostgresAlertRepo(pool)
}

func newHasher(cfg config.Config) *password.Hasher {
	return password.NewHasher(cfg.BcryptCost)
}

func newTokenIssuer(cfg config.Config) *token.Issuer {
	return token.NewIssuer(cfg.SigningKey, cfg.TokenTTL)
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newAuthMiddleware(authService *service.AuthService) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{AuthService: authService}
}

// bootstrap prepares the schema and seeds the default tenant with its
// break-glass administrator before the server accepts traffic.
func bootstrap(lc fx.Lifecycle, pool *pgxpool.Pool, hasher *password.Hasher, cfg config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Production() && cfg.InsecureSigningKey() {
				logger.Warn("running production with the default signing key, set SIGNING_KEY")
			}

			if err := repository.EnsureSchema(ctx, pool); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			adminPass := cfg.BootstrapAdminPass
			if adminPass == "" {
				logger.Info("BOOTSTRAP_ADMIN_PASSWORD unset, skipping admin seed")
				return nil
			}

			hash, err := hasher.Hash(adminPass)
			if err != nil {
				return fmt.Errorf("hash bootstrap password: %w", err)
			}

			tenant, admin, err := repository.SeedDefaultTenant(ctx, pool, cfg.BootstrapAdminEmail, "Administrator", hash)
			if err != nil {
				return fmt.Errorf("seed default tenant: %w", err)
			}

			logger.Info("default tenant ready",
				zap.Int64("tenant_id", tenant.ID),
				zap.Int64("admin_id", admin.ID),
				zap.String("admin_email", cfg.BootstrapAdminEmail),
			)
			return nil
		},
	})
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
