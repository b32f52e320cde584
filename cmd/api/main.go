// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/crm-backend/internal/account"
	"github.com/carterperez-dev/crm-backend/internal/auth"
	"github.com/carterperez-dev/crm-backend/internal/config"
	"github.com/carterperez-dev/crm-backend/internal/contact"
	"github.com/carterperez-dev/crm-backend/internal/conversion"
	"github.com/carterperez-dev/crm-backend/internal/core"
	"github.com/carterperez-dev/crm-backend/internal/dashboard"
	"github.com/carterperez-dev/crm-backend/internal/health"
	"github.com/carterperez-dev/crm-backend/internal/lead"
	"github.com/carterperez-dev/crm-backend/internal/middleware"
	"github.com/carterperez-dev/crm-backend/internal/opportunity"
	"github.com/carterperez-dev/crm-backend/internal/organization"
	"github.com/carterperez-dev/crm-backend/internal/server"
	"github.com/carterperez-dev/crm-backend/internal/user"
)

const (
	drainDelay     = 5 * time.Second
	shutdownMargin = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("generate-keys", false, "write a new ES256 key pair and exit")
	flag.Parse()

	var err error
	if *genKeys {
		err = generateKeys(*configPath)
	} else {
		err = run(*configPath)
	}
	if err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func generateKeys(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
		return fmt.Errorf("generate keys: %w", err)
	}
	slog.Info("key pair written",
		"private", cfg.JWT.PrivateKeyPath,
		"public", cfg.JWT.PublicKeyPath,
	)
	return nil
}

// infra holds the process-wide connections, closed in reverse order of
// acquisition.
type infra struct {
	db         *core.Database
	redis      *core.Redis
	telemetry  *core.Telemetry
	principals *middleware.PrincipalCache
	jwt        *auth.JWTManager
}

func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*infra, error) {
	in := &infra{}

	if cfg.Otel.Enabled {
		tel, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if err != nil {
			logger.Warn("tracing disabled", "error", err)
		} else {
			in.telemetry = tel
			logger.Info("tracing enabled", "endpoint", cfg.Otel.Endpoint)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return in, err
	}
	in.db = db
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db); err != nil {
			return in, err
		}
		version, err := core.MigrationVersion(ctx, db)
		if err != nil {
			return in, err
		}
		logger.Info("schema up to date", "version", version)
	}

	if in.redis, err = core.NewRedis(ctx, cfg.Redis); err != nil {
		return in, err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	if in.jwt, err = auth.NewJWTManager(cfg.JWT); err != nil {
		return in, err
	}
	logger.Info("signing key loaded", "kid", in.jwt.KeyID())

	in.principals, err = middleware.NewPrincipalCache(
		cfg.Cache.PrincipalMaxCost,
		cfg.Cache.PrincipalTTL,
	)
	return in, err
}

func (in *infra) close(ctx context.Context, logger *slog.Logger) {
	if in.principals != nil {
		in.principals.Close()
	}
	if in.telemetry != nil {
		if err := in.telemetry.Shutdown(ctx); err != nil {
			logger.Error("telemetry shutdown", "error", err)
		}
	}
	if err := errors.Join(in.redis.Close(), in.db.Close()); err != nil {
		logger.Error("close connections", "error", err)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("starting",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	in, err := connect(ctx, cfg, logger)
	if err != nil {
		in.close(context.Background(), logger)
		return err
	}

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: in.db},
		health.Dependency{Name: "redis", Checker: in.redis},
		health.Dependency{
			Name: "migrations",
			Checker: health.CheckFunc(func(ctx context.Context) error {
				_, err := core.MigrationVersion(ctx, in.db)
				return err
			}),
		},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		ServiceName:   cfg.Otel.ServiceName,
	})
	mount(srv.Router(), cfg, in, healthHandler, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		in.close(context.Background(), logger)
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+shutdownMargin,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	in.close(shutdownCtx, logger)

	logger.Info("stopped")
	return nil
}

// mount wires every feature package onto the router. Tenant-scoped routes
// share one authenticator that resolves the principal and then charges the
// caller's tenant budget.
func mount(
	router chi.Router,
	cfg *config.Config,
	in *infra,
	healthHandler *health.Handler,
	logger *slog.Logger,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.NewRateLimiter(in.redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.Every(cfg.RateLimit.Requests, cfg.RateLimit.Burst, cfg.RateLimit.Window),
		FailOpen: true,
	}).Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", in.jwt.JWKSHandler())

	userRepo := user.NewRepository(in.db.DB)
	userSvc := user.NewService(userRepo, in.principals)
	authSvc := auth.NewService(
		auth.NewRepository(in.db.DB),
		in.jwt,
		userSvc,
		auth.NewRedisDenylist(in.redis.Client),
	)

	tenantLimiter := middleware.NewRateLimiter(in.redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.Every(cfg.RateLimit.TenantRequests, cfg.RateLimit.Burst, cfg.RateLimit.Window),
		KeyFunc:  middleware.KeyByTenant,
		FailOpen: true,
	})
	verify := middleware.Authenticator(authSvc, userSvc, in.principals)
	authenticator := func(next http.Handler) http.Handler {
		return verify(tenantLimiter.Handler(next))
	}

	leadRepo := lead.NewRepository(in.db.DB)
	accountRepo := account.NewRepository(in.db.DB)
	contactRepo := contact.NewRepository(in.db.DB)
	opportunityRepo := opportunity.NewRepository(in.db.DB)

	conversionHandler := conversion.NewHandler(
		conversion.NewService(conversion.NewTransactor(in.db.DB)),
	)
	organizationHandler := organization.NewHandler(organization.NewService(
		organization.Stores{
			Organizations: organization.NewRepository(in.db.DB),
			Users:         userRepo,
		},
		organization.NewTransactor(in.db.DB),
		in.principals,
	))
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(
		leadRepo,
		accountRepo,
		contactRepo,
		opportunityRepo,
	))

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authenticator)
		user.NewHandler(userSvc).RegisterRoutes(r, authenticator)

		lead.NewHandler(lead.NewService(leadRepo)).
			RegisterRoutes(r, authenticator, conversionHandler.Routes)
		account.NewHandler(account.NewService(accountRepo)).
			RegisterRoutes(r, authenticator)
		contact.NewHandler(contact.NewService(contactRepo, accountRepo)).
			RegisterRoutes(r, authenticator)
		opportunity.NewHandler(opportunity.NewService(opportunityRepo, accountRepo, contactRepo)).
			RegisterRoutes(r, authenticator)

		organizationHandler.RegisterRoutes(r, authenticator, middleware.RequireAdmin)
		dashboardHandler.RegisterRoutes(r, authenticator)
	})
}

// newLogger accepts any level slog understands ("debug", "warn", "error+2");
// unknown values fall back to info.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
