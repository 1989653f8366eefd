package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	cateringserver "github.com/Apurer/catering-api/go"
	"github.com/Apurer/catering-api/internal/domains/admins/adapters/token"
	ordersqrcode "github.com/Apurer/catering-api/internal/domains/orders/adapters/qrcode"
	ordersworkflows "github.com/Apurer/catering-api/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/catering-api/internal/domains/orders/ports"
	settingsredis "github.com/Apurer/catering-api/internal/domains/settings/adapters/cache/redis"
	"github.com/Apurer/catering-api/internal/platform/kafka"
	"github.com/Apurer/catering-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/catering-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/catering-api/internal/platform/postgres"
	platformredis "github.com/Apurer/catering-api/internal/platform/redis"
)

const serviceName = "catering-api"

// Run boots the catering HTTP API with observability, storage, events and
// workflows wired, and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupRepos := buildRepositories(ctx, logger)
	defer cleanupRepos()

	opts := ServiceOptions{
		Logger:       logger,
		Instruments:  instruments,
		LocalRatings: true,
		SessionTTL:   cfg.SessionTTL,
	}
	redisClient, cleanupRedis := platformredis.ConnectFromEnv(ctx, logger)
	defer cleanupRedis()
	if redisClient != nil {
		opts.SettingsCache = settingsredis.NewCache(redisClient, cfg.SettingsCacheTTL)
	}
	publisher, cleanupKafka := kafka.PublisherFromEnv(logger)
	defer cleanupKafka()
	if publisher != nil {
		opts.Publisher = publisher
		// cmd/rating-aggregator folds ratings from the topic instead.
		opts.LocalRatings = false
	}
	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set, admin tokens are signed with an ephemeral key")
		secret = uuid.NewString() + uuid.NewString()
	}
	issuer, err := token.NewJWTIssuer(secret)
	if err != nil {
		return fmt.Errorf("configure token issuer: %w", err)
	}
	opts.Tokens = issuer

	services := NewServices(repos, opts)
	if cfg.BootstrapEmail != "" {
		if _, err := services.Admins.EnsureAdmin(ctx, cfg.BootstrapEmail, "", cfg.BootstrapPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		logger.Info("bootstrap admin ensured", slog.String("email", cfg.BootstrapEmail))
	}

	var workflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(services.Orders, services.IdempotencyKeys)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	routerOpts := cateringserver.RouterOptions{
		BasePath:     cfg.BasePath,
		Logger:       logger,
		WriteLimiter: cateringserver.NewRateLimiter(cfg.RateLimitPerMinute).Middleware(),
		Middleware:   []gin.HandlerFunc{otelgin.Middleware(serviceName)},
	}
	if cfg.AuthRequired {
		routerOpts.AdminGuard = cateringserver.AdminGuard(services.Admins)
	} else {
		logger.Warn("AUTH_REQUIRED disabled, admin routes are open")
	}
	router := cateringserver.NewRouter(
		services.Handlers(workflows, ordersqrcode.NewGenerator(cfg.PublicBaseURL)),
		routerOpts,
	)

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", cateringserver.IdempotencyKeyHeader},
		}).Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("catering API listening", slog.String("addr", server.Addr), slog.String("basePath", cfg.BasePath))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("catering API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("catering API shutting down")
	return server.Shutdown(shutdownCtx)
}

// buildRepositories picks PostgreSQL when POSTGRES_DSN is reachable and
// migrates it, otherwise keeps everything in memory.
func buildRepositories(ctx context.Context, logger *slog.Logger) (Repositories, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		return MemoryRepositories(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		cleanup()
		return MemoryRepositories(), func() {}
	}
	logger.Info("repositories configured with postgres")
	return GormRepositories(db), cleanup
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
