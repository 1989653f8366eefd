package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	adminspostgres "github.com/Apurer/catering-api/internal/domains/admins/adapters/persistence/postgres"
	platformobservability "github.com/Apurer/catering-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/catering-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	instruments, shutdown, err := platformobservability.Init(ctx, "catering-session-purger")
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	logger := instruments.Logger

	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	purged, err := adminspostgres.NewSessionStore(db).PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	logger.Info("session purge completed", slog.Int64("purged", purged))
}
