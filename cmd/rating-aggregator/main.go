// Command rating-aggregator folds approved review ratings from the event
// topic into dish ratings.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	catalogevents "github.com/Apurer/catering-api/internal/domains/catalog/adapters/events"
	catalogpostgres "github.com/Apurer/catering-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/catering-api/internal/domains/catalog/application"
	"github.com/Apurer/catering-api/internal/platform/kafka"
	platformobservability "github.com/Apurer/catering-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/catering-api/internal/platform/postgres"
	"github.com/Apurer/catering-api/internal/shared/events"
)

const groupID = "catering-rating-aggregator"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instruments, shutdown, err := platformobservability.Init(ctx, "catering-rating-aggregator")
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()
	logger := instruments.Logger

	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot aggregate ratings")
	}
	brokers := kafka.Brokers(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		log.Fatal("KAFKA_BROKERS not set; nothing to consume")
	}

	catalog := catalogapp.NewService(catalogpostgres.NewRepositories(db))
	aggregator := catalogevents.NewRatingAggregator(catalog, logger)
	consumer, err := kafka.NewConsumer(brokers, strings.TrimSpace(os.Getenv("KAFKA_TOPIC")), groupID, aggregator.Handle, logger, events.ReviewApproved, events.ReviewRetracted)
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}
	defer consumer.Close()

	logger.Info("rating aggregator consuming", slog.Any("brokers", brokers), slog.String("group", groupID))
	if err := consumer.Run(ctx); err != nil {
		logger.Error("rating aggregator stopped", slog.String("error", err.Error()))
		return
	}
	logger.Info("rating aggregator stopped")
}
