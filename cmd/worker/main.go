package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/catering-api/internal/app/api"
	orderactivities "github.com/Apurer/catering-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/catering-api/internal/durable/temporal/workflows/orders"
	"github.com/Apurer/catering-api/internal/platform/kafka"
	"github.com/Apurer/catering-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/catering-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/catering-api/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "catering-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	repos := api.MemoryRepositories()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Error("failed to migrate postgres", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = api.GormRepositories(db)
	} else {
		logger.Warn("worker placing orders into memory, the API will not see them")
	}
	opts := api.ServiceOptions{Logger: logger, Instruments: instruments, LocalRatings: true}
	publisher, cleanupKafka := kafka.PublisherFromEnv(logger)
	defer cleanupKafka()
	if publisher != nil {
		opts.Publisher = publisher
		opts.LocalRatings = false
	}
	services := api.NewServices(repos, opts)
	activities := orderactivities.NewActivities(services.Orders)

	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")})
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
