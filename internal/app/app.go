package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gmarket/export-svc/internal/dal/mongo"
	"github.com/gmarket/export-svc/internal/dal/rabbitmq"
	exportrepo "github.com/gmarket/export-svc/internal/dal/repositories/export/mongo"
	outboxrepo "github.com/gmarket/export-svc/internal/dal/repositories/outbox/mongo"
	productrepo "github.com/gmarket/export-svc/internal/dal/repositories/product/mongo"
	userrepo "github.com/gmarket/export-svc/internal/dal/repositories/user/mongo"
	"github.com/gmarket/export-svc/internal/otel"
	"github.com/gmarket/export-svc/internal/service/services/exportsvc"
	httptransport "github.com/gmarket/export-svc/internal/transport/http"
	outboxworker "github.com/gmarket/export-svc/internal/worker/outbox"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	exportSvc      *exportsvc.ExportService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	mongoClient    *mongo.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	mongoClient := mongo.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	if err := rabbitMqClient.DeclareExchange(viper.GetString("rabbitmq.exchange")); err != nil {
		panic("failed to declare exchange: " + err.Error())
	}

	db := mongoClient.Database()
	outboxRepository := outboxrepo.NewMongoOutboxRepository(db)

	exportSvc := exportsvc.MustNewExportService(
		exportsvc.WithExportRepository(exportrepo.NewMongoExportRepository(db)),
		exportsvc.WithProductRepository(productrepo.NewMongoProductRepository(db)),
		exportsvc.WithUserRepository(userrepo.NewMongoUserRepository(db)),
		exportsvc.WithOutboxRepository(outboxRepository),
	)

	transport := httptransport.NewHTTPTransport(exportSvc)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		exportSvc:      exportSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		mongoClient:    mongoClient,
		rabbitMqClient: rabbitMqClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown shuts components down sequentially: HTTP server, outbox
// worker, RabbitMQ, MongoDB, OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.mongoClient.Close(); err != nil {
		slog.Error("Database connection close error", "error", err)
	} else {
		slog.Info("Database connection closed gracefully")
	}

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	} else {
		slog.Info("Otel trace provider closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
