package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akb-account-ledger/internal/config"
	"github.com/akb-account-ledger/internal/data/mongo"
	"github.com/akb-account-ledger/internal/data/postgres"
	"github.com/akb-account-ledger/internal/domain/ledger"
	"github.com/akb-account-ledger/internal/gateway"
	"github.com/akb-account-ledger/internal/gateway/events"
	"github.com/akb-account-ledger/internal/gateway/outbox"
	"github.com/akb-account-ledger/internal/gateway/service"
	"github.com/akb-account-ledger/internal/logger"
	"github.com/akb-account-ledger/internal/platform/messaging/producers"
	"github.com/akb-account-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("ledger_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Ledger Gateway",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)

	// The entry archive is optional; without it Mongo is never contacted
	var (
		mongoDB   *persistence.MongoDB
		entryRepo ledger.Repository
	)
	if cfg.Events.ArchiveEntries {
		mongoDB, err = persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			os.Exit(1)
		}
		repo := mongo.NewEntryRepository(log, mongoDB.Collection(cfg.MongoDB.EntriesCollection))
		if err := repo.EnsureIndexes(appCtx); err != nil {
			log.Error("Failed to create entry archive indexes", "error", err)
			os.Exit(1)
		}
		entryRepo = repo
	}

	notificationProducer, err := producers.NewNotificationProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize notification Kafka producer", "error", err)
		os.Exit(1)
	}

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	var dlq producers.DeadLetterPublisher
	if dlqProducer != nil {
		dlq = dlqProducer
	}

	// Ledger events leave the account lock through the dispatcher's worker pool
	dispatcher, err := events.NewDispatcher(log, cfg, entryRepo, outboxRepo)
	if err != nil {
		log.Error("Failed to initialize event dispatcher", "error", err)
		os.Exit(1)
	}

	registry := service.NewAccountRegistry(log, ledger.WithObserver(dispatcher))
	archiveService := service.NewArchiveService(log, entryRepo)

	poller := outbox.NewPoller(&cfg.Outbox, outboxRepo, notificationProducer, dlq, log)

	server := gateway.NewServer(log, cfg, registry, archiveService)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop taking requests first so no new ledger events are raised
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Drain queued events while the databases are still open
	log.Info("Draining event dispatcher", "running_workers", dispatcher.Running())
	if err = dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error("Event dispatcher did not drain in time", "error", err)
	}

	// Pending rows left behind are relayed on the next start
	cancelAppCtx()
	wg.Wait()

	if err = notificationProducer.Close(); err != nil {
		log.Error("Error closing notification Kafka producer", "error", err)
	}
	if dlqProducer != nil {
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	postgresDB.Close()

	if mongoDB != nil {
		if err = mongoDB.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Ledger Gateway shutdown completed with errors")
	} else {
		log.Info("Ledger Gateway shutdown completed successfully")
	}
}
