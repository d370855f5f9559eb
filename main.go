package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"vehicle-booking/cmd"
	"vehicle-booking/internal/data/repository"
	"vehicle-booking/internal/wire"
	"vehicle-booking/pkg/database"
	"vehicle-booking/pkg/events"
	"vehicle-booking/pkg/metrics"
	"vehicle-booking/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("store", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos *repository.Repository
	switch config.Database.Driver {
	case "memory":
		logger.Warn("Using in-memory store, bookings are lost on restart")
		repos = repository.NewMemoryRepository(logger)
	case "postgres":
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database connected successfully")

		repos = repository.NewRepository(db, logger)
	default:
		logger.Fatal("Unknown DB_DRIVER", zap.String("driver", config.Database.Driver))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(config.Metrics.Namespace, registry)

	publisher, err := events.NewPublisher(config.Kafka.Brokers, config.Kafka.Topic, logger)
	if err != nil {
		logger.Fatal("Failed to create event publisher", zap.Error(err))
	}
	defer publisher.Close()

	app := wire.Wiring(wire.Deps{
		Repo:      repos,
		Config:    config,
		Metrics:   m,
		Gatherer:  registry,
		Publisher: publisher,
		Logger:    logger,
	})

	go cmd.SessionJanitor(ctx, app.Service.Auth, config.Session.CleanupInterval, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Info("Server stopped")
}
