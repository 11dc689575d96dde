// Command order-stats consumes confirmed reservations from Kafka and adds the
// ordered quantities to each menu item's orders_placed count.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dine24/dine24-api/internal/config"
	"github.com/dine24/dine24-api/internal/events"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/pkg/logger"
	"github.com/segmentio/kafka-go"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if len(cfg.Kafka.Brokers) == 0 {
		log.Error("KAFKA_BROKER is required")
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.OpenPostgres(ctx, cfg.Database.URL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		GroupID: cfg.Kafka.GroupID,
		Topic:   cfg.Kafka.Topic,
	})
	defer reader.Close()

	log.Info("consuming reservation events",
		"brokers", cfg.Kafka.Brokers,
		"topic", cfg.Kafka.Topic,
		"group_id", cfg.Kafka.GroupID,
	)

	consumer := events.NewConsumer(reader, events.NewStatsUpdater(repository.NewPostgresStore(db)), log)
	if err := consumer.Run(ctx); err != nil {
		log.Error("consumer stopped", "error", err)
		os.Exit(1)
	}

	log.Info("consumer stopped gracefully")
}
