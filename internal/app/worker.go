package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go-payroll/internal/config"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/producer"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

var errNoBroker = errors.New("KAFKA_BROKER is required for the outbox worker")

// RunWorker relays payroll outbox rows to Kafka and returns after SIGINT/SIGTERM
// once the batch in flight has been written.
func RunWorker(cfg *config.Config) error {
	if cfg.Kafka.Broker == "" {
		return errNoBroker
	}
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("relaying outbox", zap.String("broker", cfg.Kafka.Broker))
	producer.ProcessOutboxEvents(ctx, kafka.NewOutboxRepository(sqlDB), writer, logger, cfg.Kafka.OutboxPollInterval)

	return nil
}
