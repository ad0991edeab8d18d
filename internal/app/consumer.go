package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-payroll/internal/config"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/notification"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

const consumerGroupPrefix = "go-payroll-"

// RunConsumer reads the payroll topics until SIGINT/SIGTERM: settlement and
// profile change events become notifications, payslip requests generate the
// period's payslips.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	// Payslip generation only reads and writes Postgres; the summary cache is
	// invalidated by the API on its own writes.
	svc, err := buildServices(cfg, sqlDB, gormDB, nil)
	if err != nil {
		return err
	}

	sender := notification.NewSender(cfg.Notify.SendgridAPIKey, cfg.Notify.FromEmail, cfg.Notify.FromName, logger)

	settlementReader := connection.NewKafkaReader(cfg.Kafka.Broker, events.SettlementConfirmedTopic, consumerGroupPrefix+"settlement-notifier")
	defer settlementReader.Close()
	payslipReader := connection.NewKafkaReader(cfg.Kafka.Broker, events.PayrollPayslipRequestedTopic, consumerGroupPrefix+"payslip-generator")
	defer payslipReader.Close()
	profileReader := connection.NewKafkaReader(cfg.Kafka.Broker, events.ProfileChangeTopic, consumerGroupPrefix+"profile-notifier")
	defer profileReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeSettlementConfirmed(ctx, settlementReader, svc.profiles, sender, logger)
	go consumer.ConsumePayrollPayslipRequested(ctx, payslipReader, svc.payroll, logger)
	go consumer.ConsumeProfileChange(ctx, profileReader, svc.profiles, sender, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
