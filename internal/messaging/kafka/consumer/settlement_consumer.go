package consumer

import (
	"context"
	"go-payroll/internal/events"
	"go-payroll/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type RecipientResolver interface {
	Recipients(ctx context.Context, schoolID string, employeeIDs []string) ([]notification.Target, error)
}

// SettlementConfirmedHandler notifies every paid employee. Delivery failures
// are logged only; the payroll side is already committed.
func SettlementConfirmedHandler(recipients RecipientResolver, sender notification.Sender, logger *zap.Logger) Handler {
	log := named(logger, "settlement_notifier")

	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.SettlementConfirmedEvent
		if err := decode(msg, &event); err != nil {
			return err
		}

		targets, err := recipients.Recipients(ctx, event.SchoolID, event.EmployeeIDs)
		if err != nil {
			return err
		}

		message := notification.SettlementMessage(event.Month, event.Year, event.BankTransferReference)
		delivered := 0
		for _, target := range targets {
			if err := sender.Notify(ctx, target, message); err != nil {
				log.Warn("settlement notification failed",
					zap.String("employee_id", target.EmployeeID),
					zap.Error(err),
				)
				continue
			}
			delivered++
		}

		log.Info("settlement notifications sent",
			zap.String("period_id", event.PeriodID),
			zap.Int("recipients", len(targets)),
			zap.Int("delivered", delivered),
		)
		return nil
	}
}

func ConsumeSettlementConfirmed(ctx context.Context, reader MessageReader, recipients RecipientResolver, sender notification.Sender, logger *zap.Logger) {
	Run(ctx, reader, "settlement", SettlementConfirmedHandler(recipients, sender, logger), logger)
}
