package consumer

import (
	"context"
	"go-payroll/internal/events"
	"go-payroll/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type PayslipGenerator interface {
	GeneratePeriodPayslips(ctx context.Context, schoolID, periodID string) (payroll.BatchResult, error)
}

func PayslipRequestedHandler(generator PayslipGenerator, logger *zap.Logger) Handler {
	log := named(logger, "payroll_payslip")

	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.PayrollPayslipRequestedEvent
		if err := decode(msg, &event); err != nil {
			return err
		}

		result, err := generator.GeneratePeriodPayslips(ctx, event.SchoolID, event.PeriodID)
		if err != nil {
			return err
		}

		// Per-item failures are reported in the batch and retried by a new request.
		log.Info("period payslips generated",
			zap.String("period_id", event.PeriodID),
			zap.String("school_id", event.SchoolID),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
		)
		return nil
	}
}

func ConsumePayrollPayslipRequested(ctx context.Context, reader MessageReader, generator PayslipGenerator, logger *zap.Logger) {
	Run(ctx, reader, "payroll_payslip", PayslipRequestedHandler(generator, logger), logger)
}
