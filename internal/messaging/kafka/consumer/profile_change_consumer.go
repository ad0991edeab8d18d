package consumer

import (
	"context"
	"go-payroll/internal/events"
	"go-payroll/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ProfileChangeHandler(recipients RecipientResolver, sender notification.Sender, logger *zap.Logger) Handler {
	log := named(logger, "profile_change")

	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.ProfileChangeEvent
		if err := decode(msg, &event); err != nil {
			return err
		}

		var message notification.Message
		switch event.EventType {
		case events.EventTypeProfileChangeSubmitted:
			message = notification.ProfileChangeSubmittedMessage()
		case events.EventTypeProfileChangeApproved:
			message = notification.ProfileChangeApprovedMessage()
		case events.EventTypeProfileChangeRejected:
			message = notification.ProfileChangeRejectedMessage(event.Reason)
		default:
			log.Warn("unknown profile change event", zap.String("event_type", event.EventType))
			return nil
		}

		targets, err := recipients.Recipients(ctx, event.SchoolID, []string{event.EmployeeID})
		if err != nil {
			return err
		}

		for _, target := range targets {
			if err := sender.Notify(ctx, target, message); err != nil {
				log.Warn("profile change notification failed",
					zap.String("employee_id", target.EmployeeID),
					zap.Error(err),
				)
			}
		}
		return nil
	}
}

func ConsumeProfileChange(ctx context.Context, reader MessageReader, recipients RecipientResolver, sender notification.Sender, logger *zap.Logger) {
	Run(ctx, reader, "profile_change", ProfileChangeHandler(recipients, sender, logger), logger)
}
