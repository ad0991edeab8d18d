package notification

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

var ErrNoRecipient = errors.New("notification target has no email")

type Target struct {
	EmployeeID string
	Name       string
	Email      string
}

type Message struct {
	Subject string
	Text    string
	HTML    string
}

//go:generate mockgen -source=notification.go -destination=mock/notification_mock.go -package=mock
type Sender interface {
	Notify(ctx context.Context, target Target, msg Message) error
}

// LogSender writes notifications to the log. Used when no mail provider is
// configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger ...*zap.Logger) *LogSender {
	base := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		base = logger[0]
	}
	return &LogSender{logger: base.Named("notification.log")}
}

func (s *LogSender) Notify(ctx context.Context, target Target, msg Message) error {
	s.logger.Info("notification",
		zap.String("employee_id", target.EmployeeID),
		zap.String("email", target.Email),
		zap.String("subject", msg.Subject),
	)
	return nil
}

func hasEmail(target Target) bool {
	return strings.TrimSpace(target.Email) != ""
}
