package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type requestFunc func(ctx context.Context, req rest.Request) (*rest.Response, error)

type SendgridSender struct {
	key     string
	from    *sgmail.Email
	request requestFunc
	logger  *zap.Logger
}

func NewSendgridSender(apiKey, fromEmail, fromName string, logger ...*zap.Logger) *SendgridSender {
	base := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		base = logger[0]
	}
	return &SendgridSender{
		key:     apiKey,
		from:    sgmail.NewEmail(fromName, fromEmail),
		request: sendgrid.MakeRequestWithContext,
		logger:  base.Named("notification.sendgrid"),
	}
}

// NewSender picks sendgrid when an API key is configured and falls back to
// logging otherwise.
func NewSender(apiKey, fromEmail, fromName string, logger *zap.Logger) Sender {
	if apiKey == "" {
		return NewLogSender(logger)
	}
	return NewSendgridSender(apiKey, fromEmail, fromName, logger)
}

func (s *SendgridSender) Notify(ctx context.Context, target Target, msg Message) error {
	if !hasEmail(target) {
		return ErrNoRecipient
	}

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(target, msg))

	res, err := s.request(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d: %s", res.StatusCode, res.Body)
	}

	s.logger.Debug("email sent",
		zap.String("employee_id", target.EmployeeID),
		zap.Int("status", res.StatusCode),
	)
	return nil
}

func (s *SendgridSender) prepare(target Target, msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(target.Name, target.Email))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)

	text := msg.Text
	if text == "" {
		text = msg.Subject
	}
	m.AddContent(sgmail.NewContent("text/plain", text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}
