package notification

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestSender(fn requestFunc) *SendgridSender {
	s := NewSendgridSender("SG.key", "payroll@school.test", "Payroll", zap.NewNop())
	s.request = fn
	return s
}

func TestSendgridSender_Notify(t *testing.T) {
	t.Run("builds mail send request", func(t *testing.T) {
		var got rest.Request
		s := newTestSender(func(ctx context.Context, req rest.Request) (*rest.Response, error) {
			got = req
			return &rest.Response{StatusCode: http.StatusAccepted}, nil
		})

		err := s.Notify(context.Background(), Target{EmployeeID: "e1", Name: "Asha", Email: "asha@school.test"}, SettlementMessage(3, 2025, "UTR123"))

		assert.NoError(t, err)
		assert.Equal(t, rest.Method(http.MethodPost), got.Method)
		assert.True(t, strings.HasSuffix(got.BaseURL, sendgridEndpoint))
		assert.Contains(t, string(got.Body), "asha@school.test")
		assert.Contains(t, string(got.Body), "UTR123")
	})

	t.Run("missing email", func(t *testing.T) {
		s := newTestSender(func(ctx context.Context, req rest.Request) (*rest.Response, error) {
			t.Fatal("request should not be sent")
			return nil, nil
		})

		err := s.Notify(context.Background(), Target{EmployeeID: "e1"}, Message{Subject: "x"})
		assert.ErrorIs(t, err, ErrNoRecipient)
	})

	t.Run("provider rejects", func(t *testing.T) {
		s := newTestSender(func(ctx context.Context, req rest.Request) (*rest.Response, error) {
			return &rest.Response{StatusCode: http.StatusUnauthorized, Body: "bad key"}, nil
		})

		err := s.Notify(context.Background(), Target{Email: "a@b.test"}, Message{Subject: "x"})
		assert.ErrorContains(t, err, "401")
	})

	t.Run("transport error", func(t *testing.T) {
		s := newTestSender(func(ctx context.Context, req rest.Request) (*rest.Response, error) {
			return nil, errors.New("dial tcp")
		})

		err := s.Notify(context.Background(), Target{Email: "a@b.test"}, Message{Subject: "x"})
		assert.ErrorContains(t, err, "dial tcp")
	})
}

func TestNewSender_FallsBackToLog(t *testing.T) {
	_, ok := NewSender("", "a@b.test", "P", zap.NewNop()).(*LogSender)
	assert.True(t, ok)

	_, ok = NewSender("SG.key", "a@b.test", "P", zap.NewNop()).(*SendgridSender)
	assert.True(t, ok)
}
