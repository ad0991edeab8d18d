package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/notification"
	notificationmock "go-payroll/internal/notification/mock"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeReader struct {
	messages  []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeResolver struct {
	targets []notification.Target
	err     error
}

func (f fakeResolver) Recipients(ctx context.Context, schoolID string, employeeIDs []string) ([]notification.Target, error) {
	return f.targets, f.err
}

func message(t *testing.T, offset int64, v any) kafkago.Message {
	t.Helper()
	body, err := json.Marshal(v)
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: body}
}

func TestRun_CommitsHandledAndUndecodable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &fakeReader{cancel: cancel, messages: []kafkago.Message{
		{Offset: 1, Value: []byte("ok")},
		{Offset: 2, Value: []byte("retry")},
		{Offset: 3, Value: []byte("{not json")},
	}}

	handler := func(ctx context.Context, msg kafkago.Message) error {
		switch string(msg.Value) {
		case "ok":
			return nil
		case "retry":
			return errors.New("db down")
		}
		var v map[string]any
		return json.Unmarshal(msg.Value, &v)
	}

	consumer.Run(ctx, reader, "test", handler, zap.NewNop())

	// A raw json error is not a skip marker, so offset 3 stays uncommitted.
	assert.Equal(t, []int64{1}, reader.committed)
}

func TestSettlementConfirmedHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := notificationmock.NewMockSender(ctrl)

	resolver := fakeResolver{targets: []notification.Target{
		{EmployeeID: "e1", Email: "a@school.test"},
		{EmployeeID: "e2", Email: "b@school.test"},
	}}

	sender.EXPECT().Notify(gomock.Any(), resolver.targets[0], gomock.Any()).Return(nil)
	sender.EXPECT().Notify(gomock.Any(), resolver.targets[1], gomock.Any()).Return(errors.New("bounced"))

	handle := consumer.SettlementConfirmedHandler(resolver, sender, zap.NewNop())
	err := handle(context.Background(), message(t, 1, events.SettlementConfirmedEvent{
		EventType:   events.EventTypeSettlementConfirmed,
		SchoolID:    "s1",
		PeriodID:    "p1",
		Month:       3,
		Year:        2025,
		EmployeeIDs: []string{"e1", "e2"},
	}))

	assert.NoError(t, err)
}

func TestSettlementConfirmedHandler_ResolverErrorIsRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := notificationmock.NewMockSender(ctrl)

	handle := consumer.SettlementConfirmedHandler(fakeResolver{err: errors.New("db down")}, sender, zap.NewNop())
	err := handle(context.Background(), message(t, 1, events.SettlementConfirmedEvent{SchoolID: "s1"}))

	assert.EqualError(t, err, "db down")
}

func TestSettlementConfirmedHandler_BadPayloadIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &fakeReader{cancel: cancel, messages: []kafkago.Message{{Offset: 7, Value: []byte("{")}}}

	ctrl := gomock.NewController(t)
	sender := notificationmock.NewMockSender(ctrl)

	consumer.ConsumeSettlementConfirmed(ctx, reader, fakeResolver{}, sender, zap.NewNop())

	assert.Equal(t, []int64{7}, reader.committed)
}

func TestProfileChangeHandler_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := notificationmock.NewMockSender(ctrl)
	target := notification.Target{EmployeeID: "e1", Email: "a@school.test"}

	sender.EXPECT().
		Notify(gomock.Any(), target, notification.ProfileChangeRejectedMessage("IFSC mismatch")).
		Return(nil)

	handle := consumer.ProfileChangeHandler(fakeResolver{targets: []notification.Target{target}}, sender, zap.NewNop())
	err := handle(context.Background(), message(t, 1, events.ProfileChangeEvent{
		EventType:  events.EventTypeProfileChangeRejected,
		SchoolID:   "s1",
		EmployeeID: "e1",
		Reason:     "IFSC mismatch",
	}))

	assert.NoError(t, err)
}
