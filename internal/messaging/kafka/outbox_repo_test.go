package kafka_test

import (
	"context"
	"testing"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewOutboxEvent(t *testing.T) {
	periodID := uuid.NewString()

	event, err := kafka.NewOutboxEvent("req-1", "payroll_period", periodID, events.EventTypeSettlementConfirmed, events.SettlementConfirmedTopic, events.SettlementConfirmedEvent{
		EventType: events.EventTypeSettlementConfirmed,
		PeriodID:  periodID,
	})

	assert.NoError(t, err)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.Equal(t, events.SettlementConfirmedTopic, event.Topic)
	assert.Contains(t, string(event.Payload), periodID)
	assert.NoError(t, kafka.ValidateOutboxEvent(event))
}

func TestValidateOutboxEvent(t *testing.T) {
	base := kafka.OutboxEvent{ID: "1", Topic: "t", Payload: []byte(`{}`), Status: kafka.OutboxStatusPending}

	missingTopic := base
	missingTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(missingTopic))

	badStatus := base
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))

	assert.NoError(t, kafka.ValidateOutboxEvent(base))
}

func TestOutboxRepository_CreateUsesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	event, _ := kafka.NewOutboxEvent("", "payroll_period", uuid.NewString(), "e", "topic", map[string]string{"a": "b"})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, event.RequestID, event.AggregateType, event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	assert.NoError(t, repo.Create(context.Background(), event))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailedParksAfterMaxRetries(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("o1", kafka.OutboxStatusFailed, kafka.OutboxStatusDead, kafka.MaxOutboxRetries, "broker unavailable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := kafka.NewOutboxRepository(db)
	assert.NoError(t, repo.MarkFailed(context.Background(), "o1", "broker unavailable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
