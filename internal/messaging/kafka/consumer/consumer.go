package consumer

import (
	"context"
	"encoding/json"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type Handler func(ctx context.Context, msg kafkago.Message) error

// errSkip marks a message that can never succeed; it is committed and dropped.
var errSkip = errors.New("skip message")

func named(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		logger = zap.L()
	}
	return logger.Named("kafka.consumer." + name)
}

func decode(msg kafkago.Message, dest any) error {
	if err := json.Unmarshal(msg.Value, dest); err != nil {
		return errors.Join(errSkip, err)
	}
	return nil
}

// Run fetches until ctx is cancelled. Handled and undecodable messages are
// committed; other handler errors leave the offset for redelivery.
func Run(ctx context.Context, reader MessageReader, name string, handle Handler, logger *zap.Logger) {
	log := named(logger, name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := handle(ctx, msg); err != nil {
			if !errors.Is(err, errSkip) {
				log.Error("handle message failed",
					zap.String("topic", msg.Topic),
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
				continue
			}
			log.Warn("dropping message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}
