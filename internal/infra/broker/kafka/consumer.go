package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

type MessageHandler interface {
	Handle(ctx context.Context, msg *sarama.ConsumerMessage) error
}

// Consumer feeds one consumer group's messages to a MessageHandler. A
// message whose handler fails is retried in place until it succeeds or the
// claim ends, so no later offset is marked past it.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
	logger  *slog.Logger
	backoff time.Duration
}

func NewConsumer(brokers []string, groupID string, cfg *sarama.Config, handler MessageHandler, logger *slog.Logger) (*Consumer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Version = sarama.V2_5_0_0
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRange()}
	g, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{group: g, handler: handler, logger: logger, backoff: 2 * time.Second}, nil
}

// Run consumes until ctx is done. Each rebalance ends one Consume call; a
// failing Consume is retried after a pause instead of stopping the service.
func (c *Consumer) Run(ctx context.Context, topics []string) error {
	for {
		err := c.group.Consume(ctx, topics, groupHandler{handler: c.handler, logger: c.logger, retry: c.backoff})
		switch {
		case errors.Is(err, sarama.ErrClosedConsumerGroup):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			c.logger.WarnContext(ctx, "kafka consume failed", "topics", topics, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	handler MessageHandler
	logger  *slog.Logger
	retry   time.Duration
}

func (h groupHandler) Setup(sess sarama.ConsumerGroupSession) error {
	h.logger.Info("kafka partitions assigned", "claims", sess.Claims(), "generation", sess.GenerationID())
	return nil
}

func (h groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := sess.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if !h.handle(ctx, msg) {
				return nil
			}
			sess.MarkMessage(msg, "")
		}
	}
}

// handle runs the handler until it succeeds. It reports false when the
// session ends first; the message then stays unmarked for the next owner.
func (h groupHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) bool {
	for attempt := 1; ; attempt++ {
		err := h.handler.Handle(ctx, msg)
		if err == nil {
			return true
		}
		h.logger.WarnContext(ctx, "kafka message not handled",
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(h.retry):
		}
	}
}
