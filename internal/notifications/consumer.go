package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	"showtix/pkg/logger"
)

// Consumer drains the notification topic and hands each message to the
// dispatcher. It runs alongside the API server in this deployment; a
// dedicated worker binary can host it just as well.
type Consumer struct {
	group      sarama.ConsumerGroup
	topic      string
	dispatcher *Dispatcher
	log        *logger.Logger
}

func NewConsumer(brokers []string, groupID, topic string, dispatcher *Dispatcher, log *logger.Logger) (*Consumer, error) {
	cfg := sarama.NewConfig()
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}
	return &Consumer{
		group:      group,
		topic:      topic,
		dispatcher: dispatcher,
		log:        log,
	}, nil
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	handler := &groupHandler{dispatcher: c.dispatcher, log: c.log}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.WithError(err).Error("notification consume loop failed")
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	dispatcher *Dispatcher
	log        *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var msg Message
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			h.log.WithError(err).Warn("dropping malformed notification",
				"partition", message.Partition,
				"offset", message.Offset,
			)
			session.MarkMessage(message, "")
			continue
		}

		if err := h.dispatcher.Dispatch(session.Context(), &msg); err != nil {
			h.log.WithError(err).Error("notification dispatch failed",
				"booking_code", msg.BookingCode,
			)
		}
		session.MarkMessage(message, "")
	}
	return nil
}
