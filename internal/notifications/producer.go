package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"showtix/pkg/logger"
)

// Producer publishes notification messages to Kafka
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &Producer{
		producer: producer,
		topic:    topic,
		log:      log,
	}, nil
}

// Publish sends one notification message, keyed by user id.
func (p *Producer) Publish(msg *Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.UserID),
		Value: sarama.ByteEncoder(raw),
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.log.Debug("notification published",
		"type", string(msg.Type),
		"booking_code", msg.BookingCode,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
