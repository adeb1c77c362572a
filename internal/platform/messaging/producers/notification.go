package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gigmarket-payments/internal/config"
	"github.com/segmentio/kafka-go"
)

// NotificationProducer publishes user notifications and realtime payment
// events to the notifications topic. Delivery is best effort; the producer
// writes asynchronously and a lost notification never fails a payment.
type NotificationProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewNotificationProducer creates the notifications producer and ensures the
// topic exists
func NewNotificationProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*NotificationProducer, error) {
	if cfg.NotificationsTopic == "" {
		return nil, fmt.Errorf("kafka notifications topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for notification producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.NotificationsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure notifications topic %s exists: %w", cfg.NotificationsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.NotificationsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write notifications asynchronously", "topic", cfg.NotificationsTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote notifications asynchronously", "topic", cfg.NotificationsTopic, "count", len(messages))
			}
		},
	}

	return &NotificationProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.NotificationsTopic,
	}, nil
}

// Publish sends one notification keyed by the recipient's user ID
func (p *NotificationProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish notification",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish notification to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published notification",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *NotificationProducer) Close() error {
	p.logger.Info("Closing notification producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close notification kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
