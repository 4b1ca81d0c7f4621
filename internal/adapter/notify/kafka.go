package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"numrent-admin-core/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// kafkaEvent is the message value published per fund change.
type kafkaEvent struct {
	AccountID   string `json:"account_id"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
}

// messageWriter is the subset of kafka.Writer used here, extracted so
// tests can capture published messages.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaNotifier implements ports.Notifier by publishing fund-change
// events to a Kafka topic, keyed by account id.
type KafkaNotifier struct {
	writer messageWriter
}

// NewKafkaNotifier creates a Kafka notifier for the given brokers and topic.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Close releases the underlying writer when it holds connections.
func (n *KafkaNotifier) Close() error {
	if c, ok := n.writer.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Notify publishes the notification as a JSON message.
func (n *KafkaNotifier) Notify(ctx context.Context, event ports.Notification) error {
	value, err := json.Marshal(kafkaEvent{
		AccountID:   event.AccountID,
		Kind:        string(event.Kind),
		Amount:      event.Amount.String(),
		Description: event.Description,
		Timestamp:   time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal kafka event: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AccountID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish kafka event: %w", err)
	}
	return nil
}
