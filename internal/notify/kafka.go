// Package notify delivers user-facing messages to the notification topic.
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Notification is the message published for downstream delivery channels
// (bot gateway, mailer). The engine does not care which channel picks it up.
type Notification struct {
	UserID  string    `json:"user_id"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// KafkaNotifier publishes notifications to Kafka, keyed by user so one
// user's messages stay ordered on a single partition.
type KafkaNotifier struct {
	brokers []string
	topic   string

	mu     sync.Mutex
	writer *kafka.Writer
}

// NewKafkaNotifier creates a KafkaNotifier. The writer is created lazily on
// first send.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{brokers: brokers, topic: topic}
}

// Send publishes one notification.
func (n *KafkaNotifier) Send(ctx context.Context, userID, message string) error {
	payload, err := json.Marshal(Notification{
		UserID:  userID,
		Message: message,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return n.fetchWriter().WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

func (n *KafkaNotifier) fetchWriter() *kafka.Writer {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.writer == nil {
		n.writer = &kafka.Writer{
			Addr:         kafka.TCP(n.brokers...),
			Topic:        n.topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		}
	}
	return n.writer
}

// Close releases the underlying writer.
func (n *KafkaNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.writer == nil {
		return nil
	}
	err := n.writer.Close()
	n.writer = nil
	return err
}
