//go:build integration

package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkaContainer "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func TestKafkaNotifierPublishesKeyedNotification(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkaContainer.RunContainer(ctx, testcontainers.WithEnv(map[string]string{
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	broker := brokers[0]

	topic := "user_notifications"

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))

	notifier := NewKafkaNotifier([]string{broker}, topic)
	t.Cleanup(func() { _ = notifier.Close() })

	require.NoError(t, notifier.Send(ctx, "user-1", "Workout reminder: gym at 19:00"))
	require.NoError(t, notifier.Send(ctx, "user-1", "report"))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		Topic:    topic,
		GroupID:  "notify-test",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	first, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", string(first.Key))

	var notification Notification
	require.NoError(t, json.Unmarshal(first.Value, &notification))
	require.Equal(t, "user-1", notification.UserID)
	require.Equal(t, "Workout reminder: gym at 19:00", notification.Message)
	require.False(t, notification.SentAt.IsZero())

	second, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", string(second.Key))
}
