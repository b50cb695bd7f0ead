package redis_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"deliverystate/internal/adapters/out/redis"
	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_PublishesToDeliveryChannel(t *testing.T) {
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	deliveryID := kernel.NewUUID()
	channel := "delivery:" + deliveryID.String()

	sub := client.Subscribe(context.Background(), channel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	occurredAt := time.Now().UTC().Truncate(time.Second)
	publisher := redis.NewPublisher(client, slog.Default())
	publisher.Publish(ports.TransitionNotification{
		DeliveryID:    deliveryID,
		ToStatus:      delivery.DeliveryFailed,
		FailureReason: delivery.CustomerNotAvailable,
		Source:        delivery.SourceSystem,
		OccurredAt:    occurredAt,
	})

	msg, err := sub.ReceiveMessage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, channel, msg.Channel)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
	assert.Equal(t, deliveryID.String(), payload["delivery_id"])
	assert.Equal(t, "DELIVERY_FAILED", payload["to_status"])
	assert.Equal(t, "CUSTOMER_NOT_AVAILABLE", payload["failure_reason"])
	assert.Equal(t, "SYSTEM", payload["source"])
}

func TestPublisher_OmitsAbsentFailureReason(t *testing.T) {
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	deliveryID := kernel.NewUUID()
	sub := client.Subscribe(context.Background(), "delivery:"+deliveryID.String())
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	publisher := redis.NewPublisher(client, slog.Default())
	publisher.Publish(ports.TransitionNotification{
		DeliveryID: deliveryID,
		ToStatus:   delivery.PickedUp,
		Source:     delivery.SourceSystem,
		OccurredAt: time.Now().UTC(),
	})

	msg, err := sub.ReceiveMessage(context.Background())
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
	assert.NotContains(t, payload, "failure_reason")
}

func TestPublisher_SurvivesDownRedis(t *testing.T) {
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	server.Close()

	publisher := redis.NewPublisher(client, slog.Default())

	// Must neither panic nor block the caller.
	done := make(chan struct{})
	go func() {
		publisher.Publish(ports.TransitionNotification{
			DeliveryID: kernel.NewUUID(),
			ToStatus:   delivery.PickedUp,
			Source:     delivery.SourceSystem,
			OccurredAt: time.Now().UTC(),
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked the caller")
	}
}
