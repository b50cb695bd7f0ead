// Package redis bridges committed transition notifications onto redis
// pub/sub, so consumers outside this process (other instances, dashboards)
// can follow a delivery without holding an SSE connection here.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"deliverystate/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// channelFor returns the pub/sub channel carrying one delivery's events.
func channelFor(deliveryID string) string {
	return "delivery:" + deliveryID
}

// message is the wire format published to redis.
type message struct {
	DeliveryID    string    `json:"delivery_id"`
	ToStatus      string    `json:"to_status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher implements ports.TransitionPublisher over redis PUBLISH. Sends
// run on their own goroutine with a timeout; a down redis costs the bridge
// nothing but a log line, never a transition.
type Publisher struct {
	client *redis.Client
	log    *slog.Logger
}

// NewPublisher creates a redis-backed transition publisher.
func NewPublisher(client *redis.Client, log *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		log:    log.With("component", "redis-publisher"),
	}
}

// Publish sends the notification to the delivery's channel. It returns
// immediately; failures are logged and dropped.
func (p *Publisher) Publish(notification ports.TransitionNotification) {
	msg := message{
		DeliveryID: notification.DeliveryID.String(),
		ToStatus:   notification.ToStatus.String(),
		Source:     notification.Source,
		Timestamp:  notification.OccurredAt,
	}
	if notification.FailureReason.IsPresent() {
		msg.FailureReason = notification.FailureReason.String()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		p.log.Error("marshal notification", "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.client.Publish(ctx, channelFor(msg.DeliveryID), payload).Err(); err != nil {
			p.log.Warn("redis publish failed",
				"deliveryId", msg.DeliveryID, "error", err)
		}
	}()
}
