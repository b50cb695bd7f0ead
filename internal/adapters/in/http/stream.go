package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"deliverystate/internal/core/domain/model/kernel"
	"deliverystate/internal/core/ports"
	"deliverystate/internal/notifications"

	"github.com/labstack/echo/v4"
)

// streamBuffer bounds how far an SSE client may lag behind the dispatcher
// before it is cut off.
const streamBuffer = 16

// StreamHub is the subscription surface the stream endpoint needs from the
// notification dispatcher.
type StreamHub interface {
	Subscribe(deliveryID string, sub notifications.Subscriber)
	Unsubscribe(deliveryID string, sub notifications.Subscriber)
}

// streamEvent is the JSON payload of one SSE message.
type streamEvent struct {
	DeliveryID    string    `json:"delivery_id"`
	ToStatus      string    `json:"to_status"`
	FailureReason *string   `json:"failure_reason,omitempty"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
}

// channelSubscriber bridges the dispatcher to one SSE connection. Send never
// blocks the dispatcher: when the client cannot keep up the buffer fills,
// Send fails, and the dispatcher drops the subscription. The client is
// expected to reconnect.
type channelSubscriber struct {
	ch chan ports.TransitionNotification
}

func newChannelSubscriber() *channelSubscriber {
	return &channelSubscriber{ch: make(chan ports.TransitionNotification, streamBuffer)}
}

func (s *channelSubscriber) Send(notification ports.TransitionNotification) error {
	select {
	case s.ch <- notification:
		return nil
	default:
		return errors.New("stream subscriber buffer is full")
	}
}

// StreamDelivery handles GET /api/v1/delivery/:id/stream - pushes every
// transition of one delivery to the client as server-sent events until the
// client disconnects.
func (s *Server) StreamDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set(echo.HeaderCacheControl, "no-cache")
	response.Header().Set(echo.HeaderConnection, "keep-alive")
	response.WriteHeader(http.StatusOK)
	response.Flush()

	sub := newChannelSubscriber()
	s.streams.Subscribe(deliveryID.String(), sub)
	defer s.streams.Unsubscribe(deliveryID.String(), sub)

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case notification := <-sub.ch:
			if err := writeStreamEvent(response, notification); err != nil {
				return nil
			}
		}
	}
}

func writeStreamEvent(response *echo.Response, notification ports.TransitionNotification) error {
	payload, err := json.Marshal(streamEvent{
		DeliveryID:    notification.DeliveryID.String(),
		ToStatus:      notification.ToStatus.String(),
		FailureReason: failureReasonJSON(notification.FailureReason),
		Source:        notification.Source,
		Timestamp:     notification.OccurredAt,
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(response, "data: %s\n\n", payload); err != nil {
		return err
	}
	response.Flush()
	return nil
}
