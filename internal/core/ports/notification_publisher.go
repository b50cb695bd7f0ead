package ports

import (
	"time"

	"deliverystate/internal/core/domain/model/delivery"
	"deliverystate/internal/core/domain/model/kernel"
)

// TransitionNotification is the payload handed to subscribers after a
// transition commits. It carries the event's audit fields, not the full
// snapshot; interested subscribers re-read the delivery themselves.
type TransitionNotification struct {
	DeliveryID    kernel.UUID
	ToStatus      delivery.Status
	FailureReason delivery.FailureReason
	Source        string
	OccurredAt    time.Time
}

// NotificationFromEvent builds the notification payload for a committed event.
func NotificationFromEvent(event *delivery.StateEvent) TransitionNotification {
	return TransitionNotification{
		DeliveryID:    event.DeliveryID(),
		ToStatus:      event.ToStatus(),
		FailureReason: event.FailureReason(),
		Source:        event.Source(),
		OccurredAt:    event.CreatedAt(),
	}
}

// TransitionPublisher receives committed transitions for fanout. Publish is
// called after the transaction commits, outside any lock on the transition
// path; implementations must never block the caller. Failures are the
// publisher's problem (log and drop), never the transition's.
type TransitionPublisher interface {
	Publish(notification TransitionNotification)
}
