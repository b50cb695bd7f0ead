package notifications

import "deliverystate/internal/core/ports"

// MultiPublisher fans one committed notification out to several publishers,
// typically the in-process dispatcher plus the redis bridge. Each publisher
// is responsible for its own non-blocking behavior.
type MultiPublisher []ports.TransitionPublisher

// Publish forwards the notification to every publisher in order.
func (m MultiPublisher) Publish(notification ports.TransitionNotification) {
	for _, p := range m {
		p.Publish(notification)
	}
}
