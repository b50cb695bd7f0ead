// Package notifications fans committed transition events out to per-delivery
// subscribers. The dispatcher sits behind the ports.TransitionPublisher
// interface: command handlers hand a notification over after commit and move
// on; everything from there (registry lookup, send attempts, disconnect
// handling) happens on the dispatcher's own goroutine.
package notifications

import (
	"log/slog"
	"sync"

	"deliverystate/internal/core/ports"
)

// Subscriber is one receiver of a delivery's transition notifications. Send
// returns an error when the receiver is gone; the dispatcher treats that as a
// disconnect and drops the subscriber. Send must not block indefinitely;
// transports enforce their own timeouts.
type Subscriber interface {
	Send(notification ports.TransitionNotification) error
}

const publishBuffer = 256

// Dispatcher maintains, per delivery id, the set of active subscribers and
// delivers committed events to them, best-effort and at-most-once.
//
// Publish never blocks and never fails the caller: the notification is handed
// to a buffered channel consumed by a single fanout goroutine. When the
// buffer is full the notification is dropped and logged; a slow consumer
// costs notifications, never transitions. The registry mutex is held only for
// map access, never across a Send, so subscribing and unsubscribing stay
// cheap while broadcasts run.
type Dispatcher struct {
	mu       sync.Mutex
	registry map[string]map[Subscriber]struct{}

	events chan ports.TransitionNotification
	done   chan struct{}
	closed bool

	log *slog.Logger
}

// NewDispatcher creates a dispatcher and starts its fanout goroutine.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		registry: make(map[string]map[Subscriber]struct{}),
		events:   make(chan ports.TransitionNotification, publishBuffer),
		done:     make(chan struct{}),
		log:      log.With("component", "dispatcher"),
	}

	go d.run()
	return d
}

// Subscribe registers the subscriber for one delivery's notifications.
// Subscribing the same handle twice is a no-op.
func (d *Dispatcher) Subscribe(deliveryID string, sub Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()

	set, ok := d.registry[deliveryID]
	if !ok {
		set = make(map[Subscriber]struct{})
		d.registry[deliveryID] = set
	}
	set[sub] = struct{}{}
}

// Unsubscribe removes the subscriber. Removing a handle that was never
// registered, or was already dropped after a failed send, is a no-op.
func (d *Dispatcher) Unsubscribe(deliveryID string, sub Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.remove(deliveryID, sub)
}

// Publish hands a committed notification to the fanout goroutine. It never
// blocks: with the buffer full the notification is dropped.
func (d *Dispatcher) Publish(notification ports.TransitionNotification) {
	select {
	case d.events <- notification:
	case <-d.done:
	default:
		d.log.Warn("notification dropped, fanout buffer full",
			"deliveryId", notification.DeliveryID.String(),
			"toStatus", notification.ToStatus.String())
	}
}

// Close stops the fanout goroutine. Notifications published after Close are
// discarded.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	close(d.done)
}

func (d *Dispatcher) run() {
	for {
		select {
		case notification := <-d.events:
			d.broadcast(notification)
		case <-d.done:
			return
		}
	}
}

// broadcast sends to a snapshot of the subscriber set taken at dispatch time.
// Subscribers added while the sends run catch the next event; a failed send
// drops that subscriber without affecting the rest.
func (d *Dispatcher) broadcast(notification ports.TransitionNotification) {
	deliveryID := notification.DeliveryID.String()

	d.mu.Lock()
	set := d.registry[deliveryID]
	snapshot := make([]Subscriber, 0, len(set))
	for sub := range set {
		snapshot = append(snapshot, sub)
	}
	d.mu.Unlock()

	for _, sub := range snapshot {
		if err := sub.Send(notification); err != nil {
			d.log.Info("subscriber dropped after failed send",
				"deliveryId", deliveryID, "error", err)

			d.mu.Lock()
			d.remove(deliveryID, sub)
			d.mu.Unlock()
		}
	}
}

// remove deletes the subscriber and prunes the empty set. Callers hold d.mu.
func (d *Dispatcher) remove(deliveryID string, sub Subscriber) {
	set, ok := d.registry[deliveryID]
	if !ok {
		return
	}

	delete(set, sub)
	if len(set) == 0 {
		delete(d.registry, deliveryID)
	}
}
