// Package events is the in-process publish-subscribe port behind the live
// event stream. Delivery is best-effort: there is no persistence and no
// backpressure, a subscriber that cannot keep up loses frames.
package events

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
)

const subscriberBuffer = 16

// Broker fans events out to all current subscribers.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]chan models.Event
	logger *zap.Logger
}

// NewBroker creates a Broker.
func NewBroker(logger *zap.Logger) *Broker {
	return &Broker{
		subs:   make(map[string]chan models.Event),
		logger: logger.Named("event_broker"),
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
// The caller must Unsubscribe with the id when done.
func (b *Broker) Subscribe() (string, <-chan models.Event) {
	id := uuid.NewString()
	ch := make(chan models.Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	b.logger.Debug("subscriber added", zap.String("id", id))
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(id string) {
	b.mu.Lock()
	ch, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()

	if ok {
		close(ch)
		b.logger.Debug("subscriber removed", zap.String("id", id))
	}
}

// Publish delivers the event to every subscriber. Subscribers with a full
// buffer are skipped.
func (b *Broker) Publish(event models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.logger.Warn("subscriber buffer full, dropping event",
				zap.String("id", id), zap.String("event", event.Event))
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
