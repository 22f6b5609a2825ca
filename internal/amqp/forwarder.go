package amqp

import (
	"context"

	"github.com/pettracker/pet/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Forwarder republishes domain events from the in-process bus to the broker.
// Broker failures are logged and never reach the code that raised the event.
type Forwarder struct {
	publisher   Publisher
	unsubscribe func()
}

func NewForwarder(publisher Publisher) *Forwarder {
	return &Forwarder{publisher: publisher}
}

// Start subscribes to every domain event type on bus.
func (f *Forwarder) Start(bus *event_bus.EventBus) {
	f.unsubscribe = bus.SubscribeAll(event_bus.AllEventTypes, f.forward)
}

func (f *Forwarder) Stop() {
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

func (f *Forwarder) forward(e event_bus.Event) error {
	body, err := NewEventMessage(e).ToJSON()
	if err != nil {
		log.Errorf("failed to encode event %s: %v", e.Type, err)
		return nil
	}
	// the request context may already be done once the response is written
	ctx := context.WithoutCancel(e.Context())
	if err := f.publisher.Publish(ctx, string(e.Type), body); err != nil {
		log.WithField("event", e.Type).Warnf("failed to forward event: %v", err)
		return nil
	}
	log.WithField("event", e.Type).Debug("event forwarded")
	return nil
}
