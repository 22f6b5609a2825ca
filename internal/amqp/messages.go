package amqp

import (
	"encoding/json"
	"time"

	"github.com/pettracker/pet/internal/event_bus"
)

// EventMessage is the body published for every domain event.
type EventMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

func NewEventMessage(e event_bus.Event) EventMessage {
	return EventMessage{
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		Data:      e.Data,
	}
}

func (m EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
