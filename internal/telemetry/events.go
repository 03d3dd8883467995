package telemetry

import (
	"context"
	"log"
	"time"
)

// Publisher is the broker-facing half of event emission.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// EventEmitter sends domain events (registrations, logins, sent messages) to
// the event stream. A nil emitter or nil publisher is safe and does nothing.
type EventEmitter struct {
	publisher   Publisher
	service     string
	environment string
}

// EventEnvelope is the wire form of a domain event.
type EventEnvelope struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	Environment   string `json:"environment"`
	RequestID     string `json:"request_id"`
	UserID        int    `json:"user_id,omitempty"`
	Payload       any    `json:"payload,omitempty"`
}

// NewEventEmitter builds an EventEmitter.
func NewEventEmitter(publisher Publisher, service, environment string) *EventEmitter {
	return &EventEmitter{
		publisher:   publisher,
		service:     service,
		environment: environment,
	}
}

// Emit publishes one event. Failures are logged, never propagated; event
// delivery must not fail the request that produced it.
func (e *EventEmitter) Emit(ctx context.Context, eventType, requestID string, userID int, payload any) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := EventEnvelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		UserID:        userID,
		Payload:       payload,
	}

	if err := e.publisher.Publish(ctx, eventType, envelope); err != nil {
		log.Printf("event emit failed: event_type=%s request_id=%s err=%v", eventType, requestID, err)
	}
}
