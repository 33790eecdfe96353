package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventProcedureAssigned = "procedure.assigned"
	EventPatientCreated    = "patient.created"
	EventPatientDeleted    = "patient.deleted"
	EventDepartmentDeleted = "department.deleted"
	EventClinicianDeleted  = "clinician.deleted"
	EventCareTeamChanged   = "care_team.changed"
)

// Event is the envelope of every message put on the bus.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher defines the interface for publishing messages
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Broker defines the interface for message brokers
type Broker interface {
	Publisher
	Subscribe(ctx context.Context) (<-chan []byte, error)
	Close() error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// NopPublisher discards every event.
func NopPublisher() Publisher {
	return nopPublisher{}
}
