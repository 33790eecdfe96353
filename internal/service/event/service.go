package event

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

// EventService publishes domain events after the owning transaction has
// committed. Publishing is best effort: a failure is logged and counted but
// never undoes or fails the operation that produced the event.
type EventService struct {
	publisher messaging.Publisher
	metrics   *metrics.Metrics
}

func NewEventService(publisher messaging.Publisher, m *metrics.Metrics) *EventService {
	if publisher == nil {
		publisher = messaging.NopPublisher()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &EventService{publisher: publisher, metrics: m}
}

func (s *EventService) Emit(ctx context.Context, eventType string, payload interface{}) {
	event := messaging.NewEvent(eventType, payload)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.EventsFailed.WithLabelValues(eventType).Inc()
		log.Ctx(ctx).Warn().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", eventType).
			Msg("Failed to publish event")
		return
	}
	s.metrics.EventsPublished.WithLabelValues(eventType).Inc()
}
