package messaging

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Handler processes one decoded event.
type Handler func(ctx context.Context, event Event) error

// Consume subscribes to the broker and feeds every event to handler until ctx
// is cancelled or the subscription ends. Undecodable messages and handler
// errors are logged and skipped.
func Consume(ctx context.Context, broker Broker, handler Handler) error {
	msgs, err := broker.Subscribe(ctx)
	if err != nil {
		return err
	}

	logger := log.Ctx(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal(msg, &event); err != nil {
				logger.Warn().Err(err).Msg("Skipping undecodable event")
				continue
			}
			if err := handler(ctx, event); err != nil {
				logger.Error().Err(err).
					Str("event_id", event.ID).
					Str("event_type", event.Type).
					Msg("Event handler failed")
			}
		}
	}
}
