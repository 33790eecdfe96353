package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventProcedureAssigned, map[string]int{"id": 1})
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventProcedureAssigned, e.Type)
	assert.False(t, e.OccurredAt.IsZero())
}

func TestMemoryBroker_RecordsEvents(t *testing.T) {
	b := NewMemoryBroker()
	ctx := context.Background()

	require.NoError(t, b.Publish(ctx, NewEvent(EventPatientCreated, nil)))
	require.NoError(t, b.Publish(ctx, NewEvent(EventPatientDeleted, nil)))

	events := b.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventPatientCreated, events[0].Type)

	require.NoError(t, b.Close())
	assert.Error(t, b.Publish(ctx, NewEvent(EventPatientCreated, nil)))
}

func TestConsume_DeliversEvents(t *testing.T) {
	b := NewMemoryBroker()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	received := make(chan Event, 1)
	done := make(chan error, 1)
	go func() {
		done <- Consume(ctx, b, func(_ context.Context, e Event) error {
			received <- e
			return errors.New("handler errors are not fatal")
		})
	}()

	// Wait for the subscription to be registered.
	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(b.subscribers) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, b.Publish(ctx, NewEvent(EventProcedureAssigned, map[string]int{"id": 3})))

	select {
	case e := <-received:
		assert.Equal(t, EventProcedureAssigned, e.Type)
	case <-ctx.Done():
		t.Fatal("event not delivered")
	}

	require.NoError(t, b.Close())
	assert.NoError(t, <-done)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher().Publish(context.Background(), NewEvent("x", nil)))
}
