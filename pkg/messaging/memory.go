package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryBroker is an in-process Broker. It keeps every published event and
// fans the encoded envelope out to live subscribers.
type MemoryBroker struct {
	mu          sync.Mutex
	events      []Event
	subscribers map[chan []byte]struct{}
	closed      bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subscribers: make(map[chan []byte]struct{})}
}

func (b *MemoryBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("broker is closed")
	}
	b.events = append(b.events, event)
	for ch := range b.subscribers {
		select {
		case ch <- payload:
		default:
			// slow subscriber; drop
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan []byte, error) {
	ch := make(chan []byte, 100)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}
	b.subscribers[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
	}()
	return ch, nil
}

// Events returns a copy of everything published so far.
func (b *MemoryBroker) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
	return nil
}

var _ Broker = (*MemoryBroker)(nil)
