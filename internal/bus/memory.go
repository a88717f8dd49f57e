package bus

import (
	"context"
	"sync"
)

// MemoryBus is an in-process EventBus for tests: Publish records the
// payload and delivers it synchronously to any subscribed handlers, so a
// test can drive the consumer with the exact payload the service produced.
type MemoryBus struct {
	mu        sync.Mutex
	published map[string][]string
	handlers  map[string][]Handler
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		published: make(map[string][]string),
		handlers:  make(map[string][]Handler),
	}
}

func (b *MemoryBus) Publish(ctx context.Context, channel, payload string) {
	b.mu.Lock()
	b.published[channel] = append(b.published[channel], payload)
	handlers := append([]Handler(nil), b.handlers[channel]...)
	b.mu.Unlock()

	for _, h := range handlers {
		_ = h(ctx, payload)
	}
}

func (b *MemoryBus) Subscribe(channel string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[channel] = append(b.handlers[channel], handler)
}

// Published returns every payload published to channel, in order.
func (b *MemoryBus) Published(channel string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.published[channel]...)
}
