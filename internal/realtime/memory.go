package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryChannel is an in-process Channel used in tests and offline runs.
// Emitted payloads are delivered synchronously to local subscribers, which
// makes interleavings deterministic.
type MemoryChannel struct {
	mu        sync.RWMutex
	handlers  map[string][]subscription
	reconnect []func()
	nextSubID int
}

// NewMemoryChannel creates an empty in-memory channel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{handlers: make(map[string][]subscription)}
}

// Subscribe registers a handler for a named event.
func (c *MemoryChannel) Subscribe(event string, h Handler) func() {
	c.mu.Lock()
	c.nextSubID++
	id := c.nextSubID
	c.handlers[event] = append(c.handlers[event], subscription{id: id, h: h})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		subs := c.handlers[event]
		for i, s := range subs {
			if s.id == id {
				c.handlers[event] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers a snapshot to every local subscriber of the event.
func (c *MemoryChannel) Emit(_ context.Context, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	c.Deliver(event, raw)
	return nil
}

// Deliver pushes a raw inbound notification, as if another client had
// published it.
func (c *MemoryChannel) Deliver(event string, data json.RawMessage) {
	c.mu.RLock()
	subs := make([]subscription, len(c.handlers[event]))
	copy(subs, c.handlers[event])
	c.mu.RUnlock()
	for _, s := range subs {
		s.h(data)
	}
}

// OnReconnect registers a reconnect hook.
func (c *MemoryChannel) OnReconnect(fn func()) {
	c.mu.Lock()
	c.reconnect = append(c.reconnect, fn)
	c.mu.Unlock()
}

// FireReconnect simulates the connection coming back after a drop.
func (c *MemoryChannel) FireReconnect() {
	c.mu.RLock()
	hooks := make([]func(), len(c.reconnect))
	copy(hooks, c.reconnect)
	c.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// Close is a no-op for the in-memory channel.
func (c *MemoryChannel) Close() {}
