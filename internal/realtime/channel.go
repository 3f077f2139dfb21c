// Package realtime is the push-notification side of the client: a
// persistent channel delivering full entity snapshots whenever any client
// changes a guest or event. The consuming stores rely on idempotent merges
// rather than ordering guarantees, so the only contract here is
// per-connection FIFO dispatch.
package realtime

import (
	"context"
	"encoding/json"
)

// Channel event names shared by all clients.
const (
	EventNewEvent     = "new_event"
	EventGuestUpdated = "update_Guest"
	EventNewGuest     = "new_Guest"
)

// Handler receives the raw JSON snapshot carried by one notification.
type Handler func(data json.RawMessage)

// Channel is the subscribe/emit contract the sync layer depends on. The
// connection itself reconnects transparently; OnReconnect lets consumers
// repair missed notifications with a full refetch, since the channel has
// no replay.
type Channel interface {
	// Subscribe registers a handler for a named event and returns a
	// function that removes it.
	Subscribe(event string, h Handler) (unsubscribe func())

	// Emit publishes a snapshot under a named event to all other clients.
	Emit(ctx context.Context, event string, data any) error

	// OnReconnect registers a hook fired after the connection is
	// re-established following a drop.
	OnReconnect(fn func())

	// Close tears the connection down.
	Close()
}

// envelope is the wire shape of one notification.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
