package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryChannel_SubscribeAndEmit(t *testing.T) {
	ch := NewMemoryChannel()

	var got []string
	ch.Subscribe(EventGuestUpdated, func(data json.RawMessage) {
		got = append(got, string(data))
	})

	require.NoError(t, ch.Emit(context.Background(), EventGuestUpdated, map[string]string{"id": "1"}))
	require.NoError(t, ch.Emit(context.Background(), EventNewGuest, map[string]string{"id": "2"}))

	require.Len(t, got, 1, "handlers only see their own event name")
	assert.JSONEq(t, `{"id":"1"}`, got[0])
}

func TestMemoryChannel_Unsubscribe(t *testing.T) {
	ch := NewMemoryChannel()

	var calls int
	unsubscribe := ch.Subscribe(EventNewGuest, func(json.RawMessage) { calls++ })

	ch.Deliver(EventNewGuest, json.RawMessage(`{}`))
	unsubscribe()
	ch.Deliver(EventNewGuest, json.RawMessage(`{}`))

	assert.Equal(t, 1, calls)
}

func TestMemoryChannel_DeliveryOrderIsFIFO(t *testing.T) {
	ch := NewMemoryChannel()

	var order []string
	ch.Subscribe(EventNewGuest, func(data json.RawMessage) {
		order = append(order, string(data))
	})

	ch.Deliver(EventNewGuest, json.RawMessage(`"a"`))
	ch.Deliver(EventNewGuest, json.RawMessage(`"b"`))
	ch.Deliver(EventNewGuest, json.RawMessage(`"c"`))

	assert.Equal(t, []string{`"a"`, `"b"`, `"c"`}, order)
}

func TestMemoryChannel_Reconnect(t *testing.T) {
	ch := NewMemoryChannel()

	var fired int
	ch.OnReconnect(func() { fired++ })
	ch.FireReconnect()
	ch.FireReconnect()

	assert.Equal(t, 2, fired)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	raw := []byte(`{"event":"update_Guest","data":{"id":"g1","name":"Ana"}}`)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, EventGuestUpdated, env.Event)
	assert.JSONEq(t, `{"id":"g1","name":"Ana"}`, string(env.Data))
}
